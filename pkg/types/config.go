// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-assistant/0.1"). Per prd002-acquisition R4.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AcquisitionConfig holds settings for the content acquisition stage.
// Per prd002-acquisition R5.1-R5.3.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline"`

	// UploadsDir is where uploaded documents are stored by the HTTP API.
	UploadsDir string `json:"uploads_dir" yaml:"uploads_dir"`

	// ChunkSize is the target chunk length in characters (default 1000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks (default 200).
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`

	// Runtime selects the container runtime used for PDF conversion:
	// "docker", "podman", or "auto" (default).
	Runtime string `json:"runtime" yaml:"runtime"`
}

// GraphConfig holds the citation graph store connection settings.
// Per prd004-citation-graph R5.1-R5.4.
type GraphConfig struct {
	// Driver selects the store: "neo4j" (default) or "memory".
	Driver string `json:"driver" yaml:"driver"`

	// URI is the bolt/neo4j connection URI (e.g. "bolt://localhost:7687").
	URI string `json:"uri" yaml:"uri"`

	// User is the database user (default "neo4j").
	User string `json:"user" yaml:"user"`

	// Password authenticates User. Usually supplied via .secrets/neo4j-password.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// Database is the target database name; empty selects the server default.
	Database string `json:"database,omitempty" yaml:"database,omitempty"`

	// ProbeTimeout bounds the connectivity probe at construction (default 5s).
	// The probe must fail fast rather than hang service startup.
	ProbeTimeout time.Duration `json:"probe_timeout" yaml:"probe_timeout"`
}

// MemoryConfig holds the interaction memory log settings.
// Per prd005-memory R5.1.
type MemoryConfig struct {
	// Path is the append-only log file (default "data/memory.jsonl").
	Path string `json:"path" yaml:"path"`

	// ContextEntries is the number of prior entries rendered into a
	// query context block (default 3).
	ContextEntries int `json:"context_entries" yaml:"context_entries"`
}

// AIConfig holds shared settings for components that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// BaseURL is the API endpoint; empty uses the OpenAI default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RAGConfig holds settings for the retrieval/generation service.
// Per prd006-retrieval R5.1-R5.4.
type RAGConfig struct {
	AIConfig `yaml:",inline"`

	// IndexDir is the directory holding the chunk index database
	// (default "data/index").
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// RetrieveChunks is the number of chunks stuffed into answer prompts
	// (default 5).
	RetrieveChunks int `json:"retrieve_chunks" yaml:"retrieve_chunks"`
}

// ServeConfig holds HTTP API settings for the serve command.
type ServeConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// Mode selects gin's mode: "debug" or "release".
	Mode string `json:"mode" yaml:"mode"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Acquisition AcquisitionConfig `json:"acquisition" yaml:"acquisition"`
	Graph       GraphConfig       `json:"graph" yaml:"graph"`
	Memory      MemoryConfig      `json:"memory" yaml:"memory"`
	RAG         RAGConfig         `json:"rag" yaml:"rag"`
	Serve       ServeConfig       `json:"serve" yaml:"serve"`
}
