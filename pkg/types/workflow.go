// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// InputKind classifies a raw input string into one of the three processing
// paths. Classification is total: every input maps to exactly one kind.
// Per prd001-workflow R1.1.
type InputKind string

const (
	KindDocument InputKind = "document"
	KindWebPage  InputKind = "url"
	KindQuery    InputKind = "query"
)

// WorkflowState carries the intermediate and final outputs of one pipeline
// invocation. It is created fresh per invocation and never persisted.
// Per prd001-workflow R2.1-R2.3.
type WorkflowState struct {
	// RawInput is the unmodified input string: a document path, a URL, or
	// a free-text question.
	RawInput string `json:"raw_input" yaml:"raw_input"`

	// Kind is the classification result for RawInput.
	Kind InputKind `json:"kind" yaml:"kind"`

	// Text is the full extracted text for document and web inputs.
	Text string `json:"-" yaml:"-"`

	// Metadata holds acquisition metadata (title, author, source, ...).
	Metadata map[string]any `json:"metadata" yaml:"metadata"`

	// Chunks is the ordered split of Text for indexing. Empty on the
	// direct-query path.
	Chunks []string `json:"-" yaml:"-"`

	// Citations are the deduplicated citation strings found in Text.
	Citations []string `json:"citations" yaml:"citations"`

	// KeyConcepts are the bounded key-concept strings found in Text.
	KeyConcepts []string `json:"key_concepts" yaml:"key_concepts"`

	// Summary holds the generated summary under "full_summary", or the
	// direct answer under "answer" on the query path.
	Summary map[string]any `json:"summary" yaml:"summary"`

	// RelatedPapers holds the citation-graph relevance query result.
	// Empty when the graph stage fails or the store is unavailable.
	RelatedPapers []PaperRef `json:"related_papers" yaml:"related_papers"`

	// MemoryContext is the rendered context block from prior interactions.
	MemoryContext string `json:"memory_context,omitempty" yaml:"memory_context,omitempty"`

	// StatusLog records one message per completed, warned, or failed stage,
	// in execution order. Append-only: never reordered or truncated.
	StatusLog []string `json:"status_log" yaml:"status_log"`

	// FatalError is set when a critical stage fails. Once set, no stage
	// mutates Text, Summary, or Citations; remaining stages are skipped.
	FatalError string `json:"fatal_error,omitempty" yaml:"fatal_error,omitempty"`
}

// Failed reports whether a critical stage has recorded a fatal error.
func (s *WorkflowState) Failed() bool {
	return s.FatalError != ""
}

// Log appends a status message. StatusLog is the only field a stage may
// still touch after FatalError is set.
func (s *WorkflowState) Log(msg string) {
	s.StatusLog = append(s.StatusLog, msg)
}
