// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/acquire"
	"github.com/pdiddy/research-assistant/internal/citegraph"
	"github.com/pdiddy/research-assistant/internal/container"
	"github.com/pdiddy/research-assistant/internal/logging"
	"github.com/pdiddy/research-assistant/internal/memlog"
	"github.com/pdiddy/research-assistant/internal/rag"
	"github.com/pdiddy/research-assistant/internal/workflow"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// pipelineConfig resolves the full configuration from viper with defaults.
func pipelineConfig() types.PipelineConfig {
	v := viper.GetViper()
	v.SetDefault("acquisition.uploads_dir", "data/uploads")
	v.SetDefault("acquisition.chunk_size", 1000)
	v.SetDefault("acquisition.chunk_overlap", 200)
	v.SetDefault("acquisition.timeout", "30s")
	v.SetDefault("acquisition.user_agent", "research-assistant/0.1")
	v.SetDefault("acquisition.runtime", "auto")
	v.SetDefault("graph.driver", "neo4j")
	v.SetDefault("graph.uri", "bolt://localhost:7687")
	v.SetDefault("graph.user", "neo4j")
	v.SetDefault("graph.probe_timeout", "5s")
	v.SetDefault("memory.path", "data/memory.jsonl")
	v.SetDefault("memory.context_entries", 3)
	v.SetDefault("rag.index_dir", "data/index")
	v.SetDefault("rag.retrieve_chunks", 5)
	v.SetDefault("rag.model", "gpt-4o-mini")
	v.SetDefault("rag.max_retries", 3)
	v.SetDefault("serve.addr", ":8000")
	v.SetDefault("serve.mode", "release")

	return types.PipelineConfig{
		Acquisition: types.AcquisitionConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("acquisition.timeout"),
				UserAgent: v.GetString("acquisition.user_agent"),
			},
			UploadsDir:   v.GetString("acquisition.uploads_dir"),
			ChunkSize:    v.GetInt("acquisition.chunk_size"),
			ChunkOverlap: v.GetInt("acquisition.chunk_overlap"),
			Runtime:      v.GetString("acquisition.runtime"),
		},
		Graph: types.GraphConfig{
			Driver:       v.GetString("graph.driver"),
			URI:          v.GetString("graph.uri"),
			User:         v.GetString("graph.user"),
			Password:     secretDefault("neo4j-password", v.GetString("graph.password")),
			Database:     v.GetString("graph.database"),
			ProbeTimeout: v.GetDuration("graph.probe_timeout"),
		},
		Memory: types.MemoryConfig{
			Path:           v.GetString("memory.path"),
			ContextEntries: v.GetInt("memory.context_entries"),
		},
		RAG: types.RAGConfig{
			AIConfig: types.AIConfig{
				Model:      v.GetString("rag.model"),
				BaseURL:    v.GetString("rag.base_url"),
				APIKey:     secretDefault("openai-api-key", v.GetString("rag.api_key")),
				MaxRetries: v.GetInt("rag.max_retries"),
			},
			IndexDir:       v.GetString("rag.index_dir"),
			RetrieveChunks: v.GetInt("rag.retrieve_chunks"),
		},
		Serve: types.ServeConfig{
			Addr: v.GetString("serve.addr"),
			Mode: v.GetString("serve.mode"),
		},
	}
}

// newLogger builds the structured logger, honoring --verbose.
func newLogger() (*zap.SugaredLogger, error) {
	mode := "production"
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		mode = "development"
	}
	return logging.New(mode)
}

// components bundles the assembled pipeline with its teardown.
type components struct {
	cfg    types.PipelineConfig
	orch   *workflow.Orchestrator
	rag    rag.Service
	graph  citegraph.Store
	memory *memlog.Log
	log    *zap.SugaredLogger
}

// close releases everything in reverse construction order.
func (c *components) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.rag.Close()
	c.graph.Close(ctx)
	c.memory.Close()
	c.log.Sync()
}

// buildComponents assembles the pipeline from configuration. The graph
// store comes back unavailable rather than failing when its backend is
// down; everything else is required.
func buildComponents() (*components, error) {
	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	cfg := pipelineConfig()
	if err := ensureDataDirs(cfg); err != nil {
		return nil, err
	}

	memory, err := memlog.Open(cfg.Memory.Path)
	if err != nil {
		return nil, err
	}

	index, err := rag.OpenIndex(cfg.RAG.IndexDir)
	if err != nil {
		memory.Close()
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Acquisition.Timeout}
	generator := rag.NewOpenAIGenerator(cfg.RAG.AIConfig, httpClient, log)
	ragSvc := rag.NewService(index, generator, cfg.RAG.RetrieveChunks, log)

	graph := citegraph.New(cfg.Graph, log)

	rt, err := container.DetectRuntime(cfg.Acquisition.Runtime)
	if err != nil {
		// PDF conversion degrades; text formats and URLs still work.
		log.Warnw("no container runtime detected", "err", err)
		rt = nil
	}
	docs := acquire.NewDocumentReader(rt)
	web := acquire.NewWebScraper(httpClient, cfg.Acquisition, docs)

	orch := workflow.NewOrchestrator(docs, web, ragSvc, graph, memory, cfg, log)

	return &components{
		cfg:    cfg,
		orch:   orch,
		rag:    ragSvc,
		graph:  graph,
		memory: memory,
		log:    log,
	}, nil
}

// ensureDataDirs creates the working directories buildComponents expects.
func ensureDataDirs(cfg types.PipelineConfig) error {
	dirs := []string{cfg.Acquisition.UploadsDir, cfg.RAG.IndexDir}
	if dir := filepath.Dir(cfg.Memory.Path); dir != "." {
		dirs = append(dirs, dir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
