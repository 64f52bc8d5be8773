// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/acquire"
	"github.com/pdiddy/research-assistant/internal/citegraph"
	"github.com/pdiddy/research-assistant/internal/memlog"
	"github.com/pdiddy/research-assistant/internal/rag"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// DocumentAcquirer reads local documents into text plus metadata.
type DocumentAcquirer interface {
	Read(path string) (*acquire.Content, error)
}

// WebAcquirer fetches web content into text plus metadata.
type WebAcquirer interface {
	Scrape(ctx context.Context, url string) (*acquire.Content, error)
}

// stage is one pipeline step. Critical stages abort the run on failure;
// best-effort stages log a warning and let the run continue (R3.1, R3.2).
type stage struct {
	name     string
	critical bool
	run      func(ctx context.Context, s *types.WorkflowState) error
}

// Orchestrator executes the staged pipeline for one input at a time.
// It owns no state between invocations; every Process call builds a
// fresh WorkflowState (R2.1).
type Orchestrator struct {
	docs   DocumentAcquirer
	web    WebAcquirer
	rag    rag.Service
	graph  citegraph.Store
	memory *memlog.Log
	cfg    types.PipelineConfig
	log    *zap.SugaredLogger
}

// NewOrchestrator wires the pipeline components together.
func NewOrchestrator(
	docs DocumentAcquirer,
	web WebAcquirer,
	ragSvc rag.Service,
	graph citegraph.Store,
	memory *memlog.Log,
	cfg types.PipelineConfig,
	log *zap.SugaredLogger,
) *Orchestrator {
	return &Orchestrator{
		docs:   docs,
		web:    web,
		rag:    ragSvc,
		graph:  graph,
		memory: memory,
		cfg:    cfg,
		log:    log,
	}
}

// routes maps each input kind to its stage sequence (R1.3). Document and
// web inputs share everything after acquisition; queries skip acquisition
// and extraction but still flow through the graph and memory updates, so
// every run leaves a node behind (R1.4).
func (o *Orchestrator) routes(kind types.InputKind) []stage {
	ingest := []stage{
		{name: "acquisition", critical: true, run: o.acquireStage},
		{name: "extraction", critical: true, run: o.extractStage},
		{name: "summarization", critical: true, run: o.summarizeStage},
		{name: "related work", critical: false, run: o.relatedWorkStage},
		{name: "graph update", critical: false, run: o.graphStage},
		{name: "memory update", critical: false, run: o.memoryStage},
	}
	query := []stage{
		{name: "answer", critical: true, run: o.answerStage},
		{name: "graph update", critical: false, run: o.graphStage},
		{name: "memory update", critical: false, run: o.memoryStage},
	}
	if kind == types.KindQuery {
		return query
	}
	return ingest
}

// Process runs the full pipeline for one raw input and returns the final
// state. Critical stage failures set FatalError and skip the remaining
// stages; best-effort failures are recorded in the status log only (R3).
func (o *Orchestrator) Process(ctx context.Context, raw string) *types.WorkflowState {
	s := &types.WorkflowState{
		RawInput: raw,
		Kind:     Classify(raw),
		Metadata: map[string]any{},
	}
	s.Log(fmt.Sprintf("Processing: %s", raw))
	o.log.Infow("pipeline start", "kind", s.Kind, "input", raw)

	// Prior-session context is attached before any stage runs (R4.1).
	if o.memory != nil {
		s.MemoryContext = o.memory.ContextForQuery(raw, o.cfg.Memory.ContextEntries)
	}

	for _, st := range o.routes(s.Kind) {
		if err := st.run(ctx, s); err != nil {
			if st.critical {
				s.FatalError = fmt.Sprintf("%s: %v", st.name, err)
				s.Log(fmt.Sprintf("✗ %s failed: %v", st.name, err))
				o.log.Errorw("pipeline aborted", "stage", st.name, "err", err)
				break
			}
			s.Log(fmt.Sprintf("⚠ %s skipped: %v", st.name, err))
			o.log.Warnw("stage degraded", "stage", st.name, "err", err)
			continue
		}
		s.Log(fmt.Sprintf("✓ %s complete", st.name))
	}

	o.log.Infow("pipeline done", "kind", s.Kind, "failed", s.Failed())
	return s
}
