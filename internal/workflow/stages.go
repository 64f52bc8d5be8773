// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"fmt"

	"github.com/pdiddy/research-assistant/internal/acquire"
	"github.com/pdiddy/research-assistant/internal/extract"
	"github.com/pdiddy/research-assistant/pkg/types"
)

const (
	// graphCitations caps how many extracted citations become graph edges
	// per document (R4.3).
	graphCitations = 10

	// relatedLimit caps the graph relevance query attached to the state.
	relatedLimit = 5

	// abstractWindow bounds the summary excerpt stored on the graph node.
	abstractWindow = 500
)

// acquireStage loads the input content via the path chosen by
// classification. Both acquirers return text plus source metadata.
func (o *Orchestrator) acquireStage(ctx context.Context, s *types.WorkflowState) error {
	var content *acquire.Content
	var err error
	switch s.Kind {
	case types.KindDocument:
		if o.docs == nil {
			return fmt.Errorf("no document reader configured")
		}
		content, err = o.docs.Read(s.RawInput)
	case types.KindWebPage:
		if o.web == nil {
			return fmt.Errorf("no web scraper configured")
		}
		content, err = o.web.Scrape(ctx, s.RawInput)
	default:
		return fmt.Errorf("kind %q does not acquire content", s.Kind)
	}
	if err != nil {
		return err
	}

	s.Text = content.Text
	for k, v := range content.Metadata {
		s.Metadata[k] = v
	}
	return nil
}

// extractStage pulls citations, key concepts, and chunks out of the
// acquired text.
func (o *Orchestrator) extractStage(_ context.Context, s *types.WorkflowState) error {
	if s.Text == "" {
		return fmt.Errorf("no text to extract from")
	}
	s.Citations = extract.Citations(s.Text)
	s.KeyConcepts = extract.KeyConcepts(s.Text)
	s.Chunks = extract.Chunks(s.Text, o.cfg.Acquisition.ChunkSize, o.cfg.Acquisition.ChunkOverlap)
	if len(s.Chunks) == 0 {
		return fmt.Errorf("chunking produced no chunks")
	}
	return nil
}

// summarizeStage indexes the chunks and generates the summary. Indexing
// happens first so a later query can retrieve this document even when
// generation fails.
func (o *Orchestrator) summarizeStage(ctx context.Context, s *types.WorkflowState) error {
	docID := o.documentID(s)
	if err := o.rag.IndexDocument(ctx, docID, o.title(s), s.Chunks, s.Metadata); err != nil {
		return err
	}
	summary, err := o.rag.Summarize(ctx, s.Text)
	if err != nil {
		return err
	}
	s.Summary = summary
	return nil
}

// relatedWorkStage asks the generator for reading suggestions from the
// generated summary and the extracted citations. Best effort.
func (o *Orchestrator) relatedWorkStage(ctx context.Context, s *types.WorkflowState) error {
	summary, _ := s.Summary["full_summary"].(string)
	suggestions, err := o.rag.RelatedWork(ctx, summary, s.Citations)
	if err != nil {
		return err
	}
	if len(suggestions) > 0 {
		if s.Summary == nil {
			s.Summary = map[string]any{}
		}
		s.Summary["suggested_reading"] = suggestions
	}
	return nil
}

// graphStage records the run in the citation graph, then attaches the
// relevance query result. Document runs carry citations and an author;
// query runs upsert a bare node under the raw input with title "Unknown".
// Best effort: a dead graph backend degrades to empty results without
// failing the run (R3.2).
func (o *Orchestrator) graphStage(ctx context.Context, s *types.WorkflowState) error {
	docID := o.documentID(s)
	paper := types.Paper{
		ID:       docID,
		Title:    o.title(s),
		Abstract: o.abstract(s),
	}
	if author, ok := s.Metadata["author"].(string); ok && author != "" {
		paper.Authors = []string{author}
	}
	if err := o.graph.UpsertPaper(ctx, paper); err != nil {
		return err
	}

	citations := s.Citations
	if len(citations) > graphCitations {
		citations = citations[:graphCitations]
	}
	if err := o.graph.AddCitations(ctx, docID, citations); err != nil {
		return err
	}

	related, err := o.graph.FindRelated(ctx, docID, relatedLimit)
	if err != nil {
		return err
	}
	s.RelatedPapers = related
	return nil
}

// answerStage handles the direct-query path: retrieve, generate, and
// store the answer under the "answer" key.
func (o *Orchestrator) answerStage(ctx context.Context, s *types.WorkflowState) error {
	answer, err := o.rag.Answer(ctx, s.RawInput, s.MemoryContext)
	if err != nil {
		return err
	}
	s.Summary = map[string]any{"answer": answer}
	return nil
}

// memoryStage appends the interaction to the memory log. Document and
// web runs record a document entry; queries record a query entry (R4.2).
func (o *Orchestrator) memoryStage(_ context.Context, s *types.WorkflowState) error {
	if o.memory == nil {
		return fmt.Errorf("no memory log configured")
	}
	if s.Kind == types.KindQuery {
		answer, _ := s.Summary["answer"].(string)
		return o.memory.AppendQuery(s.RawInput, answer, map[string]any{"kind": string(s.Kind)})
	}
	summary, _ := s.Summary["full_summary"].(string)
	return o.memory.AppendDocument(o.documentID(s), o.title(s), summary, s.KeyConcepts, s.Citations)
}

// documentID derives the stable graph and index id from the acquisition
// source, falling back to the raw input.
func (o *Orchestrator) documentID(s *types.WorkflowState) string {
	if src, ok := s.Metadata["source"].(string); ok && src != "" {
		return src
	}
	return s.RawInput
}

func (o *Orchestrator) title(s *types.WorkflowState) string {
	if t, ok := s.Metadata["title"].(string); ok && t != "" {
		return t
	}
	return "Unknown"
}

// abstract bounds the summary excerpt to abstractWindow characters,
// cutting at a rune boundary so multi-byte text survives intact.
func (o *Orchestrator) abstract(s *types.WorkflowState) string {
	summary, _ := s.Summary["full_summary"].(string)
	if len(summary) <= abstractWindow {
		return summary
	}
	runes := []rune(summary)
	if len(runes) <= abstractWindow {
		return summary
	}
	return string(runes[:abstractWindow])
}
