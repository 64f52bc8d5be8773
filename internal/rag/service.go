// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service is the retrieval and generation surface used by the workflow
// and the HTTP API.
type Service interface {
	// IndexDocument stores a document's chunks for later retrieval.
	IndexDocument(ctx context.Context, docID, title string, chunks []string, metadata map[string]any) error

	// Summarize generates a document summary (R3.1). The returned map
	// carries "full_summary" plus a "generated" flag.
	Summarize(ctx context.Context, text string) (map[string]any, error)

	// RelatedWork suggests up to five papers to read next based on the
	// generated summary and the document's citations (R3.3).
	RelatedWork(ctx context.Context, summary string, citations []string) ([]string, error)

	// Answer responds to a query using retrieved chunks and prior
	// session context (R2.3).
	Answer(ctx context.Context, query, memoryContext string) (string, error)

	// SemanticSearch returns the raw retrieval hits for a query (R2.1).
	SemanticSearch(ctx context.Context, query string, limit int) ([]SearchHit, error)

	// Close releases the underlying index.
	Close() error
}

// service combines the chunk index with a text generator.
type service struct {
	index     *Index
	generator Generator
	retrieveN int
	log       *zap.SugaredLogger
}

// NewService wires an index and generator into a Service. retrieveN is
// the number of chunks stuffed into answer prompts; zero uses the
// default of 5.
func NewService(index *Index, generator Generator, retrieveN int, log *zap.SugaredLogger) Service {
	if retrieveN <= 0 {
		retrieveN = 5
	}
	return &service{index: index, generator: generator, retrieveN: retrieveN, log: log}
}

func (s *service) IndexDocument(ctx context.Context, docID, title string, chunks []string, metadata map[string]any) error {
	if err := s.index.Add(ctx, docID, title, chunks, metadata); err != nil {
		return fmt.Errorf("indexing %s: %w", docID, err)
	}
	s.log.Debugw("indexed document", "id", docID, "chunks", len(chunks))
	return nil
}

func (s *service) Summarize(ctx context.Context, text string) (map[string]any, error) {
	out, err := s.generator.GenerateText(ctx, systemPrompt, summaryPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}
	return map[string]any{
		"full_summary": out,
		"generated":    true,
	}, nil
}

func (s *service) RelatedWork(ctx context.Context, summary string, citations []string) ([]string, error) {
	if summary == "" && len(citations) == 0 {
		return nil, nil
	}
	out, err := s.generator.GenerateText(ctx, systemPrompt, relatedWorkPrompt(summary, citations))
	if err != nil {
		return nil, fmt.Errorf("generating related work: %w", err)
	}
	return parseSuggestions(out), nil
}

func (s *service) Answer(ctx context.Context, query, memoryContext string) (string, error) {
	hits, err := s.index.Search(ctx, query, s.retrieveN)
	if err != nil {
		// Retrieval failure degrades to answering without passages.
		s.log.Warnw("chunk retrieval failed", "err", err)
		hits = nil
	}
	out, err := s.generator.GenerateText(ctx, systemPrompt, answerPrompt(query, hits, memoryContext))
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return out, nil
}

func (s *service) SemanticSearch(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	return s.index.Search(ctx, query, limit)
}

func (s *service) Close() error {
	return s.index.Close()
}
