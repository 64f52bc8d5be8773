// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rag indexes document chunks and generates summaries, answers,
// and related-work suggestions over them.
// Implements: prd006-retrieval (R1-R5);
//
//	docs/ARCHITECTURE § Retrieval and Generation.
package rag

import "context"

// Generator produces text from a system and user prompt. The production
// implementation calls an OpenAI-compatible chat completions API; tests
// substitute a canned generator.
type Generator interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, system, user string) (string, error)

func (f GeneratorFunc) GenerateText(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}
