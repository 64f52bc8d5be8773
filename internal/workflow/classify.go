// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow runs the staged research pipeline: classify input,
// acquire content, extract structure, generate, and record the outcome.
// Implements: prd001-workflow (R1-R5);
//
//	docs/ARCHITECTURE § Workflow.
package workflow

import (
	"strings"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Classify maps a raw input string to its processing path (R1.1).
// Precedence is fixed: document markers win over URL markers, and
// anything unmatched is a query, so classification is total (R1.2).
func Classify(raw string) types.InputKind {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasSuffix(lower, ".pdf") || strings.Contains(lower, "pdf") {
		return types.KindDocument
	}
	if strings.HasPrefix(lower, "http") {
		return types.KindWebPage
	}
	return types.KindQuery
}
