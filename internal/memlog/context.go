// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memlog

import (
	"sort"
	"strings"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// contentWindow bounds the rendered summary/response line in a context block.
const contentWindow = 200

// ContextForQuery scores every entry by whitespace-token overlap with the
// query and renders the top n as a context block (R3.1-R3.4). Entries with
// zero overlap are dropped; an empty result renders as the empty string.
//
// Scoring tokenizes the query and the entry's concatenated query, summary,
// and title fields, lower-cased; the score is the size of the token-set
// intersection. The sort is stable: ties keep insertion order.
func (l *Log) ContextForQuery(query string, n int) string {
	l.mu.Lock()
	entries := make([]types.MemoryEntry, len(l.entries))
	copy(entries, l.entries)
	l.mu.Unlock()

	if n <= 0 {
		n = 3
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return ""
	}

	type scored struct {
		score int
		entry types.MemoryEntry
	}
	var candidates []scored
	for _, e := range entries {
		text := e.Query + " " + e.Summary + " " + e.Title
		score := overlap(queryTokens, tokenize(text))
		if score > 0 {
			candidates = append(candidates, scored{score: score, entry: e})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	var parts []string
	for _, c := range candidates {
		e := c.entry
		// Title-bearing entries render as documents; everything else as a
		// prior query. First present field wins, matching search precedence.
		if e.Title != "" {
			parts = append(parts, "Document: "+e.Title)
			if e.Summary != "" {
				parts = append(parts, "Summary: "+truncate(e.Summary, contentWindow))
			}
		} else if e.Query != "" {
			parts = append(parts, "Previous query: "+e.Query)
			if e.Response != "" {
				parts = append(parts, "Response: "+truncate(e.Response, contentWindow))
			}
		}
	}

	return strings.Join(parts, "\n\n")
}

// tokenize splits on whitespace and lower-cases, returning a token set.
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(text)) {
		tokens[f] = true
	}
	return tokens
}

// overlap counts tokens present in both sets.
func overlap(a, b map[string]bool) int {
	count := 0
	for t := range a {
		if b[t] {
			count++
		}
	}
	return count
}

// truncate bounds s to max characters, cutting at a rune boundary, and
// always appends the ellipsis marker so rendered content lines share one
// shape regardless of length.
func truncate(s string, max int) string {
	if len(s) > max {
		if runes := []rune(s); len(runes) > max {
			s = string(runes[:max])
		}
	}
	return s + "..."
}
