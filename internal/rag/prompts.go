// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rag

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// summaryWindow bounds how much document text is stuffed into the
	// summarization prompt (R3.2).
	summaryWindow = 8000

	// promptCitations caps how many citations appear in the related-work
	// prompt (R3.4).
	promptCitations = 20

	// maxSuggestions caps related-work suggestions (R3.5).
	maxSuggestions = 5
)

const systemPrompt = "You are a research assistant that analyzes academic papers and technical documents."

func summaryPrompt(text string) string {
	return fmt.Sprintf(`Provide a comprehensive summary of the following research document.
Cover the main contribution, methodology, and key findings in a few paragraphs.

Document:
%s`, cutRunes(text, summaryWindow))
}

func relatedWorkPrompt(summary string, citations []string) string {
	if len(citations) > promptCitations {
		citations = citations[:promptCitations]
	}
	var b strings.Builder
	b.WriteString("Based on this research paper summary and its citations, suggest up to ")
	fmt.Fprintf(&b, "%d related research papers worth reading next.\n", maxSuggestions)
	b.WriteString("List one suggestion per line as a numbered item with title and a one-sentence reason.\n\n")
	if summary != "" {
		b.WriteString("Summary: " + summary + "\n")
	}
	if len(citations) > 0 {
		b.WriteString("Citations: " + strings.Join(citations, "; ") + "\n")
	}
	return b.String()
}

func answerPrompt(query string, hits []SearchHit, memoryContext string) string {
	var b strings.Builder
	b.WriteString("Answer the question using the context below. If the context is insufficient, say so.\n\n")
	if memoryContext != "" {
		b.WriteString("Previous session context:\n" + memoryContext + "\n\n")
	}
	if len(hits) > 0 {
		b.WriteString("Retrieved passages:\n")
		for i, h := range hits {
			fmt.Fprintf(&b, "[%d] %s\n", i+1, h.Content)
		}
		b.WriteString("\n")
	}
	b.WriteString("Question: " + query)
	return b.String()
}

// cutRunes bounds s to max characters, cutting at a rune boundary so
// multi-byte text never ends mid-sequence.
func cutRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// suggestionLineRe matches numbered or bulleted suggestion lines.
var suggestionLineRe = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*])\s+(.+)$`)

// parseSuggestions extracts suggestion lines from generated text, capped
// at maxSuggestions. Lines that do not look like list items are ignored.
func parseSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := suggestionLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if s := strings.TrimSpace(m[1]); s != "" {
			out = append(out, s)
		}
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
