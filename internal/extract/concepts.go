// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"sort"
	"strings"
)

// maxConcepts bounds the key-concept set per document (R2.2).
const maxConcepts = 20

// minConceptLen drops trivially short matches like "The" or "And".
const minConceptLen = 4

var (
	// abstractRe captures the abstract body up to the next section marker.
	abstractRe = regexp.MustCompile(`(?s)abstract[:\s]+(.+?)(?:introduction|keywords)`)

	// keywordsRe captures a keywords line or block.
	keywordsRe = regexp.MustCompile(`(?s)keywords?[:\s]+(.+?)(?:\n\n|\d+\.?\s+introduction)`)

	// capitalizedRe matches capitalized phrases, the crude stand-in for
	// terminology inside an abstract.
	capitalizedRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

	// keywordSplitRe splits a keywords block on its common delimiters.
	keywordSplitRe = regexp.MustCompile(`[,;·•]`)
)

// KeyConcepts extracts candidate key concepts from the abstract and
// keywords sections of a paper (R2.1). The result is deduplicated,
// bounded to 20 entries, and sorted for deterministic output.
func KeyConcepts(text string) []string {
	lower := strings.ToLower(text)

	seen := make(map[string]bool)
	var concepts []string
	add := func(c string) {
		c = strings.TrimSpace(c)
		if len(c) < minConceptLen || seen[c] {
			return
		}
		seen[c] = true
		concepts = append(concepts, c)
	}

	// Capitalized phrases from the abstract. The section is located in
	// the lower-cased text, then the phrases are pulled from the original
	// casing at the same offsets.
	if loc := abstractRe.FindStringSubmatchIndex(lower); loc != nil {
		abstract := text[loc[2]:loc[3]]
		for _, phrase := range capitalizedRe.FindAllString(abstract, -1) {
			add(phrase)
		}
	}

	// Delimited terms from the keywords section.
	if loc := keywordsRe.FindStringSubmatchIndex(lower); loc != nil {
		block := text[loc[2]:loc[3]]
		for _, kw := range keywordSplitRe.Split(block, -1) {
			add(kw)
		}
	}

	sort.Strings(concepts)
	if len(concepts) > maxConcepts {
		concepts = concepts[:maxConcepts]
	}
	return concepts
}
