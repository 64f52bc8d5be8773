// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract identifies citations, key concepts, and chunks within
// acquired text. All functions are pure: regex and string work only, no
// network or AI calls.
// Implements: prd003-extraction (R1-R3);
//
//	docs/ARCHITECTURE § Extraction.
package extract

import (
	"regexp"
	"sort"
)

// Citation regex patterns over common academic styles (R1.1).
var (
	// numericCiteRe matches numeric citations like [1], [2], [12].
	numericCiteRe = regexp.MustCompile(`\[(\d+)\]`)

	// etAlCiteRe matches (Author et al., Year) with optional punctuation drift.
	etAlCiteRe = regexp.MustCompile(`\(([A-Z][a-z]+\s+et\s+al\.?,?\s+\d{4})\)`)

	// pairCiteRe matches (Author & Author, Year).
	pairCiteRe = regexp.MustCompile(`\(([A-Z][a-z]+\s+&\s+[A-Z][a-z]+,?\s+\d{4})\)`)

	// singleCiteRe matches (Author, Year).
	singleCiteRe = regexp.MustCompile(`\(([A-Z][a-z]+,?\s+\d{4})\)`)
)

// Citations scans text for inline citation references in the four
// supported styles and returns the deduplicated set. Numeric citations
// keep their brackets ("[1]"); author-year citations drop the enclosing
// parentheses, matching how they are cited downstream (R1.2).
//
// The result is sorted for deterministic output; callers that cap the
// set (the graph update stage caps at 10) therefore cap the same
// citations on every run.
func Citations(text string) []string {
	seen := make(map[string]bool)
	var citations []string

	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			citations = append(citations, c)
		}
	}

	for _, m := range numericCiteRe.FindAllStringSubmatch(text, -1) {
		add("[" + m[1] + "]")
	}
	for _, re := range []*regexp.Regexp{etAlCiteRe, pairCiteRe, singleCiteRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			add(m[1])
		}
	}

	sort.Strings(citations)
	return citations
}
