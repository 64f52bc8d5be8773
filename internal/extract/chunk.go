// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "strings"

// Default chunking parameters (R3.1).
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// separators is the split preference order: paragraph breaks first, then
// lines, then words, then hard character cuts.
var separators = []string{"\n\n", "\n", " ", ""}

// Chunks splits text into overlapping chunks of at most size characters,
// preferring to break at paragraph and line boundaries (R3.2). Consecutive
// chunks share roughly overlap characters of context so a fact straddling
// a boundary survives in at least one chunk.
func Chunks(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 5
		}
	}

	pieces := splitRecursive(text, size, separators)
	return mergePieces(pieces, size, overlap)
}

// splitRecursive cuts text into pieces no longer than size, trying each
// separator in preference order and falling back to hard cuts.
func splitRecursive(text string, size int, seps []string) []string {
	if len(text) <= size {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	sep := seps[0]
	rest := seps[1:]

	if sep == "" {
		// Hard character cuts as the last resort.
		var out []string
		for len(text) > size {
			out = append(out, text[:size])
			text = text[size:]
		}
		if strings.TrimSpace(text) != "" {
			out = append(out, text)
		}
		return out
	}

	var out []string
	for _, part := range strings.Split(text, sep) {
		if len(part) > size {
			out = append(out, splitRecursive(part, size, rest)...)
			continue
		}
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}

// mergePieces greedily packs pieces into chunks up to size, seeding each
// new chunk with the overlap tail of the previous one.
func mergePieces(pieces []string, size, overlap int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		if overlap > 0 && chunk != "" {
			tail := chunk
			if len(tail) > overlap {
				tail = tail[len(tail)-overlap:]
				// Step forward to a word boundary inside the tail.
				if i := strings.IndexByte(tail, ' '); i >= 0 {
					tail = tail[i+1:]
				}
			}
			current.WriteString(tail)
		}
	}

	for _, piece := range pieces {
		if current.Len() > 0 && current.Len()+len(piece)+1 > size {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(piece)
	}

	if strings.TrimSpace(current.String()) != "" {
		chunk := strings.TrimSpace(current.String())
		if len(chunks) == 0 || chunks[len(chunks)-1] != chunk {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
