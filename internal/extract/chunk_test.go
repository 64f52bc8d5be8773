// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"testing"
)

func TestChunksShortText(t *testing.T) {
	got := Chunks("a short document", 1000, 200)
	if len(got) != 1 || got[0] != "a short document" {
		t.Errorf("Chunks = %v, want the text as one chunk", got)
	}
}

func TestChunksEmptyText(t *testing.T) {
	for _, text := range []string{"", "   \n\n  "} {
		if got := Chunks(text, 1000, 200); len(got) != 0 {
			t.Errorf("Chunks(%q) = %v, want none", text, got)
		}
	}
}

func TestChunksSplitsLongText(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 20; i++ {
		paragraphs = append(paragraphs, strings.Repeat("word ", 30))
	}
	text := strings.Join(paragraphs, "\n\n")

	size, overlap := 300, 60
	chunks := Chunks(text, size, overlap)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > size+overlap+1 {
			t.Errorf("chunk %d length %d exceeds bound %d", i, len(c), size+overlap+1)
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

func TestChunksOverlapCarriesContext(t *testing.T) {
	var words []string
	for i := 0; i < 200; i++ {
		words = append(words, "token")
	}
	text := strings.Join(words, " ")

	chunks := Chunks(text, 200, 50)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// The start of each later chunk repeats the tail of its predecessor.
	for i := 1; i < len(chunks); i++ {
		head := chunks[i]
		if len(head) > 20 {
			head = head[:20]
		}
		if !strings.Contains(chunks[i-1], strings.TrimSpace(head)) {
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
	}
}

func TestChunksPrefersParagraphBreaks(t *testing.T) {
	text := "first paragraph here.\n\nsecond paragraph here.\n\nthird paragraph here."
	chunks := Chunks(text, 25, 0)

	for i, c := range chunks {
		// No chunk should start or end mid-word.
		if strings.HasPrefix(c, " ") || strings.HasSuffix(c, " ") {
			t.Errorf("chunk %d has ragged whitespace: %q", i, c)
		}
	}
	joined := strings.Join(chunks, " ")
	for _, want := range []string{"first paragraph", "second paragraph", "third paragraph"} {
		if !strings.Contains(joined, want) {
			t.Errorf("chunks lost content %q: %v", want, chunks)
		}
	}
}

func TestChunksHardCutFallback(t *testing.T) {
	// A single unbroken token longer than the chunk size forces hard cuts.
	text := strings.Repeat("x", 2500)
	chunks := Chunks(text, 1000, 0)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks for 2500 unbroken chars, got %d", len(chunks))
	}
	var total int
	for _, c := range chunks {
		total += len(c)
	}
	if total != 2500 {
		t.Errorf("hard cuts lost characters: total %d, want 2500", total)
	}
}

func TestChunksDefaults(t *testing.T) {
	text := strings.Repeat("word ", 600)
	chunks := Chunks(text, 0, -1)
	if len(chunks) == 0 {
		t.Fatalf("defaults produced no chunks")
	}
	for i, c := range chunks {
		if len(c) > DefaultChunkSize+DefaultChunkOverlap+1 {
			t.Errorf("chunk %d length %d exceeds default bound", i, len(c))
		}
	}
}
