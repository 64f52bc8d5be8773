// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire turns input references into raw text plus metadata.
// Implements: prd002-acquisition (R1-R5);
//
//	docs/ARCHITECTURE § Acquisition.
package acquire

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/research-assistant/internal/container"
)

const imageMarkitdown = "markitdown:latest"

// Content is the outcome of an acquisition: raw text plus source metadata.
type Content struct {
	Text     string
	Metadata map[string]any
}

// DocumentReader acquires local documents. PDFs are piped through the
// markitdown container image; Markdown and plain text are read directly.
type DocumentReader struct {
	runtime container.Runtime
}

// NewDocumentReader creates a reader backed by the given container runtime.
// The runtime may be nil, in which case PDF acquisition fails with a clear
// error while text formats keep working.
func NewDocumentReader(rt container.Runtime) *DocumentReader {
	return &DocumentReader{runtime: rt}
}

// Read loads the document at path and extracts its text (R1.1). The
// returned metadata carries title, source path and page-oriented fields
// where the format provides them (R1.3).
func (d *DocumentReader) Read(path string) (*Content, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("document %s: %w", path, err)
	}

	var text string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = d.convertPDF(path)
	case ".md", ".markdown", ".txt":
		text, err = readTextFile(path)
	default:
		// Unknown extensions are treated as plain text rather than
		// rejected; the extraction stage tolerates noisy input.
		text, err = readTextFile(path)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("document %s produced no text", path)
	}

	// markitdown emits plain text without embedded document metadata, so
	// the author falls back to "Unknown" and length is the extracted
	// character count. Every document still gets an AUTHORED edge.
	md := map[string]any{
		"title":  documentTitle(text, path),
		"author": "Unknown",
		"source": path,
		"kind":   "document",
		"length": len(text),
	}
	return &Content{Text: text, Metadata: md}, nil
}

// convertPDF pipes the PDF through the markitdown container image (R1.2).
func (d *DocumentReader) convertPDF(path string) (string, error) {
	if d.runtime == nil {
		return "", fmt.Errorf("no container runtime available for PDF conversion of %s", path)
	}
	if err := d.runtime.ImageExists(imageMarkitdown); err != nil {
		return "", fmt.Errorf("markitdown image not available in %s: %w", d.runtime.Name(), err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out strings.Builder
	if err := d.runtime.Run(imageMarkitdown, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", path, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output for %s", path)
	}
	return out.String(), nil
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// documentTitle picks the first Markdown heading or non-empty line as the
// title, falling back to the file name (R1.4).
func documentTitle(text, path string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if title := strings.TrimSpace(strings.TrimLeft(line, "# ")); title != "" {
			return title
		}
	}
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return "Unknown"
}
