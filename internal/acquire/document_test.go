// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRuntime converts any piped PDF into fixed markdown output.
type fakeRuntime struct {
	output  string
	imgErr  error
	runErr  error
	lastLen int
}

func (f *fakeRuntime) Name() string                 { return "fake" }
func (f *fakeRuntime) Available() bool              { return true }
func (f *fakeRuntime) ImageExists(image string) error { return f.imgErr }

func (f *fakeRuntime) Run(_ string, stdin io.Reader, stdout io.Writer) error {
	if f.runErr != nil {
		return f.runErr
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}
	f.lastLen = len(data)
	_, err = io.WriteString(stdout, f.output)
	return err
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestReadMarkdown(t *testing.T) {
	path := writeTestFile(t, "notes.md", "# Attention Mechanisms\n\nSome body text.\n")

	reader := NewDocumentReader(nil)
	content, err := reader.Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !strings.Contains(content.Text, "Some body text.") {
		t.Errorf("Text = %q", content.Text)
	}
	if title := content.Metadata["title"]; title != "Attention Mechanisms" {
		t.Errorf("title = %v, want Attention Mechanisms", title)
	}
	if src := content.Metadata["source"]; src != path {
		t.Errorf("source = %v, want %s", src, path)
	}
	if kind := content.Metadata["kind"]; kind != "document" {
		t.Errorf("kind = %v, want document", kind)
	}
	// Files carry no embedded metadata, so the author falls back.
	if author := content.Metadata["author"]; author != "Unknown" {
		t.Errorf("author = %v, want Unknown", author)
	}
	if length := content.Metadata["length"]; length != len(content.Text) {
		t.Errorf("length = %v, want %d", length, len(content.Text))
	}
}

func TestReadUnknownExtensionTreatedAsText(t *testing.T) {
	path := writeTestFile(t, "data.log", "first line here\nsecond line\n")

	content, err := NewDocumentReader(nil).Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if title := content.Metadata["title"]; title != "first line here" {
		t.Errorf("title = %v", title)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := NewDocumentReader(nil).Read(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("Read() on missing file succeeded")
	}
}

func TestReadEmptyDocument(t *testing.T) {
	path := writeTestFile(t, "blank.txt", "   \n\n  ")

	_, err := NewDocumentReader(nil).Read(path)
	if err == nil || !strings.Contains(err.Error(), "no text") {
		t.Fatalf("Read() error = %v, want no-text error", err)
	}
}

func TestReadPDFWithoutRuntime(t *testing.T) {
	path := writeTestFile(t, "paper.pdf", "%PDF-1.4 fake")

	_, err := NewDocumentReader(nil).Read(path)
	if err == nil || !strings.Contains(err.Error(), "container runtime") {
		t.Fatalf("Read() error = %v, want runtime error", err)
	}
}

func TestReadPDFViaRuntime(t *testing.T) {
	path := writeTestFile(t, "paper.pdf", "%PDF-1.4 fake body")
	rt := &fakeRuntime{output: "# Converted Paper\n\nExtracted text.\n"}

	content, err := NewDocumentReader(rt).Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if title := content.Metadata["title"]; title != "Converted Paper" {
		t.Errorf("title = %v", title)
	}
	if rt.lastLen == 0 {
		t.Errorf("PDF bytes were not piped into the runtime")
	}
}

func TestReadPDFMissingImage(t *testing.T) {
	path := writeTestFile(t, "paper.pdf", "%PDF-1.4")
	rt := &fakeRuntime{imgErr: fmt.Errorf("image not found")}

	_, err := NewDocumentReader(rt).Read(path)
	if err == nil || !strings.Contains(err.Error(), "image not available") {
		t.Fatalf("Read() error = %v, want image error", err)
	}
}

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		path string
		want string
	}{
		{"markdown heading", "# My Title\n\nbody", "a.md", "My Title"},
		{"deep heading", "### Sub Title\nbody", "a.md", "Sub Title"},
		{"plain first line", "Plain Title\nbody", "a.txt", "Plain Title"},
		{"leading blank lines", "\n\n  \nReal Title", "a.txt", "Real Title"},
		{"falls back to file name", "", "dir/report.txt", "report"},
		{"hash-only line ignored", "# \nNext Line", "a.md", "Next Line"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documentTitle(tt.text, tt.path); got != tt.want {
				t.Errorf("documentTitle(%q, %q) = %q, want %q", tt.text, tt.path, got, tt.want)
			}
		})
	}
}
