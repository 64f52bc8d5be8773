// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-assistant/pkg/types"
)

func TestExport(t *testing.T) {
	l := openTestLog(t)
	mustAppendDocument(t, l, "doc-1", "Paper", "summary")
	mustAppendQuery(t, l, "question", "answer")

	tests := []struct {
		name      string
		file      string
		unmarshal func(data []byte, v any) error
	}{
		{name: "json by default", file: "export.json", unmarshal: json.Unmarshal},
		{name: "yaml by extension", file: "export.yaml", unmarshal: yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := l.Export(path); err != nil {
				t.Fatalf("Export: %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading export: %v", err)
			}
			var entries []types.MemoryEntry
			if err := tt.unmarshal(data, &entries); err != nil {
				t.Fatalf("parsing export: %v", err)
			}
			if len(entries) != 2 {
				t.Fatalf("export holds %d entries, want 2", len(entries))
			}
			if entries[0].Title != "Paper" || entries[1].Query != "question" {
				t.Errorf("export content wrong: %+v", entries)
			}
		})
	}
}
