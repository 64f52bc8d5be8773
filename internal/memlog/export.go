// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memlog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Export writes the full log to path (R4.3). The format is inferred from
// the path extension: .yaml/.yml produce YAML, everything else JSON.
func (l *Log) Export(path string) error {
	l.mu.Lock()
	entries := make([]types.MemoryEntry, len(l.entries))
	copy(entries, l.entries)
	l.mu.Unlock()

	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(entries)
	} else {
		data, err = json.MarshalIndent(entries, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling memory export: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing memory export %s: %w", path, err)
	}
	return nil
}
