// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials for the assistant's external services
// from a secrets directory. Each secret lives in its own file named after
// the key, with the value as the file body. The assistant looks for
// openai-api-key and neo4j-password; anything else in the directory is
// loaded under its filename and ignored by the callers that do not need it.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load collects the secrets under dir into a key-to-value map. Values are
// whitespace-trimmed and blank files are dropped. An absent directory yields
// an empty map so the assistant can start without any secrets configured;
// a file that exists but cannot be read is reported on stderr and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		value, err := readSecret(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

func readSecret(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
