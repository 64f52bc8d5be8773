// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package memlog persists the append-only interaction memory and answers
// relevance and history queries over it.
// Implements: prd005-memory (R1-R5);
//
//	docs/ARCHITECTURE § Interaction Memory.
package memlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Log is the append-only interaction memory. Entries live in insertion
// order both in memory and in the backing JSONL file; every append is
// written through synchronously so a crash loses at most the in-flight
// entry (R5.2).
type Log struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	entries []types.MemoryEntry

	// now is swapped out by tests for deterministic timestamps.
	now func() time.Time
}

// Open loads the log at path, creating the file and parent directories if
// needed. Lines that fail to parse are skipped with a warning on stderr so
// one corrupt record cannot take the whole history down.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating memory directory: %w", err)
	}

	entries, err := readAll(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening memory log %s: %w", path, err)
	}

	return &Log{
		path:    path,
		file:    f,
		entries: entries,
		now:     time.Now,
	}, nil
}

// readAll parses the JSONL file at path. A missing file is an empty log.
func readAll(path string) ([]types.MemoryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading memory log %s: %w", path, err)
	}
	defer f.Close()

	var entries []types.MemoryEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e types.MemoryEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping corrupt memory entry: %v\n", err)
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning memory log %s: %w", path, err)
	}
	return entries, nil
}

// Close releases the backing file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// AppendDocument records a document-processing event (R1.2). The sequence
// ID and timestamp are assigned under the writer lock so concurrent
// appends never collide (R5.3).
func (l *Log) AppendDocument(documentID, title, summary string, keyConcepts, citations []string) error {
	return l.append(types.MemoryEntry{
		Kind:        types.EntryDocument,
		DocumentID:  documentID,
		Title:       title,
		Summary:     summary,
		KeyConcepts: keyConcepts,
		Citations:   citations,
	})
}

// AppendQuery records a query interaction (R1.3).
func (l *Log) AppendQuery(query, response string, metadata map[string]any) error {
	return l.append(types.MemoryEntry{
		Kind:     types.EntryQuery,
		Query:    query,
		Response: response,
		Metadata: metadata,
	})
}

// append assigns the next sequence ID, persists the entry, and only then
// makes it visible in memory. ID assignment and the file write happen
// under one lock; interleaved writes are impossible (R5.3).
func (l *Log) append(e types.MemoryEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("memory log is closed")
	}

	e.ID = len(l.entries) + 1
	e.Timestamp = l.now().UTC()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling memory entry: %w", err)
	}
	data = append(data, '\n')

	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("writing memory entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("syncing memory log: %w", err)
	}

	l.entries = append(l.entries, e)
	return nil
}

// Recent returns the last n entries in insertion order, oldest of the
// window first. A short or empty log returns what exists (R2.1).
func (l *Log) Recent(n int) []types.MemoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || len(l.entries) == 0 {
		return nil
	}
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]types.MemoryEntry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// SearchKeyword returns entries whose query, title, or summary contains
// keyword, case-insensitively. Fields are checked in that priority order
// and the first match wins, so an entry is never double-counted (R2.2).
// Insertion order is preserved.
func (l *Log) SearchKeyword(keyword string) []types.MemoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	kw := strings.ToLower(keyword)
	var results []types.MemoryEntry
	for _, e := range l.entries {
		switch {
		case e.Query != "" && strings.Contains(strings.ToLower(e.Query), kw):
			results = append(results, e)
		case e.Title != "" && strings.Contains(strings.ToLower(e.Title), kw):
			results = append(results, e)
		case e.Summary != "" && strings.Contains(strings.ToLower(e.Summary), kw):
			results = append(results, e)
		}
	}
	return results
}

// DocumentHistory returns all document-variant entries in insertion order (R2.3).
func (l *Log) DocumentHistory() []types.MemoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var docs []types.MemoryEntry
	for _, e := range l.entries {
		if e.Kind == types.EntryDocument {
			docs = append(docs, e)
		}
	}
	return docs
}

// Entry returns the entry with the given sequence ID, or false if absent.
func (l *Log) Entry(id int) (types.MemoryEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return types.MemoryEntry{}, false
}

// Stats summarizes the log (R4.1). Timestamps are nil when the log is empty.
func (l *Log) Stats() types.MemoryStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := types.MemoryStats{TotalEntries: len(l.entries)}
	for _, e := range l.entries {
		if e.Kind == types.EntryDocument {
			stats.DocumentEntries++
		}
	}
	stats.QueryEntries = stats.TotalEntries - stats.DocumentEntries

	if len(l.entries) > 0 {
		oldest := l.entries[0].Timestamp
		newest := l.entries[len(l.entries)-1].Timestamp
		stats.OldestEntry = &oldest
		stats.NewestEntry = &newest
	}
	return stats
}

// Clear drops all entries and truncates the backing file (R4.2).
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if err := l.file.Close(); err != nil {
			return fmt.Errorf("closing memory log: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("truncating memory log %s: %w", l.path, err)
	}
	l.file = f
	l.entries = nil
	return nil
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
