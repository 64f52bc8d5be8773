// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MemoryEntryKind distinguishes the two interaction memory variants.
// Per prd005-memory R1.1.
type MemoryEntryKind string

const (
	EntryDocument MemoryEntryKind = "document"
	EntryQuery    MemoryEntryKind = "query"
)

// MemoryEntry is one record in the append-only interaction log. Entries
// are assigned a monotonically increasing sequence ID at append time and
// are never mutated or deleted individually.
type MemoryEntry struct {
	// ID is the one-based sequence number assigned at append time.
	ID int `json:"id" yaml:"id"`

	// Kind is "document" or "query".
	Kind MemoryEntryKind `json:"kind" yaml:"kind"`

	// Timestamp is the immutable creation time.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Document-variant fields.
	DocumentID  string   `json:"document_id,omitempty" yaml:"document_id,omitempty"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty"`
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	KeyConcepts []string `json:"key_concepts,omitempty" yaml:"key_concepts,omitempty"`
	Citations   []string `json:"citations,omitempty" yaml:"citations,omitempty"`

	// Query-variant fields.
	Query    string         `json:"query,omitempty" yaml:"query,omitempty"`
	Response string         `json:"response,omitempty" yaml:"response,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// MemoryStats summarizes the interaction log.
type MemoryStats struct {
	TotalEntries    int `json:"total_entries" yaml:"total_entries"`
	DocumentEntries int `json:"document_entries" yaml:"document_entries"`
	QueryEntries    int `json:"query_entries" yaml:"query_entries"`

	// OldestEntry and NewestEntry are nil when the log is empty.
	OldestEntry *time.Time `json:"oldest_entry" yaml:"oldest_entry"`
	NewestEntry *time.Time `json:"newest_entry" yaml:"newest_entry"`
}
