// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citegraph maintains the directed citation graph and answers
// relevance and influence queries over it.
// Implements: prd004-citation-graph (R1-R5);
//
//	docs/ARCHITECTURE § Citation Graph.
package citegraph

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Store is the citation graph contract shared by the Neo4j-backed store
// and the in-process store. All writes are idempotent: re-adding a paper
// overwrites its mutable fields, re-adding an edge is a no-op.
type Store interface {
	// Available reports whether the backing store accepted operations at
	// construction time. An unavailable store turns every operation into
	// a silent no-op with empty results (R5.2).
	Available() bool

	// UpsertPaper inserts or updates a paper node and its AUTHORED edges.
	UpsertPaper(ctx context.Context, paper types.Paper) error

	// AddCitation inserts one directed CITES edge, creating stub nodes
	// for unseen ids. No multi-edges.
	AddCitation(ctx context.Context, citingID, citedID string) error

	// AddCitations inserts edges from citingID to each cited id.
	AddCitations(ctx context.Context, citingID string, citedIDs []string) error

	// FindRelated returns papers that cite at least one paper also cited
	// by id, ranked by shared cited count descending. The result excludes
	// id itself, breaks ties by id for stability, and is capped at limit.
	FindRelated(ctx context.Context, id string, limit int) ([]types.PaperRef, error)

	// FindInfluential returns papers with at least one incoming CITES
	// edge, ranked by in-degree descending, capped at limit.
	FindInfluential(ctx context.Context, limit int) ([]types.PaperRef, error)

	// FindByAuthor returns papers by exact author name, year descending;
	// papers without a year sort last.
	FindByAuthor(ctx context.Context, name string) ([]types.PaperRef, error)

	// Network returns the subgraph reachable from id within depth
	// undirected hops along CITES edges.
	Network(ctx context.Context, id string, depth int) (types.CitationNetwork, error)

	// Clear deletes all nodes and edges. Destructive; intended for
	// test and reset use.
	Clear(ctx context.Context) error

	// Close releases the backing connection.
	Close(ctx context.Context) error
}

// driver names accepted in GraphConfig.Driver.
const (
	DriverNeo4j  = "neo4j"
	DriverMemory = "memory"
)

// New builds the configured Store. Construction never fails the caller on
// a dead graph backend: a Neo4j store that cannot connect comes back
// unavailable rather than as an error (R5.1).
func New(cfg types.GraphConfig, log *zap.SugaredLogger) Store {
	if cfg.Driver == DriverMemory {
		return NewMemory()
	}
	return NewNeo4j(cfg, log)
}
