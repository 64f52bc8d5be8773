// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citegraph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/pkg/types"
)

const defaultProbeTimeout = 5 * time.Second

// maxNetworkDepth bounds the variable-length traversal in Network. The
// hop count is spliced into the Cypher pattern, so it must stay a small
// validated integer.
const maxNetworkDepth = 5

// Neo4j is the production citation graph store. Connectivity is probed
// once, eagerly, at construction; the resulting available flag is cached
// for the store's lifetime. A store that never connected turns every
// operation into a silent no-op, while query errors on a live connection
// propagate to the caller (R5.2, R5.3).
type Neo4j struct {
	driver    neo4j.DriverWithContext
	database  string
	available bool
	log       *zap.SugaredLogger
}

// NewNeo4j connects to the graph database described by cfg. Construction
// itself never fails: when the driver cannot be built or the connectivity
// probe times out, the store comes back unavailable and the failure is
// logged once (R5.1).
func NewNeo4j(cfg types.GraphConfig, log *zap.SugaredLogger) *Neo4j {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	s := &Neo4j{database: cfg.Database, log: log}

	uri := cfg.URI
	if uri == "" {
		uri = "bolt://localhost:7687"
	}
	user := cfg.User
	if user == "" {
		user = "neo4j"
	}
	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, cfg.Password, ""), func(c *neo4j.Config) {
		c.SocketConnectTimeout = probeTimeout
	})
	if err != nil {
		log.Warnw("citation graph disabled: driver init failed", "uri", uri, "error", err)
		return s
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Warnw("citation graph disabled: connectivity probe failed", "uri", uri, "error", err)
		_ = driver.Close(ctx)
		return s
	}

	s.driver = driver
	s.available = true
	return s
}

// Available reports whether the connectivity probe succeeded.
func (s *Neo4j) Available() bool { return s.available }

// Close releases the driver. Safe on an unavailable store.
func (s *Neo4j) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

func (s *Neo4j) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.database,
	})
}

// UpsertPaper merges the paper node by id, overwriting mutable fields,
// and merges one AUTHORED edge per author (R1.2).
func (s *Neo4j) UpsertPaper(ctx context.Context, paper types.Paper) error {
	if !s.available {
		return nil
	}

	var year any
	if paper.Year > 0 {
		year = int64(paper.Year)
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
			MERGE (p:Paper {id: $id})
			SET p.title = $title,
			    p.year = $year,
			    p.abstract = $abstract,
			    p.updated = timestamp()`,
			map[string]any{
				"id":       paper.ID,
				"title":    paper.Title,
				"year":     year,
				"abstract": paper.Abstract,
			})
		if err != nil {
			return nil, err
		}

		for _, author := range paper.Authors {
			if author == "" {
				continue
			}
			_, err := tx.Run(ctx, `
				MERGE (a:Author {name: $author})
				MERGE (p:Paper {id: $id})
				MERGE (a)-[:AUTHORED]->(p)`,
				map[string]any{"author": author, "id": paper.ID})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", paper.ID, err)
	}
	return nil
}

// AddCitation merges one CITES edge, creating stub nodes as needed (R2.1).
func (s *Neo4j) AddCitation(ctx context.Context, citingID, citedID string) error {
	if !s.available {
		return nil
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `
			MERGE (citing:Paper {id: $citing})
			MERGE (cited:Paper {id: $cited})
			MERGE (citing)-[:CITES]->(cited)`,
			map[string]any{"citing": citingID, "cited": citedID})
	})
	if err != nil {
		return fmt.Errorf("adding citation %s -> %s: %w", citingID, citedID, err)
	}
	return nil
}

// AddCitations merges edges from citingID to each cited id in one
// transaction (R2.2).
func (s *Neo4j) AddCitations(ctx context.Context, citingID string, citedIDs []string) error {
	if !s.available || len(citedIDs) == 0 {
		return nil
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `
			MERGE (citing:Paper {id: $citing})
			WITH citing
			UNWIND $cited AS citedID
			MERGE (cited:Paper {id: citedID})
			MERGE (citing)-[:CITES]->(cited)`,
			map[string]any{"citing": citingID, "cited": citedIDs})
	})
	if err != nil {
		return fmt.Errorf("adding citations for %s: %w", citingID, err)
	}
	return nil
}

// FindRelated ranks papers sharing cited targets with id (R3.1). Ties
// break on id so repeated queries return the same order.
func (s *Neo4j) FindRelated(ctx context.Context, id string, limit int) ([]types.PaperRef, error) {
	if !s.available {
		return nil, nil
	}

	return s.readRefs(ctx, `
		MATCH (p:Paper {id: $id})-[:CITES]->(cited:Paper)<-[:CITES]-(related:Paper)
		WHERE related.id <> $id
		WITH related, count(DISTINCT cited) AS score
		RETURN related.id AS id, related.title AS title, related.year AS year, score
		ORDER BY score DESC, id ASC
		LIMIT $limit`,
		map[string]any{"id": id, "limit": int64(limit)})
}

// FindInfluential ranks papers by in-degree; zero-citation papers never
// appear (R3.2).
func (s *Neo4j) FindInfluential(ctx context.Context, limit int) ([]types.PaperRef, error) {
	if !s.available {
		return nil, nil
	}

	return s.readRefs(ctx, `
		MATCH (p:Paper)<-[:CITES]-(citing:Paper)
		WITH p, count(citing) AS score
		RETURN p.id AS id, p.title AS title, p.year AS year, score
		ORDER BY score DESC, id ASC
		LIMIT $limit`,
		map[string]any{"limit": int64(limit)})
}

// FindByAuthor matches the author name exactly; papers without a year
// sort after dated ones (R3.3).
func (s *Neo4j) FindByAuthor(ctx context.Context, name string) ([]types.PaperRef, error) {
	if !s.available {
		return nil, nil
	}

	return s.readRefs(ctx, `
		MATCH (a:Author {name: $name})-[:AUTHORED]->(p:Paper)
		RETURN p.id AS id, p.title AS title, p.year AS year, 0 AS score
		ORDER BY coalesce(p.year, -1) DESC, id ASC`,
		map[string]any{"name": name})
}

// Network returns the deduplicated nodes and CITES edges reachable from
// id within depth undirected hops (R3.4).
func (s *Neo4j) Network(ctx context.Context, id string, depth int) (types.CitationNetwork, error) {
	var network types.CitationNetwork
	if !s.available {
		return network, nil
	}

	if depth < 1 {
		depth = 1
	}
	if depth > maxNetworkDepth {
		depth = maxNetworkDepth
	}

	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	// The hop bound cannot be a query parameter; depth is clamped above.
	query := fmt.Sprintf(`
		MATCH path = (p:Paper {id: $id})-[:CITES*1..%d]-(:Paper)
		UNWIND relationships(path) AS rel
		RETURN DISTINCT
			startNode(rel).id AS source, startNode(rel).title AS sourceTitle,
			endNode(rel).id AS target, endNode(rel).title AS targetTitle
		ORDER BY source, target`, depth)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return network, fmt.Errorf("querying network for %s: %w", id, err)
	}

	seen := make(map[string]bool)
	addNode := func(id, title string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		network.Nodes = append(network.Nodes, types.GraphNode{ID: id, Title: title})
	}

	for _, record := range result.([]*neo4j.Record) {
		source := stringValue(record, "source")
		target := stringValue(record, "target")
		addNode(source, stringValue(record, "sourceTitle"))
		addNode(target, stringValue(record, "targetTitle"))
		network.Edges = append(network.Edges, types.GraphEdge{Source: source, Target: target})
	}
	return network, nil
}

// Clear deletes every node and relationship (R4.1).
func (s *Neo4j) Clear(ctx context.Context) error {
	if !s.available {
		return nil
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, `MATCH (n) DETACH DELETE n`, nil)
	})
	if err != nil {
		return fmt.Errorf("clearing graph: %w", err)
	}
	return nil
}

// readRefs runs a read query whose rows carry id, title, year, score.
func (s *Neo4j) readRefs(ctx context.Context, query string, params map[string]any) ([]types.PaperRef, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("querying graph: %w", err)
	}

	var refs []types.PaperRef
	for _, record := range result.([]*neo4j.Record) {
		refs = append(refs, types.PaperRef{
			ID:    stringValue(record, "id"),
			Title: stringValue(record, "title"),
			Year:  intValue(record, "year"),
			Score: intValue(record, "score"),
		})
	}
	return refs, nil
}

func stringValue(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func intValue(record *neo4j.Record, key string) int {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return 0
	}
	n, _ := v.(int64)
	return int(n)
}
