// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citegraph

import (
	"context"
	"sort"
	"sync"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// Memory is the in-process citation graph store. It carries the same
// contract as the Neo4j store (idempotent upserts, ranked relevance and
// influence queries) over plain maps, guarded for concurrent pipeline
// invocations. Selected by graph.driver "memory" and used throughout the
// test suite.
type Memory struct {
	mu       sync.RWMutex
	papers   map[string]types.Paper
	cites    map[string]map[string]bool // citing id → cited ids
	citedBy  map[string]map[string]bool // cited id → citing ids
	authored map[string]map[string]bool // author name → paper ids
}

// NewMemory returns an empty in-process store. It is always available.
func NewMemory() *Memory {
	return &Memory{
		papers:   make(map[string]types.Paper),
		cites:    make(map[string]map[string]bool),
		citedBy:  make(map[string]map[string]bool),
		authored: make(map[string]map[string]bool),
	}
}

// Available always reports true for the in-process store.
func (m *Memory) Available() bool { return true }

// Close is a no-op.
func (m *Memory) Close(context.Context) error { return nil }

// ensure creates a stub node for id, mirroring Cypher MERGE semantics.
// Caller holds the write lock.
func (m *Memory) ensure(id string) {
	if _, ok := m.papers[id]; !ok {
		m.papers[id] = types.Paper{ID: id}
	}
}

// UpsertPaper overwrites the mutable fields of the node with the given id.
// Re-adding the same id never duplicates the node.
func (m *Memory) UpsertPaper(_ context.Context, paper types.Paper) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.papers[paper.ID] = paper
	for _, author := range paper.Authors {
		if author == "" {
			continue
		}
		if m.authored[author] == nil {
			m.authored[author] = make(map[string]bool)
		}
		m.authored[author][paper.ID] = true
	}
	return nil
}

// AddCitation records one directed edge; duplicates collapse.
func (m *Memory) AddCitation(_ context.Context, citingID, citedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addEdge(citingID, citedID)
	return nil
}

// AddCitations records edges from citingID to each cited id.
func (m *Memory) AddCitations(_ context.Context, citingID string, citedIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cited := range citedIDs {
		m.addEdge(citingID, cited)
	}
	return nil
}

func (m *Memory) addEdge(citingID, citedID string) {
	m.ensure(citingID)
	m.ensure(citedID)
	if m.cites[citingID] == nil {
		m.cites[citingID] = make(map[string]bool)
	}
	m.cites[citingID][citedID] = true
	if m.citedBy[citedID] == nil {
		m.citedBy[citedID] = make(map[string]bool)
	}
	m.citedBy[citedID][citingID] = true
}

// FindRelated ranks papers by the number of cited targets they share with
// id, descending, ties broken by id, excluding id itself.
func (m *Memory) FindRelated(_ context.Context, id string, limit int) ([]types.PaperRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shared := make(map[string]int)
	for cited := range m.cites[id] {
		for other := range m.citedBy[cited] {
			if other == id {
				continue
			}
			shared[other]++
		}
	}

	refs := make([]types.PaperRef, 0, len(shared))
	for other, count := range shared {
		refs = append(refs, m.ref(other, count))
	}
	sortRefs(refs)
	return capRefs(refs, limit), nil
}

// FindInfluential ranks papers by in-degree; papers nobody cites are
// excluded regardless of limit.
func (m *Memory) FindInfluential(_ context.Context, limit int) ([]types.PaperRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var refs []types.PaperRef
	for id, citers := range m.citedBy {
		if len(citers) == 0 {
			continue
		}
		refs = append(refs, m.ref(id, len(citers)))
	}
	sortRefs(refs)
	return capRefs(refs, limit), nil
}

// FindByAuthor matches the name exactly, year descending, unknown year last.
func (m *Memory) FindByAuthor(_ context.Context, name string) ([]types.PaperRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var refs []types.PaperRef
	for id := range m.authored[name] {
		refs = append(refs, m.ref(id, 0))
	}
	sort.Slice(refs, func(i, j int) bool {
		yi, yj := yearKey(refs[i].Year), yearKey(refs[j].Year)
		if yi != yj {
			return yi > yj
		}
		return refs[i].ID < refs[j].ID
	})
	return refs, nil
}

// Network walks CITES edges in both directions from id up to depth hops
// and returns the induced subgraph, deduplicated and ordered.
func (m *Memory) Network(_ context.Context, id string, depth int) (types.CitationNetwork, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var network types.CitationNetwork
	if _, ok := m.papers[id]; !ok {
		return network, nil
	}
	if depth < 1 {
		depth = 1
	}
	if depth > maxNetworkDepth {
		depth = maxNetworkDepth
	}

	visited := map[string]bool{id: true}
	frontier := []string{id}
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, node := range frontier {
			for neighbor := range m.cites[node] {
				if !visited[neighbor] {
					visited[neighbor] = true
					next = append(next, neighbor)
				}
			}
			for neighbor := range m.citedBy[node] {
				if !visited[neighbor] {
					visited[neighbor] = true
					next = append(next, neighbor)
				}
			}
		}
		frontier = next
	}

	for node := range visited {
		network.Nodes = append(network.Nodes, types.GraphNode{
			ID:    node,
			Title: m.papers[node].Title,
		})
		for cited := range m.cites[node] {
			if visited[cited] {
				network.Edges = append(network.Edges, types.GraphEdge{Source: node, Target: cited})
			}
		}
	}

	sort.Slice(network.Nodes, func(i, j int) bool { return network.Nodes[i].ID < network.Nodes[j].ID })
	sort.Slice(network.Edges, func(i, j int) bool {
		if network.Edges[i].Source != network.Edges[j].Source {
			return network.Edges[i].Source < network.Edges[j].Source
		}
		return network.Edges[i].Target < network.Edges[j].Target
	})
	return network, nil
}

// Clear drops everything.
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.papers = make(map[string]types.Paper)
	m.cites = make(map[string]map[string]bool)
	m.citedBy = make(map[string]map[string]bool)
	m.authored = make(map[string]map[string]bool)
	return nil
}

// PaperCount returns the number of nodes, stub or full.
func (m *Memory) PaperCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.papers)
}

// CitationCount returns the total number of distinct CITES edges.
func (m *Memory) CitationCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, cited := range m.cites {
		total += len(cited)
	}
	return total
}

// ref builds a PaperRef for id with the given score. Caller holds a lock.
func (m *Memory) ref(id string, score int) types.PaperRef {
	p := m.papers[id]
	return types.PaperRef{ID: id, Title: p.Title, Year: p.Year, Score: score}
}

// sortRefs orders by score descending, then id ascending, so repeated
// queries are stable.
func sortRefs(refs []types.PaperRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Score != refs[j].Score {
			return refs[i].Score > refs[j].Score
		}
		return refs[i].ID < refs[j].ID
	})
}

func capRefs(refs []types.PaperRef, limit int) []types.PaperRef {
	if limit > 0 && len(refs) > limit {
		return refs[:limit]
	}
	return refs
}

func yearKey(year int) int {
	if year <= 0 {
		return -1
	}
	return year
}
