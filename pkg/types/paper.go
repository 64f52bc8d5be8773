// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Paper holds the node fields stored in the citation graph.
// Per prd004-citation-graph R1.1: id, title, optional year and abstract,
// and the declared authors.
type Paper struct {
	// ID is a stable identifier derived from the source path or URL.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title; "Unknown" when acquisition found none.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names as they appear in the source. Names are
	// compared verbatim, without normalization.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year; zero means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Abstract is a bounded excerpt of the generated summary.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// PaperRef is a ranked reference to a paper returned by graph queries.
// Score carries the ranking signal: shared-citation count for relevance
// queries, in-degree for influence queries, zero for author listings.
type PaperRef struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Year  int    `json:"year,omitempty" yaml:"year,omitempty"`
	Score int    `json:"score,omitempty" yaml:"score,omitempty"`
}

// GraphNode is one deduplicated node in a citation network extract.
type GraphNode struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// GraphEdge is one directed CITES edge in a citation network extract.
type GraphEdge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// CitationNetwork is the induced subgraph around a paper within a bounded
// number of hops. Node and edge sets are deduplicated.
type CitationNetwork struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}
