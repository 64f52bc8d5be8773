// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/research-assistant/internal/acquire"
	"github.com/pdiddy/research-assistant/internal/citegraph"
	"github.com/pdiddy/research-assistant/internal/logging"
	"github.com/pdiddy/research-assistant/internal/memlog"
	"github.com/pdiddy/research-assistant/internal/rag"
	"github.com/pdiddy/research-assistant/internal/workflow"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// stubRAG answers from canned text without any model calls.
type stubRAG struct {
	answerErr error
	hits      []rag.SearchHit
}

func (s *stubRAG) IndexDocument(context.Context, string, string, []string, map[string]any) error {
	return nil
}

func (s *stubRAG) Summarize(context.Context, string) (map[string]any, error) {
	return map[string]any{"full_summary": "stub summary", "generated": true}, nil
}

func (s *stubRAG) RelatedWork(context.Context, string, []string) ([]string, error) {
	return nil, nil
}

func (s *stubRAG) Answer(_ context.Context, query, _ string) (string, error) {
	if s.answerErr != nil {
		return "", s.answerErr
	}
	return "answer to " + query, nil
}

func (s *stubRAG) SemanticSearch(context.Context, string, int) ([]rag.SearchHit, error) {
	return s.hits, nil
}

func (s *stubRAG) Close() error { return nil }

// stubDocs acknowledges any path with fixed content, standing in for the
// PDF conversion path.
type stubDocs struct{}

func (stubDocs) Read(path string) (*acquire.Content, error) {
	return &acquire.Content{
		Text:     "Attention Notes\n\nA short document about attention [1] for upload tests. More text so chunking has something to work with.",
		Metadata: map[string]any{"title": "Attention Notes", "source": path, "kind": "document"},
	}, nil
}

type testEnv struct {
	router *gin.Engine
	memory *memlog.Log
	graph  *citegraph.Memory
	rag    *stubRAG
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	memory, err := memlog.Open(filepath.Join(t.TempDir(), "memory.jsonl"))
	if err != nil {
		t.Fatalf("opening memory: %v", err)
	}
	t.Cleanup(func() { memory.Close() })

	graph := citegraph.NewMemory()
	ragSvc := &stubRAG{}
	uploadsDir := t.TempDir()

	cfg := types.PipelineConfig{
		Acquisition: types.AcquisitionConfig{ChunkSize: 500, ChunkOverlap: 50, UploadsDir: uploadsDir},
		Memory:      types.MemoryConfig{ContextEntries: 3},
	}
	orch := workflow.NewOrchestrator(stubDocs{}, nil, ragSvc, graph, memory, cfg, logging.Nop())

	srv := New(orch, ragSvc, graph, memory, uploadsDir, logging.Nop())
	return &testEnv{
		router: srv.Router(gin.TestMode),
		memory: memory,
		graph:  graph,
		rag:    ragSvc,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("parsing response %q: %v", w.Body.String(), err)
		}
	}
	return w, parsed
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewBuffer(data)
}

func TestQueryEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/query",
		jsonBody(t, gin.H{"query": "what is attention"}), "application/json")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	summary, _ := body["summary"].(map[string]any)
	if summary["answer"] != "answer to what is attention" {
		t.Errorf("answer = %v", summary["answer"])
	}
	// The query path also records into memory.
	if env.memory.Len() != 1 {
		t.Errorf("memory entries = %d, want 1", env.memory.Len())
	}
}

func TestQueryEndpointMissingBody(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/query",
		jsonBody(t, gin.H{}), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestQueryEndpointPipelineFailure(t *testing.T) {
	env := newTestEnv(t)
	env.rag.answerErr = fmt.Errorf("model unavailable")

	w, body := env.do(t, http.MethodPost, "/query",
		jsonBody(t, gin.H{"query": "anything"}), "application/json")

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	if fe, _ := body["fatal_error"].(string); !strings.Contains(fe, "answer") {
		t.Errorf("fatal_error = %v", body["fatal_error"])
	}
}

func TestUploadDocumentEndpoint(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.pdf")
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(part, "%PDF-1.4 fake body")
	mw.Close()

	w, body := env.do(t, http.MethodPost, "/upload/document", &buf, mw.FormDataContentType())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	md, _ := body["metadata"].(map[string]any)
	if md["title"] != "Attention Notes" {
		t.Errorf("title = %v", md["title"])
	}
	// The raw text never crosses the API boundary.
	if _, ok := body["text"]; ok {
		t.Errorf("response leaks raw text: %v", body)
	}
	if env.graph.PaperCount() == 0 {
		t.Errorf("upload did not reach the citation graph")
	}
}

func TestUploadDocumentMissingFile(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/upload/document", nil, "multipart/form-data")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestMemoryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	if err := env.memory.AppendDocument("doc1", "Paper One", "summary one", nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := env.memory.AppendQuery("what is x", "x is y", nil); err != nil {
		t.Fatal(err)
	}

	w, body := env.do(t, http.MethodGet, "/memory/recent?n=1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("recent status = %d", w.Code)
	}
	if entries, _ := body["entries"].([]any); len(entries) != 1 {
		t.Errorf("recent entries = %v", body["entries"])
	}

	w, body = env.do(t, http.MethodGet, "/memory/search?keyword=paper", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	if entries, _ := body["entries"].([]any); len(entries) != 1 {
		t.Errorf("search entries = %v", body["entries"])
	}

	w, _ = env.do(t, http.MethodGet, "/memory/search", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("search without keyword status = %d, want 400", w.Code)
	}

	w, body = env.do(t, http.MethodGet, "/memory/documents", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("documents status = %d", w.Code)
	}
	if entries, _ := body["entries"].([]any); len(entries) != 1 {
		t.Errorf("documents entries = %v", body["entries"])
	}

	w, body = env.do(t, http.MethodGet, "/memory/stats", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	if total, _ := body["total_entries"].(float64); total != 2 {
		t.Errorf("stats total_entries = %v", body["total_entries"])
	}
}

func TestCitationEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, p := range []types.Paper{
		{ID: "a", Title: "Paper A", Authors: []string{"Jane Doe"}, Year: 2024},
		{ID: "b", Title: "Paper B"},
		{ID: "c", Title: "Paper C"},
	} {
		if err := env.graph.UpsertPaper(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	if err := env.graph.AddCitations(ctx, "a", []string{"b", "c"}); err != nil {
		t.Fatal(err)
	}
	if err := env.graph.AddCitation(ctx, "c", "b"); err != nil {
		t.Fatal(err)
	}

	w, body := env.do(t, http.MethodGet, "/citations/influential?limit=1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("influential status = %d", w.Code)
	}
	papers, _ := body["papers"].([]any)
	if len(papers) != 1 {
		t.Fatalf("influential papers = %v", body["papers"])
	}
	if top, _ := papers[0].(map[string]any); top["id"] != "b" {
		t.Errorf("most influential = %v, want b", papers[0])
	}

	w, body = env.do(t, http.MethodGet, "/citations/related/a", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("related status = %d", w.Code)
	}
	if papers, _ := body["papers"].([]any); len(papers) == 0 {
		t.Errorf("related papers empty")
	}

	w, body = env.do(t, http.MethodGet, "/citations/author?name=Jane+Doe", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("author status = %d", w.Code)
	}
	if papers, _ := body["papers"].([]any); len(papers) != 1 {
		t.Errorf("author papers = %v", body["papers"])
	}

	w, _ = env.do(t, http.MethodGet, "/citations/author", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("author without name status = %d, want 400", w.Code)
	}

	w, body = env.do(t, http.MethodGet, "/citations/network/a?depth=1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("network status = %d", w.Code)
	}
	if nodes, _ := body["nodes"].([]any); len(nodes) != 3 {
		t.Errorf("network nodes = %v", body["nodes"])
	}
}

func TestSemanticSearchEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.rag.hits = []rag.SearchHit{{Content: "hit one", Score: 1.5}}

	w, body := env.do(t, http.MethodGet, "/search/semantic?query=attention", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if results, _ := body["results"].([]any); len(results) != 1 {
		t.Errorf("results = %v", body["results"])
	}

	w, _ = env.do(t, http.MethodGet, "/search/semantic", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing query status = %d, want 400", w.Code)
	}
}
