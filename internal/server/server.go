// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the pipeline, memory, and citation graph over HTTP.
// Implements: prd001-workflow R5 (service surface);
//
//	docs/ARCHITECTURE § HTTP API.
package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/research-assistant/internal/citegraph"
	"github.com/pdiddy/research-assistant/internal/memlog"
	"github.com/pdiddy/research-assistant/internal/rag"
	"github.com/pdiddy/research-assistant/internal/workflow"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// Server holds the handler dependencies.
type Server struct {
	orch       *workflow.Orchestrator
	rag        rag.Service
	graph      citegraph.Store
	memory     *memlog.Log
	uploadsDir string
	log        *zap.SugaredLogger
}

// New builds a Server around the assembled pipeline components.
func New(orch *workflow.Orchestrator, ragSvc rag.Service, graph citegraph.Store, memory *memlog.Log, uploadsDir string, log *zap.SugaredLogger) *Server {
	return &Server{
		orch:       orch,
		rag:        ragSvc,
		graph:      graph,
		memory:     memory,
		uploadsDir: uploadsDir,
		log:        log,
	}
}

// Router builds the gin engine with all routes registered. mode selects
// gin's debug or release behavior.
func (s *Server) Router(mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(s.logMiddleware(), gin.Recovery())

	r.POST("/upload/document", s.uploadDocument)
	r.POST("/process/url", s.processURL)
	r.POST("/query", s.query)

	r.GET("/memory/recent", s.memoryRecent)
	r.GET("/memory/search", s.memorySearch)
	r.GET("/memory/documents", s.memoryDocuments)
	r.GET("/memory/stats", s.memoryStats)

	r.GET("/citations/influential", s.citationsInfluential)
	r.GET("/citations/related/:id", s.citationsRelated)
	r.GET("/citations/author", s.citationsAuthor)
	r.GET("/citations/network/:id", s.citationsNetwork)

	r.GET("/search/semantic", s.searchSemantic)

	return r
}

// logMiddleware records each request through the structured logger.
func (s *Server) logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Infow("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// stateResponse trims a WorkflowState for the API: the HTTP surface
// never returns the raw text or chunks.
func stateResponse(state *types.WorkflowState) gin.H {
	return gin.H{
		"kind":           state.Kind,
		"metadata":       state.Metadata,
		"citations":      state.Citations,
		"key_concepts":   state.KeyConcepts,
		"summary":        state.Summary,
		"related_papers": state.RelatedPapers,
		"status_log":     state.StatusLog,
		"fatal_error":    state.FatalError,
	}
}

func (s *Server) uploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}

	dest := filepath.Join(s.uploadsDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("saving upload: %v", err)})
		return
	}

	state := s.orch.Process(c.Request.Context(), dest)
	s.respondState(c, state)
}

func (s *Server) processURL(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing url"})
		return
	}
	state := s.orch.Process(c.Request.Context(), req.URL)
	s.respondState(c, state)
}

func (s *Server) query(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}
	state := s.orch.Process(c.Request.Context(), req.Query)
	s.respondState(c, state)
}

func (s *Server) respondState(c *gin.Context, state *types.WorkflowState) {
	if state.Failed() {
		c.JSON(http.StatusUnprocessableEntity, stateResponse(state))
		return
	}
	c.JSON(http.StatusOK, stateResponse(state))
}

func (s *Server) memoryRecent(c *gin.Context) {
	n := intQuery(c, "n", 10)
	c.JSON(http.StatusOK, gin.H{"entries": s.memory.Recent(n)})
}

func (s *Server) memorySearch(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing keyword"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": s.memory.SearchKeyword(keyword)})
}

func (s *Server) memoryDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": s.memory.DocumentHistory()})
}

func (s *Server) memoryStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.memory.Stats())
}

func (s *Server) citationsInfluential(c *gin.Context) {
	limit := intQuery(c, "limit", 10)
	refs, err := s.graph.FindInfluential(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"papers": refs})
}

func (s *Server) citationsRelated(c *gin.Context) {
	limit := intQuery(c, "limit", 5)
	refs, err := s.graph.FindRelated(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"papers": refs})
}

func (s *Server) citationsAuthor(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}
	refs, err := s.graph.FindByAuthor(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"papers": refs})
}

func (s *Server) citationsNetwork(c *gin.Context) {
	depth := intQuery(c, "depth", 2)
	network, err := s.graph.Network(c.Request.Context(), c.Param("id"), depth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, network)
}

func (s *Server) searchSemantic(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query"})
		return
	}
	limit := intQuery(c, "limit", 5)
	hits, err := s.rag.SemanticSearch(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": hits})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
