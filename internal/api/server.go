// Package api exposes the assistant over HTTP: session lifecycle,
// guideline queries, note generation, document upload, the guideline
// catalog, and web search.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medguide-assistant-server/internal/domain"
	"github.com/medguide-assistant-server/internal/middleware"
	"github.com/medguide-assistant-server/internal/session"
)

// Dependencies carries everything the server needs. The factory fields
// resolve a client for a session-scoped API key; an empty key selects
// the server-configured client, and demo mode ignores keys entirely.
type Dependencies struct {
	Config      domain.ConfigManager
	Logger      *logrus.Logger
	Sessions    *session.Manager
	Normalizer  domain.ContextNormalizer
	Extractor   domain.RecommendationExtractor
	Records     domain.RecordFetcher
	QuerierFor  func(apiKey string) domain.GuidelineQuerier
	WriterFor   func(apiKey string) domain.NoteWriter
	SearcherFor func(apiKey string) domain.WebSearcher
}

// Server represents the HTTP server
type Server struct {
	deps   Dependencies
	router *gin.Engine
	server *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(deps Dependencies) *Server {
	cfg := deps.Config.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.RequestTimeout(2 * time.Minute))
	router.Use(corsMiddleware())

	server := &Server{
		deps:   deps,
		router: router,
	}
	server.setupRoutes()

	return server
}

// Handler returns the underlying HTTP handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.deps.Config.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/sessions", s.handleCreateSession)
		v1.GET("/sessions/:id", s.handleGetSession)
		v1.DELETE("/sessions/:id", s.handleDeleteSession)
		v1.GET("/sessions/:id/patient", s.handleGetPatient)
		v1.POST("/sessions/:id/patient/refresh", s.handleRefreshPatient)
		v1.GET("/sessions/:id/messages", s.handleGetMessages)
		v1.POST("/sessions/:id/query", s.handleQuery)
		v1.POST("/sessions/:id/note", s.handleGenerateNote)
		v1.PUT("/sessions/:id/keys", s.handleSetCredentials)
		v1.POST("/sessions/:id/documents", s.handleUploadDocument)

		v1.GET("/guidelines", s.handleListGuidelines)
		v1.GET("/guidelines/:id", s.handleGetGuideline)
		v1.GET("/prompts", s.handleSuggestedPrompts)
		v1.POST("/search", s.handleSearch)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"demo_mode": s.deps.Config.GetConfig().Assistant.DemoMode,
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	})
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Correlation-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
