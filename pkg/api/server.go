// Package api provides the HTTP surface: the streaming chat endpoint,
// lecturer rating lookups and the catalog dump.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/database"
	"github.com/B3rK-3/ViewNJIT/pkg/orchestrator"
	"github.com/B3rK-3/ViewNJIT/pkg/version"
)

// Server is the HTTP API server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server

	orch      *orchestrator.Orchestrator
	catalog   *catalog.Store
	lecturers *catalog.LecturerMap
	rdb       *redis.Client
}

// NewServer wires the routes and middleware.
func NewServer(orch *orchestrator.Orchestrator, cat *catalog.Store, lecturers *catalog.LecturerMap, rdb *redis.Client) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())
	// The chat stream must flush line by line; everything else may be
	// compressed.
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/chat"})))

	s := &Server{
		engine:    engine,
		orch:      orch,
		catalog:   cat,
		lecturers: lecturers,
		rdb:       rdb,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.healthHandler)
	s.engine.POST("/chat", s.chatHandler)
	s.engine.POST("/getprofs", s.getProfsHandler)
	s.engine.GET("/getcourses", s.getCoursesHandler)
}

// Start runs the HTTP server (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.engine}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) healthHandler(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	redisHealth, err := database.Health(reqCtx, s.rdb)
	status := http.StatusOK
	overall := "healthy"
	if err != nil {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	c.JSON(status, &HealthResponse{
		Status:    overall,
		Version:   version.Full(),
		Redis:     redisHealth,
		Courses:   s.catalog.Len(),
		Lecturers: s.lecturers.Len(),
	})
}
