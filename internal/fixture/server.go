// Package fixture is a local stand-in for the remote scoring service. It
// serves the question catalog, scores submissions and keeps results in
// memory, so the client can be used and tested offline.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/sportsmind/pkg/logger"
	"github.com/abhisek/sportsmind/pkg/metrics"
)

// Server is the fixture HTTP service.
type Server struct {
	engine  *gin.Engine
	bank    *Bank
	results *resultStore
	log     logger.Logger
	metrics *metrics.Manager
	now     func() time.Time
	origins []string
	newID   func() string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMetrics records requests on m instead of the global manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Server) { s.metrics = m }
}

// WithClock overrides the clock used for history periods.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithCORSOrigins sets the allowed browser origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithBank serves a custom question bank.
func WithBank(b *Bank) Option {
	return func(s *Server) { s.bank = b }
}

// New builds the server and its routes.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		results: &resultStore{},
		log:     logger.Nop(),
		now:     time.Now,
		newID:   newResultID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.Global()
	}
	if s.bank == nil {
		b, err := DefaultBank()
		if err != nil {
			return nil, err
		}
		s.bank = b
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.observe())
	if len(s.origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	api := r.Group("/api/v1")
	{
		api.GET("/questions/for-user/:role", s.questionsForUser)

		tests := api.Group("/tests")
		tests.POST("/submit", s.submit)
		tests.GET("/history", s.history)
		tests.GET("/results/:id", s.result)
	}
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	s.engine = r
	return s, nil
}

// Handler exposes the routes, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "fixture service listening", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve fixture: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown fixture: %w", err)
		}
		return nil
	}
}

// observe logs and counts every request by route template.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		s.metrics.RecordHTTPRequest(route, c.Request.Method, status, float64(elapsed.Milliseconds()))
		s.log.Info(c.Request.Context(), "request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", status),
			logger.Int64("latency_ms", elapsed.Milliseconds()))
	}
}
