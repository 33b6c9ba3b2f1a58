package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pders01/slyde/internal/config"
	"github.com/pders01/slyde/internal/debuglog"
	"github.com/pders01/slyde/internal/search"
	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/storage"
)

// Server exposes the slideshow pipeline and the bookmark store over HTTP.
type Server struct {
	cfg      config.ServerConfig
	slides   *slideshow.Service
	store    storage.ProjectStore
	searcher search.Searcher
	router   *gin.Engine
}

// New builds the router. A nil searcher falls back to scanning the store.
func New(cfg config.ServerConfig, slides *slideshow.Service, store storage.ProjectStore, searcher search.Searcher) *Server {
	switch cfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	if searcher == nil {
		searcher = search.NewEngine(store)
	}

	s := &Server{
		cfg:      cfg,
		slides:   slides,
		store:    store,
		searcher: searcher,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), recovery())

	r.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	{
		api.POST("/parse-slideshow", s.handleParse)
		api.GET("/slideshow", s.handleShared)
		api.GET("/projects", s.handleRecents)
		api.GET("/projects/favorites", s.handleFavorites)
		api.GET("/projects/:id/favorite", s.handleFavoriteStatus)
		api.POST("/projects/:id/favorite", s.handleToggleFavorite)
		api.GET("/search", s.handleSearch)
	}

	return r
}

// Handler returns the router for use with httptest or a custom server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln and shuts down gracefully once ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		debuglog.Infof("slyde API listening on http://%s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		debuglog.Infof("shutting down server")
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			debuglog.Errorf("server shutdown failed: %v", err)
			return err
		}
		debuglog.Infof("server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		debuglog.WithFields(map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Infof("request")
	}
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		debuglog.Errorf("panic serving %s: %v", c.Request.URL.Path, rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
	})
}
