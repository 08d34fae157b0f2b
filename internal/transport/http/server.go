// Package apihttp exposes a small read-only HTTP surface for
// inspecting the runner: health, current status, trade memory and the
// persisted cycle audit log.
package apihttp

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"arena/internal/logger"
	"arena/internal/memory"
	"arena/internal/store/cyclelog"

	"github.com/gin-gonic/gin"
)

// StatusFunc reports the runner's current state for /api/status.
type StatusFunc func() map[string]any

type ServerConfig struct {
	Addr   string
	Memory *memory.Log
	Cycles *cyclelog.Store
	Status StatusFunc
}

type Server struct {
	addr   string
	router *gin.Engine
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":9980"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.GET("/status", func(c *gin.Context) {
		if cfg.Status == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "status not available"})
			return
		}
		c.JSON(http.StatusOK, cfg.Status())
	})
	api.GET("/memory", func(c *gin.Context) {
		if cfg.Memory == nil || !cfg.Memory.Enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trade memory disabled"})
			return
		}
		records := cfg.Memory.ReadAll()
		c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
	})
	api.GET("/cycles", func(c *gin.Context) {
		if cfg.Cycles == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cycle store disabled"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit <= 0 {
			limit = 20
		}
		if limit > 200 {
			limit = 200
		}
		rows, err := cfg.Cycles.Recent(c.Request.Context(), limit)
		if err != nil {
			logger.Errorf("[api] list cycles failed ip=%s err=%v", c.ClientIP(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(rows), "cycles": rows})
	})

	return &Server{addr: cfg.Addr, router: router}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), c.ClientIP(), time.Since(start))
	}
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
