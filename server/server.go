// Package server exposes the converter over HTTP: POST /convert for the
// paste page, plus health and Prometheus endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gaurav-prasanna/clip2md/config"
	"github.com/gaurav-prasanna/clip2md/core"
)

// Server wires a Normalizer to a gin router.
type Server struct {
	conf       config.Server
	normalizer core.Normalizer
	logger     *slog.Logger
	router     *gin.Engine
}

// New builds the router. A nil logger uses slog.Default.
func New(conf config.Server, normalizer core.Normalizer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{conf: conf, normalizer: normalizer, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(logger))
	r.POST("/convert", s.convert)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if conf.StaticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(conf.StaticDir))))
	}
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.conf.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("clip2md server listening", "addr", s.conf.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving HTTP: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}
