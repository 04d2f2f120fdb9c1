// Package api exposes the pipeline over HTTP
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/slidearchitect/internal/api/middleware"
	"github.com/slidearchitect/internal/pipeline"
	"github.com/slidearchitect/pkg/models"
)

const shutdownTimeout = 10 * time.Second

// Options configures the HTTP server
type Options struct {
	Port            int
	BodyLimit       string // echo size notation, e.g. "32M"
	DefaultLanguage models.Language
}

// Server represents the API server
type Server struct {
	echo     *echo.Echo
	port     int
	pipeline *pipeline.Orchestrator
	language models.Language
	log      zerolog.Logger
}

// NewServer creates a new API server around an orchestrator
func NewServer(orch *pipeline.Orchestrator, opts Options, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		port:     opts.Port,
		pipeline: orch,
		language: opts.DefaultLanguage,
		log:      log,
	}
	if s.language == "" {
		s.language = models.LangFR
	}
	e.HTTPErrorHandler = s.handleHTTPError

	// Middleware
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	if opts.BodyLimit != "" {
		e.Use(echomw.BodyLimit(opts.BodyLimit))
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	v1 := s.echo.Group("/api/v1")
	v1.POST("/plans", s.createPlan)
	v1.POST("/cloning-plans", s.createCloningPlan)
	v1.POST("/presentations", s.createPresentation)
	v1.POST("/templates/inspect", s.inspectTemplate)
}

// Handler returns the server as a plain http.Handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Int("port", s.port).Msg("HTTP server listening")
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
