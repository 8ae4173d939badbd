package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/poornesh-v09/Milk-Management/api/middleware"
	"github.com/poornesh-v09/Milk-Management/api/routes"
	"github.com/poornesh-v09/Milk-Management/config"
	"github.com/poornesh-v09/Milk-Management/internal/service"
	"github.com/poornesh-v09/Milk-Management/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Server represents the HTTP server
type Server struct {
	config     config.Config
	router     *gin.Engine
	httpServer *http.Server
	service    service.Service
	tracer     tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, svc service.Service, tracer tracing.Tracer) *Server {
	server := &Server{
		config:  cfg,
		service: svc,
		tracer:  tracer,
	}

	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.router,
	}

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log.Logger))
	if app := s.tracer.Application(); app != nil {
		router.Use(nrgin.Middleware(app))
	}

	routes.SetupRoutes(router, s.service)

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Int("port", s.config.Server.Port).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
