// Package httpserver assembles the Echo instance, middleware and API
// controller into a runnable server.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/peptoxlab/toxpred-go/internal/analysis"
	api "github.com/peptoxlab/toxpred-go/internal/api/v2"
	"github.com/peptoxlab/toxpred-go/internal/conf"
	"github.com/peptoxlab/toxpred-go/internal/datastore"
	"github.com/peptoxlab/toxpred-go/internal/logging"
	"github.com/peptoxlab/toxpred-go/internal/observability"
	"github.com/peptoxlab/toxpred-go/internal/prediction"
)

// Server wraps the Echo instance and its wiring.
type Server struct {
	Echo       *echo.Echo
	Controller *api.Controller
	settings   *conf.Settings
	logger     *slog.Logger
}

// New builds the HTTP server with middleware and all API routes registered.
func New(settings *conf.Settings, ds datastore.Interface,
	predictionService *prediction.Service, analysisService *analysis.Service,
	metrics *observability.Metrics) *Server {

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			// Metrics output stays uncompressed for scrape simplicity.
			return c.Path() == "/metrics"
		},
	}))

	controller := api.New(e, ds, settings, predictionService, analysisService, metrics)

	return &Server{
		Echo:       e,
		Controller: controller,
		settings:   settings,
		logger:     logging.ForService("httpserver"),
	}
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.settings.Server.Host, s.settings.Server.Port)
	s.logger.Info("starting HTTP server", "addr", addr)

	if err := s.Echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully, draining in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.Echo.Shutdown(ctx)
}
