// internal/api/v2/api.go
package api

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peptoxlab/toxpred-go/internal/analysis"
	"github.com/peptoxlab/toxpred-go/internal/conf"
	"github.com/peptoxlab/toxpred-go/internal/datastore"
	"github.com/peptoxlab/toxpred-go/internal/errors"
	"github.com/peptoxlab/toxpred-go/internal/logging"
	"github.com/peptoxlab/toxpred-go/internal/observability"
	"github.com/peptoxlab/toxpred-go/internal/prediction"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo       *echo.Echo
	Group      *echo.Group
	DS         datastore.Interface
	Settings   *conf.Settings
	Prediction *prediction.Service
	Analysis   *analysis.Service
	Metrics    *observability.Metrics

	apiLogger *slog.Logger
	startTime time.Time
}

// Envelope wraps every successful JSON response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success          bool     `json:"success"`
	Error            string   `json:"error"`
	Message          string   `json:"message"`
	Code             int      `json:"code"`
	CorrelationID    string   `json:"correlation_id"`
	InvalidSequences []string `json:"invalid_sequences,omitempty"`
}

// New creates a new API controller and registers its routes on the given Echo
// instance under /api/v2.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	predictionService *prediction.Service, analysisService *analysis.Service,
	metrics *observability.Metrics) *Controller {

	c := &Controller{
		Echo:       e,
		DS:         ds,
		Settings:   settings,
		Prediction: predictionService,
		Analysis:   analysisService,
		Metrics:    metrics,
		apiLogger:  logging.ForService("api"),
		startTime:  time.Now(),
	}

	c.Group = e.Group("/api/v2")

	c.initPredictionRoutes()
	c.initAnalysisRoutes()
	c.initHistoryRoutes()
	c.initHealthRoutes()

	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	return c
}

// initHealthRoutes registers the liveness endpoint.
func (c *Controller) initHealthRoutes() {
	c.Group.GET("/health", c.GetHealth)
}

// GetHealth handles GET /api/v2/health.
func (c *Controller) GetHealth(ctx echo.Context) error {
	return c.Respond(ctx, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(c.startTime).Seconds()),
	})
}

// Respond sends data wrapped in the success envelope.
func (c *Controller) Respond(ctx echo.Context, code int, data any) error {
	return ctx.JSON(code, Envelope{Success: true, Data: data})
}

// HandleError constructs and returns an error response. The HTTP status is
// derived from the error category unless the caller overrides it with a
// non-zero code.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	if code == 0 {
		code = statusFromError(err)
	}

	errorResp := &ErrorResponse{
		Success:          false,
		Error:            errorText(err, message),
		Message:          message,
		Code:             code,
		CorrelationID:    generateCorrelationID(),
		InvalidSequences: prediction.InvalidInputs(err),
	}

	c.apiLogger.Error("API error",
		"correlation_id", errorResp.CorrelationID,
		"message", message,
		"error", errorResp.Error,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP(),
	)

	return ctx.JSON(code, errorResp)
}

// statusFromError maps error categories onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.HasCategory(err, errors.CategoryValidation):
		return http.StatusBadRequest
	case errors.HasCategory(err, errors.CategoryNotFound):
		return http.StatusNotFound
	case errors.HasCategory(err, errors.CategoryCommandExecution),
		errors.HasCategory(err, errors.CategoryOutputParsing):
		return http.StatusBadGateway
	case errors.HasCategory(err, errors.CategoryTimeout):
		return http.StatusGatewayTimeout
	case errors.HasCategory(err, errors.CategoryDatabase):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func errorText(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}

// generateCorrelationID creates a random identifier for error tracking.
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "err-rand"
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}
