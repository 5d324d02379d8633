package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// initHistoryRoutes registers the read-only history routes.
func (c *Controller) initHistoryRoutes() {
	historyGroup := c.Group.Group("/history")
	historyGroup.GET("", c.GetHistory)
	historyGroup.GET("/stats", c.GetStatistics)
	historyGroup.GET("/search", c.SearchHistory)
}

// parseLimit reads the limit query parameter, applying default and cap.
func parseLimit(ctx echo.Context) int {
	limit := defaultHistoryLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return limit
}

// GetHistory handles GET /api/v2/history.
func (c *Controller) GetHistory(ctx echo.Context) error {
	predictions, err := c.DS.GetRecentPredictions(parseLimit(ctx))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get prediction history", 0)
	}

	return c.Respond(ctx, http.StatusOK, predictions)
}

// GetStatistics handles GET /api/v2/history/stats.
func (c *Controller) GetStatistics(ctx echo.Context) error {
	stats, err := c.DS.GetPredictionStatistics()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get prediction statistics", 0)
	}

	return c.Respond(ctx, http.StatusOK, stats)
}

// SearchHistory handles GET /api/v2/history/search.
func (c *Controller) SearchHistory(ctx echo.Context) error {
	query := strings.TrimSpace(ctx.QueryParam("q"))
	if query == "" {
		return c.HandleError(ctx, nil, "Query parameter q is required", http.StatusBadRequest)
	}

	predictions, err := c.DS.SearchPredictions(query, parseLimit(ctx))
	if err != nil {
		return c.HandleError(ctx, err, "Search failed", 0)
	}

	return c.Respond(ctx, http.StatusOK, predictions)
}
