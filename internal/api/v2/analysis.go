package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// initAnalysisRoutes registers the feature analysis routes.
func (c *Controller) initAnalysisRoutes() {
	analysisGroup := c.Group.Group("/analysis")
	analysisGroup.POST("/features", c.PostFeatureAnalysis)
}

// FeatureAnalysisRequest is the body of POST /analysis/features.
type FeatureAnalysisRequest struct {
	Sequence string `json:"sequence"`
}

// PostFeatureAnalysis handles POST /api/v2/analysis/features.
func (c *Controller) PostFeatureAnalysis(ctx echo.Context) error {
	var req FeatureAnalysisRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request format", http.StatusBadRequest)
	}

	result, err := c.Analysis.AnalyzeSequence(ctx.Request().Context(), req.Sequence)
	if err != nil {
		return c.HandleError(ctx, err, "Feature analysis failed", 0)
	}

	return c.Respond(ctx, http.StatusOK, result)
}
