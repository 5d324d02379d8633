package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// initPredictionRoutes registers the prediction-related routes.
func (c *Controller) initPredictionRoutes() {
	predictionGroup := c.Group.Group("/predictions")
	predictionGroup.POST("/single", c.PostSinglePrediction)
	predictionGroup.POST("/batch", c.PostBatchPrediction)
	predictionGroup.GET("/models", c.GetModels)
	predictionGroup.GET("/:id", c.GetBatchPrediction)
}

// SinglePredictionRequest is the body of POST /predictions/single.
type SinglePredictionRequest struct {
	Sequence string `json:"sequence"`
	Model    string `json:"model"`
}

// BatchPredictionRequest is the body of POST /predictions/batch.
type BatchPredictionRequest struct {
	Sequences []string `json:"sequences"`
	Model     string   `json:"model"`
}

// PostSinglePrediction handles POST /api/v2/predictions/single.
func (c *Controller) PostSinglePrediction(ctx echo.Context) error {
	var req SinglePredictionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request format", http.StatusBadRequest)
	}

	result, err := c.Prediction.PredictSingle(ctx.Request().Context(), req.Sequence, req.Model)
	if err != nil {
		return c.HandleError(ctx, err, "Prediction failed", 0)
	}

	return c.Respond(ctx, http.StatusCreated, result)
}

// PostBatchPrediction handles POST /api/v2/predictions/batch.
func (c *Controller) PostBatchPrediction(ctx echo.Context) error {
	var req BatchPredictionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request format", http.StatusBadRequest)
	}

	if len(req.Sequences) == 0 {
		return c.HandleError(ctx, nil, "At least one sequence is required", http.StatusBadRequest)
	}

	result, err := c.Prediction.PredictBatch(ctx.Request().Context(), req.Sequences, req.Model)
	if err != nil {
		return c.HandleError(ctx, err, "Batch prediction failed", 0)
	}

	return c.Respond(ctx, http.StatusCreated, result)
}

// GetModels handles GET /api/v2/predictions/models.
func (c *Controller) GetModels(ctx echo.Context) error {
	return c.Respond(ctx, http.StatusOK, c.Prediction.Models())
}

// GetBatchPrediction handles GET /api/v2/predictions/:id.
func (c *Controller) GetBatchPrediction(ctx echo.Context) error {
	id := ctx.Param("id")

	batch, err := c.Prediction.GetBatch(id)
	if err != nil {
		return c.HandleError(ctx, err, "Batch result not found", 0)
	}

	return c.Respond(ctx, http.StatusOK, batch)
}
