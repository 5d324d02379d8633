package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/peptoxlab/toxpred-go/internal/datastore"
	"github.com/peptoxlab/toxpred-go/internal/errors"
	"github.com/peptoxlab/toxpred-go/internal/predictor"
)

func toxicResult(p float64) predictor.Result {
	return predictor.Result{
		Prediction:  predictor.LabelToxic,
		Confidence:  p,
		Probability: predictor.Probability{Toxic: p, NonToxic: 1 - p},
	}
}

func nonToxicResult(p float64) predictor.Result {
	return predictor.Result{
		Prediction:  predictor.LabelNonToxic,
		Confidence:  p,
		Probability: predictor.Probability{Toxic: 1 - p, NonToxic: p},
	}
}

func TestPostSinglePrediction(t *testing.T) {
	e, mockDS, mockPred, _ := setupTestEnvironment()

	mockPred.On("Predict", mock.Anything, []string{"ACDEFGHIK"}, "ensemble").
		Return([]predictor.Result{toxicResult(0.91)}, nil)
	mockDS.On("Save", mock.MatchedBy(func(p *datastore.Prediction) bool {
		return p.Sequence == "ACDEFGHIK"
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/predictions/single",
		strings.NewReader(`{"sequence":"acdefghik"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			ID       uint   `json:"id"`
			Sequence string `json:"sequence"`
			Model    string `json:"model"`
			Result   struct {
				Prediction string  `json:"prediction"`
				Confidence float64 `json:"confidence"`
			} `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.True(t, response.Success)
	assert.Equal(t, uint(1), response.Data.ID)
	assert.Equal(t, "ACDEFGHIK", response.Data.Sequence)
	assert.Equal(t, "ensemble", response.Data.Model)
	assert.Equal(t, "Toxic", response.Data.Result.Prediction)

	mockDS.AssertExpectations(t)
	mockPred.AssertExpectations(t)
}

func TestPostSinglePredictionInvalidSequence(t *testing.T) {
	e, mockDS, mockPred, _ := setupTestEnvironment()

	req := httptest.NewRequest(http.MethodPost, "/api/v2/predictions/single",
		strings.NewReader(`{"sequence":"ACDXFGHIK"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, []string{"ACDXFGHIK"}, response.InvalidSequences)
	assert.NotEmpty(t, response.CorrelationID)

	mockPred.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything, mock.Anything)
	mockDS.AssertNotCalled(t, "Save", mock.Anything)
}

func TestPostSinglePredictionPredictorFailure(t *testing.T) {
	e, mockDS, mockPred, _ := setupTestEnvironment()

	failure := errors.Newf("predictor process failed").
		Category(errors.CategoryCommandExecution).
		Build()
	mockPred.On("Predict", mock.Anything, []string{"ACDEFGHIK"}, "ensemble").Return(nil, failure)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/predictions/single",
		strings.NewReader(`{"sequence":"ACDEFGHIK"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	mockDS.AssertNotCalled(t, "Save", mock.Anything)
}

func TestPostBatchPrediction(t *testing.T) {
	e, mockDS, mockPred, _ := setupTestEnvironment()

	mockPred.On("Predict", mock.Anything, []string{"ACDEFGHIK", "GLFDIVKKVV"}, "svm").
		Return([]predictor.Result{toxicResult(0.9), nonToxicResult(0.8)}, nil)
	mockDS.On("SavePredictions", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/predictions/batch",
		strings.NewReader(`{"sequences":["acdefghik","glfdivkkvv"],"model":"svm"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			ID          string `json:"id"`
			Model       string `json:"model"`
			Total       int    `json:"total"`
			Toxic       int    `json:"toxic"`
			NonToxic    int    `json:"nonToxic"`
			Predictions []struct {
				Sequence   string `json:"sequence"`
				Prediction string `json:"prediction"`
			} `json:"predictions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.True(t, response.Success)
	assert.NotEmpty(t, response.Data.ID)
	assert.Equal(t, "svm", response.Data.Model)
	assert.Equal(t, 2, response.Data.Total)
	assert.Equal(t, 1, response.Data.Toxic)
	assert.Equal(t, 1, response.Data.NonToxic)
	require.Len(t, response.Data.Predictions, 2)
	assert.Equal(t, "ACDEFGHIK", response.Data.Predictions[0].Sequence)
}

func TestPostBatchPredictionRejectsEmpty(t *testing.T) {
	e, _, _, _ := setupTestEnvironment()

	req := httptest.NewRequest(http.MethodPost, "/api/v2/predictions/batch",
		strings.NewReader(`{"sequences":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostBatchPredictionAllOrNothing(t *testing.T) {
	e, mockDS, mockPred, _ := setupTestEnvironment()

	req := httptest.NewRequest(http.MethodPost, "/api/v2/predictions/batch",
		strings.NewReader(`{"sequences":["ACDEFGHIK","ACDXFGHIK"]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, []string{"ACDXFGHIK"}, response.InvalidSequences)

	mockPred.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything, mock.Anything)
	mockDS.AssertNotCalled(t, "SavePredictions", mock.Anything)
}

func TestGetModels(t *testing.T) {
	e, _, _, _ := setupTestEnvironment()

	req := httptest.NewRequest(http.MethodGet, "/api/v2/predictions/models", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success bool `json:"success"`
		Data    []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Len(t, response.Data, 4)
}

func TestGetBatchPredictionNotFound(t *testing.T) {
	e, _, _, _ := setupTestEnvironment()

	req := httptest.NewRequest(http.MethodGet, "/api/v2/predictions/unknown-id", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBatchPredictionRoundTrip(t *testing.T) {
	e, mockDS, mockPred, _ := setupTestEnvironment()

	mockPred.On("Predict", mock.Anything, []string{"ACDEFGHIK"}, "ensemble").
		Return([]predictor.Result{toxicResult(0.9)}, nil)
	mockDS.On("SavePredictions", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/predictions/batch",
		strings.NewReader(`{"sequences":["ACDEFGHIK"]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodGet, "/api/v2/predictions/"+created.Data.ID, http.NoBody)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.Data.ID)
}
