package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostFeatureAnalysis(t *testing.T) {
	e, _, _, _ := setupTestEnvironment()

	req := httptest.NewRequest(http.MethodPost, "/api/v2/analysis/features",
		strings.NewReader(`{"sequence":"glfdivkkvvgalg"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Sequence             string             `json:"sequence"`
			Length               int                `json:"length"`
			AminoAcidComposition map[string]float64 `json:"amino_acid_composition"`
			Properties           map[string]float64 `json:"properties"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.True(t, response.Success)
	assert.Equal(t, "GLFDIVKKVVGALG", response.Data.Sequence)
	assert.Equal(t, 14, response.Data.Length)
	assert.Len(t, response.Data.AminoAcidComposition, 20)
	assert.Contains(t, response.Data.Properties, "gravy")
}

func TestPostFeatureAnalysisInvalidSequence(t *testing.T) {
	e, _, _, _ := setupTestEnvironment()

	req := httptest.NewRequest(http.MethodPost, "/api/v2/analysis/features",
		strings.NewReader(`{"sequence":"ACDXFGHIK"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
