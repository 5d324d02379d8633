package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/peptoxlab/toxpred-go/internal/analysis"
	"github.com/peptoxlab/toxpred-go/internal/conf"
	"github.com/peptoxlab/toxpred-go/internal/datastore"
	"github.com/peptoxlab/toxpred-go/internal/prediction"
	"github.com/peptoxlab/toxpred-go/internal/predictor"
)

// MockDataStore is a testify mock of datastore.Interface for handler tests.
type MockDataStore struct {
	mock.Mock
	nextID uint
}

func (m *MockDataStore) Open() error  { return m.Called().Error(0) }
func (m *MockDataStore) Close() error { return m.Called().Error(0) }

func (m *MockDataStore) Save(p *datastore.Prediction) error {
	args := m.Called(p)
	if args.Error(0) == nil {
		m.nextID++
		p.ID = m.nextID
		p.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockDataStore) SavePredictions(ps []*datastore.Prediction) error {
	args := m.Called(ps)
	if args.Error(0) == nil {
		for _, p := range ps {
			m.nextID++
			p.ID = m.nextID
			p.CreatedAt = time.Now()
		}
	}
	return args.Error(0)
}

func (m *MockDataStore) GetRecentPredictions(limit int) ([]datastore.Prediction, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datastore.Prediction), args.Error(1)
}

func (m *MockDataStore) GetPredictionStatistics() (*datastore.PredictionStatistics, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*datastore.PredictionStatistics), args.Error(1)
}

func (m *MockDataStore) SearchPredictions(query string, limit int) ([]datastore.Prediction, error) {
	args := m.Called(query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]datastore.Prediction), args.Error(1)
}

// MockPredictor is a testify mock of predictor.Interface for handler tests.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, sequences []string, model string) ([]predictor.Result, error) {
	args := m.Called(ctx, sequences, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]predictor.Result), args.Error(1)
}

func (m *MockPredictor) ExtractFeatures(ctx context.Context, seq string) (*predictor.Features, error) {
	args := m.Called(ctx, seq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*predictor.Features), args.Error(1)
}

// setupTestEnvironment builds an Echo instance and a controller wired to
// mocks, using the real service layer in between.
func setupTestEnvironment() (*echo.Echo, *MockDataStore, *MockPredictor, *Controller) {
	e := echo.New()
	mockDS := &MockDataStore{}
	mockPred := &MockPredictor{}

	settings := &conf.Settings{
		BatchCache: conf.BatchCacheSettings{
			TTL:             time.Hour,
			CleanupInterval: time.Hour,
		},
	}

	predictionService := prediction.NewService(mockDS, mockPred, settings.BatchCache, nil)
	analysisService := analysis.NewService(mockPred, false)

	controller := New(e, mockDS, settings, predictionService, analysisService, nil)
	return e, mockDS, mockPred, controller
}
