// Package prediction orchestrates sequence validation, external model
// invocation and persistence for single and batch prediction requests.
package prediction

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/peptoxlab/toxpred-go/internal/conf"
	"github.com/peptoxlab/toxpred-go/internal/datastore"
	"github.com/peptoxlab/toxpred-go/internal/errors"
	"github.com/peptoxlab/toxpred-go/internal/logging"
	"github.com/peptoxlab/toxpred-go/internal/observability"
	"github.com/peptoxlab/toxpred-go/internal/predictor"
	"github.com/peptoxlab/toxpred-go/internal/sequence"
)

// DefaultModel is used when a request omits the model name.
const DefaultModel = "ensemble"

// SingleResult is the outcome of a single prediction request.
type SingleResult struct {
	ID        uint             `json:"id"`
	Sequence  string           `json:"sequence"`
	Model     string           `json:"model"`
	Result    predictor.Result `json:"result"`
	Timestamp time.Time        `json:"timestamp"`
}

// BatchItem is one scored sequence within a batch.
type BatchItem struct {
	RecordID    uint                  `json:"record_id"`
	Sequence    string                `json:"sequence"`
	Prediction  string                `json:"prediction"`
	Confidence  float64               `json:"confidence"`
	Probability predictor.Probability `json:"probability"`
}

// BatchResult is the outcome of a batch prediction request. It is held in a
// bounded in-memory cache keyed by ID; only the constituent records persist.
type BatchResult struct {
	ID          string      `json:"id"`
	Model       string      `json:"model"`
	Predictions []BatchItem `json:"predictions"`
	Total       int         `json:"total"`
	Toxic       int         `json:"toxic"`
	NonToxic    int         `json:"nonToxic"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ModelInfo describes one selectable predictor variant.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default,omitempty"`
}

// Service coordinates validation, the predictor gateway and the datastore.
type Service struct {
	ds         datastore.Interface
	predictor  predictor.Interface
	metrics    *observability.Metrics
	batchCache *cache.Cache
	logger     *slog.Logger
}

// NewService creates a prediction service. The batch result cache is bounded
// by TTL eviction per the configured cache settings.
func NewService(ds datastore.Interface, pred predictor.Interface, cacheSettings conf.BatchCacheSettings, metrics *observability.Metrics) *Service {
	return &Service{
		ds:         ds,
		predictor:  pred,
		metrics:    metrics,
		batchCache: cache.New(cacheSettings.TTL, cacheSettings.CleanupInterval),
		logger:     logging.ForService("prediction"),
	}
}

// Models returns the static catalog of supported predictor variants.
func (s *Service) Models() []ModelInfo {
	return []ModelInfo{
		{ID: "ensemble", Name: "Ensemble", Description: "Average of all trained models", Default: true},
		{ID: "logistic_regression", Name: "Logistic Regression", Description: "Linear baseline classifier"},
		{ID: "random_forest", Name: "Random Forest", Description: "Tree ensemble classifier"},
		{ID: "svm", Name: "SVM", Description: "Support vector machine classifier"},
	}
}

// PredictSingle validates one raw sequence, scores it with the requested model
// and persists the result. Nothing is invoked or written when validation fails.
func (s *Service) PredictSingle(ctx context.Context, rawSequence, model string) (*SingleResult, error) {
	if model == "" {
		model = DefaultModel
	}

	normalized := sequence.Normalize(rawSequence)
	if err := sequence.Validate(normalized); err != nil {
		if s.metrics != nil {
			s.metrics.IncValidationFailure()
		}
		return nil, invalidSequenceError(err, []string{rawSequence})
	}

	results, err := s.predictor.Predict(ctx, []string{normalized}, model)
	if err != nil {
		return nil, err
	}

	record := recordFromResult(normalized, model, results[0])
	if err := s.save(record); err != nil {
		return nil, err
	}
	s.countPrediction(model, record.Label)

	s.logger.Info("prediction stored",
		"id", record.ID,
		"model", model,
		"label", record.Label)

	return &SingleResult{
		ID:        record.ID,
		Sequence:  normalized,
		Model:     model,
		Result:    results[0],
		Timestamp: record.CreatedAt,
	}, nil
}

// PredictBatch validates every raw sequence up front and rejects the whole
// batch when any fails, naming the offending original inputs. A passing batch
// is scored in one predictor invocation and persisted in one transaction.
func (s *Service) PredictBatch(ctx context.Context, rawSequences []string, model string) (*BatchResult, error) {
	if model == "" {
		model = DefaultModel
	}

	if len(rawSequences) == 0 {
		return nil, errors.Newf("batch contains no sequences").
			Component("prediction").
			Category(errors.CategoryValidation).
			Build()
	}

	normalized := make([]string, len(rawSequences))
	var invalid []string
	for i, raw := range rawSequences {
		normalized[i] = sequence.Normalize(raw)
		if err := sequence.Validate(normalized[i]); err != nil {
			invalid = append(invalid, raw)
		}
	}
	if len(invalid) > 0 {
		if s.metrics != nil {
			s.metrics.IncValidationFailure()
		}
		return nil, invalidSequenceError(
			errors.Newf("%d of %d sequences failed validation", len(invalid), len(rawSequences)).
				Category(errors.CategoryValidation).
				Build(),
			invalid)
	}

	results, err := s.predictor.Predict(ctx, normalized, model)
	if err != nil {
		return nil, err
	}

	records := make([]*datastore.Prediction, len(results))
	for i, result := range results {
		records[i] = recordFromResult(normalized[i], model, result)
	}
	if err := s.saveBatch(records); err != nil {
		return nil, err
	}

	batch := &BatchResult{
		ID:          uuid.NewString(),
		Model:       model,
		Predictions: make([]BatchItem, len(results)),
		Total:       len(results),
		Timestamp:   time.Now(),
	}
	for i, result := range results {
		batch.Predictions[i] = BatchItem{
			RecordID:    records[i].ID,
			Sequence:    normalized[i],
			Prediction:  result.Prediction,
			Confidence:  result.Confidence,
			Probability: result.Probability,
		}
		switch result.Prediction {
		case predictor.LabelToxic:
			batch.Toxic++
		case predictor.LabelNonToxic:
			batch.NonToxic++
		}
		s.countPrediction(model, result.Prediction)
	}

	s.batchCache.SetDefault(batch.ID, batch)

	s.logger.Info("batch prediction stored",
		"batch_id", batch.ID,
		"model", model,
		"total", batch.Total,
		"toxic", batch.Toxic)

	return batch, nil
}

// GetBatch returns a previously computed batch result from the cache.
func (s *Service) GetBatch(id string) (*BatchResult, error) {
	if cached, found := s.batchCache.Get(id); found {
		if batch, ok := cached.(*BatchResult); ok {
			return batch, nil
		}
	}
	return nil, errors.Newf("batch result %s not found", id).
		Component("prediction").
		Category(errors.CategoryNotFound).
		Build()
}

func (s *Service) save(record *datastore.Prediction) error {
	err := s.ds.Save(record)
	if s.metrics != nil {
		if err != nil {
			s.metrics.IncStoreWrite("error")
		} else {
			s.metrics.IncStoreWrite("success")
		}
	}
	return err
}

func (s *Service) saveBatch(records []*datastore.Prediction) error {
	err := s.ds.SavePredictions(records)
	if s.metrics != nil {
		if err != nil {
			s.metrics.IncStoreWrite("error")
		} else {
			s.metrics.IncStoreWrite("success")
		}
	}
	return err
}

func (s *Service) countPrediction(model, label string) {
	if s.metrics != nil {
		s.metrics.IncPrediction(model, label)
	}
}

func recordFromResult(normalized, model string, result predictor.Result) *datastore.Prediction {
	return &datastore.Prediction{
		Sequence:            normalized,
		Model:               model,
		Label:               result.Prediction,
		Confidence:          result.Confidence,
		ToxicProbability:    result.Probability.Toxic,
		NonToxicProbability: result.Probability.NonToxic,
	}
}

// invalidSequenceError wraps a validation failure with the offending original
// inputs so the HTTP layer can report them.
func invalidSequenceError(cause error, inputs []string) error {
	return errors.Newf("invalid sequence input: %w", cause).
		Component("prediction").
		Category(errors.CategoryValidation).
		Context("invalid_sequences", inputs).
		Build()
}

// InvalidInputs extracts the offending original inputs from a validation
// error, or nil when the error carries none.
func InvalidInputs(err error) []string {
	var enhanced *errors.EnhancedError
	if !errors.As(err, &enhanced) {
		return nil
	}
	inputs, _ := enhanced.GetContext()["invalid_sequences"].([]string)
	return inputs
}
