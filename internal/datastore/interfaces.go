// interfaces.go defines the interface for the database operations.
package datastore

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/peptoxlab/toxpred-go/internal/conf"
	"github.com/peptoxlab/toxpred-go/internal/errors"
)

// Interface abstracts the underlying database implementation and defines the
// operations available on the prediction store.
type Interface interface {
	Open() error
	Close() error
	Save(prediction *Prediction) error
	SavePredictions(predictions []*Prediction) error
	GetRecentPredictions(limit int) ([]Prediction, error)
	GetPredictionStatistics() (*PredictionStatistics, error)
	SearchPredictions(query string, limit int) ([]Prediction, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	return &SQLiteStore{
		Settings: settings,
	}
}

// Save inserts a single prediction record.
func (ds *DataStore) Save(prediction *Prediction) error {
	if err := ds.DB.Create(prediction).Error; err != nil {
		return errors.Newf("saving prediction: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// SavePredictions inserts a batch of prediction records in a single
// transaction; either every record persists or none do.
func (ds *DataStore) SavePredictions(predictions []*Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		for _, prediction := range predictions {
			if err := tx.Create(prediction).Error; err != nil {
				return fmt.Errorf("saving prediction for sequence %s: %w", prediction.Sequence, err)
			}
		}
		return nil
	})
	if err != nil {
		return errors.Newf("saving prediction batch: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("batch_size", len(predictions)).
			Build()
	}
	return nil
}

// GetRecentPredictions returns up to limit predictions, most recent first.
// Ties in creation time break on descending id, which matches insertion order.
func (ds *DataStore) GetRecentPredictions(limit int) ([]Prediction, error) {
	var predictions []Prediction
	err := ds.DB.
		Order("id DESC").
		Limit(limit).
		Find(&predictions).Error
	if err != nil {
		return nil, errors.Newf("getting recent predictions: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return predictions, nil
}

// GetPredictionStatistics returns aggregate counts over all stored
// predictions. The three underlying queries are not executed atomically, so
// totals may skew momentarily under concurrent writes.
func (ds *DataStore) GetPredictionStatistics() (*PredictionStatistics, error) {
	stats := &PredictionStatistics{
		ModelUsageCounts: make(map[string]int64),
	}

	if err := ds.DB.Model(&Prediction{}).Count(&stats.Total).Error; err != nil {
		return nil, errors.Newf("counting predictions: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	var labelCounts []struct {
		Prediction string
		Count      int64
	}
	err := ds.DB.Model(&Prediction{}).
		Select("prediction, COUNT(*) as count").
		Group("prediction").
		Scan(&labelCounts).Error
	if err != nil {
		return nil, errors.Newf("counting predictions by label: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	for _, lc := range labelCounts {
		switch lc.Prediction {
		case "Toxic":
			stats.ToxicCount = lc.Count
		case "Non-Toxic":
			stats.NonToxicCount = lc.Count
		}
	}

	var modelCounts []struct {
		Model string
		Count int64
	}
	err = ds.DB.Model(&Prediction{}).
		Select("model, COUNT(*) as count").
		Group("model").
		Scan(&modelCounts).Error
	if err != nil {
		return nil, errors.Newf("counting predictions by model: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	for _, mc := range modelCounts {
		stats.ModelUsageCounts[mc.Model] = mc.Count
	}

	return stats, nil
}

// SearchPredictions returns up to limit predictions whose sequence contains
// the query as a substring, most recent first. Stored sequences are uppercase,
// so the query is uppercased before matching.
func (ds *DataStore) SearchPredictions(query string, limit int) ([]Prediction, error) {
	var predictions []Prediction
	err := ds.DB.
		Where("sequence LIKE ?", "%"+strings.ToUpper(query)+"%").
		Order("id DESC").
		Limit(limit).
		Find(&predictions).Error
	if err != nil {
		return nil, errors.Newf("searching predictions: %w", err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("query", query).
			Build()
	}
	return predictions, nil
}
