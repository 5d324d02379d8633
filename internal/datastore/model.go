// model.go defines the persisted data model for the application.
package datastore

import "time"

// Prediction represents one scored sequence. Records are append-only: the
// application never updates or deletes them.
type Prediction struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Sequence            string    `gorm:"index:idx_predictions_sequence" json:"sequence"`
	Model               string    `gorm:"index:idx_predictions_model" json:"model"`
	Label               string    `gorm:"column:prediction;index:idx_predictions_label" json:"prediction"`
	Confidence          float64   `json:"confidence"`
	ToxicProbability    float64   `json:"toxic_probability"`
	NonToxicProbability float64   `json:"non_toxic_probability"`
	CreatedAt           time.Time `gorm:"index:idx_predictions_created_at" json:"created_at"`
}

// PredictionStatistics aggregates the stored predictions for the dashboard.
type PredictionStatistics struct {
	Total            int64            `json:"total"`
	ToxicCount       int64            `json:"toxicCount"`
	NonToxicCount    int64            `json:"nonToxicCount"`
	ModelUsageCounts map[string]int64 `json:"modelUsageCounts"`
}
