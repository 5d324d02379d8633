// Package predictor provides the gateway to the external toxicity prediction
// process. The concrete transport is hidden behind a capability interface so
// the service layer never depends on how inference is performed.
package predictor

import "context"

// Probability holds the class probabilities for one sequence.
type Probability struct {
	Toxic    float64 `json:"toxic"`
	NonToxic float64 `json:"non_toxic"`
}

// Result is the prediction for a single sequence.
type Result struct {
	Prediction  string      `json:"prediction"` // "Toxic" or "Non-Toxic"
	Confidence  float64     `json:"confidence"`
	Probability Probability `json:"probability"`
}

// Features is the payload of the external feature extractor.
type Features struct {
	Features             []float64          `json:"features"`
	Properties           map[string]float64 `json:"properties"`
	AminoAcidComposition []float64          `json:"amino_acid_composition"`
	Length               int                `json:"length"`
}

// Prediction labels emitted by the predictor.
const (
	LabelToxic    = "Toxic"
	LabelNonToxic = "Non-Toxic"
)

// Interface is the capability contract of the external predictor.
// Implementations must return exactly one Result per input sequence, in input
// order, and honor context cancellation.
type Interface interface {
	Predict(ctx context.Context, sequences []string, model string) ([]Result, error)
	ExtractFeatures(ctx context.Context, sequence string) (*Features, error)
}
