// Package analysis provides amino-acid composition and physicochemical
// property analysis for peptide sequences. Properties are computed in-process
// by default; a configuration switch routes through the external Python
// feature extractor instead, which additionally reports the instability index.
package analysis

import (
	"context"
	"log/slog"

	"github.com/peptoxlab/toxpred-go/internal/logging"
	"github.com/peptoxlab/toxpred-go/internal/predictor"
	"github.com/peptoxlab/toxpred-go/internal/sequence"
)

// Result is the feature analysis payload for one sequence.
type Result struct {
	Sequence             string             `json:"sequence"`
	Length               int                `json:"length"`
	AminoAcidComposition map[string]float64 `json:"amino_acid_composition"`
	Properties           map[string]float64 `json:"properties"`
}

// Service computes feature analyses.
type Service struct {
	predictor        predictor.Interface
	externalFeatures bool
	logger           *slog.Logger
}

// NewService creates an analysis service. When externalFeatures is true the
// analysis is delegated to the external feature extraction script.
func NewService(pred predictor.Interface, externalFeatures bool) *Service {
	return &Service{
		predictor:        pred,
		externalFeatures: externalFeatures,
		logger:           logging.ForService("analysis"),
	}
}

// AnalyzeSequence normalizes and validates the raw input, then computes its
// composition and physicochemical properties.
func (s *Service) AnalyzeSequence(ctx context.Context, rawSequence string) (*Result, error) {
	normalized := sequence.Normalize(rawSequence)
	if err := sequence.Validate(normalized); err != nil {
		return nil, err
	}

	if s.externalFeatures {
		return s.analyzeExternal(ctx, normalized)
	}
	return s.analyzeInProcess(normalized), nil
}

func (s *Service) analyzeInProcess(normalized string) *Result {
	props := sequence.ComputeProperties(normalized)
	return &Result{
		Sequence:             normalized,
		Length:               len(normalized),
		AminoAcidComposition: sequence.Composition(normalized),
		Properties: map[string]float64{
			"molecular_weight":  props.MolecularWeight,
			"net_charge_pH7":    props.NetChargePH7,
			"isoelectric_point": props.IsoelectricPoint,
			"aromaticity":       props.Aromaticity,
			"gravy":             props.GRAVY,
		},
	}
}

func (s *Service) analyzeExternal(ctx context.Context, normalized string) (*Result, error) {
	features, err := s.predictor.ExtractFeatures(ctx, normalized)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Sequence:             normalized,
		Length:               features.Length,
		AminoAcidComposition: compositionMap(features.AminoAcidComposition),
		Properties:           features.Properties,
	}
	if result.Length == 0 {
		result.Length = len(normalized)
	}
	return result, nil
}

// compositionMap converts the extractor's alphabet-ordered composition vector
// into a map keyed by residue letter.
func compositionMap(values []float64) map[string]float64 {
	alphabet := sequence.Alphabet()
	composition := make(map[string]float64, len(alphabet))
	for i, r := range alphabet {
		if i < len(values) {
			composition[string(r)] = values[i]
		}
	}
	return composition
}
