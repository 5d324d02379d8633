package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/peptoxlab/toxpred-go/internal/conf"
	"github.com/peptoxlab/toxpred-go/internal/errors"
	"github.com/peptoxlab/toxpred-go/internal/logging"
	"github.com/peptoxlab/toxpred-go/internal/observability"
)

// ScriptRunner implements Interface by spawning the Python bridge script once
// per call. Concurrent invocations are bounded by a semaphore and every
// invocation runs under a deadline; the child process is killed when the
// deadline expires or the caller cancels.
type ScriptRunner struct {
	settings conf.PredictorSettings
	metrics  *observability.Metrics
	sem      chan struct{}
	logger   *slog.Logger
}

// NewScriptRunner creates a runner from predictor settings.
func NewScriptRunner(settings conf.PredictorSettings, metrics *observability.Metrics) *ScriptRunner {
	maxConcurrency := settings.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &ScriptRunner{
		settings: settings,
		metrics:  metrics,
		sem:      make(chan struct{}, maxConcurrency),
		logger:   logging.ForService("predictor"),
	}
}

// acquire blocks until a predictor slot is free or the context is done.
func (r *ScriptRunner) acquire(ctx context.Context) error {
	select {
	case r.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return errors.Newf("waiting for predictor slot: %w", ctx.Err()).
			Component("predictor").
			Category(errors.CategoryTimeout).
			Build()
	}
}

func (r *ScriptRunner) release() {
	<-r.sem
}

// Predict invokes the prediction script with all sequences serialized together
// and parses its stdout as a JSON result array.
func (r *ScriptRunner) Predict(ctx context.Context, sequences []string, model string) ([]Result, error) {
	encoded, err := json.Marshal(sequences)
	if err != nil {
		return nil, errors.Newf("encoding sequences: %w", err).
			Component("predictor").
			Category(errors.CategoryGeneric).
			Build()
	}

	args := []string{
		r.settings.Script,
		"--sequences", string(encoded),
		"--model", model,
	}

	start := time.Now()
	stdout, err := r.run(ctx, args)
	if r.metrics != nil {
		r.metrics.ObservePredictorCall(model, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	var results []Result
	if err := json.Unmarshal(stdout, &results); err != nil {
		return nil, errors.Newf("parsing predictor output: %w", err).
			Component("predictor").
			Category(errors.CategoryOutputParsing).
			Context("output", truncateForLog(string(stdout))).
			Build()
	}

	if len(results) != len(sequences) {
		return nil, errors.Newf("predictor returned %d results for %d sequences", len(results), len(sequences)).
			Component("predictor").
			Category(errors.CategoryOutputParsing).
			Build()
	}

	return results, nil
}

// ExtractFeatures invokes the feature extraction script for a single sequence.
func (r *ScriptRunner) ExtractFeatures(ctx context.Context, sequence string) (*Features, error) {
	args := []string{
		r.settings.FeatureScript,
		"--sequence", sequence,
	}

	stdout, err := r.run(ctx, args)
	if err != nil {
		return nil, err
	}

	var features Features
	if err := json.Unmarshal(stdout, &features); err != nil {
		return nil, errors.Newf("parsing feature extractor output: %w", err).
			Component("predictor").
			Category(errors.CategoryOutputParsing).
			Context("output", truncateForLog(string(stdout))).
			Build()
	}

	return &features, nil
}

// run executes the python interpreter with the given arguments, capturing
// stdout and stderr separately.
func (r *ScriptRunner) run(ctx context.Context, args []string) ([]byte, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.release()

	ctx, cancel := context.WithTimeout(ctx, r.settings.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.settings.Python, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("invoking predictor script",
		"python", r.settings.Python,
		"script", args[0])

	err := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.Newf("predictor did not complete within %s: %w", r.settings.Timeout, ctxErr).
			Component("predictor").
			Category(errors.CategoryTimeout).
			Context("script", args[0]).
			Build()
	}

	if err != nil {
		r.logger.Error("predictor script failed",
			"script", args[0],
			"error", err,
			"stderr", truncateForLog(stderr.String()))
		return nil, errors.Newf("predictor process failed: %w", err).
			Component("predictor").
			Category(errors.CategoryCommandExecution).
			Context("stderr", truncateForLog(stderr.String())).
			Build()
	}

	return bytes.TrimSpace(stdout.Bytes()), nil
}

// truncateForLog caps diagnostic text carried in errors and log records.
func truncateForLog(s string) string {
	const maxLen = 2048
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		return s[:maxLen] + "... (truncated)"
	}
	return s
}
