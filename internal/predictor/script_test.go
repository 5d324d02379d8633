package predictor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peptoxlab/toxpred-go/internal/conf"
	"github.com/peptoxlab/toxpred-go/internal/errors"
)

// writeStub writes a shell script into a temp dir and returns its path. The
// runner is configured with /bin/sh as the interpreter so the stub stands in
// for the Python bridge.
func writeStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "stub.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newTestRunner(script string, timeout time.Duration) *ScriptRunner {
	return NewScriptRunner(conf.PredictorSettings{
		Python:         "/bin/sh",
		Script:         script,
		FeatureScript:  script,
		Timeout:        timeout,
		MaxConcurrency: 2,
	}, nil)
}

func TestPredictParsesResults(t *testing.T) {
	script := writeStub(t, `echo '[{"prediction":"Toxic","confidence":0.91,"probability":{"toxic":0.91,"non_toxic":0.09}},{"prediction":"Non-Toxic","confidence":0.77,"probability":{"toxic":0.23,"non_toxic":0.77}}]'`)
	runner := newTestRunner(script, 10*time.Second)

	results, err := runner.Predict(context.Background(), []string{"ACDEFGHIK", "GLFDIVKKVV"}, "ensemble")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, LabelToxic, results[0].Prediction)
	assert.InDelta(t, 0.91, results[0].Confidence, 1e-9)
	assert.InDelta(t, 0.91, results[0].Probability.Toxic, 1e-9)
	assert.Equal(t, LabelNonToxic, results[1].Prediction)
	assert.InDelta(t, 0.77, results[1].Probability.NonToxic, 1e-9)
}

func TestPredictFailsOnNonZeroExit(t *testing.T) {
	script := writeStub(t, `echo "model file not found" >&2; exit 3`)
	runner := newTestRunner(script, 10*time.Second)

	_, err := runner.Predict(context.Background(), []string{"ACDEFGHIK"}, "ensemble")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryCommandExecution))

	// The captured stderr travels with the error for diagnostics.
	var enhanced *errors.EnhancedError
	require.True(t, errors.As(err, &enhanced))
	assert.Contains(t, enhanced.GetContext()["stderr"], "model file not found")
}

func TestPredictFailsOnMalformedOutput(t *testing.T) {
	script := writeStub(t, `echo 'this is not json'`)
	runner := newTestRunner(script, 10*time.Second)

	_, err := runner.Predict(context.Background(), []string{"ACDEFGHIK"}, "ensemble")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryOutputParsing))
}

func TestPredictFailsOnResultCountMismatch(t *testing.T) {
	script := writeStub(t, `echo '[{"prediction":"Toxic","confidence":0.9,"probability":{"toxic":0.9,"non_toxic":0.1}}]'`)
	runner := newTestRunner(script, 10*time.Second)

	_, err := runner.Predict(context.Background(), []string{"ACDEFGHIK", "GLFDIVKKVV"}, "ensemble")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryOutputParsing))
}

func TestPredictTimesOut(t *testing.T) {
	script := writeStub(t, `sleep 30`)
	runner := newTestRunner(script, 200*time.Millisecond)

	start := time.Now()
	_, err := runner.Predict(context.Background(), []string{"ACDEFGHIK"}, "ensemble")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryTimeout))
	assert.Less(t, time.Since(start), 5*time.Second, "process should be killed at the deadline")
}

func TestPredictHonorsCancellation(t *testing.T) {
	script := writeStub(t, `sleep 30`)
	runner := newTestRunner(script, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := runner.Predict(ctx, []string{"ACDEFGHIK"}, "ensemble")
	require.Error(t, err)
}

func TestAcquireRespectsCancelledContext(t *testing.T) {
	script := writeStub(t, `echo '[]'`)
	runner := NewScriptRunner(conf.PredictorSettings{
		Python:         "/bin/sh",
		Script:         script,
		Timeout:        time.Second,
		MaxConcurrency: 1,
	}, nil)

	// Fill the only slot so acquire must wait.
	runner.sem <- struct{}{}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := runner.Predict(ctx, []string{"ACDEFGHIK"}, "ensemble")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryTimeout))
}

func TestExtractFeaturesParsesPayload(t *testing.T) {
	script := writeStub(t, `echo '{"features":[0.1,0.2],"properties":{"molecular_weight":1004.2,"gravy":0.55},"amino_acid_composition":[11.1,0.0],"length":9}'`)
	runner := newTestRunner(script, 10*time.Second)

	features, err := runner.ExtractFeatures(context.Background(), "ACDEFGHIK")
	require.NoError(t, err)
	assert.Equal(t, 9, features.Length)
	assert.InDelta(t, 1004.2, features.Properties["molecular_weight"], 1e-9)
	assert.Len(t, features.Features, 2)
}
