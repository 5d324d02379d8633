// Package predict implements the one-shot CLI prediction command.
package predict

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/peptoxlab/toxpred-go/internal/conf"
	"github.com/peptoxlab/toxpred-go/internal/datastore"
	"github.com/peptoxlab/toxpred-go/internal/prediction"
	"github.com/peptoxlab/toxpred-go/internal/predictor"
)

// Command creates the predict command.
func Command(settings *conf.Settings) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "predict [sequences...]",
		Short: "Predict toxicity for sequences given on the command line",
		Long:  "Score one or more amino-acid sequences and store the results, without starting the server.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(settings, args, model)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", prediction.DefaultModel, "Model to use (ensemble, logistic_regression, random_forest, svm)")

	return cmd
}

func runPredict(settings *conf.Settings, sequences []string, model string) error {
	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer ds.Close()

	runner := predictor.NewScriptRunner(settings.Predictor, nil)
	service := prediction.NewService(ds, runner, settings.BatchCache, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	batch, err := service.PredictBatch(ctx, sequences, model)
	if err != nil {
		if inputs := prediction.InvalidInputs(err); len(inputs) > 0 {
			return fmt.Errorf("invalid sequences: %v", inputs)
		}
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SEQUENCE\tPREDICTION\tCONFIDENCE\tP(TOXIC)")
	for _, p := range batch.Predictions {
		fmt.Fprintf(w, "%s\t%s\t%.2f%%\t%.2f%%\n",
			p.Sequence, p.Prediction, p.Confidence*100, p.Probability.Toxic*100)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d sequences scored with model %s: %d toxic, %d non-toxic\n",
		batch.Total, batch.Model, batch.Toxic, batch.NonToxic)
	return nil
}
