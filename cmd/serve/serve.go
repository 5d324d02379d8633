// Package serve implements the HTTP server command.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peptoxlab/toxpred-go/internal/analysis"
	"github.com/peptoxlab/toxpred-go/internal/conf"
	"github.com/peptoxlab/toxpred-go/internal/datastore"
	"github.com/peptoxlab/toxpred-go/internal/httpserver"
	"github.com/peptoxlab/toxpred-go/internal/observability"
	"github.com/peptoxlab/toxpred-go/internal/prediction"
	"github.com/peptoxlab/toxpred-go/internal/predictor"
)

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the prediction API server",
		Long:  "Start the HTTP server exposing the peptide toxicity prediction API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	cmd.Flags().IntVar(&settings.Server.Port, "port", viper.GetInt("server.port"), "TCP port for the API server")
	cmd.Flags().StringVar(&settings.Server.Host, "host", viper.GetString("server.host"), "Interface to bind to")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		cobra.CheckErr(fmt.Errorf("error binding flags: %w", err))
	}

	return cmd
}

func runServer(settings *conf.Settings) error {
	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer ds.Close()

	runner := predictor.NewScriptRunner(settings.Predictor, metrics)
	predictionService := prediction.NewService(ds, runner, settings.BatchCache, metrics)
	analysisService := analysis.NewService(runner, settings.Predictor.ExternalFeatures)

	server := httpserver.New(settings, ds, predictionService, analysisService, metrics)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
