package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peptoxlab/toxpred-go/cmd/predict"
	"github.com/peptoxlab/toxpred-go/cmd/serve"
	"github.com/peptoxlab/toxpred-go/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "toxpred",
		Short: "Peptide toxicity prediction server and CLI",
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		serve.Command(settings),
		predict.Command(settings),
	)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Database.Path, "database", viper.GetString("database.path"), "Path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&settings.Predictor.Python, "python", viper.GetString("predictor.python"), "Python interpreter used for the predictor scripts")
	rootCmd.PersistentFlags().StringVar(&settings.Predictor.Script, "script", viper.GetString("predictor.script"), "Path to the prediction bridge script")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
