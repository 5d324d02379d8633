package conf

import (
	"log"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// setDefaultConfig sets the default values for each configuration parameter.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)

	// Database defaults
	viper.SetDefault("database.path", "data/toxpred.db")

	// Predictor defaults
	viper.SetDefault("predictor.python", "python3")
	viper.SetDefault("predictor.script", "scripts/predict_api.py")
	viper.SetDefault("predictor.featurescript", "scripts/extract_features.py")
	viper.SetDefault("predictor.timeout", 120*time.Second)
	viper.SetDefault("predictor.maxconcurrency", 4)
	viper.SetDefault("predictor.externalfeatures", false)

	// Batch cache defaults
	viper.SetDefault("batchcache.ttl", time.Hour)
	viper.SetDefault("batchcache.cleanupinterval", 10*time.Minute)
}

// defaultConfigYAML renders the default configuration as YAML for first-run
// config file creation.
func defaultConfigYAML() string {
	defaults := map[string]any{
		"debug": false,
		"server": map[string]any{
			"host": "0.0.0.0",
			"port": 8080,
		},
		"database": map[string]any{
			"path": "data/toxpred.db",
		},
		"predictor": map[string]any{
			"python":           "python3",
			"script":           "scripts/predict_api.py",
			"featurescript":    "scripts/extract_features.py",
			"timeout":          "120s",
			"maxconcurrency":   4,
			"externalfeatures": false,
		},
		"batchcache": map[string]any{
			"ttl":             "1h",
			"cleanupinterval": "10m",
		},
	}

	out, err := yaml.Marshal(defaults)
	if err != nil {
		log.Printf("error marshaling default config: %v", err)
		return ""
	}
	return string(out)
}
