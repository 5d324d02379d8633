// Package conf handles loading and validation of application settings.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// ServerSettings holds the HTTP server configuration.
type ServerSettings struct {
	Host string // interface to bind to
	Port int    // TCP port for the API server
}

// DatabaseSettings holds the SQLite configuration.
type DatabaseSettings struct {
	Path string // path to the SQLite database file, created if absent
}

// PredictorSettings configures the external Python predictor process.
type PredictorSettings struct {
	Python           string        // python interpreter to invoke
	Script           string        // path to the prediction bridge script
	FeatureScript    string        `mapstructure:"featurescript"` // path to the feature extraction script
	Timeout          time.Duration // per-invocation deadline, process is killed on expiry
	MaxConcurrency   int           `mapstructure:"maxconcurrency"` // max simultaneous predictor processes
	ExternalFeatures bool          `mapstructure:"externalfeatures"` // route feature analysis through the script instead of computing in-process
}

// BatchCacheSettings bounds the in-memory batch result cache.
type BatchCacheSettings struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanupinterval"`
}

// Settings is the root configuration structure.
type Settings struct {
	Debug      bool
	Server     ServerSettings
	Database   DatabaseSettings
	Predictor  PredictorSettings
	BatchCache BatchCacheSettings `mapstructure:"batchcache"`
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// Setting returns the current settings instance, loading it on first use.
func Setting() *Settings {
	settingsMutex.RLock()
	loaded := settingsInstance
	settingsMutex.RUnlock()
	if loaded != nil {
		return loaded
	}

	settings, err := Load()
	if err != nil {
		return nil
	}
	return settings
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	viper.SetEnvPrefix("toxpred")
	viper.AutomaticEnv()

	// Default values defined in defaults.go
	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create one with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes a default config file to the first default config path.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigYAML()), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	return viper.ReadInConfig()
}

// GetDefaultConfigPaths returns the list of directories searched for config.yaml,
// in priority order: working directory, user config directory, system directory.
func GetDefaultConfigPaths() ([]string, error) {
	paths := []string{"."}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(userConfigDir, "toxpred"))
	}

	paths = append(paths, "/etc/toxpred")
	return paths, nil
}
