package conf

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateSettings checks the loaded settings for invalid or inconsistent values.
func ValidateSettings(settings *Settings) error {
	var validationErrors []string

	if settings.Server.Port < 1 || settings.Server.Port > 65535 {
		validationErrors = append(validationErrors,
			fmt.Sprintf("server.port must be between 1 and 65535, got %d", settings.Server.Port))
	}

	if strings.TrimSpace(settings.Database.Path) == "" {
		validationErrors = append(validationErrors, "database.path must not be empty")
	}

	if strings.TrimSpace(settings.Predictor.Python) == "" {
		validationErrors = append(validationErrors, "predictor.python must not be empty")
	}

	if strings.TrimSpace(settings.Predictor.Script) == "" {
		validationErrors = append(validationErrors, "predictor.script must not be empty")
	}

	if settings.Predictor.Timeout <= 0 {
		validationErrors = append(validationErrors, "predictor.timeout must be positive")
	}

	if settings.Predictor.MaxConcurrency < 1 {
		validationErrors = append(validationErrors, "predictor.maxconcurrency must be at least 1")
	}

	if settings.BatchCache.TTL <= 0 {
		validationErrors = append(validationErrors, "batchcache.ttl must be positive")
	}

	if len(validationErrors) > 0 {
		return errors.New("invalid configuration: " + strings.Join(validationErrors, "; "))
	}

	return nil
}
