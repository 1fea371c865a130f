package commands

import (
	"fmt"

	"github.com/marmos91/saslgate/internal/logger"
	"github.com/marmos91/saslgate/pkg/config"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig loads the configuration from the --config flag location,
// falling back to defaults when no file exists.
func loadConfig() (*config.Config, error) {
	return config.Load(GetConfigFile())
}
