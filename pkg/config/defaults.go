package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applyKerberosDefaults(&cfg.Kerberos)
	applyTokenDefaults(&cfg.Token)
	applyProtectionDefaults(cfg)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	// Enabled defaults to false (opt-in for telemetry)

	// Default endpoint is localhost:4317 (standard OTLP gRPC port)
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}

	// Default sample rate is 1.0 (sample all traces)
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false (opt-in for metrics)
	// Port defaults to 9090 if metrics are enabled
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyKerberosDefaults sets Kerberos defaults.
func applyKerberosDefaults(cfg *KerberosConfig) {
	if cfg.Krb5Conf == "" {
		cfg.Krb5Conf = "/etc/krb5.conf"
	}
	if cfg.MaxClockSkew == 0 {
		cfg.MaxClockSkew = 5 * time.Minute
	}
	// KeytabPath and ServicePrincipal have no defaults - they must be
	// configured when Kerberos is enabled
}

// applyTokenDefaults sets token authentication defaults.
func applyTokenDefaults(cfg *TokenConfig) {
	if cfg.Mechanism == "" {
		cfg.Mechanism = "DIGEST-MD5"
	}
	if cfg.Lifetime == 0 {
		cfg.Lifetime = 24 * time.Hour
	}
	// Secret has no default - deriving token passwords from a well-known
	// value would defeat the point
}

// applyProtectionDefaults sets the quality-of-protection default.
func applyProtectionDefaults(cfg *Config) {
	if len(cfg.Protection) == 0 {
		cfg.Protection = []string{"authentication"}
	}
}

// Validate checks the configuration for invalid values using the struct
// validation tags, plus cross-field rules the tags can't express.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	// Kerberos needs a keytab and principal once enabled; both are
	// optional otherwise, so a tag can't require them.
	if cfg.Kerberos.Enabled {
		if cfg.Kerberos.KeytabPath == "" {
			return fmt.Errorf("kerberos.keytab_path is required when kerberos is enabled")
		}
		if cfg.Kerberos.ServicePrincipal == "" {
			return fmt.Errorf("kerberos.service_principal is required when kerberos is enabled")
		}
	}

	return nil
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
