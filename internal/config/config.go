package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// Room lifecycle. The source variants disagreed on both values, so they
	// are configuration, not constants.
	GracePeriod time.Duration `mapstructure:"grace_period" yaml:"grace_period"`
	PinLength   int           `mapstructure:"pin_length" yaml:"pin_length"`

	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		GracePeriod:       30 * time.Second,
		PinLength:         6,
		DatabasePath:      "fakester.db",
		JWTSecret:         "dev-secret-change-me",
		JWTIssuer:         "fakester",
		JWTAudience:       "fakester-clients",
		LogLevel:          "info",
	}
}
