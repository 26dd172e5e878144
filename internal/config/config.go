package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// Execution settings.
	TempDir        string        `mapstructure:"temp_dir" yaml:"temp_dir"`
	RunTimeout     time.Duration `mapstructure:"run_timeout" yaml:"run_timeout"`
	CompileTimeout time.Duration `mapstructure:"compile_timeout" yaml:"compile_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":5000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		RunTimeout:        5 * time.Second,
		CompileTimeout:    10 * time.Second,
	}
}
