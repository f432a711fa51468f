package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/vk/depsgraph/internal/validator"
)

// EnvPrefix is the prefix of environment variables read by Load, e.g.
// DEPSGRAPH_EXECUTOR_WORKERS.
const EnvPrefix = "DEPSGRAPH"

// Config holds all application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Executor  ExecutorConfig  `mapstructure:"executor"`
	Validator ValidatorConfig `mapstructure:"validator"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ExecutorConfig struct {
	// Workers is the worker pool size; zero uses GOMAXPROCS.
	Workers int `mapstructure:"workers"`
}

type ValidatorConfig struct {
	CyclePolicy string `mapstructure:"cycle_policy"`
}

type TracingConfig struct {
	// Endpoint is an OTLP gRPC endpoint; tracing is off when empty.
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: "info", Format: "text"},
		Validator: ValidatorConfig{CyclePolicy: string(validator.BreakNewest)},
		Tracing:   TracingConfig{ServiceName: "depsgraph", SampleRate: 1},
	}
}

// Validate checks configuration values and returns every problem found.
func (c *Config) Validate() error {
	var errs []error
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if c.Executor.Workers < 0 {
		errs = append(errs, fmt.Errorf("executor.workers %d is negative", c.Executor.Workers))
	}
	if _, err := validator.ParsePolicy(c.Validator.CyclePolicy); err != nil {
		errs = append(errs, fmt.Errorf("validator.cycle_policy: %w", err))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_rate %g is outside [0, 1]", c.Tracing.SampleRate))
	}
	return errors.Join(errs...)
}

// Load reads configuration from the optional file at path and from the
// environment. Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("executor.workers", d.Executor.Workers)
	v.SetDefault("validator.cycle_policy", d.Validator.CyclePolicy)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}
