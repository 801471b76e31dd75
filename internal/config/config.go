// Package config loads service settings from an optional YAML file and
// CALC_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"calc-engine/internal/engine"
)

const envPrefix = "CALC"

type Config struct {
	Engine EngineConfig `mapstructure:"engine"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Log    LogConfig    `mapstructure:"log"`
	OTel   OTelConfig   `mapstructure:"otel"`
}

type EngineConfig struct {
	Precision       int    `mapstructure:"precision"`
	RateUnit        string `mapstructure:"rate_unit"`
	StrictFinancial bool   `mapstructure:"strict_financial"`
	HistoryLimit    int    `mapstructure:"history_limit"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type OTelConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// Load reads path (may be empty) and overlays the environment, e.g.
// CALC_ENGINE_PRECISION=6 or CALC_HTTP_ADDR=:9090.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.precision", engine.DefaultPrecision)
	v.SetDefault("engine.rate_unit", "auto")
	v.SetDefault("engine.strict_financial", false)
	v.SetDefault("engine.history_limit", 0)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "calc-engine")
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Engine.Precision < 0 || c.Engine.Precision > engine.MaxPrecision {
		return fmt.Errorf("engine.precision must be between 0 and %d, got %d", engine.MaxPrecision, c.Engine.Precision)
	}
	if _, err := engine.ParseRateUnit(c.Engine.RateUnit); err != nil {
		return fmt.Errorf("engine.rate_unit: %w", err)
	}
	if c.Engine.HistoryLimit < 0 {
		return fmt.Errorf("engine.history_limit must not be negative, got %d", c.Engine.HistoryLimit)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr cannot be empty")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("http.shutdown_timeout must be positive")
	}
	return nil
}

// EngineOptions translates the engine section into engine options. The
// history is only attached when history_limit is positive.
func (c *Config) EngineOptions() []engine.Option {
	unit, _ := engine.ParseRateUnit(c.Engine.RateUnit)
	opts := []engine.Option{
		engine.WithPrecision(c.Engine.Precision),
		engine.WithRateUnit(unit),
	}
	if c.Engine.StrictFinancial {
		opts = append(opts, engine.WithStrictFinancialInputs())
	}
	if c.Engine.HistoryLimit > 0 {
		opts = append(opts, engine.WithHistory(engine.NewHistory(c.Engine.HistoryLimit)))
	}
	return opts
}
