// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/hours"
	"github.com/tathienbao/fillsim/internal/subscription"
	"github.com/tathienbao/fillsim/internal/types"
	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration.
type Config struct {
	Engine      EngineConfig       `yaml:"engine"`
	Session     SessionConfig      `yaml:"session"`
	Instruments []InstrumentConfig `yaml:"instruments"`
	Backtest    BacktestConfig     `yaml:"backtest"`
	Metrics     MetricsConfig      `yaml:"metrics"`
	Persistence PersistenceConfig  `yaml:"persistence"`
}

// EngineConfig holds the fill model parameters.
type EngineConfig struct {
	OpenWindowMin         int `yaml:"open_window_min"`
	CloseWindowMin        int `yaml:"close_window_min"`
	StalenessThresholdMin int `yaml:"staleness_threshold_min"`
}

// SessionConfig holds the exchange session boundaries.
type SessionConfig struct {
	Timezone string `yaml:"timezone"`
	Open     string `yaml:"open"`
	Close    string `yaml:"close"`
}

// InstrumentConfig holds per-instrument properties and subscriptions.
type InstrumentConfig struct {
	Symbol          string   `yaml:"symbol"`
	TickSize        string   `yaml:"tick_size"`
	Multiplier      string   `yaml:"multiplier"`
	Currency        string   `yaml:"currency"`
	HasOpenInterest bool     `yaml:"has_open_interest"`
	Subscriptions   []string `yaml:"subscriptions"`
}

// BacktestConfig holds replay settings.
type BacktestConfig struct {
	Data       string `yaml:"data"`
	Symbol     string `yaml:"symbol"`
	BarPeriod  string `yaml:"bar_period"`   // e.g. "5m"
	PacePerSec int    `yaml:"pace_per_sec"` // 0 = unpaced
}

// MetricsConfig holds metrics server settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// PersistenceConfig holds fill journal settings.
type PersistenceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration, applying defaults where the field
// is optional.
func (c *Config) Validate() error {
	var errs []string

	if c.Engine.OpenWindowMin <= 0 {
		c.Engine.OpenWindowMin = 60 // default
	}
	if c.Engine.CloseWindowMin <= 0 {
		c.Engine.CloseWindowMin = 60 // default
	}
	if c.Engine.StalenessThresholdMin <= 0 {
		c.Engine.StalenessThresholdMin = 60 // default
	}

	if c.Session.Timezone == "" {
		c.Session.Timezone = "UTC"
	}
	if (c.Session.Open == "") != (c.Session.Close == "") {
		errs = append(errs, "session.open and session.close must be set together")
	}

	if len(c.Instruments) == 0 {
		errs = append(errs, "at least one instrument is required")
	}
	seen := make(map[string]bool)
	for i, inst := range c.Instruments {
		if inst.Symbol == "" {
			errs = append(errs, fmt.Sprintf("instruments[%d].symbol is required", i))
			continue
		}
		if seen[inst.Symbol] {
			errs = append(errs, fmt.Sprintf("instruments[%d]: duplicate symbol %s", i, inst.Symbol))
		}
		seen[inst.Symbol] = true

		tick, err := decimal.NewFromString(inst.TickSize)
		if err != nil || tick.Sign() <= 0 {
			errs = append(errs, fmt.Sprintf("instruments[%d].tick_size must be a positive decimal", i))
		}
		if inst.Multiplier != "" {
			if _, err := decimal.NewFromString(inst.Multiplier); err != nil {
				errs = append(errs, fmt.Sprintf("instruments[%d].multiplier must be a decimal", i))
			}
		}
		for _, sub := range inst.Subscriptions {
			if _, ok := subscription.ParseDataType(sub); !ok {
				errs = append(errs, fmt.Sprintf("instruments[%d]: unknown subscription %q", i, sub))
			}
		}
	}

	if c.Backtest.Symbol != "" && !seen[c.Backtest.Symbol] {
		errs = append(errs, fmt.Sprintf("backtest.symbol %s is not a configured instrument", c.Backtest.Symbol))
	}
	if c.Backtest.BarPeriod != "" {
		if _, err := time.ParseDuration(c.Backtest.BarPeriod); err != nil {
			errs = append(errs, "backtest.bar_period must be a duration such as 5m")
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 {
			c.Metrics.Port = 9090 // default
		}
		if c.Metrics.Path == "" {
			c.Metrics.Path = "/metrics"
		}
	}

	if c.Persistence.Enabled && c.Persistence.Path == "" {
		errs = append(errs, "persistence.path is required when persistence is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", types.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// OpenWindow returns the on-open eligibility window.
func (c *Config) OpenWindow() time.Duration {
	return time.Duration(c.Engine.OpenWindowMin) * time.Minute
}

// CloseWindow returns the on-close eligibility window.
func (c *Config) CloseWindow() time.Duration {
	return time.Duration(c.Engine.CloseWindowMin) * time.Minute
}

// StalenessThreshold returns the stale-data warning threshold.
func (c *Config) StalenessThreshold() time.Duration {
	return time.Duration(c.Engine.StalenessThresholdMin) * time.Minute
}

// BarPeriod returns the backtest bar period, defaulting to five minutes.
func (c *Config) BarPeriod() time.Duration {
	if c.Backtest.BarPeriod == "" {
		return 5 * time.Minute
	}
	d, err := time.ParseDuration(c.Backtest.BarPeriod)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// BuildHours constructs the exchange session from the session config.
// Without explicit boundaries the venue is treated as always open.
func (c *Config) BuildHours() (hours.ExchangeHours, error) {
	if c.Session.Open == "" {
		return hours.AlwaysOpen{}, nil
	}
	return hours.NewDaily(c.Session.Timezone, c.Session.Open, c.Session.Close)
}

// BuildSubscriptions constructs the subscription provider. Instruments
// without explicit subscriptions default to trade bars.
func (c *Config) BuildSubscriptions() *subscription.Static {
	subs := subscription.NewStatic()
	for _, inst := range c.Instruments {
		if len(inst.Subscriptions) == 0 {
			subs.Add(inst.Symbol, subscription.DataTypeTradeBar)
			continue
		}
		for _, name := range inst.Subscriptions {
			if dt, ok := subscription.ParseDataType(name); ok {
				subs.Add(inst.Symbol, dt)
			}
		}
	}
	return subs
}

// InstrumentSpec returns the configured spec for a symbol. A symbol whose
// tick size does not parse is treated as not configured, so the method is
// safe on a Config that never went through Validate.
func (c *Config) InstrumentSpec(symbol string) (types.InstrumentSpec, bool) {
	for _, inst := range c.Instruments {
		if inst.Symbol != symbol {
			continue
		}
		tick, err := decimal.NewFromString(inst.TickSize)
		if err != nil || tick.Sign() <= 0 {
			return types.InstrumentSpec{}, false
		}
		spec := types.InstrumentSpec{
			Symbol:          inst.Symbol,
			TickSize:        tick,
			Multiplier:      decimal.NewFromInt(1),
			QuoteCurrency:   inst.Currency,
			HasOpenInterest: inst.HasOpenInterest,
		}
		if inst.Multiplier != "" {
			if mult, err := decimal.NewFromString(inst.Multiplier); err == nil {
				spec.Multiplier = mult
			}
		}
		if spec.QuoteCurrency == "" {
			spec.QuoteCurrency = "USD"
		}
		return spec, true
	}
	return types.InstrumentSpec{}, false
}
