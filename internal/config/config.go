// Package config provides configuration management for the trading application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Trading  TradingConfig  `mapstructure:"trading"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Identity IdentityConfig `mapstructure:"identity"`
	Condor   CondorConfig   `mapstructure:"condor"`
	UI       UIConfig       `mapstructure:"ui"`
}

// TradingConfig holds trading-related configuration.
type TradingConfig struct {
	Mode         string  `mapstructure:"mode"` // "live", "paper"
	Symbol       string  `mapstructure:"symbol"`
	Capital      float64 `mapstructure:"capital"`
	LotSize      int     `mapstructure:"lot_size"`
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`
}

// PipelineConfig holds the decision pipeline thresholds.
type PipelineConfig struct {
	RiskFraction      float64 `mapstructure:"risk_fraction"`
	MemoryDepth       int     `mapstructure:"memory_depth"`
	SlopeThreshold    float64 `mapstructure:"slope_threshold"`
	VIXCalmThreshold  float64 `mapstructure:"vix_calm_threshold"`
	VIXHighThreshold  float64 `mapstructure:"vix_high_threshold"`
	CoherencePass     float64 `mapstructure:"coherence_pass"`
	EnsemblePass      float64 `mapstructure:"ensemble_pass"`
	ATRContraction    float64 `mapstructure:"atr_contraction"`
	ATRPeriod         int     `mapstructure:"atr_period"`
	FearSpikeDelta    float64 `mapstructure:"fear_spike_delta"`
	BaseVIX           float64 `mapstructure:"base_vix"`
	SizeMultiplierMin float64 `mapstructure:"size_multiplier_min"`
	SizeMultiplierMax float64 `mapstructure:"size_multiplier_max"`
	DriftThreshold    float64 `mapstructure:"drift_threshold"`
}

// IdentityConfig holds the immutable core identity. Set once at startup;
// any observed deviation is a hard violation.
type IdentityConfig struct {
	MaxRiskFraction   float64 `mapstructure:"max_risk_fraction"`
	ExpiryWeekday     string  `mapstructure:"expiry_weekday"`
	MaxOpenPositions  int     `mapstructure:"max_open_positions"`
	StopLossMandatory bool    `mapstructure:"stop_loss_mandatory"`
}

// CondorConfig holds iron-condor construction parameters.
type CondorConfig struct {
	StrikeStep     float64 `mapstructure:"strike_step"`
	WingWidth      float64 `mapstructure:"wing_width"`
	TargetDistance float64 `mapstructure:"target_distance"`
	MinOTMDistance float64 `mapstructure:"min_otm_distance"`
	MaxOTMDistance float64 `mapstructure:"max_otm_distance"`
	MinCredit      float64 `mapstructure:"min_credit"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/condor-trader"
	}
	return filepath.Join(home, ".config", "condor-trader")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template and continue with defaults
			if werr := createTemplateConfig(configDir, name); werr != nil {
				return werr
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("trading.mode", "paper")
	v.SetDefault("trading.symbol", "NIFTY")
	v.SetDefault("trading.capital", 500000.0)
	v.SetDefault("trading.lot_size", 75)
	v.SetDefault("trading.risk_free_rate", 0.065)

	v.SetDefault("pipeline.risk_fraction", 0.02)
	v.SetDefault("pipeline.memory_depth", 50)
	v.SetDefault("pipeline.slope_threshold", 0.05)
	v.SetDefault("pipeline.vix_calm_threshold", 18.0)
	v.SetDefault("pipeline.vix_high_threshold", 22.0)
	v.SetDefault("pipeline.coherence_pass", 0.60)
	v.SetDefault("pipeline.ensemble_pass", 0.80)
	v.SetDefault("pipeline.atr_contraction", 0.7)
	v.SetDefault("pipeline.atr_period", 14)
	v.SetDefault("pipeline.fear_spike_delta", 1.5)
	v.SetDefault("pipeline.base_vix", 18.0)
	v.SetDefault("pipeline.size_multiplier_min", 0.5)
	v.SetDefault("pipeline.size_multiplier_max", 1.5)
	v.SetDefault("pipeline.drift_threshold", 0.2)

	v.SetDefault("identity.max_risk_fraction", 0.02)
	v.SetDefault("identity.expiry_weekday", "Thursday")
	v.SetDefault("identity.max_open_positions", 2)
	v.SetDefault("identity.stop_loss_mandatory", true)

	v.SetDefault("condor.strike_step", 50.0)
	v.SetDefault("condor.wing_width", 200.0)
	v.SetDefault("condor.target_distance", 300.0)
	v.SetDefault("condor.min_otm_distance", 200.0)
	v.SetDefault("condor.max_otm_distance", 500.0)
	v.SetDefault("condor.min_credit", 2000.0)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRADING_MODE"); v != "" {
		cfg.Trading.Mode = v
	}
	if v := os.Getenv("TRADING_CAPITAL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trading.Capital = f
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Trading.Mode != "" && c.Trading.Mode != "live" && c.Trading.Mode != "paper" {
		return fmt.Errorf("invalid trading mode: %s (must be 'live' or 'paper')", c.Trading.Mode)
	}
	if c.Trading.Capital <= 0 {
		return fmt.Errorf("capital must be positive")
	}
	if c.Trading.LotSize <= 0 {
		return fmt.Errorf("lot_size must be positive")
	}

	p := c.Pipeline
	if p.RiskFraction <= 0 || p.RiskFraction >= 1 {
		return fmt.Errorf("risk_fraction must be in (0, 1)")
	}
	if p.MemoryDepth < 5 {
		return fmt.Errorf("memory_depth must be at least 5")
	}
	if p.VIXCalmThreshold >= p.VIXHighThreshold {
		return fmt.Errorf("vix_calm_threshold must be below vix_high_threshold")
	}
	if p.CoherencePass <= 0 || p.CoherencePass > 1 {
		return fmt.Errorf("coherence_pass must be in (0, 1]")
	}
	if p.EnsemblePass <= 0 || p.EnsemblePass > 1 {
		return fmt.Errorf("ensemble_pass must be in (0, 1]")
	}
	if p.ATRContraction <= 0 {
		return fmt.Errorf("atr_contraction must be positive")
	}
	if p.ATRPeriod <= 0 {
		return fmt.Errorf("atr_period must be positive")
	}
	if p.SizeMultiplierMin <= 0 || p.SizeMultiplierMin > p.SizeMultiplierMax {
		return fmt.Errorf("size multiplier bounds invalid: [%v, %v]", p.SizeMultiplierMin, p.SizeMultiplierMax)
	}
	if p.DriftThreshold <= 0 || p.DriftThreshold >= 1 {
		return fmt.Errorf("drift_threshold must be in (0, 1)")
	}

	if _, err := ParseWeekday(c.Identity.ExpiryWeekday); err != nil {
		return err
	}
	if c.Identity.MaxOpenPositions <= 0 {
		return fmt.Errorf("max_open_positions must be positive")
	}

	if c.Condor.StrikeStep <= 0 {
		return fmt.Errorf("strike_step must be positive")
	}
	if c.Condor.WingWidth <= 0 {
		return fmt.Errorf("wing_width must be positive")
	}

	return nil
}

// ParseWeekday parses a weekday name into time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	days := map[string]time.Weekday{
		"Sunday":    time.Sunday,
		"Monday":    time.Monday,
		"Tuesday":   time.Tuesday,
		"Wednesday": time.Wednesday,
		"Thursday":  time.Thursday,
		"Friday":    time.Friday,
		"Saturday":  time.Saturday,
	}
	d, ok := days[name]
	if !ok {
		return 0, fmt.Errorf("invalid expiry_weekday: %s", name)
	}
	return d, nil
}

// IsPaperMode returns true if paper trading mode is enabled.
func (c *Config) IsPaperMode() bool {
	return c.Trading.Mode == "paper"
}
