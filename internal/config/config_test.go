package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Trading: TradingConfig{
			Mode: "paper", Symbol: "NIFTY", Capital: 1000000,
			LotSize: 50, RiskFreeRate: 0.07,
		},
		Pipeline: PipelineConfig{
			RiskFraction: 0.02, MemoryDepth: 20,
			SlopeThreshold: 0.05, VIXCalmThreshold: 18, VIXHighThreshold: 22,
			CoherencePass: 0.60, EnsemblePass: 0.80,
			ATRContraction: 0.7, ATRPeriod: 14,
			FearSpikeDelta: 1.5, BaseVIX: 18,
			SizeMultiplierMin: 0.5, SizeMultiplierMax: 1.5,
			DriftThreshold: 0.2,
		},
		Identity: IdentityConfig{
			MaxRiskFraction: 0.02, ExpiryWeekday: "Thursday",
			MaxOpenPositions: 3, StopLossMandatory: true,
		},
		Condor: CondorConfig{
			StrikeStep: 50, WingWidth: 200, TargetDistance: 300,
			MinOTMDistance: 200, MaxOTMDistance: 500, MinCredit: 2000,
		},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad mode", func(c *Config) { c.Trading.Mode = "demo" }},
		{"zero capital", func(c *Config) { c.Trading.Capital = 0 }},
		{"zero lot size", func(c *Config) { c.Trading.LotSize = 0 }},
		{"risk fraction too high", func(c *Config) { c.Pipeline.RiskFraction = 1.0 }},
		{"memory depth too small", func(c *Config) { c.Pipeline.MemoryDepth = 3 }},
		{"inverted vix thresholds", func(c *Config) { c.Pipeline.VIXCalmThreshold = 25 }},
		{"coherence pass above one", func(c *Config) { c.Pipeline.CoherencePass = 1.2 }},
		{"zero atr period", func(c *Config) { c.Pipeline.ATRPeriod = 0 }},
		{"inverted size multipliers", func(c *Config) { c.Pipeline.SizeMultiplierMin = 2.0 }},
		{"drift threshold of one", func(c *Config) { c.Pipeline.DriftThreshold = 1.0 }},
		{"bad weekday", func(c *Config) { c.Identity.ExpiryWeekday = "Someday" }},
		{"zero positions", func(c *Config) { c.Identity.MaxOpenPositions = 0 }},
		{"zero strike step", func(c *Config) { c.Condor.StrikeStep = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("Thursday")
	require.NoError(t, err)
	assert.Equal(t, time.Thursday, day)

	_, err = ParseWeekday("thursday")
	assert.Error(t, err, "weekday names are case-sensitive")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRADING_MODE", "live")
	t.Setenv("TRADING_CAPITAL", "2500000")

	cfg := validConfig()
	applyEnvOverrides(cfg)
	assert.Equal(t, "live", cfg.Trading.Mode)
	assert.Equal(t, 2500000.0, cfg.Trading.Capital)
	assert.False(t, cfg.IsPaperMode())
}

func TestIsPaperMode(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsPaperMode())
	cfg.Trading.Mode = "live"
	assert.False(t, cfg.IsPaperMode())
}
