// Package regime classifies the current market into one of four coarse
// regimes and maps each regime to its preferred strategy.
package regime

import (
	"condor-trader/internal/analysis/indicators"
	"condor-trader/internal/models"
)

// SlopeLookback is the number of observations the trend slope is
// measured over.
const SlopeLookback = 5

// Config holds the classification thresholds.
type Config struct {
	SlopeThreshold   float64 // absolute short-MA slope separating flat from trending
	VIXCalmThreshold float64 // VIX below this is calm
	VIXHighThreshold float64 // VIX at or above this dominates trend entirely
}

// DefaultConfig returns the default classification thresholds.
func DefaultConfig() Config {
	return Config{
		SlopeThreshold:   0.05,
		VIXCalmThreshold: 18.0,
		VIXHighThreshold: 22.0,
	}
}

// Classifier labels market snapshots. It is a pure function of the
// snapshot and keeps no state across ticks.
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(config Config) *Classifier {
	return &Classifier{config: config}
}

// Classify returns the regime for the given snapshot. Decision order
// matters because the conditions overlap; the first match wins, and
// high volatility overrides slope entirely.
func (c *Classifier) Classify(snapshot *models.MarketSnapshot) models.Regime {
	slope := indicators.Slope(snapshot.PriceHistory, SlopeLookback)
	return c.classify(slope, snapshot.VIX)
}

func (c *Classifier) classify(slope, vix float64) models.Regime {
	absSlope := slope
	if absSlope < 0 {
		absSlope = -absSlope
	}

	switch {
	case absSlope < c.config.SlopeThreshold && vix < c.config.VIXCalmThreshold:
		return models.RegimeRangeBound
	case absSlope > c.config.SlopeThreshold && vix < c.config.VIXHighThreshold:
		return models.RegimeTrending
	case vix >= c.config.VIXHighThreshold:
		return models.RegimeVolatile
	default:
		return models.RegimeTransitional
	}
}

// PreferredStrategy returns the strategy associated with a regime.
func PreferredStrategy(r models.Regime) models.Strategy {
	switch r {
	case models.RegimeRangeBound:
		return models.StrategyIronCondor
	case models.RegimeTrending:
		return models.StrategyCreditSpread
	case models.RegimeVolatile:
		return models.StrategyPause
	default:
		return models.StrategyWait
	}
}

// Description returns a human-readable description of a regime.
func Description(r models.Regime) string {
	switch r {
	case models.RegimeRangeBound:
		return "Range-bound market. Favorable for premium selling."
	case models.RegimeTrending:
		return "Directional movement. Prefer defined-risk directional spreads."
	case models.RegimeVolatile:
		return "High volatility. Suspend new entries."
	case models.RegimeTransitional:
		return "Mixed signals. Wait for a clearer regime."
	default:
		return "Insufficient data for regime classification."
	}
}
