// Package sizing computes lot counts from fixed-fraction capital risk,
// scaled inversely by the current volatility level.
package sizing

import (
	"math"
)

// Config holds position sizing parameters.
type Config struct {
	BaseVIX       float64 // reference volatility for the scaling ratio
	MultiplierMin float64
	MultiplierMax float64
}

// DefaultConfig returns the default sizing parameters.
func DefaultConfig() Config {
	return Config{
		BaseVIX:       18.0,
		MultiplierMin: 0.5,
		MultiplierMax: 1.5,
	}
}

// Sizer computes position sizes.
type Sizer struct {
	config Config
}

// NewSizer creates a sizer with the given parameters.
func NewSizer(config Config) *Sizer {
	return &Sizer{config: config}
}

// Lots returns the lot count for the given capital, risk fraction,
// current volatility, and worst-case loss per lot. An authorized trade
// is always at least one lot; a zero-size trade is a decision made
// upstream, never produced here by rounding.
func (s *Sizer) Lots(capital, riskFraction, currentVIX, maxLossPerLot float64) int {
	if maxLossPerLot <= 0 || capital <= 0 || riskFraction <= 0 {
		return 1
	}

	baseLots := (capital * riskFraction) / maxLossPerLot
	multiplier := s.Multiplier(currentVIX)

	lots := int(math.Round(baseLots * multiplier))
	if lots < 1 {
		lots = 1
	}
	return lots
}

// Multiplier returns the volatility scaling factor, clamped to the
// configured bounds. Higher volatility shrinks size.
func (s *Sizer) Multiplier(currentVIX float64) float64 {
	if currentVIX <= 0 {
		return s.config.MultiplierMax
	}
	m := s.config.BaseVIX / currentVIX
	if m < s.config.MultiplierMin {
		return s.config.MultiplierMin
	}
	if m > s.config.MultiplierMax {
		return s.config.MultiplierMax
	}
	return m
}
