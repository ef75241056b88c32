// Package models provides domain models for the decision pipeline.
package models

import (
	"time"
)

// OptionType represents the type of an option contract.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// OrderSide represents the side of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Regime represents the current market regime.
type Regime string

const (
	RegimeRangeBound   Regime = "RANGE_BOUND"
	RegimeTrending     Regime = "TRENDING"
	RegimeVolatile     Regime = "VOLATILE"
	RegimeTransitional Regime = "TRANSITIONAL"
)

// Strategy represents the strategy preferred by a regime.
type Strategy string

const (
	StrategyIronCondor   Strategy = "IRON_CONDOR"
	StrategyCreditSpread Strategy = "CREDIT_SPREAD"
	StrategyPause        Strategy = "PAUSE"
	StrategyWait         Strategy = "WAIT"
)

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Range returns the high-low spread of the candle.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// MarketSnapshot is an immutable per-tick market observation. Produced
// once per tick by the data collaborator; every pipeline stage reads it
// and none mutates it.
type MarketSnapshot struct {
	Spot         float64
	IV           float64
	VIX          float64
	PriceHistory []float64 // short-term closes, oldest first, bounded
	BarHistory   []Candle  // medium-term bars, oldest first, bounded
	Timestamp    time.Time
}

// Quote represents a market quote from the broker.
type Quote struct {
	Symbol    string
	LTP       float64
	Timestamp time.Time
}
