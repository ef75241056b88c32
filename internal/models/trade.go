package models

import "time"

// TradeRecord is one completed trade's realized and predicted outcome.
// Records are never mutated after creation; the statistics tracker owns
// the bounded window they live in.
type TradeRecord struct {
	ActualPnL     float64
	PredictedPnL  float64
	RegimeAtEntry Regime
	Timestamp     time.Time
}

// Won reports whether the trade closed profitably.
func (t TradeRecord) Won() bool {
	return t.ActualPnL > 0
}

// OptionLeg represents a leg of an option strategy.
type OptionLeg struct {
	Type    OptionType
	Side    OrderSide
	Strike  float64
	Premium float64
}

// TradeProposal is the fully specified trade emitted when every gate
// passes. A tick that fails any gate yields no proposal at all.
type TradeProposal struct {
	Strategy  Strategy
	Legs      []OptionLeg
	Lots      int
	LotSize   int
	NetCredit float64
	MaxLoss   float64
	MaxProfit float64
	Expiry    time.Time
}

// Trade represents a journaled trade, open or closed. ExitTime is zero
// while the position is still open.
type Trade struct {
	ID          string
	Strategy    Strategy
	Regime      Regime
	Lots        int
	EntryCredit float64
	ExitDebit   float64
	PnL         float64
	EntryTime   time.Time
	ExitTime    time.Time
	IsPaper     bool
}
