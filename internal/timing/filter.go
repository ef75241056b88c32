// Package timing gates entries to windows of measured local calm: the
// current bar's range must have contracted relative to the medium-term
// average true range.
package timing

import (
	"fmt"

	"condor-trader/internal/analysis/indicators"
	"condor-trader/internal/models"
)

// Reason codes for entry decisions.
const (
	ReasonCalm             = "range-contracted"
	ReasonChop             = "chop-detected"
	ReasonInsufficientData = "insufficient-bar-history"
)

// Decision is the outcome of the entry-timing check.
type Decision struct {
	Allow      bool
	Reason     string
	Normalized float64 // current range / ATR, zero when undefined
	ATR        float64
}

// Insufficient reports whether the decision was forced by missing bar
// history rather than by measured chop.
func (d Decision) Insufficient() bool {
	return d.Reason == ReasonInsufficientData
}

// Filter checks whether the current bar shows genuine calm, not just a
// quiet single bar amid surrounding chop.
type Filter struct {
	period    int
	threshold float64
}

// NewFilter creates a filter with the given ATR period and contraction
// threshold.
func NewFilter(period int, threshold float64) *Filter {
	return &Filter{
		period:    period,
		threshold: threshold,
	}
}

// AllowEntry evaluates the bar history carried by the snapshot. Entry is
// allowed iff the current bar's range, normalized by the unsmoothed mean
// true range of the trailing window, is below the contraction threshold.
// The unsmoothed mean matters: a Wilder ATR keeps decaying weight on old
// volatility, which would read a still-choppy bar as contracted after a
// violent stretch.
func (f *Filter) AllowEntry(snapshot *models.MarketSnapshot) Decision {
	bars := snapshot.BarHistory

	atr, err := indicators.MeanTrueRange(bars, f.period)
	if err != nil || atr <= 0 {
		return Decision{Allow: false, Reason: ReasonInsufficientData}
	}

	current := bars[len(bars)-1]
	normalized := current.Range() / atr

	decision := Decision{
		Normalized: normalized,
		ATR:        atr,
	}
	if normalized < f.threshold {
		decision.Allow = true
		decision.Reason = ReasonCalm
	} else {
		decision.Reason = ReasonChop
	}
	return decision
}

// String returns a human-readable summary of the decision.
func (d Decision) String() string {
	return fmt.Sprintf("allow=%t reason=%s normalized=%.2f", d.Allow, d.Reason, d.Normalized)
}
