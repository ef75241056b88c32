package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"condor-trader/internal/models"
)

func bar(high, low, close float64) models.Candle {
	return models.Candle{
		Timestamp: time.Now(),
		Open:      low,
		High:      high,
		Low:       low,
		Close:     close,
	}
}

// steadyBars produces bars with a constant range so the ATR converges to
// that range exactly.
func steadyBars(n int, rng float64) []models.Candle {
	bars := make([]models.Candle, n)
	base := 22000.0
	for i := range bars {
		bars[i] = bar(base+rng, base, base+rng/2)
	}
	return bars
}

func TestAllowEntryOnContraction(t *testing.T) {
	filter := NewFilter(3, 0.7)

	bars := steadyBars(10, 100)
	// Final bar's range is a third of the established ATR.
	bars = append(bars, bar(22030, 22000, 22015))

	decision := filter.AllowEntry(&models.MarketSnapshot{BarHistory: bars})
	assert.True(t, decision.Allow)
	assert.Equal(t, ReasonCalm, decision.Reason)
	assert.Less(t, decision.Normalized, 0.7)
	assert.Greater(t, decision.ATR, 0.0)
}

func TestRejectEntryOnChop(t *testing.T) {
	filter := NewFilter(3, 0.7)

	bars := steadyBars(10, 100)
	// Final bar matches the typical range: no contraction.
	bars = append(bars, bar(22100, 22000, 22050))

	decision := filter.AllowEntry(&models.MarketSnapshot{BarHistory: bars})
	assert.False(t, decision.Allow)
	assert.Equal(t, ReasonChop, decision.Reason)
	assert.False(t, decision.Insufficient())
}

func TestRejectEntryAtThresholdBoundary(t *testing.T) {
	filter := NewFilter(3, 0.7)

	bars := steadyBars(12, 100)
	// Final range of 70 against a window mean of 90 lands just above
	// the threshold.
	bars = append(bars, bar(22070, 22000, 22035))

	decision := filter.AllowEntry(&models.MarketSnapshot{BarHistory: bars})
	assert.False(t, decision.Allow, "normalized ratio at the threshold must reject")
}

func TestRejectChopAfterVolatileStretch(t *testing.T) {
	filter := NewFilter(14, 0.7)

	// Ten violent bars followed by fifteen range-100 bars: the trailing
	// window holds only the quiet regime, so the old volatility must not
	// dilute the baseline. The final bar at 0.9x the window mean is chop.
	bars := steadyBars(10, 1000)
	bars = append(bars, steadyBars(15, 100)...)
	bars = append(bars, bar(22090, 22000, 22045))

	decision := filter.AllowEntry(&models.MarketSnapshot{BarHistory: bars})
	assert.False(t, decision.Allow)
	assert.Equal(t, ReasonChop, decision.Reason)
	assert.Greater(t, decision.Normalized, 0.89)
	assert.InDelta(t, 99.29, decision.ATR, 0.01)
}

func TestAllowEntryWithExactlyPeriodBars(t *testing.T) {
	filter := NewFilter(14, 0.7)

	// Fourteen bars are enough: the earliest window bar contributes its
	// plain high-low range.
	bars := steadyBars(13, 100)
	bars = append(bars, bar(22030, 22000, 22015))

	decision := filter.AllowEntry(&models.MarketSnapshot{BarHistory: bars})
	assert.False(t, decision.Insufficient())
	assert.True(t, decision.Allow)
	assert.Equal(t, ReasonCalm, decision.Reason)
}

func TestInsufficientBarHistory(t *testing.T) {
	filter := NewFilter(14, 0.7)

	decision := filter.AllowEntry(&models.MarketSnapshot{BarHistory: nil})
	assert.False(t, decision.Allow)
	assert.True(t, decision.Insufficient())

	decision = filter.AllowEntry(&models.MarketSnapshot{BarHistory: steadyBars(5, 100)})
	assert.False(t, decision.Allow)
	assert.True(t, decision.Insufficient())
	assert.Equal(t, ReasonInsufficientData, decision.Reason)
}
