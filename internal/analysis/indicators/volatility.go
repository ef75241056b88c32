// Package indicators provides the technical indicator calculations used by
// the decision pipeline.
package indicators

import (
	"fmt"

	"condor-trader/internal/models"
)

// ATR calculates the Average True Range.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR_%d", a.period)
}

func (a *ATR) Period() int {
	return a.period
}

// Calculate returns the ATR series for the given candles. The first
// period-1 entries are zero; subsequent values use Wilder smoothing.
func (a *ATR) Calculate(candles []models.Candle) ([]float64, error) {
	if a.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < a.period+1 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)
	tr := make([]float64, n)

	// First TR is just high - low
	tr[0] = candles[0].High - candles[0].Low

	for i := 1; i < n; i++ {
		tr[i] = trueRange(candles[i], candles[i-1])
	}

	// First ATR is SMA of TR
	result[a.period-1] = mean(tr[:a.period])

	// Subsequent ATR using Wilder smoothing
	for i := a.period; i < n; i++ {
		result[i] = (result[i-1]*float64(a.period-1) + tr[i]) / float64(a.period)
	}

	return result, nil
}

// Latest returns the most recent ATR value for the given candles.
func (a *ATR) Latest(candles []models.Candle) (float64, error) {
	values, err := a.Calculate(candles)
	if err != nil {
		return 0, err
	}
	return values[len(values)-1], nil
}

// MeanTrueRange returns the simple mean of the true ranges of the last
// period candles, with no smoothing. A window opening on the very first
// candle uses high - low for it, so exactly period candles suffice.
func MeanTrueRange(candles []models.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(candles) < period {
		return 0, ErrInsufficientData
	}

	start := len(candles) - period
	var total float64
	for i := start; i < len(candles); i++ {
		if i == 0 {
			total += candles[i].High - candles[i].Low
			continue
		}
		total += trueRange(candles[i], candles[i-1])
	}
	return total / float64(period), nil
}
