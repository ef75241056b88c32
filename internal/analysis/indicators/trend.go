package indicators

// SMA calculates a simple moving average over a price series.
func SMA(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(prices) < period {
		return nil, ErrInsufficientData
	}

	n := len(prices)
	result := make([]float64, n)
	for i := period - 1; i < n; i++ {
		result[i] = mean(prices[i-period+1 : i+1])
	}
	return result, nil
}

// Slope returns the percentage change of a price series over its last
// lookback observations: (latest - oldest) / oldest. With fewer than
// lookback observations the slope is zero, which downstream callers
// treat as "no measurable trend" rather than an error.
func Slope(prices []float64, lookback int) float64 {
	if lookback <= 1 || len(prices) < lookback {
		return 0
	}
	oldest := prices[len(prices)-lookback]
	latest := prices[len(prices)-1]
	if oldest == 0 {
		return 0
	}
	return (latest - oldest) / oldest
}

// Volatility returns the standard deviation of a price series.
func Volatility(prices []float64) float64 {
	return stdDev(prices)
}
