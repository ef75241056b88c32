// Package pricing provides closed-form Black-Scholes option pricing.
package pricing

import (
	"math"

	"condor-trader/internal/models"
)

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// Price returns the Black-Scholes price of a European option.
// s: spot, k: strike, t: time to expiry in years, r: risk-free rate,
// sigma: implied volatility (e.g. 0.14 for 14%).
func Price(s, k, t, r, sigma float64, optType models.OptionType) float64 {
	if t <= 0 || sigma <= 0 {
		// At expiry the option is worth its intrinsic value.
		if optType == models.OptionCall {
			return math.Max(0, s-k)
		}
		return math.Max(0, k-s)
	}

	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	d2 := d1 - sigma*math.Sqrt(t)

	if optType == models.OptionCall {
		return s*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
	}
	return k*math.Exp(-r*t)*normCDF(-d2) - s*normCDF(-d1)
}

// Delta returns the Black-Scholes delta of a European option.
func Delta(s, k, t, r, sigma float64, optType models.OptionType) float64 {
	if t <= 0 || sigma <= 0 {
		if optType == models.OptionCall {
			if s > k {
				return 1.0
			}
			return 0.0
		}
		if s < k {
			return -1.0
		}
		return 0.0
	}

	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	if optType == models.OptionCall {
		return normCDF(d1)
	}
	return normCDF(d1) - 1.0
}

// PriceAndDelta returns both price and delta in one call, the shape the
// strategy layer consumes.
func PriceAndDelta(s, k, t, r, sigma float64, optType models.OptionType) (price, delta float64) {
	return Price(s, k, t, r, sigma, optType), Delta(s, k, t, r, sigma, optType)
}
