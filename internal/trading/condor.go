package trading

import (
	"math"
	"time"

	"condor-trader/internal/models"
	"condor-trader/internal/pricing"
)

// CondorParams holds iron-condor construction parameters.
type CondorParams struct {
	StrikeStep     float64
	WingWidth      float64
	TargetDistance float64
	MinOTMDistance float64
	MaxOTMDistance float64
	MinCredit      float64 // minimum net credit per condor in currency
	LotSize        int
	RiskFreeRate   float64
}

// roundDown rounds x down to the strike grid.
func roundDown(x, step float64) float64 {
	return math.Floor(x/step) * step
}

// roundUp rounds x up to the strike grid.
func roundUp(x, step float64) float64 {
	return math.Ceil(x/step) * step
}

// selectBalancedStrikes picks short strikes at a symmetric distance from
// spot and wings at a fixed width, all on the strike grid.
func selectBalancedStrikes(spot, step, targetDistance, wingWidth float64) (shortPut, longPut, shortCall, longCall float64) {
	if targetDistance <= 0 {
		targetDistance = step
	}
	if wingWidth <= 0 {
		wingWidth = step * 2
	}

	shortPut = roundDown(spot-targetDistance, step)
	shortCall = roundUp(spot+targetDistance, step)
	longPut = shortPut - wingWidth
	longCall = shortCall + wingWidth
	return
}

// BuildIronCondor constructs a short iron condor around the spot: sell
// the near put and call, buy the wings. Legs are priced with
// Black-Scholes from the snapshot's implied volatility. Returns nil when
// the structure fails its constraints or the credit floor.
func BuildIronCondor(snapshot *models.MarketSnapshot, params CondorParams, expiry time.Time, strikeOffset float64) *models.TradeProposal {
	distance := params.TargetDistance + strikeOffset
	sp, lp, sc, lc := selectBalancedStrikes(snapshot.Spot, params.StrikeStep, distance, params.WingWidth)

	tte := yearsUntil(snapshot.Timestamp, expiry)
	iv := snapshot.IV
	r := params.RiskFreeRate

	legs := []models.OptionLeg{
		{Type: models.OptionPut, Side: models.OrderSideSell, Strike: sp,
			Premium: pricing.Price(snapshot.Spot, sp, tte, r, iv, models.OptionPut)},
		{Type: models.OptionCall, Side: models.OrderSideSell, Strike: sc,
			Premium: pricing.Price(snapshot.Spot, sc, tte, r, iv, models.OptionCall)},
		{Type: models.OptionPut, Side: models.OrderSideBuy, Strike: lp,
			Premium: pricing.Price(snapshot.Spot, lp, tte, r, iv, models.OptionPut)},
		{Type: models.OptionCall, Side: models.OrderSideBuy, Strike: lc,
			Premium: pricing.Price(snapshot.Spot, lc, tte, r, iv, models.OptionCall)},
	}

	credit := netCredit(legs)
	lotSize := float64(params.LotSize)

	if credit*lotSize < params.MinCredit {
		return nil
	}
	if ok, _ := validateCondor(snapshot.Spot, legs, params); !ok {
		return nil
	}

	proposal := &models.TradeProposal{
		Strategy:  models.StrategyIronCondor,
		Legs:      legs,
		LotSize:   params.LotSize,
		NetCredit: credit * lotSize,
		MaxProfit: credit * lotSize,
		MaxLoss:   (params.WingWidth - credit) * lotSize,
		Expiry:    expiry,
	}
	return proposal
}

// BuildCreditSpread constructs a directional two-leg credit spread: a
// bull put spread when the trend is up, a bear call spread when it is
// down.
func BuildCreditSpread(snapshot *models.MarketSnapshot, params CondorParams, expiry time.Time, strikeOffset float64, trendUp bool) *models.TradeProposal {
	distance := params.TargetDistance + strikeOffset
	tte := yearsUntil(snapshot.Timestamp, expiry)
	iv := snapshot.IV
	r := params.RiskFreeRate

	var legs []models.OptionLeg
	if trendUp {
		short := roundDown(snapshot.Spot-distance, params.StrikeStep)
		long := short - params.WingWidth
		legs = []models.OptionLeg{
			{Type: models.OptionPut, Side: models.OrderSideSell, Strike: short,
				Premium: pricing.Price(snapshot.Spot, short, tte, r, iv, models.OptionPut)},
			{Type: models.OptionPut, Side: models.OrderSideBuy, Strike: long,
				Premium: pricing.Price(snapshot.Spot, long, tte, r, iv, models.OptionPut)},
		}
	} else {
		short := roundUp(snapshot.Spot+distance, params.StrikeStep)
		long := short + params.WingWidth
		legs = []models.OptionLeg{
			{Type: models.OptionCall, Side: models.OrderSideSell, Strike: short,
				Premium: pricing.Price(snapshot.Spot, short, tte, r, iv, models.OptionCall)},
			{Type: models.OptionCall, Side: models.OrderSideBuy, Strike: long,
				Premium: pricing.Price(snapshot.Spot, long, tte, r, iv, models.OptionCall)},
		}
	}

	credit := netCredit(legs)
	lotSize := float64(params.LotSize)
	if credit <= 0 {
		return nil
	}

	return &models.TradeProposal{
		Strategy:  models.StrategyCreditSpread,
		Legs:      legs,
		LotSize:   params.LotSize,
		NetCredit: credit * lotSize,
		MaxProfit: credit * lotSize,
		MaxLoss:   (params.WingWidth - credit) * lotSize,
		Expiry:    expiry,
	}
}

// netCredit returns the per-unit credit of the legs: premiums received
// for sells minus premiums paid for buys.
func netCredit(legs []models.OptionLeg) float64 {
	var credit float64
	for _, leg := range legs {
		if leg.Side == models.OrderSideBuy {
			credit -= leg.Premium
		} else {
			credit += leg.Premium
		}
	}
	return credit
}

// validateCondor checks structural constraints: spot between the short
// strikes, equal wings, and short-strike distances inside the allowed
// OTM band.
func validateCondor(spot float64, legs []models.OptionLeg, params CondorParams) (bool, []string) {
	var reasons []string

	if len(legs) != 4 {
		return false, []string{"iron condor must have exactly 4 legs"}
	}

	var sp, sc, lp, lc float64
	for _, leg := range legs {
		switch {
		case leg.Type == models.OptionPut && leg.Side == models.OrderSideSell:
			sp = leg.Strike
		case leg.Type == models.OptionCall && leg.Side == models.OrderSideSell:
			sc = leg.Strike
		case leg.Type == models.OptionPut && leg.Side == models.OrderSideBuy:
			lp = leg.Strike
		case leg.Type == models.OptionCall && leg.Side == models.OrderSideBuy:
			lc = leg.Strike
		}
	}

	if !(sc > spot && spot > sp) {
		reasons = append(reasons, "spot must lie between the short strikes")
	}

	widthPut := sp - lp
	widthCall := lc - sc
	if math.Abs(widthPut-widthCall) > 1e-6 {
		reasons = append(reasons, "wing widths unequal")
	}

	distPut := spot - sp
	distCall := sc - spot
	if params.MinOTMDistance > 0 && (distPut < params.MinOTMDistance || distCall < params.MinOTMDistance) {
		reasons = append(reasons, "short strikes too close to spot")
	}
	if params.MaxOTMDistance > 0 && (distPut > params.MaxOTMDistance || distCall > params.MaxOTMDistance) {
		reasons = append(reasons, "short strikes too far from spot")
	}

	return len(reasons) == 0, reasons
}

// yearsUntil returns the year fraction between two times, floored at a
// small positive value so same-day expiries still price as time value.
func yearsUntil(from, to time.Time) float64 {
	years := to.Sub(from).Hours() / (24 * 365)
	if years < 1.0/365/24 {
		years = 1.0 / 365 / 24
	}
	return years
}

// NextExpiry returns the next occurrence of the given weekday at or
// after t, at the 15:30 IST market close.
func NextExpiry(t time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(t.Weekday()) + 7) % 7
	expiry := time.Date(t.Year(), t.Month(), t.Day(), 15, 30, 0, 0, t.Location()).AddDate(0, 0, days)
	if !expiry.After(t) {
		expiry = expiry.AddDate(0, 0, 7)
	}
	return expiry
}
