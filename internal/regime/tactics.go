package regime

import (
	"condor-trader/internal/models"
)

// Tactics holds the regime-adaptive tactical parameters. Unlike the core
// identity, these are expected and permitted to vary by regime.
type Tactics struct {
	Strategy           models.Strategy
	SizeMultiplier     float64
	ProfitTargetFrac   float64 // fraction of max profit to take
	StrikeOffsetPoints float64 // added to the base OTM distance
}

// TacticsTable maps each regime to its tactical parameters. Set once at
// startup and looked up per tick, never mutated.
type TacticsTable map[models.Regime]Tactics

// DefaultTactics returns the default tactics table.
func DefaultTactics() TacticsTable {
	return TacticsTable{
		models.RegimeRangeBound: {
			Strategy:           models.StrategyIronCondor,
			SizeMultiplier:     1.0,
			ProfitTargetFrac:   0.5,
			StrikeOffsetPoints: 0,
		},
		models.RegimeTrending: {
			Strategy:           models.StrategyCreditSpread,
			SizeMultiplier:     0.8,
			ProfitTargetFrac:   0.5,
			StrikeOffsetPoints: 50,
		},
		models.RegimeVolatile: {
			Strategy:           models.StrategyPause,
			SizeMultiplier:     0,
			ProfitTargetFrac:   0,
			StrikeOffsetPoints: 0,
		},
		models.RegimeTransitional: {
			Strategy:           models.StrategyWait,
			SizeMultiplier:     0.5,
			ProfitTargetFrac:   0.4,
			StrikeOffsetPoints: 100,
		},
	}
}

// For returns the tactics for a regime, falling back to the transitional
// entry for unknown labels.
func (t TacticsTable) For(r models.Regime) Tactics {
	if tac, ok := t[r]; ok {
		return tac
	}
	return t[models.RegimeTransitional]
}
