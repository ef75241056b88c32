package regime

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"condor-trader/internal/models"
)

// Every (slope, vix) pair maps to exactly one of the four regimes; the
// classifier has no unreachable inputs.
func TestProperty_ClassificationIsTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	classifier := NewClassifier(DefaultConfig())

	known := map[models.Regime]bool{
		models.RegimeRangeBound:   true,
		models.RegimeTrending:     true,
		models.RegimeVolatile:     true,
		models.RegimeTransitional: true,
	}

	properties.Property("Classification always yields a known regime", prop.ForAll(
		func(slope, vix float64) bool {
			return known[classifier.classify(slope, vix)]
		},
		gen.Float64Range(-2.0, 2.0),
		gen.Float64Range(0.0, 90.0),
	))

	properties.Property("High VIX always classifies volatile", prop.ForAll(
		func(slope, vix float64) bool {
			return classifier.classify(slope, vix) == models.RegimeVolatile
		},
		gen.Float64Range(-2.0, 2.0),
		gen.Float64Range(22.0, 90.0),
	))

	properties.TestingRun(t)
}

func TestClassifyBoundaries(t *testing.T) {
	classifier := NewClassifier(DefaultConfig())

	cases := []struct {
		name  string
		slope float64
		vix   float64
		want  models.Regime
	}{
		{"flat calm", 0.01, 15, models.RegimeRangeBound},
		{"flat negative slope calm", -0.03, 17.9, models.RegimeRangeBound},
		{"trending moderate vix", 0.10, 20, models.RegimeTrending},
		{"trending down", -0.20, 15, models.RegimeTrending},
		{"vix at high threshold", 0.01, 22, models.RegimeVolatile},
		{"extreme vix overrides trend", 1.5, 40, models.RegimeVolatile},
		{"slope exactly at threshold", 0.05, 15, models.RegimeTransitional},
		{"flat but moderate vix", 0.01, 20, models.RegimeTransitional},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifier.classify(tc.slope, tc.vix))
		})
	}
}

func TestClassifyFromSnapshot(t *testing.T) {
	classifier := NewClassifier(DefaultConfig())

	// Flat prices, calm VIX.
	snapshot := &models.MarketSnapshot{
		Spot:         22000,
		VIX:          14,
		PriceHistory: []float64{22000, 22010, 21990, 22005, 22000, 22002},
		Timestamp:    time.Now(),
	}
	assert.Equal(t, models.RegimeRangeBound, classifier.Classify(snapshot))

	// Short history falls back to zero slope.
	snapshot.PriceHistory = []float64{22000, 22010}
	assert.Equal(t, models.RegimeRangeBound, classifier.Classify(snapshot))

	// Strong uptrend.
	snapshot.PriceHistory = []float64{20000, 20500, 21000, 21500, 22000, 22500}
	assert.Equal(t, models.RegimeTrending, classifier.Classify(snapshot))
}

func TestPreferredStrategy(t *testing.T) {
	assert.Equal(t, models.StrategyIronCondor, PreferredStrategy(models.RegimeRangeBound))
	assert.Equal(t, models.StrategyCreditSpread, PreferredStrategy(models.RegimeTrending))
	assert.Equal(t, models.StrategyPause, PreferredStrategy(models.RegimeVolatile))
	assert.Equal(t, models.StrategyWait, PreferredStrategy(models.RegimeTransitional))
}

func TestTacticsFallback(t *testing.T) {
	table := DefaultTactics()
	unknown := table.For(models.Regime("UNKNOWN"))
	assert.Equal(t, table[models.RegimeTransitional], unknown)
}
