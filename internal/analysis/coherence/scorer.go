// Package coherence scores the self-consistency of recent trading
// outcomes against what the system predicted for them (RCI).
package coherence

import (
	"math"
	"sync"

	"condor-trader/internal/analysis/stats"
	"condor-trader/internal/models"
)

// NeutralBase is the score returned when the trade window is too small
// to provide evidence either way. Insufficient history is not a failure.
const NeutralBase = 0.5

// Multipliers maps each regime to its coherence multiplier. Lower
// multipliers in volatile and transitional regimes reflect structurally
// lower confidence, not a failure signal.
var Multipliers = map[models.Regime]float64{
	models.RegimeRangeBound:   1.0,
	models.RegimeTrending:     0.9,
	models.RegimeVolatile:     0.7,
	models.RegimeTransitional: 0.8,
}

// Score holds the base and regime-adjusted coherence scores.
type Score struct {
	Base     float64
	Adjusted float64
	Regime   models.Regime
	Samples  int
}

// Scorer computes coherence scores from a statistics tracker. Repeated
// calls with an unchanged window and regime return a memoized result.
type Scorer struct {
	tracker *stats.Tracker

	mu          sync.Mutex
	cached      Score
	cachedOK    bool
	cachedVer   uint64
	cachedLabel models.Regime
}

// NewScorer creates a scorer over the given tracker.
func NewScorer(tracker *stats.Tracker) *Scorer {
	return &Scorer{tracker: tracker}
}

// Score compares the actual outcome pattern with the predicted pattern
// and returns a coherence score in [0, 1], adjusted by the regime's
// multiplier.
func (s *Scorer) Score(regime models.Regime) Score {
	version := s.tracker.Version()

	s.mu.Lock()
	if s.cachedOK && s.cachedVer == version && s.cachedLabel == regime {
		cached := s.cached
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	result := s.compute(regime)

	s.mu.Lock()
	s.cached = result
	s.cachedOK = true
	s.cachedVer = version
	s.cachedLabel = regime
	s.mu.Unlock()

	return result
}

func (s *Scorer) compute(regime models.Regime) Score {
	count := s.tracker.Count()
	result := Score{Regime: regime, Samples: count}

	if count < stats.MinSamples {
		result.Base = NeutralBase
	} else {
		actual := featureVector(s.tracker.Snapshot())
		predicted := featureVector(s.tracker.SnapshotPredicted())
		result.Base = CosineSimilarity(actual, predicted)
	}

	result.Adjusted = result.Base * MultiplierFor(regime)
	return result
}

// MultiplierFor returns the coherence multiplier for a regime. Unknown
// regimes get the transitional multiplier.
func MultiplierFor(regime models.Regime) float64 {
	if m, ok := Multipliers[regime]; ok {
		return m
	}
	return Multipliers[models.RegimeTransitional]
}

// featureVector builds the fixed-order feature vector
// {win rate, avg win, avg loss, volatility} from running stats.
func featureVector(s stats.RunningStats) [4]float64 {
	return [4]float64{s.WinRate, s.AvgWin, s.AvgLoss, s.Volatility}
}

// CosineSimilarity returns the cosine similarity of two feature vectors,
// clamped to [0, 1]. A zero-magnitude vector yields 0.0: total
// incoherence rather than an undefined result.
func CosineSimilarity(a, b [4]float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0.0
	}
	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	if sim < 0 {
		return 0.0
	}
	if sim > 1 {
		return 1.0
	}
	return sim
}
