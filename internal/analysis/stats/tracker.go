// Package stats provides incremental trade-history statistics over a
// bounded rolling window.
package stats

import (
	"math"
	"sync"

	"condor-trader/internal/models"
)

// MinSamples is the window size below which aggregates are considered
// low-confidence by downstream consumers.
const MinSamples = 5

// RunningStats holds the derived aggregates for one P&L series. The
// values are always consistent with the current window contents; an
// update completes before any snapshot can observe it.
type RunningStats struct {
	Count      int
	WinRate    float64
	AvgWin     float64
	AvgLoss    float64
	Volatility float64
	Mean       float64
}

// accumulator maintains Welford-style online mean/variance plus win/loss
// sums for a single P&L series, supporting O(1) insert and remove.
type accumulator struct {
	n       int
	mean    float64
	m2      float64
	winN    int
	winSum  float64
	lossN   int
	lossSum float64
}

func (a *accumulator) add(x float64) {
	a.n++
	delta := x - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (x - a.mean)

	if x > 0 {
		a.winN++
		a.winSum += x
	} else {
		a.lossN++
		a.lossSum += x
	}
}

func (a *accumulator) remove(x float64) {
	if a.n == 0 {
		return
	}
	if a.n == 1 {
		*a = accumulator{}
		return
	}
	oldMean := a.mean
	a.mean = (float64(a.n)*a.mean - x) / float64(a.n-1)
	a.m2 -= (x - oldMean) * (x - a.mean)
	if a.m2 < 0 {
		a.m2 = 0 // float drift
	}
	a.n--

	if x > 0 {
		a.winN--
		a.winSum -= x
	} else {
		a.lossN--
		a.lossSum -= x
	}
}

func (a *accumulator) snapshot() RunningStats {
	s := RunningStats{Count: a.n, Mean: a.mean}
	if a.n == 0 {
		return s
	}
	s.WinRate = float64(a.winN) / float64(a.n)
	if a.winN > 0 {
		s.AvgWin = a.winSum / float64(a.winN)
	}
	if a.lossN > 0 {
		s.AvgLoss = a.lossSum / float64(a.lossN)
	}
	s.Volatility = math.Sqrt(a.m2 / float64(a.n))
	return s
}

// Tracker owns the bounded TradeRecord window and keeps running
// aggregates for both the actual and the predicted P&L series. Mutating
// calls are serialized behind a single lock so a multi-threaded host can
// embed the tracker safely.
type Tracker struct {
	mu      sync.RWMutex
	depth   int
	window  []models.TradeRecord
	actual  accumulator
	predict accumulator
	version uint64
}

// NewTracker creates a tracker with the given memory depth. Depths below
// MinSamples are raised to MinSamples.
func NewTracker(depth int) *Tracker {
	if depth < MinSamples {
		depth = MinSamples
	}
	return &Tracker{
		depth:  depth,
		window: make([]models.TradeRecord, 0, depth),
	}
}

// Add inserts a trade record, evicting the oldest when the window is at
// capacity, and updates all aggregates in O(1).
func (t *Tracker) Add(record models.TradeRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.window) == t.depth {
		oldest := t.window[0]
		t.window = t.window[1:]
		t.actual.remove(oldest.ActualPnL)
		t.predict.remove(oldest.PredictedPnL)
	}

	t.window = append(t.window, record)
	t.actual.add(record.ActualPnL)
	t.predict.add(record.PredictedPnL)
	t.version++
}

// Snapshot returns the current aggregates over actual P&L.
func (t *Tracker) Snapshot() RunningStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.actual.snapshot()
}

// SnapshotPredicted returns the current aggregates over predicted P&L.
func (t *Tracker) SnapshotPredicted() RunningStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.predict.snapshot()
}

// Count returns the number of records currently in the window.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.window)
}

// Depth returns the configured memory depth.
func (t *Tracker) Depth() int {
	return t.depth
}

// Version returns a counter that increments on every Add. Consumers use
// it to invalidate memoized results derived from the window.
func (t *Tracker) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Records returns a copy of the current window contents, oldest first.
func (t *Tracker) Records() []models.TradeRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.TradeRecord, len(t.window))
	copy(out, t.window)
	return out
}
