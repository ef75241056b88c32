package stats

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"condor-trader/internal/models"
)

// closeTo compares with a tolerance relative to the magnitude, so
// accumulated float drift from removals does not flake the property.
func closeTo(got, want float64) bool {
	tol := 1e-6 * math.Max(1, math.Abs(want))
	return math.Abs(got-want) <= tol
}

func recordWithPnL(pnl float64) models.TradeRecord {
	return models.TradeRecord{
		ActualPnL:     pnl,
		PredictedPnL:  pnl * 0.8,
		RegimeAtEntry: models.RegimeRangeBound,
		Timestamp:     time.Now(),
	}
}

// The incremental window statistics must match a from-scratch
// recomputation over the retained records regardless of how many
// evictions have happened.
func TestProperty_IncrementalStatsMatchRecompute(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Window stats equal recomputed stats", prop.ForAll(
		func(pnls []float64) bool {
			tracker := NewTracker(20)
			for _, pnl := range pnls {
				tracker.Add(recordWithPnL(pnl))
			}

			snapshot := tracker.Snapshot()
			records := tracker.Records()

			if len(records) == 0 {
				return snapshot.Count == 0
			}

			var wins, winSum, lossSum float64
			var winCount, lossCount int
			var sum float64
			for _, r := range records {
				sum += r.ActualPnL
				if r.Won() {
					wins++
					winSum += r.ActualPnL
					winCount++
				} else {
					lossSum += r.ActualPnL
					lossCount++
				}
			}
			n := float64(len(records))
			mean := sum / n
			var m2 float64
			for _, r := range records {
				d := r.ActualPnL - mean
				m2 += d * d
			}
			wantVol := math.Sqrt(m2 / n)
			wantWinRate := wins / n
			wantAvgWin := 0.0
			if winCount > 0 {
				wantAvgWin = winSum / float64(winCount)
			}
			wantAvgLoss := 0.0
			if lossCount > 0 {
				wantAvgLoss = lossSum / float64(lossCount)
			}

			return snapshot.Count == len(records) &&
				closeTo(snapshot.WinRate, wantWinRate) &&
				closeTo(snapshot.AvgWin, wantAvgWin) &&
				closeTo(snapshot.AvgLoss, wantAvgLoss) &&
				closeTo(snapshot.Volatility, wantVol)
		},
		gen.SliceOf(gen.Float64Range(-50000, 50000)),
	))

	properties.TestingRun(t)
}

func TestProperty_WindowNeverExceedsDepth(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Count is capped at depth", prop.ForAll(
		func(depth int, pnls []float64) bool {
			tracker := NewTracker(depth)
			for _, pnl := range pnls {
				tracker.Add(recordWithPnL(pnl))
			}
			return tracker.Count() <= tracker.Depth() && tracker.Depth() >= MinSamples
		},
		gen.IntRange(1, 30),
		gen.SliceOf(gen.Float64Range(-10000, 10000)),
	))

	properties.TestingRun(t)
}

func TestTrackerEviction(t *testing.T) {
	tracker := NewTracker(MinSamples)
	for _, pnl := range []float64{100, -200, 300, 400, -500, 600} {
		tracker.Add(recordWithPnL(pnl))
	}

	records := tracker.Records()
	assert.Len(t, records, MinSamples)
	assert.Equal(t, -200.0, records[0].ActualPnL, "oldest record should have been evicted")

	snapshot := tracker.Snapshot()
	assert.InDelta(t, 3.0/5.0, snapshot.WinRate, 1e-9)
	assert.InDelta(t, (300.0+400.0+600.0)/3.0, snapshot.AvgWin, 1e-9)
	assert.InDelta(t, (-200.0-500.0)/2.0, snapshot.AvgLoss, 1e-9)
}

func TestTrackerVersionChangesOnAdd(t *testing.T) {
	tracker := NewTracker(5)
	v0 := tracker.Version()
	tracker.Add(recordWithPnL(100))
	v1 := tracker.Version()
	assert.NotEqual(t, v0, v1)
}

func TestTrackerEmptySnapshot(t *testing.T) {
	tracker := NewTracker(5)
	snapshot := tracker.Snapshot()
	assert.Equal(t, 0, snapshot.Count)
	assert.Zero(t, snapshot.WinRate)
	assert.Zero(t, snapshot.Volatility)
}
