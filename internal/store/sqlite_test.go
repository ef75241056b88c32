package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condor-trader/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadTrade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entry := time.Date(2026, 1, 9, 10, 30, 0, 0, time.UTC)

	trade := &models.Trade{
		ID:          "PT-000001",
		Strategy:    models.StrategyIronCondor,
		Regime:      models.RegimeRangeBound,
		Lots:        2,
		EntryCredit: 5900,
		EntryTime:   entry,
		IsPaper:     true,
	}
	require.NoError(t, store.SaveTrade(ctx, trade))

	// Settling updates the same row.
	trade.ExitDebit = 2000
	trade.PnL = 3900
	trade.ExitTime = entry.AddDate(0, 0, 5)
	require.NoError(t, store.SaveTrade(ctx, trade))

	trades, err := store.GetTrades(ctx, entry.AddDate(0, 0, -1), entry.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, trades, 1)

	got := trades[0]
	assert.Equal(t, "PT-000001", got.ID)
	assert.Equal(t, models.StrategyIronCondor, got.Strategy)
	assert.Equal(t, models.RegimeRangeBound, got.Regime)
	assert.Equal(t, 3900.0, got.PnL)
	assert.True(t, got.IsPaper)
	assert.False(t, got.ExitTime.IsZero())
}

func TestOpenTradeHasZeroExitTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	entry := time.Date(2026, 1, 9, 10, 30, 0, 0, time.UTC)

	require.NoError(t, store.SaveTrade(ctx, &models.Trade{
		ID:        "PT-000002",
		Strategy:  models.StrategyCreditSpread,
		Regime:    models.RegimeTrending,
		Lots:      1,
		EntryTime: entry,
		IsPaper:   true,
	}))

	trades, err := store.GetTrades(ctx, entry.AddDate(0, 0, -1), entry.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.True(t, trades[0].ExitTime.IsZero())
}

func TestSaveAndLoadDecisions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 9, 10, 30, 0, 0, time.UTC)

	rejected := &Decision{
		Timestamp: now,
		Regime:    models.RegimeVolatile,
		Strategy:  models.StrategyPause,
		Reason:    "regime-pause",
		Coherence: 0.5,
		VIX:       25.5,
		Spot:      21900,
	}
	require.NoError(t, store.SaveDecision(ctx, rejected))
	assert.NotZero(t, rejected.ID)

	accepted := &Decision{
		Timestamp:     now.Add(time.Hour),
		Regime:        models.RegimeRangeBound,
		Strategy:      models.StrategyIronCondor,
		Authenticated: true,
		Coherence:     0.92,
		EnsembleScore: 0.95,
		VIX:           14.2,
		Spot:          22000,
	}
	require.NoError(t, store.SaveDecision(ctx, accepted))

	decisions, err := store.GetDecisions(ctx, now.Add(-time.Hour), now.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, decisions, 2)

	assert.False(t, decisions[0].Authenticated)
	assert.Equal(t, "regime-pause", decisions[0].Reason)
	assert.True(t, decisions[1].Authenticated)
	assert.InDelta(t, 0.95, decisions[1].EnsembleScore, 1e-9)
}

func TestGetDecisionsWindowExcludes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 9, 10, 30, 0, 0, time.UTC)

	require.NoError(t, store.SaveDecision(ctx, &Decision{
		Timestamp: now, Regime: models.RegimeRangeBound, Strategy: models.StrategyIronCondor,
	}))

	decisions, err := store.GetDecisions(ctx, now.Add(time.Minute), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, decisions)
}
