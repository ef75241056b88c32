package trading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"condor-trader/internal/models"
)

func TestSessionObservedMirrorsParameters(t *testing.T) {
	session := NewSession(0.02, time.Thursday, 3)

	observed := session.Observed()
	assert.Equal(t, 0.02, observed.RiskFraction)
	assert.Equal(t, time.Thursday, observed.ExpiryWeekday)
	assert.Equal(t, 3, observed.MaxOpenPositions)
	assert.True(t, observed.StopLossMandatory)

	session.SetRiskFraction(0.05)
	session.SetStopsAttached(false)
	observed = session.Observed()
	assert.Equal(t, 0.05, observed.RiskFraction, "overrides must be visible, not hidden")
	assert.False(t, observed.StopLossMandatory)
}

func TestSessionPositionCap(t *testing.T) {
	session := NewSession(0.02, time.Thursday, 2)
	now := time.Now()

	assert.True(t, session.OpenPosition(&models.Trade{ID: "T1", EntryTime: now}))
	assert.True(t, session.OpenPosition(&models.Trade{ID: "T2", EntryTime: now}))
	assert.False(t, session.OpenPosition(&models.Trade{ID: "T3", EntryTime: now}), "cap reached")
	assert.Equal(t, 2, session.OpenCount())
}

func TestSessionCloseAndDailyPnL(t *testing.T) {
	session := NewSession(0.02, time.Thursday, 3)
	now := time.Now()

	session.OpenPosition(&models.Trade{ID: "T1", EntryTime: now})
	session.OpenPosition(&models.Trade{ID: "T2", EntryTime: now})

	trade, ok := session.ClosePosition("T1", 2500, now)
	assert.True(t, ok)
	assert.Equal(t, 2500.0, trade.PnL)
	assert.False(t, trade.ExitTime.IsZero())

	session.ClosePosition("T2", -1000, now)

	stats := session.Stats()
	assert.Equal(t, 1500.0, stats.DailyPnL)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 0, stats.Open)

	_, ok = session.ClosePosition("T9", 100, now)
	assert.False(t, ok, "unknown trade id")
}

func TestSessionDailyRollover(t *testing.T) {
	session := NewSession(0.02, time.Thursday, 3)
	day1 := time.Date(2026, 1, 8, 11, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	session.OpenPosition(&models.Trade{ID: "T1", EntryTime: day1})
	session.ClosePosition("T1", -3000, day1)
	assert.Equal(t, -3000.0, session.Stats().DailyPnL)

	session.OpenPosition(&models.Trade{ID: "T2", EntryTime: day2})
	session.ClosePosition("T2", 500, day2)
	assert.Equal(t, 500.0, session.Stats().DailyPnL, "loss from the previous day resets")
}
