package trading

import (
	"sync"
	"time"

	"condor-trader/internal/identity"
	"condor-trader/internal/models"
)

// Session tracks what the system is actually doing across a trading day:
// open positions, realized results, and the operating parameters it
// reports to the identity validator.
type Session struct {
	mu sync.Mutex

	riskFraction  float64
	expiryWeekday time.Weekday
	maxPositions  int
	stopsAttached bool

	day       time.Time
	open      map[string]*models.Trade
	dailyPnL  float64
	wins      int
	losses    int
	proposals int
	rejected  int
}

// NewSession starts a session reporting the given operating parameters.
func NewSession(riskFraction float64, expiryWeekday time.Weekday, maxPositions int) *Session {
	return &Session{
		riskFraction:  riskFraction,
		expiryWeekday: expiryWeekday,
		maxPositions:  maxPositions,
		stopsAttached: true,
		open:          make(map[string]*models.Trade),
	}
}

// Observed returns the behavior snapshot the identity validator compares
// against the declared core. SetStopsAttached and SetRiskFraction exist
// so a misbehaving override path is visible to the validator instead of
// hidden from it.
func (s *Session) Observed() identity.ObservedBehavior {
	s.mu.Lock()
	defer s.mu.Unlock()
	return identity.ObservedBehavior{
		RiskFraction:      s.riskFraction,
		ExpiryWeekday:     s.expiryWeekday,
		MaxOpenPositions:  s.maxPositions,
		StopLossMandatory: s.stopsAttached,
	}
}

// SetRiskFraction records a runtime override of the risk fraction.
func (s *Session) SetRiskFraction(f float64) {
	s.mu.Lock()
	s.riskFraction = f
	s.mu.Unlock()
}

// SetStopsAttached records whether stop-losses are being placed.
func (s *Session) SetStopsAttached(attached bool) {
	s.mu.Lock()
	s.stopsAttached = attached
	s.mu.Unlock()
}

// RecordProposal counts an evaluation tick outcome.
func (s *Session) RecordProposal(authenticated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals++
	if !authenticated {
		s.rejected++
	}
}

// OpenPosition registers a filled trade. Returns false when the position
// cap is already reached.
func (s *Session) OpenPosition(trade *models.Trade) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollDay(trade.EntryTime)
	if len(s.open) >= s.maxPositions {
		return false
	}
	s.open[trade.ID] = trade
	return true
}

// ClosePosition settles an open trade and accumulates the day's PnL.
func (s *Session) ClosePosition(id string, pnl float64, closedAt time.Time) (*models.Trade, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trade, ok := s.open[id]
	if !ok {
		return nil, false
	}
	delete(s.open, id)
	s.rollDay(closedAt)
	s.dailyPnL += pnl
	if pnl >= 0 {
		s.wins++
	} else {
		s.losses++
	}
	trade.PnL = pnl
	trade.ExitTime = closedAt
	return trade, true
}

// OpenCount returns the number of positions currently open.
func (s *Session) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

// Stats returns the running session counters.
func (s *Session) Stats() SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionStats{
		DailyPnL:  s.dailyPnL,
		Wins:      s.wins,
		Losses:    s.losses,
		Proposals: s.proposals,
		Rejected:  s.rejected,
		Open:      len(s.open),
	}
}

// SessionStats is a point-in-time copy of the session counters.
type SessionStats struct {
	DailyPnL  float64
	Wins      int
	Losses    int
	Proposals int
	Rejected  int
	Open      int
}

// rollDay resets the daily PnL when the calendar day changes. Caller
// holds the lock.
func (s *Session) rollDay(now time.Time) {
	day := now.Truncate(24 * time.Hour)
	if !day.Equal(s.day) {
		s.day = day
		s.dailyPnL = 0
	}
}
