// Package volatility tracks the volatility index across ticks and flags
// abrupt shifts distinct from the absolute level.
package volatility

import (
	"sync"
	"time"
)

// Level represents the absolute volatility level.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelModerate Level = "MODERATE"
	LevelHigh     Level = "HIGH"
)

// Change represents the tick-over-tick volatility shift.
type Change string

const (
	ChangeStable        Change = "STABLE"
	ChangeFearSpike     Change = "FEAR_SPIKE"
	ChangeFearSubsiding Change = "FEAR_SUBSIDING"
	// ChangeInsufficient is returned with fewer than two observations.
	// It is a distinct outcome, not a zero delta.
	ChangeInsufficient Change = "INSUFFICIENT_DATA"
)

// Advice is the recommended action bundle propagated with a fear spike.
// The authenticator is required to honor SuppressEntries as a veto.
type Advice struct {
	ReduceSize      bool
	TightenStops    bool
	SuppressEntries bool
}

// Reading is the result of one volatility analysis.
type Reading struct {
	Level  Level
	Change Change
	Delta  float64
	VIX    float64
	Advice Advice
}

// Insufficient reports whether the reading lacks enough history to
// measure a shift.
func (r Reading) Insufficient() bool {
	return r.Change == ChangeInsufficient
}

// Config holds the monitor thresholds.
type Config struct {
	ModerateThreshold float64 // level boundary between Low and Moderate
	HighThreshold     float64 // level boundary between Moderate and High
	SpikeDelta        float64 // one-tick jump that counts as a fear spike
}

// DefaultConfig returns the default monitor thresholds.
func DefaultConfig() Config {
	return Config{
		ModerateThreshold: 18.0,
		HighThreshold:     22.0,
		SpikeDelta:        1.5,
	}
}

type observation struct {
	timestamp time.Time
	vix       float64
}

// Monitor maintains an append-only history of volatility observations.
// Analyze mutates the history and is serialized behind a lock.
type Monitor struct {
	mu      sync.Mutex
	config  Config
	history []observation
}

// NewMonitor creates a monitor with the given thresholds.
func NewMonitor(config Config) *Monitor {
	return &Monitor{config: config}
}

// Analyze records the current observation and classifies the volatility
// level and the shift relative to the previous tick.
func (m *Monitor) Analyze(vix float64, now time.Time) Reading {
	m.mu.Lock()
	defer m.mu.Unlock()

	reading := Reading{
		VIX:   vix,
		Level: m.classifyLevel(vix),
	}

	if len(m.history) == 0 {
		reading.Change = ChangeInsufficient
		m.history = append(m.history, observation{timestamp: now, vix: vix})
		return reading
	}

	previous := m.history[len(m.history)-1]
	reading.Delta = vix - previous.vix

	switch {
	case reading.Delta > m.config.SpikeDelta:
		reading.Change = ChangeFearSpike
		reading.Advice = Advice{
			ReduceSize:      true,
			TightenStops:    true,
			SuppressEntries: true,
		}
	case reading.Delta < -m.config.SpikeDelta:
		reading.Change = ChangeFearSubsiding
	default:
		reading.Change = ChangeStable
	}

	m.history = append(m.history, observation{timestamp: now, vix: vix})
	return reading
}

func (m *Monitor) classifyLevel(vix float64) Level {
	switch {
	case vix >= m.config.HighThreshold:
		return LevelHigh
	case vix >= m.config.ModerateThreshold:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Observations returns the number of recorded observations.
func (m *Monitor) Observations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

// Current returns the most recent VIX observation, or false when none
// has been recorded.
func (m *Monitor) Current() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return 0, false
	}
	return m.history[len(m.history)-1].vix, true
}
