// Package store provides persistence for trades and evaluation
// decisions.
package store

import (
	"context"
	"time"

	"condor-trader/internal/models"
)

// Decision is one journaled evaluation tick: the gate chain's verdict
// and the context it was made in.
type Decision struct {
	ID            int64
	Timestamp     time.Time
	Regime        models.Regime
	Strategy      models.Strategy
	Authenticated bool
	Reason        string
	Coherence     float64
	EnsembleScore float64
	VIX           float64
	Spot          float64
}

// Store defines the persistence surface.
type Store interface {
	SaveTrade(ctx context.Context, trade *models.Trade) error
	GetTrades(ctx context.Context, from, to time.Time) ([]models.Trade, error)
	SaveDecision(ctx context.Context, decision *Decision) error
	GetDecisions(ctx context.Context, from, to time.Time) ([]Decision, error)
	Close() error
}
