// Package broker provides order execution interfaces and the paper
// trading implementation.
package broker

import (
	"context"
	"time"

	"condor-trader/internal/models"
)

// Broker defines the execution surface the pipeline needs: quotes for
// leg pricing, multi-leg placement, and margin checks.
type Broker interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	PlaceProposal(ctx context.Context, proposal *models.TradeProposal) (*ExecutionResult, error)
	ClosePosition(ctx context.Context, tradeID string, exitDebit float64) (*models.Trade, error)
	GetMargin(ctx context.Context) (*Margin, error)
	OpenTrades(ctx context.Context) ([]models.Trade, error)
}

// ExecutionResult reports what a placement actually did.
type ExecutionResult struct {
	TradeID    string
	OrderIDs   []string
	FilledAt   time.Time
	NetCredit  float64
	StopOrders []string
}

// Margin is the account margin snapshot.
type Margin struct {
	AvailableCash float64
	UsedMargin    float64
	TotalEquity   float64
}
