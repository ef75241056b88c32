package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"condor-trader/internal/errors"
	"condor-trader/internal/models"
)

// PaperBroker simulates execution against an in-memory book. Fills are
// immediate at the proposal's modeled premiums; margin is blocked at the
// structure's max loss.
type PaperBroker struct {
	balance      float64
	usedMargin   float64
	trades       map[string]*models.Trade
	blocked      map[string]float64
	orderCounter int
	tradeCounter int
	quotes       map[string]models.Quote

	mu sync.RWMutex
}

// NewPaperBroker creates a paper broker with the given starting cash.
func NewPaperBroker(initialBalance float64) *PaperBroker {
	if initialBalance <= 0 {
		initialBalance = 1000000
	}
	return &PaperBroker{
		balance: initialBalance,
		trades:  make(map[string]*models.Trade),
		blocked: make(map[string]float64),
		quotes:  make(map[string]models.Quote),
	}
}

// SetQuote seeds a quote for simulation. The backtest harness feeds bars
// through here.
func (p *PaperBroker) SetQuote(symbol string, quote models.Quote) {
	p.mu.Lock()
	p.quotes[symbol] = quote
	p.mu.Unlock()
}

// GetQuote returns the last seeded quote for the symbol.
func (p *PaperBroker) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	quote, ok := p.quotes[symbol]
	if !ok {
		return nil, errors.NewDataError("quote", fmt.Sprintf("no quote for %s", symbol), errors.ErrDataNotFound)
	}
	return &quote, nil
}

// PlaceProposal fills every leg immediately and blocks margin for the
// structure's max loss. Stop orders are registered for each short leg.
func (p *PaperBroker) PlaceProposal(ctx context.Context, proposal *models.TradeProposal) (*ExecutionResult, error) {
	if proposal == nil || len(proposal.Legs) == 0 {
		return nil, errors.NewBrokerError("INVALID_PROPOSAL", "proposal has no legs", errors.ErrOrderRejected)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	required := proposal.MaxLoss
	if p.balance-p.usedMargin < required {
		return nil, errors.NewBrokerError("INSUFFICIENT_MARGIN",
			fmt.Sprintf("need %.2f, have %.2f free", required, p.balance-p.usedMargin),
			errors.ErrInsufficientFunds)
	}

	p.tradeCounter++
	tradeID := fmt.Sprintf("PT-%06d", p.tradeCounter)
	now := time.Now()

	result := &ExecutionResult{
		TradeID:   tradeID,
		FilledAt:  now,
		NetCredit: proposal.NetCredit,
	}
	for _, leg := range proposal.Legs {
		p.orderCounter++
		orderID := fmt.Sprintf("PO-%06d", p.orderCounter)
		result.OrderIDs = append(result.OrderIDs, orderID)
		if leg.Side == models.OrderSideSell {
			p.orderCounter++
			result.StopOrders = append(result.StopOrders, fmt.Sprintf("PO-%06d", p.orderCounter))
		}
	}

	p.usedMargin += required
	p.blocked[tradeID] = required
	p.trades[tradeID] = &models.Trade{
		ID:          tradeID,
		Strategy:    proposal.Strategy,
		Lots:        proposal.Lots,
		EntryCredit: proposal.NetCredit,
		EntryTime:   now,
		IsPaper:     true,
	}
	return result, nil
}

// ClosePosition settles the trade at the given exit debit, releases the
// blocked margin, and realizes the PnL into the balance.
func (p *PaperBroker) ClosePosition(ctx context.Context, tradeID string, exitDebit float64) (*models.Trade, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	trade, ok := p.trades[tradeID]
	if !ok {
		return nil, errors.NewBrokerError("UNKNOWN_TRADE", fmt.Sprintf("trade %s not open", tradeID), errors.ErrDataNotFound)
	}
	delete(p.trades, tradeID)
	p.usedMargin -= p.blocked[tradeID]
	delete(p.blocked, tradeID)

	trade.ExitDebit = exitDebit
	trade.PnL = trade.EntryCredit - exitDebit
	trade.ExitTime = time.Now()
	p.balance += trade.PnL
	return trade, nil
}

// GetMargin returns the simulated account margin.
func (p *PaperBroker) GetMargin(ctx context.Context) (*Margin, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &Margin{
		AvailableCash: p.balance - p.usedMargin,
		UsedMargin:    p.usedMargin,
		TotalEquity:   p.balance,
	}, nil
}

// OpenTrades lists the currently open simulated trades.
func (p *PaperBroker) OpenTrades(ctx context.Context) ([]models.Trade, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Trade, 0, len(p.trades))
	for _, t := range p.trades {
		out = append(out, *t)
	}
	return out, nil
}
