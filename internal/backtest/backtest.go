// Package backtest replays historical bars through the decision
// pipeline and reports the resulting equity curve.
package backtest

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"condor-trader/internal/models"
	"condor-trader/internal/trading"
)

// BarRow is one row of the replay CSV. VIX and IV ride alongside the
// OHLC so a single file drives the whole pipeline.
type BarRow struct {
	Date  string  `csv:"date"`
	Open  float64 `csv:"open"`
	High  float64 `csv:"high"`
	Low   float64 `csv:"low"`
	Close float64 `csv:"close"`
	VIX   float64 `csv:"vix"`
	IV    float64 `csv:"iv"`
}

// LoadBars reads the replay file. Rows must be in chronological order.
func LoadBars(path string) ([]BarRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay file: %w", err)
	}
	defer f.Close()

	var rows []BarRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse replay file: %w", err)
	}
	return rows, nil
}

// ReasonPositionCap marks ticks that authenticated but could not open a
// position because the session's concurrency cap was already reached.
const ReasonPositionCap = "position-cap-reached"

// Result summarizes a completed replay.
type Result struct {
	Bars          int
	Proposals     int
	Wins          int
	Losses        int
	WinRate       float64
	NetPnL        float64
	MaxDrawdown   float64
	EquityCurve   []float64
	RejectCounts  map[string]int
	FinalCoherent float64
}

// Runner replays bars through an Authenticator, holding each
// authenticated position for a fixed number of bars before settling it
// at its modeled outcome.
type Runner struct {
	auth     *trading.Authenticator
	session  *trading.Session
	capital  float64
	holdBars int
	logger   zerolog.Logger
}

// NewRunner builds a replay runner. holdBars controls how many bars a
// simulated position stays open.
func NewRunner(auth *trading.Authenticator, session *trading.Session, capital float64, holdBars int, logger zerolog.Logger) *Runner {
	if holdBars < 1 {
		holdBars = 5
	}
	return &Runner{
		auth:     auth,
		session:  session,
		capital:  capital,
		holdBars: holdBars,
		logger:   logger,
	}
}

type openSim struct {
	proposal  *models.TradeProposal
	regime    models.Regime
	entryBar  int
	entrySpot float64
}

// Run replays all bars. Settled trades are fed back into the statistics
// tracker so coherence evolves the way it would live.
func (r *Runner) Run(bars []BarRow) (*Result, error) {
	result := &Result{
		Bars:         len(bars),
		RejectCounts: make(map[string]int),
		EquityCurve:  make([]float64, 0, len(bars)),
	}

	equity := r.capital
	peak := equity
	maxOpen := r.session.Observed().MaxOpenPositions
	var open []openSim

	history := make([]float64, 0, len(bars))
	candles := make([]models.Candle, 0, len(bars))

	for i, bar := range bars {
		ts, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			return nil, fmt.Errorf("bad date %q at row %d: %w", bar.Date, i+1, err)
		}

		history = append(history, bar.Close)
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
		})

		// Settle positions whose holding period has elapsed.
		var still []openSim
		for _, pos := range open {
			if i-pos.entryBar < r.holdBars {
				still = append(still, pos)
				continue
			}
			pnl := r.settle(pos, bar.Close)
			equity += pnl
			result.NetPnL += pnl
			if pnl >= 0 {
				result.Wins++
			} else {
				result.Losses++
			}
			r.auth.RecordTrade(models.TradeRecord{
				ActualPnL:     pnl,
				PredictedPnL:  pos.proposal.MaxProfit * 0.5,
				RegimeAtEntry: pos.regime,
				Timestamp:     ts,
			})
		}
		open = still

		snapshot := &models.MarketSnapshot{
			Spot:         bar.Close,
			IV:           bar.IV,
			VIX:          bar.VIX,
			PriceHistory: history,
			BarHistory:   candles,
			Timestamp:    ts,
		}
		outcome, err := r.auth.Evaluate(snapshot, r.session.Observed())
		if err != nil {
			return nil, fmt.Errorf("evaluation failed at row %d: %w", i+1, err)
		}
		r.session.RecordProposal(outcome.Authenticated)

		switch {
		case !outcome.Authenticated:
			result.RejectCounts[outcome.Reason]++
		case maxOpen > 0 && len(open) >= maxOpen:
			// The replay holds the same cap the validator attests to.
			result.RejectCounts[ReasonPositionCap]++
		default:
			result.Proposals++
			open = append(open, openSim{
				proposal:  outcome.Proposal,
				regime:    outcome.Regime,
				entryBar:  i,
				entrySpot: bar.Close,
			})
			r.logger.Debug().
				Str("date", bar.Date).
				Str("strategy", string(outcome.Proposal.Strategy)).
				Int("lots", outcome.Proposal.Lots).
				Msg("Replay entry")
		}

		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			dd := (peak - equity) / peak
			if dd > result.MaxDrawdown {
				result.MaxDrawdown = dd
			}
		}
		result.EquityCurve = append(result.EquityCurve, equity)
	}

	if closed := result.Wins + result.Losses; closed > 0 {
		result.WinRate = float64(result.Wins) / float64(closed)
	}
	return result, nil
}

// settle models the position's outcome from where the spot ended up. A
// condor keeps the credit when the spot stayed inside the short strikes
// and loses a move-proportional fraction of the max loss otherwise.
func (r *Runner) settle(pos openSim, exitSpot float64) float64 {
	shortPut, shortCall := shortStrikes(pos.proposal)
	if shortPut > 0 && shortCall > 0 && exitSpot > shortPut && exitSpot < shortCall {
		return pos.proposal.MaxProfit
	}

	var breach float64
	switch {
	case shortCall > 0 && exitSpot >= shortCall:
		breach = exitSpot - shortCall
	case shortPut > 0 && exitSpot <= shortPut:
		breach = shortPut - exitSpot
	default:
		return pos.proposal.MaxProfit
	}

	width := wingWidth(pos.proposal)
	if width <= 0 {
		return -pos.proposal.MaxLoss
	}
	frac := math.Min(breach/width, 1.0)
	return pos.proposal.MaxProfit - frac*(pos.proposal.MaxProfit+pos.proposal.MaxLoss)
}

func shortStrikes(p *models.TradeProposal) (shortPut, shortCall float64) {
	for _, leg := range p.Legs {
		if leg.Side != models.OrderSideSell {
			continue
		}
		if leg.Type == models.OptionPut {
			shortPut = leg.Strike
		} else {
			shortCall = leg.Strike
		}
	}
	return shortPut, shortCall
}

func wingWidth(p *models.TradeProposal) float64 {
	strikes := make(map[models.OptionType][2]float64)
	for _, leg := range p.Legs {
		pair := strikes[leg.Type]
		if leg.Side == models.OrderSideSell {
			pair[0] = leg.Strike
		} else {
			pair[1] = leg.Strike
		}
		strikes[leg.Type] = pair
	}
	for _, pair := range strikes {
		if pair[0] > 0 && pair[1] > 0 {
			return math.Abs(pair[1] - pair[0])
		}
	}
	return 0
}
