package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"condor-trader/internal/backtest"
	"condor-trader/internal/broker"
	"condor-trader/internal/config"
	"condor-trader/internal/models"
	"condor-trader/internal/store"
	"condor-trader/internal/trading"
	"condor-trader/pkg/utils"
)

func newEvaluateCmd(app *App) *cobra.Command {
	var barsFile string
	var execute bool

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run one evaluation tick against historical bars",
		Long: `Evaluate feeds the bar file through the pipeline's indicators and
runs the gate chain against the most recent bar, printing either the
authenticated proposal or the rejection reason. With --execute an
authenticated proposal is placed on the paper broker and the fill is
journaled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Auth == nil {
				return fmt.Errorf("pipeline not initialized")
			}

			rows, err := backtest.LoadBars(barsFile)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("bar file %s is empty", barsFile)
			}

			snapshot, err := snapshotFromRows(rows)
			if err != nil {
				return err
			}

			// Warm the volatility monitor so a shift is detectable on
			// the final bar.
			warmMonitor(app.Auth, rows)

			session := trading.NewSession(
				app.Config.Pipeline.RiskFraction,
				mustWeekday(app.Config.Identity.ExpiryWeekday),
				app.Config.Identity.MaxOpenPositions,
			)

			outcome, err := app.Auth.Evaluate(snapshot, session.Observed())
			if err != nil {
				return err
			}

			if app.Store != nil {
				decision := &store.Decision{
					Timestamp:     outcome.Timestamp,
					Regime:        outcome.Regime,
					Strategy:      outcome.Strategy,
					Authenticated: outcome.Authenticated,
					Reason:        outcome.Reason,
					Coherence:     outcome.Coherence.Adjusted,
					EnsembleScore: outcome.EnsembleScore,
					VIX:           snapshot.VIX,
					Spot:          snapshot.Spot,
				}
				err := utils.Retry(cmd.Context(), utils.DefaultRetryConfig(), func() error {
					return app.Store.SaveDecision(cmd.Context(), decision)
				})
				if err != nil {
					app.Logger.Warn().Err(err).Msg("Failed to journal decision")
				}
			}

			var fill *broker.ExecutionResult
			if execute && outcome.Authenticated {
				if app.Broker == nil {
					return fmt.Errorf("--execute requires the paper broker (trading mode %q)", app.Config.Trading.Mode)
				}
				fill, err = app.Broker.PlaceProposal(cmd.Context(), outcome.Proposal)
				if err != nil {
					return err
				}
				journalFill(app, cmd, outcome, fill)
			}

			if output.IsJSON() {
				if fill != nil {
					return output.JSON(map[string]interface{}{
						"outcome": outcome,
						"fill":    fill,
					})
				}
				return output.JSON(outcome)
			}
			printOutcome(output, outcome, snapshot)
			if fill != nil {
				printFill(cmd, output, app, fill)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&barsFile, "bars", "", "CSV file of daily bars (date,open,high,low,close,vix,iv)")
	cmd.Flags().BoolVar(&execute, "execute", false, "place an authenticated proposal on the paper broker")
	cmd.MarkFlagRequired("bars")
	return cmd
}

// journalFill persists the placed trade so status can report it later.
func journalFill(app *App, cmd *cobra.Command, outcome trading.Outcome, fill *broker.ExecutionResult) {
	if app.Store == nil {
		return
	}
	trade := &models.Trade{
		ID:          fill.TradeID,
		Strategy:    outcome.Proposal.Strategy,
		Regime:      outcome.Regime,
		Lots:        outcome.Proposal.Lots,
		EntryCredit: fill.NetCredit,
		EntryTime:   fill.FilledAt,
		IsPaper:     true,
	}
	err := utils.Retry(cmd.Context(), utils.DefaultRetryConfig(), func() error {
		return app.Store.SaveTrade(cmd.Context(), trade)
	})
	if err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to journal fill")
	}
}

func printFill(cmd *cobra.Command, output *Output, app *App, fill *broker.ExecutionResult) {
	color.Green("✓ Placed on paper broker: %s", fill.TradeID)
	output.Printf("Filled: %s  Credit: %s  Stop orders: %d\n",
		fill.FilledAt.Format("2006-01-02 15:04:05"),
		utils.FormatRupees(fill.NetCredit), len(fill.StopOrders))
	if margin, err := app.Broker.GetMargin(cmd.Context()); err == nil {
		output.Printf("Margin used: %s  Available: %s\n",
			utils.FormatRupees(margin.UsedMargin), utils.FormatRupees(margin.AvailableCash))
	}
}

func snapshotFromRows(rows []backtest.BarRow) (*models.MarketSnapshot, error) {
	history := make([]float64, 0, len(rows))
	candles := make([]models.Candle, 0, len(rows))
	var last backtest.BarRow
	for i, row := range rows {
		ts, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("bad date %q at row %d: %w", row.Date, i+1, err)
		}
		history = append(history, row.Close)
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
		})
		last = row
	}
	ts, _ := time.Parse("2006-01-02", last.Date)
	return &models.MarketSnapshot{
		Spot:         last.Close,
		IV:           last.IV,
		VIX:          last.VIX,
		PriceHistory: history,
		BarHistory:   candles,
		Timestamp:    ts,
	}, nil
}

// warmMonitor replays prior VIX readings so the final tick has shift
// context instead of an insufficient-history rejection.
func warmMonitor(auth *trading.Authenticator, rows []backtest.BarRow) {
	for _, row := range rows[:len(rows)-1] {
		ts, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			continue
		}
		auth.ObserveVIX(row.VIX, ts)
	}
}

func printOutcome(output *Output, outcome trading.Outcome, snapshot *models.MarketSnapshot) {
	color.Cyan("📋 Evaluation %s", outcome.Timestamp.Format("2006-01-02"))
	if !utils.IsMarketOpen(time.Now()) {
		output.Dim("Market is closed; next session opens %s",
			utils.NextSessionOpen(time.Now()).Format("Mon 2006-01-02 15:04 MST"))
	}
	output.Printf("Spot: %.2f  VIX: %.2f  IV: %.2f%%\n", snapshot.Spot, snapshot.VIX, snapshot.IV*100)
	output.Printf("Regime: %s (%s)\n", outcome.Regime, outcome.Strategy)
	output.Printf("Coherence: %.3f (base %.3f, %d samples)\n",
		outcome.Coherence.Adjusted, outcome.Coherence.Base, outcome.Coherence.Samples)

	if !outcome.Authenticated {
		color.Yellow("✗ Rejected: %s", outcome.Reason)
		return
	}

	color.Green("✓ Trade authenticated (ensemble %.3f)", outcome.EnsembleScore)
	p := outcome.Proposal
	output.Printf("Strategy: %s  Lots: %d  Expiry: %s\n",
		p.Strategy, p.Lots, p.Expiry.Format("2006-01-02"))
	for _, leg := range p.Legs {
		output.Printf("  %-4s %-4s %8.2f @ %.2f\n", leg.Side, leg.Type, leg.Strike, leg.Premium)
	}
	output.Printf("Net credit: %s  Max profit: %s  Max loss: %s\n",
		utils.FormatRupees(p.NetCredit), utils.FormatRupees(p.MaxProfit), utils.FormatRupees(p.MaxLoss))
}

func mustWeekday(name string) time.Weekday {
	day, err := config.ParseWeekday(name)
	if err != nil {
		return time.Thursday
	}
	return day
}
