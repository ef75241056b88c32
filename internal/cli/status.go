package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"condor-trader/pkg/utils"
)

func newStatusCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent decisions and trades from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("journal store not available")
			}

			to := time.Now()
			from := to.AddDate(0, 0, -days)

			decisions, err := app.Store.GetDecisions(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			trades, err := app.Store.GetTrades(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"decisions": decisions,
					"trades":    trades,
				})
			}

			color.Cyan("🗒  Journal (last %d days)", days)
			authenticated := 0
			for _, d := range decisions {
				if d.Authenticated {
					authenticated++
				}
			}
			output.Printf("Decisions: %d (%d authenticated)\n", len(decisions), authenticated)
			for _, d := range decisions {
				mark := color.GreenString("✓")
				detail := fmt.Sprintf("ensemble %.2f", d.EnsembleScore)
				if !d.Authenticated {
					mark = color.YellowString("✗")
					detail = d.Reason
				}
				output.Printf("  %s %s  %-13s %s\n",
					mark, d.Timestamp.Format("2006-01-02"), d.Regime, detail)
			}

			if len(trades) > 0 {
				output.Printf("\nTrades: %d\n", len(trades))
				var net float64
				for _, t := range trades {
					net += t.PnL
					output.Printf("  %s  %-13s lots=%d pnl=%+.2f\n",
						t.ID, t.Strategy, t.Lots, t.PnL)
				}
				if net >= 0 {
					color.Green("Net: %s", utils.FormatSigned(net))
				} else {
					color.Red("Net: %s", utils.FormatSigned(net))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "lookback window in days")
	return cmd
}
