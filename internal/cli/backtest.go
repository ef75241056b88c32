package cli

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"condor-trader/internal/backtest"
	"condor-trader/internal/trading"
	"condor-trader/pkg/utils"
)

func newBacktestCmd(app *App) *cobra.Command {
	var (
		barsFile string
		holdBars int
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay historical bars through the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			// A fresh pipeline per run keeps replay state out of the
			// live components.
			auth, err := trading.NewAuthenticator(app.Config, app.Logger)
			if err != nil {
				return err
			}
			session := trading.NewSession(
				app.Config.Pipeline.RiskFraction,
				mustWeekday(app.Config.Identity.ExpiryWeekday),
				app.Config.Identity.MaxOpenPositions,
			)

			rows, err := backtest.LoadBars(barsFile)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("bar file %s is empty", barsFile)
			}

			runner := backtest.NewRunner(auth, session, app.Config.Trading.Capital, holdBars, app.Logger)
			result, err := runner.Run(rows)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}
			printBacktestResult(output, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&barsFile, "bars", "", "CSV file of daily bars (date,open,high,low,close,vix,iv)")
	cmd.Flags().IntVar(&holdBars, "hold", 5, "bars to hold each position before settling")
	cmd.MarkFlagRequired("bars")
	return cmd
}

func printBacktestResult(output *Output, result *backtest.Result) {
	color.Cyan("📈 Backtest (%d bars)", result.Bars)
	output.Printf("Entries: %d  Wins: %d  Losses: %d\n", result.Proposals, result.Wins, result.Losses)
	output.Printf("Win rate: %s  Max drawdown: %s\n",
		utils.FormatPercent(result.WinRate), utils.FormatPercent(result.MaxDrawdown))
	if result.NetPnL >= 0 {
		color.Green("Net PnL: %s", utils.FormatSigned(result.NetPnL))
	} else {
		color.Red("Net PnL: %s", utils.FormatSigned(result.NetPnL))
	}

	if len(result.RejectCounts) > 0 {
		output.Dim("Rejections:")
		reasons := make([]string, 0, len(result.RejectCounts))
		for reason := range result.RejectCounts {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			output.Printf("  %-26s %d\n", reason, result.RejectCounts[reason])
		}
	}
}
