package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"condor-trader/internal/broker"
	"condor-trader/internal/config"
	"condor-trader/internal/logging"
	"condor-trader/internal/store"
	"condor-trader/internal/trading"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-01-15"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Broker broker.Broker
	Store  store.Store
	Auth   *trading.Authenticator
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	auth, err := trading.NewAuthenticator(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build pipeline")
	} else {
		app.Auth = auth
	}

	if cfg.IsPaperMode() {
		app.Broker = broker.NewPaperBroker(cfg.Trading.Capital)
		logger.Debug().Msg("Paper broker initialized")
	}

	dbPath := config.DefaultConfigDir() + "/condor.db"
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, journaling disabled")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "condor",
		Short: "Rule-based weekly options decision pipeline",
		Long: `Condor is a rule-based decision pipeline for weekly NIFTY option
structures. It classifies the market regime, scores recent performance
coherence, watches for volatility shifts, and only emits a trade when
every gate in the chain agrees.

Use 'condor help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/condor-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newEvaluateCmd(app))
	rootCmd.AddCommand(newBacktestCmd(app))
	rootCmd.AddCommand(newStatusCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Condor v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Info("Mode: %s", app.Config.Trading.Mode)
			output.Printf("Symbol: %s\n", app.Config.Trading.Symbol)
			output.Printf("Capital: %.2f\n", app.Config.Trading.Capital)
			output.Printf("Lot size: %d\n", app.Config.Trading.LotSize)
			output.Printf("Risk fraction: %.3f\n", app.Config.Pipeline.RiskFraction)
			output.Printf("Memory depth: %d trades\n", app.Config.Pipeline.MemoryDepth)
			output.Printf("Coherence pass: %.2f\n", app.Config.Pipeline.CoherencePass)
			output.Printf("Ensemble pass: %.2f\n", app.Config.Pipeline.EnsemblePass)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			output.Printf("%s\n", config.DefaultConfigDir())
		},
	})

	return cmd
}
