// Package logging provides structured logging functionality.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "condor-trader", "logs", "condor.log"),
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	// Console writer
	if cfg.Console {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		writers = append(writers, consoleWriter)
	}

	// File writer with rotation
	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	var writer io.Writer
	if len(writers) == 0 {
		writer = os.Stdout
	} else if len(writers) == 1 {
		writer = writers[0]
	} else {
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	logger := zerolog.New(writer).
		With().
		Timestamp().
		Logger()

	return logger
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// ContextKey is the type for context keys.
type ContextKey string

// LoggerKey is the context key for the logger.
const LoggerKey ContextKey = "logger"

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithRegime adds a regime label to the logger context.
func WithRegime(logger zerolog.Logger, regime string) zerolog.Logger {
	return logger.With().Str("regime", regime).Logger()
}

// LogRejection logs a rejected evaluation tick. Rejections are the
// dominant outcome class, so these stay at debug level.
func LogRejection(logger zerolog.Logger, reason string, regime string, score float64) {
	logger.Debug().
		Str("event", "rejection").
		Str("reason", reason).
		Str("regime", regime).
		Float64("ensemble_score", score).
		Msg("Tick rejected")
}

// LogViolation logs an identity guardrail breach at escalated severity.
func LogViolation(logger zerolog.Logger, violations []string, driftRatio float64) {
	logger.Error().
		Str("event", "identity_drift").
		Strs("violations", violations).
		Float64("drift_ratio", driftRatio).
		Msg("Core identity drift detected")
}

// LogProposal logs an authenticated trade proposal.
func LogProposal(logger zerolog.Logger, strategy string, lots int, maxLoss, maxProfit float64) {
	logger.Info().
		Str("event", "proposal").
		Str("strategy", strategy).
		Int("lots", lots).
		Float64("max_loss", maxLoss).
		Float64("max_profit", maxProfit).
		Msg("Trade authenticated")
}

// LogTrade logs a closed trade.
func LogTrade(logger zerolog.Logger, tradeID string, strategy string, pnl float64) {
	logger.Info().
		Str("event", "trade").
		Str("trade_id", tradeID).
		Str("strategy", strategy).
		Float64("pnl", pnl).
		Msg("Trade closed")
}
