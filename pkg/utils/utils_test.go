package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "₹500.00", FormatRupees(500))
	assert.Equal(t, "₹1,500.50", FormatRupees(1500.5))
	assert.Equal(t, "₹1,00,000.00", FormatRupees(100000))
	assert.Equal(t, "₹1,23,45,678.90", FormatRupees(12345678.90))
	assert.Equal(t, "-₹2,500.00", FormatRupees(-2500))
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+₹3,900.00", FormatSigned(3900))
	assert.Equal(t, "-₹1,200.00", FormatSigned(-1200))
	assert.Equal(t, "+₹0.00", FormatSigned(0))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "62.5%", FormatPercent(0.625))
	assert.Equal(t, "0.0%", FormatPercent(0))
}

func TestIsMarketOpen(t *testing.T) {
	// Friday 2026-01-09 11:00 IST: open.
	open := time.Date(2026, 1, 9, 11, 0, 0, 0, IndiaLocation)
	assert.True(t, IsMarketOpen(open))

	// Before the open and after the close.
	assert.False(t, IsMarketOpen(time.Date(2026, 1, 9, 9, 0, 0, 0, IndiaLocation)))
	assert.False(t, IsMarketOpen(time.Date(2026, 1, 9, 15, 30, 0, 0, IndiaLocation)))

	// Weekend.
	assert.False(t, IsMarketOpen(time.Date(2026, 1, 10, 11, 0, 0, 0, IndiaLocation)))
	assert.False(t, IsMarketOpen(time.Date(2026, 1, 11, 11, 0, 0, 0, IndiaLocation)))
}

func TestNextSessionOpen(t *testing.T) {
	// Friday evening rolls to Monday morning.
	friday := time.Date(2026, 1, 9, 16, 0, 0, 0, IndiaLocation)
	next := NextSessionOpen(friday)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 15, next.Minute())

	// Early morning same day.
	morning := time.Date(2026, 1, 9, 8, 0, 0, 0, IndiaLocation)
	assert.Equal(t, 9, NextSessionOpen(morning).Day())
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}

	attempts := 0
	err := Retry(context.Background(), cfg, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}

	sentinel := errors.New("permanent")
	err := Retry(context.Background(), cfg, func() error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultRetryConfig()
	err := Retry(ctx, cfg, func() error { return errors.New("keep failing") })
	assert.ErrorIs(t, err, context.Canceled)
}
