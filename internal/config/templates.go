package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Condor Trader Configuration

[trading]
# Trading mode: "live" or "paper"
mode = "paper"
# Underlying index symbol
symbol = "NIFTY"
# Account capital in INR
capital = 500000.0
# Contract lot size
lot_size = 75
# Annualized risk-free rate for option pricing
risk_free_rate = 0.065

[pipeline]
# Fixed fraction of capital risked per trade
risk_fraction = 0.02
# Depth of the rolling trade-history window
memory_depth = 50
# Short moving-average slope threshold for trend detection
slope_threshold = 0.05
# VIX below this is considered calm
vix_calm_threshold = 18.0
# VIX at or above this is considered volatile
vix_high_threshold = 22.0
# Minimum adjusted coherence score to pass
coherence_pass = 0.60
# Minimum weighted ensemble score to authenticate
ensemble_pass = 0.80
# Current range / ATR must be below this to allow entry
atr_contraction = 0.7
# ATR lookback period
atr_period = 14
# One-tick VIX jump that triggers a fear spike veto
fear_spike_delta = 1.5
# Reference VIX for position-size scaling
base_vix = 18.0
# Position-size multiplier bounds
size_multiplier_min = 0.5
size_multiplier_max = 1.5
# Identity drift ratio above this is fatal for the tick
drift_threshold = 0.2

[identity]
# Hard invariants. These must never deviate in observed behavior.
max_risk_fraction = 0.02
expiry_weekday = "Thursday"
max_open_positions = 2
stop_loss_mandatory = true

[condor]
# Strike grid step in points
strike_step = 50.0
# Wing width in points
wing_width = 200.0
# Target OTM distance for short strikes in points
target_distance = 300.0
# Allowed OTM distance band for short strikes
min_otm_distance = 200.0
max_otm_distance = 500.0
# Minimum acceptable net credit per condor in INR
min_credit = 2000.0

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "2006-01-02"
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if _, err := os.Stat(path); err == nil {
		return nil // Already exists
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing template config: %w", err)
	}

	fmt.Printf("Created template configuration at %s\n", path)
	return nil
}
