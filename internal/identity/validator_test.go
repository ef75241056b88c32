package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func declaredIdentity() CoreIdentity {
	return CoreIdentity{
		MaxRiskFraction:   0.02,
		ExpiryWeekday:     time.Thursday,
		MaxOpenPositions:  3,
		StopLossMandatory: true,
	}
}

func conformingBehavior() ObservedBehavior {
	return ObservedBehavior{
		RiskFraction:      0.02,
		ExpiryWeekday:     time.Thursday,
		MaxOpenPositions:  3,
		StopLossMandatory: true,
	}
}

func TestValidateStable(t *testing.T) {
	validator := NewValidator(declaredIdentity(), 0.2)

	report := validator.Validate(conformingBehavior())
	assert.Equal(t, StatusStable, report.Status)
	assert.False(t, report.Drifted())
	assert.Empty(t, report.Violations)
	assert.Zero(t, report.DriftRatio)
}

func TestSingleViolationDrifts(t *testing.T) {
	validator := NewValidator(declaredIdentity(), 0.2)

	observed := conformingBehavior()
	observed.RiskFraction = 0.05

	report := validator.Validate(observed)
	assert.True(t, report.Drifted(), "one of four fields is 0.25 > 0.2 threshold")
	assert.Len(t, report.Violations, 1)
	assert.InDelta(t, 0.25, report.DriftRatio, 1e-9)
}

func TestExactEqualityNoToleranceBand(t *testing.T) {
	validator := NewValidator(declaredIdentity(), 0.2)

	observed := conformingBehavior()
	observed.RiskFraction = 0.0200001

	report := validator.Validate(observed)
	assert.True(t, report.Drifted(), "a tiny risk fraction deviation is still a violation")
}

func TestEveryCoreFieldChecked(t *testing.T) {
	validator := NewValidator(declaredIdentity(), 0.2)

	observed := ObservedBehavior{
		RiskFraction:      0.03,
		ExpiryWeekday:     time.Friday,
		MaxOpenPositions:  5,
		StopLossMandatory: false,
	}

	report := validator.Validate(observed)
	assert.Len(t, report.Violations, 4)
	assert.InDelta(t, 1.0, report.DriftRatio, 1e-9)
	assert.True(t, report.Drifted())
}

func TestHighThresholdToleratesSingleViolation(t *testing.T) {
	validator := NewValidator(declaredIdentity(), 0.5)

	observed := conformingBehavior()
	observed.MaxOpenPositions = 4

	report := validator.Validate(observed)
	assert.Equal(t, StatusStable, report.Status, "0.25 ratio is under a 0.5 threshold")
	assert.Len(t, report.Violations, 1, "the violation is still reported")
}
