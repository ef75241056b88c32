// Package identity validates observed trading behavior against the
// declared core invariants. Core fields are hard invariants compared by
// exact equality; regime-adaptive tactics are exempt.
package identity

import (
	"fmt"
	"time"
)

// Status represents the identity check outcome.
type Status string

const (
	StatusStable  Status = "STABLE"
	StatusDrifted Status = "DRIFTED"
)

// CoreIdentity is the fixed set of invariants declared at startup.
// Immutable for the process lifetime; any observed deviation is a hard
// violation, never silently tolerated.
type CoreIdentity struct {
	MaxRiskFraction   float64
	ExpiryWeekday     time.Weekday
	MaxOpenPositions  int
	StopLossMandatory bool
}

// ObservedBehavior is the same field set measured from recent behavior:
// the parameters the system is actually operating with.
type ObservedBehavior struct {
	RiskFraction      float64
	ExpiryWeekday     time.Weekday
	MaxOpenPositions  int
	StopLossMandatory bool
}

// Report is the result of one identity validation.
type Report struct {
	Status     Status
	Violations []string
	DriftRatio float64
}

// Drifted reports whether the identity check is fatal for the tick.
func (r Report) Drifted() bool {
	return r.Status == StatusDrifted
}

// Validator checks observed behavior against a core identity.
type Validator struct {
	identity       CoreIdentity
	driftThreshold float64
}

// NewValidator creates a validator for the given identity. A drift ratio
// above threshold is fatal.
func NewValidator(identity CoreIdentity, driftThreshold float64) *Validator {
	return &Validator{
		identity:       identity,
		driftThreshold: driftThreshold,
	}
}

// Identity returns the declared core identity.
func (v *Validator) Identity() CoreIdentity {
	return v.identity
}

// Validate compares each core field against observed behavior. There is
// no tolerance band: these are hard invariants.
func (v *Validator) Validate(observed ObservedBehavior) Report {
	var violations []string
	const totalCoreFields = 4

	if observed.RiskFraction != v.identity.MaxRiskFraction {
		violations = append(violations, fmt.Sprintf(
			"risk fraction %.4f != declared %.4f", observed.RiskFraction, v.identity.MaxRiskFraction))
	}
	if observed.ExpiryWeekday != v.identity.ExpiryWeekday {
		violations = append(violations, fmt.Sprintf(
			"expiry weekday %s != declared %s", observed.ExpiryWeekday, v.identity.ExpiryWeekday))
	}
	if observed.MaxOpenPositions != v.identity.MaxOpenPositions {
		violations = append(violations, fmt.Sprintf(
			"max open positions %d != declared %d", observed.MaxOpenPositions, v.identity.MaxOpenPositions))
	}
	if observed.StopLossMandatory != v.identity.StopLossMandatory {
		violations = append(violations, fmt.Sprintf(
			"stop-loss mandatory %t != declared %t", observed.StopLossMandatory, v.identity.StopLossMandatory))
	}

	ratio := float64(len(violations)) / float64(totalCoreFields)
	status := StatusStable
	if ratio > v.driftThreshold {
		status = StatusDrifted
	}

	return Report{
		Status:     status,
		Violations: violations,
		DriftRatio: ratio,
	}
}
