// Package errors provides custom error types for domain-specific errors.
//
// Ordinary "don't trade" outcomes are values, not errors: the pipeline
// returns structured rejections with reason codes for those. The errors
// here cover the truly exceptional conditions only (malformed snapshots,
// broker failures, persistence failures).
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrMalformedSnapshot = errors.New("malformed market snapshot")
	ErrInsufficientData  = errors.New("insufficient data for calculation")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrMarketClosed      = errors.New("market is closed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOrderRejected     = errors.New("order rejected")
	ErrDataNotFound      = errors.New("data not found")
	ErrDatabaseError     = errors.New("database error")
)

// SnapshotError represents a malformed market snapshot. It is fatal for
// the tick that produced it and must never be coerced into an ordinary
// rejection.
type SnapshotError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("malformed snapshot: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *SnapshotError) Unwrap() error {
	return ErrMalformedSnapshot
}

// NewSnapshotError creates a new SnapshotError.
func NewSnapshotError(field string, value interface{}, message string) *SnapshotError {
	return &SnapshotError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// BrokerError represents an error from the broker collaborator.
type BrokerError struct {
	Code    string
	Message string
	Err     error
}

func (e *BrokerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("broker error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("broker error [%s]: %s", e.Code, e.Message)
}

func (e *BrokerError) Unwrap() error {
	return e.Err
}

// NewBrokerError creates a new BrokerError.
func NewBrokerError(code, message string, err error) *BrokerError {
	return &BrokerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// RiskError represents a hard guardrail breach that requires operator
// attention, as opposed to a tactical rejection.
type RiskError struct {
	Rule    string
	Current float64
	Limit   float64
	Message string
}

func (e *RiskError) Error() string {
	return fmt.Sprintf("risk violation [%s]: %s (current: %.2f, limit: %.2f)", e.Rule, e.Message, e.Current, e.Limit)
}

// NewRiskError creates a new RiskError.
func NewRiskError(rule string, current, limit float64, message string) *RiskError {
	return &RiskError{
		Rule:    rule,
		Current: current,
		Limit:   limit,
		Message: message,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s]: %s: %v", e.DataType, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s]: %s", e.DataType, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
