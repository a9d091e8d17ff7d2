// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"

	"github.com/castellan/tesoro/internal/model"
)

// Common application errors.
var (
	// ErrInsufficientData means no usable historical events survived
	// ingestion. It is the only mandatory-source fatal condition.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidConfig means the analysis configuration was rejected
	// before projection began.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSnapshotNotFound means the requested snapshot does not exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// InsufficientDataError carries the accumulated row warnings alongside the
// fatal condition so the cause is diagnosable without re-running.
type InsufficientDataError struct {
	Warnings []model.RowWarning
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: zero usable bank transactions (%d row warnings)", len(e.Warnings))
}

// Unwrap lets errors.Is match ErrInsufficientData.
func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// NewInsufficientDataError builds the fatal no-usable-rows error.
func NewInsufficientDataError(warnings []model.RowWarning) error {
	return &InsufficientDataError{Warnings: warnings}
}

// ConfigurationError reports an invalid analysis parameter.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigurationError builds a fatal configuration error.
func NewConfigurationError(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason}
}
