package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// validHorizons are the supported projection lengths, in periods.
var validHorizons = map[int]bool{3: true, 6: true, 9: true, 12: true}

// CreditLine describes an available credit facility for bridge simulation.
type CreditLine struct {
	TotalLimit  decimal.Decimal `json:"total_limit"`
	AlreadyUsed decimal.Decimal `json:"already_used"`
	// AnnualRate is a fraction: 0.06 means 6% per year.
	AnnualRate decimal.Decimal `json:"annual_rate"`
}

// Validate checks the credit line parameters.
func (c *CreditLine) Validate() error {
	if c.TotalLimit.IsNegative() {
		return fmt.Errorf("credit line total limit must not be negative, got %s", c.TotalLimit)
	}
	if c.AlreadyUsed.IsNegative() {
		return fmt.Errorf("credit line already-used amount must not be negative, got %s", c.AlreadyUsed)
	}
	if c.AlreadyUsed.GreaterThan(c.TotalLimit) {
		return fmt.Errorf("credit line already-used %s exceeds total limit %s", c.AlreadyUsed, c.TotalLimit)
	}
	if c.AnnualRate.IsNegative() {
		return fmt.Errorf("credit line annual rate must not be negative, got %s", c.AnnualRate)
	}
	return nil
}

// Config carries every input the pipeline needs. There are no hidden
// defaults: the as-of date is always explicit so runs are reproducible.
type Config struct {
	AsOf            time.Time       `json:"as_of"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	Horizon         int             `json:"horizon"`
	Granularity     Granularity     `json:"granularity"`
	SafetyThreshold decimal.Decimal `json:"safety_threshold"`
	CreditLine      *CreditLine     `json:"credit_line,omitempty"`
	// FixedExpenseMonthly, when positive, is expanded into one recurring
	// outflow event per projection period.
	FixedExpenseMonthly decimal.Decimal `json:"fixed_expense_monthly"`
}

// Validate rejects invalid configuration before any projection begins.
func (c *Config) Validate() error {
	if c.AsOf.IsZero() {
		return fmt.Errorf("as-of date is required")
	}
	if !validHorizons[c.Horizon] {
		return fmt.Errorf("horizon must be 3, 6, 9 or 12 periods, got %d", c.Horizon)
	}
	if err := c.Granularity.Validate(); err != nil {
		return err
	}
	if c.FixedExpenseMonthly.IsNegative() {
		return fmt.Errorf("fixed monthly expense must not be negative, got %s", c.FixedExpenseMonthly)
	}
	if c.CreditLine != nil {
		if err := c.CreditLine.Validate(); err != nil {
			return err
		}
	}
	return nil
}
