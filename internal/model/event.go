// Package model defines the core data types shared across the analysis pipeline.
package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// EventCategory indicates the direction of a cash movement.
type EventCategory string

const (
	// CategoryInflow is money coming into the business.
	CategoryInflow EventCategory = "inflow"
	// CategoryOutflow is money leaving the business.
	CategoryOutflow EventCategory = "outflow"
)

// EventSource identifies where a cash event was derived from.
type EventSource string

const (
	// SourceBank is a settled bank-statement transaction.
	SourceBank EventSource = "bank"
	// SourceInvoiceSale is an expected collection from an issued invoice.
	SourceInvoiceSale EventSource = "invoice_sale"
	// SourceInvoicePurchase is an expected payment for a received invoice.
	SourceInvoicePurchase EventSource = "invoice_purchase"
	// SourceFixedExpense is a recurring fixed cost expanded over the horizon.
	SourceFixedExpense EventSource = "fixed_expense"
)

// CashEvent is a single signed cash movement. Events are created by the
// normalizer and treated as immutable by every downstream stage.
type CashEvent struct {
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Category     EventCategory   `json:"category"`
	Source       EventSource     `json:"source"`
	Description  string          `json:"description"`
	Counterparty string          `json:"counterparty,omitempty"`
	InvoiceID    string          `json:"invoice_id,omitempty"`
	OriginRow    int             `json:"origin_row"`
	IsForecast   bool            `json:"is_forecast"`
}

// Validate ensures the event is internally consistent.
func (e *CashEvent) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("event date is required")
	}
	switch e.Category {
	case CategoryInflow:
		if e.Amount.IsNegative() {
			return fmt.Errorf("inflow event has negative amount %s", e.Amount)
		}
	case CategoryOutflow:
		if e.Amount.IsPositive() {
			return fmt.Errorf("outflow event has positive amount %s", e.Amount)
		}
	default:
		return fmt.Errorf("unknown event category %q", e.Category)
	}
	switch e.Source {
	case SourceBank, SourceInvoiceSale, SourceInvoicePurchase, SourceFixedExpense:
	default:
		return fmt.Errorf("unknown event source %q", e.Source)
	}
	return nil
}

// CategoryForAmount derives the direction from a signed amount.
func CategoryForAmount(amount decimal.Decimal) EventCategory {
	if amount.IsNegative() {
		return CategoryOutflow
	}
	return CategoryInflow
}

// SortEvents orders events chronologically. The sort is stable so date
// ties keep their normalizer order and repeated runs see identical input.
func SortEvents(events []CashEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
}
