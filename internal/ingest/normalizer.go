package ingest

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/castellan/tesoro/internal/common"
	"github.com/castellan/tesoro/internal/model"
)

// invoiceDueFallbackDays is added to the issue date when an open invoice
// has no due date.
const invoiceDueFallbackDays = 30

// Inputs carries the parsed rows from every source, plus the warnings and
// row counts the parsers accumulated. Sales and purchase rows are
// optional; the bank statement is the one mandatory source.
type Inputs struct {
	Bank      []BankRow
	Sales     []InvoiceRow
	Purchases []InvoiceRow

	// Warnings collected during parsing; the normalizer appends its own.
	Warnings []model.RowWarning
	// TotalRows is every row seen across all sources, including skipped
	// ones, used for the parse-failure rate.
	TotalRows int
	// SkippedRows is how many of those rows the parsers dropped.
	SkippedRows int
}

// Result is the normalizer's output: the unified chronological event
// stream plus the row statistics the quality evaluator needs.
type Result struct {
	Events   []model.CashEvent
	Warnings []model.RowWarning

	TotalRows    int
	SkippedRows  int
	SalesRows    int
	PurchaseRows int
}

// Normalizer converts heterogeneous parsed rows into signed cash events.
type Normalizer struct{}

// NewNormalizer creates a normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Build produces the unified cash-event list. Row-level problems are
// recovered locally (row dropped, warning recorded); the only fatal
// condition is zero usable bank transactions.
func (n *Normalizer) Build(cfg model.Config, in Inputs) (*Result, error) {
	res := &Result{
		Warnings:     append([]model.RowWarning(nil), in.Warnings...),
		TotalRows:    in.TotalRows,
		SkippedRows:  in.SkippedRows,
		SalesRows:    len(in.Sales),
		PurchaseRows: len(in.Purchases),
	}

	for _, row := range in.Bank {
		res.Events = append(res.Events, model.CashEvent{
			Date:        row.Date,
			Amount:      row.Amount,
			Category:    model.CategoryForAmount(row.Amount),
			Source:      model.SourceBank,
			Description: row.Description,
			OriginRow:   row.Row,
			IsForecast:  false,
		})
	}

	bankEvents := len(res.Events)
	if bankEvents == 0 {
		return nil, common.NewInsufficientDataError(res.Warnings)
	}

	n.appendInvoiceEvents(cfg, in.Sales, model.SourceInvoiceSale, res)
	n.appendInvoiceEvents(cfg, in.Purchases, model.SourceInvoicePurchase, res)
	n.appendFixedExpenses(cfg, res)

	model.SortEvents(res.Events)

	slog.Info("normalized cash events",
		"total", len(res.Events),
		"bank", bankEvents,
		"sales", res.SalesRows,
		"purchases", res.PurchaseRows,
		"warnings", len(res.Warnings))

	return res, nil
}

// appendInvoiceEvents turns open, future-dated invoices into forecast
// events. Paid invoices and invoices already due are excluded: their cash
// movement is (or should be) in the bank history already.
func (n *Normalizer) appendInvoiceEvents(cfg model.Config, rows []InvoiceRow, source model.EventSource, res *Result) {
	for _, row := range rows {
		if !row.Status.IsOpen() {
			continue
		}

		date := row.DueDate
		if date.IsZero() {
			if row.IssueDate.IsZero() {
				res.Warnings = append(res.Warnings,
					warningf(source, row.Row, "skipped: invoice %s has neither due date nor issue date", row.InvoiceID))
				res.SkippedRows++
				continue
			}
			date = row.IssueDate.AddDate(0, 0, invoiceDueFallbackDays)
		}

		if !date.After(cfg.AsOf) {
			// Past-due open invoices are excluded rather than forecast;
			// counting them again would double what the statement shows.
			continue
		}

		amount := row.Amount.Abs()
		category := model.CategoryInflow
		description := fmt.Sprintf("Expected collection: %s", row.Counterparty)
		if source == model.SourceInvoicePurchase {
			amount = amount.Neg()
			category = model.CategoryOutflow
			description = fmt.Sprintf("Expected payment: %s", row.Counterparty)
		}

		res.Events = append(res.Events, model.CashEvent{
			Date:         date,
			Amount:       amount,
			Category:     category,
			Source:       source,
			Description:  description,
			Counterparty: row.Counterparty,
			InvoiceID:    row.InvoiceID,
			OriginRow:    row.Row,
			IsForecast:   true,
		})
	}
}

// appendFixedExpenses expands the fixed monthly expense into one outflow
// per projection period. The monthly amount is converted to a per-period
// amount so the projected total is the same at every granularity.
func (n *Normalizer) appendFixedExpenses(cfg model.Config, res *Result) {
	if !cfg.FixedExpenseMonthly.IsPositive() {
		return
	}

	perPeriod := cfg.FixedExpenseMonthly
	switch cfg.Granularity {
	case model.GranularityWeekly:
		perPeriod = cfg.FixedExpenseMonthly.Mul(decimal.NewFromInt(12)).Div(decimal.NewFromInt(52)).Round(2)
	case model.GranularityDaily:
		perPeriod = cfg.FixedExpenseMonthly.Mul(decimal.NewFromInt(12)).Div(decimal.NewFromInt(365)).Round(2)
	}

	for _, start := range model.PeriodStarts(cfg.AsOf, cfg.Granularity, cfg.Horizon) {
		res.Events = append(res.Events, model.CashEvent{
			Date:        start,
			Amount:      perPeriod.Neg(),
			Category:    model.CategoryOutflow,
			Source:      model.SourceFixedExpense,
			Description: "Recurring fixed expenses",
			IsForecast:  false,
		})
	}
}
