// Package ingest converts raw bank-statement and invoice rows into the
// unified cash-event stream the projection pipeline consumes.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/castellan/tesoro/internal/model"
)

// InvoiceStatus is the normalized settlement state of an invoice row.
type InvoiceStatus string

const (
	// StatusPaid means the invoice is settled and already reflected in
	// the bank history.
	StatusPaid InvoiceStatus = "paid"
	// StatusUnpaid means the invoice is open.
	StatusUnpaid InvoiceStatus = "unpaid"
	// StatusOverdue means the invoice is open and past due.
	StatusOverdue InvoiceStatus = "overdue"
	// StatusUnknown means the source did not say; treated as open.
	StatusUnknown InvoiceStatus = "unknown"
)

// BankRow is one settled statement transaction with canonical fields.
type BankRow struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Row         int
}

// InvoiceRow is one sales or purchase invoice with canonical fields.
// A zero DueDate or IssueDate means the source had no such column.
type InvoiceRow struct {
	InvoiceID    string
	Counterparty string
	IssueDate    time.Time
	DueDate      time.Time
	Amount       decimal.Decimal
	Status       InvoiceStatus
	Row          int
}

// Record is one raw CSV row keyed by its normalized header names.
type Record map[string]string

// Column synonym tables. Headers are matched case-insensitively by
// substring, mirroring the loose naming real statement exports use.
var (
	dateSynonyms        = []string{"fecha", "date"}
	amountSynonyms      = []string{"importe", "amount", "monto"}
	debitSynonyms       = []string{"débito", "debito", "debit", "cargo"}
	creditSynonyms      = []string{"crédito", "credito", "credit", "abono", "ingreso"}
	descriptionSynonyms = []string{"concepto", "description", "descripción", "descripcion", "detalle"}

	invoiceIDSynonyms  = []string{"id", "número", "numero", "number", "factura"}
	customerSynonyms   = []string{"cliente", "customer", "client"}
	supplierSynonyms   = []string{"proveedor", "supplier", "vendor"}
	issueDateSynonyms  = []string{"emisión", "emision", "issue", "fecha"}
	dueDateSynonyms    = []string{"vencimiento", "venc", "due"}
	invoiceAmtSynonyms = []string{"importe", "amount", "total", "monto"}
	statusSynonyms     = []string{"estado", "status"}
)

// normalizeHeader lowercases and trims a raw column name.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// resolveColumn returns the first header matching any synonym, excluding
// headers that contain any of the exclude terms.
func resolveColumn(headers []string, synonyms []string, exclude ...string) (string, bool) {
	for _, h := range headers {
		if containsAny(h, exclude) {
			continue
		}
		if containsAny(h, synonyms) {
			return h, true
		}
	}
	return "", false
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// dateLayouts are tried in order; day-first forms come before month-first
// since the statement exports this engine targets are day-first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"02.01.2006",
	"2006-01-02 15:04:05",
}

// parseDate parses a cell into a UTC date.
func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseAmount parses a cell into a decimal, tolerating currency symbols,
// thousands separators and comma decimals. Amounts are normalized to two
// decimal places.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	s = strings.NewReplacer("€", "", "$", "", "£", "", " ", "", " ", "").Replace(s)

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		// Comma decimal: dots are thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot > lastComma:
		// Dot decimal: commas are thousands separators.
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unrecognized amount %q", raw)
	}
	return d.Round(2), nil
}

// NormalizeStatus maps loose status spellings onto InvoiceStatus.
func NormalizeStatus(raw string) InvoiceStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case containsAny(s, []string{"pagada", "pagado", "paid", "cobrada"}):
		return StatusPaid
	case containsAny(s, []string{"vencida", "vencido", "overdue", "atrasada"}):
		return StatusOverdue
	case containsAny(s, []string{"pendiente", "unpaid", "impaga"}):
		return StatusUnpaid
	default:
		return StatusUnknown
	}
}

// IsOpen reports whether the invoice still expects a cash movement.
func (s InvoiceStatus) IsOpen() bool {
	return s != StatusPaid
}

// warningf builds a row warning for a source.
func warningf(source model.EventSource, row int, format string, args ...any) model.RowWarning {
	return model.RowWarning{Source: source, Row: row, Reason: fmt.Sprintf(format, args...)}
}
