package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/castellan/tesoro/internal/model"
)

// candidateDelimiters are tried when reading a CSV export; statement
// downloads commonly use semicolons or tabs instead of commas.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// readRecords reads a CSV stream into header-keyed records, detecting the
// delimiter from the header line. Headers are returned in file order so
// column resolution is deterministic.
func readRecords(r io.Reader) ([]string, []Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	delim := detectDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = normalizeHeader(h)
	}
	if len(headers) < 2 {
		return nil, nil, fmt.Errorf("only one column detected (%q); check the delimiter", headers[0])
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		records = append(records, rec)
	}

	slog.Debug("read CSV records", "rows", len(records), "columns", len(headers), "delimiter", string(delim))
	return headers, records, nil
}

// detectDelimiter picks the candidate that appears most often in the
// header line.
func detectDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if n := strings.Count(string(header), string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// ParseBankCSV reads a bank-statement CSV and resolves it into canonical
// bank rows. Unresolvable rows are skipped with a warning; missing
// mandatory columns fail the whole file.
func ParseBankCSV(r io.Reader) ([]BankRow, []model.RowWarning, error) {
	headers, records, err := readRecords(r)
	if err != nil {
		return nil, nil, fmt.Errorf("bank statement: %w", err)
	}

	dateCol, ok := resolveColumn(headers, dateSynonyms)
	if !ok {
		return nil, nil, fmt.Errorf("bank statement: no date column found (expected one of %v)", dateSynonyms)
	}
	amountCol, hasAmount := resolveColumn(headers, amountSynonyms, "total")
	debitCol, hasDebit := resolveColumn(headers, debitSynonyms)
	creditCol, hasCredit := resolveColumn(headers, creditSynonyms)
	if !hasAmount && !(hasDebit && hasCredit) {
		return nil, nil, fmt.Errorf("bank statement: no amount column found (expected %v, or %v plus %v)",
			amountSynonyms, debitSynonyms, creditSynonyms)
	}
	descCol, hasDesc := resolveColumn(headers, descriptionSynonyms, "fecha", "date")

	var rows []BankRow
	var warnings []model.RowWarning

	for i, rec := range records {
		rowNum := i + 2 // 1-based, after the header line

		date, err := parseDate(rec[dateCol])
		if err != nil {
			warnings = append(warnings, warningf(model.SourceBank, rowNum, "skipped: %v", err))
			continue
		}

		var amount decimal.Decimal
		if hasAmount {
			amount, err = parseAmount(rec[amountCol])
			if err != nil {
				warnings = append(warnings, warningf(model.SourceBank, rowNum, "skipped: %v", err))
				continue
			}
		} else {
			// Split debit/credit columns merge into one signed amount:
			// credit positive, debit negative.
			debit := decimal.Zero
			credit := decimal.Zero
			if v := strings.TrimSpace(rec[debitCol]); v != "" {
				if debit, err = parseAmount(v); err != nil {
					warnings = append(warnings, warningf(model.SourceBank, rowNum, "skipped: debit: %v", err))
					continue
				}
			}
			if v := strings.TrimSpace(rec[creditCol]); v != "" {
				if credit, err = parseAmount(v); err != nil {
					warnings = append(warnings, warningf(model.SourceBank, rowNum, "skipped: credit: %v", err))
					continue
				}
			}
			amount = credit.Sub(debit.Abs())
		}

		desc := "(no description)"
		if hasDesc {
			if v := strings.TrimSpace(rec[descCol]); v != "" {
				desc = v
			}
		}

		rows = append(rows, BankRow{Date: date, Amount: amount, Description: desc, Row: rowNum})
	}

	slog.Info("parsed bank statement", "rows", len(rows), "skipped", len(records)-len(rows))
	return rows, warnings, nil
}

// ParseInvoiceCSV reads a sales or purchase invoice CSV into canonical
// invoice rows. The source selects which counterparty synonyms apply.
func ParseInvoiceCSV(r io.Reader, source model.EventSource) ([]InvoiceRow, []model.RowWarning, error) {
	label := "sales invoices"
	counterpartySyns := customerSynonyms
	if source == model.SourceInvoicePurchase {
		label = "purchase invoices"
		counterpartySyns = supplierSynonyms
	}

	headers, records, err := readRecords(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", label, err)
	}

	amountCol, hasAmount := resolveColumn(headers, invoiceAmtSynonyms)
	if !hasAmount {
		return nil, nil, fmt.Errorf("%s: no amount column found (expected one of %v)", label, invoiceAmtSynonyms)
	}
	idCol, hasID := resolveColumn(headers, invoiceIDSynonyms)
	cpCol, hasCp := resolveColumn(headers, counterpartySyns)
	dueCol, hasDue := resolveColumn(headers, dueDateSynonyms)
	issueCol, hasIssue := resolveColumn(headers, issueDateSynonyms, "venc", "due")
	statusCol, hasStatus := resolveColumn(headers, statusSynonyms)

	var warnings []model.RowWarning
	if !hasStatus {
		warnings = append(warnings, warningf(source, 1, "no status column found, assuming all invoices unpaid"))
	}

	var rows []InvoiceRow
	for i, rec := range records {
		rowNum := i + 2

		amount, err := parseAmount(rec[amountCol])
		if err != nil {
			warnings = append(warnings, warningf(source, rowNum, "skipped: %v", err))
			continue
		}
		if !amount.IsPositive() {
			warnings = append(warnings, warningf(source, rowNum, "skipped: non-positive invoice amount %s", amount))
			continue
		}

		row := InvoiceRow{Amount: amount, Status: StatusUnpaid, Row: rowNum}

		if hasID {
			row.InvoiceID = strings.TrimSpace(rec[idCol])
		}
		if row.InvoiceID == "" {
			row.InvoiceID = fmt.Sprintf("INV-%d", rowNum-1)
		}
		if hasCp {
			row.Counterparty = strings.TrimSpace(rec[cpCol])
		}
		if row.Counterparty == "" {
			row.Counterparty = "(unknown)"
		}
		if hasIssue {
			if d, err := parseDate(rec[issueCol]); err == nil {
				row.IssueDate = d
			}
		}
		if hasDue {
			if d, err := parseDate(rec[dueCol]); err == nil {
				row.DueDate = d
			}
		}
		if hasStatus {
			row.Status = NormalizeStatus(rec[statusCol])
		}

		rows = append(rows, row)
	}

	slog.Info("parsed invoices", "source", source, "rows", len(rows), "skipped", len(records)-len(rows))
	return rows, warnings, nil
}
