package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castellan/tesoro/internal/model"
)

func TestParseBankCSVSpanishHeaders(t *testing.T) {
	input := "Fecha;Concepto;Importe\n" +
		"15/03/2026;Pago cliente;1.234,56\n" +
		"20/03/2026;Alquiler;-800,00\n"

	rows, warnings, err := ParseBankCSV(strings.NewReader(input))

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, rows, 2)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, "1234.56", rows[0].Amount.String())
	assert.Equal(t, "Pago cliente", rows[0].Description)
	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "-800", rows[1].Amount.String())
}

func TestParseBankCSVDebitCreditColumns(t *testing.T) {
	input := "Date,Description,Debit,Credit\n" +
		"2026-03-15,Client payment,,1500.00\n" +
		"2026-03-20,Office rent,800.00,\n"

	rows, warnings, err := ParseBankCSV(strings.NewReader(input))

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, rows, 2)
	assert.Equal(t, "1500", rows[0].Amount.String())
	assert.Equal(t, "-800", rows[1].Amount.String())
}

func TestParseBankCSVSkipsBadRowsWithWarnings(t *testing.T) {
	input := "Fecha,Importe\n" +
		"2026-03-15,100\n" +
		"not-a-date,200\n" +
		"2026-03-17,not-a-number\n" +
		"2026-03-18,300\n"

	rows, warnings, err := ParseBankCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, warnings, 2)
	assert.Equal(t, 3, warnings[0].Row)
	assert.Equal(t, 4, warnings[1].Row)
	assert.Equal(t, model.SourceBank, warnings[0].Source)
}

func TestParseBankCSVMissingMandatoryColumns(t *testing.T) {
	_, _, err := ParseBankCSV(strings.NewReader("Concepto,Importe\nfoo,100\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date column")

	_, _, err = ParseBankCSV(strings.NewReader("Fecha,Concepto\n2026-03-15,foo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount column")
}

func TestParseBankCSVStripsBOM(t *testing.T) {
	input := "\xEF\xBB\xBFDate,Amount\n2026-03-15,100\n"

	rows, _, err := ParseBankCSV(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  rune
	}{
		{name: "comma", input: "date,amount,description\n", want: ','},
		{name: "semicolon", input: "fecha;importe;concepto\n", want: ';'},
		{name: "tab", input: "date\tamount\tdescription\n", want: '\t'},
		{name: "pipe", input: "date|amount|description\n", want: '|'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectDelimiter([]byte(tt.input)))
		})
	}
}

func TestParseInvoiceCSV(t *testing.T) {
	input := "Factura,Cliente,Fecha emisión,Vencimiento,Importe,Estado\n" +
		"F-001,Acme SA,01/03/2026,15/04/2026,2500.00,pendiente\n" +
		"F-002,Beta SL,05/03/2026,20/04/2026,1200.00,pagada\n" +
		"F-003,Gamma SL,10/03/2026,,900.00,vencida\n"

	rows, warnings, err := ParseInvoiceCSV(strings.NewReader(input), model.SourceInvoiceSale)

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, rows, 3)

	assert.Equal(t, "F-001", rows[0].InvoiceID)
	assert.Equal(t, "Acme SA", rows[0].Counterparty)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), rows[0].IssueDate)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), rows[0].DueDate)
	assert.Equal(t, StatusUnpaid, rows[0].Status)
	assert.Equal(t, StatusPaid, rows[1].Status)
	assert.Equal(t, StatusOverdue, rows[2].Status)
	assert.True(t, rows[2].DueDate.IsZero(), "missing due date stays zero")
}

func TestParseInvoiceCSVDefaults(t *testing.T) {
	input := "Amount,Due\n500.00,2026-04-01\n"

	rows, warnings, err := ParseInvoiceCSV(strings.NewReader(input), model.SourceInvoiceSale)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "INV-1", rows[0].InvoiceID)
	assert.Equal(t, "(unknown)", rows[0].Counterparty)
	assert.Equal(t, StatusUnpaid, rows[0].Status)

	// Missing status column produces a file-level notice.
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Row)
	assert.Contains(t, warnings[0].Reason, "status")
}

func TestParseInvoiceCSVSkipsNonPositiveAmounts(t *testing.T) {
	input := "Importe,Estado\n-100,pendiente\n0,pendiente\n250,pendiente\n"

	rows, warnings, err := ParseInvoiceCSV(strings.NewReader(input), model.SourceInvoicePurchase)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "250", rows[0].Amount.String())
	assert.Len(t, warnings, 2)
}
