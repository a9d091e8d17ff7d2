// Package ofx parses OFX/QFX bank statements into canonical bank rows
// for the event normalizer.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/castellan/tesoro/internal/ingest"
	"github.com/castellan/tesoro/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseBankRows parses an OFX/QFX statement and returns canonical bank
// rows. Transactions that cannot be converted are skipped with a warning.
func (p *Parser) ParseBankRows(reader io.Reader) ([]ingest.BankRow, []model.RowWarning, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	processedContent := p.preprocessOFX(string(content))

	resp, err := ofxgo.ParseResponse(strings.NewReader(processedContent))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var rows []ingest.BankRow
	var warnings []model.RowWarning
	var stmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			stmts++
			rows, warnings = p.appendStatement(stmt, rows, warnings)
		}
	}

	slog.Info("parsed OFX statement", "transactions", len(rows), "statements", stmts)
	return rows, warnings, nil
}

// appendStatement converts one statement's transactions to bank rows.
func (p *Parser) appendStatement(stmt *ofxgo.StatementResponse, rows []ingest.BankRow, warnings []model.RowWarning) ([]ingest.BankRow, []model.RowWarning) {
	if stmt.BankTranList == nil {
		return rows, warnings
	}

	for i, ofxTx := range stmt.BankTranList.Transactions {
		// OFX amounts are exact rationals; keep them exact.
		amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
		if err != nil {
			warnings = append(warnings, model.RowWarning{
				Source: model.SourceBank,
				Row:    i + 1,
				Reason: fmt.Sprintf("skipped: unreadable amount %q", ofxTx.TrnAmt.String()),
			})
			continue
		}

		posted := ofxTx.DtPosted.Time
		date := time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC)

		desc := strings.TrimSpace(string(ofxTx.Name))
		if memo := strings.TrimSpace(string(ofxTx.Memo)); memo != "" && desc == "" {
			desc = memo
		}
		if desc == "" {
			desc = "(no description)"
		}

		rows = append(rows, ingest.BankRow{
			Date:        date,
			Amount:      amount,
			Description: desc,
			Row:         i + 1,
		})
	}

	return rows, warnings
}
