package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/castellan/tesoro/internal/model"
)

// WriteBucketsCSV writes the base bucket series as a tabular export.
func WriteBucketsCSV(w io.Writer, p *model.Payload) error {
	cw := csv.NewWriter(w)

	header := []string{"period", "period_start", "period_end", "inflows", "outflows", "net", "balance_end"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range p.Base {
		b := &p.Base[i]
		record := []string{
			strconv.Itoa(i),
			b.PeriodStart.Format("2006-01-02"),
			b.PeriodEnd.Format("2006-01-02"),
			b.InflowTotal.String(),
			b.OutflowTotal.String(),
			b.Net.String(),
			b.BalanceEnd.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
