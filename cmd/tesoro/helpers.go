package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/castellan/tesoro/internal/common"
	"github.com/castellan/tesoro/internal/ingest"
	"github.com/castellan/tesoro/internal/model"
	"github.com/castellan/tesoro/internal/ofx"
	"github.com/castellan/tesoro/internal/storage"
)

// openStore opens the snapshot database and applies pending migrations.
func openStore(ctx context.Context) (*storage.SnapshotStore, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".config", "tesoro", "tesoro.db")
	}

	store, err := storage.NewSnapshotStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	common.LogInfo("opened snapshot database", common.Fields{"path": dbPath})
	return store, nil
}

// parseMoney parses a CLI money flag into an exact decimal.
func parseMoney(flag, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s value %q: %w", flag, value, err)
	}
	return d, nil
}

// loadBankRows reads a bank statement, dispatching on file extension:
// .ofx and .qfx go through the OFX parser, everything else is CSV.
func loadBankRows(path string) ([]ingest.BankRow, []model.RowWarning, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied statement path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open bank statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return ofx.NewParser().ParseBankRows(f)
	default:
		return ingest.ParseBankCSV(f)
	}
}

// loadInvoiceRows reads a sales or purchase invoice CSV.
func loadInvoiceRows(path string, source model.EventSource) ([]ingest.InvoiceRow, []model.RowWarning, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied invoice path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open invoice file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ingest.ParseInvoiceCSV(f, source)
}

// parseAsOf parses the --as-of flag, defaulting to today's UTC date. The
// resolved date is always explicit in the stored config, so reopening a
// snapshot shows exactly which day the projection was anchored on.
func parseAsOf(value string) (time.Time, error) {
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	asOf, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of value %q (expected 2006-01-02): %w", value, err)
	}
	return asOf.UTC(), nil
}
