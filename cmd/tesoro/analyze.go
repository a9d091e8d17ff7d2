package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/castellan/tesoro/internal/cli"
	"github.com/castellan/tesoro/internal/engine"
	"github.com/castellan/tesoro/internal/ingest"
	"github.com/castellan/tesoro/internal/model"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a cash-flow analysis and save it as a snapshot",
		Long: `Analyze projects the cash balance from a bank statement and optional
invoice lists, derives survival KPIs, simulates the credit line, generates
collection-timing scenarios, and raises evidence-backed alerts.

The bank statement may be CSV, OFX, or QFX; invoice files are CSV. Column
headers are matched against Spanish and English synonyms, so exports from
common accounting tools work without renaming columns.`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringP("bank", "b", "", "bank statement file (CSV, OFX, or QFX; required)")
	cmd.Flags().String("sales", "", "sales invoices CSV (expected collections)")
	cmd.Flags().String("purchases", "", "purchase invoices CSV (expected payments)")

	cmd.Flags().String("starting-balance", "0", "cash balance at the as-of date")
	cmd.Flags().IntP("horizon", "n", 6, "projection length in periods (3, 6, 9, or 12)")
	cmd.Flags().StringP("granularity", "g", "monthly", "period granularity (daily, weekly, monthly)")
	cmd.Flags().String("safety-threshold", "0", "balance level considered safe")
	cmd.Flags().String("fixed-expense", "0", "recurring fixed expenses per month")
	cmd.Flags().String("as-of", "", "analysis anchor date (format: 2006-01-02, default: today)")

	cmd.Flags().String("credit-limit", "", "credit line total limit (enables bridge simulation)")
	cmd.Flags().String("credit-used", "0", "credit line amount already drawn")
	cmd.Flags().String("credit-rate", "0", "credit line annual interest rate as a fraction (0.06 = 6%)")

	cmd.Flags().Bool("no-save", false, "print the analysis without saving a snapshot")

	_ = cmd.MarkFlagRequired("bank")
	_ = viper.BindPFlag("analyze.no_save", cmd.Flags().Lookup("no-save"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	in, err := buildInputs(cmd)
	if err != nil {
		return err
	}

	payload, err := engine.New().Analyze(cfg, in)
	if err != nil {
		return err
	}

	fmt.Print(cli.RenderPayload(payload))

	if viper.GetBool("analyze.no_save") {
		slog.Info("snapshot not saved (--no-save)")
		return nil
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snap, err := store.SaveSnapshot(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	fmt.Printf("\nSaved snapshot %s\n", snap.ID)
	return nil
}

// buildConfig assembles the analysis configuration from flags.
func buildConfig(cmd *cobra.Command) (model.Config, error) {
	var cfg model.Config
	var err error

	asOfStr, _ := cmd.Flags().GetString("as-of")
	if cfg.AsOf, err = parseAsOf(asOfStr); err != nil {
		return cfg, err
	}

	balance, _ := cmd.Flags().GetString("starting-balance")
	if cfg.StartingBalance, err = parseMoney("starting-balance", balance); err != nil {
		return cfg, err
	}
	threshold, _ := cmd.Flags().GetString("safety-threshold")
	if cfg.SafetyThreshold, err = parseMoney("safety-threshold", threshold); err != nil {
		return cfg, err
	}
	fixed, _ := cmd.Flags().GetString("fixed-expense")
	if cfg.FixedExpenseMonthly, err = parseMoney("fixed-expense", fixed); err != nil {
		return cfg, err
	}

	cfg.Horizon, _ = cmd.Flags().GetInt("horizon")
	gran, _ := cmd.Flags().GetString("granularity")
	cfg.Granularity = model.Granularity(gran)

	if limit, _ := cmd.Flags().GetString("credit-limit"); limit != "" {
		line := &model.CreditLine{}
		if line.TotalLimit, err = parseMoney("credit-limit", limit); err != nil {
			return cfg, err
		}
		used, _ := cmd.Flags().GetString("credit-used")
		if line.AlreadyUsed, err = parseMoney("credit-used", used); err != nil {
			return cfg, err
		}
		rate, _ := cmd.Flags().GetString("credit-rate")
		if line.AnnualRate, err = parseMoney("credit-rate", rate); err != nil {
			return cfg, err
		}
		cfg.CreditLine = line
	}

	return cfg, nil
}

// buildInputs loads and parses every supplied source file.
func buildInputs(cmd *cobra.Command) (ingest.Inputs, error) {
	var in ingest.Inputs

	bankPath, _ := cmd.Flags().GetString("bank")
	bank, warnings, err := loadBankRows(bankPath)
	if err != nil {
		return in, err
	}
	in.Bank = bank
	in.Warnings = append(in.Warnings, warnings...)
	in.TotalRows += len(bank) + len(warnings)
	in.SkippedRows += len(warnings)

	if path, _ := cmd.Flags().GetString("sales"); path != "" {
		rows, warns, err := loadInvoiceRows(path, model.SourceInvoiceSale)
		if err != nil {
			return in, err
		}
		in.Sales = rows
		in.Warnings = append(in.Warnings, warns...)
		in.TotalRows += len(rows) + countRowWarnings(warns)
		in.SkippedRows += countRowWarnings(warns)
	}

	if path, _ := cmd.Flags().GetString("purchases"); path != "" {
		rows, warns, err := loadInvoiceRows(path, model.SourceInvoicePurchase)
		if err != nil {
			return in, err
		}
		in.Purchases = rows
		in.Warnings = append(in.Warnings, warns...)
		in.TotalRows += len(rows) + countRowWarnings(warns)
		in.SkippedRows += countRowWarnings(warns)
	}

	return in, nil
}

// countRowWarnings counts warnings that correspond to a dropped data row.
// File-level notices (row 1, the header) are not parse failures.
func countRowWarnings(warnings []model.RowWarning) int {
	n := 0
	for _, w := range warnings {
		if w.Row > 1 {
			n++
		}
	}
	return n
}
