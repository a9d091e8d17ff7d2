package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/castellan/tesoro/internal/export"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <snapshot-id>",
		Short: "Export a snapshot as text, Markdown, or CSV",
		Long: `Export renders a saved snapshot in the chosen format. The CSV format
exports the projected balance series; text and markdown render the full
analysis. Exports read the stored payload as-is.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", "text", "output format (text, markdown, csv)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "markdown", "csv":
	default:
		return fmt.Errorf("invalid format %q (expected text, markdown, or csv)", format)
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snap, err := store.GetSnapshot(ctx, args[0])
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path) //nolint:gosec // user-supplied output path
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	switch format {
	case "text":
		_, err = io.WriteString(out, export.RenderText(&snap.Payload))
	case "markdown":
		_, err = io.WriteString(out, export.RenderMarkdown(&snap.Payload))
	case "csv":
		err = export.WriteBucketsCSV(out, &snap.Payload)
	}
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	return nil
}
