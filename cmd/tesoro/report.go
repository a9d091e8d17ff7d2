package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <snapshot-id>",
		Short: "Attach interpretive text to a snapshot",
		Long: `Report attaches (or replaces) an interpretive write-up on a saved
snapshot and bumps its revision. The computed payload is never modified:
refining the narrative can never change a number.

The text is read from --file, or from stdin when no file is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}

	cmd.Flags().StringP("file", "f", "", "file containing the report text (default: stdin)")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var text string
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // user-supplied report path
		if err != nil {
			return fmt.Errorf("failed to read report file: %w", err)
		}
		text = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read report from stdin: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("report text is empty")
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.AttachReport(ctx, args[0], text); err != nil {
		return err
	}

	fmt.Printf("Attached report to snapshot %s\n", args[0])
	return nil
}
