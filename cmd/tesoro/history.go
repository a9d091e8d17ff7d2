package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castellan/tesoro/internal/cli"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List saved analysis snapshots",
		Long: `History lists every saved snapshot, newest first, with its headline
metrics. Use the snapshot ID with 'show', 'export', or 'report'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summaries, err := store.ListSnapshots(ctx)
			if err != nil {
				return err
			}

			fmt.Print(cli.RenderHistory(summaries))
			return nil
		},
	}
}
