package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castellan/tesoro/internal/cli"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <snapshot-id>",
		Short: "Reopen a saved snapshot",
		Long: `Show reopens a saved snapshot and renders it exactly as computed.
Nothing is recomputed: the stored payload is the single source of truth.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snap, err := store.GetSnapshot(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Print(cli.RenderSnapshot(snap))
			return nil
		},
	}
}
