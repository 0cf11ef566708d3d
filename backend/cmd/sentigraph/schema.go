package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sentigraph/backend/internal/graph"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Verify the graph store and create the uniqueness constraints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			manager := graph.NewManager(a.cfg, nil)
			defer closeManager(ctx, manager, a.log)

			if err := manager.Start(ctx); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Constraints ready on %s backend\n", manager.Backend())
			return nil
		},
	}
}
