package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sentigraph/backend/internal/graph"
)

func newResetCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every node and edge in the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the %s graph without --yes", a.cfg.ResolvedBackend())
			}

			a.warnEphemeral()
			ctx := cmd.Context()
			manager := graph.NewManager(a.cfg, nil)
			defer closeManager(ctx, manager, a.log)

			svc, err := manager.Service(ctx)
			if err != nil {
				return err
			}
			// An empty replace batch is the one deletion path the graph has.
			if _, err := svc.Ingest(ctx, nil, graph.ModeReplace); err != nil {
				return fmt.Errorf("failed to clear graph: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Graph cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
