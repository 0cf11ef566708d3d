package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sentigraph/backend/internal/graph"
)

func newIngestCmd(a *app) *cobra.Command {
	var accumulate bool

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Apply an annotated batch from a JSON or YAML file",
		Long: `Reads a batch of annotated posts and applies it to the graph.
The file holds either a list of posts or an object with an "items" list.
By default the graph is cleared first; --accumulate keeps existing nodes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := loadBatch(args[0])
			if err != nil {
				return err
			}

			a.warnEphemeral()
			ctx := cmd.Context()
			manager := graph.NewManager(a.cfg, nil)
			defer closeManager(ctx, manager, a.log)

			svc, err := manager.Service(ctx)
			if err != nil {
				return err
			}
			result, err := svc.Ingest(ctx, batch, graph.ModeFor(!accumulate))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().BoolVar(&accumulate, "accumulate", false, "Add to the existing graph instead of replacing it")
	return cmd
}

// batchFile is the object form of a batch file
type batchFile struct {
	Items []graph.PostAnalysis `json:"items" yaml:"items"`
}

// loadBatch decodes a batch file, picking the format from its extension
func loadBatch(path string) ([]graph.PostAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	unmarshal := json.Unmarshal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	}

	var list []graph.PostAnalysis
	if err := unmarshal(data, &list); err == nil {
		return list, nil
	}

	var obj batchFile
	if err := unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}
	if obj.Items == nil {
		return nil, fmt.Errorf("batch file %s has no items", path)
	}
	return obj.Items, nil
}
