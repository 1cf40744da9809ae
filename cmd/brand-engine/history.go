// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/brand-engine/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or export past brand-generation runs",
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(pipelineConfig().History)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}
		for _, r := range runs {
			name := r.SelectedName
			if name == "" {
				name = "(no name selected)"
			}
			fmt.Printf("%s  %s  %-24s  %s\n", r.ID, r.CreatedAt, name, r.Description)
		}
		return nil
	},
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full run history to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		cfg := pipelineConfig()
		store, err := history.Open(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		switch format {
		case "yaml", "":
			if out == "" {
				out = filepath.Join(cfg.History.DataDir, "export.yaml")
			}
			if err := store.ExportYAML(ctx, out); err != nil {
				return err
			}
		case "json":
			if out == "" {
				out = filepath.Join(cfg.History.DataDir, "export.json")
			}
			if err := store.ExportJSON(ctx, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}

		fmt.Println("Exported to", out)
		return nil
	},
}

func init() {
	historyListCmd.Flags().Bool("json", false, "output the listing as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "output path (default: under the history data dir)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
