// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/brand-engine/internal/pipeline"
	"github.com/pdiddy/brand-engine/pkg/types"
)

var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "Generate five color palettes for a chosen name",
	Long: `Colors generates five primary/accent palette candidates for a business
name that has already been chosen. When generation fails, a curated default
list is printed instead, marked as such.`,
	RunE: runColors,
}

func init() {
	colorsCmd.Flags().String("description", "", "business description (required)")
	colorsCmd.Flags().String("name", "", "the chosen business name (required)")
	colorsCmd.Flags().StringSlice("value", nil, "brand value keyword (max 2)")
	colorsCmd.Flags().Bool("json", false, "output palettes as JSON")

	rootCmd.AddCommand(colorsCmd)
}

func runColors(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")
	name, _ := cmd.Flags().GetString("name")
	if description == "" || name == "" {
		return fmt.Errorf("--description and --name are required")
	}
	values, _ := cmd.Flags().GetStringSlice("value")

	brief := types.BusinessBrief{Description: description, BrandValues: values}

	cfg := pipelineConfig()
	session, err := pipeline.NewSession(brief, buildDeps(cfg), cfg, os.Stderr)
	if err != nil {
		return err
	}
	if err := session.AdoptName(name); err != nil {
		return err
	}
	if err := session.StartColors(context.Background()); err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(session.Palettes)
	}
	printPalettes(os.Stdout, session.Palettes)
	return nil
}
