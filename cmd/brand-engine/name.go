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

var nameCmd = &cobra.Command{
	Use:   "name",
	Short: "Generate five screened name candidates",
	Long: `Name generates five business name candidates for the given description,
checks each against domain availability and trademark sources, and prints the
results. Pass --exclude to keep names you have already seen out of the batch.`,
	RunE: runName,
}

func init() {
	nameCmd.Flags().String("description", "", "business description (required)")
	nameCmd.Flags().StringSlice("visual", nil, "visual element for the logo (max 2)")
	nameCmd.Flags().StringSlice("value", nil, "brand value keyword (max 2)")
	nameCmd.Flags().StringSlice("exclude", nil, "names to exclude from the batch")
	nameCmd.Flags().Bool("json", false, "output candidates as JSON")

	rootCmd.AddCommand(nameCmd)
}

func runName(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")
	if description == "" {
		return fmt.Errorf("--description is required")
	}
	visuals, _ := cmd.Flags().GetStringSlice("visual")
	values, _ := cmd.Flags().GetStringSlice("value")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")

	brief := types.BusinessBrief{
		Description:    description,
		VisualElements: visuals,
		BrandValues:    values,
	}

	cfg := pipelineConfig()
	session, err := pipeline.NewSession(brief, buildDeps(cfg), cfg, os.Stderr)
	if err != nil {
		return err
	}
	session.ExcludeTitles(exclude)

	if err := session.StartNaming(context.Background()); err != nil {
		return describeGenerationFailure(err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(session.Candidates)
	}
	printCandidates(os.Stdout, session.Candidates)
	return nil
}
