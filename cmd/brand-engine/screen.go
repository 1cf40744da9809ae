// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/brand-engine/internal/screen"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Check a name for domain availability or trademark conflicts",
}

// --- domains subcommand ---

var screenDomainsCmd = &cobra.Command{
	Use:   "domains [name]",
	Short: "Check domain availability for a name",
	Long: `Domains resolves the name's compacted label under each configured TLD.
A lookup that fails for any reason other than a definitive "no such host"
is reported as unknown, never as available.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		checker := screen.NewDomainChecker(cfg.Screening.TLDs)

		statuses := checker.Check(context.Background(), args[0])
		if len(statuses) == 0 {
			return fmt.Errorf("name %q contains no usable characters for a domain", args[0])
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(statuses)
		}
		for _, domain := range sortedDomains(statuses) {
			fmt.Printf("%-30s %s\n", domain, statuses[domain])
		}
		return nil
	},
}

// --- trademark subcommand ---

var screenTrademarkCmd = &cobra.Command{
	Use:   "trademark [name]",
	Short: "Run trademark screening for a name",
	Long: `Trademark fans the name out to every configured source (registry API,
web search, commercial data) and prints the aggregated risk analysis. The
output is informational screening, not legal advice.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		businessContext, _ := cmd.Flags().GetString("context")

		cfg := pipelineConfig()
		deps := buildDeps(cfg)

		result := deps.Trademark.CheckTrademarks(context.Background(), args[0], businessContext)

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		fmt.Println(screen.AnalyzeRisk(args[0], result, businessContext))
		return nil
	},
}

func init() {
	screenDomainsCmd.Flags().Bool("json", false, "output statuses as JSON")

	screenTrademarkCmd.Flags().String("context", "", "business context to bias similarity analysis")
	screenTrademarkCmd.Flags().Bool("json", false, "output the raw aggregate as JSON")

	screenCmd.AddCommand(screenDomainsCmd)
	screenCmd.AddCommand(screenTrademarkCmd)

	rootCmd.AddCommand(screenCmd)
}
