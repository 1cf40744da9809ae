// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/brand-engine/internal/history"
	"github.com/pdiddy/brand-engine/internal/pipeline"
	"github.com/pdiddy/brand-engine/internal/screen"
	"github.com/pdiddy/brand-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full guided brand-generation journey",
	Long: `Run walks the complete journey interactively: describe the business, pick
one of five screened name candidates, pick one of five color palettes, review
and optionally edit the logo prompt, and render the logo image. Each list can
be refreshed for a new batch. Every round is recorded in the run history.`,
	RunE: runJourney,
}

func init() {
	runCmd.Flags().String("description", "", "business description (prompted for when omitted)")
	runCmd.Flags().StringSlice("visual", nil, "visual element for the logo (max 2)")
	runCmd.Flags().StringSlice("value", nil, "brand value keyword (max 2)")
	runCmd.Flags().Bool("no-history", false, "do not record the run in history")

	rootCmd.AddCommand(runCmd)
}

func runJourney(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)
	out := os.Stdout

	brief, err := briefFromFlagsOrPrompt(cmd, in, out)
	if err != nil {
		return err
	}

	cfg := pipelineConfig()
	session, err := pipeline.NewSession(brief, buildDeps(cfg), cfg, os.Stderr)
	if err != nil {
		return err
	}

	var (
		store *history.Store
		runID string
	)
	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		store, err = history.Open(cfg.History)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		} else {
			defer store.Close()
			if runID, err = store.StartRun(ctx, brief); err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
				runID = ""
			}
		}
	}
	record := func(fn func() error) {
		if store == nil || runID == "" {
			return
		}
		if err := fn(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: history write failed: %v\n", err)
		}
	}

	// --- names ---
	if err := session.StartNaming(ctx); err != nil {
		return describeGenerationFailure(err)
	}
	round := 0
	record(func() error { return store.RecordCandidates(ctx, runID, round, session.Candidates) })

	for {
		printCandidates(out, session.Candidates)
		choice, err := promptChoice(in, out, len(session.Candidates), "Pick a name [1-%d], or r to refresh: ")
		if err != nil {
			return err
		}
		if choice < 0 {
			if err := session.RefreshNames(ctx); err != nil {
				return describeGenerationFailure(err)
			}
			round++
			record(func() error { return store.RecordCandidates(ctx, runID, round, session.Candidates) })
			continue
		}
		if err := session.SelectName(choice); err != nil {
			return err
		}
		break
	}
	record(func() error { return store.RecordNameSelection(ctx, runID, session.SelectedName.Title) })
	fmt.Fprintf(out, "\nSelected name: %s\n\n", session.SelectedName.Title)

	// --- colors ---
	if err := session.StartColors(ctx); err != nil {
		return err
	}
	round = 0
	record(func() error { return store.RecordPalettes(ctx, runID, round, session.Palettes) })

	for {
		printPalettes(out, session.Palettes)
		choice, err := promptChoice(in, out, len(session.Palettes), "Pick a palette [1-%d], or r to refresh: ")
		if err != nil {
			return err
		}
		if choice < 0 {
			if err := session.RefreshColors(ctx); err != nil {
				return err
			}
			round++
			record(func() error { return store.RecordPalettes(ctx, runID, round, session.Palettes) })
			continue
		}
		if err := session.SelectPalette(choice); err != nil {
			return err
		}
		break
	}
	record(func() error { return store.RecordPaletteSelection(ctx, runID, *session.SelectedPalette) })
	fmt.Fprintf(out, "\nSelected palette: %s (%s / %s)\n\n",
		session.SelectedPalette.Name, session.SelectedPalette.PrimaryHex, session.SelectedPalette.AccentHex)

	// --- logo prompt ---
	prompt, err := session.BuildLogoPrompt(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Logo prompt:\n\n%s\n\n", prompt.Text)
	fmt.Fprint(out, "Press enter to accept, or type a replacement prompt: ")
	if in.Scan() {
		if edit := strings.TrimSpace(in.Text()); edit != "" {
			if err := session.SetPromptText(edit); err != nil {
				return err
			}
		}
	}

	// --- logo image ---
	var locator string
	for {
		locator, err = session.GenerateLogoImage(ctx)
		if err != nil {
			return describeGenerationFailure(err)
		}
		fmt.Fprintf(out, "\nLogo saved: %s\n", locator)
		record(func() error { return store.RecordLogo(ctx, runID, session.Prompt.Text, locator) })

		fmt.Fprint(out, "Press enter to keep it, r to regenerate, or type an edited prompt to regenerate with: ")
		if !in.Scan() {
			break
		}
		answer := strings.TrimSpace(in.Text())
		if answer == "" {
			break
		}
		if !strings.EqualFold(answer, "r") {
			if err := session.SetPromptText(answer); err != nil {
				return err
			}
		}
	}

	// Screening is decoupled from presentation: the image is already on
	// disk, the verdict follows. The reverse-image API fetches the image
	// itself, so a local file path cannot be screened in-journey.
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		ch, err := session.ScreenLogo(ctx, locator)
		if err == nil {
			result := <-ch
			fmt.Fprintf(out, "\n%s\n", screen.ImageNotes(result))
		}
	} else {
		fmt.Fprintln(out, "\nTo screen the logo against existing marks, host the image at a public URL and run: brand-engine logo screen <url>")
	}
	return nil
}

func briefFromFlagsOrPrompt(cmd *cobra.Command, in *bufio.Scanner, out io.Writer) (types.BusinessBrief, error) {
	description, _ := cmd.Flags().GetString("description")
	visuals, _ := cmd.Flags().GetStringSlice("visual")
	values, _ := cmd.Flags().GetStringSlice("value")

	if description == "" {
		fmt.Fprintf(out, "Describe your business (max %d words): ", types.MaxDescriptionWords)
		if !in.Scan() {
			return types.BusinessBrief{}, fmt.Errorf("no description provided")
		}
		description = strings.TrimSpace(in.Text())
	}

	brief := types.BusinessBrief{
		Description:    description,
		VisualElements: visuals,
		BrandValues:    values,
	}
	return brief, brief.Validate()
}

func promptChoice(in *bufio.Scanner, out io.Writer, n int, format string) (int, error) {
	for {
		fmt.Fprintf(out, format, n)
		if !in.Scan() {
			return 0, fmt.Errorf("input closed")
		}
		answer := strings.ToLower(strings.TrimSpace(in.Text()))
		if answer == "r" {
			return -1, nil
		}
		if i, err := strconv.Atoi(answer); err == nil && i >= 1 && i <= n {
			return i - 1, nil
		}
		fmt.Fprintf(out, "Please enter a number between 1 and %d, or r.\n", n)
	}
}

func printCandidates(out io.Writer, candidates []types.NameCandidate) {
	fmt.Fprintln(out, "\nName candidates:")
	for i, c := range candidates {
		fmt.Fprintf(out, "\n%d. %s", i+1, c.Title)
		if c.Salvaged {
			fmt.Fprint(out, " (recovered from a malformed response)")
		}
		fmt.Fprintln(out)
		if c.Description != "" {
			fmt.Fprintf(out, "   %s\n", c.Description)
		}
		for _, domain := range sortedDomains(c.Domains) {
			fmt.Fprintf(out, "   %-24s %s\n", domain, c.Domains[domain])
		}
		if c.TrademarkNotes != "" {
			fmt.Fprintf(out, "   %s\n", strings.ReplaceAll(c.TrademarkNotes, "\n", "\n   "))
		}
	}
	fmt.Fprintln(out)
}

func printPalettes(out io.Writer, palettes []types.ColorPalette) {
	fmt.Fprintln(out, "\nColor palettes:")
	for i, p := range palettes {
		fmt.Fprintf(out, "%d. %s / %s  %s", i+1, p.PrimaryHex, p.AccentHex, p.Name)
		if p.Fallback {
			fmt.Fprint(out, " (default)")
		}
		fmt.Fprintln(out)
		if p.Description != "" {
			fmt.Fprintf(out, "   %s\n", p.Description)
		}
	}
	fmt.Fprintln(out)
}

func sortedDomains(domains map[string]types.DomainStatus) []string {
	out := make([]string, 0, len(domains))
	for d := range domains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// describeGenerationFailure adds retry guidance to a terminal generation
// failure; other errors pass through.
func describeGenerationFailure(err error) error {
	var gf *pipeline.GenerationFailed
	if errors.As(err, &gf) {
		return fmt.Errorf("%w\nThe backend output could not be used; run the command again to retry", gf)
	}
	return err
}
