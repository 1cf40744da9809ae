// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/brand-engine/internal/pipeline"
	"github.com/pdiddy/brand-engine/internal/screen"
	"github.com/pdiddy/brand-engine/pkg/types"
)

var logoCmd = &cobra.Command{
	Use:   "logo",
	Short: "Draft a logo prompt, render the image, or screen it",
}

// --- prompt subcommand ---

var logoPromptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Draft the logo prompt for a chosen name and palette",
	Long: `Prompt drafts the visual-composition paragraph fed to image generation,
grounded in the chosen name, the selected colors, and any visual elements.
The draft must reference both hex codes; edit it freely before rendering.`,
	RunE: runLogoPrompt,
}

func runLogoPrompt(cmd *cobra.Command, args []string) error {
	session, err := logoSession(cmd)
	if err != nil {
		return err
	}
	prompt, err := session.BuildLogoPrompt(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(prompt.Text)
	if !prompt.ReferencesColors() {
		fmt.Fprintln(os.Stderr, "warning: the prompt does not mention both selected hex codes")
	}
	return nil
}

// --- image subcommand ---

var logoImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Render the logo image from a prompt",
	Long: `Image renders the logo at the fixed parameters (1024x1024) and persists
it under the configured output directory. Pass --prompt to use an edited
prompt instead of drafting a fresh one.`,
	RunE: runLogoImage,
}

func runLogoImage(cmd *cobra.Command, args []string) error {
	session, err := logoSession(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	promptText, _ := cmd.Flags().GetString("prompt")
	if promptText != "" {
		if err := session.AdoptPrompt(promptText); err != nil {
			return err
		}
	} else if _, err := session.BuildLogoPrompt(ctx); err != nil {
		return err
	}

	locator, err := session.GenerateLogoImage(ctx)
	if err != nil {
		return describeGenerationFailure(err)
	}
	fmt.Printf("Logo saved: %s\n", locator)

	if doScreen, _ := cmd.Flags().GetBool("screen"); doScreen {
		// The reverse-image API fetches the image itself; a local path
		// cannot be screened.
		if !strings.HasPrefix(locator, "http://") && !strings.HasPrefix(locator, "https://") {
			fmt.Fprintln(os.Stderr, "warning: the saved logo is a local file; host it at a public URL and run \"brand-engine logo screen <url>\"")
			return nil
		}
		ch, err := session.ScreenLogo(ctx, locator)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n", screen.ImageNotes(<-ch))
	}
	return nil
}

// --- screen subcommand ---

var logoScreenCmd = &cobra.Command{
	Use:   "screen [image-url]",
	Short: "Reverse-image screen an existing logo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := pipelineConfig()
		screener := screen.NewImageScreener(cfg.Screening.ReverseImageAPIKey,
			screen.NewCache(cfg.Screening.CacheTTL))
		screener.UserAgent = cfg.Screening.UserAgent

		result := screener.ScreenImage(context.Background(), args[0])
		fmt.Println(screen.ImageNotes(result))
		return nil
	},
}

// logoSession builds a session advanced to the color-selected stage from
// the name and palette flags.
func logoSession(cmd *cobra.Command) (*pipeline.Session, error) {
	description, _ := cmd.Flags().GetString("description")
	name, _ := cmd.Flags().GetString("name")
	primary, _ := cmd.Flags().GetString("primary")
	accent, _ := cmd.Flags().GetString("accent")
	if description == "" || name == "" || primary == "" || accent == "" {
		return nil, fmt.Errorf("--description, --name, --primary, and --accent are required")
	}
	visuals, _ := cmd.Flags().GetStringSlice("visual")

	brief := types.BusinessBrief{Description: description, VisualElements: visuals}

	cfg := pipelineConfig()
	session, err := pipeline.NewSession(brief, buildDeps(cfg), cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	if err := session.AdoptName(name); err != nil {
		return nil, err
	}
	palette := types.ColorPalette{PrimaryHex: primary, AccentHex: accent, Name: primary + " / " + accent}
	if err := session.AdoptPalette(palette); err != nil {
		return nil, err
	}
	return session, nil
}

func addLogoStageFlags(cmd *cobra.Command) {
	cmd.Flags().String("description", "", "business description (required)")
	cmd.Flags().String("name", "", "the chosen business name (required)")
	cmd.Flags().String("primary", "", "primary hex color, e.g. #1F3A5F (required)")
	cmd.Flags().String("accent", "", "accent hex color (required)")
	cmd.Flags().StringSlice("visual", nil, "visual element for the logo (max 2)")
}

func init() {
	addLogoStageFlags(logoPromptCmd)

	addLogoStageFlags(logoImageCmd)
	logoImageCmd.Flags().String("prompt", "", "use this prompt text instead of the draft")
	logoImageCmd.Flags().Bool("screen", false, "reverse-image screen the result")

	logoCmd.AddCommand(logoPromptCmd)
	logoCmd.AddCommand(logoImageCmd)
	logoCmd.AddCommand(logoScreenCmd)

	rootCmd.AddCommand(logoCmd)
}
