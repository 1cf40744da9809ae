// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/brand-engine/internal/screen"
	"github.com/pdiddy/brand-engine/pkg/types"
)

const namesJSON = `{"names":[
	{"title":"Acme Yarns Co","description":"plain and memorable"},
	{"title":"Purl Ember","description":"warm crafting imagery"},
	{"title":"Woolhaven","description":"cozy and literal"},
	{"title":"Loop Line","description":"short and rhythmic"},
	{"title":"Knit Kin","description":"community-minded"}]}`

const namesJSONSecond = `{"names":[
	{"title":"Skein Story","description":"narrative angle"},
	{"title":"Fiber Fold","description":"tactile"},
	{"title":"Cast On","description":"insider term"},
	{"title":"Twine Twelve","description":"numeric hook"},
	{"title":"Garter Grove","description":"stitch plus place"}]}`

const palettesRaw = `#1F3A5F,#E8A13D - Navy & Amber - dependable deep blue with an optimistic warm accent
#2E5D4B,#F2EFE9 - Forest & Cream - natural green grounded by a soft neutral tone
#6B2D5C,#F5C7B8 - Plum & Blush - rich plum with a gentle premium warmth
#2B2B2B,#E63946 - Charcoal & Crimson - modern near black with a bold accent
#0F7173,#F2D0A4 - Teal & Sand - calm coastal teal against sunlit sand`

const logoTextWithHexes = `A circular emblem of interlocking yarn loops in #1F3A5F with a single strand highlighted in #E8A13D, centered above the business name.`

// scriptedText replays canned responses in order and records every prompt.
type scriptedText struct {
	responses []string
	err       error
	calls     int
	systems   []string
	users     []string
}

func (m *scriptedText) Generate(_ context.Context, system, user string, _ float64) (string, error) {
	m.calls++
	m.systems = append(m.systems, system)
	m.users = append(m.users, user)
	if m.err != nil {
		return "", m.err
	}
	i := m.calls - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

// stubImage returns canned image bytes or a canned error.
type stubImage struct {
	data   []byte
	err    error
	prompt string
}

func (m *stubImage) GenerateImage(_ context.Context, prompt string, _ types.ImageParams) ([]byte, error) {
	m.prompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

// memStore records persisted artifacts without touching disk.
type memStore struct {
	data    []byte
	format  string
	locator string
}

func (m *memStore) Persist(data []byte, preferredFormat string) (string, error) {
	m.data = data
	m.format = preferredFormat
	if m.locator == "" {
		m.locator = "logos/test.png"
	}
	return m.locator, nil
}

// availResolver answers every lookup with a definitive not-found.
type availResolver struct{}

func (availResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

// emptyTMSource returns no hits and no error.
type emptyTMSource struct{}

func (emptyTMSource) Name() string { return "registry" }

func (emptyTMSource) Search(context.Context, string, string) ([]types.Hit, error) {
	return nil, nil
}

func testBrief() types.BusinessBrief {
	return types.BusinessBrief{
		Description:    "an online store for hand-dyed knitting yarn",
		VisualElements: []string{"yarn ball"},
		BrandValues:    []string{"warmth"},
	}
}

func testDeps(text *scriptedText, img *stubImage, store *memStore) Deps {
	return Deps{
		Text:      text,
		Image:     img,
		Domains:   &screen.DomainChecker{Resolver: availResolver{}, TLDs: []string{".com"}},
		Trademark: screen.NewAggregator([]screen.Source{emptyTMSource{}}, screen.NewCache(time.Minute)),
		Images:    screen.NewImageScreener("", screen.NewCache(time.Minute)),
		Artifacts: store,
	}
}

func testConfig(t *testing.T) types.PipelineConfig {
	t.Helper()
	return types.PipelineConfig{
		AI:      types.AIConfig{MaxAttempts: 3},
		DumpDir: t.TempDir(),
	}
}

func TestSessionHappyPath(t *testing.T) {
	text := &scriptedText{responses: []string{namesJSON, palettesRaw, logoTextWithHexes}}
	img := &stubImage{data: []byte("fake-image-bytes")}
	store := &memStore{}

	s, err := NewSession(testBrief(), testDeps(text, img, store), testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	ctx := context.Background()
	if err := s.StartNaming(ctx); err != nil {
		t.Fatalf("StartNaming() error = %v", err)
	}
	if len(s.Candidates) != 5 {
		t.Fatalf("candidates = %d, want 5", len(s.Candidates))
	}
	if s.Candidates[0].Title != "Acme Yarns" {
		t.Errorf("suffix not stripped: %q", s.Candidates[0].Title)
	}
	if s.Candidates[0].Domains["acmeyarns.com"] != types.DomainAvailable {
		t.Errorf("domains = %v", s.Candidates[0].Domains)
	}
	if !strings.HasSuffix(s.Candidates[0].TrademarkNotes, screen.Disclaimer) {
		t.Errorf("trademark notes missing disclaimer:\n%s", s.Candidates[0].TrademarkNotes)
	}

	if err := s.SelectName(0); err != nil {
		t.Fatalf("SelectName() error = %v", err)
	}
	if err := s.StartColors(ctx); err != nil {
		t.Fatalf("StartColors() error = %v", err)
	}
	if len(s.Palettes) != 5 {
		t.Fatalf("palettes = %d, want 5", len(s.Palettes))
	}
	for i, p := range s.Palettes {
		if p.Fallback {
			t.Errorf("palette %d flagged fallback on a successful generation", i)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("palette %d invalid: %v", i, err)
		}
	}

	if err := s.SelectPalette(0); err != nil {
		t.Fatalf("SelectPalette() error = %v", err)
	}
	prompt, err := s.BuildLogoPrompt(ctx)
	if err != nil {
		t.Fatalf("BuildLogoPrompt() error = %v", err)
	}
	if !prompt.ReferencesColors() {
		t.Errorf("prompt does not reference both hex codes:\n%s", prompt.Text)
	}

	locator, err := s.GenerateLogoImage(ctx)
	if err != nil {
		t.Fatalf("GenerateLogoImage() error = %v", err)
	}
	if locator != "logos/test.png" || string(store.data) != "fake-image-bytes" {
		t.Errorf("artifact not persisted: locator=%q data=%q", locator, store.data)
	}

	ch, err := s.ScreenLogo(ctx, "https://cdn.example/logo.png")
	if err != nil {
		t.Fatalf("ScreenLogo() error = %v", err)
	}
	result := <-ch
	if len(result.Warnings) == 0 {
		t.Error("unconfigured image screening should degrade with a warning")
	}
	if s.Stage() != StageLogoScreened {
		t.Errorf("stage = %s, want %s", s.Stage(), StageLogoScreened)
	}
}

func TestInvalidTransitions(t *testing.T) {
	text := &scriptedText{responses: []string{namesJSON}}
	s, err := NewSession(testBrief(), testDeps(text, &stubImage{}, &memStore{}), testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	ctx := context.Background()
	tests := []struct {
		name string
		call func() error
	}{
		{"StartColors before naming", func() error { return s.StartColors(ctx) }},
		{"SelectName before naming", func() error { return s.SelectName(0) }},
		{"RefreshNames before naming", func() error { return s.RefreshNames(ctx) }},
		{"GenerateLogoImage before prompt", func() error { _, err := s.GenerateLogoImage(ctx); return err }},
		{"ScreenLogo before image", func() error { _, err := s.ScreenLogo(ctx, "u"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("error = %v, want ErrInvalidTransition", err)
			}
		})
	}

	if err := s.StartNaming(ctx); err != nil {
		t.Fatalf("StartNaming() error = %v", err)
	}
	if err := s.StartNaming(ctx); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second StartNaming error = %v, want ErrInvalidTransition", err)
	}
}

func TestStartNamingSalvage(t *testing.T) {
	// Every attempt returns JSON-ish text the strict parser rejects but the
	// salvager can mine for title fields.
	malformed := `so here you go { "title": "Acme Yarns Inc", oops "title": "Purl Ember"`
	text := &scriptedText{responses: []string{malformed}}

	s, err := NewSession(testBrief(), Deps{Text: text}, testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if err := s.StartNaming(context.Background()); err != nil {
		t.Fatalf("StartNaming() error = %v", err)
	}
	if text.calls != 3 {
		t.Errorf("generation calls = %d, want all 3 attempts", text.calls)
	}
	if len(s.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2 salvaged", len(s.Candidates))
	}
	if !s.Candidates[0].Salvaged || s.Candidates[0].Title != "Acme Yarns" {
		t.Errorf("candidate 0 = %+v, want salvaged with suffix stripped", s.Candidates[0])
	}
	if s.Stage() != StageNames {
		t.Errorf("stage = %s, want %s", s.Stage(), StageNames)
	}
}

func TestStartNamingTerminalFailure(t *testing.T) {
	text := &scriptedText{responses: []string{"### !!! 1234"}}
	cfg := testConfig(t)

	s, err := NewSession(testBrief(), Deps{Text: text}, cfg, io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	err = s.StartNaming(context.Background())
	var gf *GenerationFailed
	if !errors.As(err, &gf) {
		t.Fatalf("error = %v, want *GenerationFailed", err)
	}
	if gf.Stage != "names" || gf.Attempts != 3 {
		t.Errorf("failure = %+v", gf)
	}
	if gf.DumpPath == "" {
		t.Fatal("terminal failure did not save a dump")
	}
	if _, statErr := os.Stat(gf.DumpPath); statErr != nil {
		t.Errorf("dump file missing: %v", statErr)
	}
	if s.Stage() != StageIntake {
		t.Errorf("stage = %s, want unchanged %s", s.Stage(), StageIntake)
	}
}

func TestStartNamingTransportFailureKeepsCause(t *testing.T) {
	// Every call fails before producing output: no dump to save, but the
	// failure must still carry the backend error.
	text := &scriptedText{err: fmt.Errorf("backend unreachable")}
	s, err := NewSession(testBrief(), Deps{Text: text}, testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	err = s.StartNaming(context.Background())
	var gf *GenerationFailed
	if !errors.As(err, &gf) {
		t.Fatalf("error = %v, want *GenerationFailed", err)
	}
	if gf.Err == nil || !strings.Contains(err.Error(), "backend unreachable") {
		t.Errorf("failure dropped the cause: %v", err)
	}
	if gf.DumpPath != "" {
		t.Errorf("dump path = %q, want none when no output was produced", gf.DumpPath)
	}
}

func TestColorsFallBackToDefaults(t *testing.T) {
	text := &scriptedText{responses: []string{namesJSON, "not a palette list"}}
	s, err := NewSession(testBrief(), testDeps(text, &stubImage{}, &memStore{}), testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	ctx := context.Background()
	if err := s.StartNaming(ctx); err != nil {
		t.Fatalf("StartNaming() error = %v", err)
	}
	if err := s.SelectName(0); err != nil {
		t.Fatalf("SelectName() error = %v", err)
	}
	if err := s.StartColors(ctx); err != nil {
		t.Fatalf("StartColors() error = %v", err)
	}

	if len(s.Palettes) != 5 {
		t.Fatalf("palettes = %d, want the 5 defaults", len(s.Palettes))
	}
	for i, p := range s.Palettes {
		if !p.Fallback {
			t.Errorf("palette %d not flagged as fallback", i)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("default palette %d invalid: %v", i, err)
		}
	}
	if s.Stage() != StageColors {
		t.Errorf("stage = %s, want %s (color failure is never terminal)", s.Stage(), StageColors)
	}
}

func TestRefreshNamesExcludesSeenTitles(t *testing.T) {
	text := &scriptedText{responses: []string{namesJSON, namesJSONSecond}}
	s, err := NewSession(testBrief(), testDeps(text, &stubImage{}, &memStore{}), testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	ctx := context.Background()
	if err := s.StartNaming(ctx); err != nil {
		t.Fatalf("StartNaming() error = %v", err)
	}
	if err := s.RefreshNames(ctx); err != nil {
		t.Fatalf("RefreshNames() error = %v", err)
	}

	refreshPrompt := text.users[len(text.users)-1]
	if !strings.Contains(refreshPrompt, "Do not suggest") || !strings.Contains(refreshPrompt, "Acme Yarns") {
		t.Errorf("refresh prompt missing exclusion list:\n%s", refreshPrompt)
	}
	if got := len(s.SeenTitles()); got != 10 {
		t.Errorf("seen titles = %d, want 10 across both rounds", got)
	}
	if s.Candidates[0].Title != "Skein Story" {
		t.Errorf("candidates not replaced on refresh: %q", s.Candidates[0].Title)
	}
}

func TestBuildLogoPromptReinforcedRetry(t *testing.T) {
	// The first draft omits the hex codes; the single retry also omits them
	// and is accepted regardless.
	text := &scriptedText{responses: []string{
		namesJSON, palettesRaw,
		"A circular yarn emblem with no colors named.",
		"Still no hex codes here.",
	}}
	s, err := NewSession(testBrief(), testDeps(text, &stubImage{}, &memStore{}), testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	ctx := context.Background()
	if err := s.StartNaming(ctx); err != nil {
		t.Fatalf("StartNaming() error = %v", err)
	}
	if err := s.SelectName(0); err != nil {
		t.Fatalf("SelectName() error = %v", err)
	}
	if err := s.StartColors(ctx); err != nil {
		t.Fatalf("StartColors() error = %v", err)
	}
	if err := s.SelectPalette(0); err != nil {
		t.Fatalf("SelectPalette() error = %v", err)
	}

	callsBefore := text.calls
	prompt, err := s.BuildLogoPrompt(ctx)
	if err != nil {
		t.Fatalf("BuildLogoPrompt() error = %v", err)
	}
	if text.calls != callsBefore+2 {
		t.Errorf("generation calls for prompt = %d, want exactly 2 (draft + one retry)", text.calls-callsBefore)
	}
	if prompt.Text != "Still no hex codes here." {
		t.Errorf("retry result not accepted: %q", prompt.Text)
	}
	reinforced := text.users[len(text.users)-1]
	if !strings.Contains(reinforced, "MUST contain") {
		t.Errorf("retry prompt not reinforced:\n%s", reinforced)
	}
}

func TestGenerateLogoImageFailurePreservesPrompt(t *testing.T) {
	text := &scriptedText{responses: []string{namesJSON, palettesRaw, logoTextWithHexes}}
	img := &stubImage{err: fmt.Errorf("image backend unavailable")}
	s, err := NewSession(testBrief(), testDeps(text, img, &memStore{}), testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	ctx := context.Background()
	if err := s.StartNaming(ctx); err != nil {
		t.Fatalf("StartNaming() error = %v", err)
	}
	if err := s.SelectName(0); err != nil {
		t.Fatalf("SelectName() error = %v", err)
	}
	if err := s.StartColors(ctx); err != nil {
		t.Fatalf("StartColors() error = %v", err)
	}
	if err := s.SelectPalette(0); err != nil {
		t.Fatalf("SelectPalette() error = %v", err)
	}
	if _, err := s.BuildLogoPrompt(ctx); err != nil {
		t.Fatalf("BuildLogoPrompt() error = %v", err)
	}

	// The user edits the prompt before submission; a failure must not lose
	// that edit.
	edited := "Edited composition in #1F3A5F and #E8A13D."
	if err := s.SetPromptText(edited); err != nil {
		t.Fatalf("SetPromptText() error = %v", err)
	}

	_, err = s.GenerateLogoImage(ctx)
	var gf *GenerationFailed
	if !errors.As(err, &gf) {
		t.Fatalf("error = %v, want *GenerationFailed", err)
	}
	if gf.Prompt != edited {
		t.Errorf("failure lost the prompt text: %q", gf.Prompt)
	}
	if s.Stage() != StageLogoPrompt {
		t.Errorf("stage = %s, want to stay at %s for a retry", s.Stage(), StageLogoPrompt)
	}
}

func TestRegenerateLogoImage(t *testing.T) {
	text := &scriptedText{responses: []string{namesJSON, palettesRaw, logoTextWithHexes}}
	img := &stubImage{data: []byte("render-bytes")}
	s, err := NewSession(testBrief(), testDeps(text, img, &memStore{}), testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	ctx := context.Background()
	if err := s.StartNaming(ctx); err != nil {
		t.Fatalf("StartNaming() error = %v", err)
	}
	if err := s.SelectName(0); err != nil {
		t.Fatalf("SelectName() error = %v", err)
	}
	if err := s.StartColors(ctx); err != nil {
		t.Fatalf("StartColors() error = %v", err)
	}
	if err := s.SelectPalette(0); err != nil {
		t.Fatalf("SelectPalette() error = %v", err)
	}
	if _, err := s.BuildLogoPrompt(ctx); err != nil {
		t.Fatalf("BuildLogoPrompt() error = %v", err)
	}
	if _, err := s.GenerateLogoImage(ctx); err != nil {
		t.Fatalf("GenerateLogoImage() error = %v", err)
	}

	// Same prompt, new render.
	if _, err := s.GenerateLogoImage(ctx); err != nil {
		t.Fatalf("regenerate with the same prompt error = %v", err)
	}
	if s.Stage() != StageLogoImage {
		t.Errorf("stage = %s, want %s after regenerating", s.Stage(), StageLogoImage)
	}

	// Edited prompt, new render.
	edited := "Tighter monogram in #1F3A5F with an #E8A13D ring."
	if err := s.SetPromptText(edited); err != nil {
		t.Fatalf("SetPromptText() after a render error = %v", err)
	}
	if _, err := s.GenerateLogoImage(ctx); err != nil {
		t.Fatalf("regenerate with the edited prompt error = %v", err)
	}
	if img.prompt != edited {
		t.Errorf("image backend got %q, want the edited prompt", img.prompt)
	}

	// Regenerating after screening discards the stale verdict.
	ch, err := s.ScreenLogo(ctx, "https://cdn.example/logo.png")
	if err != nil {
		t.Fatalf("ScreenLogo() error = %v", err)
	}
	<-ch
	if s.Stage() != StageLogoScreened {
		t.Fatalf("stage = %s, want %s", s.Stage(), StageLogoScreened)
	}
	if _, err := s.GenerateLogoImage(ctx); err != nil {
		t.Fatalf("regenerate after screening error = %v", err)
	}
	if s.Stage() != StageLogoImage {
		t.Errorf("stage = %s, want %s after regenerating a screened logo", s.Stage(), StageLogoImage)
	}
	if s.LogoScreening != nil {
		t.Error("screening verdict for the previous image should be discarded")
	}
}

func TestSetPromptTextFlowsToImageBackend(t *testing.T) {
	text := &scriptedText{responses: []string{namesJSON, palettesRaw, logoTextWithHexes}}
	img := &stubImage{data: []byte("png-bytes")}
	s, err := NewSession(testBrief(), testDeps(text, img, &memStore{}), testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	ctx := context.Background()
	if err := s.StartNaming(ctx); err != nil {
		t.Fatalf("StartNaming() error = %v", err)
	}
	if err := s.SelectName(0); err != nil {
		t.Fatalf("SelectName() error = %v", err)
	}
	if err := s.StartColors(ctx); err != nil {
		t.Fatalf("StartColors() error = %v", err)
	}
	if err := s.SelectPalette(0); err != nil {
		t.Fatalf("SelectPalette() error = %v", err)
	}
	if _, err := s.BuildLogoPrompt(ctx); err != nil {
		t.Fatalf("BuildLogoPrompt() error = %v", err)
	}

	edited := "Minimal monogram in #1F3A5F on an #E8A13D field."
	if err := s.SetPromptText(edited); err != nil {
		t.Fatalf("SetPromptText() error = %v", err)
	}
	if _, err := s.GenerateLogoImage(ctx); err != nil {
		t.Fatalf("GenerateLogoImage() error = %v", err)
	}
	if img.prompt != edited {
		t.Errorf("image backend got %q, want the edited prompt", img.prompt)
	}
}

func TestAdoptNameAndPalette(t *testing.T) {
	text := &scriptedText{responses: []string{logoTextWithHexes}}
	s, err := NewSession(testBrief(), testDeps(text, &stubImage{data: []byte("x")}, &memStore{}), testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if err := s.AdoptName("Acme Yarns LLC"); err != nil {
		t.Fatalf("AdoptName() error = %v", err)
	}
	if s.SelectedName.Title != "Acme Yarns" {
		t.Errorf("adopted name = %q, want suffix stripped", s.SelectedName.Title)
	}
	if err := s.AdoptPalette(types.ColorPalette{PrimaryHex: "1f3a5f", AccentHex: "#E8A13D", Name: "Navy & Amber"}); err != nil {
		t.Fatalf("AdoptPalette() error = %v", err)
	}
	if s.SelectedPalette.PrimaryHex != "#1F3A5F" {
		t.Errorf("adopted palette not normalized: %q", s.SelectedPalette.PrimaryHex)
	}

	if _, err := s.BuildLogoPrompt(context.Background()); err != nil {
		t.Fatalf("BuildLogoPrompt() after adoption error = %v", err)
	}
}

func TestAdoptPaletteRejectsBadHex(t *testing.T) {
	s, err := NewSession(testBrief(), Deps{}, testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if err := s.AdoptName("Acme"); err != nil {
		t.Fatalf("AdoptName() error = %v", err)
	}
	if err := s.AdoptPalette(types.ColorPalette{PrimaryHex: "#12345", AccentHex: "#E8A13D", Name: "Bad"}); err == nil {
		t.Fatal("AdoptPalette() with short hex should error")
	}
}

func TestExcludeTitlesSeedsFirstRound(t *testing.T) {
	text := &scriptedText{responses: []string{namesJSON}}
	s, err := NewSession(testBrief(), testDeps(text, &stubImage{}, &memStore{}), testConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	s.ExcludeTitles([]string{"Wool World"})
	if err := s.StartNaming(context.Background()); err != nil {
		t.Fatalf("StartNaming() error = %v", err)
	}
	if !strings.Contains(text.users[0], "Wool World") {
		t.Errorf("seeded exclusion missing from prompt:\n%s", text.users[0])
	}
}

func TestNewSessionRejectsInvalidBrief(t *testing.T) {
	_, err := NewSession(types.BusinessBrief{}, Deps{}, types.PipelineConfig{}, io.Discard)
	if err == nil {
		t.Fatal("NewSession() with empty brief should error")
	}
}
