// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/brand-engine/internal/genparse"
	"github.com/pdiddy/brand-engine/internal/retrieve"
	"github.com/pdiddy/brand-engine/internal/screen"
	"github.com/pdiddy/brand-engine/internal/websearch"
	"github.com/pdiddy/brand-engine/pkg/types"
)

// StartNaming runs the first name-generation round: retrieval, generation
// with bounded retries, salvage, suffix stripping, then per-candidate
// screening. On total generation failure the raw output is dumped and a
// terminal GenerationFailed is returned; names never fall back to defaults.
func (s *Session) StartNaming(ctx context.Context) error {
	if err := s.requireStage("StartNaming", StageIntake); err != nil {
		return err
	}
	// Usually empty; non-empty when the caller seeded exclusions up front.
	return s.generateNames(ctx, s.SeenTitles())
}

// RefreshNames regenerates the candidate list, passing every title shown so
// far as a best-effort exclusion list. Upstream state (the brief) is
// untouched; any prior selection is discarded with the old candidates.
func (s *Session) RefreshNames(ctx context.Context) error {
	if err := s.requireStage("RefreshNames", StageNames, StageNameSelected); err != nil {
		return err
	}
	s.SelectedName = nil
	return s.generateNames(ctx, s.SeenTitles())
}

func (s *Session) generateNames(ctx context.Context, exclude []string) error {
	rctx := s.retrieveContext(ctx, "naming")

	attempts := s.maxAttempts()
	var lastRaw string
	var lastErr error
	var candidates []types.NameCandidate

	for attempt := 0; attempt < attempts; attempt++ {
		s.progressf("generating name candidates (attempt %d/%d)", attempt+1, attempts)
		raw, err := s.deps.Text.Generate(ctx, namesSystemPrompt,
			namesUserPrompt(s.Brief, rctx.Text, exclude), temperature(attempt))
		if err != nil {
			s.warnf("name generation call failed: %v", err)
			lastErr = err
			continue
		}
		lastRaw = raw

		parsed, err := genparse.ParseNames(raw)
		if err != nil {
			s.warnf("name response rejected: %v", err)
			lastErr = err
			continue
		}
		candidates = parsed
		break
	}

	if candidates == nil && lastRaw != "" {
		if titles := genparse.SalvageNames(lastRaw); len(titles) > 0 {
			s.warnf("strict parsing failed; salvaged %d candidate(s)", len(titles))
			for _, t := range titles {
				candidates = append(candidates, types.NameCandidate{Title: t, Salvaged: true})
			}
		}
	}

	if candidates == nil {
		dumpPath := ""
		if lastRaw != "" {
			path, err := genparse.DumpRaw(s.dumpDir(), "names", lastRaw)
			if err != nil {
				s.warnf("could not save raw output: %v", err)
			} else {
				dumpPath = path
			}
		}
		return &GenerationFailed{Stage: "names", Attempts: attempts, DumpPath: dumpPath, Err: lastErr}
	}

	// Suffix stripping applies to both paths identically: a salvaged
	// "Acme Inc" and a strictly parsed one must come out the same.
	titles := make([]string, 0, len(candidates))
	for i := range candidates {
		candidates[i].Title = genparse.StripCorporateSuffix(candidates[i].Title)
		titles = append(titles, candidates[i].Title)
	}

	s.screenCandidates(ctx, candidates)

	s.Candidates = candidates
	s.markSeen(titles)
	s.setStage(StageNames)
	return nil
}

// screenCandidates fans screening out per candidate: domain resolution and
// trademark aggregation run concurrently across candidates, and a failure
// for one candidate never disturbs another. Screening collaborators report
// degradation through warnings, so the group never aborts.
func (s *Session) screenCandidates(ctx context.Context, candidates []types.NameCandidate) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range candidates {
		c := &candidates[i]
		g.Go(func() error {
			if s.deps.Domains != nil {
				c.Domains = s.deps.Domains.Check(gctx, c.Title)
			}
			if s.deps.Trademark != nil {
				result := s.deps.Trademark.CheckTrademarks(gctx, c.Title, s.Brief.Description)
				c.Screening = result
				c.TrademarkNotes = screen.AnalyzeRisk(c.Title, result, s.Brief.Description)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// retrieveContext assembles grounded context for a generation stage. A
// retrieval failure degrades to an empty context with a warning; the run
// never dies because reference material was unreachable.
func (s *Session) retrieveContext(ctx context.Context, stage string) retrieve.Context {
	cfg := s.cfg.Retrieval

	var sources []retrieve.Source
	refURL := cfg.NamingReferenceURL
	query := "business naming: " + s.Brief.Description
	if stage == "colors" {
		refURL = cfg.ColorReferenceURL
		query = "brand color psychology: " + strings.Join(append(s.Brief.BrandValues, s.Brief.Description), " ")
	}
	if refURL != "" {
		sources = append(sources, &retrieve.StaticPageSource{URL: refURL, UserAgent: cfg.UserAgent})
	}
	if cfg.SearchAPIKey != "" {
		sources = append(sources, &retrieve.WebSearchSource{
			Client:     &websearch.Client{APIKey: cfg.SearchAPIKey, UserAgent: cfg.UserAgent},
			Query:      query,
			MaxResults: cfg.SearchMaxResults,
			Region:     cfg.SearchRegion,
		})
	}
	if len(sources) == 0 {
		return retrieve.Context{}
	}

	rctx, err := retrieve.Retrieve(ctx, sources, query, s.deps.Embedder, cfg)
	if err != nil {
		s.warnf("%s retrieval failed, continuing without context: %v", stage, err)
		return retrieve.Context{}
	}
	for _, w := range rctx.Warnings {
		s.warnf("%s retrieval source: %s", stage, w)
	}
	return rctx
}

func (s *Session) dumpDir() string {
	if s.cfg.DumpDir != "" {
		return s.cfg.DumpDir
	}
	return "output/dumps"
}
