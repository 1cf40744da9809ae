// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve gathers reference documents, ranks their chunks against
// a query embedding, and assembles a bounded context window for generation.
package retrieve

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/brand-engine/internal/aiclient"
	"github.com/pdiddy/brand-engine/internal/chunk"
	"github.com/pdiddy/brand-engine/pkg/types"
)

// Source supplies raw documents for context assembly. Each implementation
// wraps one origin (static reference page, live web search) per the
// Strategy pattern.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]chunk.Document, error)
}

// Context is the assembled retrieval result for one generation call.
type Context struct {
	// Text is the joined top-K chunk contents. Empty when nothing could
	// be retrieved; callers proceed with degraded context, not an error.
	Text string

	// Chunks are the ranked chunks behind Text.
	Chunks []chunk.Chunk

	// Warnings records sources that failed to load.
	Warnings []string
}

const chunkSeparator = "\n\n---\n\n"

// Retrieve loads all sources, chunks their documents, ranks chunks by
// cosine similarity to the query, and keeps the top K.
//
// A failed source is skipped with a warning; a single failed source never
// aborts retrieval. Zero surviving chunks yields an empty context and no
// error. An embedding failure, however, is an error: embeddings that are
// missing for part of the batch would misalign ranking, and a degraded
// context is acceptable where a corrupted one is not.
func Retrieve(ctx context.Context, sources []Source, query string, embedder aiclient.Embedder, cfg types.RetrievalConfig) (Context, error) {
	var (
		docs     []chunk.Document
		warnings []string
	)
	for _, src := range sources {
		loaded, err := src.Load(ctx)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", src.Name(), err))
			continue
		}
		docs = append(docs, loaded...)
	}

	size := cfg.ChunkSize
	if size <= 0 {
		size = 800
	}
	overlap := cfg.ChunkOverlap
	if overlap < 0 {
		overlap = 0
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}

	chunks := chunk.Split(docs, size, overlap)
	if len(chunks) == 0 {
		return Context{Warnings: warnings}, nil
	}

	// One batch call: query first, then every chunk. The embedding API
	// guarantees output order matches input order.
	texts := make([]string, 0, len(chunks)+1)
	texts = append(texts, query)
	for _, c := range chunks {
		texts = append(texts, c.Content)
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return Context{}, fmt.Errorf("embedding context batch: %w", err)
	}
	queryVec := vectors[0]
	for i := range chunks {
		chunks[i].Embedding = vectors[i+1]
	}

	ranked := chunk.Rank(chunks, queryVec, topK)

	parts := make([]string, 0, len(ranked))
	for _, c := range ranked {
		parts = append(parts, strings.TrimSpace(c.Content))
	}

	return Context{
		Text:     strings.Join(parts, chunkSeparator),
		Chunks:   ranked,
		Warnings: warnings,
	}, nil
}
