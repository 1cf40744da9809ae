// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk splits source documents into overlapping fragments and ranks
// them by embedding similarity for context assembly.
package chunk

import (
	"math"
	"sort"
	"strings"
)

// Document is a raw source text gathered by the retrieval stage.
type Document struct {
	// Source identifies where the text came from (e.g. a URL or source tag).
	Source string

	// Content is the full extracted text.
	Content string
}

// Chunk is a fragment of a source document. Embedding and Score are filled
// in by the retrieval stage; Score is transient and valid only for the query
// it was computed against.
type Chunk struct {
	Source    string
	Content   string
	Embedding []float32
	Score     float64
}

// Split cuts each document into rune-based windows of at most size runes,
// consecutive windows overlapping by overlap runes. Document order and
// within-document order are preserved. A non-positive size returns each
// document as a single chunk; overlap is clamped below size.
func Split(docs []Document, size, overlap int) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		text := strings.TrimSpace(doc.Content)
		if text == "" {
			continue
		}
		if size <= 0 {
			chunks = append(chunks, Chunk{Source: doc.Source, Content: text})
			continue
		}
		step := size - overlap
		if step <= 0 {
			step = size
		}
		runes := []rune(text)
		for start := 0; start < len(runes); start += step {
			end := start + size
			if end > len(runes) {
				end = len(runes)
			}
			piece := strings.TrimSpace(string(runes[start:end]))
			if piece != "" {
				chunks = append(chunks, Chunk{Source: doc.Source, Content: piece})
			}
			if end == len(runes) {
				break
			}
		}
	}
	return chunks
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector is zero-length or the dimensions disagree.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores every chunk against the query embedding and returns the top k
// by descending similarity. The sort is stable: ties keep original chunk
// order. The input slice is not modified.
func Rank(chunks []Chunk, query []float32, k int) []Chunk {
	ranked := make([]Chunk, len(chunks))
	copy(ranked, chunks)
	for i := range ranked {
		ranked[i].Score = CosineSimilarity(query, ranked[i].Embedding)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
