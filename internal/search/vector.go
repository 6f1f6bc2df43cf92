// Package search implements Zenith's hybrid search subsystem (spec §4.7):
// brute-force vector similarity over the lake's symbol/chunk rows, FTS5
// text search over the state store's entities, and a visibility-filtered
// decision-trace graph over entity links. Grounded in the teacher's
// internal/services/search package (query_parser.go's option-struct idiom,
// fts5_search_service.go's storage-facade pattern) generalized onto the two
// physically separate stores spec §4.7 unifies.
package search

import (
	"context"
	"math"
	"sort"

	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// SourceType discriminates a VectorResult's origin row, unifying the two
// lake tables vector search scans (spec §4.7).
type SourceType string

const (
	SourceApiSymbol SourceType = "ApiSymbol"
	SourceDocChunk  SourceType = "DocChunk"
)

// VectorResult is the unified projection over an ApiSymbolRow or
// DocChunkRow vector search returns, ranked by descending cosine score.
type VectorResult struct {
	SourceType SourceType `json:"source_type"`
	ID         string     `json:"id"`
	FilePath   string     `json:"file_path"`
	Name       string     `json:"name,omitempty"`
	DocComment string     `json:"doc_comment,omitempty"`
	Kind       model.Kind `json:"kind,omitempty"`
	Score      float32    `json:"score"`
}

// VectorFilter narrows a vector search by kind and a minimum score
// threshold (spec §4.7); ecosystem/package are already explicit
// VectorSearch parameters, not filter fields.
type VectorFilter struct {
	Kind     model.Kind
	MinScore float32
	Limit    int
}

// LakeReader is the read surface vector search needs from the lake,
// narrowed to what this package actually calls so it can be exercised
// against a fake in tests without a real Badger store.
type LakeReader interface {
	Symbols(ctx context.Context, ecosystem, pkg, version string) ([]model.ApiSymbolRow, error)
	DocChunks(ctx context.Context, ecosystem, pkg, version string) ([]model.DocChunkRow, error)
}

// CosineSimilarity computes cosine similarity between two equal-length
// vectors. Returns 0 for a zero-magnitude vector rather than NaN, since a
// never-embedded row should rank last, not poison a sort.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(magA) * math.Sqrt(magB)))
}

// VectorSearch brute-force-scans every symbol and doc-chunk row for one
// package version and ranks them by cosine similarity against queryVec
// (spec §4.7). The caller is responsible for producing queryVec — the
// embedding model is an external collaborator (spec §1).
func VectorSearch(ctx context.Context, lake LakeReader, ecosystem, pkg, version string, queryVec []float32, filter VectorFilter) ([]VectorResult, error) {
	if len(queryVec) != model.EmbeddingDimension {
		return nil, zerrors.New(zerrors.Embedding, "query vector has width %d, want %d", len(queryVec), model.EmbeddingDimension)
	}

	var results []VectorResult

	symbols, err := lake.Symbols(ctx, ecosystem, pkg, version)
	if err != nil {
		return nil, err
	}
	for _, s := range symbols {
		if filter.Kind != "" && s.Kind != filter.Kind {
			continue
		}
		score := CosineSimilarity(queryVec, s.Embedding)
		if score < filter.MinScore {
			continue
		}
		results = append(results, VectorResult{
			SourceType: SourceApiSymbol,
			ID:         s.ID,
			FilePath:   s.FilePath,
			Name:       s.Name,
			DocComment: s.DocComment,
			Kind:       s.Kind,
			Score:      score,
		})
	}

	chunks, err := lake.DocChunks(ctx, ecosystem, pkg, version)
	if err != nil {
		return nil, err
	}
	for _, c := range chunks {
		score := CosineSimilarity(queryVec, c.Embedding)
		if score < filter.MinScore {
			continue
		}
		results = append(results, VectorResult{
			SourceType: SourceDocChunk,
			ID:         c.ID,
			FilePath:   c.FilePath,
			Name:       c.Heading,
			DocComment: c.Content,
			Score:      score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if filter.Limit > 0 && len(results) > filter.Limit {
		results = results[:filter.Limit]
	}
	return results, nil
}
