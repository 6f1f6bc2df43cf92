// Package embed defines the Embedder capability boundary (spec §1): the
// embedding model itself is an external collaborator, consumed only
// through this interface, plus a retry/backoff wrapper modeled on the
// teacher's Gemini rate-limit handling (internal/services/llm/gemini_retry.go).
package embed

import (
	"context"

	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// Embedder produces fixed-width embeddings for a batch of texts. Every
// implementation must return exactly len(texts) vectors, each of width
// model.EmbeddingDimension (spec §3, §4.3 invariant).
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedSymbols embeds a batch of ParsedItems using SymbolEmbeddingKey and
// returns one vector per item, in input order.
// It is a hard error for the embedder to return a different vector count
// than len(items) or a vector of the wrong width (spec §8 invariant: output
// count always matches input count).
func EmbedSymbols(ctx context.Context, e Embedder, items []model.ParsedItem) ([][]float32, error) {
	if len(items) == 0 {
		return nil, nil
	}
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = model.SymbolEmbeddingKey(it.Name, it.Signature, it.DocComment)
	}
	vectors, err := e.Embed(ctx, texts)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Embedding, err, "embedding %d symbols", len(items))
	}
	if len(vectors) != len(items) {
		return nil, zerrors.New(zerrors.Embedding, "embedder returned %d vectors for %d symbols", len(vectors), len(items))
	}
	for i, v := range vectors {
		if len(v) != model.EmbeddingDimension {
			return nil, zerrors.New(zerrors.Embedding, "embedder returned vector of width %d at index %d, want %d", len(v), i, model.EmbeddingDimension)
		}
	}
	return vectors, nil
}

// EmbedChunks is EmbedSymbols' sibling for documentation chunk content.
func EmbedChunks(ctx context.Context, e Embedder, contents []string) ([][]float32, error) {
	if len(contents) == 0 {
		return nil, nil
	}
	vectors, err := e.Embed(ctx, contents)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Embedding, err, "embedding %d chunks", len(contents))
	}
	if len(vectors) != len(contents) {
		return nil, zerrors.New(zerrors.Embedding, "embedder returned %d vectors for %d chunks", len(vectors), len(contents))
	}
	for i, v := range vectors {
		if len(v) != model.EmbeddingDimension {
			return nil, zerrors.New(zerrors.Embedding, "embedder returned vector of width %d at index %d, want %d", len(v), i, model.EmbeddingDimension)
		}
	}
	return vectors, nil
}
