package search

import (
	"context"

	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/statestore"
)

// Mode selects which of spec §4.7's three search strategies a query uses.
type Mode string

const (
	ModeVector Mode = "vector"
	ModeFTS    Mode = "fts"
	ModeHybrid Mode = "hybrid"
)

// EntityResult is one FTS5 hit over the state store's entities table,
// projected down to what a search caller needs to render a result line.
type EntityResult struct {
	ID     string          `json:"id"`
	Kind   model.EntityKind `json:"kind"`
	Status string          `json:"status"`
	Text   string          `json:"text"`
}

// EntitySearch runs the state store's FTS5 MATCH query over entities and
// projects the hits, applying the same visibility rule List/Search already
// enforce (spec §4.4, §4.7).
func EntitySearch(ctx context.Context, store *statestore.EntityStore, query string, kind model.EntityKind, identity model.Identity, limit int) ([]EntityResult, error) {
	recs, err := store.Search(ctx, query, kind, identity, limit)
	if err != nil {
		return nil, err
	}
	out := make([]EntityResult, 0, len(recs))
	for _, r := range recs {
		out = append(out, EntityResult{ID: r.ID, Kind: r.Kind, Status: r.Status, Text: r.SearchText})
	}
	return out, nil
}

// Result is the unified hit hybrid search returns, wrapping either an
// EntityResult (fts) or a VectorResult (vector) so a single ranked list
// can interleave both.
type Result struct {
	Entity *EntityResult `json:"entity,omitempty"`
	Vector *VectorResult `json:"vector,omitempty"`
}

// Engine composes the FTS5 entity search and the lake's brute-force vector
// scan behind the three modes spec §4.7 names. It holds no query state;
// every call is independent.
type Engine struct {
	entities *statestore.EntityStore
	lake     LakeReader
}

func NewEngine(entities *statestore.EntityStore, lake LakeReader) *Engine {
	return &Engine{entities: entities, lake: lake}
}

// Query runs one search across the requested mode. Vector and hybrid modes
// require a pre-embedded query vector (the embedding model is an external
// collaborator per spec §1); fts mode ignores it.
func (e *Engine) Query(ctx context.Context, mode Mode, text string, queryVec []float32, ecosystem, pkg, version string, entityKind model.EntityKind, vf VectorFilter, identity model.Identity, limit int) ([]Result, error) {
	var results []Result

	if mode == ModeFTS || mode == ModeHybrid {
		if e.entities != nil && text != "" {
			hits, err := EntitySearch(ctx, e.entities, text, entityKind, identity, limit)
			if err != nil {
				return nil, err
			}
			for i := range hits {
				results = append(results, Result{Entity: &hits[i]})
			}
		}
	}

	if mode == ModeVector || mode == ModeHybrid {
		if e.lake != nil && len(queryVec) > 0 {
			vf.Limit = limit
			hits, err := VectorSearch(ctx, e.lake, ecosystem, pkg, version, queryVec, vf)
			if err != nil {
				return nil, err
			}
			for i := range hits {
				results = append(results, Result{Vector: &hits[i]})
			}
		}
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
