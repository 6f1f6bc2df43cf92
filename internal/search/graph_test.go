package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/statestore"
)

func setupGraphStore(t *testing.T) *statestore.EntityStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := statestore.Open(statestore.DefaultConfig(path), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return statestore.NewEntityStore(db)
}

// TestBuildGraphDropsEdgesToInvisibleNodes is spec §8 invariant 5: every
// edge in the output graph must have both endpoints in the visible set.
func TestBuildGraphDropsEdgesToInvisibleNodes(t *testing.T) {
	es := setupGraphStore(t)
	ctx := context.Background()

	orgA := "org_A"
	require.NoError(t, es.Create(ctx, statestore.Record{ID: "fnd-00000001", Kind: model.EntityFinding, OrgID: &orgA, SearchText: "a", Data: []byte(`{}`)}))
	orgB := "org_B"
	require.NoError(t, es.Create(ctx, statestore.Record{ID: "fnd-00000002", Kind: model.EntityFinding, OrgID: &orgB, SearchText: "b", Data: []byte(`{}`)}))

	_, err := es.Link(ctx, model.EntityLink{FromKind: model.EntityFinding, FromID: "fnd-00000001", ToKind: model.EntityFinding, ToID: "fnd-00000002", Relation: model.RelationRelatesTo})
	require.NoError(t, err)

	g, err := BuildGraph(ctx, es, []model.EntityKind{model.EntityFinding}, model.Identity{Subject: "u", OrgID: "org_A"})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	require.Empty(t, g.Edges, "the link's target is invisible to org_A, so the edge must be dropped")
}

func TestBuildGraphDeterministicHash(t *testing.T) {
	es := setupGraphStore(t)
	ctx := context.Background()

	require.NoError(t, es.Create(ctx, statestore.Record{ID: "fnd-00000001", Kind: model.EntityFinding, SearchText: "a", Data: []byte(`{}`)}))
	require.NoError(t, es.Create(ctx, statestore.Record{ID: "fnd-00000002", Kind: model.EntityFinding, SearchText: "b", Data: []byte(`{}`)}))
	_, err := es.Link(ctx, model.EntityLink{FromKind: model.EntityFinding, FromID: "fnd-00000001", ToKind: model.EntityFinding, ToID: "fnd-00000002", Relation: model.RelationRelatesTo})
	require.NoError(t, err)

	var hashes []string
	for i := 0; i < 5; i++ {
		g, err := BuildGraph(ctx, es, []model.EntityKind{model.EntityFinding}, model.Anonymous)
		require.NoError(t, err)
		hashes = append(hashes, g.RankingHash())
	}
	for _, h := range hashes[1:] {
		require.Equal(t, hashes[0], h)
	}
}
