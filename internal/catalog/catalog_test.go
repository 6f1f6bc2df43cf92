package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/statestore"
)

func setupTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := statestore.Open(statestore.DefaultConfig(path), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

// TestVisibilityScoping is spec §8 scenario S4: four rows registered for
// one package, queried under three identities.
func TestVisibilityScoping(t *testing.T) {
	cat := setupTestCatalog(t)
	ctx := context.Background()

	rows := []model.DataFile{
		{Ecosystem: "rust", Package: "pkg", Version: "1.0.0", LancePath: "p1", Visibility: model.VisibilityPublic},
		{Ecosystem: "rust", Package: "pkg", Version: "1.0.0", LancePath: "p2", Visibility: model.VisibilityTeam, OrgID: "org_A"},
		{Ecosystem: "rust", Package: "pkg", Version: "1.0.0", LancePath: "p3", Visibility: model.VisibilityTeam, OrgID: "org_B"},
		{Ecosystem: "rust", Package: "pkg", Version: "1.0.0", LancePath: "p4", Visibility: model.VisibilityPrivate, OwnerSub: "user_1"},
	}
	for _, r := range rows {
		_, err := cat.Register(ctx, r)
		require.NoError(t, err)
	}

	paths, err := cat.PathsForPackageScoped(ctx, "rust", "pkg", "", model.Identity{Subject: "user_1", OrgID: "org_A"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"p1", "p2", "p4"}, paths)

	paths, err = cat.PathsForPackageScoped(ctx, "rust", "pkg", "", model.Anonymous)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"p1"}, paths)

	paths, err = cat.PathsForPackageScoped(ctx, "rust", "pkg", "", model.Identity{Subject: "user_solo"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"p1", "p4"}, paths)
}

func TestHasPackagePublicOnly(t *testing.T) {
	cat := setupTestCatalog(t)
	ctx := context.Background()

	has, err := cat.HasPackage(ctx, "npm", "left-pad", "1.0.0")
	require.NoError(t, err)
	require.False(t, has)

	_, err = cat.Register(ctx, model.DataFile{Ecosystem: "npm", Package: "left-pad", Version: "1.0.0", LancePath: "p1", Visibility: model.VisibilityTeam, OrgID: "org_A"})
	require.NoError(t, err)
	has, err = cat.HasPackage(ctx, "npm", "left-pad", "1.0.0")
	require.NoError(t, err)
	require.False(t, has, "team-visibility rows must not satisfy the public-only probe")

	_, err = cat.Register(ctx, model.DataFile{Ecosystem: "npm", Package: "left-pad", Version: "1.0.0", LancePath: "p2", Visibility: model.VisibilityPublic})
	require.NoError(t, err)
	has, err = cat.HasPackage(ctx, "npm", "left-pad", "1.0.0")
	require.NoError(t, err)
	require.True(t, has)
}

func TestRegisterIdempotent(t *testing.T) {
	cat := setupTestCatalog(t)
	ctx := context.Background()

	id1, err := cat.Register(ctx, model.DataFile{Ecosystem: "pypi", Package: "six", Version: "1.16.0", LancePath: "p1", Visibility: model.VisibilityPublic})
	require.NoError(t, err)

	id2, err := cat.Register(ctx, model.DataFile{Ecosystem: "pypi", Package: "six", Version: "1.16.0", LancePath: "p1", Visibility: model.VisibilityPrivate, OwnerSub: "user_2"})
	require.NoError(t, err)
	require.Equal(t, id1, id2, "re-registering the same tuple must coalesce, not duplicate")

	paths, err := cat.PathsForPackageScoped(ctx, "pypi", "six", "", model.Identity{Subject: "user_2"})
	require.NoError(t, err)
	require.Equal(t, []string{"p1"}, paths, "the update must have replaced visibility, not appended a row")
}
