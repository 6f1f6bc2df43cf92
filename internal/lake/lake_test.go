package lake

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith-dev/zenith/internal/codec"
	"github.com/zenith-dev/zenith/internal/model"
)

func setupLake(t *testing.T) *Lake {
	t.Helper()
	l, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "lake")), nil)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func symbolRow(id, ecosystem, pkg, version, name string) model.ApiSymbolRow {
	return model.ApiSymbolRow{
		ID:        id,
		Ecosystem: ecosystem,
		Package:   pkg,
		Version:   version,
		Name:      name,
		Embedding: make([]float32, model.EmbeddingDimension),
	}
}

func TestStoreAndListSymbolsScopedToPackageVersion(t *testing.T) {
	l := setupLake(t)
	ctx := context.Background()

	rows := []model.ApiSymbolRow{
		symbolRow("sym-1", "cargo", "serde", "1.0.0", "Serialize"),
		symbolRow("sym-2", "cargo", "serde", "1.0.0", "Deserialize"),
		symbolRow("sym-3", "cargo", "serde", "2.0.0", "Serialize"),
	}
	require.NoError(t, l.StoreSymbols(ctx, rows))

	got, err := l.Symbols(ctx, "cargo", "serde", "1.0.0")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = l.Symbols(ctx, "cargo", "serde", "2.0.0")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Serialize", got[0].Name)
}

func TestStoreDocChunks(t *testing.T) {
	l := setupLake(t)
	ctx := context.Background()

	rows := []model.DocChunkRow{
		{ID: "doc-1", Ecosystem: "cargo", Package: "serde", Version: "1.0.0", Heading: "Overview", Content: "intro"},
	}
	require.NoError(t, l.StoreDocChunks(ctx, rows))

	got, err := l.DocChunks(ctx, "cargo", "serde", "1.0.0")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Overview", got[0].Heading)
}

func TestStoreSourceFileRoundtripsBlobContent(t *testing.T) {
	l := setupLake(t)
	ctx := context.Background()

	row := model.SourceFileRow{
		ID:        "src-1",
		Ecosystem: "cargo",
		Package:   "serde",
		Version:   "1.0.0",
		FilePath:  "src/lib.rs",
		BlobKey:   "src-1",
	}
	content := []byte("pub fn serialize() {}")
	require.NoError(t, l.StoreSourceFile(ctx, row, content))

	got, err := l.ReadSourceFile(ctx, row.BlobKey)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestReadSourceFileMissingErrors(t *testing.T) {
	l := setupLake(t)
	_, err := l.ReadSourceFile(context.Background(), "nonexistent")
	assert.Error(t, err)
}

func TestIsPackageIndexedAndRegisterPackage(t *testing.T) {
	l := setupLake(t)
	ctx := context.Background()

	indexed, err := l.IsPackageIndexed(ctx, "cargo", "serde", "1.0.0")
	require.NoError(t, err)
	assert.False(t, indexed)

	require.NoError(t, l.RegisterPackage(ctx, "cargo", "serde", "1.0.0", 10, 3))

	indexed, err = l.IsPackageIndexed(ctx, "cargo", "serde", "1.0.0")
	require.NoError(t, err)
	assert.True(t, indexed)

	packages, err := l.IndexedPackages(ctx)
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.Equal(t, 10, packages[0].SymbolCount)
	assert.True(t, packages[0].SourceCached)
}

func TestSetSourceCachedRequiresRegisteredPackage(t *testing.T) {
	l := setupLake(t)
	ctx := context.Background()

	err := l.SetSourceCached(ctx, "cargo", "serde", "1.0.0", false)
	assert.Error(t, err)

	require.NoError(t, l.RegisterPackage(ctx, "cargo", "serde", "1.0.0", 1, 1))
	require.NoError(t, l.SetSourceCached(ctx, "cargo", "serde", "1.0.0", false))

	packages, err := l.IndexedPackages(ctx)
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.False(t, packages[0].SourceCached)
}

func TestExportWritesJSONLDatasetAndRejectsNarrowEmbeddings(t *testing.T) {
	l := setupLake(t)
	ctx := context.Background()

	require.NoError(t, l.StoreSymbols(ctx, []model.ApiSymbolRow{
		symbolRow("sym-1", "cargo", "serde", "1.0.0", "Serialize"),
	}))

	datasetRoot := t.TempDir()
	path, err := l.Export(ctx, datasetRoot, "public", "cargo", "serde", "1.0.0")
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Contains(t, path, filepath.Join(datasetRoot, "public", "cargo", "serde", "1.0.0", "symbols"))

	rows, err := codec.ReadJSONLFile[model.ApiSymbolRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Serialize", rows[0].Name)

	// A narrow embedding must hard-fail the export rather than silently
	// shipping a malformed dataset row.
	narrow := symbolRow("sym-2", "cargo", "badcrate", "1.0.0", "Oops")
	narrow.Embedding = []float32{0.1, 0.2}
	require.NoError(t, l.StoreSymbols(ctx, []model.ApiSymbolRow{narrow}))
	_, err = l.Export(ctx, datasetRoot, "public", "cargo", "badcrate", "1.0.0")
	assert.Error(t, err)
}

func TestOpenResetOnStartupClearsExistingData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lake")
	l, err := Open(DefaultConfig(dir), nil)
	require.NoError(t, err)
	require.NoError(t, l.RegisterPackage(context.Background(), "cargo", "serde", "1.0.0", 1, 1))
	require.NoError(t, l.Close())

	_, statErr := os.Stat(dir)
	require.NoError(t, statErr)

	reset := DefaultConfig(dir)
	reset.ResetOnStartup = true
	l2, err := Open(reset, nil)
	require.NoError(t, err)
	defer l2.Close()

	indexed, err := l2.IsPackageIndexed(context.Background(), "cargo", "serde", "1.0.0")
	require.NoError(t, err)
	assert.False(t, indexed)
}
