package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/walker"
)

type fakePersister struct {
	symbols      []model.ApiSymbolRow
	chunks       []model.DocChunkRow
	sourceFiles  []model.SourceFileRow
	registered   bool
}

func (f *fakePersister) StoreSymbols(ctx context.Context, rows []model.ApiSymbolRow) error {
	f.symbols = append(f.symbols, rows...)
	return nil
}

func (f *fakePersister) StoreDocChunks(ctx context.Context, rows []model.DocChunkRow) error {
	f.chunks = append(f.chunks, rows...)
	return nil
}

func (f *fakePersister) StoreSourceFile(ctx context.Context, row model.SourceFileRow, content []byte) error {
	f.sourceFiles = append(f.sourceFiles, row)
	return nil
}

func (f *fakePersister) IsPackageIndexed(ctx context.Context, ecosystem, pkg, version string) (bool, error) {
	return f.registered, nil
}

func (f *fakePersister) RegisterPackage(ctx context.Context, ecosystem, pkg, version string, symbolCount, chunkCount int) error {
	f.registered = true
	return nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, model.EmbeddingDimension)
	}
	return out, nil
}

func TestRunnerIndexesCodeAndDocs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc Hello() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# Title\n\nSome words about the project.\n"), 0o644))

	persist := &fakePersister{}
	r := NewRunner(nil, nil, fakeEmbedder{}, persist, nil)

	stats, err := r.Run(context.Background(), Options{
		Root:       root,
		Ecosystem:  "go",
		Package:    "example",
		Version:    "v0.0.1",
		WalkerMode: walker.Raw,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesScanned)
	assert.Greater(t, stats.SymbolsStored, 0)
	assert.Greater(t, stats.ChunksStored, 0)
	assert.True(t, persist.registered)
	assert.Len(t, persist.sourceFiles, 2)
	for _, row := range persist.symbols {
		assert.Len(t, row.Embedding, model.EmbeddingDimension)
	}
}

func TestRunnerSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	content := make([]byte, 200)
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.go"), content, 0o644))

	persist := &fakePersister{}
	r := NewRunner(nil, nil, fakeEmbedder{}, persist, nil)

	stats, err := r.Run(context.Background(), Options{
		Root:         root,
		Ecosystem:    "go",
		Package:      "example",
		Version:      "v0.0.1",
		WalkerMode:   walker.Raw,
		MaxFileBytes: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesScanned)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 0, stats.FilesIndexed)
}
