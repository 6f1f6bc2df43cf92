// Package lake implements Zenith's columnar-ish cache (spec §4.3):
// api_symbols, doc_chunks, source_files, and indexed_packages, keyed so a
// brute-force cosine scan over a package's rows is cheap. Grounded in the
// teacher's internal/storage/badger package: the same BadgerDB/badgerhold
// wiring (connection.go) applied to a different set of record types, with
// the same "iterate and Upsert per row" idiom document_storage.go uses for
// SaveDocuments since badgerhold has no bulk-transaction API.
package lake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/zenith-dev/zenith/internal/codec"
	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// Config mirrors the teacher's common.BadgerConfig shape.
type Config struct {
	Path           string
	ResetOnStartup bool
}

func DefaultConfig(path string) *Config {
	return &Config{Path: path}
}

// Lake wraps the badgerhold-backed store and the raw-bytes blob directory
// source files are cached under.
type Lake struct {
	store  *badgerhold.Store
	logger arbor.ILogger
	blobDir string
}

// Open creates (or opens) the lake at cfg.Path, matching the teacher's
// NewBadgerDB flow (connection.go): optional reset-on-startup, directory
// creation, then badgerhold.Open with the default badger logger disabled
// in favor of arbor.
func Open(cfg *Config, logger arbor.ILogger) (*Lake, error) {
	if logger == nil {
		logger = common.GetLogger()
	}
	if cfg.ResetOnStartup {
		if _, err := os.Stat(cfg.Path); err == nil {
			if err := os.RemoveAll(cfg.Path); err != nil {
				logger.Warn().Err(err).Str("path", cfg.Path).Msg("failed to reset lake directory")
			}
		}
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "creating lake directory %s", cfg.Path)
	}

	options := badgerhold.DefaultOptions
	options.Dir = cfg.Path
	options.ValueDir = cfg.Path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "opening lake at %s", cfg.Path)
	}

	blobDir := filepath.Join(cfg.Path, "blobs")
	if err := os.MkdirAll(blobDir, 0o755); err != nil {
		store.Close()
		return nil, zerrors.Wrap(zerrors.Io, err, "creating blob directory %s", blobDir)
	}

	return &Lake{store: store, logger: logger, blobDir: blobDir}, nil
}

// Conn exposes the underlying badgerhold store for ad-hoc queries (spec
// §4.3's conn()), e.g. the search package's brute-force scan.
func (l *Lake) Conn() *badgerhold.Store { return l.store }

func (l *Lake) Close() error { return l.store.Close() }

// StoreSymbols upserts every row, keyed by ID. Each symbol must already
// carry a full-width embedding; that invariant is enforced upstream by
// internal/embed, not re-checked here.
func (l *Lake) StoreSymbols(ctx context.Context, rows []model.ApiSymbolRow) error {
	for _, row := range rows {
		if err := l.store.Upsert(row.ID, row); err != nil {
			return zerrors.Wrap(zerrors.Io, err, "storing symbol %s", row.ID)
		}
	}
	return nil
}

func (l *Lake) StoreDocChunks(ctx context.Context, rows []model.DocChunkRow) error {
	for _, row := range rows {
		if err := l.store.Upsert(row.ID, row); err != nil {
			return zerrors.Wrap(zerrors.Io, err, "storing doc chunk %s", row.ID)
		}
	}
	return nil
}

// StoreSourceFile writes content to the blob directory under row.BlobKey
// and upserts the metadata row, mirroring the teacher's pointer-to-blob
// split (document_storage.go keeps large bodies inline in badgerhold;
// Zenith keeps raw source bytes on disk instead since files can exceed a
// comfortable badger value size).
func (l *Lake) StoreSourceFile(ctx context.Context, row model.SourceFileRow, content []byte) error {
	blobPath := l.blobPath(row.BlobKey)
	if err := os.MkdirAll(filepath.Dir(blobPath), 0o755); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "creating blob directory for %s", row.BlobKey)
	}
	if err := os.WriteFile(blobPath, content, 0o644); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "writing blob %s", row.BlobKey)
	}
	if err := l.store.Upsert(row.ID, row); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "storing source file row %s", row.ID)
	}
	return nil
}

// ReadSourceFile returns the cached bytes for a previously stored source
// file, looked up by blob key.
func (l *Lake) ReadSourceFile(ctx context.Context, blobKey string) ([]byte, error) {
	content, err := os.ReadFile(l.blobPath(blobKey))
	if err != nil {
		return nil, zerrors.Wrap(zerrors.NoResult, err, "reading blob %s", blobKey)
	}
	return content, nil
}

func (l *Lake) blobPath(blobKey string) string {
	return filepath.Join(l.blobDir, blobKey+".blob")
}

func packageKey(ecosystem, pkg, version string) string {
	return ecosystem + "/" + pkg + "@" + version
}

// IsPackageIndexed reports whether (ecosystem, package, version) has ever
// been registered.
func (l *Lake) IsPackageIndexed(ctx context.Context, ecosystem, pkg, version string) (bool, error) {
	var existing model.IndexedPackage
	err := l.store.Get(packageKey(ecosystem, pkg, version), &existing)
	if err == badgerhold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, zerrors.Wrap(zerrors.Io, err, "checking indexed package %s/%s@%s", ecosystem, pkg, version)
	}
	return true, nil
}

// RegisterPackage records (or updates) the indexed_packages bookkeeping
// row and marks source_cached = true, which only ever moves false -> true
// (spec §4.3 invariant: "registered packages monotonically accumulate
// source_cached = true").
func (l *Lake) RegisterPackage(ctx context.Context, ecosystem, pkg, version string, symbolCount, chunkCount int) error {
	key := packageKey(ecosystem, pkg, version)
	row := model.IndexedPackage{
		Ecosystem:    ecosystem,
		Package:      pkg,
		Version:      version,
		SymbolCount:  symbolCount,
		ChunkCount:   chunkCount,
		SourceCached: true,
	}
	if err := l.store.Upsert(key, row); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "registering package %s/%s@%s", ecosystem, pkg, version)
	}
	return nil
}

// SetSourceCached flips the source_cached flag directly, exposed
// separately from RegisterPackage per spec §4.3's verb list (a package can
// be (re-)marked cached without a full re-index, e.g. after a manual
// source-file backfill).
func (l *Lake) SetSourceCached(ctx context.Context, ecosystem, pkg, version string, cached bool) error {
	key := packageKey(ecosystem, pkg, version)
	var existing model.IndexedPackage
	if err := l.store.Get(key, &existing); err != nil {
		if err == badgerhold.ErrNotFound {
			return zerrors.New(zerrors.NoResult, "package %s/%s@%s not registered", ecosystem, pkg, version)
		}
		return zerrors.Wrap(zerrors.Io, err, "fetching package %s/%s@%s", ecosystem, pkg, version)
	}
	existing.SourceCached = cached
	if err := l.store.Upsert(key, existing); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "updating source_cached for %s/%s@%s", ecosystem, pkg, version)
	}
	return nil
}

// Symbols returns every api_symbols row for one package version, the
// input to the search package's brute-force cosine scan.
func (l *Lake) Symbols(ctx context.Context, ecosystem, pkg, version string) ([]model.ApiSymbolRow, error) {
	var rows []model.ApiSymbolRow
	err := l.store.Find(&rows, badgerhold.
		Where("Ecosystem").Eq(ecosystem).
		And("Package").Eq(pkg).
		And("Version").Eq(version))
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "listing symbols for %s/%s@%s", ecosystem, pkg, version)
	}
	return rows, nil
}

// DocChunks returns every doc_chunks row for one package version.
func (l *Lake) DocChunks(ctx context.Context, ecosystem, pkg, version string) ([]model.DocChunkRow, error) {
	var rows []model.DocChunkRow
	err := l.store.Find(&rows, badgerhold.
		Where("Ecosystem").Eq(ecosystem).
		And("Package").Eq(pkg).
		And("Version").Eq(version))
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "listing doc chunks for %s/%s@%s", ecosystem, pkg, version)
	}
	return rows, nil
}

// IndexedPackages returns every registered package's bookkeeping row.
func (l *Lake) IndexedPackages(ctx context.Context) ([]model.IndexedPackage, error) {
	var rows []model.IndexedPackage
	if err := l.store.Find(&rows, nil); err != nil {
		return nil, zerrors.Wrap(zerrors.Io, err, "listing indexed packages")
	}
	return rows, nil
}

// Export materializes every symbol row for (ecosystem, package, version)
// as a JSONL dataset under a timestamped path (spec §4.3's write_to_r2,
// renamed since the actual cloud-storage write is an out-of-scope
// byte-sink capability per spec §1 — see DESIGN.md). Every row's embedding
// must already be the fixed 384-length vector internal/embed guarantees;
// Export checks that invariant rather than encoding it in a real Arrow
// schema, since no Arrow dependency exists anywhere in the retrieval pack.
func (l *Lake) Export(ctx context.Context, datasetRoot, visibility, ecosystem, pkg, version string) (string, error) {
	rows, err := l.Symbols(ctx, ecosystem, pkg, version)
	if err != nil {
		return "", err
	}
	for _, row := range rows {
		if len(row.Embedding) != model.EmbeddingDimension {
			return "", zerrors.New(zerrors.Embedding, "symbol %s has embedding width %d, want %d", row.ID, len(row.Embedding), model.EmbeddingDimension)
		}
	}

	ts := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	dir := filepath.Join(datasetRoot, visibility, ecosystem, pkg, version, "symbols")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", zerrors.Wrap(zerrors.Io, err, "creating export directory %s", dir)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.jsonl", ts))

	f, err := os.Create(path)
	if err != nil {
		return "", zerrors.Wrap(zerrors.Io, err, "creating export file %s", path)
	}
	defer f.Close()

	if err := codec.WriteJSONL(f, rows); err != nil {
		return "", err
	}
	return path, nil
}
