// Package pipeline composes walk→extract→chunk→embed→persist into the
// single indexing run described in spec §4.2. It follows the teacher's
// Init/CreateJobs split (internal/queue/workers/local_dir_worker.go):
// first discover work, then process it — except here it runs in-process
// rather than fanning out to queue jobs, since Zenith's indexing is a
// local CLI operation, not a distributed crawl.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/zenith-dev/zenith/internal/chunk"
	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/embed"
	"github.com/zenith-dev/zenith/internal/extract"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/walker"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// Persister is the write side of the pipeline (Lake + state store in
// combination); kept as an interface so the pipeline can be exercised
// without a real database (spec §4.3's register_package/store_* family).
type Persister interface {
	StoreSymbols(ctx context.Context, rows []model.ApiSymbolRow) error
	StoreDocChunks(ctx context.Context, rows []model.DocChunkRow) error
	StoreSourceFile(ctx context.Context, row model.SourceFileRow, content []byte) error
	IsPackageIndexed(ctx context.Context, ecosystem, pkg, version string) (bool, error)
	RegisterPackage(ctx context.Context, ecosystem, pkg, version string, symbolCount, chunkCount int) error
}

// Options configures one indexing run.
type Options struct {
	Root         string
	Ecosystem    string
	Package      string
	Version      string
	WalkerMode   walker.Mode
	SkipTests    bool
	IncludeGlobs []string
	ExcludeGlobs []string
	// MaxFileBytes skips files larger than this entirely: they are counted
	// in Stats.FilesSkipped and are neither read, cached as a SourceFileRow,
	// extracted nor chunked, mirroring the teacher's max_file_size guard in
	// local_dir_worker.go.
	MaxFileBytes int64
}

const defaultMaxFileBytes = 1 << 20 // 1MB, same default as the teacher's local_dir worker

// Stats summarizes one run, mirroring the teacher's per-batch counters
// (savedCount/errorCount in local_dir_worker.go) generalized to the
// extract/chunk/embed stages.
type Stats struct {
	FilesScanned  int
	FilesIndexed  int
	FilesSkipped  int
	SymbolsStored int
	ChunksStored  int
	Errors        int
}

// Runner executes a single indexing pass. It holds no state between runs;
// callers construct a fresh Runner per (project, package) pair.
type Runner struct {
	registry *extract.Registry
	chunker  *chunk.Chunker
	embedder embed.Embedder
	persist  Persister
	logger   arbor.ILogger
}

func NewRunner(registry *extract.Registry, chunker *chunk.Chunker, embedder embed.Embedder, persist Persister, logger arbor.ILogger) *Runner {
	if logger == nil {
		logger = common.GetLogger()
	}
	if registry == nil {
		registry = extract.NewRegistry(logger)
	}
	if chunker == nil {
		chunker = chunk.NewChunker()
	}
	return &Runner{registry: registry, chunker: chunker, embedder: embedder, persist: persist, logger: logger}
}

// Run walks opts.Root, extracts symbols, chunks documentation, embeds
// both, and persists the result. A cancelled context aborts before any
// RegisterPackage call, leaving the lake unchanged for this package (spec
// §5: the pipeline provides no partial-progress checkpointing).
func (r *Runner) Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats

	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = defaultMaxFileBytes
	}

	w, err := walker.New(walker.Options{
		Root:         opts.Root,
		Mode:         opts.WalkerMode,
		SkipTests:    opts.SkipTests,
		IncludeGlobs: opts.IncludeGlobs,
		ExcludeGlobs: opts.ExcludeGlobs,
	})
	if err != nil {
		return stats, zerrors.Wrap(zerrors.Io, err, "building walker for %s", opts.Root)
	}

	var symbolRows []model.ApiSymbolRow
	var chunkRows []model.DocChunkRow
	var pendingChunkTexts []string

	walkErr := w.Walk(func(e walker.Entry) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		stats.FilesScanned++

		if walker.IsBinary(e.Path) {
			stats.FilesSkipped++
			return nil
		}
		if e.Size > opts.MaxFileBytes {
			stats.FilesSkipped++
			return nil
		}

		content, readErr := os.ReadFile(e.AbsPath)
		if readErr != nil {
			r.logger.Warn().Err(readErr).Str("path", e.Path).Msg("failed to read file, skipping")
			stats.Errors++
			return nil
		}

		if err := r.persist.StoreSourceFile(ctx, model.SourceFileRow{
			ID:        common.HashID(opts.Ecosystem, opts.Package, opts.Version, e.Path),
			Ecosystem: opts.Ecosystem,
			Package:   opts.Package,
			Version:   opts.Version,
			FilePath:  e.Path,
			BlobKey:   e.Path,
			SizeBytes: len(content),
		}, content); err != nil {
			r.logger.Warn().Err(err).Str("path", e.Path).Msg("failed to cache source file")
			stats.Errors++
		}

		items := r.registry.Extract(e.Path, string(content))
		for _, it := range items {
			row := model.ApiSymbolRow{
				ID:         common.HashID(opts.Ecosystem, opts.Package, opts.Version, e.Path, it.Name, strconv.Itoa(it.StartLine)),
				Ecosystem:  opts.Ecosystem,
				Package:    opts.Package,
				Version:    opts.Version,
				FilePath:   e.Path,
				Kind:       it.Kind,
				Name:       it.Name,
				Signature:  it.Signature,
				DocComment: it.DocComment,
				StartLine:  it.StartLine,
				EndLine:    it.EndLine,
				Visibility: it.Visibility,
				Metadata:   it.Metadata,
			}
			symbolRows = append(symbolRows, row)
		}

		if walker.NeedsChunking(e.Path) {
			var chunks []chunk.Chunk
			if filepath.Ext(e.Path) == ".md" || filepath.Ext(e.Path) == ".markdown" {
				chunks = r.chunker.ChunkMarkdown(string(content))
			} else {
				chunks = r.chunker.ChunkPlainText(string(content))
			}
			for _, c := range chunks {
				row := model.DocChunkRow{
					ID:         common.HashID(opts.Ecosystem, opts.Package, opts.Version, e.Path, c.Heading, strconv.Itoa(c.Index)),
					Ecosystem:  opts.Ecosystem,
					Package:    opts.Package,
					Version:    opts.Version,
					FilePath:   e.Path,
					Heading:    c.Heading,
					Content:    c.Content,
					ChunkIndex: c.Index,
				}
				chunkRows = append(chunkRows, row)
				pendingChunkTexts = append(pendingChunkTexts, c.Content)
			}
		}

		stats.FilesIndexed++
		return nil
	})
	if walkErr != nil {
		return stats, zerrors.Wrap(zerrors.Io, walkErr, "walking %s", opts.Root)
	}

	if len(symbolRows) > 0 {
		vectors, err := embed.EmbedSymbols(ctx, r.embedder, rowsToItems(symbolRows))
		if err != nil {
			return stats, err
		}
		for i := range symbolRows {
			symbolRows[i].Embedding = vectors[i]
		}
		if err := r.persist.StoreSymbols(ctx, symbolRows); err != nil {
			return stats, zerrors.Wrap(zerrors.Io, err, "storing %d symbols", len(symbolRows))
		}
		stats.SymbolsStored = len(symbolRows)
	}

	if len(chunkRows) > 0 {
		vectors, err := embed.EmbedChunks(ctx, r.embedder, pendingChunkTexts)
		if err != nil {
			return stats, err
		}
		for i := range chunkRows {
			chunkRows[i].Embedding = vectors[i]
		}
		if err := r.persist.StoreDocChunks(ctx, chunkRows); err != nil {
			return stats, zerrors.Wrap(zerrors.Io, err, "storing %d doc chunks", len(chunkRows))
		}
		stats.ChunksStored = len(chunkRows)
	}

	if err := r.persist.RegisterPackage(ctx, opts.Ecosystem, opts.Package, opts.Version, stats.SymbolsStored, stats.ChunksStored); err != nil {
		return stats, zerrors.Wrap(zerrors.Io, err, "registering package %s/%s@%s", opts.Ecosystem, opts.Package, opts.Version)
	}

	return stats, nil
}

// rowsToItems recovers the ParsedItem view embed.EmbedSymbols expects;
// the pipeline already has the Name/Signature/DocComment on hand from the
// extraction step, so this only re-threads them rather than re-extracting.
func rowsToItems(rows []model.ApiSymbolRow) []model.ParsedItem {
	items := make([]model.ParsedItem, len(rows))
	for i, row := range rows {
		items[i] = model.ParsedItem{
			Name:       row.Name,
			Signature:  row.Signature,
			DocComment: row.DocComment,
		}
	}
	return items
}

