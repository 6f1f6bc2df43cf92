// Package extract implements Zenith's Extractor Registry: a dispatcher that
// picks a per-language scanner by file extension and normalizes every
// scanner's output into the universal model.ParsedItem contract (spec §4.1).
//
// Every extractor here is a plain regex/line scanner, never an AST library:
// grounded in the teacher's internal/services/identifiers/extractor.go and
// internal/services/metadata/extractor.go idiom (a struct holding compiled
// patterns, methods returning []string/[]ParsedItem, no parser generator).
package extract

import (
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/model"
)

// Extractor is the universal contract every language scanner implements
// (spec §4.1): given raw file content, produce items in source order.
type Extractor interface {
	// Language is the extractor's canonical name, used for logging and the
	// conformance suite's per-extractor loop.
	Language() string
	// Extract scans content and returns ParsedItems in source order.
	Extract(content string) ([]model.ParsedItem, error)
}

// Registry dispatches a file path to the Extractor registered for its
// extension.
type Registry struct {
	byExt  map[string]Extractor
	logger arbor.ILogger
}

// NewRegistry builds the registry with every built-in language extractor
// registered (spec §4.1 language list). A nil logger falls back to the
// process-wide logger, matching the teacher's constructor idiom.
func NewRegistry(logger arbor.ILogger) *Registry {
	if logger == nil {
		logger = common.GetLogger()
	}
	r := &Registry{byExt: make(map[string]Extractor), logger: logger}

	r.register([]string{".rs"}, NewRustExtractor())
	r.register([]string{".go"}, NewGoExtractor())
	r.register([]string{".py", ".pyi"}, NewPythonExtractor())
	r.register([]string{".ts"}, NewTypeScriptExtractor())
	r.register([]string{".tsx"}, NewTSXExtractor())
	r.register([]string{".js", ".jsx", ".mjs", ".cjs"}, NewJavaScriptExtractor())
	r.register([]string{".java"}, NewBraceExtractor(javaProfile))
	r.register([]string{".cs"}, NewBraceExtractor(csharpProfile))
	r.register([]string{".php"}, NewBraceExtractor(phpProfile))
	r.register([]string{".kt", ".kts"}, NewBraceExtractor(kotlinProfile))
	r.register([]string{".swift"}, NewBraceExtractor(swiftProfile))
	r.register([]string{".c", ".h"}, NewCExtractor())
	r.register([]string{".cc", ".cpp", ".cxx", ".hpp", ".hh"}, NewCppExtractor())
	r.register([]string{".rb"}, NewEndKeywordExtractor(rubyProfile))
	r.register([]string{".lua"}, NewEndKeywordExtractor(luaProfile))
	r.register([]string{".ex", ".exs"}, NewElixirExtractor())
	r.register([]string{".css", ".scss", ".less"}, NewCSSExtractor())
	r.register([]string{".html", ".htm"}, NewHTMLExtractor())
	r.register([]string{".svelte"}, NewSvelteExtractor())
	r.register([]string{".json", ".jsonc"}, NewJSONExtractor())
	r.register([]string{".yaml", ".yml"}, NewYAMLExtractor())
	r.register([]string{".toml"}, NewTOMLExtractor())
	r.register([]string{".md", ".markdown"}, NewMarkdownExtractor())
	r.register([]string{".rst"}, NewRSTExtractor())
	r.register([]string{".txt"}, NewTextExtractor())

	return r
}

func (r *Registry) register(exts []string, e Extractor) {
	for _, ext := range exts {
		r.byExt[ext] = e
	}
}

// ForPath returns the extractor registered for a file's extension, and
// whether one was found. Callers with no match should fall back to the
// plain-text extractor explicitly rather than treat it as an error (spec
// §4.8: format detection never blocks a walk).
func (r *Registry) ForPath(path string) (Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	return e, ok
}

// Extract dispatches path to its extractor and runs it, logging and
// swallowing per-file extraction errors as empty results (a single
// malformed file never aborts an indexing run, spec §4.2/§4.8).
func (r *Registry) Extract(path, content string) []model.ParsedItem {
	e, ok := r.ForPath(path)
	if !ok {
		e = NewTextExtractor()
	}
	items, err := e.Extract(content)
	if err != nil {
		r.logger.Warn().Str("path", path).Str("language", e.Language()).Err(err).Msg("extraction failed, skipping file")
		return nil
	}
	return items
}

// Languages lists every registered extractor's Language(), deduplicated,
// in map iteration order (not sorted).
func (r *Registry) Languages() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, e := range r.byExt {
		if !seen[e.Language()] {
			seen[e.Language()] = true
			langs = append(langs, e.Language())
		}
	}
	return langs
}
