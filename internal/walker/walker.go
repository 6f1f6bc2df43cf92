// Package walker enumerates project files for the indexing pipeline
// (spec §4.8), grounded in the teacher's own directory-scanning worker
// (internal/queue/workers/local_dir_worker.go) but generalized from a
// one-shot filepath.Walk batch-job initializer into a reusable iterator
// with mode-aware ignore handling.
package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// Mode selects which standard ignore rules apply (spec §4.8).
type Mode string

const (
	// LocalProject respects .gitignore and .zenithignore and always
	// excludes .zenith/, matching the teacher's always-skip-.git rule.
	LocalProject Mode = "local_project"
	// Raw applies no standard ignore rules; only explicit include/exclude
	// globs and the optional skip-tests predicate apply. Used to index a
	// freshly cloned upstream repository verbatim.
	Raw Mode = "raw"
)

// Entry describes one file discovered by the walker.
type Entry struct {
	// Path is relative to root, using forward slashes.
	Path string
	// AbsPath is the absolute filesystem path.
	AbsPath string
	Size    int64
}

// Options configures a single walk (spec §4.8's build_walker parameters).
type Options struct {
	Root         string
	Mode         Mode
	SkipTests    bool
	IncludeGlobs []string
	ExcludeGlobs []string
}

// zenithStateDir is always excluded in LocalProject mode regardless of
// .gitignore contents, since it holds Zenith's own state and must never
// be re-indexed as project content.
const zenithStateDir = ".zenith"

// Walker iterates project files according to Options, composing
// .gitignore/.zenithignore (LocalProject) or bare include/exclude globs
// (Raw) with the shared skip-tests predicate.
type Walker struct {
	opts       Options
	gitIgnore  *gitignore.GitIgnore
	zenIgnore  *gitignore.GitIgnore
}

// New constructs a Walker, loading .gitignore and .zenithignore from root
// when Mode is LocalProject. Missing ignore files are not an error — an
// absent file behaves as an empty ignore list.
func New(opts Options) (*Walker, error) {
	w := &Walker{opts: opts}
	if opts.Mode == LocalProject {
		if gi, err := gitignore.CompileIgnoreFile(filepath.Join(opts.Root, ".gitignore")); err == nil {
			w.gitIgnore = gi
		}
		if zi, err := gitignore.CompileIgnoreFile(filepath.Join(opts.Root, ".zenithignore")); err == nil {
			w.zenIgnore = zi
		}
	}
	return w, nil
}

// Walk invokes fn for every file entry that survives ignore rules, the
// include/exclude glob filters, and the skip-tests predicate, in
// lexical filepath.Walk order.
func (w *Walker) Walk(fn func(Entry) error) error {
	root := w.opts.Root
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		if info.IsDir() {
			if w.shouldSkipDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !w.matches(relPath, info.Size()) {
			return nil
		}

		return fn(Entry{Path: relPath, AbsPath: path, Size: info.Size()})
	})
}

func (w *Walker) shouldSkipDir(relPath string) bool {
	if w.opts.Mode == LocalProject {
		if relPath == ".git" || strings.HasPrefix(relPath, ".git/") {
			return true
		}
		if relPath == zenithStateDir || strings.HasPrefix(relPath, zenithStateDir+"/") {
			return true
		}
		if w.gitIgnore != nil && w.gitIgnore.MatchesPath(relPath+"/") {
			return true
		}
		if w.zenIgnore != nil && w.zenIgnore.MatchesPath(relPath+"/") {
			return true
		}
	}
	return false
}

func (w *Walker) matches(relPath string, size int64) bool {
	if w.opts.Mode == LocalProject {
		if w.gitIgnore != nil && w.gitIgnore.MatchesPath(relPath) {
			return false
		}
		if w.zenIgnore != nil && w.zenIgnore.MatchesPath(relPath) {
			return false
		}
	}

	if w.opts.SkipTests && IsTestPath(relPath) {
		return false
	}

	if len(w.opts.IncludeGlobs) > 0 && !matchesAny(w.opts.IncludeGlobs, relPath) {
		return false
	}
	// Exclude wins over include when both match the same path.
	if matchesAny(w.opts.ExcludeGlobs, relPath) {
		return false
	}

	return true
}

func matchesAny(globs []string, relPath string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// testDirNames are conventional test-only directories skipped by the
// shared skip-tests predicate across both walker modes.
var testDirNames = map[string]bool{
	"test": true, "tests": true, "__tests__": true, "testdata": true,
	"spec": true, "specs": true, "__pycache__": true,
}

// IsTestPath reports whether relPath looks like test-only content: a
// conventional test directory segment, or a filename carrying a
// _test/.test./.spec. marker recognized across the languages the
// extractor registry supports.
func IsTestPath(relPath string) bool {
	segments := strings.Split(relPath, "/")
	for _, seg := range segments[:len(segments)-1] {
		if testDirNames[strings.ToLower(seg)] {
			return true
		}
	}
	base := segments[len(segments)-1]
	lower := strings.ToLower(base)
	ext := filepath.Ext(lower)
	stem := strings.TrimSuffix(lower, ext)
	return strings.HasSuffix(stem, "_test") ||
		strings.HasSuffix(stem, ".test") ||
		strings.HasSuffix(stem, ".spec") ||
		strings.HasPrefix(stem, "test_")
}
