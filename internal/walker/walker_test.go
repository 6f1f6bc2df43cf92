package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestLocalProjectRespectsGitignoreAndZenithDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "vendor/\n*.log\n")
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "vendor/dep.go", "package dep")
	writeFile(t, root, "debug.log", "noise")
	writeFile(t, root, ".zenith/state.db", "binary")

	w, err := New(Options{Root: root, Mode: LocalProject})
	require.NoError(t, err)

	var seen []string
	require.NoError(t, w.Walk(func(e Entry) error {
		seen = append(seen, e.Path)
		return nil
	}))

	assert.Contains(t, seen, "main.go")
	assert.NotContains(t, seen, "vendor/dep.go")
	assert.NotContains(t, seen, "debug.log")
	for _, p := range seen {
		assert.NotContains(t, p, ".zenith/")
	}
}

func TestLocalProjectHonorsZenithignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".zenithignore", "secrets/\n")
	writeFile(t, root, "secrets/key.pem", "x")
	writeFile(t, root, "app.py", "x")

	w, err := New(Options{Root: root, Mode: LocalProject})
	require.NoError(t, err)

	var seen []string
	require.NoError(t, w.Walk(func(e Entry) error {
		seen = append(seen, e.Path)
		return nil
	}))

	assert.Contains(t, seen, "app.py")
	assert.NotContains(t, seen, "secrets/key.pem")
}

func TestRawModeIgnoresGitignoreButHonorsGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.md\n")
	writeFile(t, root, "README.md", "x")
	writeFile(t, root, "main.go", "x")
	writeFile(t, root, "main_test.go", "x")

	w, err := New(Options{Root: root, Mode: Raw, IncludeGlobs: []string{"**/*.go"}})
	require.NoError(t, err)

	var seen []string
	require.NoError(t, w.Walk(func(e Entry) error {
		seen = append(seen, e.Path)
		return nil
	}))

	assert.NotContains(t, seen, "README.md") // include glob restricts to .go
	assert.Contains(t, seen, "main.go")
	assert.Contains(t, seen, "main_test.go")
}

func TestSkipTestsPredicate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "x")
	writeFile(t, root, "main_test.go", "x")
	writeFile(t, root, "tests/fixture.py", "x")

	w, err := New(Options{Root: root, Mode: Raw, SkipTests: true})
	require.NoError(t, err)

	var seen []string
	require.NoError(t, w.Walk(func(e Entry) error {
		seen = append(seen, e.Path)
		return nil
	}))

	assert.Contains(t, seen, "main.go")
	assert.NotContains(t, seen, "main_test.go")
	assert.NotContains(t, seen, "tests/fixture.py")
}

func TestExcludeGlobWinsOverInclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/keep.go", "x")
	writeFile(t, root, "src/generated.go", "x")

	w, err := New(Options{
		Root:         root,
		Mode:         Raw,
		IncludeGlobs: []string{"**/*.go"},
		ExcludeGlobs: []string{"**/generated.go"},
	})
	require.NoError(t, err)

	var seen []string
	require.NoError(t, w.Walk(func(e Entry) error {
		seen = append(seen, e.Path)
		return nil
	}))

	assert.Contains(t, seen, "src/keep.go")
	assert.NotContains(t, seen, "src/generated.go")
}

func TestIsTestPath(t *testing.T) {
	assert.True(t, IsTestPath("internal/foo/foo_test.go"))
	assert.True(t, IsTestPath("pkg/test_helpers.py"))
	assert.True(t, IsTestPath("component.test.tsx"))
	assert.True(t, IsTestPath("spec/models/user.spec.rb"))
	assert.True(t, IsTestPath("testdata/fixture.json"))
	assert.False(t, IsTestPath("internal/foo/foo.go"))
}
