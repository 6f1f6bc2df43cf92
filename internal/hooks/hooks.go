// Package hooks implements the VCS hook installer (spec §4.9): install,
// uninstall, and status for the three managed hook scripts in a repo's
// .git/hooks directory. Grounded in the teacher's file-handling idiom in
// internal/lake/lake.go (MkdirAll + WriteFile with explicit permissions,
// zerrors.Io wrapping on every filesystem failure) since no git-hook
// management library exists anywhere in the retrieval pack — this is a
// small, self-contained file-write concern, not a candidate for a
// third-party dependency.
package hooks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/zenith-dev/zenith/internal/zerrors"
)

// Name is the closed set of hook scripts Zenith manages (spec §4.9).
type Name string

const (
	PreCommit   Name = "pre-commit"
	PostCheckout Name = "post-checkout"
	PostMerge   Name = "post-merge"
)

var managedHooks = []Name{PreCommit, PostCheckout, PostMerge}

// Strategy is how Install behaves when a hook script already exists at the
// VCS hook path and it wasn't installed by Zenith.
type Strategy string

const (
	// StrategyChain wraps the user's existing hook: the prior script is
	// backed up to <name>.user and the installed script invokes it before
	// running Zenith's own hook body.
	StrategyChain Strategy = "chain"
	// StrategyRefuse skips installation of that one hook, leaving the
	// user's script untouched.
	StrategyRefuse Strategy = "refuse"
)

// managedMarker is the comment line that identifies a script as
// Zenith-installed, whether plain or chain-wrapped (spec §6's on-disk
// layout note).
const managedMarker = "# Zenith managed hook"
const chainMarker = managedMarker + " (chain)"

// Status is one of the five states spec §4.9 names for a single hook.
type Status string

const (
	StatusOK               Status = "ok"
	StatusMissingScript    Status = "missing_script"
	StatusNotExecutable    Status = "not_executable"
	StatusMissingGitHook   Status = "missing_git_hook"
	StatusMiswired         Status = "miswired"
)

// Installer manages hook scripts for one repository.
type Installer struct {
	// ZenithHooksDir is <project>/.zenith/hooks/<hook-name> — the script
	// body Zenith owns, independent of what's installed into the VCS dir.
	ZenithHooksDir string
	// GitHooksDir is the VCS hook directory (.git/hooks, or the
	// core.hooksPath override if one is configured).
	GitHooksDir string
	Strategy    Strategy
}

func New(zenithHooksDir, gitHooksDir string, strategy Strategy) *Installer {
	if strategy == "" {
		strategy = StrategyChain
	}
	return &Installer{ZenithHooksDir: zenithHooksDir, GitHooksDir: gitHooksDir, Strategy: strategy}
}

func (i *Installer) scriptPath(name Name) string {
	return filepath.Join(i.ZenithHooksDir, string(name))
}

func (i *Installer) gitHookPath(name Name) string {
	return filepath.Join(i.GitHooksDir, string(name))
}

func (i *Installer) backupPath(name Name) string {
	return i.gitHookPath(name) + ".user"
}

// InstallAll writes every managed hook's Zenith script and wires it into
// GitHooksDir, per-hook, according to Strategy. It returns per-hook errors
// rather than failing fast, so a conflict on one hook doesn't block the
// others.
func (i *Installer) InstallAll(body func(Name) string) map[Name]error {
	results := make(map[Name]error, len(managedHooks))
	for _, n := range managedHooks {
		results[n] = i.Install(n, body(n))
	}
	return results
}

// Install writes scriptBody to ZenithHooksDir/<name> and wires the VCS
// hook to invoke it, applying Strategy when a non-managed script already
// occupies the git hook path.
func (i *Installer) Install(name Name, scriptBody string) error {
	if err := os.MkdirAll(i.ZenithHooksDir, 0o755); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "creating zenith hooks directory")
	}
	scriptPath := i.scriptPath(name)
	if err := os.WriteFile(scriptPath, []byte(scriptBody), 0o755); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "writing hook script %s", name)
	}

	if err := os.MkdirAll(i.GitHooksDir, 0o755); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "creating git hooks directory")
	}
	gitHookPath := i.gitHookPath(name)

	existing, readErr := os.ReadFile(gitHookPath)
	hasExisting := readErr == nil
	alreadyManaged := hasExisting && strings.Contains(string(existing), managedMarker)

	if hasExisting && !alreadyManaged {
		switch i.Strategy {
		case StrategyRefuse:
			return zerrors.New(zerrors.InvalidState, "git hook %s already exists and is not zenith-managed; refusing to overwrite", name)
		case StrategyChain:
			if err := os.WriteFile(i.backupPath(name), existing, 0o755); err != nil {
				return zerrors.Wrap(zerrors.Io, err, "backing up existing hook %s", name)
			}
			wrapper := chainWrapperScript(i.backupPath(name), scriptPath)
			return writeExecutable(gitHookPath, wrapper)
		}
	}

	return writeExecutable(gitHookPath, plainWrapperScript(scriptPath))
}

func writeExecutable(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return zerrors.Wrap(zerrors.Io, err, "writing %s", path)
	}
	return nil
}

func plainWrapperScript(scriptPath string) string {
	return "#!/bin/sh\n" + managedMarker + "\nexec " + scriptPath + " \"$@\"\n"
}

func chainWrapperScript(backupPath, scriptPath string) string {
	return "#!/bin/sh\n" + chainMarker + "\n" +
		"if [ -x " + backupPath + " ]; then " + backupPath + " \"$@\" || exit $?; fi\n" +
		"exec " + scriptPath + " \"$@\"\n"
}

// Uninstall removes the VCS wiring for name, restoring the backed-up
// user script if Install had chained one (spec §4.9: "Uninstall restores
// the backup").
func (i *Installer) Uninstall(name Name) error {
	gitHookPath := i.gitHookPath(name)
	backup := i.backupPath(name)

	if _, err := os.Stat(backup); err == nil {
		if err := os.Rename(backup, gitHookPath); err != nil {
			return zerrors.Wrap(zerrors.Io, err, "restoring backup hook %s", name)
		}
		return nil
	}

	if err := os.Remove(gitHookPath); err != nil && !os.IsNotExist(err) {
		return zerrors.Wrap(zerrors.Io, err, "removing git hook %s", name)
	}
	return nil
}

// StatusOf reports one of spec §4.9's five states for name.
func (i *Installer) StatusOf(name Name) Status {
	scriptInfo, scriptErr := os.Stat(i.scriptPath(name))
	if scriptErr != nil {
		return StatusMissingScript
	}
	if scriptInfo.Mode()&0o111 == 0 {
		return StatusNotExecutable
	}

	gitHookContent, gitErr := os.ReadFile(i.gitHookPath(name))
	if gitErr != nil {
		return StatusMissingGitHook
	}
	if !strings.Contains(string(gitHookContent), managedMarker) {
		return StatusMiswired
	}
	if !strings.Contains(string(gitHookContent), i.scriptPath(name)) {
		return StatusMiswired
	}
	return StatusOK
}

// AllStatuses reports StatusOf for every managed hook.
func (i *Installer) AllStatuses() map[Name]Status {
	out := make(map[Name]Status, len(managedHooks))
	for _, n := range managedHooks {
		out[n] = i.StatusOf(n)
	}
	return out
}

// HooksPathOverride reports whether a project's git config sets
// core.hooksPath away from the default .git/hooks — surfaced as a warning
// rather than an error (spec §4.9): Zenith still installs into whatever
// directory the caller configured as GitHooksDir, it just flags that the
// installed scripts may not be where `git config core.hooksPath` expects
// unless GitHooksDir was set to match it.
func HooksPathOverride(repoRoot, configuredGitHooksDir string) (overridden bool, configuredPath string) {
	gitConfigPath := filepath.Join(repoRoot, ".git", "config")
	content, err := os.ReadFile(gitConfigPath)
	if err != nil {
		return false, ""
	}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "hooksPath") || strings.HasPrefix(line, "hooksPath =") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				path := strings.TrimSpace(parts[1])
				return path != "" && path != configuredGitHooksDir, path
			}
		}
	}
	return false, ""
}
