// Package onboard implements the one-shot project-adoption flow spec §6's
// `onboard [--root] [--ecosystem] [--workspace] [--skip-indexing]` verb
// describes: locate the project root, optionally default ecosystem/package
// from the upstream GitHub remote, validate any configured periodic
// re-index schedule, and (unless skipped) run one indexing pass and
// register the result in the catalog. The CLI verb itself is an external
// collaborator's job (spec §1); this package is the library call a verb
// implementation would make.
package onboard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	ghclient "github.com/google/go-github/v57/github"
	"github.com/robfig/cron/v3"

	"github.com/zenith-dev/zenith/internal/catalog"
	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/pipeline"
	"github.com/zenith-dev/zenith/internal/walker"
	"github.com/zenith-dev/zenith/internal/zerrors"
)

// Options mirrors the onboard verb's flags.
type Options struct {
	Root          string
	Ecosystem     string
	Package       string
	Version       string
	Workspace     bool
	SkipIndexing  bool
	Visibility    model.CatalogVisibility
	ReindexCron   string // validated, never scheduled here (spec §1 Non-goals: no real-time collaboration)
}

// Result reports what onboarding did.
type Result struct {
	RepoRoot         string
	Ecosystem        string
	Package          string
	RemoteOwner      string
	RemoteName       string
	UpstreamProbed   bool
	ScheduleValid    bool
	CatalogSnapshot  string
	IndexStats       *pipeline.Stats
}

// Onboarder runs the onboarding flow for one invocation. ghClient is
// unauthenticated by default (public repo metadata only); the identity
// capability, like everywhere else in Zenith, is supplied by the caller,
// never minted here.
type Onboarder struct {
	catalog  *catalog.Catalog
	runner   *pipeline.Runner
	ghClient *ghclient.Client
	logger   arbor.ILogger
}

func New(cat *catalog.Catalog, runner *pipeline.Runner, logger arbor.ILogger) *Onboarder {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Onboarder{catalog: cat, runner: runner, ghClient: ghclient.NewClient(nil), logger: logger}
}

// Run executes onboarding for opts. A missing .git directory is not fatal
// (a project can be onboarded without version control); the remote probe
// is best-effort and only ever downgrades rather than aborts the run,
// matching spec §1's "errors surfaced, not retried" posture for optional
// metadata. An invalid opts.ReindexCron, by contrast, aborts the run with
// ValidateSchedule's error before any indexing.
func (o *Onboarder) Run(ctx context.Context, opts Options) (Result, error) {
	root, err := detectRepoRoot(opts.Root)
	if err != nil {
		return Result{}, err
	}
	result := Result{RepoRoot: root, Ecosystem: opts.Ecosystem, Package: opts.Package}

	if opts.Ecosystem == "" || opts.Package == "" {
		owner, name, ok := parseGitHubRemote(root)
		if ok {
			result.RemoteOwner, result.RemoteName = owner, name
			if eco, pkg, probed := o.probeUpstream(ctx, owner, name); probed {
				result.UpstreamProbed = true
				if opts.Ecosystem == "" {
					result.Ecosystem = eco
				}
				if opts.Package == "" {
					result.Package = name
					_ = pkg
				}
			}
		}
	}
	if result.Ecosystem == "" {
		result.Ecosystem = "generic"
	}
	if result.Package == "" {
		result.Package = filepath.Base(root)
	}

	if opts.ReindexCron != "" {
		if err := ValidateSchedule(opts.ReindexCron); err != nil {
			return result, err
		}
		result.ScheduleValid = true
	}

	if !opts.SkipIndexing && o.runner != nil {
		mode := walker.LocalProject
		if opts.Workspace {
			mode = walker.Raw
		}
		stats, err := o.runner.Run(ctx, pipeline.Options{
			Root:       root,
			Ecosystem:  result.Ecosystem,
			Package:    result.Package,
			Version:    opts.Version,
			WalkerMode: mode,
		})
		if err != nil {
			return result, err
		}
		result.IndexStats = &stats
	}

	if o.catalog != nil {
		visibility := opts.Visibility
		if visibility == "" {
			visibility = model.VisibilityPrivate
		}
		id, err := o.catalog.Register(ctx, model.DataFile{
			Ecosystem:  result.Ecosystem,
			Package:    result.Package,
			Version:    opts.Version,
			LancePath:  filepath.Join(root, ".zenith", "lake"),
			Visibility: visibility,
		})
		if err != nil {
			return result, err
		}
		result.CatalogSnapshot = id
	}

	return result, nil
}

// ValidateSchedule parses expr with the standard five-field cron grammar,
// the same validation robfig/cron performs before accepting a schedule —
// Zenith never runs a scheduler itself (spec §1 Non-goals exclude
// real-time collaboration/background services), it only confirms an
// onboarding-supplied schedule string is well-formed before persisting it
// to config for whatever external scheduler eventually reads it.
func ValidateSchedule(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return zerrors.Wrap(zerrors.Other, err, "invalid reindex schedule %q", expr)
	}
	return nil
}

// detectRepoRoot walks upward from start looking for a .git directory,
// falling back to start itself when none is found (a project need not be
// under version control to be onboarded).
func detectRepoRoot(start string) (string, error) {
	if start == "" {
		start = "."
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", zerrors.Wrap(zerrors.Io, err, "resolving onboard root %s", start)
	}
	dir := abs
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// parseGitHubRemote reads .git/config looking for a github.com "origin"
// remote URL, the same line-scan idiom internal/hooks.HooksPathOverride
// uses for core.hooksPath.
func parseGitHubRemote(repoRoot string) (owner, name string, ok bool) {
	data, err := os.ReadFile(filepath.Join(repoRoot, ".git", "config"))
	if err != nil {
		return "", "", false
	}
	var url string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "url") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 && strings.Contains(parts[1], "github.com") {
				url = strings.TrimSpace(parts[1])
				break
			}
		}
	}
	if url == "" {
		return "", "", false
	}
	return ownerNameFromURL(url)
}

func ownerNameFromURL(url string) (owner, name string, ok bool) {
	url = strings.TrimSuffix(url, ".git")
	url = strings.TrimSuffix(url, "/")
	idx := strings.LastIndex(url, "github.com")
	if idx < 0 {
		return "", "", false
	}
	tail := url[idx+len("github.com"):]
	tail = strings.TrimPrefix(tail, ":")
	tail = strings.TrimPrefix(tail, "/")
	parts := strings.Split(tail, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// probeUpstream asks GitHub for the repo's default language, used only to
// default --ecosystem when the caller didn't supply one. Network/auth
// failures are swallowed: this metadata is a convenience, not a
// requirement, and onboarding must still succeed offline.
func (o *Onboarder) probeUpstream(ctx context.Context, owner, name string) (ecosystem, pkg string, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second) // spec §5: only the git-clone/probe path gets an explicit timeout
	defer cancel()

	repo, _, err := o.ghClient.Repositories.Get(ctx, owner, name)
	if err != nil || repo == nil {
		o.logger.Debug().Err(err).Str("owner", owner).Str("repo", name).Msg("upstream repo metadata probe failed; defaulting ecosystem/package locally")
		return "", "", false
	}
	return strings.ToLower(repo.GetLanguage()), repo.GetName(), repo.GetLanguage() != ""
}
