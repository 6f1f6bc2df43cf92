package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/zenith-dev/zenith/internal/audit"
	"github.com/zenith-dev/zenith/internal/catalog"
	"github.com/zenith-dev/zenith/internal/chunk"
	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/embed"
	"github.com/zenith-dev/zenith/internal/extract"
	"github.com/zenith-dev/zenith/internal/hooks"
	"github.com/zenith-dev/zenith/internal/identity"
	"github.com/zenith-dev/zenith/internal/lake"
	"github.com/zenith-dev/zenith/internal/onboard"
	"github.com/zenith-dev/zenith/internal/pipeline"
	"github.com/zenith-dev/zenith/internal/search"
	"github.com/zenith-dev/zenith/internal/service"
	"github.com/zenith-dev/zenith/internal/statestore"
)

// configPaths is a custom flag type that allows multiple -config flags,
// kept in the teacher's idiom (cmd/quaero/main.go).
type configPaths []string

func (c *configPaths) String() string { return fmt.Sprintf("%v", *c) }
func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	projectRoot = flag.String("project", "", "Project root (overrides config)")
	embedderURL = flag.String("embedder-url", "http://127.0.0.1:8090", "Embedding server base URL")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
}

// This binary is a composition root, not a command-line interface: it
// parses just enough to locate a project and config, then wires every
// library package together and blocks until an interrupt or SIGTERM
// arrives. The verb surface spec §6 names
// (search, session, finding, link, wrap-up, onboard, hook, ...) is an
// external collaborator's argument-parsing layer; main only proves the
// wiring, the same role cmd/quaero/main.go plays for the teacher's HTTP
// server before server.New takes over.
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("zenithd version %s\n", common.GetVersion())
		return
	}

	if len(configFiles) == 0 {
		if _, err := os.Stat("zenith.toml"); err == nil {
			configFiles = append(configFiles, "zenith.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	common.ApplyFlagOverrides(config, *projectRoot)

	logger := common.SetupLogger(config)
	common.PrintBanner(config, logger)
	defer common.Stop()

	common.InstallCrashHandler(filepath.Join(config.Project.Root, ".zenith", "crashes"))
	defer common.RecoverWithCrashFile()

	store, closeFn, err := wireStore(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open state store / lake")
	}
	defer closeFn()

	id, err := identity.NewResolver(&config.Auth).Resolve()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to resolve identity; continuing as anonymous")
	}

	svc := service.New(store.store, store.trail, id, logger)
	cat := catalog.New(store.db)
	engine := search.NewEngine(store.store.Entities, store.lakeReader())
	hookInstaller := hooks.New(".zenith/hooks", ".git/hooks", hooks.Strategy(config.Hooks.Strategy))
	runner := pipeline.NewRunner(extract.NewRegistry(logger), chunk.NewChunker(), wireEmbedder(config), store.lake, logger)
	onboarder := onboard.New(cat, runner, logger)

	logger.Info().
		Bool("hooks_enabled", config.Hooks.Enabled).
		Str("search_default_mode", config.Search.DefaultMode).
		Msg("zenithd ready")

	// Keep the process resident long enough for an external driver (tests,
	// an MCP client, a future CLI process) to attach; svc/engine/onboarder/
	// hookInstaller are the surface such a driver would call into.
	_ = svc
	_ = engine
	_ = onboarder
	_ = hookInstaller

	waitForSignal(logger)
}

func waitForSignal(logger arbor.ILogger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	common.PrintShutdownBanner(logger)
}

// storeHandle bundles the two local storage backends so main only has one
// thing to open/close, mirroring cmd/quaero/main.go's single `application`
// handle.
type storeHandle struct {
	db    *statestore.DB
	store *statestore.Store
	lake  *lake.Lake
	trail audit.Writer
}

func (h *storeHandle) lakeReader() search.LakeReader { return search.LakeReader(h.lake) }

func wireStore(config *common.Config, logger arbor.ILogger) (*storeHandle, func(), error) {
	dbCfg := statestore.DefaultConfig(config.Storage.SQLite.StatePath)
	db, err := statestore.Open(dbCfg, logger)
	if err != nil {
		return nil, nil, err
	}
	lakeCfg := lake.DefaultConfig(config.Storage.Badger.Path)
	lakeCfg.ResetOnStartup = config.Storage.Badger.ResetOnStartup && !config.IsProduction()
	l, err := lake.Open(lakeCfg, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	trailDir := filepath.Join(config.Project.Root, ".zenith", "trails")
	trail := audit.NewFileWriter(trailDir, common.NewSessionID(), logger)

	h := &storeHandle{db: db, store: statestore.NewStore(db), lake: l, trail: trail}
	return h, func() {
		l.Close()
		db.Close()
	}, nil
}

func wireEmbedder(config *common.Config) embed.Embedder {
	timeout, _ := time.ParseDuration(config.Embedding.Timeout)
	base := embed.NewHTTPEmbedder(*embedderURL, timeout)
	retryCfg := embed.NewDefaultRetryConfig()
	if config.Embedding.MaxRetry > 0 {
		retryCfg.MaxRetries = config.Embedding.MaxRetry
	}
	return embed.NewRetryingEmbedder(base, retryCfg, nil)
}
