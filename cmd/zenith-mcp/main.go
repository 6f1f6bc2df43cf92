// zenith-mcp exposes Zenith's knowledge store as read-only MCP tools: the
// one piece of external interface surface this spec keeps (search and
// findings lookup), distinct from the CLI verb surface spec §6 leaves to
// an external collaborator. Grounded in the teacher's cmd/quaero-mcp
// (main.go's server-wiring shape, tools.go's mcp.NewTool declarations,
// handlers.go's ToolHandlerFunc pattern), narrowed to Zenith's entity
// model and carrying no write tools at all.
package main

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"

	"github.com/zenith-dev/zenith/internal/common"
	"github.com/zenith-dev/zenith/internal/lake"
	"github.com/zenith-dev/zenith/internal/search"
	"github.com/zenith-dev/zenith/internal/statestore"
)

func main() {
	configPath := os.Getenv("ZENITH_MCP_CONFIG")
	if configPath == "" {
		configPath = "zenith.toml"
	}

	var configFiles []string
	if _, err := os.Stat(configPath); err == nil {
		configFiles = append(configFiles, configPath)
	}
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Minimal console-only logging at warn level so stdio stays clean for
	// the MCP protocol, matching the teacher's quaero-mcp/main.go.
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	db, err := statestore.Open(statestore.DefaultConfig(config.Storage.SQLite.StatePath), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open state store")
	}
	defer db.Close()

	l, err := lake.Open(lake.DefaultConfig(config.Storage.Badger.Path), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open lake")
	}
	defer l.Close()

	store := statestore.NewStore(db)
	engine := search.NewEngine(store.Entities, search.LakeReader(l))

	mcpServer := server.NewMCPServer(
		"zenith",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createSearchKnowledgeTool(), handleSearchKnowledge(engine, logger))
	mcpServer.AddTool(createGetFindingTool(), handleGetFinding(store, logger))
	mcpServer.AddTool(createListFindingsTool(), handleListFindings(store, logger))

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
