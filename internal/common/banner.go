package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner.
func PrintBanner(config *Config, logger arbor.ILogger) {
	version := GetVersion()
	build := GetBuild()

	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(80)

	fmt.Printf("\n")
	b.PrintTopLine()
	b.PrintCenteredText("ZENITH")
	b.PrintCenteredText("Developer Knowledge Toolbox")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", version, 15)
	b.PrintKeyValue("Build", build, 15)
	b.PrintKeyValue("Project", config.Project.Root, 15)
	b.PrintBottomLine()
	fmt.Printf("\n")

	logger.Info().
		Str("version", version).
		Str("build", build).
		Str("project_root", config.Project.Root).
		Str("state_db", config.Storage.SQLite.StatePath).
		Str("lake_path", config.Storage.Badger.Path).
		Msg("Zenith started")

	printCapabilities(config, logger)
	fmt.Printf("\n")
}

// printCapabilities displays the system capabilities.
func printCapabilities(config *Config, logger arbor.ILogger) {
	fmt.Printf("Capabilities:\n")
	fmt.Printf("   - Relational state store with FTS5 search (modernc.org/sqlite)\n")
	fmt.Printf("   - Columnar lake cache for symbols, chunks and embeddings\n")
	fmt.Printf("   - Multi-language extractor registry\n")
	fmt.Printf("   - Append-only audit trail and per-session operations log\n")

	logger.Info().
		Str("search_mode", config.Search.DefaultMode).
		Int("embedding_dim", config.Embedding.Dimension).
		Bool("hooks_enabled", config.Hooks.Enabled).
		Msg("Zenith capabilities")
}

// PrintShutdownBanner displays the shutdown banner.
func PrintShutdownBanner(logger arbor.ILogger) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(42)

	b.PrintTopLine()
	b.PrintCenteredText("SHUTTING DOWN")
	b.PrintCenteredText("ZENITH")
	b.PrintBottomLine()
	fmt.Println()

	logger.Info().Msg("Zenith shutting down")
}

// PrintColorizedMessage prints a message with the given color. It does not
// log; the Print* helpers below log the message themselves.
func PrintColorizedMessage(color, message string, logger arbor.ILogger) {
	fmt.Printf("%s%s%s\n", color, message, banner.ColorReset)
}

func PrintSuccess(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorGreen, fmt.Sprintf("[ok] %s", message), logger)
	logger.Info().Str("type", "success").Msg(message)
}

func PrintError(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorRed, fmt.Sprintf("[error] %s", message), logger)
	logger.Error().Str("type", "error").Msg(message)
}

func PrintWarning(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorYellow, fmt.Sprintf("[warn] %s", message), logger)
	logger.Warn().Str("type", "warning").Msg(message)
}

func PrintInfo(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorCyan, fmt.Sprintf("[info] %s", message), logger)
	logger.Info().Str("type", "info").Msg(message)
}
