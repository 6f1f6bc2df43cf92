package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/zenith-dev/zenith/internal/model"
	"github.com/zenith-dev/zenith/internal/search"
	"github.com/zenith-dev/zenith/internal/statestore"
)

func textResult(text string) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}, nil
}

// handleSearchKnowledge implements search_knowledge as a read-only FTS5
// query (spec §4.7's ModeFTS): no embedding is available to an MCP client,
// so vector/hybrid modes are not offered here.
func handleSearchKnowledge(engine *search.Engine, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return textResult("Error: query parameter is required")
		}
		limit := request.GetInt("limit", 10)
		if limit > 100 {
			limit = 100
		}
		kind := model.EntityKind(request.GetString("entity_kind", ""))

		results, err := engine.Query(ctx, search.ModeFTS, query, nil, "", "", "", kind, search.VectorFilter{}, model.Anonymous, limit)
		if err != nil {
			logger.Error().Err(err).Msg("search_knowledge failed")
			return textResult(fmt.Sprintf("Search error: %v", err))
		}
		return textResult(formatSearchResults(query, results))
	}
}

// handleGetFinding implements get_finding against the typed Findings repo.
func handleGetFinding(store *statestore.Store, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("finding_id")
		if err != nil || id == "" {
			return textResult("Error: finding_id parameter is required")
		}
		finding, err := store.Findings.Get(ctx, id, model.Anonymous)
		if err != nil {
			logger.Error().Err(err).Str("finding_id", id).Msg("get_finding failed")
			return textResult(fmt.Sprintf("Finding not found: %v", err))
		}
		return textResult(formatFinding(finding))
	}
}

// handleListFindings implements list_findings over every finding visible
// to the (anonymous, public-scoped) caller.
func handleListFindings(store *statestore.Store, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)

		findings, err := store.Findings.List(ctx, model.Anonymous)
		if err != nil {
			logger.Error().Err(err).Msg("list_findings failed")
			return textResult(fmt.Sprintf("List error: %v", err))
		}
		if limit > 0 && len(findings) > limit {
			findings = findings[:limit]
		}
		return textResult(formatFindingList(findings))
	}
}
