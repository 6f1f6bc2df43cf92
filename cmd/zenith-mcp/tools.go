package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func createSearchKnowledgeTool() mcp.Tool {
	return mcp.NewTool("search_knowledge",
		mcp.WithDescription("Search Zenith's indexed entities using full-text search (SQLite FTS5)"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("FTS5 query text (quoted phrases, +required, OR, AND)"),
		),
		mcp.WithString("entity_kind",
			mcp.Description("Restrict to one entity kind prefix: fnd, rsc, hyp, ins, iss, tsk, imp, cpt, stu"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 10, max: 100)"),
		),
	)
}

func createGetFindingTool() mcp.Tool {
	return mcp.NewTool("get_finding",
		mcp.WithDescription("Retrieve a single finding by its entity id"),
		mcp.WithString("finding_id",
			mcp.Required(),
			mcp.Description("Finding id (format: fnd-xxxxxxxx)"),
		),
	)
}

func createListFindingsTool() mcp.Tool {
	return mcp.NewTool("list_findings",
		mcp.WithDescription("List every finding visible to the caller"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results to return (default: 20)"),
		),
	)
}
