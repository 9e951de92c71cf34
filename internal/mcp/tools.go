package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateKeywordsTool defines the generate_keywords MCP tool.
var generateKeywordsTool = mcp.NewTool("generate_keywords",
	mcp.WithDescription("Generate single-word SEO keywords for microstock image titles (Adobe Stock, Vecteezy, Freepik). Each title gets its own keyword group; the result is saved to history."),
	mcp.WithArray("titles",
		mcp.Required(),
		mcp.Description("Image or vector titles, one keyword group per title"),
		mcp.WithStringItems(),
	),
	mcp.WithNumber("count",
		mcp.Description("Keywords per title, between 5 and 50 (default 45)"),
	),
)

// listHistoryTool defines the list_history MCP tool.
var listHistoryTool = mcp.NewTool("list_history",
	mcp.WithDescription("List recent keyword generations, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of items to return (default 20)"),
	),
)

// getHistoryItemTool defines the get_history_item MCP tool.
var getHistoryItemTool = mcp.NewTool("get_history_item",
	mcp.WithDescription("Get every keyword group of one history item, plus the de-duplicated keyword list."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("History item id as returned by list_history"),
	),
)
