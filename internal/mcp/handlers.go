package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/generator"
	"github.com/ziadkadry99/stockseo/internal/history"
)

// handleGenerateKeywords runs one generation for the given titles.
func (s *Server) handleGenerateKeywords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	titles := request.GetStringSlice("titles", nil)
	if len(titles) == 0 {
		return mcp.NewToolResultError("missing required parameter: titles"), nil
	}
	count := request.GetInt("count", generator.DefaultCount)

	groups, err := s.orch.Generate(ctx, strings.Join(titles, "\n"), count)
	if err != nil {
		s.log.Debug("generate_keywords failed", zap.Error(err))
		return mcp.NewToolResultError(generator.Message(err, s.catalog(ctx))), nil
	}

	return mcp.NewToolResultText(formatGroups(groups)), nil
}

// handleListHistory lists stored generations, newest first.
func (s *Server) handleListHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", history.MaxItems)
	if limit <= 0 {
		limit = history.MaxItems
	}

	items := s.history.All(ctx)
	if len(items) == 0 {
		return mcp.NewToolResultText("No generations yet. Use generate_keywords to create one."), nil
	}
	if len(items) > limit {
		items = items[:limit]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d item(s):\n", len(items)))
	for _, item := range items {
		kws := 0
		for _, g := range item.Groups {
			kws += len(g.Keywords)
		}
		sb.WriteString(fmt.Sprintf("\n- %s (%s): %d title(s), %d keyword(s)\n",
			item.ID, time.UnixMilli(item.Timestamp).UTC().Format(time.RFC3339), len(item.Groups), kws))
		for _, title := range history.Titles(item.Groups) {
			sb.WriteString(fmt.Sprintf("  * %s\n", title))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetHistoryItem returns the keyword groups of a stored generation.
func (s *Server) handleGetHistoryItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	item, ok := s.history.Get(ctx, id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("No history item with id %q.", id)), nil
	}
	return mcp.NewToolResultText(formatGroups(item.Groups)), nil
}

// formatGroups renders keyword groups as text suitable for an AI agent,
// ending with the de-duplicated "copy all" line.
func formatGroups(groups []history.KeywordGroup) string {
	var sb strings.Builder
	for i, g := range groups {
		sb.WriteString(fmt.Sprintf("--- %d. %s ---\n", i+1, g.Title))
		sb.WriteString(history.Join(g.Keywords))
		sb.WriteString("\n\n")
	}
	sb.WriteString("All unique keywords:\n")
	sb.WriteString(history.Join(history.UniqueKeywords(groups)))
	sb.WriteString("\n")
	return sb.String()
}
