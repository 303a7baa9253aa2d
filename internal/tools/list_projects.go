package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avennor/unleash-mcp/internal/inventory"
	"github.com/avennor/unleash-mcp/internal/unleash"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListProjectsTool handles the list_projects MCP tool.
// It serves the cached projects view: sorted by creation date, paginated.
type ListProjectsTool struct {
	views *inventory.Service
}

// NewListProjectsTool creates a ListProjectsTool over the inventory service.
func NewListProjectsTool(views *inventory.Service) *ListProjectsTool {
	return &ListProjectsTool{views: views}
}

// Definition returns the MCP tool definition for registration.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription(
			"List all Unleash projects with id, name and creation date. "+
				"Results come from a 60-second cache and are sorted by creation date, "+
				"newest first by default. The response carries a nextPage resource URI "+
				"when more projects remain.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of projects to return (default: 20)"),
		),
		mcp.WithString("order",
			mcp.Description("Sort direction by creation date: 'desc' (newest first, default) or 'asc' (oldest first)"),
			mcp.Enum("asc", "desc"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of projects to skip, for pagination (default: 0)"),
		),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vr := viewRequestArgs(req)

	view, err := t.views.ReadProjectsView(ctx, vr)
	if err != nil {
		return toolError(err)
	}

	payload := listPayload[unleash.ProjectSummary]{ViewResult: view}
	if view.NextOffset != nil {
		next := vr
		next.Offset = *view.NextOffset
		payload.NextPage = inventory.BuildProjectsURI(next)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling projects view: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
