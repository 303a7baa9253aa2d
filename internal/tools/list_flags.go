package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avennor/unleash-mcp/internal/inventory"
	"github.com/avennor/unleash-mcp/internal/unleash"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListFlagsTool handles the list_feature_flags MCP tool.
// It serves the cached per-project flags view: alphabetical, paginated.
type ListFlagsTool struct {
	views *inventory.Service
}

// NewListFlagsTool creates a ListFlagsTool over the inventory service.
func NewListFlagsTool(views *inventory.Service) *ListFlagsTool {
	return &ListFlagsTool{views: views}
}

// Definition returns the MCP tool definition for registration.
func (t *ListFlagsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_feature_flags",
		mcp.WithDescription(
			"List the feature flags of one Unleash project with name, type and "+
				"creation date. Results come from a 60-second cache and are sorted "+
				"by name, A to Z by default. The response carries a nextPage "+
				"resource URI when more flags remain.",
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project id whose flags to list, e.g. 'default'"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of flags to return (default: 50)"),
		),
		mcp.WithString("order",
			mcp.Description("Sort direction by flag name: 'asc' (A to Z, default) or 'desc' (Z to A)"),
			mcp.Enum("asc", "desc"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of flags to skip, for pagination (default: 0)"),
		),
	)
}

// Handle processes the list_feature_flags tool call.
func (t *ListFlagsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := strings.TrimSpace(req.GetString("project_id", ""))
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required — which project's flags to list"), nil
	}

	vr := viewRequestArgs(req)

	view, err := t.views.ReadFlagsView(ctx, projectID, vr)
	if err != nil {
		return toolError(err)
	}

	payload := listPayload[unleash.FlagSummary]{ViewResult: view}
	if view.NextOffset != nil {
		next := vr
		next.Offset = *view.NextOffset
		payload.NextPage = inventory.BuildFlagsURI(projectID, next)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling flags view: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
