package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/avennor/unleash-mcp/internal/unleash"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetFlagTool handles the get_feature_flag MCP tool.
// Lookups go straight to the API, bypassing the cache, so the
// per-environment state is always current.
type GetFlagTool struct {
	client *unleash.Client
}

// NewGetFlagTool creates a GetFlagTool with the given API client.
func NewGetFlagTool(client *unleash.Client) *GetFlagTool {
	return &GetFlagTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *GetFlagTool) Definition() mcp.Tool {
	return mcp.NewTool("get_feature_flag",
		mcp.WithDescription(
			"Fetch one feature flag with its full per-environment state and "+
				"activation strategies. Reads bypass the cache, so use this to "+
				"verify the result of a toggle or strategy change.",
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project id the flag belongs to, e.g. 'default'"),
		),
		mcp.WithString("flag_name",
			mcp.Required(),
			mcp.Description("Exact name of the flag to fetch"),
		),
	)
}

// Handle processes the get_feature_flag tool call.
func (t *GetFlagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := strings.TrimSpace(req.GetString("project_id", ""))
	flagName := strings.TrimSpace(req.GetString("flag_name", ""))
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required — the project the flag belongs to"), nil
	}
	if flagName == "" {
		return mcp.NewToolResultError("'flag_name' is required — the flag to fetch"), nil
	}

	flag, err := t.client.GetFeatureFlag(ctx, projectID, flagName)
	if errors.Is(err, unleash.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"flag %q not found in project %q — run list_feature_flags to see what exists",
			flagName, projectID,
		)), nil
	}
	if err != nil {
		return toolError(err)
	}

	data, err := json.MarshalIndent(flag, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling flag %q: %w", flagName, err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
