package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avennor/unleash-mcp/internal/audit"
	"github.com/avennor/unleash-mcp/internal/unleash"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToggleFlagTool handles the toggle_feature_flag MCP tool.
type ToggleFlagTool struct {
	client     *unleash.Client
	journal    audit.Recorder
	defaultEnv string
}

// NewToggleFlagTool creates a ToggleFlagTool. defaultEnv is used when a
// call does not name an environment; journal may be nil.
func NewToggleFlagTool(client *unleash.Client, journal audit.Recorder, defaultEnv string) *ToggleFlagTool {
	return &ToggleFlagTool{client: client, journal: journal, defaultEnv: defaultEnv}
}

// Definition returns the MCP tool definition for registration.
func (t *ToggleFlagTool) Definition() mcp.Tool {
	return mcp.NewTool("toggle_feature_flag",
		mcp.WithDescription(
			"Enable or disable a feature flag in one environment. The change is "+
				"immediate — run assess_change_risk first when the flag gates auth, "+
				"payments or data deletion.",
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project id the flag belongs to, e.g. 'default'"),
		),
		mcp.WithString("flag_name",
			mcp.Required(),
			mcp.Description("Exact name of the flag to toggle"),
		),
		mcp.WithBoolean("enabled",
			mcp.Required(),
			mcp.Description("true to enable the flag, false to disable it"),
		),
		mcp.WithString("environment",
			mcp.Description("Target environment (default: the configured environment, normally 'development')"),
		),
	)
}

// Handle processes the toggle_feature_flag tool call.
func (t *ToggleFlagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := strings.TrimSpace(req.GetString("project_id", ""))
	flagName := strings.TrimSpace(req.GetString("flag_name", ""))
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required — the project the flag belongs to"), nil
	}
	if flagName == "" {
		return mcp.NewToolResultError("'flag_name' is required — the flag to toggle"), nil
	}

	enabled, ok := boolArg(req, "enabled")
	if !ok {
		return mcp.NewToolResultError("'enabled' is required — true to enable the flag, false to disable it"), nil
	}

	environment := strings.TrimSpace(req.GetString("environment", ""))
	if environment == "" {
		environment = t.defaultEnv
	}

	err := t.client.SetFlagEnabled(ctx, projectID, flagName, environment, enabled)
	if errors.Is(err, unleash.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"flag %q or environment %q not found in project %q",
			flagName, environment, projectID,
		)), nil
	}
	if err != nil {
		return toolError(err)
	}

	recordAudit(t.journal, audit.Entry{
		Action:  audit.ActionToggleFlag,
		Project: projectID,
		Flag:    flagName,
		Detail:  fmt.Sprintf("environment=%s enabled=%t", environment, enabled),
	})

	header := "# Flag Disabled"
	if enabled {
		header = "# Flag Enabled"
	}
	response := fmt.Sprintf(
		"%s\n\n"+
			"**Flag:** `%s`\n"+
			"**Project:** %s\n"+
			"**Environment:** %s\n\n"+
			"Verify with `get_feature_flag` — it reads live state, not the cache.",
		header, flagName, projectID, environment,
	)
	return mcp.NewToolResultText(response), nil
}
