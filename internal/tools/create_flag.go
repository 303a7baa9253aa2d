package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/avennor/unleash-mcp/internal/audit"
	"github.com/avennor/unleash-mcp/internal/unleash"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateFlagTool handles the create_feature_flag MCP tool.
type CreateFlagTool struct {
	client  *unleash.Client
	journal audit.Recorder
}

// NewCreateFlagTool creates a CreateFlagTool. journal may be nil when
// the audit journal is disabled.
func NewCreateFlagTool(client *unleash.Client, journal audit.Recorder) *CreateFlagTool {
	return &CreateFlagTool{client: client, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateFlagTool) Definition() mcp.Tool {
	return mcp.NewTool("create_feature_flag",
		mcp.WithDescription(
			"Create a new feature flag in a project. Flags start disabled in "+
				"every environment. Before creating, run flag_search_guidance and "+
				"classify_flag_confidence to make sure an equivalent flag does not "+
				"already exist.",
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project id to create the flag in, e.g. 'default'"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Flag name. Use URL-safe kebab-case, e.g. 'new-checkout-flow'"),
		),
		mcp.WithString("description",
			mcp.Description("What the flag gates and when it can be removed"),
		),
		mcp.WithString("type",
			mcp.Description("Flag lifecycle type: release (ship a feature), experiment (A/B test), "+
				"operational (infra switch), kill-switch (emergency off), permission (per-user access)"),
			mcp.Enum("release", "experiment", "operational", "kill-switch", "permission"),
			mcp.DefaultString("release"),
		),
		mcp.WithBoolean("impression_data",
			mcp.Description("Emit impression events each time the flag is evaluated (default: false)"),
		),
	)
}

// Handle processes the create_feature_flag tool call.
func (t *CreateFlagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := strings.TrimSpace(req.GetString("project_id", ""))
	name := strings.TrimSpace(req.GetString("name", ""))
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required — the project to create the flag in"), nil
	}
	if name == "" {
		return mcp.NewToolResultError("'name' is required — the name of the new flag"), nil
	}

	flagType := req.GetString("type", "release")
	impression, _ := boolArg(req, "impression_data")

	created, err := t.client.CreateFeatureFlag(ctx, projectID, unleash.CreateFlagRequest{
		Name:           name,
		Description:    strings.TrimSpace(req.GetString("description", "")),
		Type:           flagType,
		ImpressionData: impression,
	})
	if err != nil {
		return toolError(err)
	}

	recordAudit(t.journal, audit.Entry{
		Action:  audit.ActionCreateFlag,
		Project: projectID,
		Flag:    created.Name,
		Detail:  "type=" + flagType,
	})

	response := fmt.Sprintf(
		"# Flag Created\n\n"+
			"**Name:** `%s`\n"+
			"**Project:** %s\n"+
			"**Type:** %s\n"+
			"**URL:** %s\n\n"+
			"The flag starts disabled in every environment.\n\n"+
			"## Next Steps\n\n"+
			"1. Run `flag_wrap_guidance` with flag_name='%s' to gate the code path.\n"+
			"2. Enable it where you need it: `toggle_feature_flag` with enabled=true.",
		created.Name, projectID, flagType, created.URL, created.Name,
	)
	return mcp.NewToolResultText(response), nil
}
