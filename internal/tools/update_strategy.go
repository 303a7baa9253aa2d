package tools

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/avennor/unleash-mcp/internal/audit"
	"github.com/avennor/unleash-mcp/internal/unleash"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateStrategyTool handles the update_flag_strategy MCP tool.
// Without a strategy_id it attaches a new gradual-rollout strategy;
// with one it replaces that strategy in place.
type UpdateStrategyTool struct {
	client     *unleash.Client
	journal    audit.Recorder
	defaultEnv string
}

// NewUpdateStrategyTool creates an UpdateStrategyTool. defaultEnv is
// used when a call does not name an environment; journal may be nil.
func NewUpdateStrategyTool(client *unleash.Client, journal audit.Recorder, defaultEnv string) *UpdateStrategyTool {
	return &UpdateStrategyTool{client: client, journal: journal, defaultEnv: defaultEnv}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateStrategyTool) Definition() mcp.Tool {
	return mcp.NewTool("update_flag_strategy",
		mcp.WithDescription(
			"Add or update a gradual-rollout strategy on a feature flag. Omit "+
				"strategy_id to attach a new strategy; pass the id of an existing "+
				"one (see get_feature_flag) to replace it. rollout sets the "+
				"percentage of users who get the flag.",
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Project id the flag belongs to, e.g. 'default'"),
		),
		mcp.WithString("flag_name",
			mcp.Required(),
			mcp.Description("Exact name of the flag to target"),
		),
		mcp.WithString("environment",
			mcp.Description("Target environment (default: the configured environment, normally 'development')"),
		),
		mcp.WithString("strategy_id",
			mcp.Description("Id of an existing strategy to update. Omit to add a new one."),
		),
		mcp.WithNumber("rollout",
			mcp.Description("Percentage of users the flag targets, 0-100 (default: 100)"),
		),
		mcp.WithString("stickiness",
			mcp.Description("What buckets a user into the rollout: 'default', 'userId', 'sessionId' or 'random' (default: 'default')"),
		),
		mcp.WithString("group_id",
			mcp.Description("Grouping id for bucketing; defaults to the flag name server-side"),
		),
	)
}

// Handle processes the update_flag_strategy tool call.
func (t *UpdateStrategyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := strings.TrimSpace(req.GetString("project_id", ""))
	flagName := strings.TrimSpace(req.GetString("flag_name", ""))
	if projectID == "" {
		return mcp.NewToolResultError("'project_id' is required — the project the flag belongs to"), nil
	}
	if flagName == "" {
		return mcp.NewToolResultError("'flag_name' is required — the flag to target"), nil
	}

	environment := strings.TrimSpace(req.GetString("environment", ""))
	if environment == "" {
		environment = t.defaultEnv
	}

	rollout := 100
	if r, ok := intArg(req, "rollout"); ok {
		if r < 0 || r > 100 {
			return mcp.NewToolResultError("'rollout' must be between 0 and 100"), nil
		}
		rollout = r
	}
	stickiness := req.GetString("stickiness", "default")

	params := map[string]string{
		"rollout":    strconv.Itoa(rollout),
		"stickiness": stickiness,
	}
	if groupID := strings.TrimSpace(req.GetString("group_id", "")); groupID != "" {
		params["groupId"] = groupID
	}
	strategy := unleash.Strategy{
		Name:       "flexibleRollout",
		Parameters: params,
	}

	strategyID := strings.TrimSpace(req.GetString("strategy_id", ""))
	var (
		saved *unleash.Strategy
		err   error
	)
	verb := "Added"
	if strategyID == "" {
		saved, err = t.client.AddStrategy(ctx, projectID, flagName, environment, strategy)
	} else {
		saved, err = t.client.UpdateStrategy(ctx, projectID, flagName, environment, strategyID, strategy)
		verb = "Updated"
	}
	if errors.Is(err, unleash.ErrNotFound) {
		target := fmt.Sprintf("flag %q or environment %q", flagName, environment)
		if strategyID != "" {
			target = fmt.Sprintf("strategy %q on flag %q in %q", strategyID, flagName, environment)
		}
		return mcp.NewToolResultError(fmt.Sprintf("%s not found in project %q", target, projectID)), nil
	}
	if err != nil {
		return toolError(err)
	}

	recordAudit(t.journal, audit.Entry{
		Action:  audit.ActionUpdateStrategy,
		Project: projectID,
		Flag:    flagName,
		Detail:  fmt.Sprintf("environment=%s rollout=%d%%", environment, rollout),
	})

	response := fmt.Sprintf(
		"# Strategy %s\n\n"+
			"**Flag:** `%s`\n"+
			"**Environment:** %s\n"+
			"**Strategy:** %s (id: %s)\n"+
			"**Rollout:** %d%%\n"+
			"**Stickiness:** %s\n\n"+
			"The strategy only takes effect while the flag is enabled in %s.",
		verb, flagName, environment, saved.Name, saved.ID, rollout, stickiness, environment,
	)
	return mcp.NewToolResultText(response), nil
}
