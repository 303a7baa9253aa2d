package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// RolloutPrompt handles the flag-rollout MCP prompt.
// It guides the AI through a staged percentage rollout of one flag.
type RolloutPrompt struct{}

// NewRolloutPrompt creates a RolloutPrompt.
func NewRolloutPrompt() *RolloutPrompt {
	return &RolloutPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *RolloutPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("flag-rollout",
		mcp.WithPromptDescription(
			"Roll a feature flag out gradually: verify the flag, assess the "+
				"risk, enable it in development first, then step production "+
				"rollout from 25% upward with a checkpoint at each stage.",
		),
		mcp.WithArgument("flag_name",
			mcp.ArgumentDescription("The flag to roll out"),
		),
		mcp.WithArgument("project_id",
			mcp.ArgumentDescription("Project the flag belongs to. Default: 'default'"),
		),
	)
}

// Handle processes the flag-rollout prompt request.
func (p *RolloutPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	flagName := ""
	projectID := "default"
	if args := req.Params.Arguments; args != nil {
		if name, ok := args["flag_name"]; ok && name != "" {
			flagName = name
		}
		if id, ok := args["project_id"]; ok && id != "" {
			projectID = id
		}
	}

	intro := "Please ask me which flag to roll out, then "
	target := "the flag"
	if flagName != "" {
		intro = fmt.Sprintf("I want to roll out the flag '%s' in project '%s'. Please ", flagName, projectID)
		target = fmt.Sprintf("'%s'", flagName)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Staged rollout of %s", target),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"%swalk me through a staged rollout:\n\n"+
						"1. Run `get_feature_flag` to confirm the flag exists and show its current per-environment state\n"+
						"2. Score the gated change with `assess_change_risk`; if the level is critical, stop and show me the checklist before anything else\n"+
						"3. Enable it in development with `toggle_feature_flag` and ask me to verify the feature works there\n"+
						"4. Set a gradual production strategy with `update_flag_strategy`: rollout=25\n"+
						"5. Enable it in production with `toggle_feature_flag`\n"+
						"6. After I confirm each checkpoint is healthy, raise the rollout to 50, then 100, reusing the strategy id from step 4\n\n"+
						"Pause for my confirmation between every stage. If anything looks wrong, the rollback is "+
						"`toggle_feature_flag` with enabled=false in production.",
					intro,
				)),
			},
		},
	}, nil
}
