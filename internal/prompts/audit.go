// Package prompts implements MCP prompt handlers for flag workflows.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// AuditPrompt handles the flag-audit MCP prompt.
// It walks the AI through a hygiene review of the flag inventory.
type AuditPrompt struct{}

// NewAuditPrompt creates an AuditPrompt.
func NewAuditPrompt() *AuditPrompt {
	return &AuditPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *AuditPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("flag-audit",
		mcp.WithPromptDescription(
			"Audit the feature flags of a project (or the whole instance): "+
				"find stale flags, flags at 100% rollout that can be retired, "+
				"and flags whose environments disagree.",
		),
		mcp.WithArgument("project_id",
			mcp.ArgumentDescription("Project to audit. Omit to audit every project."),
		),
	)
}

// Handle processes the flag-audit prompt request.
func (p *AuditPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	scope := "every project"
	firstStep := "1. Run `list_projects`, then `list_feature_flags` for each project id\n"
	if args := req.Params.Arguments; args != nil {
		if id, ok := args["project_id"]; ok && id != "" {
			scope = fmt.Sprintf("project '%s'", id)
			firstStep = fmt.Sprintf("1. Run `list_feature_flags` with project_id='%s' (follow nextPage until the list is complete)\n", id)
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Audit feature flags in %s", scope),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please audit the feature flags in %s.\n\n"+
						"%s"+
						"2. For each flag that is stale, archived, or older than six months, run `get_feature_flag` to see its per-environment state\n"+
						"3. Read the `unleash://audit/recent` resource to see what was changed through this server lately\n"+
						"4. Report back with three lists:\n"+
						"   - flags at 100%% rollout in every environment that can likely be retired\n"+
						"   - flags enabled in production but disabled in development (or the reverse)\n"+
						"   - stale flags with no recent changes, candidates for cleanup\n\n"+
						"Do not toggle or modify anything during the audit. Suggest changes and wait for my confirmation.",
					scope, firstStep,
				)),
			},
		},
	}, nil
}
