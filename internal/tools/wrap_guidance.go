package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/avennor/unleash-mcp/internal/guidance"
	"github.com/mark3labs/mcp-go/mcp"
)

// WrapGuidanceTool handles the flag_wrap_guidance MCP tool.
type WrapGuidanceTool struct {
	renderer guidance.Renderer
}

// NewWrapGuidanceTool creates a WrapGuidanceTool over the template renderer.
func NewWrapGuidanceTool(renderer guidance.Renderer) *WrapGuidanceTool {
	return &WrapGuidanceTool{renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *WrapGuidanceTool) Definition() mcp.Tool {
	return mcp.NewTool("flag_wrap_guidance",
		mcp.WithDescription(
			"Produce ready-to-adapt code snippets for gating a code path behind "+
				"a feature flag, per Unleash SDK. Without a language the answer "+
				"covers every supported one.",
		),
		mcp.WithString("flag_name",
			mcp.Required(),
			mcp.Description("The flag the code should check"),
		),
		mcp.WithString("language",
			mcp.Description("Language of the code being gated: javascript, typescript, python, "+
				"go or java. Aliases like 'ts' and 'golang' are accepted; unknown "+
				"languages fall back to all snippets."),
		),
	)
}

// Handle processes the flag_wrap_guidance tool call.
func (t *WrapGuidanceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flagName := strings.TrimSpace(req.GetString("flag_name", ""))
	if flagName == "" {
		return mcp.NewToolResultError("'flag_name' is required — the flag the code should check"), nil
	}

	text, err := t.renderer.Render(guidance.WrapCode, guidance.WrapData{
		FlagName: flagName,
		Language: guidance.NormalizeLanguage(req.GetString("language", "")),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering wrap guidance: %w", err)
	}
	return mcp.NewToolResultText(text), nil
}
