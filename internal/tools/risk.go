package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/avennor/unleash-mcp/internal/classify"
	"github.com/avennor/unleash-mcp/internal/guidance"
	"github.com/mark3labs/mcp-go/mcp"
)

// RiskTool handles the assess_change_risk MCP tool.
type RiskTool struct {
	renderer guidance.Renderer
}

// NewRiskTool creates a RiskTool over the template renderer.
func NewRiskTool(renderer guidance.Renderer) *RiskTool {
	return &RiskTool{renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *RiskTool) Definition() mcp.Tool {
	return mcp.NewTool("assess_change_risk",
		mcp.WithDescription(
			"Bucket accumulated risk points into a severity level and get the "+
				"matching pre-flight checklist. Score the change first with the "+
				"checklist's weight table: 5 per critical pattern (auth, payments, "+
				"deletion), 3 per high, 2 per medium, 1 per low, plus 2 when more "+
				"than 100 lines change or 1 for 50-100 lines.",
		),
		mcp.WithNumber("points",
			mcp.Required(),
			mcp.Description("Summed risk points from the weight table"),
		),
		mcp.WithString("change_summary",
			mcp.Description("One-line description of the change, echoed into the checklist"),
		),
	)
}

// Handle processes the assess_change_risk tool call.
func (t *RiskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	points, ok := intArg(req, "points")
	if !ok {
		return mcp.NewToolResultError("'points' is required — the summed risk points for the change"), nil
	}

	assessment := classify.AssessRisk(points)
	checklist, err := t.renderer.Render(guidance.RiskChecklist, guidance.RiskData{
		ChangeSummary: strings.TrimSpace(req.GetString("change_summary", "")),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering risk checklist: %w", err)
	}

	response := fmt.Sprintf(
		"# Change Risk: %s\n\n**Points:** %d\n\n%s",
		strings.ToUpper(assessment.Level), assessment.Score, checklist,
	)
	return mcp.NewToolResultText(response), nil
}
