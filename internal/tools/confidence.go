package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avennor/unleash-mcp/internal/classify"
	"github.com/mark3labs/mcp-go/mcp"
)

// ConfidenceTool handles the classify_flag_confidence MCP tool.
// Pure bucketing: the score itself is computed by the caller following
// the flag_search_guidance instructions.
type ConfidenceTool struct{}

// NewConfidenceTool creates a ConfidenceTool.
func NewConfidenceTool() *ConfidenceTool {
	return &ConfidenceTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ConfidenceTool) Definition() mcp.Tool {
	return mcp.NewTool("classify_flag_confidence",
		mcp.WithDescription(
			"Bucket a flag-match confidence score into high, medium or low and "+
				"get the recommended action: use_existing (0.7 and up), ask_user "+
				"(0.4 to 0.7) or create_new. Compute the score first by following "+
				"flag_search_guidance.",
		),
		mcp.WithNumber("score",
			mcp.Required(),
			mcp.Description("Combined match confidence between 0.0 and 1.0; out-of-range values are clamped"),
		),
	)
}

// Handle processes the classify_flag_confidence tool call.
func (t *ConfidenceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	score, ok := floatArg(req, "score")
	if !ok {
		return mcp.NewToolResultError("'score' is required — the combined match confidence between 0.0 and 1.0"), nil
	}

	data, err := json.MarshalIndent(classify.ClassifyConfidence(score), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling classification: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
