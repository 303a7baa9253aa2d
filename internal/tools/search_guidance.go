package tools

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/avennor/unleash-mcp/internal/guidance"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchGuidanceTool handles the flag_search_guidance MCP tool.
type SearchGuidanceTool struct {
	renderer guidance.Renderer
}

// NewSearchGuidanceTool creates a SearchGuidanceTool over the template renderer.
func NewSearchGuidanceTool(renderer guidance.Renderer) *SearchGuidanceTool {
	return &SearchGuidanceTool{renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchGuidanceTool) Definition() mcp.Tool {
	return mcp.NewTool("flag_search_guidance",
		mcp.WithDescription(
			"Produce step-by-step instructions for searching a codebase for an "+
				"existing feature flag before creating a new one: direct name "+
				"search, SDK call-site search, and how to score what you find.",
		),
		mcp.WithString("flag_name",
			mcp.Required(),
			mcp.Description("The flag name to search for"),
		),
	)
}

// Handle processes the flag_search_guidance tool call.
func (t *SearchGuidanceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flagName := strings.TrimSpace(req.GetString("flag_name", ""))
	if flagName == "" {
		return mcp.NewToolResultError("'flag_name' is required — the flag to search for"), nil
	}

	text, err := t.renderer.Render(guidance.SearchInstructions, guidance.SearchData{
		FlagName: flagName,
		Keywords: nameVariants(flagName),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering search guidance: %w", err)
	}
	return mcp.NewToolResultText(text), nil
}

// nameVariants derives the spellings a flag name takes under other
// naming conventions, comma separated for the instruction text. The
// original spelling is excluded; single-word names have no variants.
func nameVariants(name string) string {
	parts := splitFlagName(name)
	if len(parts) < 2 {
		return ""
	}

	variants := []string{
		strings.Join(parts, "_"),
		strings.Join(parts, "-"),
		strings.ToUpper(strings.Join(parts, "_")),
		camelJoin(parts),
	}

	seen := map[string]bool{name: true}
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return strings.Join(out, ", ")
}

// splitFlagName breaks a flag name on separator and camelCase
// boundaries into lowercased words.
func splitFlagName(name string) []string {
	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	for _, r := range name {
		switch {
		case r == '-' || r == '_' || r == '.' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return parts
}

// camelJoin joins lowercased words as camelCase.
func camelJoin(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		if i == 0 {
			b.WriteString(p)
			continue
		}
		r := []rune(p)
		b.WriteString(strings.ToUpper(string(r[0])))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}
