// Package tools implements MCP tool handlers for flag management.
//
// Each tool is a struct that receives its dependencies at construction
// and exposes a Definition() for registration plus a Handle compatible
// with mcp-go's CallToolRequest signature.
//
// Handlers follow the MCP convention split: problems the caller can fix
// (missing argument, unknown flag, 4xx from Unleash) come back as tool
// errors inside a successful response; system failures (network down,
// marshaling) come back as Go errors.
package tools

import (
	"errors"

	"github.com/avennor/unleash-mcp/internal/audit"
	"github.com/avennor/unleash-mcp/internal/inventory"
	"github.com/avennor/unleash-mcp/internal/unleash"
	"github.com/mark3labs/mcp-go/mcp"
)

// floatArg returns the numeric argument under key and whether it was
// supplied as a JSON number.
func floatArg(req mcp.CallToolRequest, key string) (float64, bool) {
	v, ok := req.GetArguments()[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// intArg returns the numeric argument under key truncated to an int.
func intArg(req mcp.CallToolRequest, key string) (int, bool) {
	f, ok := floatArg(req, key)
	return int(f), ok
}

// boolArg returns the boolean argument under key and whether it was
// supplied as a JSON boolean.
func boolArg(req mcp.CallToolRequest, key string) (bool, bool) {
	v, ok := req.GetArguments()[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// viewRequestArgs collects the shared pagination arguments. Unset and
// malformed values stay at their zero value; the inventory service
// owns normalization and defaults.
func viewRequestArgs(req mcp.CallToolRequest) inventory.ViewRequest {
	vr := inventory.ViewRequest{}
	if limit, ok := intArg(req, "limit"); ok {
		vr.Limit = limit
	}
	if offset, ok := intArg(req, "offset"); ok {
		vr.Offset = offset
	}
	vr.Order = inventory.Order(req.GetString("order", ""))
	return vr
}

// toolError maps an upstream failure onto the convention split: 4xx API
// responses are correctable by the caller and become tool errors,
// anything else stays a Go error for the transport.
func toolError(err error) (*mcp.CallToolResult, error) {
	var apiErr *unleash.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

// recordAudit journals a mutating call. The journal is best-effort: a
// nil recorder or a failed write never affects the tool result.
func recordAudit(r audit.Recorder, e audit.Entry) {
	if r == nil {
		return
	}
	_ = r.Record(e)
}

// listPayload decorates a view with the resource URI of the next page.
type listPayload[T any] struct {
	inventory.ViewResult[T]
	NextPage string `json:"nextPage,omitempty"`
}
