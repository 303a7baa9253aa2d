// Package resources implements MCP resource handlers for the flag inventory.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (unleash://...) following MCP conventions;
// parsing and pagination live in the inventory package, this package is the
// protocol-facing glue.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avennor/unleash-mcp/internal/audit"
	"github.com/avennor/unleash-mcp/internal/inventory"
	"github.com/mark3labs/mcp-go/mcp"
)

// AuditURI addresses the journal of recent flag mutations.
const AuditURI = "unleash://audit/recent"

// Handler manages inventory resource endpoints.
type Handler struct {
	views   *inventory.Service
	journal *audit.Store
}

// NewHandler creates a resource Handler with its dependencies.
// The audit store may be nil when the journal is disabled.
func NewHandler(views *inventory.Service, journal *audit.Store) *Handler {
	return &Handler{views: views, journal: journal}
}

// ProjectsResource returns the MCP resource definition for the projects view.
func (h *Handler) ProjectsResource() mcp.Resource {
	return mcp.NewResource(
		inventory.ProjectsURI,
		"Unleash Projects",
		mcp.WithResourceDescription("All Unleash projects, newest first. Supports ?limit=&offset=&order= query options."),
		mcp.WithMIMEType("application/json"),
	)
}

// ProjectsTemplate returns the template matching projects views that carry
// explicit pagination options in the query string.
func (h *Handler) ProjectsTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		inventory.ProjectsURI+"{?limit,offset,order}",
		"Unleash Projects (paginated)",
		mcp.WithTemplateDescription("Projects view with explicit limit, offset and order options"),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// HandleProjects serves a sorted, paginated view of all projects.
func (h *Handler) HandleProjects(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	loc, err := inventory.ParseURI(req.Params.URI)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if loc.Kind != inventory.KindProjects {
		return errorResource(req.Params.URI, fmt.Sprintf("%s is not a projects view", req.Params.URI)), nil
	}

	view, err := h.views.ReadProjectsView(ctx, loc.Request)
	if err != nil {
		return nil, err
	}

	return jsonResource(req.Params.URI, view)
}

// FlagsTemplate returns the template for per-project feature flag views.
func (h *Handler) FlagsTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(
		"unleash://projects/{projectId}/feature-flags{?limit,offset,order}",
		"Project Feature Flags",
		mcp.WithTemplateDescription("Feature flags for one project, alphabetical. Supports ?limit=&offset=&order= query options."),
		mcp.WithTemplateMIMEType("application/json"),
	)
}

// HandleFlags serves a sorted, paginated view of one project's flags.
func (h *Handler) HandleFlags(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	loc, err := inventory.ParseURI(req.Params.URI)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if loc.Kind != inventory.KindFlags {
		return errorResource(req.Params.URI, fmt.Sprintf("%s is not a feature-flag view", req.Params.URI)), nil
	}

	view, err := h.views.ReadFlagsView(ctx, loc.ProjectID, loc.Request)
	if err != nil {
		return nil, err
	}

	return jsonResource(req.Params.URI, view)
}

// AuditResource returns the MCP resource definition for the audit journal.
func (h *Handler) AuditResource() mcp.Resource {
	return mcp.NewResource(
		AuditURI,
		"Recent Flag Changes",
		mcp.WithResourceDescription("Flag mutations recorded by this server, newest first"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleAudit serves the most recent audit journal entries.
func (h *Handler) HandleAudit(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.journal == nil {
		return errorResource(req.Params.URI, "audit journal is disabled"), nil
	}

	entries, err := h.journal.Recent(0)
	if err != nil {
		return nil, fmt.Errorf("reading audit journal: %w", err)
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	return jsonResource(req.Params.URI, entries)
}

// jsonResource renders v as an indented JSON resource.
func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
