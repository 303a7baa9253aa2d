package inventory

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Scheme is the URI scheme of inventory resources.
const Scheme = "unleash"

// ProjectsURI is the canonical identifier of the projects view.
const ProjectsURI = Scheme + "://projects"

// Kind says which collection family a resource URI addresses.
type Kind string

const (
	KindProjects Kind = "projects"
	KindFlags    Kind = "flags"
)

// ErrUnknownResource marks identifiers outside both collection
// families: wrong scheme, wrong host, or a path that is not
// /{projectId}/feature-flags.
var ErrUnknownResource = errors.New("inventory: unknown resource")

// Locator is a parsed resource URI: which collection it names, the
// project id for flag views, and the view options carried in the
// query.
type Locator struct {
	Kind      Kind
	ProjectID string
	Request   ViewRequest
}

// BuildProjectsURI renders the projects view URI. Query parameters
// appear only for fields explicitly set on the request, so the
// all-defaults URI is the bare canonical one.
func BuildProjectsURI(req ViewRequest) string {
	return ProjectsURI + encodeViewQuery(req)
}

// BuildFlagsURI renders the flag view URI for one project. The
// project id is percent-encoded, so ids containing '/', '%' or spaces
// survive a round trip through ParseURI.
func BuildFlagsURI(projectID string, req ViewRequest) string {
	return ProjectsURI + "/" + url.PathEscape(projectID) + "/feature-flags" + encodeViewQuery(req)
}

// ParseURI classifies an identifier and extracts its view options.
// Foreign identifiers fail with ErrUnknownResource. Malformed view
// options never fail the parse; they are dropped so collection
// defaults apply downstream.
func ParseURI(raw string) (Locator, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, fmt.Errorf("%w: %q", ErrUnknownResource, raw)
	}
	if u.Scheme != Scheme || u.Host != "projects" {
		return Locator{}, fmt.Errorf("%w: %q", ErrUnknownResource, raw)
	}

	req := parseViewQuery(u.Query())

	// unleash://projects, optionally with a query.
	if u.EscapedPath() == "" {
		return Locator{Kind: KindProjects, Request: req}, nil
	}

	// unleash://projects/{projectId}/feature-flags. Splitting the
	// escaped path keeps a %2F inside the project id from reading as
	// a segment boundary.
	segments := strings.Split(strings.TrimPrefix(u.EscapedPath(), "/"), "/")
	if len(segments) != 2 || segments[1] != "feature-flags" || segments[0] == "" {
		return Locator{}, fmt.Errorf("%w: %q", ErrUnknownResource, raw)
	}
	projectID, err := url.PathUnescape(segments[0])
	if err != nil {
		return Locator{}, fmt.Errorf("%w: %q", ErrUnknownResource, raw)
	}

	return Locator{Kind: KindFlags, ProjectID: projectID, Request: req}, nil
}

// encodeViewQuery serializes the explicitly set view options,
// alphabetically keyed. Unset fields stay out of the string so
// canonical URIs remain minimal.
func encodeViewQuery(req ViewRequest) string {
	q := url.Values{}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Order != "" {
		q.Set("order", string(req.Order))
	}
	if req.Offset > 0 {
		q.Set("offset", strconv.Itoa(req.Offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// parseViewQuery reads limit, order and offset from a query,
// discarding anything malformed: non-numeric or non-positive limits,
// negative offsets, directions other than asc and desc.
func parseViewQuery(q url.Values) ViewRequest {
	var req ViewRequest
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			req.Limit = n
		}
	}
	if v := q.Get("order"); v != "" {
		if o, ok := ParseOrder(v); ok {
			req.Order = o
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			req.Offset = n
		}
	}
	return req
}
