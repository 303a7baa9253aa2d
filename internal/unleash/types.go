package unleash

// ProjectSummary is one project as returned by the admin projects listing.
// URL is not part of the API payload; the client fills it in so callers
// can hand out a clickable link to the Unleash UI.
type ProjectSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Mode        string `json:"mode,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	URL         string `json:"url"`
}

// FlagSummary is one feature flag as returned by the per-project features
// listing. CreatedAt stays a raw string: date parsing happens at sort
// time so unparseable values degrade to "undated" instead of failing the
// fetch. URL is synthesized by the client like ProjectSummary.URL.
type FlagSummary struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Project        string `json:"project"`
	Type           string `json:"type,omitempty"`
	Archived       bool   `json:"archived,omitempty"`
	ImpressionData bool   `json:"impressionData,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	URL            string `json:"url"`
}

// FlagEnvironment is the per-environment state of a flag.
type FlagEnvironment struct {
	Name       string     `json:"name"`
	Type       string     `json:"type,omitempty"`
	Enabled    bool       `json:"enabled"`
	Strategies []Strategy `json:"strategies,omitempty"`
}

// Strategy is an activation strategy attached to a flag environment.
// Parameter values are strings on the wire (Unleash serializes rollout
// percentages as "50", not 50).
type Strategy struct {
	ID         string            `json:"id,omitempty"`
	Name       string            `json:"name"`
	Title      string            `json:"title,omitempty"`
	Disabled   bool              `json:"disabled,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// FlagDetails is the full single-flag view, richer than FlagSummary.
type FlagDetails struct {
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Project        string            `json:"project"`
	Type           string            `json:"type,omitempty"`
	Archived       bool              `json:"archived,omitempty"`
	Stale          bool              `json:"stale,omitempty"`
	ImpressionData bool              `json:"impressionData,omitempty"`
	CreatedAt      string            `json:"createdAt,omitempty"`
	Environments   []FlagEnvironment `json:"environments,omitempty"`
	URL            string            `json:"url,omitempty"`
}

// CreateFlagRequest is the payload for creating a new feature flag.
// Type defaults server-side to "release" when empty.
type CreateFlagRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Type           string `json:"type,omitempty"`
	ImpressionData bool   `json:"impressionData"`
}

// listProjectsResponse is the envelope around the projects listing.
type listProjectsResponse struct {
	Version  int              `json:"version"`
	Projects []ProjectSummary `json:"projects"`
}

// listFlagsResponse is the envelope around the features listing.
type listFlagsResponse struct {
	Version  int           `json:"version"`
	Features []FlagSummary `json:"features"`
}
