package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/avennor/unleash-mcp/internal/unleash"
)

// Source lists the remote collections the inventory mirrors. The
// Unleash client satisfies it; tests substitute fakes.
type Source interface {
	ListProjects(ctx context.Context) ([]unleash.ProjectSummary, error)
	ListFeatureFlags(ctx context.Context, projectID string) ([]unleash.FlagSummary, error)
}

// Service serves paginated, sorted views over the cached projects and
// feature-flag collections. Request normalization lives here:
// defaults, clamping and order validation happen before the projector
// ever sees a request.
type Service struct {
	src Source
	ttl time.Duration
	now func() time.Time

	projects *Cache[unleash.ProjectSummary]
	flags    *Cache[unleash.FlagSummary]
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithTTL overrides the freshness window of both collection caches.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) { s.ttl = ttl }
}

// WithTimeSource injects a time source into both collection caches
// (used by tests).
func WithTimeSource(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service over src with empty caches.
func NewService(src Source, opts ...ServiceOption) *Service {
	s := &Service{
		src: src,
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.projects = NewCache[unleash.ProjectSummary](s.ttl, WithClock[unleash.ProjectSummary](s.now))
	s.flags = NewCache[unleash.FlagSummary](s.ttl, WithClock[unleash.FlagSummary](s.now))
	return s
}

// ReadProjectsView returns one page of the projects collection,
// refreshing the cache first if its entry is missing or expired. A
// fetch failure propagates as-is; no partial or stale view is served
// in its place.
func (s *Service) ReadProjectsView(ctx context.Context, req ViewRequest) (ViewResult[unleash.ProjectSummary], error) {
	req = req.withDefaults(DefaultProjectsLimit, DefaultProjectsOrder)

	items, _, fromCache, err := s.projects.GetOrFetch(ctx, ProjectsKey, s.src.ListProjects)
	if err != nil {
		return ViewResult[unleash.ProjectSummary]{}, fmt.Errorf("reading projects view: %w", err)
	}

	page, next := Paginate(SortProjects(items, req.Order), req.Offset, req.Limit)
	return ViewResult[unleash.ProjectSummary]{
		Items:      page,
		NextOffset: next,
		TotalCount: len(items),
		Cached:     fromCache,
	}, nil
}

// ReadFlagsView returns one page of a project's feature-flag
// collection. Each project id has its own cache entry and TTL; an
// empty id is rejected before any fetch.
func (s *Service) ReadFlagsView(ctx context.Context, projectID string, req ViewRequest) (ViewResult[unleash.FlagSummary], error) {
	if projectID == "" {
		return ViewResult[unleash.FlagSummary]{}, fmt.Errorf("reading flags view: project id is required")
	}
	req = req.withDefaults(DefaultFlagsLimit, DefaultFlagsOrder)

	items, _, fromCache, err := s.flags.GetOrFetch(ctx, FlagsKey(projectID), func(ctx context.Context) ([]unleash.FlagSummary, error) {
		return s.src.ListFeatureFlags(ctx, projectID)
	})
	if err != nil {
		return ViewResult[unleash.FlagSummary]{}, fmt.Errorf("reading flags view for %q: %w", projectID, err)
	}

	page, next := Paginate(SortFlags(items, req.Order), req.Offset, req.Limit)
	return ViewResult[unleash.FlagSummary]{
		Items:      page,
		NextOffset: next,
		TotalCount: len(items),
		Cached:     fromCache,
	}, nil
}
