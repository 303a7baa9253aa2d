package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/avennor/unleash-mcp/internal/unleash"
)

// fakeSource serves canned collections and counts list calls.
type fakeSource struct {
	projects     []unleash.ProjectSummary
	flags        map[string][]unleash.FlagSummary
	err          error
	projectCalls int
	flagCalls    int
}

func (f *fakeSource) ListProjects(context.Context) ([]unleash.ProjectSummary, error) {
	f.projectCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.projects, nil
}

func (f *fakeSource) ListFeatureFlags(_ context.Context, projectID string) ([]unleash.FlagSummary, error) {
	f.flagCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.flags[projectID], nil
}

func TestReadProjectsViewDefaults(t *testing.T) {
	src := &fakeSource{}
	for i := 0; i < 30; i++ {
		src.projects = append(src.projects, unleash.ProjectSummary{
			ID:        fmt.Sprintf("p%02d", i),
			Name:      fmt.Sprintf("p%02d", i),
			CreatedAt: fmt.Sprintf("2024-01-%02dT00:00:00Z", i+1),
		})
	}
	svc := NewService(src)

	view, err := svc.ReadProjectsView(context.Background(), ViewRequest{})
	if err != nil {
		t.Fatalf("ReadProjectsView: %v", err)
	}

	if len(view.Items) != DefaultProjectsLimit {
		t.Errorf("default page holds %d items, want %d", len(view.Items), DefaultProjectsLimit)
	}
	if view.TotalCount != 30 {
		t.Errorf("totalCount = %d, want 30", view.TotalCount)
	}
	if view.NextOffset == nil || *view.NextOffset != DefaultProjectsLimit {
		t.Errorf("nextOffset = %v, want %d", view.NextOffset, DefaultProjectsLimit)
	}
	if view.Cached {
		t.Error("first read reported cached = true")
	}
	// Default direction is newest first.
	if view.Items[0].ID != "p29" {
		t.Errorf("first item = %s, want p29 (newest)", view.Items[0].ID)
	}
}

func TestReadProjectsViewSecondReadIsCached(t *testing.T) {
	src := &fakeSource{projects: []unleash.ProjectSummary{{ID: "p", Name: "p"}}}
	svc := NewService(src)

	if _, err := svc.ReadProjectsView(context.Background(), ViewRequest{}); err != nil {
		t.Fatalf("first read: %v", err)
	}
	view, err := svc.ReadProjectsView(context.Background(), ViewRequest{})
	if err != nil {
		t.Fatalf("second read: %v", err)
	}

	if !view.Cached {
		t.Error("second read within TTL reported cached = false")
	}
	if src.projectCalls != 1 {
		t.Errorf("source listed projects %d times, want 1", src.projectCalls)
	}
}

func TestReadProjectsViewExpiry(t *testing.T) {
	clock := newFakeClock()
	src := &fakeSource{projects: []unleash.ProjectSummary{{ID: "p", Name: "p"}}}
	svc := NewService(src, WithTTL(time.Minute), WithTimeSource(clock.Now))

	if _, err := svc.ReadProjectsView(context.Background(), ViewRequest{}); err != nil {
		t.Fatalf("first read: %v", err)
	}
	clock.Advance(61 * time.Second)

	view, err := svc.ReadProjectsView(context.Background(), ViewRequest{})
	if err != nil {
		t.Fatalf("read after expiry: %v", err)
	}
	if view.Cached {
		t.Error("read after expiry reported cached = true")
	}
	if src.projectCalls != 2 {
		t.Errorf("source listed projects %d times, want 2", src.projectCalls)
	}
}

func TestReadProjectsViewFetchErrorPropagates(t *testing.T) {
	errDown := errors.New("unleash is down")
	src := &fakeSource{err: errDown}
	svc := NewService(src)

	_, err := svc.ReadProjectsView(context.Background(), ViewRequest{})
	if !errors.Is(err, errDown) {
		t.Fatalf("ReadProjectsView err = %v, want wrapped %v", err, errDown)
	}
}

func TestReadFlagsViewDefaults(t *testing.T) {
	src := &fakeSource{flags: map[string][]unleash.FlagSummary{
		"default": {{Name: "z"}, {Name: "a"}, {Name: "m"}},
	}}
	svc := NewService(src)

	view, err := svc.ReadFlagsView(context.Background(), "default", ViewRequest{})
	if err != nil {
		t.Fatalf("ReadFlagsView: %v", err)
	}

	got := flagNames(view.Items)
	if !equalStrings(got, []string{"a", "m", "z"}) {
		t.Errorf("default order produced %v, want alphabetical ascending", got)
	}
	if view.NextOffset != nil {
		t.Errorf("nextOffset = %d, want none (collection fits one page)", *view.NextOffset)
	}
	if view.TotalCount != 3 {
		t.Errorf("totalCount = %d, want 3", view.TotalCount)
	}
}

func TestReadFlagsViewRequiresProjectID(t *testing.T) {
	src := &fakeSource{}
	svc := NewService(src)

	if _, err := svc.ReadFlagsView(context.Background(), "", ViewRequest{}); err == nil {
		t.Fatal("empty project id was accepted")
	}
	if src.flagCalls != 0 {
		t.Errorf("source was called %d times for an invalid request, want 0", src.flagCalls)
	}
}

func TestReadFlagsViewPerProjectCaching(t *testing.T) {
	src := &fakeSource{flags: map[string][]unleash.FlagSummary{
		"alpha": {{Name: "a-flag"}},
		"beta":  {{Name: "b-flag"}},
	}}
	svc := NewService(src)

	a, err := svc.ReadFlagsView(context.Background(), "alpha", ViewRequest{})
	if err != nil {
		t.Fatalf("alpha: %v", err)
	}
	b, err := svc.ReadFlagsView(context.Background(), "beta", ViewRequest{})
	if err != nil {
		t.Fatalf("beta: %v", err)
	}

	if a.Items[0].Name != "a-flag" || b.Items[0].Name != "b-flag" {
		t.Errorf("projects shared a cache entry: got %v and %v", flagNames(a.Items), flagNames(b.Items))
	}
	if src.flagCalls != 2 {
		t.Errorf("source listed flags %d times, want 2 (one per project)", src.flagCalls)
	}

	// Both entries stay warm independently.
	if view, err := svc.ReadFlagsView(context.Background(), "alpha", ViewRequest{}); err != nil || !view.Cached {
		t.Errorf("alpha re-read: cached = %v, err = %v; want cached hit", view.Cached, err)
	}
	if src.flagCalls != 2 {
		t.Errorf("re-read hit the source: %d calls, want 2", src.flagCalls)
	}
}

func TestReadFlagsViewNormalizesRequest(t *testing.T) {
	src := &fakeSource{flags: map[string][]unleash.FlagSummary{
		"default": {{Name: "a"}, {Name: "z"}},
	}}
	svc := NewService(src)

	tests := []struct {
		name      string
		req       ViewRequest
		wantFirst string
	}{
		{name: "unknown order falls back to asc", req: ViewRequest{Order: "sideways"}, wantFirst: "a"},
		{name: "order is case insensitive", req: ViewRequest{Order: "DESC"}, wantFirst: "z"},
		{name: "negative offset clamps to zero", req: ViewRequest{Offset: -5}, wantFirst: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.ReadFlagsView(context.Background(), "default", tt.req)
			if err != nil {
				t.Fatalf("ReadFlagsView(%+v): %v", tt.req, err)
			}
			if len(view.Items) == 0 || view.Items[0].Name != tt.wantFirst {
				t.Errorf("first item = %v, want %q", flagNames(view.Items), tt.wantFirst)
			}
		})
	}
}

// Paging through a project's flags with limit 1 yields each flag once,
// in order, with nextOffset advancing by the limit.
func TestReadFlagsViewPagedWalk(t *testing.T) {
	src := &fakeSource{flags: map[string][]unleash.FlagSummary{
		"default": {{Name: "z"}, {Name: "a"}},
	}}
	svc := NewService(src)

	var walked []string
	offset := 0
	for {
		view, err := svc.ReadFlagsView(context.Background(), "default", ViewRequest{Limit: 1, Offset: offset})
		if err != nil {
			t.Fatalf("offset %d: %v", offset, err)
		}
		walked = append(walked, flagNames(view.Items)...)
		if view.NextOffset == nil {
			break
		}
		offset = *view.NextOffset
	}

	if !equalStrings(walked, []string{"a", "z"}) {
		t.Errorf("walk visited %v, want [a z]", walked)
	}
	if src.flagCalls != 1 {
		t.Errorf("walk hit the source %d times, want 1 (pages come from cache)", src.flagCalls)
	}
}
