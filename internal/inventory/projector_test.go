package inventory

import (
	"testing"
	"time"

	"github.com/avennor/unleash-mcp/internal/unleash"
)

func TestParseCreatedAt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		zero bool
	}{
		{name: "rfc3339", in: "2024-03-15T10:30:00Z", want: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{name: "rfc3339 fractional", in: "2024-03-15T10:30:00.250Z", want: time.Date(2024, 3, 15, 10, 30, 0, 250_000_000, time.UTC)},
		{name: "rfc3339 offset", in: "2024-03-15T10:30:00+02:00", want: time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)},
		{name: "bare date", in: "2024-01-01", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "empty", in: "", zero: true},
		{name: "garbage", in: "last tuesday", zero: true},
		{name: "partial date", in: "2024-01", zero: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCreatedAt(tt.in)
			if tt.zero {
				if !got.IsZero() {
					t.Errorf("parseCreatedAt(%q) = %v, want zero time", tt.in, got)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseCreatedAt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func projectNames(ps []unleash.ProjectSummary) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

func flagNames(fs []unleash.FlagSummary) []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortProjects(t *testing.T) {
	undated := unleash.ProjectSummary{ID: "a", Name: "a"}
	dated := unleash.ProjectSummary{ID: "b", Name: "b", CreatedAt: "2024-01-01"}
	older := unleash.ProjectSummary{ID: "c", Name: "c", CreatedAt: "2023-06-01T00:00:00Z"}

	tests := []struct {
		name  string
		in    []unleash.ProjectSummary
		order Order
		want  []string
	}{
		{
			name:  "desc puts dated before undated",
			in:    []unleash.ProjectSummary{undated, dated},
			order: OrderDesc,
			want:  []string{"b", "a"},
		},
		{
			name:  "asc puts undated first",
			in:    []unleash.ProjectSummary{undated, dated},
			order: OrderAsc,
			want:  []string{"a", "b"},
		},
		{
			name:  "desc newest first",
			in:    []unleash.ProjectSummary{older, undated, dated},
			order: OrderDesc,
			want:  []string{"b", "c", "a"},
		},
		{
			name:  "asc oldest first with undated leading",
			in:    []unleash.ProjectSummary{dated, older, undated},
			order: OrderAsc,
			want:  []string{"a", "c", "b"},
		},
		{
			name: "equal instants break by name in direction",
			in: []unleash.ProjectSummary{
				{ID: "1", Name: "zeta", CreatedAt: "2024-01-01T00:00:00Z"},
				{ID: "2", Name: "alpha", CreatedAt: "2024-01-01T00:00:00Z"},
			},
			order: OrderDesc,
			want:  []string{"zeta", "alpha"},
		},
		{
			name: "name tie-break is case sensitive",
			in: []unleash.ProjectSummary{
				{ID: "1", Name: "beta"},
				{ID: "2", Name: "Alpha"},
			},
			order: OrderAsc,
			want:  []string{"Alpha", "beta"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projectNames(SortProjects(tt.in, tt.order))
			if !equalStrings(got, tt.want) {
				t.Errorf("SortProjects(%s) = %v, want %v", tt.order, got, tt.want)
			}
		})
	}
}

func TestSortProjectsDoesNotMutateInput(t *testing.T) {
	in := []unleash.ProjectSummary{
		{Name: "b", CreatedAt: "2024-01-01"},
		{Name: "a", CreatedAt: "2025-01-01"},
	}
	SortProjects(in, OrderAsc)
	if in[0].Name != "b" {
		t.Errorf("input slice reordered in place: first element is now %q", in[0].Name)
	}
}

func TestSortFlags(t *testing.T) {
	tests := []struct {
		name  string
		in    []unleash.FlagSummary
		order Order
		want  []string
	}{
		{
			name: "asc by name",
			in: []unleash.FlagSummary{
				{Name: "z"},
				{Name: "a"},
			},
			order: OrderAsc,
			want:  []string{"a", "z"},
		},
		{
			name: "desc by name",
			in: []unleash.FlagSummary{
				{Name: "a"},
				{Name: "z"},
			},
			order: OrderDesc,
			want:  []string{"z", "a"},
		},
		{
			name: "name ties break by creation ascending even under desc",
			in: []unleash.FlagSummary{
				{Name: "dup", Project: "late", CreatedAt: "2025-01-01T00:00:00Z"},
				{Name: "dup", Project: "early", CreatedAt: "2024-01-01T00:00:00Z"},
				{Name: "aaa"},
			},
			order: OrderDesc,
			want:  []string{"dup", "dup", "aaa"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flagNames(SortFlags(tt.in, tt.order))
			if !equalStrings(got, tt.want) {
				t.Errorf("SortFlags(%s) = %v, want %v", tt.order, got, tt.want)
			}
		})
	}
}

func TestSortFlagsTieBreakByCreation(t *testing.T) {
	in := []unleash.FlagSummary{
		{Name: "dup", Project: "late", CreatedAt: "2025-01-01T00:00:00Z"},
		{Name: "dup", Project: "early", CreatedAt: "2024-01-01T00:00:00Z"},
	}
	for _, order := range []Order{OrderAsc, OrderDesc} {
		got := SortFlags(in, order)
		if got[0].Project != "early" || got[1].Project != "late" {
			t.Errorf("order %s: name ties must sort by creation ascending, got [%s %s]",
				order, got[0].Project, got[1].Project)
		}
	}
}

func TestSortFlagsFullTieIsStable(t *testing.T) {
	in := []unleash.FlagSummary{
		{Name: "dup", Project: "first"},
		{Name: "dup", Project: "second"},
		{Name: "dup", Project: "third"},
	}
	got := SortFlags(in, OrderAsc)
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Project != want {
			t.Fatalf("full ties reordered: position %d is %q, want %q", i, got[i].Project, want)
		}
	}
}

func TestPaginate(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name     string
		offset   int
		limit    int
		want     []string
		wantNext *int
	}{
		{name: "first page", offset: 0, limit: 2, want: []string{"a", "b"}, wantNext: intp(2)},
		{name: "middle page", offset: 2, limit: 2, want: []string{"c", "d"}, wantNext: intp(4)},
		{name: "last partial page", offset: 4, limit: 2, want: []string{"e"}, wantNext: nil},
		{name: "exact end", offset: 3, limit: 2, want: []string{"d", "e"}, wantNext: nil},
		{name: "limit covers everything", offset: 0, limit: 5, want: items, wantNext: nil},
		{name: "limit past everything", offset: 0, limit: 50, want: items, wantNext: nil},
		{name: "offset at end", offset: 5, limit: 2, want: []string{}, wantNext: nil},
		{name: "offset past end", offset: 99, limit: 2, want: []string{}, wantNext: nil},
		{name: "negative offset clamps", offset: -3, limit: 2, want: []string{"a", "b"}, wantNext: intp(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, next := Paginate(items, tt.offset, tt.limit)
			if !equalStrings(got, tt.want) {
				t.Errorf("Paginate(%d, %d) = %v, want %v", tt.offset, tt.limit, got, tt.want)
			}
			switch {
			case tt.wantNext == nil && next != nil:
				t.Errorf("Paginate(%d, %d) nextOffset = %d, want none", tt.offset, tt.limit, *next)
			case tt.wantNext != nil && next == nil:
				t.Errorf("Paginate(%d, %d) nextOffset = none, want %d", tt.offset, tt.limit, *tt.wantNext)
			case tt.wantNext != nil && *next != *tt.wantNext:
				t.Errorf("Paginate(%d, %d) nextOffset = %d, want %d", tt.offset, tt.limit, *next, *tt.wantNext)
			}
		})
	}
}

func intp(n int) *int { return &n }

// Walking a collection one page at a time must visit every element
// exactly once, in sorted order.
func TestPaginationWalkCoversCollection(t *testing.T) {
	flags := []unleash.FlagSummary{
		{Name: "z"}, {Name: "a"}, {Name: "m"}, {Name: "b"}, {Name: "q"},
	}
	sorted := SortFlags(flags, OrderAsc)

	var walked []string
	offset := 0
	for {
		page, next := Paginate(sorted, offset, 2)
		walked = append(walked, flagNames(page)...)
		if next == nil {
			break
		}
		if *next != offset+2 {
			t.Fatalf("nextOffset = %d, want %d", *next, offset+2)
		}
		offset = *next
	}

	want := []string{"a", "b", "m", "q", "z"}
	if !equalStrings(walked, want) {
		t.Errorf("walk visited %v, want %v", walked, want)
	}
}
