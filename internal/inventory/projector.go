package inventory

import (
	"slices"
	"sort"
	"time"

	"github.com/avennor/unleash-mcp/internal/unleash"
)

// createdAtLayouts are the accepted createdAt shapes: RFC 3339
// instants (time.Parse takes fractional seconds in stride) and the
// bare dates older payloads carry. Anything else counts as undated.
var createdAtLayouts = []string{time.RFC3339, "2006-01-02"}

// parseCreatedAt parses a createdAt value, mapping missing or
// unparseable input to the zero time so undated entries take a fixed,
// comparable position: older than every dated entry.
func parseCreatedAt(s string) time.Time {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SortProjects returns the projects ordered by creation time in the
// requested direction. Undated entries sort as oldest, so they trail
// under desc and lead under asc. Equal instants break by
// case-sensitive name comparison in the same direction. The input
// slice is never mutated.
func SortProjects(projects []unleash.ProjectSummary, order Order) []unleash.ProjectSummary {
	sorted := slices.Clone(projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := parseCreatedAt(sorted[i].CreatedAt), parseCreatedAt(sorted[j].CreatedAt)
		if !ti.Equal(tj) {
			if order == OrderDesc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		}
		if order == OrderDesc {
			return sorted[i].Name > sorted[j].Name
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// SortFlags returns the flags ordered by name in the requested
// direction. Name ties break by creation time ascending regardless of
// direction; entries still tied keep their original relative order.
// The input slice is never mutated.
func SortFlags(flags []unleash.FlagSummary, order Order) []unleash.FlagSummary {
	sorted := slices.Clone(flags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			if order == OrderDesc {
				return sorted[i].Name > sorted[j].Name
			}
			return sorted[i].Name < sorted[j].Name
		}
		return parseCreatedAt(sorted[i].CreatedAt).Before(parseCreatedAt(sorted[j].CreatedAt))
	})
	return sorted
}

// Paginate slices one page out of an already-sorted collection: the
// half-open interval [offset, offset+limit). An offset at or past the
// end yields an empty page with no next offset. A non-positive limit
// takes everything from offset. The next offset is returned exactly
// when elements remain past the page, and its value is always
// offset+limit.
func Paginate[T any](sorted []T, offset, limit int) ([]T, *int) {
	total := len(sorted)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []T{}, nil
	}

	end := total
	var next *int
	if limit > 0 && offset+limit < total {
		end = offset + limit
		n := end
		next = &n
	}
	return sorted[offset:end], next
}
