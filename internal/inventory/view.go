package inventory

import "strings"

// Order is the sort direction of a collection view.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Per-collection view defaults. Projects list newest-first in small
// pages; flags list alphabetically in larger ones.
const (
	DefaultProjectsLimit = 20
	DefaultFlagsLimit    = 50

	DefaultProjectsOrder = OrderDesc
	DefaultFlagsOrder    = OrderAsc
)

var validOrders = map[Order]bool{
	OrderAsc:  true,
	OrderDesc: true,
}

// ParseOrder normalizes a sort direction, case-insensitively. It
// reports false for anything that is not asc or desc.
func ParseOrder(s string) (Order, bool) {
	o := Order(strings.ToLower(s))
	if !validOrders[o] {
		return "", false
	}
	return o, true
}

// ViewRequest carries the pagination and ordering of a collection
// view. Zero values mean "not supplied": a Limit of 0 falls back to
// the collection default, an empty Order likewise, and a negative
// Offset clamps to 0.
type ViewRequest struct {
	Limit  int
	Order  Order
	Offset int
}

// withDefaults resolves unset or invalid fields against the
// collection's defaults. The projector downstream assumes requests
// have passed through here.
func (r ViewRequest) withDefaults(limit int, order Order) ViewRequest {
	if r.Limit <= 0 {
		r.Limit = limit
	}
	if o, ok := ParseOrder(string(r.Order)); ok {
		r.Order = o
	} else {
		r.Order = order
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	return r
}

// ViewResult is one rendered page of a collection.
//
// NextOffset is set exactly when the page stops short of the end of
// the sorted collection; its value is the offset of the element right
// after this page. TotalCount is the size of the whole collection, not
// of the page. Cached reports whether the data was served from a fresh
// cache entry rather than fetched.
type ViewResult[T any] struct {
	Items      []T  `json:"items"`
	NextOffset *int `json:"nextOffset,omitempty"`
	TotalCount int  `json:"totalCount"`
	Cached     bool `json:"cached"`
}
