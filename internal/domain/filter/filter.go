// Package filter narrows the normalized record set and builds the option
// lists the filters are chosen from.
package filter

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/baton/internal/domain/model"
	"github.com/okian/baton/internal/domain/role"
)

// Query is a conjunction of optional filters. The zero value matches
// every record.
type Query struct {
	// Search is a case-insensitive substring of the conductor name or the
	// show title.
	Search string
	// Role matches the raw role exactly.
	Role string
	// Decade matches the record decade exactly.
	Decade *int
	// Conductor matches the conductor name exactly.
	Conductor string
	// Category matches the derived role category.
	Category *role.Category
}

// Query string keys.
const (
	KeySearch    = "search"
	KeyRole      = "role"
	KeyDecade    = "decade"
	KeyConductor = "conductor"
	KeyCategory  = "category"
)

// FromValues reads a Query from URL values. "all" and empty values leave a
// dimension unfiltered.
func FromValues(v url.Values) (Query, error) {
	q := Query{
		Search:    strings.TrimSpace(v.Get(KeySearch)),
		Role:      unlessAll(v.Get(KeyRole)),
		Conductor: unlessAll(v.Get(KeyConductor)),
	}
	if d := unlessAll(v.Get(KeyDecade)); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			return Query{}, fmt.Errorf("%w: %q", ErrInvalidDecade, d)
		}
		q.Decade = &n
	}
	if c := unlessAll(v.Get(KeyCategory)); c != "" {
		cat, ok := role.ParseCategory(c)
		if !ok {
			return Query{}, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
		}
		q.Category = &cat
	}
	return q, nil
}

// Values is the inverse of FromValues.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set(KeySearch, q.Search)
	}
	if q.Role != "" {
		v.Set(KeyRole, q.Role)
	}
	if q.Decade != nil {
		v.Set(KeyDecade, strconv.Itoa(*q.Decade))
	}
	if q.Conductor != "" {
		v.Set(KeyConductor, q.Conductor)
	}
	if q.Category != nil {
		v.Set(KeyCategory, q.Category.Key())
	}
	return v
}

func unlessAll(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// Apply returns the records matching every set filter in their original
// order. The input is not modified.
func Apply(records []model.Record, q Query) []model.Record {
	m := q.matcher()
	out := make([]model.Record, 0, len(records))
	for i := range records {
		if m(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

func (q Query) matcher() func(*model.Record) bool {
	fold := cases.Fold()
	needle := fold.String(q.Search)
	return func(r *model.Record) bool {
		if needle != "" &&
			!strings.Contains(fold.String(r.Conductor), needle) &&
			!strings.Contains(fold.String(r.Show), needle) {
			return false
		}
		if q.Role != "" && r.Role != q.Role {
			return false
		}
		if q.Decade != nil && (r.Decade == nil || *r.Decade != *q.Decade) {
			return false
		}
		if q.Conductor != "" && r.Conductor != q.Conductor {
			return false
		}
		if q.Category != nil && r.Category != *q.Category {
			return false
		}
		return true
	}
}

// DecadeGroup is the records of one decade.
type DecadeGroup struct {
	Decade  *int           `json:"decade"`
	Label   string         `json:"label"`
	Records []model.Record `json:"records"`
}

// GroupByDecade buckets records by decade in ascending order, records
// without a decade last. Order within a group is preserved.
func GroupByDecade(records []model.Record) []DecadeGroup {
	idx := make(map[int]int)
	unknown := -1
	var out []DecadeGroup
	for i := range records {
		r := records[i]
		var j int
		if r.Decade == nil {
			if unknown < 0 {
				unknown = len(out)
				out = append(out, DecadeGroup{Label: model.Unknown})
			}
			j = unknown
		} else {
			var ok bool
			if j, ok = idx[*r.Decade]; !ok {
				d := *r.Decade
				j = len(out)
				idx[d] = j
				out = append(out, DecadeGroup{Decade: &d, Label: strconv.Itoa(d) + "s"})
			}
		}
		out[j].Records = append(out[j].Records, r)
	}
	slices.SortStableFunc(out, func(a, b DecadeGroup) int {
		switch {
		case a.Decade == nil && b.Decade == nil:
			return 0
		case a.Decade == nil:
			return 1
		case b.Decade == nil:
			return -1
		default:
			return cmp.Compare(*a.Decade, *b.Decade)
		}
	})
	if out == nil {
		out = []DecadeGroup{}
	}
	return out
}
