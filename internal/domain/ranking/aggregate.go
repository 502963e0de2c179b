// Package ranking derives per-conductor aggregates from normalized records
// and orders conductors into standings, highlights and pioneers.
package ranking

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/okian/baton/internal/domain/model"
)

// RoleCount is a raw role and how many records carry it.
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// Aggregate summarizes every record of one conductor.
type Aggregate struct {
	Name     string      `json:"name"`
	Total    int         `json:"total"`
	HasYears bool        `json:"has_years"`
	MinYear  int         `json:"min_year,omitempty"`
	MaxYear  int         `json:"max_year,omitempty"`
	Roles    []RoleCount `json:"roles"`
	TopRole  string      `json:"top_role"`

	// TopShow is the show with the most performances; the first one seen
	// keeps the spot on ties.
	TopShow             string  `json:"top_show"`
	TopShowPerformances float64 `json:"top_show_performances"`

	FirstRole  string        `json:"first_role"`
	Photo      string        `json:"photo,omitempty"`
	SampleShow string        `json:"sample_show"`
	First      model.Opening `json:"first"`
	Last       model.Opening `json:"last"`
}

// YearRange renders "1950–1955", a single year, or Unknown.
func (a *Aggregate) YearRange() string {
	switch {
	case !a.HasYears:
		return model.Unknown
	case a.MinYear == a.MaxYear:
		return strconv.Itoa(a.MinYear)
	default:
		return strconv.Itoa(a.MinYear) + "–" + strconv.Itoa(a.MaxYear)
	}
}

// SpanYears is the number of calendar years between first and last dated
// production.
func (a *Aggregate) SpanYears() int {
	if !a.First.Valid || !a.Last.Valid {
		return 0
	}
	return a.Last.Time.Year() - a.First.Time.Year()
}

// AggregateByConductor folds records into one aggregate per conductor name
// in a single pass. Records without a conductor name are skipped.
func AggregateByConductor(records []model.Record) map[string]*Aggregate {
	out := make(map[string]*Aggregate, 64)
	for i := range records {
		r := &records[i]
		if r.Conductor == "" {
			continue
		}
		a, ok := out[r.Conductor]
		if !ok {
			a = &Aggregate{
				Name:                r.Conductor,
				TopShowPerformances: -1,
				SampleShow:          r.ShowOrUnknown(),
			}
			out[r.Conductor] = a
		}
		a.add(r)
	}
	for _, a := range out {
		a.finish()
	}
	return out
}

func (a *Aggregate) add(r *model.Record) {
	a.Total++

	if y, ok := r.Opening.Year(); ok {
		if !a.HasYears {
			a.MinYear, a.MaxYear, a.HasYears = y, y, true
		} else {
			a.MinYear = min(a.MinYear, y)
			a.MaxYear = max(a.MaxYear, y)
		}
		if r.Opening.Before(a.First) {
			a.First = r.Opening
		}
		if !a.Last.Valid || r.Opening.Time.After(a.Last.Time) {
			a.Last = r.Opening
		}
	}

	roleName := r.RoleOrUnknown()
	idx := slices.IndexFunc(a.Roles, func(rc RoleCount) bool { return rc.Role == roleName })
	if idx < 0 {
		a.Roles = append(a.Roles, RoleCount{Role: roleName})
		idx = len(a.Roles) - 1
	}
	a.Roles[idx].Count++
	if a.FirstRole == "" && r.Role != "" {
		a.FirstRole = r.Role
	}

	if r.Performances > a.TopShowPerformances {
		a.TopShowPerformances = r.Performances
		a.TopShow = r.ShowOrUnknown()
	}
	if a.Photo == "" && r.Photo != "" {
		a.Photo = r.Photo
	}
}

func (a *Aggregate) finish() {
	best := -1
	for _, rc := range a.Roles {
		if rc.Count > best {
			best = rc.Count
			a.TopRole = rc.Role
		}
	}
	if a.FirstRole == "" {
		a.FirstRole = model.Unknown
	}
	if a.TopShowPerformances < 0 {
		a.TopShowPerformances = 0
	}
}

// Less orders standings: more records first, then the earlier first
// production, then name.
func Less(a, b *Aggregate) bool {
	return Compare(a, b) < 0
}

// Compare is the three way form of Less.
func Compare(a, b *Aggregate) int {
	if a.Total != b.Total {
		return cmp.Compare(b.Total, a.Total)
	}
	if a.First.Valid != b.First.Valid {
		if a.First.Valid {
			return -1
		}
		return 1
	}
	if a.First.Valid && !a.First.Time.Equal(b.First.Time) {
		return a.First.Time.Compare(b.First.Time)
	}
	return cmp.Compare(a.Name, b.Name)
}

// Standings returns all aggregates in standings order.
func Standings(aggs map[string]*Aggregate) []*Aggregate {
	out := make([]*Aggregate, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, a)
	}
	slices.SortFunc(out, Compare)
	return out
}

// Comparison holds two independently selected conductors. A side is nil
// when its name is empty or unknown.
type Comparison struct {
	Left  *Aggregate `json:"left"`
	Right *Aggregate `json:"right"`
}

// CompareConductors looks up both names. The same name may appear on both
// sides.
func CompareConductors(aggs map[string]*Aggregate, left, right string) Comparison {
	return Comparison{Left: aggs[left], Right: aggs[right]}
}
