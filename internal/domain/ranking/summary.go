package ranking

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/okian/baton/internal/domain/model"
	"github.com/okian/baton/internal/domain/role"
)

// RoleLevels groups the raw role breakdown by hierarchy level. Each group
// is sorted by count, largest first.
type RoleLevels struct {
	Primary    []RoleCount `json:"primary"`
	Secondary  []RoleCount `json:"secondary"`
	Supporting []RoleCount `json:"supporting"`
}

// Summary is the archive at a glance.
type Summary struct {
	TotalRecords     int           `json:"total_records"`
	UniqueConductors int           `json:"unique_conductors"`
	UniqueShows      int           `json:"unique_shows"`
	Decades          int           `json:"decades"`
	Roles            RoleLevels    `json:"roles"`
	FirstShow        *model.Record `json:"first_show,omitempty"`
}

// Summarize counts records, distinct names, titles and non-zero decades,
// and finds the earliest dated record.
func Summarize(records []model.Record) Summary {
	var (
		conductors = make(map[string]struct{})
		shows      = make(map[string]struct{})
		decades    = make(map[int]struct{})
		first      *model.Record
	)
	for i := range records {
		r := &records[i]
		if r.Conductor != "" {
			conductors[r.Conductor] = struct{}{}
		}
		if r.Show != "" {
			shows[r.Show] = struct{}{}
		}
		if r.Decade != nil && *r.Decade != 0 {
			decades[*r.Decade] = struct{}{}
		}
		if r.Opening.Valid && (first == nil || r.Opening.Time.Before(first.Opening.Time)) {
			first = r
		}
	}

	s := Summary{
		TotalRecords:     len(records),
		UniqueConductors: len(conductors),
		UniqueShows:      len(shows),
		Decades:          len(decades),
		Roles:            levelsOf(records),
	}
	if first != nil {
		fs := *first
		s.FirstShow = &fs
	}
	return s
}

func levelsOf(records []model.Record) RoleLevels {
	var out RoleLevels
	for _, rc := range countBy(records, func(r *model.Record) (string, bool) { return r.Role, r.Role != "" }) {
		switch role.LevelOf(rc.Role) {
		case role.Primary:
			out.Primary = append(out.Primary, rc)
		case role.Secondary:
			out.Secondary = append(out.Secondary, rc)
		default:
			out.Supporting = append(out.Supporting, rc)
		}
	}
	return out
}

// countBy tallies records by key, dropping records where ok is false, and
// sorts by count desc then key asc.
func countBy(records []model.Record, key func(*model.Record) (string, bool)) []RoleCount {
	counts := make(map[string]int)
	for i := range records {
		if k, ok := key(&records[i]); ok {
			counts[k]++
		}
	}
	out := make([]RoleCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, RoleCount{Role: k, Count: n})
	}
	slices.SortFunc(out, func(a, b RoleCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Role, b.Role)
	})
	return out
}

var (
	leadRoles    = map[string]struct{}{"Music Supervisor": {}, "Music Director": {}}
	supportRoles = map[string]struct{}{"Assistant Conductor": {}, "Associate Music Director": {}}
)

// DecadeLeadership compares lead and support roles within one decade.
type DecadeLeadership struct {
	Decade     int `json:"decade"`
	Lead       int `json:"lead"`
	Support    int `json:"support"`
	Total      int `json:"total"`
	LeadPct    int `json:"lead_pct"`
	SupportPct int `json:"support_pct"`
}

// LeadershipByDecade counts lead (music supervisor, music director) and
// support (assistant conductor, associate music director) records per
// non-zero decade. Decades without either role are left out.
func LeadershipByDecade(records []model.Record) []DecadeLeadership {
	byDecade := make(map[int]*DecadeLeadership)
	for i := range records {
		r := &records[i]
		if r.Decade == nil || *r.Decade == 0 || r.Role == "" {
			continue
		}
		_, lead := leadRoles[r.Role]
		_, support := supportRoles[r.Role]
		if !lead && !support {
			continue
		}
		d, ok := byDecade[*r.Decade]
		if !ok {
			d = &DecadeLeadership{Decade: *r.Decade}
			byDecade[*r.Decade] = d
		}
		if lead {
			d.Lead++
		} else {
			d.Support++
		}
	}

	out := make([]DecadeLeadership, 0, len(byDecade))
	for _, d := range byDecade {
		d.Total = d.Lead + d.Support
		d.LeadPct = percent(d.Lead, d.Total)
		d.SupportPct = percent(d.Support, d.Total)
		out = append(out, *d)
	}
	slices.SortFunc(out, func(a, b DecadeLeadership) int { return cmp.Compare(a.Decade, b.Decade) })
	return out
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(part)*100/float64(total) + 0.5))
}

// LabelCount is one bar of a breakdown chart.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ByDecade counts records per decade labelled "1950s", with Unknown for
// records without a decade, sorted by label.
func ByDecade(records []model.Record) []LabelCount {
	counts := make(map[string]int)
	for i := range records {
		label := model.Unknown
		if d := records[i].Decade; d != nil {
			label = strconv.Itoa(*d) + "s"
		}
		counts[label]++
	}
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b LabelCount) int { return cmp.Compare(a.Label, b.Label) })
	return out
}

// ByRole counts records per raw role, Unknown for missing roles, largest
// first.
func ByRole(records []model.Record) []LabelCount {
	counts := countBy(records, func(r *model.Record) (string, bool) { return r.RoleOrUnknown(), true })
	out := make([]LabelCount, len(counts))
	for i, rc := range counts {
		out[i] = LabelCount{Label: rc.Role, Count: rc.Count}
	}
	return out
}

// ShowCount is a title and the number of records naming it.
type ShowCount struct {
	Title  string `json:"title"`
	Count  int    `json:"count"`
	Family string `json:"family"`
	Bucket string `json:"bucket"`
}

// TopShows returns the n titles with the most records. Untitled records
// are ignored and ties keep first-seen order.
func TopShows(records []model.Record, n int) []ShowCount {
	idx := make(map[string]int)
	out := make([]ShowCount, 0, 16)
	for i := range records {
		t := records[i].Show
		if t == "" {
			continue
		}
		j, ok := idx[t]
		if !ok {
			j = len(out)
			idx[t] = j
			out = append(out, ShowCount{Title: t})
		}
		out[j].Count++
	}
	slices.SortStableFunc(out, func(a, b ShowCount) int { return cmp.Compare(b.Count, a.Count) })
	out = out[:max(0, min(n, len(out)))]
	for i := range out {
		out[i].Family, out[i].Bucket = familyFor(out[i].Count)
	}
	return out
}

// familyFor maps a record count onto an instrument family.
func familyFor(count int) (family, bucket string) {
	switch {
	case count >= 10:
		return "Grand Piano", "10+"
	case count >= 5:
		return "Strings", "5-9"
	case count >= 2:
		return "Brass", "2-4"
	default:
		return "Woodwind", "1"
	}
}
