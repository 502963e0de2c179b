package filter

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/baton/internal/domain/model"
)

// Options are the values each filter can take.
type Options struct {
	Roles      []string `json:"roles"`
	Decades    []int    `json:"decades"`
	Conductors []string `json:"conductors"`
}

// BuildOptions collects the distinct roles, non-zero decades and
// conductor names of records.
func BuildOptions(records []model.Record) Options {
	return Options{
		Roles:      Roles(records),
		Decades:    Decades(records),
		Conductors: Conductors(records, "", ""),
	}
}

// Roles lists the distinct non-empty raw roles, sorted.
func Roles(records []model.Record) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 16)
	for i := range records {
		r := records[i].Role
		if _, ok := seen[r]; ok || r == "" {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Decades lists the distinct non-zero decades, ascending.
func Decades(records []model.Record) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0, 16)
	for i := range records {
		d := records[i].Decade
		if d == nil || *d == 0 {
			continue
		}
		if _, ok := seen[*d]; ok {
			continue
		}
		seen[*d] = struct{}{}
		out = append(out, *d)
	}
	slices.Sort(out)
	return out
}

// Conductors lists distinct conductor names ordered ignoring case and
// accents. A non-empty query keeps names containing it case-insensitively;
// exclude drops one exact name, as when the other comparison side already
// holds it.
func Conductors(records []model.Record, query, exclude string) []string {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))

	seen := make(map[string]struct{})
	out := make([]string, 0, 64)
	for i := range records {
		name := records[i].Conductor
		if name == "" || name == exclude {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if needle != "" && !strings.Contains(fold.String(name), needle) {
			continue
		}
		out = append(out, name)
	}

	col := collate.New(language.Und, collate.Loose)
	slices.SortFunc(out, func(a, b string) int {
		if c := col.CompareString(a, b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return out
}
