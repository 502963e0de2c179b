package ranking

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/okian/baton/internal/domain/model"
)

// Insight kinds, highest priority first.
const (
	InsightHistoricalPioneer = "historical_pioneer"
	InsightLongestSpan       = "longest_span"
	InsightTopRecorded       = "top_recorded"

	pioneerPriority = 1000
	longSpanYears   = 10
)

// Insight is the headline fact shown with a highlighted conductor.
type Insight struct {
	Kind     string `json:"kind"`
	Priority int    `json:"priority"`
}

// Highlight is one entry of the featured conductors list.
type Highlight struct {
	Rank       int           `json:"rank"`
	Name       string        `json:"name"`
	Initials   string        `json:"initials"`
	Role       string        `json:"role"`
	Photo      string        `json:"photo,omitempty"`
	Count      int           `json:"count"`
	First      model.Opening `json:"first"`
	SpanYears  int           `json:"span_years"`
	SampleShow string        `json:"sample_show"`
	Insight    Insight       `json:"insight"`
}

// Earliest is the earliest first production over all aggregates.
func Earliest(aggs []*Aggregate) model.Opening {
	var out model.Opening
	for _, a := range aggs {
		if a.First.Before(out) {
			out = a.First
		}
	}
	return out
}

// InsightFor picks the headline for a against the archive-wide earliest
// first production.
func InsightFor(a *Aggregate, earliest model.Opening) Insight {
	span := a.SpanYears()
	switch {
	case a.First.Valid && earliest.Valid && a.First.Time.Equal(earliest.Time):
		return Insight{Kind: InsightHistoricalPioneer, Priority: pioneerPriority}
	case span > longSpanYears:
		return Insight{Kind: InsightLongestSpan, Priority: span}
	default:
		return Insight{Kind: InsightTopRecorded, Priority: a.Total}
	}
}

// HighlightsFrom builds highlights for top, which must already be in
// standings order.
func HighlightsFrom(top []*Aggregate, earliest model.Opening) []Highlight {
	out := make([]Highlight, 0, len(top))
	for i, a := range top {
		out = append(out, Highlight{
			Rank:       i + 1,
			Name:       a.Name,
			Initials:   Initials(a.Name),
			Role:       a.FirstRole,
			Photo:      a.Photo,
			Count:      a.Total,
			First:      a.First,
			SpanYears:  a.SpanYears(),
			SampleShow: a.SampleShow,
			Insight:    InsightFor(a, earliest),
		})
	}
	return out
}

// Highlights returns the top limit conductors of standings.
func Highlights(standings []*Aggregate, limit int) []Highlight {
	limit = max(0, min(limit, len(standings)))
	return HighlightsFrom(standings[:limit], Earliest(standings))
}

// Initials returns the upper-cased first letters of the first and last
// words of name, or "?" when name is blank.
func Initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "?"
	}
	first := firstRune(parts[0])
	if len(parts) == 1 {
		return first
	}
	return first + firstRune(parts[len(parts)-1])
}

func firstRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}
