// Package role maps free-text leadership role labels onto the four
// stream categories used by the chart views.
package role

import "strings"

// Category is one of the four canonical leadership groupings.
type Category int

// Declaration order is the stacking order of the stream chart and the lane
// order of the spiral.
const (
	Conductor Category = iota
	MusicDirector
	MusicSupervisor
	OtherLeadership
)

// Categories lists every category in declaration order.
var Categories = []Category{Conductor, MusicDirector, MusicSupervisor, OtherLeadership}

var members = map[Category]map[string]struct{}{
	Conductor: {
		"Conductor":            {},
		"Substitute Conductor": {},
		"Associate Conductor":  {},
	},
	MusicDirector: {
		"Music Director":           {},
		"Assistant Music Director": {},
		"Associate Music Director": {},
	},
	MusicSupervisor: {
		"Music Supervisor":           {},
		"Associate Music Supervisor": {},
	},
}

// Classify returns the category of a raw role label. Matching is exact set
// membership; anything not listed, including "Assistant Conductor" and
// "Alternate Conductor", is OtherLeadership.
func Classify(raw string) Category {
	if raw == "" {
		return OtherLeadership
	}
	for _, c := range []Category{Conductor, MusicDirector, MusicSupervisor} {
		if _, ok := members[c][raw]; ok {
			return c
		}
	}
	return OtherLeadership
}

// Lane is the spiral lane index of the category (0-3).
func (c Category) Lane() int {
	if c < Conductor || c > OtherLeadership {
		return int(OtherLeadership)
	}
	return int(c)
}

// Label is the display name of the category.
func (c Category) Label() string {
	switch c {
	case Conductor:
		return "Conductor"
	case MusicDirector:
		return "Music Director"
	case MusicSupervisor:
		return "Music Supervisor"
	default:
		return "Other Leadership"
	}
}

// Key is the stable machine name used in query strings and JSON.
func (c Category) Key() string {
	switch c {
	case Conductor:
		return "conductor"
	case MusicDirector:
		return "music_director"
	case MusicSupervisor:
		return "music_supervisor"
	default:
		return "other_leadership"
	}
}

func (c Category) String() string { return c.Label() }

// MarshalText encodes the category by key.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Key()), nil
}

// ParseCategory accepts a key or a label, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, c.Key()) || strings.EqualFold(s, c.Label()) {
			return c, true
		}
	}
	return OtherLeadership, false
}

// Level places raw roles into the primary/secondary/supporting hierarchy
// shown in the role breakdown.
type Level string

const (
	Primary    Level = "primary"
	Secondary  Level = "secondary"
	Supporting Level = "supporting"
)

var levels = map[string]Level{
	"Music Supervisor":           Primary,
	"Music Director":             Primary,
	"Music Director / Conductor": Primary,

	"Conductor":                Secondary,
	"Associate Music Director": Secondary,
	"Associate Music Director / Associate Conductor": Secondary,
	"Associate Conductor": Secondary,

	"Assistant Conductor":  Supporting,
	"Alternate Conductor":  Supporting,
	"Substitute Conductor": Supporting,
}

// LevelOf returns the hierarchy level of a raw role; unknown roles are
// supporting.
func LevelOf(raw string) Level {
	if l, ok := levels[raw]; ok {
		return l
	}
	return Supporting
}
