// Package spiral places records on four concentric date spirals, one lane
// per role category.
package spiral

import (
	"math"
	"strings"
	"time"

	"github.com/okian/baton/internal/domain/model"
	"github.com/okian/baton/internal/domain/role"
	"github.com/okian/baton/internal/domain/temporal"
)

// Note radius range in view units.
const (
	MinNoteRadius = 3.0
	MaxNoteRadius = 10.0
	guideSteps    = 720
)

// Layout is a spiral drawing preset.
type Layout struct {
	Name         string  `json:"name"`
	ViewBox      float64 `json:"view_box"`
	BaseRadius   float64 `json:"base_radius"`
	LineGap      float64 `json:"line_gap"`
	SpiralGrowth float64 `json:"spiral_growth"`
}

// Desktop is the full size preset.
func Desktop() Layout {
	return Layout{Name: "desktop", ViewBox: 800, BaseRadius: 45, LineGap: 16, SpiralGrowth: 14}
}

// Compact is the small screen preset.
func Compact() Layout {
	return Layout{Name: "compact", ViewBox: 720, BaseRadius: 35, LineGap: 12, SpiralGrowth: 14}
}

// LayoutByName resolves a preset name. Empty selects desktop.
func LayoutByName(name string) (Layout, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "desktop":
		return Desktop(), true
	case "compact", "small", "mobile":
		return Compact(), true
	default:
		return Layout{}, false
	}
}

// Center is the x and y coordinate of the spiral origin.
func (l Layout) Center() float64 { return l.ViewBox / 2 }

// XY is a point in view coordinates.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polar converts an angle on the given lane to view coordinates.
func (l Layout) Polar(angle float64, lane int) XY {
	r := l.BaseRadius + float64(lane)*l.LineGap + l.SpiralGrowth*angle
	c := l.Center()
	return XY{X: c + r*math.Cos(angle), Y: c + r*math.Sin(angle)}
}

// Point places date t on the lane of category c.
func (l Layout) Point(d temporal.Domain, t time.Time, c role.Category) XY {
	return l.Polar(d.DateToAngle(t), c.Lane())
}

// Guide samples the full lane for category c from the first to the last
// domain date.
func (l Layout) Guide(d temporal.Domain, c role.Category) []XY {
	out := make([]XY, 0, guideSteps+1)
	maxTheta := d.MaxTheta()
	for i := 0; i <= guideSteps; i++ {
		angle := d.StartAngle + maxTheta*float64(i)/guideSteps
		out = append(out, l.Polar(angle, c.Lane()))
	}
	return out
}

// GuidePath is the sampled lane of one category.
type GuidePath struct {
	Category role.Category `json:"category"`
	Points   []XY          `json:"points"`
}

// Guides samples the lane of every category in lane order.
func Guides(d temporal.Domain, l Layout) []GuidePath {
	out := make([]GuidePath, 0, len(role.Categories))
	for _, c := range role.Categories {
		out = append(out, GuidePath{Category: c, Points: l.Guide(d, c)})
	}
	return out
}

// Note is a record placed on the spiral.
type Note struct {
	ID           string        `json:"id"`
	Conductor    string        `json:"conductor"`
	Role         string        `json:"role"`
	Category     role.Category `json:"category"`
	Show         string        `json:"show"`
	Opening      model.Opening `json:"opening"`
	Year         int           `json:"year"`
	Photo        string        `json:"photo,omitempty"`
	Performances float64       `json:"performances"`
	Pioneer      bool          `json:"pioneer"`
	Angle        float64       `json:"angle"`
	Lane         int           `json:"lane"`
	X            float64       `json:"x"`
	Y            float64       `json:"y"`
	Radius       float64       `json:"radius"`
	Delay        float64       `json:"delay"`
}

// Notes places every record with a valid opening date. Note radii scale
// linearly from the performance range of the placed records onto
// [MinNoteRadius, MaxNoteRadius].
func Notes(d temporal.Domain, l Layout, records []model.Record) []Note {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range records {
		if !records[i].Opening.Valid {
			continue
		}
		lo = math.Min(lo, records[i].Performances)
		hi = math.Max(hi, records[i].Performances)
	}
	span := hi - lo
	if span == 0 || math.IsInf(span, 0) || math.IsNaN(span) {
		span = 1
	}

	out := make([]Note, 0, len(records))
	for i := range records {
		r := &records[i]
		if !r.Opening.Valid {
			continue
		}
		angle := d.DateToAngle(r.Opening.Time)
		lane := r.Category.Lane()
		p := l.Polar(angle, lane)
		year, _ := r.Opening.Year()
		out = append(out, Note{
			ID:           r.ID,
			Conductor:    r.ConductorOrUnknown(),
			Role:         r.RoleOrUnknown(),
			Category:     r.Category,
			Show:         r.ShowOrUnknown(),
			Opening:      r.Opening,
			Year:         year,
			Photo:        r.Photo,
			Performances: r.Performances,
			Pioneer:      r.Pioneer,
			Angle:        angle,
			Lane:         lane,
			X:            p.X,
			Y:            p.Y,
			Radius:       MinNoteRadius + (r.Performances-lo)/span*(MaxNoteRadius-MinNoteRadius),
			Delay:        d.RevealDelay(year, true),
		})
	}
	return out
}
