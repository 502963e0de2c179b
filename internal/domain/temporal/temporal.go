// Package temporal maps opening dates onto the fixed historical domain the
// charts are drawn over.
package temporal

import (
	"math"
	"time"
)

// Domain bounds and spiral shape.
const (
	Rotations      = 3.2
	StartAngle     = -math.Pi / 2
	revealSeconds  = 4.0
	minYearDefault = 1915
	maxYearDefault = 2026
)

// Domain is the closed date range [Min, Max] plus the spiral sweep.
type Domain struct {
	Min        time.Time
	Max        time.Time
	Rotations  float64
	StartAngle float64
}

// Default returns the archive domain 1915-01-01 .. 2026-12-31.
func Default() Domain {
	return Domain{
		Min:        time.Date(minYearDefault, time.January, 1, 0, 0, 0, 0, time.UTC),
		Max:        time.Date(maxYearDefault, time.December, 31, 0, 0, 0, 0, time.UTC),
		Rotations:  Rotations,
		StartAngle: StartAngle,
	}
}

// MaxTheta is the total angle swept by the spiral.
func (d Domain) MaxTheta() float64 {
	return 2 * math.Pi * d.Rotations
}

// Ratio is the linear position of t in the domain. It is not clamped.
func (d Domain) Ratio(t time.Time) float64 {
	span := float64(d.Max.Sub(d.Min).Milliseconds())
	if span == 0 {
		span = 1
	}
	return float64(t.Sub(d.Min).Milliseconds()) / span
}

// DateToAngle interpolates t onto [StartAngle, StartAngle+MaxTheta].
// Dates outside the domain extrapolate past the spiral ends.
func (d Domain) DateToAngle(t time.Time) float64 {
	return d.StartAngle + d.Ratio(t)*d.MaxTheta()
}

// MinYear is the first bucket year.
func (d Domain) MinYear() int { return d.Min.Year() }

// MaxYear is the last bucket year.
func (d Domain) MaxYear() int { return d.Max.Year() }

// YearCount is the number of yearly buckets.
func (d Domain) YearCount() int { return d.MaxYear() - d.MinYear() + 1 }

// ClampYear pins year into [MinYear, MaxYear].
func (d Domain) ClampYear(year int) int {
	return min(max(year, d.MinYear()), d.MaxYear())
}

// DateToYearIndex is the bucket index of t's year, clamped to the domain.
func (d Domain) DateToYearIndex(t time.Time) int {
	return d.ClampYear(t.Year()) - d.MinYear()
}

// Years lists every bucket year in order.
func (d Domain) Years() []int {
	out := make([]int, 0, d.YearCount())
	for y := d.MinYear(); y <= d.MaxYear(); y++ {
		out = append(out, y)
	}
	return out
}

// RevealDelay staggers note animations: 0s at MinYear up to 4s at MaxYear.
// Unknown years reveal immediately.
func (d Domain) RevealDelay(year int, known bool) float64 {
	if !known {
		return 0
	}
	span := float64(d.MaxYear() - d.MinYear())
	if span == 0 {
		span = 1
	}
	return float64(d.ClampYear(year)-d.MinYear()) / span * revealSeconds
}
