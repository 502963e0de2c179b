package site

import (
	"strconv"
	"strings"

	"github.com/okian/baton/internal/domain/spiral"
	"github.com/okian/baton/internal/domain/stream"
)

// Stream chart frame in view units.
const (
	streamWidth  = 800.0
	streamHeight = 220.0
	streamMargin = 24.0
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// polyline renders points as an SVG path.
func polyline(points []spiral.XY) string {
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(p.X))
		b.WriteByte(' ')
		b.WriteString(num(p.Y))
	}
	return b.String()
}

// frame maps bucket indexes and band values onto the stream chart.
type frame struct {
	n      int
	bounds stream.Bounds
}

func (f frame) x(i int) float64 {
	if f.n < 2 {
		return streamWidth / 2
	}
	return streamMargin + float64(i)*(streamWidth-2*streamMargin)/float64(f.n-1)
}

func (f frame) y(v float64) float64 {
	span := f.bounds.Max - f.bounds.Min
	if span == 0 {
		return streamHeight / 2
	}
	return streamMargin + (f.bounds.Max-v)/span*(streamHeight-2*streamMargin)
}

// area outlines one series: along the upper edges left to right, then
// back along the lower edges.
func (f frame) area(bands []stream.Band) string {
	if len(bands) == 0 {
		return ""
	}
	var b strings.Builder
	for i, band := range bands {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(f.x(i)))
		b.WriteByte(' ')
		b.WriteString(num(f.y(band.High)))
	}
	for i := len(bands) - 1; i >= 0; i-- {
		b.WriteString(" L")
		b.WriteString(num(f.x(i)))
		b.WriteByte(' ')
		b.WriteString(num(f.y(bands[i].Low)))
	}
	b.WriteString(" Z")
	return b.String()
}
