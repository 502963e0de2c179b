// Package stream buckets records by year and category and lays the counts
// out as a silhouette-stacked stream graph.
package stream

import (
	"encoding/json"
	"math"

	"github.com/okian/baton/internal/domain/model"
	"github.com/okian/baton/internal/domain/role"
	"github.com/okian/baton/internal/domain/temporal"
)

const boundsPaddingRatio = 0.05

// Bucket holds one year's record count per category, indexed by
// role.Category.
type Bucket struct {
	Year   int    `json:"year"`
	Counts [4]int `json:"counts"`
}

// Total is the number of records in the bucket.
func (b Bucket) Total() int {
	sum := 0
	for _, c := range b.Counts {
		sum += c
	}
	return sum
}

// Band is the [Low, High] extent of one category at one year.
type Band struct {
	Low  float64
	High float64
}

// Height is High-Low.
func (b Band) Height() float64 { return b.High - b.Low }

// Mid is the band's vertical center.
func (b Band) Mid() float64 { return (b.Low + b.High) / 2 }

// MarshalJSON encodes the band as a two element array.
func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{b.Low, b.High})
}

// Series is one category's band per bucket year.
type Series struct {
	Category role.Category `json:"category"`
	Label    string        `json:"label"`
	Bands    []Band        `json:"bands"`
}

// Bounds is the padded value range covered by all bands.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Bead places a dated record at the middle of its category band.
type Bead struct {
	RecordID string        `json:"record_id"`
	Year     int           `json:"year"`
	Category role.Category `json:"category"`
	Mid      float64       `json:"mid"`
}

// Layout is the full stream view.
type Layout struct {
	Buckets []Bucket `json:"buckets"`
	Series  []Series `json:"series"`
	Bounds  Bounds   `json:"bounds"`
	Beads   []Bead   `json:"beads"`
}

// Aggregate builds one bucket per domain year and counts every record with
// a valid opening date into its clamped year. Undated records are skipped.
func Aggregate(d temporal.Domain, records []model.Record) []Bucket {
	years := d.Years()
	buckets := make([]Bucket, len(years))
	for i, y := range years {
		buckets[i].Year = y
	}
	for i := range records {
		r := &records[i]
		if !r.Opening.Valid {
			continue
		}
		idx := d.DateToYearIndex(r.Opening.Time)
		buckets[idx].Counts[r.Category.Lane()]++
	}
	return buckets
}

// Silhouette stacks the categories in declaration order and shifts every
// year so the stack is centered on zero: the lowest band starts at
// -total/2 and each following band starts where the previous one ended.
// A year with no records yields zero-height bands at 0.
func Silhouette(buckets []Bucket) []Series {
	out := make([]Series, len(role.Categories))
	for i, c := range role.Categories {
		out[i] = Series{Category: c, Label: c.Label(), Bands: make([]Band, len(buckets))}
	}
	for j, b := range buckets {
		y := -float64(b.Total()) / 2
		if y == 0 {
			y = 0 // avoid -0 in encoded output
		}
		for i := range role.Categories {
			v := float64(b.Counts[i])
			out[i].Bands[j] = Band{Low: y, High: y + v}
			y += v
		}
	}
	return out
}

// ComputeBounds returns the band value range padded by 5% on each side.
// A flat range pads as if it were 2 wide; no series yields [-1, 1].
func ComputeBounds(series []Series) Bounds {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, b := range s.Bands {
			lo = math.Min(lo, b.Low)
			hi = math.Max(hi, b.High)
		}
	}
	if math.IsInf(lo, 1) {
		return Bounds{Min: -1, Max: 1}
	}
	span := hi - lo
	if span == 0 {
		span = 2
	}
	pad := span * boundsPaddingRatio
	return Bounds{Min: lo - pad, Max: hi + pad}
}

// Beads positions every dated record at its clamped year.
func Beads(d temporal.Domain, series []Series, records []model.Record) []Bead {
	out := make([]Bead, 0, len(records))
	for i := range records {
		r := &records[i]
		if !r.Opening.Valid {
			continue
		}
		idx := d.DateToYearIndex(r.Opening.Time)
		lane := r.Category.Lane()
		if lane >= len(series) || idx >= len(series[lane].Bands) {
			continue
		}
		out = append(out, Bead{
			RecordID: r.ID,
			Year:     d.MinYear() + idx,
			Category: r.Category,
			Mid:      series[lane].Bands[idx].Mid(),
		})
	}
	return out
}

// Build runs the whole stream pipeline over records.
func Build(d temporal.Domain, records []model.Record) Layout {
	buckets := Aggregate(d, records)
	series := Silhouette(buckets)
	return Layout{
		Buckets: buckets,
		Series:  series,
		Bounds:  ComputeBounds(series),
		Beads:   Beads(d, series, records),
	}
}
