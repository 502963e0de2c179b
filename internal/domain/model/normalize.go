package model

import (
	"strconv"
	"strings"

	"github.com/okian/baton/internal/domain/role"
)

// Normalize converts raw records into normalized ones with the same length
// and order. It never drops a record and never mutates its input.
func Normalize(raws []RawRecord) []Record {
	out := make([]Record, len(raws))
	for i := range raws {
		out[i] = normalizeOne(i, &raws[i])
	}
	return out
}

func normalizeOne(index int, raw *RawRecord) Record {
	var (
		show      RawShow
		conductor RawConductor
	)
	if raw.ShowInfo != nil {
		show = *raw.ShowInfo
	}
	if raw.ConductorInfo != nil {
		conductor = *raw.ConductorInfo
	}

	rec := Record{
		Index:        index,
		SourceID:     raw.ID,
		Conductor:    strings.TrimSpace(conductor.Name),
		Role:         strings.TrimSpace(conductor.Role),
		Photo:        strings.TrimSpace(conductor.Photo),
		Lifespan:     strings.TrimSpace(conductor.Lifespan),
		Fact:         strings.TrimSpace(conductor.Fact),
		Website:      strings.TrimSpace(conductor.Website),
		IBDB:         strings.TrimSpace(conductor.IBDB),
		Show:         strings.TrimSpace(show.Title),
		ShowType:     strings.TrimSpace(show.Type),
		Status:       strings.TrimSpace(show.Status),
		OpeningRaw:   strings.TrimSpace(show.Opening),
		Performances: float64(show.Performances),
	}
	rec.Category = role.Classify(rec.Role)
	rec.Opening = ParseOpening(rec.OpeningRaw)
	if raw.Decade != nil {
		d := *raw.Decade
		rec.Decade = &d
	}
	rec.ID = RecordID(&rec)
	return rec
}

// RecordID builds the stable key name-title-date-index. The index keeps
// keys unique when the same pairing appears twice.
func RecordID(r *Record) string {
	opening := r.OpeningRaw
	if opening == "" {
		opening = Unknown
	}
	return r.ConductorOrUnknown() + "-" + r.ShowOrUnknown() + "-" + opening + "-" + strconv.Itoa(r.Index)
}

// MarkPioneers returns a copy of records where Pioneer is set on the record
// with the earliest valid opening among all records sharing its raw role.
// Records without a role or a valid date are never pioneers. Ties go to the
// lexicographically smaller conductor name, then the earlier index.
func MarkPioneers(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	earliest := make(map[string]int, 16)
	for i := range out {
		out[i].Pioneer = false
		r := &out[i]
		if r.Role == "" || !r.Opening.Valid {
			continue
		}
		j, ok := earliest[r.Role]
		if !ok || pioneerBefore(r, &out[j]) {
			earliest[r.Role] = i
		}
	}
	for _, i := range earliest {
		out[i].Pioneer = true
	}
	return out
}

func pioneerBefore(a, b *Record) bool {
	if !a.Opening.Time.Equal(b.Opening.Time) {
		return a.Opening.Time.Before(b.Opening.Time)
	}
	if a.Conductor != b.Conductor {
		return a.Conductor < b.Conductor
	}
	return a.Index < b.Index
}

// Prepare normalizes raws and decorates the pioneer flags.
func Prepare(raws []RawRecord) []Record {
	return MarkPioneers(Normalize(raws))
}
