// Package model contains the archive records passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/baton/internal/domain/role"
)

// Unknown is shown in place of a missing name, title or role.
const Unknown = "Unknown"

// RawRecord mirrors one entry of the cleaned dataset file. Any nested
// object or field may be missing or null.
type RawRecord struct {
	ID            *int64        `json:"id,omitempty"`
	ShowInfo      *RawShow      `json:"show_info"`
	ConductorInfo *RawConductor `json:"conductor_info"`
	Decade        *int          `json:"decade,omitempty"`
}

// RawShow is the production half of a raw record.
type RawShow struct {
	Title        string       `json:"title"`
	Type         string       `json:"type,omitempty"`   // Original / Revival
	Status       string       `json:"status,omitempty"` // Running / Closed
	Opening      string       `json:"opening"`
	Performances Performances `json:"performances"`
}

// RawConductor is the person half of a raw record.
type RawConductor struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Photo    string `json:"photo,omitempty"`
	Lifespan string `json:"lifespan,omitempty"`
	Website  string `json:"website,omitempty"`
	IBDB     string `json:"ibdb,omitempty"`
	Fact     string `json:"fact,omitempty"`
}

// Performances accepts a JSON number, a numeric string or null. Anything
// unparseable decodes as zero.
type Performances float64

// UnmarshalJSON implements json.Unmarshaler.
func (p *Performances) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*p = 0
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*p = Performances(f)
	return nil
}

// Opening is a parsed opening date. Valid is false when the source string
// was missing or unparseable; such dates take no part in temporal views.
type Opening struct {
	Time  time.Time
	Valid bool
}

var openingLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01",
	"2006",
}

// ParseOpening parses a dataset date string in UTC.
func ParseOpening(s string) Opening {
	s = strings.TrimSpace(s)
	if s == "" {
		return Opening{}
	}
	for _, layout := range openingLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Opening{Time: t.UTC(), Valid: true}
		}
	}
	return Opening{}
}

// Year returns the calendar year and whether the date is valid.
func (o Opening) Year() (int, bool) {
	if !o.Valid {
		return 0, false
	}
	return o.Time.Year(), true
}

// Before orders valid dates ahead of invalid ones.
func (o Opening) Before(other Opening) bool {
	switch {
	case !o.Valid:
		return false
	case !other.Valid:
		return true
	default:
		return o.Time.Before(other.Time)
	}
}

// MarshalJSON renders valid dates as YYYY-MM-DD and invalid ones as null.
func (o Opening) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Time.Format("2006-01-02"))
}

// Record is a normalized dataset entry. Text fields are trimmed and empty
// when the source was missing; Category and Opening are derived.
type Record struct {
	Index        int           `json:"index"`
	ID           string        `json:"id"`
	SourceID     *int64        `json:"source_id,omitempty"`
	Conductor    string        `json:"conductor"`
	Role         string        `json:"role"`
	Category     role.Category `json:"category"`
	Photo        string        `json:"photo,omitempty"`
	Lifespan     string        `json:"lifespan,omitempty"`
	Fact         string        `json:"fact,omitempty"`
	Website      string        `json:"website,omitempty"`
	IBDB         string        `json:"ibdb,omitempty"`
	Show         string        `json:"show"`
	ShowType     string        `json:"show_type,omitempty"`
	Status       string        `json:"status,omitempty"`
	OpeningRaw   string        `json:"opening_raw,omitempty"`
	Opening      Opening       `json:"opening"`
	Performances float64       `json:"performances"`
	Decade       *int          `json:"decade,omitempty"`
	Pioneer      bool          `json:"pioneer"`
}

// ConductorOrUnknown returns the conductor name or Unknown.
func (r *Record) ConductorOrUnknown() string { return orUnknown(r.Conductor) }

// ShowOrUnknown returns the show title or Unknown.
func (r *Record) ShowOrUnknown() string { return orUnknown(r.Show) }

// RoleOrUnknown returns the raw role or Unknown.
func (r *Record) RoleOrUnknown() string { return orUnknown(r.Role) }

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
