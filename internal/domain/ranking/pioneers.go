package ranking

import (
	"github.com/okian/baton/internal/domain/model"
	"github.com/okian/baton/internal/domain/role"
)

// Pioneer is the conductor with the earliest dated record of a category.
type Pioneer struct {
	Category  role.Category `json:"category"`
	Label     string        `json:"label"`
	Conductor string        `json:"conductor"`
	Role      string        `json:"role"`
	Show      string        `json:"show"`
	Opening   model.Opening `json:"opening"`
	RecordID  string        `json:"record_id"`
}

// CategoryPioneers returns at most one pioneer per category in category
// order. Only named records with a valid opening qualify. Ties on the
// date go to the lexicographically smaller name, then the earlier record.
func CategoryPioneers(records []model.Record) []Pioneer {
	best := make([]*model.Record, len(role.Categories))
	for i := range records {
		r := &records[i]
		if r.Conductor == "" || !r.Opening.Valid {
			continue
		}
		lane := r.Category.Lane()
		if b := best[lane]; b == nil || earlier(r, b) {
			best[lane] = r
		}
	}

	out := make([]Pioneer, 0, len(best))
	for lane, r := range best {
		if r == nil {
			continue
		}
		c := role.Categories[lane]
		out = append(out, Pioneer{
			Category:  c,
			Label:     c.Label(),
			Conductor: r.Conductor,
			Role:      r.RoleOrUnknown(),
			Show:      r.ShowOrUnknown(),
			Opening:   r.Opening,
			RecordID:  r.ID,
		})
	}
	return out
}

func earlier(a, b *model.Record) bool {
	if !a.Opening.Time.Equal(b.Opening.Time) {
		return a.Opening.Time.Before(b.Opening.Time)
	}
	if a.Conductor != b.Conductor {
		return a.Conductor < b.Conductor
	}
	return a.Index < b.Index
}

// Milestone identifiers.
const (
	MilestoneFirstRecorded   = "first-recorded"
	MilestoneFirstAssistant  = "first-assistant"
	MilestoneFirstAssociate  = "first-associate"
	MilestoneFirstConductor  = "first-conductor"
	MilestoneFirstDirector   = "first-director"
	MilestoneFirstSupervisor = "first-supervisor"
	MilestoneLongestRunning  = "longest-running"
)

var milestoneRoles = []struct {
	id   string
	role string
}{
	{MilestoneFirstAssistant, "Assistant Conductor"},
	{MilestoneFirstAssociate, "Associate Music Director"},
	{MilestoneFirstConductor, "Conductor"},
	{MilestoneFirstDirector, "Music Director"},
	{MilestoneFirstSupervisor, "Music Supervisor"},
}

// Milestone is a notable record of the archive.
type Milestone struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Show         string        `json:"show"`
	Role         string        `json:"role"`
	Conductor    string        `json:"conductor"`
	Opening      model.Opening `json:"opening"`
	Performances float64       `json:"performances,omitempty"`
}

// Milestones lists the earliest record overall, the earliest record of
// several raw roles, and the record with the most performances. Entries
// with no qualifying record are left out. The first record seen wins ties.
func Milestones(records []model.Record) []Milestone {
	out := make([]Milestone, 0, len(milestoneRoles)+2)

	if r := earliestWhere(records, func(*model.Record) bool { return true }); r != nil {
		out = append(out, milestone(MilestoneFirstRecorded, "First recorded production", r))
	}
	for _, mr := range milestoneRoles {
		want := mr.role
		r := earliestWhere(records, func(r *model.Record) bool { return r.Role == want })
		if r != nil {
			out = append(out, milestone(mr.id, "First "+want, r))
		}
	}

	var longest *model.Record
	for i := range records {
		r := &records[i]
		if r.Performances > 0 && (longest == nil || r.Performances > longest.Performances) {
			longest = r
		}
	}
	if longest != nil {
		m := milestone(MilestoneLongestRunning, "Longest running production", longest)
		m.Performances = longest.Performances
		out = append(out, m)
	}
	return out
}

func earliestWhere(records []model.Record, keep func(*model.Record) bool) *model.Record {
	var best *model.Record
	for i := range records {
		r := &records[i]
		if !r.Opening.Valid || !keep(r) {
			continue
		}
		if best == nil || r.Opening.Time.Before(best.Opening.Time) {
			best = r
		}
	}
	return best
}

func milestone(id, title string, r *model.Record) Milestone {
	return Milestone{
		ID:        id,
		Title:     title,
		Show:      r.ShowOrUnknown(),
		Role:      r.RoleOrUnknown(),
		Conductor: r.ConductorOrUnknown(),
		Opening:   r.Opening,
	}
}
