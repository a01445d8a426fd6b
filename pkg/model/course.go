package model

import "sort"

// Priority tiers. Courses that declared preferred slots are scheduled
// before courses that take whatever is left.
const (
	TierPreferred = 1
	TierFlexible  = 2
)

// Course is one timetable-able teaching unit. A course occupies all of
// its sections simultaneously wherever it is scheduled.
//
// Courses are owned by the run that created them. All fields are fixed
// at ingestion except ConflictScore, which is written once per run.
type Course struct {
	ID               int
	Name             string
	Teacher          string
	Sections         map[string]struct{}
	RequiredSessions int
	PriorityTier     int
	PreferredSlots   []TimeSlot
	ConflictScore    int
}

// SectionSet builds a section set from identifiers, dropping duplicates.
func SectionSet(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// SectionList returns the section identifiers in sorted order, for display.
func (c *Course) SectionList() []string {
	list := make([]string, 0, len(c.Sections))
	for id := range c.Sections {
		list = append(list, id)
	}
	sort.Strings(list)
	return list
}

// SharesSection reports whether the two courses have a section in common.
func (c *Course) SharesSection(o *Course) bool {
	small, large := c.Sections, o.Sections
	if len(large) < len(small) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			return true
		}
	}
	return false
}

// ConflictsWith reports whether the two courses may never share a slot:
// same teacher, or at least one common section. The predicate is symmetric
// and irreflexive.
func (c *Course) ConflictsWith(o *Course) bool {
	if c == o || c.ID == o.ID {
		return false
	}
	if c.Teacher == o.Teacher {
		return true
	}
	return c.SharesSection(o)
}
