package scheduler

import (
	"github.com/tabulr/timetabler/pkg/model"
)

// DefaultSlotBudget is the weekly slot total assumed by front ends that
// never learned to send a per-day period count.
const DefaultSlotBudget = 35

// Config describes one scheduling run. The zero value is invalid; Days and
// PeriodsPerDay are required. Rooms of 0 means unlimited concurrent courses
// per slot. Unavailability maps a teacher name to the slots that teacher
// can never be assigned to; nil means no unavailability data was supplied.
type Config struct {
	Days          int `validate:"required,min=1,max=7"`
	PeriodsPerDay int `validate:"required,min=1"`
	Rooms         int `validate:"omitempty,min=1"`

	Unavailability map[string]model.SlotSet `validate:"-"`
}

// PeriodsForBudget derives a per-day period count from a weekly slot budget,
// the derivation older callers relied on. New callers should configure
// PeriodsPerDay directly instead of rederiving it from an unrelated total.
func PeriodsForBudget(days, budget int) int {
	if days < 1 || budget < 1 {
		return 0
	}
	return budget / days
}
