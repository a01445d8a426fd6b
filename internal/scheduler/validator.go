package scheduler

import "fmt"

// Audit checks a finished run against the hard constraints: no conflicting
// pair shares a slot, room capacity is respected, and no teacher sits in a
// slot marked unavailable. Returns false and a report for invalid results.
func Audit(res *Result, cfg Config) (bool, string) {
	var message string
	valid := true
	hasConflict := false
	hasOverCapacity := false
	hasBusyViolation := false

	for _, slot := range res.Grid.Slots() {
		occupants := res.Grid.OccupantsOf(slot)
		if cfg.Rooms > 0 && len(occupants) > cfg.Rooms {
			valid = false
			hasOverCapacity = true
			message += fmt.Sprintf("- Slot %s holds %d courses, capacity is %d\n", slot.Key(), len(occupants), cfg.Rooms)
		}
		for i, c1 := range occupants {
			if busy, ok := cfg.Unavailability[c1.Teacher]; ok && busy.Contains(slot) {
				valid = false
				hasBusyViolation = true
				message += fmt.Sprintf("- %s placed at %s, but %s is unavailable there\n", c1.Name, slot.Key(), c1.Teacher)
			}
			for _, c2 := range occupants[i+1:] {
				if c1.ConflictsWith(c2) {
					valid = false
					hasConflict = true
					message += fmt.Sprintf("- %s and %s conflict but share slot %s\n", c1.Name, c2.Name, slot.Key())
				}
			}
		}
	}

	if len(res.Unassigned) > 0 {
		message += fmt.Sprintf("- %d course(s) unassigned\n", len(res.Unassigned))
		for _, c := range res.Unassigned {
			message += fmt.Sprintf("    %s (%s)\n", c.Name, c.Teacher)
		}
	}

	if hasBusyViolation {
		message = "[FAIL]: Teacher availability check.\n" + message
	} else {
		message = "[  OK]: Teacher availability check.\n" + message
	}
	if hasOverCapacity {
		message = "[FAIL]: Room capacity check.\n" + message
	} else {
		message = "[  OK]: Room capacity check.\n" + message
	}
	if hasConflict {
		message = "[FAIL]: Course collision check.\n" + message
	} else {
		message = "[  OK]: Course collision check.\n" + message
	}

	return valid, message
}
