package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeSlot is a (day, period) coordinate in the scheduling grid.
// Both components are 1-based. Two slots with equal day and period
// are the same slot.
type TimeSlot struct {
	Day    int
	Period int
}

// Key renders the slot in its wire form "<day>.<period>".
func (t TimeSlot) Key() string {
	return strconv.Itoa(t.Day) + "." + strconv.Itoa(t.Period)
}

// ParseTimeSlot parses a "<day>.<period>" token.
func ParseTimeSlot(token string) (TimeSlot, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 2 {
		return TimeSlot{}, fmt.Errorf("malformed slot token %q: expected \"<day>.<period>\"", token)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeSlot{}, fmt.Errorf("malformed slot token %q: %w", token, err)
	}
	period, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeSlot{}, fmt.Errorf("malformed slot token %q: %w", token, err)
	}
	if day < 1 || period < 1 {
		return TimeSlot{}, fmt.Errorf("slot token %q out of range: day and period start at 1", token)
	}
	return TimeSlot{Day: day, Period: period}, nil
}

// SlotSet is an unordered set of time slots.
type SlotSet map[TimeSlot]struct{}

func (s SlotSet) Add(t TimeSlot) {
	s[t] = struct{}{}
}

func (s SlotSet) Contains(t TimeSlot) bool {
	_, ok := s[t]
	return ok
}
