package model

// Grid holds per-slot occupancy for a single scheduling run. Slots are
// enumerated periods-outer, days-inner, both ascending; that enumeration
// doubles as the canonical fallback order during placement.
//
// A Grid is owned by exactly one run and is not safe for concurrent use.
type Grid struct {
	days      int
	periods   int
	order     []TimeSlot
	occupancy map[TimeSlot][]*Course
}

// NewGrid creates an empty occupancy grid covering days x periodsPerDay slots.
func NewGrid(days, periodsPerDay int) *Grid {
	g := &Grid{
		days:      days,
		periods:   periodsPerDay,
		order:     make([]TimeSlot, 0, days*periodsPerDay),
		occupancy: make(map[TimeSlot][]*Course, days*periodsPerDay),
	}
	for period := 1; period <= periodsPerDay; period++ {
		for day := 1; day <= days; day++ {
			slot := TimeSlot{Day: day, Period: period}
			g.order = append(g.order, slot)
			g.occupancy[slot] = nil
		}
	}
	return g
}

func (g *Grid) Days() int          { return g.days }
func (g *Grid) PeriodsPerDay() int { return g.periods }

// Slots returns every slot in canonical enumeration order.
func (g *Grid) Slots() []TimeSlot {
	return g.order
}

// Contains reports whether the slot lies inside the grid.
func (g *Grid) Contains(slot TimeSlot) bool {
	return slot.Day >= 1 && slot.Day <= g.days && slot.Period >= 1 && slot.Period <= g.periods
}

// OccupantsOf returns the courses placed into the slot, in assignment order.
// The returned slice is a read-only view.
func (g *Grid) OccupantsOf(slot TimeSlot) []*Course {
	return g.occupancy[slot]
}

// Place appends the course to the slot's occupancy. Feasibility checks are
// the caller's responsibility; Place only rejects slots outside the grid.
func (g *Grid) Place(slot TimeSlot, c *Course) bool {
	if !g.Contains(slot) {
		return false
	}
	g.occupancy[slot] = append(g.occupancy[slot], c)
	return true
}

// MaxPeriodUsed returns the highest period index among occupied slots,
// or 0 when nothing has been placed.
func (g *Grid) MaxPeriodUsed() int {
	max := 0
	for slot, placed := range g.occupancy {
		if len(placed) > 0 && slot.Period > max {
			max = slot.Period
		}
	}
	return max
}

// Assignments flattens the occupancy into a "<day>.<period>" keyed mapping
// for renderers. Empty slots are omitted.
func (g *Grid) Assignments() map[string][]*Course {
	out := make(map[string][]*Course)
	for _, slot := range g.order {
		if placed := g.occupancy[slot]; len(placed) > 0 {
			out[slot.Key()] = placed
		}
	}
	return out
}
