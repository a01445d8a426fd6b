package scheduler

import (
	"slices"

	"github.com/tabulr/timetabler/pkg/model"
)

// scoreCourses writes each course's contention score for this run. Every
// conflicting pair contributes a weight of 1, or 2 when unavailability data
// was supplied: scarce teacher availability makes conflicts costlier to
// resolve late, so contended courses must move even further up the queue.
// Teachers with forbidden slots additionally contribute that slot count.
//
// O(n^2) over all course pairs; course counts stay in the low hundreds.
func scoreCourses(courses []*model.Course, busy map[string]model.SlotSet) {
	weight := 1
	if busy != nil {
		weight = 2
	}
	for _, c := range courses {
		score := 0
		for _, o := range courses {
			if c.ConflictsWith(o) {
				score += weight
			}
		}
		if busy != nil {
			score += len(busy[c.Teacher])
		}
		c.ConflictScore = score
	}
}

// orderCourses sorts courses into allocation order: preferred-slot courses
// first, then descending contention, with the ingestion id as the final
// tie-break so the order is total and runs are deterministic.
func orderCourses(courses []*model.Course) {
	slices.SortFunc(courses, func(a, b *model.Course) int {
		if a.PriorityTier != b.PriorityTier {
			return a.PriorityTier - b.PriorityTier
		}
		if a.ConflictScore != b.ConflictScore {
			return b.ConflictScore - a.ConflictScore
		}
		return a.ID - b.ID
	})
}
