package scheduler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/tabulr/timetabler/pkg/errors"
	"github.com/tabulr/timetabler/pkg/model"
)

// Result is the outcome of one scheduling run. Unassigned holds every
// course that ended the run short of its required session count; their
// partial placements remain in the grid. Err carries the human-readable
// infeasibility or failure message, empty when fully scheduled.
type Result struct {
	Grid       *model.Grid
	Periods    int
	Unassigned []*model.Course
	Err        string
}

// Scheduler assigns repeated lecture sessions to day/period slots with a
// single greedy pass. It holds no per-run state: independent runs may
// execute concurrently as long as each gets its own courses and config.
type Scheduler struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// New wires the scheduler. Nil arguments get safe defaults.
func New(validate *validator.Validate, logger *zap.Logger) *Scheduler {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{validate: validate, logger: logger}
}

// Run executes one full allocation pass: score, order, place. Configuration
// problems abort before any grid is built. Anything that blows up mid-run is
// contained and surfaced on the result's Err channel with an empty schedule;
// partial infeasibility is a normal outcome, not an error.
func (s *Scheduler) Run(courses []*model.Course, cfg Config) (res *Result, err error) {
	if vErr := s.validate.Struct(cfg); vErr != nil {
		return nil, apperrors.Wrap(vErr, apperrors.ErrConfiguration.Code,
			apperrors.ErrConfiguration.Status, "invalid run configuration")
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduling run failed", zap.Any("panic", r))
			res = &Result{
				Grid: model.NewGrid(cfg.Days, cfg.PeriodsPerDay),
				Err:  fmt.Sprintf("unexpected failure during scheduling: %v", r),
			}
			err = nil
		}
	}()

	grid := model.NewGrid(cfg.Days, cfg.PeriodsPerDay)

	// Sort a copy so the caller's slice keeps its ingestion order.
	ordered := slices.Clone(courses)
	scoreCourses(ordered, cfg.Unavailability)
	orderCourses(ordered)

	var unassigned []*model.Course
	for _, course := range ordered {
		placed := 0

		// Phase 1: the course's own ranked preferences.
		for _, slot := range course.PreferredSlots {
			if placed == course.RequiredSessions {
				break
			}
			if s.tryPlace(grid, cfg, slot, course) {
				placed++
			}
		}

		// Phase 2: canonical grid order, skipping slots already tried.
		if placed < course.RequiredSessions {
			for _, slot := range grid.Slots() {
				if placed == course.RequiredSessions {
					break
				}
				if slices.Contains(course.PreferredSlots, slot) {
					continue
				}
				if s.tryPlace(grid, cfg, slot, course) {
					placed++
				}
			}
		}

		if placed < course.RequiredSessions {
			unassigned = append(unassigned, course)
		}
	}

	result := &Result{
		Grid:       grid,
		Periods:    grid.MaxPeriodUsed(),
		Unassigned: unassigned,
	}
	if len(unassigned) > 0 {
		result.Err = infeasibilityMessage(unassigned)
	}
	s.logger.Info("scheduling run complete",
		zap.Int("courses", len(courses)),
		zap.Int("periods", result.Periods),
		zap.Int("unassigned", len(unassigned)),
	)
	return result, nil
}

// tryPlace runs the feasibility checks in their fixed order: room capacity,
// teacher unavailability, then pairwise conflicts against every occupant.
// On success the course is appended to the slot's occupancy. A course never
// occupies the same slot twice; sessions are distinct slots by definition,
// and the conflict predicate is irreflexive so it cannot enforce that.
func (s *Scheduler) tryPlace(grid *model.Grid, cfg Config, slot model.TimeSlot, course *model.Course) bool {
	if !grid.Contains(slot) {
		return false
	}
	occupants := grid.OccupantsOf(slot)
	if cfg.Rooms > 0 && len(occupants) >= cfg.Rooms {
		return false
	}
	if busy, ok := cfg.Unavailability[course.Teacher]; ok && busy.Contains(slot) {
		return false
	}
	for _, other := range occupants {
		if other.ID == course.ID || course.ConflictsWith(other) {
			return false
		}
	}
	return grid.Place(slot, course)
}

func infeasibilityMessage(unassigned []*model.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d course(s) could not reach their required session count:", len(unassigned))
	for _, c := range unassigned {
		fmt.Fprintf(&b, "\n    %s (%s)", c.Name, c.Teacher)
	}
	return b.String()
}
