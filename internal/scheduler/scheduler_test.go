package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tabulr/timetabler/pkg/errors"
	"github.com/tabulr/timetabler/pkg/model"
)

func testCourse(id int, name, teacher string, sections []string, sessions int, prefs ...model.TimeSlot) *model.Course {
	tier := model.TierFlexible
	if len(prefs) > 0 {
		tier = model.TierPreferred
	}
	return &model.Course{
		ID:               id,
		Name:             name,
		Teacher:          teacher,
		Sections:         model.SectionSet(sections...),
		RequiredSessions: sessions,
		PriorityTier:     tier,
		PreferredSlots:   prefs,
	}
}

func slotsOf(res *Result, course *model.Course) []model.TimeSlot {
	var slots []model.TimeSlot
	for _, slot := range res.Grid.Slots() {
		for _, c := range res.Grid.OccupantsOf(slot) {
			if c.ID == course.ID {
				slots = append(slots, slot)
			}
		}
	}
	return slots
}

func TestSameTeacherForcedApart(t *testing.T) {
	a := testCourse(1, "Algebra", "Cohen", []string{"A1"}, 1)
	b := testCourse(2, "Analysis", "Cohen", []string{"B1"}, 1)

	res, err := New(nil, nil).Run([]*model.Course{a, b}, Config{Days: 1, PeriodsPerDay: 4})
	require.NoError(t, err)

	assert.Empty(t, res.Unassigned)
	assert.Empty(t, res.Err)
	slotsA := slotsOf(res, a)
	slotsB := slotsOf(res, b)
	require.Len(t, slotsA, 1)
	require.Len(t, slotsB, 1)
	assert.NotEqual(t, slotsA[0], slotsB[0])
}

func TestFallbackFillsLowestPeriods(t *testing.T) {
	c := testCourse(1, "Chemistry", "Day", []string{"C1"}, 3)

	res, err := New(nil, nil).Run([]*model.Course{c}, Config{Days: 1, PeriodsPerDay: 7})
	require.NoError(t, err)

	assert.Empty(t, res.Unassigned)
	want := []model.TimeSlot{{Day: 1, Period: 1}, {Day: 1, Period: 2}, {Day: 1, Period: 3}}
	assert.Equal(t, want, slotsOf(res, c))
	assert.Equal(t, 3, res.Periods)
}

func TestRoomCapacityContestedPreference(t *testing.T) {
	pref := model.TimeSlot{Day: 1, Period: 1}
	a := testCourse(1, "Biology", "Grey", []string{"A1"}, 1, pref)
	b := testCourse(2, "Drawing", "Hale", []string{"B1"}, 1, pref)

	res, err := New(nil, nil).Run([]*model.Course{a, b}, Config{Days: 1, PeriodsPerDay: 2, Rooms: 1})
	require.NoError(t, err)

	assert.Empty(t, res.Unassigned)
	assert.Equal(t, []model.TimeSlot{pref}, slotsOf(res, a), "lower id wins the tie for the shared preference")
	assert.Equal(t, []model.TimeSlot{{Day: 1, Period: 2}}, slotsOf(res, b))
}

func TestFullyUnavailableTeacher(t *testing.T) {
	c := testCourse(1, "Latin", "Ives", []string{"L1"}, 1)
	busy := map[string]model.SlotSet{"Ives": {}}
	for day := 1; day <= 2; day++ {
		for period := 1; period <= 3; period++ {
			busy["Ives"].Add(model.TimeSlot{Day: day, Period: period})
		}
	}

	res, err := New(nil, nil).Run([]*model.Course{c}, Config{Days: 2, PeriodsPerDay: 3, Unavailability: busy})
	require.NoError(t, err)

	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, c.ID, res.Unassigned[0].ID)
	assert.Empty(t, slotsOf(res, c))
	assert.Equal(t, 0, res.Periods)
	assert.NotEmpty(t, res.Err)
}

func TestPartialPlacementKept(t *testing.T) {
	c := testCourse(1, "History", "Penn", []string{"H1"}, 3)

	res, err := New(nil, nil).Run([]*model.Course{c}, Config{Days: 1, PeriodsPerDay: 2})
	require.NoError(t, err)

	require.Len(t, res.Unassigned, 1)
	assert.Len(t, slotsOf(res, c), 2, "successful placements survive infeasibility")
	assert.NotEmpty(t, res.Err)
}

func TestPreferredSlotOrderRespected(t *testing.T) {
	second := model.TimeSlot{Day: 1, Period: 3}
	first := model.TimeSlot{Day: 1, Period: 2}
	c := testCourse(1, "Music", "Ruiz", []string{"M1"}, 1, first, second)

	res, err := New(nil, nil).Run([]*model.Course{c}, Config{Days: 1, PeriodsPerDay: 4})
	require.NoError(t, err)
	assert.Equal(t, []model.TimeSlot{first}, slotsOf(res, c))
}

func TestDuplicatePreferredSlotNotOccupiedTwice(t *testing.T) {
	pref := model.TimeSlot{Day: 1, Period: 1}
	c := testCourse(1, "Geometry", "Ward", []string{"G1"}, 2, pref, pref)

	res, err := New(nil, nil).Run([]*model.Course{c}, Config{Days: 1, PeriodsPerDay: 3})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(res.Grid.OccupantsOf(pref)), 1,
		"a course must not occupy the same slot twice")
	assert.Empty(t, res.Unassigned)
	assert.Equal(t, []model.TimeSlot{pref, {Day: 1, Period: 2}}, slotsOf(res, c),
		"the second session falls back to a distinct slot")
}

func TestPreferredSlotOutsideGridFallsBack(t *testing.T) {
	c := testCourse(1, "Civics", "Nash", []string{"V1"}, 1, model.TimeSlot{Day: 6, Period: 9})

	res, err := New(nil, nil).Run([]*model.Course{c}, Config{Days: 1, PeriodsPerDay: 2})
	require.NoError(t, err)
	assert.Empty(t, res.Unassigned)
	assert.Equal(t, []model.TimeSlot{{Day: 1, Period: 1}}, slotsOf(res, c))
}

func TestHardConstraintInvariants(t *testing.T) {
	busy := map[string]model.SlotSet{
		"Cohen": {model.TimeSlot{Day: 1, Period: 1}: {}},
	}
	courses := []*model.Course{
		testCourse(1, "Algebra", "Cohen", []string{"A1", "A2"}, 2),
		testCourse(2, "Physics", "Day", []string{"A1"}, 2),
		testCourse(3, "Biology", "Grey", []string{"B1"}, 2, model.TimeSlot{Day: 1, Period: 1}),
		testCourse(4, "Drawing", "Cohen", []string{"C1"}, 1),
		testCourse(5, "Music", "Hale", []string{"A2", "B1"}, 1),
	}
	cfg := Config{Days: 3, PeriodsPerDay: 3, Rooms: 2, Unavailability: busy}

	res, err := New(nil, nil).Run(courses, cfg)
	require.NoError(t, err)

	for _, slot := range res.Grid.Slots() {
		occ := res.Grid.OccupantsOf(slot)
		assert.LessOrEqual(t, len(occ), cfg.Rooms)
		for i, c1 := range occ {
			if b, ok := busy[c1.Teacher]; ok {
				assert.False(t, b.Contains(slot), "%s placed into an unavailable slot", c1.Name)
			}
			for _, c2 := range occ[i+1:] {
				assert.False(t, c1.ConflictsWith(c2), "%s and %s share slot %s", c1.Name, c2.Name, slot.Key())
			}
		}
	}

	valid, msg := Audit(res, cfg)
	assert.True(t, valid, msg)
}

func buildDeterminismFixture() []*model.Course {
	return []*model.Course{
		testCourse(1, "Algebra", "Cohen", []string{"A1"}, 2),
		testCourse(2, "Physics", "Day", []string{"A1"}, 1),
		testCourse(3, "Biology", "Grey", []string{"B1"}, 2, model.TimeSlot{Day: 2, Period: 1}),
		testCourse(4, "Drawing", "Cohen", []string{"C1"}, 1),
	}
}

func TestDeterministicRuns(t *testing.T) {
	cfg := Config{Days: 2, PeriodsPerDay: 3}

	first, err := New(nil, nil).Run(buildDeterminismFixture(), cfg)
	require.NoError(t, err)
	second, err := New(nil, nil).Run(buildDeterminismFixture(), cfg)
	require.NoError(t, err)

	firstNames := map[string][]string{}
	for key, placed := range first.Grid.Assignments() {
		for _, c := range placed {
			firstNames[key] = append(firstNames[key], c.Name)
		}
	}
	secondNames := map[string][]string{}
	for key, placed := range second.Grid.Assignments() {
		for _, c := range placed {
			secondNames[key] = append(secondNames[key], c.Name)
		}
	}
	assert.Equal(t, firstNames, secondNames)
	assert.Equal(t, len(first.Unassigned), len(second.Unassigned))
	assert.Equal(t, first.Err, second.Err)
}

func TestRunKeepsCallerOrder(t *testing.T) {
	courses := buildDeterminismFixture()
	_, err := New(nil, nil).Run(courses, Config{Days: 2, PeriodsPerDay: 3})
	require.NoError(t, err)
	for i, c := range courses {
		assert.Equal(t, i+1, c.ID, "input slice must keep ingestion order")
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero days", Config{Days: 0, PeriodsPerDay: 3}},
		{"too many days", Config{Days: 8, PeriodsPerDay: 3}},
		{"zero periods", Config{Days: 5, PeriodsPerDay: 0}},
		{"negative rooms", Config{Days: 5, PeriodsPerDay: 3, Rooms: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(nil, nil).Run(nil, tc.cfg)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrConfiguration.Code, apperrors.FromError(err).Code)
		})
	}
}

func TestUnexpectedFailureContained(t *testing.T) {
	// A nil course blows up during scoring; the run must report the failure
	// on the result instead of crashing the caller.
	res, err := New(nil, nil).Run([]*model.Course{nil}, Config{Days: 1, PeriodsPerDay: 2})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Contains(t, res.Err, "unexpected failure")
	assert.Equal(t, 0, res.Periods)
	assert.Empty(t, res.Unassigned)
	assert.Empty(t, res.Grid.Assignments())
}

func TestPeriodsForBudget(t *testing.T) {
	assert.Equal(t, 7, PeriodsForBudget(5, DefaultSlotBudget))
	assert.Equal(t, 35, PeriodsForBudget(1, DefaultSlotBudget))
	assert.Equal(t, 0, PeriodsForBudget(0, 35))
	assert.Equal(t, 0, PeriodsForBudget(5, 3))
}

func TestAuditFlagsViolations(t *testing.T) {
	a := testCourse(1, "Algebra", "Cohen", []string{"A1"}, 1)
	b := testCourse(2, "Analysis", "Cohen", []string{"B1"}, 1)
	grid := model.NewGrid(1, 2)
	slot := model.TimeSlot{Day: 1, Period: 1}
	grid.Place(slot, a)
	grid.Place(slot, b)

	res := &Result{Grid: grid, Periods: grid.MaxPeriodUsed()}
	valid, msg := Audit(res, Config{Days: 1, PeriodsPerDay: 2, Rooms: 1})
	assert.False(t, valid)
	assert.Contains(t, msg, "[FAIL]: Course collision check.")
	assert.Contains(t, msg, "[FAIL]: Room capacity check.")
}
