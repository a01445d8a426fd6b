package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"

	apperrors "github.com/tabulr/timetabler/pkg/errors"
	"github.com/tabulr/timetabler/pkg/model"
)

var validate = validator.New()

// CourseRecord is one row of the courses input file. Course, Teacher and
// Section are required; a row missing any of them fails validation before
// scheduling ever starts.
type CourseRecord struct {
	Course   string `csv:"course" validate:"required"`
	Teacher  string `csv:"teacher" validate:"required"`
	Section  string `csv:"section" validate:"required"`
	Lectures string `csv:"lectures"`
	Slots    string `csv:"slots"`
}

// BusyRecord is one row of the unavailability input file.
type BusyRecord struct {
	Teacher string `csv:"teacher" validate:"required"`
	Slots   string `csv:"slots" validate:"required"`
}

func setDelimiter(delim rune) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = delim
		return r
	})
}

// LoadCourses reads and parses the given csv file for course data.
func LoadCourses(path string, delim rune) ([]*model.Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code,
			apperrors.ErrValidation.Status, "failed to open "+path)
	}
	defer f.Close()
	return ReadCourses(f, delim)
}

// ReadCourses parses course rows from r and turns them into run-owned
// Course values. IDs are assigned in ingestion order, starting at 1.
func ReadCourses(r io.Reader, delim rune) ([]*model.Course, error) {
	setDelimiter(delim)

	records := []*CourseRecord{}
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code,
			apperrors.ErrValidation.Status, "failed to parse course data")
	}

	courses := make([]*model.Course, 0, len(records))
	for i, rec := range records {
		course, err := buildCourse(i+1, rec)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code,
				apperrors.ErrValidation.Status, fmt.Sprintf("course row %d invalid", i+1))
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func buildCourse(id int, rec *CourseRecord) (*model.Course, error) {
	if err := validate.Struct(rec); err != nil {
		return nil, err
	}

	sections := model.SectionSet()
	for _, tok := range strings.Split(rec.Section, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			sections[tok] = struct{}{}
		}
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("section list %q holds no identifiers", rec.Section)
	}

	// A lectures field that is absent or not a number means one session.
	lectures := 1
	if n, err := strconv.Atoi(strings.TrimSpace(rec.Lectures)); err == nil && n >= 1 {
		lectures = n
	}

	preferred, err := parseSlotList(rec.Slots)
	if err != nil {
		return nil, err
	}
	tier := model.TierFlexible
	if len(preferred) > 0 {
		tier = model.TierPreferred
	}

	return &model.Course{
		ID:               id,
		Name:             strings.TrimSpace(rec.Course),
		Teacher:          strings.TrimSpace(rec.Teacher),
		Sections:         sections,
		RequiredSessions: lectures,
		PriorityTier:     tier,
		PreferredSlots:   preferred,
	}, nil
}

// LoadUnavailability reads and parses the given csv file for teacher
// unavailability data.
func LoadUnavailability(path string, delim rune) (map[string]model.SlotSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code,
			apperrors.ErrValidation.Status, "failed to open "+path)
	}
	defer f.Close()
	return ReadUnavailability(f, delim)
}

// ReadUnavailability parses unavailability rows from r, merging repeated
// teacher rows into one slot set per teacher.
func ReadUnavailability(r io.Reader, delim rune) (map[string]model.SlotSet, error) {
	setDelimiter(delim)

	records := []*BusyRecord{}
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code,
			apperrors.ErrValidation.Status, "failed to parse unavailability data")
	}

	busy := make(map[string]model.SlotSet, len(records))
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code,
				apperrors.ErrValidation.Status, fmt.Sprintf("unavailability row %d invalid", i+1))
		}
		slots, err := parseSlotList(rec.Slots)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code,
				apperrors.ErrValidation.Status, fmt.Sprintf("unavailability row %d invalid", i+1))
		}
		teacher := strings.TrimSpace(rec.Teacher)
		if busy[teacher] == nil {
			busy[teacher] = make(model.SlotSet, len(slots))
		}
		for _, slot := range slots {
			busy[teacher].Add(slot)
		}
	}
	return busy, nil
}

// parseSlotList parses a comma-separated list of "<day>.<period>" tokens.
// Repeated tokens are dropped, keeping first-occurrence order: a preference
// list ranks distinct slots.
func parseSlotList(raw string) ([]model.TimeSlot, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var slots []model.TimeSlot
	seen := make(model.SlotSet)
	for _, tok := range strings.Split(raw, ",") {
		if tok = strings.TrimSpace(tok); tok == "" {
			continue
		}
		slot, err := model.ParseTimeSlot(tok)
		if err != nil {
			return nil, err
		}
		if seen.Contains(slot) {
			continue
		}
		seen.Add(slot)
		slots = append(slots, slot)
	}
	return slots, nil
}
