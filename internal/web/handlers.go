package web

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabulr/timetabler/internal/csvio"
	"github.com/tabulr/timetabler/internal/scheduler"
	apperrors "github.com/tabulr/timetabler/pkg/errors"
	"github.com/tabulr/timetabler/pkg/model"
	"github.com/tabulr/timetabler/pkg/response"
)

// createScheduleParams are the form fields accompanying the CSV uploads.
type createScheduleParams struct {
	Days          int `validate:"required,min=1,max=7"`
	PeriodsPerDay int `validate:"required,min=1"`
	Rooms         int `validate:"omitempty,min=1"`
}

type courseView struct {
	Name     string   `json:"name"`
	Teacher  string   `json:"teacher"`
	Sections []string `json:"sections"`
}

// scheduleView is the rendering contract: slot occupancy keyed by
// "<day>.<period>", the period row count, under-allocated courses, and a
// message when the run was only partially feasible.
type scheduleView struct {
	ID         string                  `json:"id"`
	Slots      map[string][]courseView `json:"slots"`
	Periods    int                     `json:"periods"`
	Unassigned []courseView            `json:"unassigned"`
	Error      *string                 `json:"error"`
}

func (s *Server) handleListSchedules(c *gin.Context) {
	ids, err := s.store.List()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"scheduleIds": ids})
}

func (s *Server) handleGetSchedule(c *gin.Context) {
	content, err := s.store.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"data": content})
}

func (s *Server) handleCreateSchedule(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.ErrValidation.Code,
			apperrors.ErrValidation.Status, "invalid multipart form"))
		return
	}

	params, err := s.parseParams(form)
	if err != nil {
		response.Error(c, err)
		return
	}

	courses, err := s.readCoursesUpload(form)
	if err != nil {
		response.Error(c, err)
		return
	}

	unavailability, err := s.readBusyUpload(form)
	if err != nil {
		response.Error(c, err)
		return
	}

	runCfg := scheduler.Config{
		Days:           params.Days,
		PeriodsPerDay:  params.PeriodsPerDay,
		Rooms:          params.Rooms,
		Unavailability: unavailability,
	}
	result, err := s.scheduler.Run(courses, runCfg)
	if err != nil {
		response.Error(c, err)
		return
	}

	id := uuid.NewString()
	csvData, err := csvio.MarshalResult(result)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := s.store.Save(id, csvData); err != nil {
		response.Error(c, err)
		return
	}

	outcome := "ok"
	if result.Err != "" {
		outcome = "partial"
	}
	s.metrics.ObserveRun(outcome, len(result.Unassigned))
	s.logger.Info("schedule created",
		zap.String("id", id),
		zap.Int("courses", len(courses)),
		zap.Int("unassigned", len(result.Unassigned)),
	)

	response.Created(c, renderSchedule(id, result))
}

func (s *Server) parseParams(form *multipart.Form) (*createScheduleParams, error) {
	params := &createScheduleParams{
		Days:          s.cfg.Run.Days,
		PeriodsPerDay: s.cfg.Run.Periods(),
		Rooms:         s.cfg.Run.Rooms,
	}
	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"days", &params.Days},
		{"periods", &params.PeriodsPerDay},
		{"rooms", &params.Rooms},
	} {
		v, ok, err := formInt(form, field.name)
		if err != nil {
			return nil, apperrors.Clone(apperrors.ErrConfiguration, err.Error())
		}
		if ok {
			*field.dst = v
		}
	}
	if err := s.validate.Struct(params); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrConfiguration.Code,
			apperrors.ErrConfiguration.Status, "invalid schedule parameters")
	}
	return params, nil
}

func (s *Server) readCoursesUpload(form *multipart.Form) ([]*model.Course, error) {
	files := form.File["courses"]
	if len(files) == 0 {
		return nil, apperrors.Clone(apperrors.ErrValidation, "courses file is required")
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code,
			apperrors.ErrValidation.Status, "failed to read courses upload")
	}
	defer f.Close()
	return csvio.ReadCourses(f, ',')
}

func (s *Server) readBusyUpload(form *multipart.Form) (map[string]model.SlotSet, error) {
	files := form.File["busy"]
	if len(files) == 0 {
		return nil, nil
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code,
			apperrors.ErrValidation.Status, "failed to read unavailability upload")
	}
	defer f.Close()
	return csvio.ReadUnavailability(f, ',')
}

func formInt(form *multipart.Form, field string) (int, bool, error) {
	values := form.Value[field]
	if len(values) == 0 || values[0] == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(values[0])
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer", field)
	}
	return v, true, nil
}

func renderSchedule(id string, res *scheduler.Result) scheduleView {
	view := scheduleView{
		ID:         id,
		Slots:      make(map[string][]courseView),
		Periods:    res.Periods,
		Unassigned: []courseView{},
	}
	for key, placed := range res.Grid.Assignments() {
		views := make([]courseView, 0, len(placed))
		for _, c := range placed {
			views = append(views, newCourseView(c))
		}
		view.Slots[key] = views
	}
	for _, c := range res.Unassigned {
		view.Unassigned = append(view.Unassigned, newCourseView(c))
	}
	if res.Err != "" {
		msg := res.Err
		view.Error = &msg
	}
	return view
}

func newCourseView(c *model.Course) courseView {
	return courseView{Name: c.Name, Teacher: c.Teacher, Sections: c.SectionList()}
}
