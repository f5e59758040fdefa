package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/changhyun152521/tbc-sub001/apperr"
	"github.com/changhyun152521/tbc-sub001/database"
	"github.com/changhyun152521/tbc-sub001/flatten"
	"github.com/changhyun152521/tbc-sub001/ledger"
	"github.com/changhyun152521/tbc-sub001/models"
	"github.com/changhyun152521/tbc-sub001/roster"
	"github.com/changhyun152521/tbc-sub001/stats"
)

type StatsHandler struct {
	cache *stats.SummaryCache
}

func NewStatsHandler(cache *stats.SummaryCache) *StatsHandler {
	return &StatsHandler{cache: cache}
}

// entriesFor flattens a class's lesson days for one student over a date
// range (empty bounds = whole history).
func entriesFor(classID, studentID uint, from, to string) ([]flatten.LessonEntry, error) {
	svc := ledger.NewService(database.DB)
	days, err := svc.DaysForClass(classID, from, to)
	if err != nil {
		return nil, err
	}

	ids := map[uint]struct{}{}
	for _, d := range days {
		for _, p := range d.Periods {
			ids[p.TeacherID] = struct{}{}
		}
	}
	names := map[uint]string{}
	if len(ids) > 0 {
		keys := make([]uint, 0, len(ids))
		for id := range ids {
			keys = append(keys, id)
		}
		var teachers []models.Teacher
		if err := database.DB.Where("id IN ?", keys).Find(&teachers).Error; err != nil {
			return nil, err
		}
		for _, t := range teachers {
			names[t.ID] = t.FullName()
		}
	}
	return flatten.Flatten(days, studentID, names), nil
}

func studentExists(id uint) bool {
	var s models.Student
	return database.DB.First(&s, id).Error == nil
}

/* ---------- teacher/admin views (guarded by class access) ---------- */

// GET /teacher/classes/:id/students/:sid/summary
func (h *StatsHandler) TeacherSummary(c echo.Context) error {
	classID, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	sid, ok := uintParam(c, "sid")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	if _, err := guardClass(c, classID); err != nil {
		return writeErr(c, err)
	}
	if !studentExists(sid) {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	return h.writeSummary(c, classID, sid)
}

// GET /teacher/classes/:id/students/:sid/lessons?from=&to=
func (h *StatsHandler) TeacherLessons(c echo.Context) error {
	classID, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	sid, ok := uintParam(c, "sid")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	if _, err := guardClass(c, classID); err != nil {
		return writeErr(c, err)
	}
	if !studentExists(sid) {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	return h.writeLessons(c, classID, sid)
}

// GET /teacher/classes/:id/students/:sid/monthly?year=&month=
func (h *StatsHandler) TeacherMonthly(c echo.Context) error {
	classID, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	sid, ok := uintParam(c, "sid")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	if _, err := guardClass(c, classID); err != nil {
		return writeErr(c, err)
	}
	if !studentExists(sid) {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	return h.writeMonthly(c, classID, sid)
}

/* ---------- student/parent views (scoped through roster) ---------- */

// linkedStudent returns the student the actor is bound to. Student and
// parent accounts carry the link in their token.
func linkedStudent(c echo.Context) (uint, bool) {
	actor := actorFrom(c)
	if actor.StudentID == nil {
		return 0, false
	}
	return *actor.StudentID, true
}

// classInScope returns the class to read for a student/parent request. An
// explicit class_id must be one of the linked student's memberships; a
// miss is NOT_FOUND so the response does not confirm the class exists.
// Without class_id the roster resolution policy picks one.
func classInScope(c echo.Context, studentID uint) (uint, error) {
	dir := roster.NewDirectory(database.DB)
	preferred := uintQuery(c, "class_id")
	if preferred != nil {
		classes, err := dir.ClassesContaining(studentID)
		if err != nil {
			return 0, err
		}
		for _, cls := range classes {
			if cls.ID == *preferred {
				return cls.ID, nil
			}
		}
		return 0, apperr.ErrClassNotFound
	}
	cls, err := dir.ResolveStudentClass(studentID, nil)
	if err != nil {
		return 0, err
	}
	return cls.ID, nil
}

// GET /student/summary?class_id=   (also mounted under /parent)
func (h *StatsHandler) MySummary(c echo.Context) error {
	sid, ok := linkedStudent(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	classID, err := classInScope(c, sid)
	if err != nil {
		return writeErr(c, err)
	}
	return h.writeSummary(c, classID, sid)
}

// GET /student/lessons?class_id=&from=&to=
func (h *StatsHandler) MyLessons(c echo.Context) error {
	sid, ok := linkedStudent(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	classID, err := classInScope(c, sid)
	if err != nil {
		return writeErr(c, err)
	}
	return h.writeLessons(c, classID, sid)
}

// GET /student/monthly?class_id=&year=&month=
func (h *StatsHandler) MyMonthly(c echo.Context) error {
	sid, ok := linkedStudent(c)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	classID, err := classInScope(c, sid)
	if err != nil {
		return writeErr(c, err)
	}
	return h.writeMonthly(c, classID, sid)
}

/* ---------- shared projections ---------- */

// writeSummary computes the recent-window dashboard summary. Rates cover
// the whole history; the 7-day item windows hang off wall-clock now.
func (h *StatsHandler) writeSummary(c echo.Context, classID, studentID uint) error {
	ctx := c.Request().Context()
	if cached, ok := h.cache.Get(ctx, classID, studentID); ok {
		return c.JSON(http.StatusOK, cached)
	}
	entries, err := entriesFor(classID, studentID, "", "")
	if err != nil {
		return writeErr(c, err)
	}
	summary := stats.Summarize(entries, time.Now())
	h.cache.Set(ctx, classID, studentID, summary)
	return c.JSON(http.StatusOK, summary)
}

// writeLessons is the date-ranged flattened listing, no statistics.
func (h *StatsHandler) writeLessons(c echo.Context, classID, studentID uint) error {
	from := strings.TrimSpace(c.QueryParam("from"))
	to := strings.TrimSpace(c.QueryParam("to"))
	entries, err := entriesFor(classID, studentID, from, to)
	if err != nil {
		return writeErr(c, err)
	}
	if entries == nil {
		entries = []flatten.LessonEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *StatsHandler) writeMonthly(c echo.Context, classID, studentID uint) error {
	year := atoiOr(c.QueryParam("year"), 0)
	month := atoiOr(c.QueryParam("month"), 0)
	first, last, err := stats.MonthRange(year, month)
	if err != nil {
		return writeErr(c, err)
	}
	entries, err := entriesFor(classID, studentID, first, last)
	if err != nil {
		return writeErr(c, err)
	}
	var tests []models.TestRecord
	if err := database.DB.
		Where("class_group_id = ? AND date >= ? AND date <= ?", classID, first, last).
		Order("date ASC").
		Find(&tests).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	monthly, err := stats.Monthly(entries, tests, studentID, year, month)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, monthly)
}
