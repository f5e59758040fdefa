package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/changhyun152521/tbc-sub001/database"
	"github.com/changhyun152521/tbc-sub001/ledger"
)

type LessonHandler struct {
	svc *ledger.Service
}

func NewLessonHandler() *LessonHandler {
	return &LessonHandler{svc: ledger.NewService(database.DB)}
}

type CreateLessonDayReq struct {
	ClassGroupID uint   `json:"class_group_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
}

// POST /teacher/lesson-days
func (h *LessonHandler) Create(c echo.Context) error {
	var req CreateLessonDayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	day, err := h.svc.CreateLessonDay(actorFrom(c), req.ClassGroupID, req.Date)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, day)
}

// GET /teacher/lesson-days?from=&to=&class_id=&teacher_id=
func (h *LessonHandler) List(c echo.Context) error {
	f := ledger.ListFilter{
		DateFrom:  strings.TrimSpace(c.QueryParam("from")),
		DateTo:    strings.TrimSpace(c.QueryParam("to")),
		ClassID:   uintQuery(c, "class_id"),
		TeacherID: uintQuery(c, "teacher_id"),
	}
	rows, err := h.svc.ListLessonDays(actorFrom(c), f)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /teacher/lesson-days/:id
func (h *LessonHandler) Get(c echo.Context) error {
	day, err := h.svc.GetLessonDay(actorFrom(c), c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, day)
}

// DELETE /teacher/lesson-days/:id — removes the whole day with its periods.
func (h *LessonHandler) Delete(c echo.Context) error {
	if err := h.svc.DeleteLessonDay(actorFrom(c), c.Param("id")); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type AddPeriodReq struct {
	TeacherID uint `json:"teacher_id" validate:"required"`
}

// POST /teacher/lesson-days/:id/periods
func (h *LessonHandler) AddPeriod(c echo.Context) error {
	var req AddPeriodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	day, err := h.svc.AddPeriod(actorFrom(c), c.Param("id"), req.TeacherID)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, day)
}

func periodIndex(c echo.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, false
	}
	return idx, true
}

// PUT /teacher/lesson-days/:id/periods/:index — partial patch; a supplied
// records array replaces the whole set for that period.
func (h *LessonHandler) UpdatePeriod(c echo.Context) error {
	idx, ok := periodIndex(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PERIOD_INDEX"})
	}
	var patch ledger.PeriodPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	period, err := h.svc.UpdatePeriod(actorFrom(c), c.Param("id"), idx, patch)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, period)
}

// DELETE /teacher/lesson-days/:id/periods/:index — later periods shift
// down one position.
func (h *LessonHandler) RemovePeriod(c echo.Context) error {
	idx, ok := periodIndex(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PERIOD_INDEX"})
	}
	if err := h.svc.RemovePeriod(actorFrom(c), c.Param("id"), idx); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
