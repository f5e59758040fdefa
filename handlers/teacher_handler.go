package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/changhyun152521/tbc-sub001/database"
	"github.com/changhyun152521/tbc-sub001/models"
)

type TeacherHandler struct{}

func NewTeacherHandler() *TeacherHandler { return &TeacherHandler{} }

// GET /admin/teachers?q=
func (h *TeacherHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Teacher{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(teacher_code) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}
	var rows []models.Teacher
	if err := tx.Order("teacher_code ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, rows)
}

type TeacherReq struct {
	TeacherCode string `json:"teacher_code" validate:"required"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// POST /admin/teachers
func (h *TeacherHandler) Create(c echo.Context) error {
	var req TeacherReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t := models.Teacher{
		TeacherCode: strings.TrimSpace(req.TeacherCode),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if err := database.DB.Create(&t).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, t)
}

// PUT /admin/teachers/:id
func (h *TeacherHandler) Update(c echo.Context) error {
	id, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var t models.Teacher
	if err := database.DB.First(&t, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "TEACHER_NOT_FOUND"})
	}
	var req TeacherReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	t.TeacherCode = strings.TrimSpace(req.TeacherCode)
	t.FirstName = strings.TrimSpace(req.FirstName)
	t.LastName = strings.TrimSpace(req.LastName)
	t.Phone = strings.TrimSpace(req.Phone)
	t.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := database.DB.Save(&t).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, t)
}

// DELETE /admin/teachers/:id — also drops the teacher from every class's
// teacher set.
func (h *TeacherHandler) Delete(c echo.Context) error {
	id, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var t models.Teacher
	if err := database.DB.First(&t, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "TEACHER_NOT_FOUND"})
	}
	if err := database.DB.Where("teacher_id = ?", id).Delete(&models.ClassTeacher{}).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	if err := database.DB.Delete(&t).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.NoContent(http.StatusNoContent)
}
