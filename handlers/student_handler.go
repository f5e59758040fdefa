package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/changhyun152521/tbc-sub001/database"
	"github.com/changhyun152521/tbc-sub001/models"
)

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

// GET /admin/students?q=&status=&limit=
func (h *StudentHandler) List(c echo.Context) error {
	limit := atoiOr(c.QueryParam("limit"), 200)
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	tx := database.DB.Model(&models.Student{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		tx = tx.Where("status = ?", status)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(student_code) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}
	var rows []models.Student
	if err := tx.Order("student_code ASC").Limit(limit).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, rows)
}

type StudentReq struct {
	StudentCode string `json:"student_code" validate:"required"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone"`
	Status      string `json:"status"`
}

// POST /admin/students
func (h *StudentHandler) Create(c echo.Context) error {
	var req StudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s := models.Student{
		StudentCode: strings.TrimSpace(req.StudentCode),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       strings.TrimSpace(req.Phone),
		Status:      strings.TrimSpace(req.Status),
	}
	if s.Status == "" {
		s.Status = "active"
	}
	if err := database.DB.Create(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /admin/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	id, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var s models.Student
	if err := database.DB.First(&s, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	var req StudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	s.StudentCode = strings.TrimSpace(req.StudentCode)
	s.FirstName = strings.TrimSpace(req.FirstName)
	s.LastName = strings.TrimSpace(req.LastName)
	s.Phone = strings.TrimSpace(req.Phone)
	if req.Status != "" {
		s.Status = strings.TrimSpace(req.Status)
	}
	if err := database.DB.Save(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, s)
}

// DELETE /admin/students/:id — removes the student's memberships too.
// Already-created periods keep their seeded records (history stays).
func (h *StudentHandler) Delete(c echo.Context) error {
	id, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var s models.Student
	if err := database.DB.First(&s, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&models.ClassStudent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&s).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.NoContent(http.StatusNoContent)
}
