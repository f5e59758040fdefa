package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/changhyun152521/tbc-sub001/database"
	"github.com/changhyun152521/tbc-sub001/models"
)

type AcademyHandler struct{}

func NewAcademyHandler() *AcademyHandler { return &AcademyHandler{} }

// GET /admin/academy
func (h *AcademyHandler) Get(c echo.Context) error {
	var a models.Academy
	if err := database.DB.First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "ACADEMY_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, a)
}

type AcademyReq struct {
	AcademyCode string `json:"academy_code" validate:"required"`
	AcademyName string `json:"academy_name" validate:"required"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

// PUT /admin/academy — creates the single profile row on first call,
// updates it afterwards.
func (h *AcademyHandler) Upsert(c echo.Context) error {
	var req AcademyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var a models.Academy
	err := database.DB.First(&a).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	a.AcademyCode = req.AcademyCode
	a.AcademyName = req.AcademyName
	a.Address = req.Address
	a.Phone = req.Phone
	if err := database.DB.Save(&a).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, a)
}
