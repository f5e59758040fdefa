package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/changhyun152521/tbc-sub001/access"
	"github.com/changhyun152521/tbc-sub001/apperr"
	"github.com/changhyun152521/tbc-sub001/database"
	"github.com/changhyun152521/tbc-sub001/ledger"
	"github.com/changhyun152521/tbc-sub001/models"
	"github.com/changhyun152521/tbc-sub001/stats"
)

type TestHandler struct{}

func NewTestHandler() *TestHandler { return &TestHandler{} }

// guardClass loads a class and checks the actor against it. Staff denials
// are Forbidden; student/parent denials mask the class's existence as
// NotFound. Callers translate via writeErr.
func guardClass(c echo.Context, classID uint) (*models.ClassGroup, error) {
	class, err := loadClassGroup(classID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.ErrClassNotFound
		}
		return nil, err
	}
	actor := actorFrom(c)
	if !access.CanAccess(actor, *class) {
		if actor.IsStaff() {
			return nil, apperr.ErrForbidden
		}
		return nil, apperr.ErrClassNotFound
	}
	return class, nil
}

func validateScores(scores []models.TestScore) string {
	seen := make(map[uint]struct{}, len(scores))
	for _, s := range scores {
		if _, dup := seen[s.StudentID]; dup {
			return "DUPLICATE_SCORE"
		}
		seen[s.StudentID] = struct{}{}
	}
	return ""
}

type TestRecordReq struct {
	ClassGroupID  uint               `json:"class_group_id" validate:"required"`
	Type          string             `json:"type" validate:"required"`
	Date          string             `json:"date" validate:"required"`
	QuestionCount *int               `json:"question_count"`
	Subject       string             `json:"subject"`
	Unit          string             `json:"unit"`
	Scores        []models.TestScore `json:"scores"`
}

// POST /teacher/tests
func (h *TestHandler) Create(c echo.Context) error {
	var req TestRecordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !models.ValidTestType(req.Type) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_TEST_TYPE"})
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE"})
	}
	if code := validateScores(req.Scores); code != "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": code})
	}
	if _, err := guardClass(c, req.ClassGroupID); err != nil {
		return writeErr(c, err)
	}

	rec := models.TestRecord{
		ID:            uuid.NewString(),
		ClassGroupID:  req.ClassGroupID,
		Type:          req.Type,
		Date:          date,
		QuestionCount: req.QuestionCount,
		Subject:       strings.TrimSpace(req.Subject),
		Unit:          strings.TrimSpace(req.Unit),
	}
	if err := rec.SetScores(req.Scores); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// GET /teacher/tests?class_id=&from=&to=&type=
func (h *TestHandler) List(c echo.Context) error {
	classID := uintQuery(c, "class_id")
	if classID == nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}
	if _, err := guardClass(c, *classID); err != nil {
		return writeErr(c, err)
	}
	tx := database.DB.Where("class_group_id = ?", *classID)
	if from := strings.TrimSpace(c.QueryParam("from")); from != "" {
		tx = tx.Where("date >= ?", from)
	}
	if to := strings.TrimSpace(c.QueryParam("to")); to != "" {
		tx = tx.Where("date <= ?", to)
	}
	if typ := strings.TrimSpace(c.QueryParam("type")); typ != "" {
		tx = tx.Where("type = ?", typ)
	}
	var rows []models.TestRecord
	if err := tx.Order("date DESC, id ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, rows)
}

// PUT /teacher/tests/:id — full update of the record; the score set is
// replaced with what is sent.
func (h *TestHandler) Update(c echo.Context) error {
	var rec models.TestRecord
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		return writeErr(c, apperr.ErrTestNotFound)
	}
	if _, err := guardClass(c, rec.ClassGroupID); err != nil {
		return writeErr(c, err)
	}
	var req TestRecordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !models.ValidTestType(req.Type) {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_TEST_TYPE"})
	}
	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE"})
	}
	if code := validateScores(req.Scores); code != "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": code})
	}
	// the record stays with its class; moving tests across classes is not
	// supported
	rec.Type = req.Type
	rec.Date = date
	rec.QuestionCount = req.QuestionCount
	rec.Subject = strings.TrimSpace(req.Subject)
	rec.Unit = strings.TrimSpace(req.Unit)
	if err := rec.SetScores(req.Scores); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /teacher/tests/:id
func (h *TestHandler) Delete(c echo.Context) error {
	var rec models.TestRecord
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		return writeErr(c, apperr.ErrTestNotFound)
	}
	if _, err := guardClass(c, rec.ClassGroupID); err != nil {
		return writeErr(c, err)
	}
	if err := database.DB.Delete(&rec).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /teacher/tests/:id/stats — class-wide average and max for one test.
func (h *TestHandler) Stats(c echo.Context) error {
	var rec models.TestRecord
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		return writeErr(c, apperr.ErrTestNotFound)
	}
	if _, err := guardClass(c, rec.ClassGroupID); err != nil {
		return writeErr(c, err)
	}
	summary, err := stats.ForTest(rec)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, summary)
}
