package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/changhyun152521/tbc-sub001/database"
	"github.com/changhyun152521/tbc-sub001/models"
	"github.com/changhyun152521/tbc-sub001/roster"
)

type ClassHandler struct{}

func NewClassHandler() *ClassHandler { return &ClassHandler{} }

func loadClassGroup(id uint) (*models.ClassGroup, error) {
	var class models.ClassGroup
	err := database.DB.
		Preload("Teachers", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Students").
		First(&class, id).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// GET /admin/classes
func (h *ClassHandler) List(c echo.Context) error {
	var rows []models.ClassGroup
	err := database.DB.
		Preload("Teachers", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Students").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /teacher/classes — classes in the requesting teacher's teacher set.
// Admin actors see everything.
func (h *ClassHandler) ListMine(c echo.Context) error {
	actor := actorFrom(c)
	if actor.Role == models.RoleAdmin {
		return h.List(c)
	}
	if actor.TeacherID == nil {
		return c.JSON(http.StatusOK, []models.ClassGroup{})
	}
	dir := roster.NewDirectory(database.DB)
	rows, err := dir.ClassesTaughtBy(*actor.TeacherID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusOK, rows)
}

type ClassReq struct {
	Name string `json:"name" validate:"required"`
}

// POST /admin/classes
func (h *ClassHandler) Create(c echo.Context) error {
	var req ClassReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	class := models.ClassGroup{Name: req.Name}
	if err := database.DB.Create(&class).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, class)
}

// PUT /admin/classes/:id
func (h *ClassHandler) Update(c echo.Context) error {
	id, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var class models.ClassGroup
	if err := database.DB.First(&class, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "CLASS_NOT_FOUND"})
	}
	var req ClassReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	class.Name = req.Name
	if err := database.DB.Save(&class).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, class)
}

// DELETE /admin/classes/:id — membership rows cascade; lesson days of the
// class stay addressable to admins only through listing and are removed
// separately.
func (h *ClassHandler) Delete(c echo.Context) error {
	id, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var class models.ClassGroup
	if err := database.DB.First(&class, id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "CLASS_NOT_FOUND"})
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_group_id = ?", id).Delete(&models.ClassTeacher{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_group_id = ?", id).Delete(&models.ClassStudent{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Student{}).
			Where("primary_class_id = ?", id).
			Update("primary_class_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&class).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.NoContent(http.StatusNoContent)
}

type AddMemberReq struct {
	StudentID  uint `json:"student_id" validate:"required"`
	SetPrimary bool `json:"set_primary"`
}

// POST /admin/classes/:id/students — adds a member. Existing periods are
// never backfilled; the student shows up in periods created from now on.
func (h *ClassHandler) AddStudent(c echo.Context) error {
	id, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	if _, err := loadClassGroup(id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "CLASS_NOT_FOUND"})
	}
	var req AddMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	var dup models.ClassStudent
	if err := database.DB.Where("class_group_id = ? AND student_id = ?", id, req.StudentID).
		First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_MEMBER"})
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.ClassStudent{ClassGroupID: id, StudentID: req.StudentID}).Error; err != nil {
			return err
		}
		if req.SetPrimary || student.PrimaryClassID == nil {
			return tx.Model(&student).Update("primary_class_id", id).Error
		}
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.JSON(http.StatusCreated, map[string]any{"ok": true})
}

// DELETE /admin/classes/:id/students/:sid — removes the member and clears
// the student's primary-class link when it pointed here (cascading unlink).
// Records in already-created periods are left alone.
func (h *ClassHandler) RemoveStudent(c echo.Context) error {
	id, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	sid, ok := uintParam(c, "sid")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var link models.ClassStudent
	if err := database.DB.Where("class_group_id = ? AND student_id = ?", id, sid).
		First(&link).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&link).Error; err != nil {
			return err
		}
		return tx.Model(&models.Student{}).
			Where("id = ? AND primary_class_id = ?", sid, id).
			Update("primary_class_id", nil).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.NoContent(http.StatusNoContent)
}

type AddClassTeacherReq struct {
	TeacherID uint `json:"teacher_id" validate:"required"`
}

// POST /admin/classes/:id/teachers — appends to the ordered teacher set.
func (h *ClassHandler) AddTeacher(c echo.Context) error {
	id, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	class, err := loadClassGroup(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "CLASS_NOT_FOUND"})
	}
	var req AddClassTeacherReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	var teacher models.Teacher
	if err := database.DB.First(&teacher, req.TeacherID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "TEACHER_NOT_FOUND"})
	}
	if class.HasTeacher(req.TeacherID) {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_MEMBER"})
	}
	link := models.ClassTeacher{
		ClassGroupID: id,
		TeacherID:    req.TeacherID,
		Position:     len(class.Teachers),
	}
	if err := database.DB.Create(&link).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, link)
}

// DELETE /admin/classes/:id/teachers/:tid
func (h *ClassHandler) RemoveTeacher(c echo.Context) error {
	id, ok := uintParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	tid, ok := uintParam(c, "tid")
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ID"})
	}
	var link models.ClassTeacher
	if err := database.DB.Where("class_group_id = ? AND teacher_id = ?", id, tid).
		First(&link).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "TEACHER_NOT_FOUND"})
	}
	if err := database.DB.Delete(&link).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	return c.NoContent(http.StatusNoContent)
}
