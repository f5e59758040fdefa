// Package ledger owns the per-day, per-period attendance/homework records
// of a class. Every mutation is a guarded read-modify-write against one
// LessonDay; last writer wins on period updates.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/changhyun152521/tbc-sub001/access"
	"github.com/changhyun152521/tbc-sub001/apperr"
	"github.com/changhyun152521/tbc-sub001/models"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ParseDate validates a YYYY-MM-DD calendar date and returns it normalized.
func ParseDate(s string) (string, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", apperr.Wrap(apperr.InvalidInput, "INVALID_DATE", err)
	}
	return t.Format("2006-01-02"), nil
}

func (s *Service) loadClass(classID uint) (*models.ClassGroup, error) {
	var class models.ClassGroup
	err := s.db.Preload("Teachers").Preload("Students").First(&class, classID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (s *Service) loadDay(dayID string) (*models.LessonDay, error) {
	var day models.LessonDay
	err := s.db.
		Preload("Periods", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Periods.Records").
		First(&day, "id = ?", dayID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.ErrLessonDayNotFound
	}
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// guardDay loads a lesson day and checks the actor against its class.
func (s *Service) guardDay(actor access.Actor, dayID string) (*models.LessonDay, *models.ClassGroup, error) {
	day, err := s.loadDay(dayID)
	if err != nil {
		return nil, nil, err
	}
	class, err := s.loadClass(day.ClassGroupID)
	if err != nil {
		return nil, nil, err
	}
	if !access.CanAccess(actor, *class) {
		return nil, nil, apperr.ErrForbidden
	}
	return day, class, nil
}

// CreateLessonDay opens the ledger for one class+date. At most one lesson
// day may exist per pair; a second attempt is a conflict.
func (s *Service) CreateLessonDay(actor access.Actor, classID uint, date string) (*models.LessonDay, error) {
	date, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	class, err := s.loadClass(classID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(actor, *class) {
		return nil, apperr.ErrForbidden
	}
	var count int64
	if err := s.db.Model(&models.LessonDay{}).
		Where("class_group_id = ? AND date = ?", classID, date).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.ErrLessonDayExists
	}
	day := models.LessonDay{
		ID:           uuid.NewString(),
		ClassGroupID: classID,
		Date:         date,
		Periods:      []models.Period{},
	}
	if err := s.createDay(&day); err != nil {
		return nil, err
	}
	return &day, nil
}

// createDay inserts the row. The count check above races with concurrent
// creates; the unique index on (class, date) is the real gate, so a
// duplicate-key failure here is still a Conflict, not an internal error.
func (s *Service) createDay(day *models.LessonDay) error {
	if err := s.db.Create(day).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrLessonDayExists
		}
		return err
	}
	return nil
}

// AddPeriod appends a period to the day, seeded with one unset record per
// student currently in the class. Later roster changes never backfill.
func (s *Service) AddPeriod(actor access.Actor, dayID string, teacherID uint) (*models.LessonDay, error) {
	day, class, err := s.guardDay(actor, dayID)
	if err != nil {
		return nil, err
	}
	var teacher models.Teacher
	if err := s.db.First(&teacher, teacherID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.ErrTeacherNotFound
		}
		return nil, err
	}
	period := models.Period{
		LessonDayID: day.ID,
		Position:    len(day.Periods),
		TeacherID:   teacherID,
		Records:     seedRecords(class.Students),
	}
	if err := s.db.Create(&period).Error; err != nil {
		return nil, err
	}
	return s.loadDay(dayID)
}

// RemovePeriod deletes the period at the given position and shifts later
// positions down by one.
func (s *Service) RemovePeriod(actor access.Actor, dayID string, index int) error {
	day, _, err := s.guardDay(actor, dayID)
	if err != nil {
		return err
	}
	_, removed, err := removePeriodAt(day.Periods, index)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("period_id = ?", removed.ID).Delete(&models.StudentRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Period{}, removed.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Period{}).
			Where("lesson_day_id = ? AND position > ?", dayID, removed.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// UpdatePeriod applies a partial patch to the period at the given position.
// A supplied records set replaces the stored one wholesale; callers resend
// unchanged entries.
func (s *Service) UpdatePeriod(actor access.Actor, dayID string, index int, patch PeriodPatch) (*models.Period, error) {
	day, _, err := s.guardDay(actor, dayID)
	if err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, apperr.ErrInvalidPeriodIdx
	}
	if index >= len(day.Periods) {
		return nil, apperr.ErrPeriodNotFound
	}
	if patch.TeacherID != nil {
		var teacher models.Teacher
		if err := s.db.First(&teacher, *patch.TeacherID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperr.ErrTeacherNotFound
			}
			return nil, err
		}
	}
	period := day.Periods[index]
	replacement, err := applyPatch(&period, patch)
	if err != nil {
		return nil, err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Period{}).Where("id = ?", period.ID).
			Select("teacher_id", "memo", "homework_description", "homework_due_date").
			Updates(map[string]any{
				"teacher_id":           period.TeacherID,
				"memo":                 period.Memo,
				"homework_description": period.HomeworkDescription,
				"homework_due_date":    period.HomeworkDueDate,
			}).Error; err != nil {
			return err
		}
		if replacement == nil {
			return nil
		}
		if err := tx.Where("period_id = ?", period.ID).Delete(&models.StudentRecord{}).Error; err != nil {
			return err
		}
		if len(replacement) == 0 {
			return nil
		}
		return tx.Create(&replacement).Error
	})
	if err != nil {
		return nil, err
	}
	if replacement != nil {
		period.Records = replacement
	}
	return &period, nil
}

// DeleteLessonDay removes the day as a whole unit, cascading its periods
// and records.
func (s *Service) DeleteLessonDay(actor access.Actor, dayID string) error {
	day, _, err := s.guardDay(actor, dayID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("period_id IN (SELECT id FROM periods WHERE lesson_day_id = ?)", day.ID).
			Delete(&models.StudentRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lesson_day_id = ?", day.ID).Delete(&models.Period{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.LessonDay{}, "id = ?", day.ID).Error
	})
}

// GetLessonDay returns one day with its periods and records, guarded.
func (s *Service) GetLessonDay(actor access.Actor, dayID string) (*models.LessonDay, error) {
	day, _, err := s.guardDay(actor, dayID)
	if err != nil {
		return nil, err
	}
	return day, nil
}

// ListFilter narrows a lesson-day listing. TeacherID matches days with at
// least one period authored by that teacher.
type ListFilter struct {
	DateFrom  string
	DateTo    string
	ClassID   *uint
	TeacherID *uint
}

// DaySummary is one listing row.
type DaySummary struct {
	ID           string `json:"id"`
	ClassGroupID uint   `json:"class_group_id"`
	ClassName    string `json:"class_name"`
	Date         string `json:"date"`
	PeriodCount  int    `json:"period_count"`
}

// ListLessonDays returns summaries ordered by date descending. Teacher
// actors only see days of classes they teach; a class filter outside that
// set is a hard Forbidden.
func (s *Service) ListLessonDays(actor access.Actor, f ListFilter) ([]DaySummary, error) {
	if f.DateFrom != "" {
		var err error
		if f.DateFrom, err = ParseDate(f.DateFrom); err != nil {
			return nil, err
		}
	}
	if f.DateTo != "" {
		var err error
		if f.DateTo, err = ParseDate(f.DateTo); err != nil {
			return nil, err
		}
	}
	if f.ClassID != nil {
		class, err := s.loadClass(*f.ClassID)
		if err != nil {
			return nil, err
		}
		if !access.CanAccess(actor, *class) {
			return nil, apperr.ErrForbidden
		}
	}

	tx := s.db.Table("lesson_days AS d").
		Select("d.id, d.class_group_id, c.name AS class_name, d.date, COUNT(p.id) AS period_count").
		Joins("JOIN class_groups c ON c.id = d.class_group_id").
		Joins("LEFT JOIN periods p ON p.lesson_day_id = d.id")

	if f.DateFrom != "" {
		tx = tx.Where("d.date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		tx = tx.Where("d.date <= ?", f.DateTo)
	}
	if f.ClassID != nil {
		tx = tx.Where("d.class_group_id = ?", *f.ClassID)
	}
	if f.TeacherID != nil {
		tx = tx.Where("EXISTS (SELECT 1 FROM periods px WHERE px.lesson_day_id = d.id AND px.teacher_id = ?)", *f.TeacherID)
	}
	if actor.Role == models.RoleTeacher {
		// a teacher account without a teacher link teaches no classes
		if actor.TeacherID == nil {
			return []DaySummary{}, nil
		}
		tx = tx.Where("EXISTS (SELECT 1 FROM class_teachers ct WHERE ct.class_group_id = d.class_group_id AND ct.teacher_id = ?)", *actor.TeacherID)
	}

	var rows []DaySummary
	err := tx.Group("d.id, d.class_group_id, c.name, d.date").
		Order("d.date DESC, d.id ASC").
		Scan(&rows).Error
	return rows, err
}

// DaysForClass fetches a class's lesson days in a date range, newest first,
// with periods (position ascending) and records preloaded. No guard: the
// caller has already scoped the class through roster or the access guard.
func (s *Service) DaysForClass(classID uint, dateFrom, dateTo string) ([]models.LessonDay, error) {
	tx := s.db.Where("class_group_id = ?", classID)
	if dateFrom != "" {
		from, err := ParseDate(dateFrom)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("date >= ?", from)
	}
	if dateTo != "" {
		to, err := ParseDate(dateTo)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("date <= ?", to)
	}
	var days []models.LessonDay
	err := tx.
		Preload("Periods", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Periods.Records").
		Order("date DESC").
		Find(&days).Error
	return days, err
}
