package models

import "time"

// Attendance marks on a StudentRecord. Empty string means the teacher has
// not marked the student yet.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceUnset   = ""
)

// Homework marks on a StudentRecord.
const (
	HomeworkDone    = "done"
	HomeworkNotDone = "not-done"
	HomeworkUnset   = ""
)

func ValidAttendanceMark(m string) bool {
	switch m {
	case AttendancePresent, AttendanceAbsent, AttendanceUnset:
		return true
	}
	return false
}

func ValidHomeworkMark(m string) bool {
	switch m {
	case HomeworkDone, HomeworkNotDone, HomeworkUnset:
		return true
	}
	return false
}

// LessonDay is one calendar date's record for one class. At most one row may
// exist per (class, date); the unique index enforces it at creation time.
type LessonDay struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	ClassGroupID uint   `json:"class_group_id" gorm:"uniqueIndex:idx_lesson_day_class_date;not null"`
	Date         string `json:"date" gorm:"size:10;uniqueIndex:idx_lesson_day_class_date;not null"` // YYYY-MM-DD

	Periods []Period `json:"periods" gorm:"foreignKey:LessonDayID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Period is one teaching session within a LessonDay. Callers address periods
// by Position (0-based); positions are renumbered when a period is removed,
// so indices are not stable across mutations.
type Period struct {
	ID          uint   `json:"-" gorm:"primaryKey"`
	LessonDayID string `json:"-" gorm:"size:36;index;not null"`
	Position    int    `json:"position" gorm:"not null"`

	TeacherID           uint    `json:"teacher_id" gorm:"not null"`
	Memo                string  `json:"memo" gorm:"type:text"`                 // lesson progress
	HomeworkDescription string  `json:"homework_description" gorm:"type:text"`
	HomeworkDueDate     *string `json:"homework_due_date,omitempty" gorm:"size:10"` // YYYY-MM-DD, nil = none

	Records []StudentRecord `json:"records" gorm:"foreignKey:PeriodID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordFor returns the student's record within the period, nil when the
// student has none (joined the class after the period was seeded).
func (p Period) RecordFor(studentID uint) *StudentRecord {
	for i := range p.Records {
		if p.Records[i].StudentID == studentID {
			return &p.Records[i]
		}
	}
	return nil
}

// StudentRecord is one student's marks within a Period. Student references
// are unique within a period.
type StudentRecord struct {
	ID        uint `json:"-" gorm:"primaryKey"`
	PeriodID  uint `json:"-" gorm:"uniqueIndex:idx_period_student;not null"`
	StudentID uint `json:"student_id" gorm:"uniqueIndex:idx_period_student;not null"`

	Attendance string `json:"attendance" gorm:"size:10"` // present | absent | ""
	Homework   string `json:"homework" gorm:"size:10"`   // done | not-done | ""
	Note       string `json:"note" gorm:"type:text"`
}
