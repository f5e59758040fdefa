// Package flatten projects the nested LessonDay/Period/StudentRecord
// structure into a flat per-student timeline. Pure projection, no I/O.
package flatten

import (
	"fmt"

	"github.com/changhyun152521/tbc-sub001/models"
)

// Homework status as shown on student timelines.
const (
	StatusSubmitted    = "submitted"
	StatusNotSubmitted = "not-submitted"
	StatusBlank        = "blank"
)

// LessonEntry is one period of one day, seen from one student.
type LessonEntry struct {
	ID                  string  `json:"id"`           // "<lessonDayID>-<periodIndex>"
	Date                string  `json:"date"`         // YYYY-MM-DD
	PeriodLabel         int     `json:"period_label"` // 1-based
	Progress            string  `json:"progress"`
	HomeworkStatus      string  `json:"homework_status"` // submitted | not-submitted | blank
	HomeworkDone        bool    `json:"homework_done"`
	AttendanceStatus    string  `json:"attendance_status"` // present | absent | ""
	HomeworkDescription string  `json:"homework_description"`
	HomeworkDueDate     *string `json:"homework_due_date,omitempty"`
	TeacherName         string  `json:"teacher_name"`
	Note                string  `json:"note"`
}

func homeworkStatus(mark string) string {
	switch mark {
	case models.HomeworkDone:
		return StatusSubmitted
	case models.HomeworkNotDone:
		return StatusNotSubmitted
	default:
		return StatusBlank
	}
}

// Flatten produces one entry per period of every day, in input day order
// and ascending period position within a day. A student with no record in
// a period (joined the class after it was seeded) yields blank marks, not
// an error.
func Flatten(days []models.LessonDay, studentID uint, teacherNames map[uint]string) []LessonEntry {
	var entries []LessonEntry
	for _, day := range days {
		for i, period := range day.Periods {
			entry := LessonEntry{
				ID:                  fmt.Sprintf("%s-%d", day.ID, i),
				Date:                day.Date,
				PeriodLabel:         i + 1,
				Progress:            period.Memo,
				HomeworkStatus:      StatusBlank,
				AttendanceStatus:    models.AttendanceUnset,
				HomeworkDescription: period.HomeworkDescription,
				HomeworkDueDate:     period.HomeworkDueDate,
				TeacherName:         teacherNames[period.TeacherID],
			}
			if rec := period.RecordFor(studentID); rec != nil {
				entry.HomeworkStatus = homeworkStatus(rec.Homework)
				entry.HomeworkDone = rec.Homework == models.HomeworkDone
				entry.AttendanceStatus = rec.Attendance
				entry.Note = rec.Note
			}
			entries = append(entries, entry)
		}
	}
	return entries
}
