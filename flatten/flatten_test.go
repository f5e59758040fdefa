package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/changhyun152521/tbc-sub001/models"
)

func strPtr(s string) *string { return &s }

func record(studentID uint, attendance, homework, note string) models.StudentRecord {
	return models.StudentRecord{StudentID: studentID, Attendance: attendance, Homework: homework, Note: note}
}

func TestFlattenPreservesDayOrderAndPeriodOrder(t *testing.T) {
	days := []models.LessonDay{
		{
			ID: "day-b", Date: "2024-03-02",
			Periods: []models.Period{
				{Position: 0, TeacherID: 1, Records: []models.StudentRecord{record(5, models.AttendancePresent, models.HomeworkDone, "")}},
				{Position: 1, TeacherID: 1, Records: []models.StudentRecord{record(5, models.AttendanceAbsent, models.HomeworkNotDone, "")}},
			},
		},
		{
			ID: "day-a", Date: "2024-03-01",
			Periods: []models.Period{
				{Position: 0, TeacherID: 2, Records: []models.StudentRecord{record(5, models.AttendancePresent, models.HomeworkUnset, "")}},
			},
		},
	}

	entries := Flatten(days, 5, map[uint]string{1: "Jiyeon Park", 2: "Minho Lee"})
	require.Len(t, entries, 3)

	assert.Equal(t, "day-b-0", entries[0].ID)
	assert.Equal(t, "day-b-1", entries[1].ID)
	assert.Equal(t, "day-a-0", entries[2].ID)
	assert.Equal(t, 1, entries[0].PeriodLabel)
	assert.Equal(t, 2, entries[1].PeriodLabel)
	assert.Equal(t, "Jiyeon Park", entries[0].TeacherName)
	assert.Equal(t, "Minho Lee", entries[2].TeacherName)
}

func TestFlattenHomeworkStatusMapping(t *testing.T) {
	days := []models.LessonDay{{
		ID: "d1", Date: "2024-03-01",
		Periods: []models.Period{
			{Position: 0, Records: []models.StudentRecord{record(5, "", models.HomeworkDone, "")}},
			{Position: 1, Records: []models.StudentRecord{record(5, "", models.HomeworkNotDone, "")}},
			{Position: 2, Records: []models.StudentRecord{record(5, "", models.HomeworkUnset, "")}},
		},
	}}

	entries := Flatten(days, 5, nil)
	require.Len(t, entries, 3)
	assert.Equal(t, StatusSubmitted, entries[0].HomeworkStatus)
	assert.True(t, entries[0].HomeworkDone)
	assert.Equal(t, StatusNotSubmitted, entries[1].HomeworkStatus)
	assert.False(t, entries[1].HomeworkDone)
	assert.Equal(t, StatusBlank, entries[2].HomeworkStatus)
	assert.False(t, entries[2].HomeworkDone)
}

func TestFlattenStudentWithoutRecordIsBlankNotError(t *testing.T) {
	// student 99 joined after the period was seeded
	days := []models.LessonDay{{
		ID: "d1", Date: "2024-03-01",
		Periods: []models.Period{{
			Position: 0,
			Memo:     "fractions",
			Records:  []models.StudentRecord{record(5, models.AttendancePresent, models.HomeworkDone, "good focus")},
		}},
	}}

	entries := Flatten(days, 99, nil)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusBlank, entries[0].HomeworkStatus)
	assert.Equal(t, models.AttendanceUnset, entries[0].AttendanceStatus)
	assert.Empty(t, entries[0].Note)
	// period-level fields still flow through
	assert.Equal(t, "fractions", entries[0].Progress)
}

func TestFlattenCarriesPeriodFields(t *testing.T) {
	days := []models.LessonDay{{
		ID: "d1", Date: "2024-03-01",
		Periods: []models.Period{{
			Position:            0,
			TeacherID:           3,
			Memo:                "unit 4 review",
			HomeworkDescription: "workbook p. 10-12",
			HomeworkDueDate:     strPtr("2024-03-04"),
			Records:             []models.StudentRecord{record(5, models.AttendancePresent, models.HomeworkDone, "ask about #7")},
		}},
	}}

	entries := Flatten(days, 5, map[uint]string{3: "Dana Kim"})
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "2024-03-01", e.Date)
	assert.Equal(t, "unit 4 review", e.Progress)
	assert.Equal(t, "workbook p. 10-12", e.HomeworkDescription)
	require.NotNil(t, e.HomeworkDueDate)
	assert.Equal(t, "2024-03-04", *e.HomeworkDueDate)
	assert.Equal(t, "Dana Kim", e.TeacherName)
	assert.Equal(t, "ask about #7", e.Note)
	assert.Equal(t, models.AttendancePresent, e.AttendanceStatus)
}

func TestFlattenEmptyInput(t *testing.T) {
	assert.Empty(t, Flatten(nil, 5, nil))
	assert.Empty(t, Flatten([]models.LessonDay{{ID: "d", Date: "2024-01-01"}}, 5, nil))
}
