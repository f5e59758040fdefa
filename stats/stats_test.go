package stats

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/changhyun152521/tbc-sub001/apperr"
	"github.com/changhyun152521/tbc-sub001/flatten"
	"github.com/changhyun152521/tbc-sub001/models"
)

func strPtr(s string) *string { return &s }

func TestPercentZeroGuard(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 100.0, Percent(3, 3))
	assert.Equal(t, 33.33, Percent(1, 3))
	assert.Equal(t, 66.67, Percent(2, 3))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 84.33, Round2(84.3333333))
	assert.Equal(t, 84.34, Round2(84.336))
	assert.Equal(t, 0.0, Round2(0))
}

func TestSummarizeSingleMarkedEntry(t *testing.T) {
	// class C, one period: S1 present + homework done
	entries := []flatten.LessonEntry{{
		ID:               "day1-0",
		Date:             "2024-03-01",
		AttendanceStatus: models.AttendancePresent,
		HomeworkStatus:   flatten.StatusSubmitted,
		HomeworkDone:     true,
	}}
	s := Summarize(entries, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, 1, s.AttendanceTotal)
	assert.Equal(t, 1, s.AttendanceAttended)
	assert.Equal(t, 100.0, s.AttendanceRate)
	assert.Equal(t, 1, s.HomeworkTotal)
	assert.Equal(t, 1, s.HomeworkDone)
	assert.Equal(t, 100.0, s.HomeworkRate)
}

func TestSummarizeAbsentStillCountsAsAttended(t *testing.T) {
	// an explicit absence is a recorded attendance event
	entries := []flatten.LessonEntry{
		{ID: "d-0", Date: "2024-03-01", AttendanceStatus: models.AttendanceAbsent, HomeworkStatus: flatten.StatusNotSubmitted},
		{ID: "d-1", Date: "2024-03-01", AttendanceStatus: models.AttendanceUnset, HomeworkStatus: flatten.StatusBlank},
	}
	s := Summarize(entries, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, s.AttendanceTotal)
	assert.Equal(t, 1, s.AttendanceAttended)
	assert.Equal(t, 50.0, s.AttendanceRate)
}

func TestSummarizeHomeworkDenominator(t *testing.T) {
	entries := []flatten.LessonEntry{
		// marked homework → counts
		{ID: "a", Date: "2024-03-01", HomeworkStatus: flatten.StatusSubmitted, HomeworkDone: true},
		// blank mark but progress recorded → still counts in the denominator
		{ID: "b", Date: "2024-03-01", HomeworkStatus: flatten.StatusBlank, Progress: "unit 2"},
		// blank mark, no progress → outside the denominator
		{ID: "c", Date: "2024-03-01", HomeworkStatus: flatten.StatusBlank},
	}
	s := Summarize(entries, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, s.HomeworkTotal)
	assert.Equal(t, 1, s.HomeworkDone)
	assert.Equal(t, 50.0, s.HomeworkRate)
}

func TestSummarizeEmptyHistory(t *testing.T) {
	s := Summarize(nil, time.Now())
	assert.Equal(t, 0.0, s.HomeworkRate)
	assert.Equal(t, 0.0, s.AttendanceRate)
	assert.Empty(t, s.RecentHomework)
	assert.Empty(t, s.RecentNotes)
}

func TestSummarizeRecentWindowIsTrailingSevenDays(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	entries := []flatten.LessonEntry{
		// inside the window
		{ID: "in", Date: "2024-03-05", HomeworkDescription: "p. 10", Note: "retest friday"},
		// on the cutoff boundary — still inside
		{ID: "edge", Date: "2024-03-01", HomeworkDueDate: strPtr("2024-03-03")},
		// older than 7 days — rates still count it, items do not
		{ID: "old", Date: "2024-02-20", HomeworkDescription: "p. 2", Note: "old note"},
	}
	s := Summarize(entries, now)

	assert.Equal(t, 3, s.AttendanceTotal)
	require.Len(t, s.RecentHomework, 2)
	assert.Equal(t, "in", s.RecentHomework[0].ID)
	assert.Equal(t, "edge", s.RecentHomework[1].ID)
	require.Len(t, s.RecentNotes, 1)
	assert.Equal(t, "retest friday", s.RecentNotes[0].Note)
}

func TestSummarizeRecentItemsCappedAtTwenty(t *testing.T) {
	now := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	var entries []flatten.LessonEntry
	for i := 0; i < 25; i++ {
		entries = append(entries, flatten.LessonEntry{
			ID:                  fmt.Sprintf("d-%d", i),
			Date:                "2024-03-07",
			HomeworkDescription: "p. 1",
			Note:                "note",
		})
	}
	s := Summarize(entries, now)
	assert.Len(t, s.RecentHomework, 20)
	assert.Len(t, s.RecentNotes, 20)
}

func TestMonthRange(t *testing.T) {
	from, to, err := MonthRange(2024, 3)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", from)
	assert.Equal(t, "2024-03-31", to)

	from, to, err = MonthRange(2024, 2) // leap year
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", from)
	assert.Equal(t, "2024-02-29", to)

	_, _, err = MonthRange(2024, 13)
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
	_, _, err = MonthRange(0, 1)
	assert.Equal(t, apperr.InvalidInput, apperr.KindOf(err))
}

func testRecord(t *testing.T, classID uint, date string, scores []models.TestScore) models.TestRecord {
	t.Helper()
	rec := models.TestRecord{ID: "t-" + date, ClassGroupID: classID, Type: models.TestTypeWeekly, Date: date}
	require.NoError(t, rec.SetScores(scores))
	return rec
}

func TestMonthlyScenarioMarch(t *testing.T) {
	// S1 in class C, March 2024: one period, present + done
	entries := []flatten.LessonEntry{{
		ID:               "day1-0",
		Date:             "2024-03-01",
		AttendanceStatus: models.AttendancePresent,
		HomeworkStatus:   flatten.StatusSubmitted,
		HomeworkDone:     true,
	}}
	m, err := Monthly(entries, nil, 1, 2024, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, m.AttendanceTotal)
	assert.Equal(t, 1, m.AttendanceAttended)
	assert.Equal(t, 100.0, m.AttendanceRate)
	assert.Equal(t, 1, m.HomeworkTotal)
	assert.Equal(t, 1, m.HomeworkDone)
	assert.Equal(t, 100.0, m.HomeworkRate)
	assert.Nil(t, m.TestAverage)
	assert.Equal(t, 0, m.TestCount)
}

func TestMonthlyTestAverageOwnScoresOnly(t *testing.T) {
	tests := []models.TestRecord{
		testRecord(t, 1, "2024-03-05", []models.TestScore{{StudentID: 1, Score: 85}, {StudentID: 2, Score: 40}}),
		testRecord(t, 1, "2024-03-12", []models.TestScore{{StudentID: 1, Score: 90}}),
		testRecord(t, 1, "2024-03-19", []models.TestScore{{StudentID: 1, Score: 78}}),
	}
	m, err := Monthly(nil, tests, 1, 2024, 3)
	require.NoError(t, err)

	require.NotNil(t, m.TestAverage)
	assert.Equal(t, 84.33, *m.TestAverage) // (85+90+78)/3
	assert.Equal(t, 3, m.TestCount)
}

func TestMonthlyNoScoresForStudent(t *testing.T) {
	tests := []models.TestRecord{
		testRecord(t, 1, "2024-03-05", []models.TestScore{{StudentID: 2, Score: 40}}),
	}
	m, err := Monthly(nil, tests, 1, 2024, 3)
	require.NoError(t, err)
	assert.Nil(t, m.TestAverage)
	assert.Equal(t, 0, m.TestCount)
}

func TestForTest(t *testing.T) {
	rec := testRecord(t, 1, "2024-03-05", []models.TestScore{
		{StudentID: 1, Score: 80},
		{StudentID: 2, Score: 95.5},
		{StudentID: 3, Score: 60},
	})
	s, err := ForTest(rec)
	require.NoError(t, err)
	require.NotNil(t, s.Average)
	require.NotNil(t, s.MaxScore)
	assert.Equal(t, 78.5, *s.Average)
	assert.Equal(t, 95.5, *s.MaxScore)
	assert.Equal(t, 3, s.Count)
}

func TestForTestNoScoresYet(t *testing.T) {
	rec := testRecord(t, 1, "2024-03-05", nil)
	s, err := ForTest(rec)
	require.NoError(t, err)
	assert.Nil(t, s.Average)
	assert.Nil(t, s.MaxScore)
	assert.Equal(t, 0, s.Count)
}
