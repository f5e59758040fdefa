// Package stats turns flattened lesson entries and raw test records into
// the rates and summaries the dashboards show. All percentages live in
// [0,100] and every division is zero-guarded.
package stats

import (
	"math"
	"time"

	"github.com/changhyun152521/tbc-sub001/apperr"
	"github.com/changhyun152521/tbc-sub001/flatten"
	"github.com/changhyun152521/tbc-sub001/models"
)

const (
	recentWindowDays = 7
	recentItemCap    = 20
)

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percent returns part/total as a percentage, 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

// HomeworkItem is one recent homework assignment on the dashboard.
type HomeworkItem struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date,omitempty"`
	Done        bool    `json:"done"`
}

// NoteItem is one recent free-text note on the dashboard.
type NoteItem struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Note string `json:"note"`
}

// Summary is the recent-window dashboard view for one student+class. The
// rate denominators cover the entire history, not just the display window.
type Summary struct {
	HomeworkTotal      int     `json:"homework_total"`
	HomeworkDone       int     `json:"homework_done"`
	HomeworkRate       float64 `json:"homework_rate"`
	AttendanceTotal    int     `json:"attendance_total"`
	AttendanceAttended int     `json:"attendance_attended"`
	AttendanceRate     float64 `json:"attendance_rate"`

	RecentHomework []HomeworkItem `json:"recent_homework"`
	RecentNotes    []NoteItem     `json:"recent_notes"`
}

// countsHomework reports whether the entry belongs in the homework-rate
// denominator: a marked homework, or a period that at least had progress
// recorded.
func countsHomework(e flatten.LessonEntry) bool {
	return e.HomeworkStatus != flatten.StatusBlank || e.Progress != ""
}

// Summarize computes the dashboard summary. The 7-day trailing window for
// homework and note items is anchored at now (wall clock), never at a
// queried date. Entries are expected newest-day first, as flatten emits
// them for a date-descending day fetch.
func Summarize(entries []flatten.LessonEntry, now time.Time) Summary {
	s := Summary{
		RecentHomework: []HomeworkItem{},
		RecentNotes:    []NoteItem{},
	}
	cutoff := now.AddDate(0, 0, -recentWindowDays).Format("2006-01-02")
	today := now.Format("2006-01-02")

	for _, e := range entries {
		s.AttendanceTotal++
		// Any explicit mark, absence included, is a recorded attendance
		// event.
		if e.AttendanceStatus != models.AttendanceUnset {
			s.AttendanceAttended++
		}
		if countsHomework(e) {
			s.HomeworkTotal++
		}
		if e.HomeworkDone {
			s.HomeworkDone++
		}
		if e.Date < cutoff || e.Date > today {
			continue
		}
		if (e.HomeworkDescription != "" || e.HomeworkDueDate != nil) && len(s.RecentHomework) < recentItemCap {
			s.RecentHomework = append(s.RecentHomework, HomeworkItem{
				ID:          e.ID,
				Date:        e.Date,
				Description: e.HomeworkDescription,
				DueDate:     e.HomeworkDueDate,
				Done:        e.HomeworkDone,
			})
		}
		if e.Note != "" && len(s.RecentNotes) < recentItemCap {
			s.RecentNotes = append(s.RecentNotes, NoteItem{ID: e.ID, Date: e.Date, Note: e.Note})
		}
	}
	s.HomeworkRate = Percent(s.HomeworkDone, s.HomeworkTotal)
	s.AttendanceRate = Percent(s.AttendanceAttended, s.AttendanceTotal)
	return s
}

// MonthRange returns the first and last calendar date of a month.
func MonthRange(year, month int) (string, string, error) {
	if year < 1 || month < 1 || month > 12 {
		return "", "", apperr.ErrInvalidDate
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02"), nil
}

// MonthlyStats is the per-month rollup for one student+class.
type MonthlyStats struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	AttendanceTotal    int     `json:"attendance_total"`
	AttendanceAttended int     `json:"attendance_attended"`
	AttendanceRate     float64 `json:"attendance_rate"`
	HomeworkTotal      int     `json:"homework_total"`
	HomeworkDone       int     `json:"homework_done"`
	HomeworkRate       float64 `json:"homework_rate"`

	// TestAverage is nil when the student has no scores in the month.
	TestAverage *float64 `json:"test_average"`
	TestCount   int      `json:"test_count"`
}

// Monthly computes month-scoped rates plus the mean of the student's own
// test scores. Entries and tests must already be restricted to the month
// (MonthRange gives the bounds). Missing data degrades to zero/nil, never
// to an error.
func Monthly(entries []flatten.LessonEntry, tests []models.TestRecord, studentID uint, year, month int) (MonthlyStats, error) {
	m := MonthlyStats{Year: year, Month: month}
	for _, e := range entries {
		m.AttendanceTotal++
		if e.AttendanceStatus != models.AttendanceUnset {
			m.AttendanceAttended++
		}
		if countsHomework(e) {
			m.HomeworkTotal++
		}
		if e.HomeworkDone {
			m.HomeworkDone++
		}
	}
	m.AttendanceRate = Percent(m.AttendanceAttended, m.AttendanceTotal)
	m.HomeworkRate = Percent(m.HomeworkDone, m.HomeworkTotal)

	var sum float64
	for _, t := range tests {
		scores, err := t.ScoreList()
		if err != nil {
			return m, err
		}
		for _, sc := range scores {
			if sc.StudentID == studentID {
				sum += sc.Score
				m.TestCount++
			}
		}
	}
	if m.TestCount > 0 {
		avg := Round2(sum / float64(m.TestCount))
		m.TestAverage = &avg
	}
	return m, nil
}

// TestSummary is the class-wide view of one test record.
type TestSummary struct {
	Average  *float64 `json:"average"`
	MaxScore *float64 `json:"max_score"`
	Count    int      `json:"count"`
}

// ForTest computes average and max across all students' scores in one
// record, nil/nil when nobody has a score yet.
func ForTest(rec models.TestRecord) (TestSummary, error) {
	var s TestSummary
	scores, err := rec.ScoreList()
	if err != nil {
		return s, err
	}
	if len(scores) == 0 {
		return s, nil
	}
	var sum, max float64
	for i, sc := range scores {
		sum += sc.Score
		if i == 0 || sc.Score > max {
			max = sc.Score
		}
	}
	avg := Round2(sum / float64(len(scores)))
	maxR := Round2(max)
	s.Average = &avg
	s.MaxScore = &maxR
	s.Count = len(scores)
	return s, nil
}
