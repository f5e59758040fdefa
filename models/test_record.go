package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Test record types.
const (
	TestTypeWeekly = "weekly"
	TestTypeReal   = "real" // formal/official exam
)

func ValidTestType(t string) bool {
	return t == TestTypeWeekly || t == TestTypeReal
}

// TestScore is one student's score inside a TestRecord. A student appears
// at most once per record.
type TestScore struct {
	StudentID uint    `json:"student_id"`
	Score     float64 `json:"score"`
}

// TestRecord is one test given to a class, with the per-student score set
// stored as a JSONB array (order preserved).
type TestRecord struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	ClassGroupID  uint   `json:"class_group_id" gorm:"index;not null"`
	Type          string `json:"type" gorm:"size:10;not null"`      // weekly | real
	Date          string `json:"date" gorm:"size:10;index;not null"` // YYYY-MM-DD
	QuestionCount *int   `json:"question_count,omitempty"`
	Subject       string `json:"subject" gorm:"size:80"`
	Unit          string `json:"unit" gorm:"size:80"`

	Scores datatypes.JSON `json:"scores" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoreList decodes the JSONB score set. An empty column decodes to an
// empty slice.
func (t TestRecord) ScoreList() ([]TestScore, error) {
	if len(t.Scores) == 0 {
		return nil, nil
	}
	var out []TestScore
	if err := json.Unmarshal(t.Scores, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetScores encodes the score set into the JSONB column.
func (t *TestRecord) SetScores(scores []TestScore) error {
	b, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	t.Scores = datatypes.JSON(b)
	return nil
}
