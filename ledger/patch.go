package ledger

import (
	"encoding/json"

	"github.com/changhyun152521/tbc-sub001/apperr"
	"github.com/changhyun152521/tbc-sub001/models"
)

// OptionalString distinguishes "field omitted" from "field set to null" in
// a patch payload. Omitted leaves the stored value alone; null clears it.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// RecordInput is one student's marks in a records replacement.
type RecordInput struct {
	StudentID  uint   `json:"student_id"`
	Attendance string `json:"attendance"`
	Homework   string `json:"homework"`
	Note       string `json:"note"`
}

// PeriodPatch is a partial update for one period. Every field is optional;
// Records, when present, replaces the period's record set wholesale.
type PeriodPatch struct {
	TeacherID           *uint          `json:"teacher_id"`
	Memo                *string        `json:"memo"`
	HomeworkDescription *string        `json:"homework_description"`
	HomeworkDueDate     OptionalString `json:"homework_due_date"`
	Records             *[]RecordInput `json:"records"`
}

// seedRecords builds one unset StudentRecord per current class member.
// Later roster changes do not touch records seeded here.
func seedRecords(members []models.ClassStudent) []models.StudentRecord {
	records := make([]models.StudentRecord, 0, len(members))
	for _, m := range members {
		records = append(records, models.StudentRecord{
			StudentID:  m.StudentID,
			Attendance: models.AttendanceUnset,
			Homework:   models.HomeworkUnset,
		})
	}
	return records
}

// removePeriodAt drops the period at idx and renumbers the rest. Periods
// must be ordered by position. Returns the surviving periods and the
// removed one.
func removePeriodAt(periods []models.Period, idx int) ([]models.Period, *models.Period, error) {
	if idx < 0 {
		return nil, nil, apperr.ErrInvalidPeriodIdx
	}
	if idx >= len(periods) {
		return nil, nil, apperr.ErrPeriodNotFound
	}
	removed := periods[idx]
	kept := make([]models.Period, 0, len(periods)-1)
	kept = append(kept, periods[:idx]...)
	kept = append(kept, periods[idx+1:]...)
	for i := range kept {
		kept[i].Position = i
	}
	return kept, &removed, nil
}

// validateRecords rejects invalid marks and duplicate students.
func validateRecords(records []RecordInput) error {
	seen := make(map[uint]struct{}, len(records))
	for _, r := range records {
		if !models.ValidAttendanceMark(r.Attendance) || !models.ValidHomeworkMark(r.Homework) {
			return apperr.ErrInvalidMark
		}
		if _, dup := seen[r.StudentID]; dup {
			return apperr.New(apperr.InvalidInput, "DUPLICATE_STUDENT_RECORD")
		}
		seen[r.StudentID] = struct{}{}
	}
	return nil
}

// applyPatch applies the scalar fields of a patch to a period in place.
// Records replacement is persisted separately by the service; here the
// replacement set is validated and returned (nil when records are omitted).
func applyPatch(p *models.Period, patch PeriodPatch) ([]models.StudentRecord, error) {
	if patch.TeacherID != nil {
		p.TeacherID = *patch.TeacherID
	}
	if patch.Memo != nil {
		p.Memo = *patch.Memo
	}
	if patch.HomeworkDescription != nil {
		p.HomeworkDescription = *patch.HomeworkDescription
	}
	if patch.HomeworkDueDate.Set {
		if patch.HomeworkDueDate.Value != nil {
			due, err := ParseDate(*patch.HomeworkDueDate.Value)
			if err != nil {
				return nil, err
			}
			p.HomeworkDueDate = &due
		} else {
			p.HomeworkDueDate = nil
		}
	}
	if patch.Records == nil {
		return nil, nil
	}
	if err := validateRecords(*patch.Records); err != nil {
		return nil, err
	}
	replacement := make([]models.StudentRecord, 0, len(*patch.Records))
	for _, r := range *patch.Records {
		replacement = append(replacement, models.StudentRecord{
			PeriodID:   p.ID,
			StudentID:  r.StudentID,
			Attendance: r.Attendance,
			Homework:   r.Homework,
			Note:       r.Note,
		})
	}
	return replacement, nil
}
