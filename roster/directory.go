// Package roster resolves identity to class membership. Read-only; every
// other component leans on it to scope what an actor can see.
package roster

import (
	"gorm.io/gorm"

	"github.com/changhyun152521/tbc-sub001/apperr"
	"github.com/changhyun152521/tbc-sub001/models"
)

type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory { return &Directory{db: db} }

// ClassesContaining returns every class the student is a member of, lowest
// id first, with teacher and student sets preloaded.
func (d *Directory) ClassesContaining(studentID uint) ([]models.ClassGroup, error) {
	var classes []models.ClassGroup
	err := d.db.
		Joins("JOIN class_students cs ON cs.class_group_id = class_groups.id").
		Where("cs.student_id = ?", studentID).
		Preload("Teachers").
		Preload("Students").
		Order("class_groups.id ASC").
		Find(&classes).Error
	return classes, err
}

// ClassesTaughtBy returns every class whose teacher set contains the
// teacher, lowest id first.
func (d *Directory) ClassesTaughtBy(teacherID uint) ([]models.ClassGroup, error) {
	var classes []models.ClassGroup
	err := d.db.
		Joins("JOIN class_teachers ct ON ct.class_group_id = class_groups.id").
		Where("ct.teacher_id = ?", teacherID).
		Preload("Teachers").
		Preload("Students").
		Order("class_groups.id ASC").
		Find(&classes).Error
	return classes, err
}

// ResolveStudentClass picks the class to show for a student. A preferred
// class id is honored only when the student actually belongs to it;
// otherwise the student's primary class wins if it is still a membership,
// and failing that the membership with the lowest class id. Returns
// CLASS_NOT_FOUND when the student belongs to no usable class (callers
// must not reveal more than that to student/parent actors).
func (d *Directory) ResolveStudentClass(studentID uint, preferredClassID *uint) (*models.ClassGroup, error) {
	var student models.Student
	if err := d.db.First(&student, studentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.ErrStudentNotFound
		}
		return nil, err
	}
	classes, err := d.ClassesContaining(studentID)
	if err != nil {
		return nil, err
	}
	cls := resolveFrom(student, classes, preferredClassID)
	if cls == nil {
		return nil, apperr.ErrClassNotFound
	}
	return cls, nil
}

// resolveFrom is the pure resolution policy over already-loaded rows.
// Membership order is lowest class id first (ClassesContaining guarantees
// it); the lowest-id fallback is deterministic but not a product promise —
// callers needing a specific class pass it explicitly.
func resolveFrom(student models.Student, classes []models.ClassGroup, preferredClassID *uint) *models.ClassGroup {
	if len(classes) == 0 {
		return nil
	}
	if preferredClassID != nil {
		for i := range classes {
			if classes[i].ID == *preferredClassID {
				return &classes[i]
			}
		}
	}
	if student.PrimaryClassID != nil {
		for i := range classes {
			if classes[i].ID == *student.PrimaryClassID {
				return &classes[i]
			}
		}
	}
	return &classes[0]
}
