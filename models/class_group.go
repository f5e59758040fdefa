package models

import "time"

type ClassGroup struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:80;not null" json:"name"`

	Teachers []ClassTeacher `gorm:"foreignKey:ClassGroupID;constraint:OnDelete:CASCADE" json:"teachers,omitempty"`
	Students []ClassStudent `gorm:"foreignKey:ClassGroupID;constraint:OnDelete:CASCADE" json:"students,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClassTeacher links a teacher into a class's teacher set. Position keeps
// the set ordered (lead teacher first).
type ClassTeacher struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	ClassGroupID uint `gorm:"index:idx_class_teacher,unique;not null" json:"class_group_id"`
	TeacherID    uint `gorm:"index:idx_class_teacher,unique;not null" json:"teacher_id"`
	Position     int  `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `json:"created_at"`
}

// ClassStudent links a student into a class's membership set.
type ClassStudent struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	ClassGroupID uint `gorm:"index:idx_class_student,unique;not null" json:"class_group_id"`
	StudentID    uint `gorm:"index:idx_class_student,unique;not null" json:"student_id"`

	CreatedAt time.Time `json:"created_at"`
}

// HasTeacher reports whether the given teacher is in the class's teacher set.
// Teachers must be preloaded.
func (c ClassGroup) HasTeacher(teacherID uint) bool {
	for _, ct := range c.Teachers {
		if ct.TeacherID == teacherID {
			return true
		}
	}
	return false
}

// HasStudent reports whether the given student is a member. Students must be
// preloaded.
func (c ClassGroup) HasStudent(studentID uint) bool {
	for _, cs := range c.Students {
		if cs.StudentID == studentID {
			return true
		}
	}
	return false
}
