package models

import "time"

// Roles known to the system. Students and parents log in with the same
// user table; their reachable data is scoped through their student link.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;size:60;not null"`
	Email    string `json:"email" gorm:"size:120;index"`
	Password string `json:"-" gorm:"not null"`            // bcrypt hash
	Role     string `json:"role" gorm:"size:20;not null"` // admin | teacher | student | parent
	Name     string `json:"name" gorm:"size:120"`

	// Link to the person this account acts for. Teachers carry TeacherID;
	// student and parent accounts carry StudentID (a parent account is
	// scoped to exactly the data of its linked student).
	TeacherID *uint `json:"teacher_id,omitempty" gorm:"index"`
	StudentID *uint `json:"student_id,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
