package models

import (
	"strings"
	"time"
)

type Teacher struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TeacherCode string    `gorm:"size:20;not null;uniqueIndex" json:"teacher_code"`
	FirstName   string    `gorm:"size:50;not null" json:"first_name"`
	LastName    string    `gorm:"size:50;not null" json:"last_name"`
	Phone       string    `gorm:"size:15" json:"phone"`
	Email       string    `gorm:"size:50;uniqueIndex" json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}
