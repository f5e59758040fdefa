package models

import (
	"strings"
	"time"
)

type Student struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	StudentCode string `gorm:"size:20;uniqueIndex;not null" json:"student_code"`
	FirstName   string `gorm:"size:50;not null" json:"first_name"`
	LastName    string `gorm:"size:50;not null" json:"last_name"`
	Phone       string `gorm:"size:15" json:"phone"`
	Status      string `gorm:"size:20;not null;default:'active'" json:"status"` // active | left | suspended

	// PrimaryClassID is the class shown by default when the student (or a
	// parent) opens the app without picking a class. Optional; a student may
	// belong to several classes or to none.
	PrimaryClassID *uint `gorm:"index" json:"primary_class_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
