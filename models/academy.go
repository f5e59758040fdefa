package models

import "time"

// Academy is the single-row profile of the academy itself.
type Academy struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	AcademyCode string `gorm:"uniqueIndex;size:20;not null" json:"academy_code"`
	AcademyName string `gorm:"size:100;not null" json:"academy_name"`
	Address     string `gorm:"size:255" json:"address"`
	Phone       string `gorm:"size:20" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
