package database

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/changhyun152521/tbc-sub001/config"
	"github.com/changhyun152521/tbc-sub001/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.Academy{},
		&models.Teacher{},
		&models.Student{},
		&models.ClassGroup{},
		&models.ClassTeacher{},
		&models.ClassStudent{},
		&models.LessonDay{},
		&models.Period{},
		&models.StudentRecord{},
		&models.TestRecord{},
		&models.User{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

// EnsureAdmin provisions the first admin account at startup. Idempotent:
// an existing user with the configured username is left untouched.
func EnsureAdmin(cfg *config.Config) {
	var existing models.User
	err := DB.Where("username = ?", cfg.AdminUsername).First(&existing).Error
	if err == nil {
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("failed to query users: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	u := models.User{
		Username: cfg.AdminUsername,
		Password: string(hashed),
		Role:     models.RoleAdmin,
		Name:     "Administrator",
	}
	if err := DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert admin: %v", err)
	}
	log.Printf("admin user %q created", cfg.AdminUsername)
}
