package database

import (
	"fmt"
	"log"

	config "github.com/akramjonkamolov673/cyberarena/configs"
	"github.com/akramjonkamolov673/cyberarena/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.TestSet{},
		&models.CodingChallenge{},
		&models.ChallengeGroup{},
		&models.CodeSubmission{},
		&models.TestSubmission{},
		&models.TextSubmission{},
		&models.Announcement{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedTeacher creates the initial teacher account from the environment so a
// fresh deployment has someone who can author tests.
func SeedTeacher() {
	teacherEmail := config.Config("TEACHER_EMAIL")
	teacherPassword := config.Config("TEACHER_PASSWORD")
	if teacherEmail == "" || teacherPassword == "" {
		log.Println("Teacher seed not configured, skipping.")
		return
	}

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", teacherEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for teacher user: %v", err)
		return
	}
	if count > 0 {
		log.Println("Teacher user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(teacherPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash teacher password: %v", err)
		return
	}

	username := config.Config("TEACHER_USERNAME")
	if username == "" {
		username = "teacher"
	}

	teacher := models.User{
		Username: username,
		Email:    teacherEmail,
		Password: string(hashedPassword),
		Role:     models.RoleTeacher,
	}
	if err := DB.Create(&teacher).Error; err != nil {
		log.Fatalf("🔥 Failed to seed teacher user: %v", err)
		return
	}

	log.Println("✅ Teacher user seeded successfully")
}
