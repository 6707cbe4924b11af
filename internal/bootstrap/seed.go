package bootstrap

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/entity"
)

// Migrate applies the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Class{},
		&entity.Material{},
		&entity.Assignment{},
		&entity.Submission{},
		&entity.Presentation{},
	)
}

// SeedDemoUsers creates the three demo accounts used by the login screen.
// Existing accounts are left untouched.
func SeedDemoUsers(db *gorm.DB) error {
	demoUsers := []entity.User{
		{Email: "admin@henry.edu", FullName: "Administrador HENRY", Role: entity.RoleAdmin},
		{Email: "profesor@henry.edu", FullName: "Dr. María González", Role: entity.RoleProfessor},
		{Email: "estudiante@henry.edu", FullName: "Juan Carlos Pérez", Role: entity.RoleStudent},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, user := range demoUsers {
		var count int64
		if err := db.Model(&entity.User{}).
			Where("email = ?", user.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		user.PasswordHash = string(hashed)
		user.IsActive = true
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("Seeded demo user %s (%s)", user.Email, user.Role)
	}

	return nil
}
