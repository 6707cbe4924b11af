package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of platform roles. Stored as the platform's
// Spanish wire values.
type Role string

const (
	RoleStudent   Role = "estudiante"
	RoleProfessor Role = "profesor"
	RoleAdmin     Role = "administrador"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Role         Role      `gorm:"size:20;not null" json:"role"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`

	// Profile fields, filled per role
	Institution *string `gorm:"size:100" json:"institution,omitempty"`
	Department  *string `gorm:"size:100" json:"department,omitempty"`
	StudentID   *string `gorm:"size:20" json:"student_id,omitempty"`
	Semester    *string `gorm:"size:10" json:"semester,omitempty"`
	Career      *string `gorm:"size:100" json:"career,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
