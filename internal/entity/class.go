package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassStatus string

const (
	ClassActive    ClassStatus = "active"
	ClassDraft     ClassStatus = "draft"
	ClassCompleted ClassStatus = "completed"
	ClassCancelled ClassStatus = "cancelled"
)

func (s ClassStatus) Valid() bool {
	switch s {
	case ClassActive, ClassDraft, ClassCompleted, ClassCancelled:
		return true
	}
	return false
}

type Class struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string      `gorm:"size:200;not null" json:"name"`
	Description   string      `gorm:"type:text" json:"description"`
	Subject       string      `gorm:"size:100;not null" json:"subject"`
	Semester      string      `gorm:"size:20;not null" json:"semester"`
	Schedule      string      `gorm:"size:100" json:"schedule"`
	Capacity      int         `gorm:"default:30" json:"capacity"`
	EnrolledCount int         `gorm:"default:0" json:"enrolled_count"`
	Status        ClassStatus `gorm:"size:20;default:active" json:"status"`
	ProfessorID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"professor_id"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Class) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CanEnroll reports whether the class has an open seat.
func (c *Class) CanEnroll() bool {
	return c.EnrolledCount < c.Capacity && c.Status == ClassActive
}
