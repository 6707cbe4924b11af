package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	AssignmentActive AssignmentStatus = "active"
	AssignmentDraft  AssignmentStatus = "draft"
	AssignmentClosed AssignmentStatus = "closed"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentActive, AssignmentDraft, AssignmentClosed:
		return true
	}
	return false
}

type Assignment struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title               string           `gorm:"size:200;not null" json:"title"`
	Description         string           `gorm:"type:text" json:"description"`
	Type                string           `gorm:"size:50;default:essay" json:"type"`
	MaxPoints           float64          `gorm:"default:100" json:"max_points"`
	DueDate             time.Time        `gorm:"not null" json:"due_date"`
	Status              AssignmentStatus `gorm:"size:20;default:active" json:"status"`
	AllowLateSubmission bool             `gorm:"default:false" json:"allow_late_submission"`
	MaxAttempts         int              `gorm:"default:1" json:"max_attempts"`
	TimeLimit           *int             `json:"time_limit,omitempty"` // minutes
	ClassID             uuid.UUID        `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"class_id"`
	ProfessorID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"professor_id"`
	CreatedAt           time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Overdue reports whether the due date has passed at instant now.
func (a *Assignment) Overdue(now time.Time) bool {
	return now.After(a.DueDate)
}

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
	SubmissionReturned  SubmissionStatus = "returned"
)

type Submission struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Content       string           `gorm:"type:text" json:"content"`
	FileURL       *string          `gorm:"type:text" json:"file_url,omitempty"`
	Grade         *float64         `json:"grade,omitempty"`
	Feedback      string           `gorm:"type:text" json:"feedback"`
	AttemptNumber int              `gorm:"default:1" json:"attempt_number"`
	Status        SubmissionStatus `gorm:"size:20;default:submitted" json:"status"`
	AssignmentID  uuid.UUID        `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"assignment_id"`
	StudentID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"student_id"`
	SubmittedAt   time.Time        `gorm:"autoCreateTime" json:"submitted_at"`
	GradedAt      *time.Time       `json:"graded_at,omitempty"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Late reports whether the submission arrived after the assignment due date.
func (s *Submission) Late(a *Assignment) bool {
	if a == nil {
		return false
	}
	return s.SubmittedAt.After(a.DueDate)
}
