package dto

import (
	"time"

	"github.com/google/uuid"
	"henryedu.com/henryplatform/internal/entity"
)

type CreateClassInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject" binding:"required"`
	Semester    string `json:"semester"`
	Schedule    string `json:"schedule"`
	Capacity    *int   `json:"capacity"`
}

type UpdateClassInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Subject     *string `json:"subject"`
	Semester    *string `json:"semester"`
	Schedule    *string `json:"schedule"`
	Capacity    *int    `json:"capacity"`
	Status      *string `json:"status"`
}

// ClassView is the list/detail projection. Professor name rides along so
// clients never join users themselves.
type ClassView struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Subject       string             `json:"subject"`
	Semester      string             `json:"semester"`
	Schedule      string             `json:"schedule"`
	Capacity      int                `json:"capacity"`
	EnrolledCount int                `json:"enrolled_count"`
	Status        entity.ClassStatus `json:"status"`
	ProfessorID   uuid.UUID          `json:"professor_id"`
	ProfessorName string             `json:"professor_name"`
	CanEnroll     bool               `json:"can_enroll"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type ClassDetail struct {
	ClassView
	Materials         []*entity.Material   `json:"materials"`
	RecentAssignments []*entity.Assignment `json:"recent_assignments"`
}

type ClassStats struct {
	TotalClasses     int64 `json:"total_classes"`
	ActiveClasses    int64 `json:"active_classes"`
	TotalEnrollments int64 `json:"total_enrollments"`
	TotalCapacity    int64 `json:"total_capacity"`
}
