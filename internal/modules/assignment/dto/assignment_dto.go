package dto

import (
	"henryedu.com/henryplatform/internal/entity"
	"henryedu.com/henryplatform/internal/modules/assignment/repository"
)

type CreateAssignmentInput struct {
	Title               string   `json:"title" binding:"required"`
	Description         string   `json:"description"`
	Type                string   `json:"type"`
	MaxPoints           *float64 `json:"max_points"`
	DueDate             string   `json:"due_date" binding:"required"`
	AllowLateSubmission *bool    `json:"allow_late_submission"`
	MaxAttempts         *int     `json:"max_attempts"`
	TimeLimit           *int     `json:"time_limit"`
	ClassID             string   `json:"class_id" binding:"required"`
}

type UpdateAssignmentInput struct {
	Title               *string  `json:"title"`
	Description         *string  `json:"description"`
	Type                *string  `json:"type"`
	MaxPoints           *float64 `json:"max_points"`
	DueDate             *string  `json:"due_date"`
	Status              *string  `json:"status"`
	AllowLateSubmission *bool    `json:"allow_late_submission"`
	MaxAttempts         *int     `json:"max_attempts"`
	TimeLimit           *int     `json:"time_limit"`
}

type SubmitInput struct {
	Content string  `json:"content" binding:"required"`
	FileURL *string `json:"file_url"`
}

type GradeInput struct {
	Grade    *float64 `json:"grade" binding:"required"`
	Feedback string   `json:"feedback"`
}

// AssignmentView decorates an assignment with its grading progress.
type AssignmentView struct {
	*entity.Assignment
	Submissions *repository.SubmissionCounts `json:"submissions,omitempty"`
	MyAttempts  *int                         `json:"my_attempts,omitempty"`
}

type AssignmentDetail struct {
	AssignmentView
	SubmissionList []*entity.Submission `json:"submission_list,omitempty"`
}
