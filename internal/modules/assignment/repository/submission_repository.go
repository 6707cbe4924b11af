package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/entity"
)

// SubmissionCounts summarizes grading progress for one assignment.
type SubmissionCounts struct {
	Total  int64 `json:"total"`
	Graded int64 `json:"graded"`
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *entity.Submission) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Submission, error)
	FindByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*entity.Submission, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.Submission, error)
	CountAttempts(ctx context.Context, assignmentID, studentID uuid.UUID) (int, error)
	Counts(ctx context.Context, assignmentID uuid.UUID) (*SubmissionCounts, error)
	Update(ctx context.Context, submission *entity.Submission) error
	DeleteByAssignment(ctx context.Context, assignmentID uuid.UUID) error
	DeleteByClass(ctx context.Context, classID uuid.UUID) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *entity.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Submission, error) {
	var submission entity.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]*entity.Submission, error) {
	var submissions []*entity.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.Submission, error) {
	var submissions []*entity.Submission
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) CountAttempts(ctx context.Context, assignmentID, studentID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Submission{}).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *submissionRepository) Counts(ctx context.Context, assignmentID uuid.UUID) (*SubmissionCounts, error) {
	var counts SubmissionCounts

	if err := r.db.WithContext(ctx).Model(&entity.Submission{}).
		Where("assignment_id = ?", assignmentID).
		Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&entity.Submission{}).
		Where("assignment_id = ? AND status = ?", assignmentID, entity.SubmissionGraded).
		Count(&counts.Graded).Error; err != nil {
		return nil, err
	}

	return &counts, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *entity.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) DeleteByAssignment(ctx context.Context, assignmentID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Submission{}, "assignment_id = ?", assignmentID).Error
}

func (r *submissionRepository) DeleteByClass(ctx context.Context, classID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("assignment_id IN (?)", r.db.Model(&entity.Assignment{}).
			Select("id").Where("class_id = ?", classID)).
		Delete(&entity.Submission{}).Error
}
