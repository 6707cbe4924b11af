package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/entity"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *entity.Assignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error)
	FindAll(ctx context.Context) ([]*entity.Assignment, error)
	FindByProfessor(ctx context.Context, professorID uuid.UUID) ([]*entity.Assignment, error)
	FindByClass(ctx context.Context, classID uuid.UUID, limit int) ([]*entity.Assignment, error)
	FindActiveByClasses(ctx context.Context, classIDs []uuid.UUID) ([]*entity.Assignment, error)
	Update(ctx context.Context, assignment *entity.Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByClass(ctx context.Context, classID uuid.UUID) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *entity.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error) {
	var assignment entity.Assignment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindAll(ctx context.Context) ([]*entity.Assignment, error) {
	var assignments []*entity.Assignment
	if err := r.db.WithContext(ctx).Order("due_date ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) FindByProfessor(ctx context.Context, professorID uuid.UUID) ([]*entity.Assignment, error) {
	var assignments []*entity.Assignment
	if err := r.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Order("due_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindByClass returns the most recent assignments of a class. limit <= 0
// means all.
func (r *assignmentRepository) FindByClass(ctx context.Context, classID uuid.UUID, limit int) ([]*entity.Assignment, error) {
	q := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var assignments []*entity.Assignment
	if err := q.Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) FindActiveByClasses(ctx context.Context, classIDs []uuid.UUID) ([]*entity.Assignment, error) {
	if len(classIDs) == 0 {
		return []*entity.Assignment{}, nil
	}

	var assignments []*entity.Assignment
	if err := r.db.WithContext(ctx).
		Where("class_id IN ? AND status = ?", classIDs, entity.AssignmentActive).
		Order("due_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *entity.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Assignment{}, "id = ?", id).Error
}

func (r *assignmentRepository) DeleteByClass(ctx context.Context, classID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Assignment{}, "class_id = ?", classID).Error
}
