package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/entity"
	"henryedu.com/henryplatform/internal/modules/class/dto"
)

type ClassRepository interface {
	Create(ctx context.Context, class *entity.Class) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Class, error)
	FindAll(ctx context.Context) ([]*entity.Class, error)
	FindActive(ctx context.Context) ([]*entity.Class, error)
	FindByProfessor(ctx context.Context, professorID uuid.UUID) ([]*entity.Class, error)
	Update(ctx context.Context, class *entity.Class) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementEnrollment(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementEnrollment(ctx context.Context, id uuid.UUID) (bool, error)
	Stats(ctx context.Context) (*dto.ClassStats, error)
}

type classRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *entity.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Class, error) {
	var class entity.Class
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&class).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) FindAll(ctx context.Context) ([]*entity.Class, error) {
	var classes []*entity.Class
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) FindActive(ctx context.Context) ([]*entity.Class, error) {
	var classes []*entity.Class
	if err := r.db.WithContext(ctx).
		Where("status = ?", entity.ClassActive).
		Order("created_at DESC").
		Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) FindByProfessor(ctx context.Context, professorID uuid.UUID) ([]*entity.Class, error) {
	var classes []*entity.Class
	if err := r.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Order("created_at DESC").
		Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) Update(ctx context.Context, class *entity.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *classRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Class{}, "id = ?", id).Error
}

// IncrementEnrollment takes a seat with a single conditional update so two
// concurrent enrollments can never oversell the class. Returns false when no
// seat was available.
func (r *classRepository) IncrementEnrollment(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Class{}).
		Where("id = ? AND enrolled_count < capacity AND status = ?", id, entity.ClassActive).
		UpdateColumn("enrolled_count", gorm.Expr("enrolled_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecrementEnrollment releases a seat, never dropping below zero. Returns
// false when the counter was already empty.
func (r *classRepository) DecrementEnrollment(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Class{}).
		Where("id = ? AND enrolled_count > 0", id).
		UpdateColumn("enrolled_count", gorm.Expr("enrolled_count - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *classRepository) Stats(ctx context.Context) (*dto.ClassStats, error) {
	var stats dto.ClassStats

	if err := r.db.WithContext(ctx).Model(&entity.Class{}).
		Count(&stats.TotalClasses).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&entity.Class{}).
		Where("status = ?", entity.ClassActive).
		Count(&stats.ActiveClasses).Error; err != nil {
		return nil, err
	}

	sums := []struct {
		column string
		dst    *int64
	}{
		{"enrolled_count", &stats.TotalEnrollments},
		{"capacity", &stats.TotalCapacity},
	}
	for _, s := range sums {
		var total *int64
		if err := r.db.WithContext(ctx).Model(&entity.Class{}).
			Select("SUM(" + s.column + ")").
			Scan(&total).Error; err != nil {
			return nil, err
		}
		if total != nil {
			*s.dst = *total
		}
	}

	return &stats, nil
}
