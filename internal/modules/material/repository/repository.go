package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/entity"
)

type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Material, error)
	FindAll(ctx context.Context) ([]*entity.Material, error)
	FindByUploader(ctx context.Context, uploaderID uuid.UUID) ([]*entity.Material, error)
	FindByClass(ctx context.Context, classID uuid.UUID, limit int) ([]*entity.Material, error)
	FindPublicByClasses(ctx context.Context, classIDs []uuid.UUID) ([]*entity.Material, error)
	Update(ctx context.Context, material *entity.Material) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByClass(ctx context.Context, classID uuid.UUID) error
	AddDownloads(ctx context.Context, id uuid.UUID, delta int) error
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Material, error) {
	var material entity.Material
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) FindAll(ctx context.Context) ([]*entity.Material, error) {
	var materials []*entity.Material
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) FindByUploader(ctx context.Context, uploaderID uuid.UUID) ([]*entity.Material, error) {
	var materials []*entity.Material
	if err := r.db.WithContext(ctx).
		Where("uploaded_by = ?", uploaderID).
		Order("created_at DESC").
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindByClass returns the newest materials of a class. limit <= 0 means all.
func (r *materialRepository) FindByClass(ctx context.Context, classID uuid.UUID, limit int) ([]*entity.Material, error) {
	q := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var materials []*entity.Material
	if err := q.Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) FindPublicByClasses(ctx context.Context, classIDs []uuid.UUID) ([]*entity.Material, error) {
	if len(classIDs) == 0 {
		return []*entity.Material{}, nil
	}

	var materials []*entity.Material
	if err := r.db.WithContext(ctx).
		Where("class_id IN ? AND is_public = ?", classIDs, true).
		Order("created_at DESC").
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) Update(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

func (r *materialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Material{}, "id = ?", id).Error
}

func (r *materialRepository) DeleteByClass(ctx context.Context, classID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Material{}, "class_id = ?", classID).Error
}

// AddDownloads folds buffered download counts into the persistent counter.
func (r *materialRepository) AddDownloads(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&entity.Material{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", delta)).Error
}
