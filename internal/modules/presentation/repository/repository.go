package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/entity"
)

type PresentationRepository interface {
	Create(ctx context.Context, presentation *entity.Presentation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Presentation, error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Presentation, error)
	Update(ctx context.Context, presentation *entity.Presentation) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddViews(ctx context.Context, id uuid.UUID, delta int) error
}

type presentationRepository struct {
	db *gorm.DB
}

func NewPresentationRepository(db *gorm.DB) PresentationRepository {
	return &presentationRepository{db: db}
}

func (r *presentationRepository) Create(ctx context.Context, presentation *entity.Presentation) error {
	return r.db.WithContext(ctx).Create(presentation).Error
}

func (r *presentationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Presentation, error) {
	var presentation entity.Presentation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&presentation).Error; err != nil {
		return nil, err
	}
	return &presentation, nil
}

func (r *presentationRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Presentation, error) {
	var presentations []*entity.Presentation
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&presentations).Error; err != nil {
		return nil, err
	}
	return presentations, nil
}

func (r *presentationRepository) Update(ctx context.Context, presentation *entity.Presentation) error {
	return r.db.WithContext(ctx).Save(presentation).Error
}

func (r *presentationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Presentation{}, "id = ?", id).Error
}

// AddViews folds buffered view counts into the persistent counter.
func (r *presentationRepository) AddViews(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&entity.Presentation{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", delta)).Error
}
