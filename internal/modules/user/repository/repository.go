package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/entity"
)

// RoleStats is the admin-facing user census.
type RoleStats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	Professors    int64 `json:"professors"`
	Students      int64 `json:"students"`
	Admins        int64 `json:"administrators"`
	InactiveUsers int64 `json:"inactive_users"`
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	Update(ctx context.Context, user *entity.User) error
	Stats(ctx context.Context) (*RoleStats, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// NamesByIDs resolves user display names in one query. Missing IDs are
// simply absent from the result.
func (r *userRepository) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID       uuid.UUID
		FullName string
	}
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Select("id", "full_name").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		names[row.ID] = row.FullName
	}
	return names, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Stats(ctx context.Context) (*RoleStats, error) {
	var stats RoleStats

	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("is_active = ?", true).
		Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}

	counts := []struct {
		role entity.Role
		dst  *int64
	}{
		{entity.RoleProfessor, &stats.Professors},
		{entity.RoleStudent, &stats.Students},
		{entity.RoleAdmin, &stats.Admins},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(&entity.User{}).
			Where("role = ?", c.role).
			Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers
	return &stats, nil
}
