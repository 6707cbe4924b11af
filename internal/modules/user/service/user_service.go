package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/authz"
	"henryedu.com/henryplatform/internal/entity"
	"henryedu.com/henryplatform/internal/modules/user/dto"
	"henryedu.com/henryplatform/internal/modules/user/repository"
	"henryedu.com/henryplatform/pkg/apperror"
	"henryedu.com/henryplatform/pkg/storage"
)

type UserService interface {
	GetProfile(ctx context.Context, caller authz.Caller, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, caller authz.Caller, userID uuid.UUID, input dto.AdminUpdateUserInput) (*entity.User, error)
	UploadAvatar(ctx context.Context, caller authz.Caller, file dto.AvatarFile) (*entity.User, error)
	ListUsers(ctx context.Context, caller authz.Caller) ([]*entity.User, error)
	Stats(ctx context.Context, caller authz.Caller) (*repository.RoleStats, error)
}

type userService struct {
	repo        repository.UserRepository
	fileStorage storage.FileStorage
}

func NewUserService(repo repository.UserRepository, fileStorage storage.FileStorage) UserService {
	return &userService{
		repo:        repo,
		fileStorage: fileStorage,
	}
}

func (s *userService) GetProfile(ctx context.Context, caller authz.Caller, userID uuid.UUID) (*entity.User, error) {
	if !authz.SelfOrAdmin(caller, userID) {
		return nil, apperror.ErrForbidden
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, caller authz.Caller, userID uuid.UUID, input dto.AdminUpdateUserInput) (*entity.User, error) {
	if !authz.SelfOrAdmin(caller, userID) {
		return nil, apperror.ErrForbidden
	}

	// Role and active-flag mutation is admin territory regardless of target.
	if (input.Role != nil || input.IsActive != nil) && !authz.CanChangeRole(caller) {
		return nil, apperror.ErrForbidden
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Institution != nil {
		user.Institution = input.Institution
	}
	if input.Department != nil {
		user.Department = input.Department
	}
	if input.StudentID != nil {
		user.StudentID = input.StudentID
	}
	if input.Semester != nil {
		user.Semester = input.Semester
	}
	if input.Career != nil {
		user.Career = input.Career
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}
	if input.Role != nil {
		role := entity.Role(strings.ToLower(*input.Role))
		if !role.Valid() {
			return nil, apperror.Invalidf("Rol inválido")
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, caller authz.Caller, file dto.AvatarFile) (*entity.User, error) {
	user, err := s.findUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	url, err := s.fileStorage.UploadFile(ctx, file.Reader, "avatars", file.FileName)
	if err != nil {
		return nil, err
	}

	// Old avatar cleanup is best effort.
	if user.AvatarURL != nil {
		_ = s.fileStorage.DeleteFile(ctx, *user.AvatarURL)
	}

	user.AvatarURL = &url
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, caller authz.Caller) ([]*entity.User, error) {
	if !caller.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

func (s *userService) Stats(ctx context.Context, caller authz.Caller) (*repository.RoleStats, error) {
	if !caller.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	return s.repo.Stats(ctx)
}

func (s *userService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
