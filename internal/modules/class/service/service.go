package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/authz"
	"henryedu.com/henryplatform/internal/entity"
	assignmentRepo "henryedu.com/henryplatform/internal/modules/assignment/repository"
	"henryedu.com/henryplatform/internal/modules/class/dto"
	"henryedu.com/henryplatform/internal/modules/class/repository"
	materialRepo "henryedu.com/henryplatform/internal/modules/material/repository"
	"henryedu.com/henryplatform/internal/modules/search"
	userRepo "henryedu.com/henryplatform/internal/modules/user/repository"
	"henryedu.com/henryplatform/pkg/apperror"
	"henryedu.com/henryplatform/pkg/storage"
)

const (
	materialsPreviewLimit   = 5
	assignmentsPreviewLimit = 3
)

type ClassService interface {
	ListClasses(ctx context.Context, caller authz.Caller) ([]*dto.ClassDetail, error)
	GetClass(ctx context.Context, caller authz.Caller, classID uuid.UUID) (*dto.ClassDetail, error)
	CreateClass(ctx context.Context, caller authz.Caller, input dto.CreateClassInput) (*dto.ClassView, error)
	UpdateClass(ctx context.Context, caller authz.Caller, classID uuid.UUID, input dto.UpdateClassInput) (*dto.ClassView, error)
	DeleteClass(ctx context.Context, caller authz.Caller, classID uuid.UUID) error
	Enroll(ctx context.Context, caller authz.Caller, classID uuid.UUID) (*dto.ClassView, error)
	Unenroll(ctx context.Context, caller authz.Caller, classID uuid.UUID) (*dto.ClassView, error)
	Stats(ctx context.Context, caller authz.Caller) (*dto.ClassStats, error)
}

type classService struct {
	repo           repository.ClassRepository
	materialRepo   materialRepo.MaterialRepository
	assignmentRepo assignmentRepo.AssignmentRepository
	submissionRepo assignmentRepo.SubmissionRepository
	userRepo       userRepo.UserRepository
	searchService  search.SearchService
	fileStorage    storage.FileStorage
}

func NewClassService(
	repo repository.ClassRepository,
	materials materialRepo.MaterialRepository,
	assignments assignmentRepo.AssignmentRepository,
	submissions assignmentRepo.SubmissionRepository,
	users userRepo.UserRepository,
	searchService search.SearchService,
	fileStorage storage.FileStorage,
) ClassService {
	return &classService{
		repo:           repo,
		materialRepo:   materials,
		assignmentRepo: assignments,
		submissionRepo: submissions,
		userRepo:       users,
		searchService:  searchService,
		fileStorage:    fileStorage,
	}
}

func (s *classService) ListClasses(ctx context.Context, caller authz.Caller) ([]*dto.ClassDetail, error) {
	var (
		classes []*entity.Class
		err     error
	)

	switch {
	case caller.IsProfessor():
		classes, err = s.repo.FindByProfessor(ctx, caller.ID)
	case caller.IsAdmin():
		classes, err = s.repo.FindAll(ctx)
	default:
		classes, err = s.repo.FindActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	names, err := s.professorNames(ctx, classes)
	if err != nil {
		return nil, err
	}

	details := make([]*dto.ClassDetail, 0, len(classes))
	for _, class := range classes {
		detail, err := s.buildDetail(ctx, caller, class, names[class.ProfessorID],
			materialsPreviewLimit, assignmentsPreviewLimit)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *classService) GetClass(ctx context.Context, caller authz.Caller, classID uuid.UUID) (*dto.ClassDetail, error) {
	class, err := s.findClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if !authz.CanViewClass(caller, class) {
		return nil, apperror.ErrForbidden
	}

	names, err := s.professorNames(ctx, []*entity.Class{class})
	if err != nil {
		return nil, err
	}

	return s.buildDetail(ctx, caller, class, names[class.ProfessorID], 0, 0)
}

func (s *classService) CreateClass(ctx context.Context, caller authz.Caller, input dto.CreateClassInput) (*dto.ClassView, error) {
	if !authz.CanCreateClass(caller) {
		return nil, apperror.ErrForbidden
	}

	class := &entity.Class{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Subject:     strings.TrimSpace(input.Subject),
		Semester:    input.Semester,
		Schedule:    input.Schedule,
		Capacity:    30,
		Status:      entity.ClassActive,
		ProfessorID: caller.ID,
	}
	if input.Capacity != nil {
		if *input.Capacity < 1 {
			return nil, apperror.Invalidf("La capacidad debe ser mayor a cero")
		}
		class.Capacity = *input.Capacity
	}

	if err := s.repo.Create(ctx, class); err != nil {
		return nil, err
	}

	professorName := s.indexClass(ctx, class)
	view := buildView(class, professorName)
	return &view, nil
}

func (s *classService) UpdateClass(ctx context.Context, caller authz.Caller, classID uuid.UUID, input dto.UpdateClassInput) (*dto.ClassView, error) {
	class, err := s.findClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManageClass(caller, class) {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		class.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		class.Description = *input.Description
	}
	if input.Subject != nil {
		class.Subject = strings.TrimSpace(*input.Subject)
	}
	if input.Semester != nil {
		class.Semester = *input.Semester
	}
	if input.Schedule != nil {
		class.Schedule = *input.Schedule
	}
	if input.Capacity != nil {
		if *input.Capacity < 1 {
			return nil, apperror.Invalidf("La capacidad debe ser mayor a cero")
		}
		class.Capacity = *input.Capacity
	}
	if input.Status != nil {
		status := entity.ClassStatus(strings.ToLower(*input.Status))
		if !status.Valid() {
			return nil, apperror.Invalidf("Estado de clase inválido")
		}
		class.Status = status
	}

	if err := s.repo.Update(ctx, class); err != nil {
		return nil, err
	}

	professorName := s.indexClass(ctx, class)
	view := buildView(class, professorName)
	return &view, nil
}

// DeleteClass removes the class and everything hanging off it. Submissions
// go first, then assignments, then materials with their stored files, then
// the class row itself.
func (s *classService) DeleteClass(ctx context.Context, caller authz.Caller, classID uuid.UUID) error {
	class, err := s.findClass(ctx, classID)
	if err != nil {
		return err
	}

	if !authz.CanManageClass(caller, class) {
		return apperror.ErrForbidden
	}

	if err := s.submissionRepo.DeleteByClass(ctx, classID); err != nil {
		return err
	}
	if err := s.assignmentRepo.DeleteByClass(ctx, classID); err != nil {
		return err
	}

	materials, err := s.materialRepo.FindByClass(ctx, classID, 0)
	if err != nil {
		return err
	}
	for _, m := range materials {
		if m.FileURL != nil {
			_ = s.fileStorage.DeleteFile(ctx, *m.FileURL)
		}
		if err := s.searchService.DeleteMaterial(m.ID.String()); err != nil {
			log.Printf("Failed to deindex material %s: %v", m.ID, err)
		}
	}
	if err := s.materialRepo.DeleteByClass(ctx, classID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, classID); err != nil {
		return err
	}

	if err := s.searchService.DeleteClass(classID.String()); err != nil {
		log.Printf("Failed to deindex class %s: %v", classID, err)
	}
	return nil
}

func (s *classService) Enroll(ctx context.Context, caller authz.Caller, classID uuid.UUID) (*dto.ClassView, error) {
	if !authz.CanEnroll(caller) {
		return nil, apperror.ErrForbidden
	}

	if _, err := s.findClass(ctx, classID); err != nil {
		return nil, err
	}

	ok, err := s.repo.IncrementEnrollment(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Conflictf("La clase no tiene cupos disponibles")
	}

	return s.reloadView(ctx, classID)
}

func (s *classService) Unenroll(ctx context.Context, caller authz.Caller, classID uuid.UUID) (*dto.ClassView, error) {
	if !authz.CanEnroll(caller) {
		return nil, apperror.ErrForbidden
	}

	if _, err := s.findClass(ctx, classID); err != nil {
		return nil, err
	}

	ok, err := s.repo.DecrementEnrollment(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Conflictf("La clase no tiene inscripciones")
	}

	return s.reloadView(ctx, classID)
}

func (s *classService) Stats(ctx context.Context, caller authz.Caller) (*dto.ClassStats, error) {
	switch {
	case caller.IsAdmin():
		return s.repo.Stats(ctx)
	case caller.IsProfessor():
		classes, err := s.repo.FindByProfessor(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		stats := &dto.ClassStats{TotalClasses: int64(len(classes))}
		for _, class := range classes {
			if class.Status == entity.ClassActive {
				stats.ActiveClasses++
			}
			stats.TotalEnrollments += int64(class.EnrolledCount)
			stats.TotalCapacity += int64(class.Capacity)
		}
		return stats, nil
	default:
		return nil, apperror.ErrForbidden
	}
}

func (s *classService) findClass(ctx context.Context, classID uuid.UUID) (*entity.Class, error) {
	class, err := s.repo.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return class, nil
}

func (s *classService) professorNames(ctx context.Context, classes []*entity.Class) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{}, len(classes))
	ids := make([]uuid.UUID, 0, len(classes))
	for _, class := range classes {
		if _, ok := seen[class.ProfessorID]; ok {
			continue
		}
		seen[class.ProfessorID] = struct{}{}
		ids = append(ids, class.ProfessorID)
	}
	return s.userRepo.NamesByIDs(ctx, ids)
}

// buildDetail assembles the class projection. Students only ever see the
// public slice of the material shelf.
func (s *classService) buildDetail(ctx context.Context, caller authz.Caller, class *entity.Class, professorName string, materialLimit, assignmentLimit int) (*dto.ClassDetail, error) {
	materials, err := s.materialRepo.FindByClass(ctx, class.ID, materialLimit)
	if err != nil {
		return nil, err
	}
	if caller.IsStudent() {
		visible := materials[:0]
		for _, m := range materials {
			if m.IsPublic {
				visible = append(visible, m)
			}
		}
		materials = visible
	}

	assignments, err := s.assignmentRepo.FindByClass(ctx, class.ID, assignmentLimit)
	if err != nil {
		return nil, err
	}

	return &dto.ClassDetail{
		ClassView:         buildView(class, professorName),
		Materials:         materials,
		RecentAssignments: assignments,
	}, nil
}

func (s *classService) reloadView(ctx context.Context, classID uuid.UUID) (*dto.ClassView, error) {
	class, err := s.findClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	names, err := s.professorNames(ctx, []*entity.Class{class})
	if err != nil {
		return nil, err
	}

	view := buildView(class, names[class.ProfessorID])
	return &view, nil
}

// indexClass pushes the class into the search index, resolving the owner
// name on the way. Index failures are logged, never surfaced.
func (s *classService) indexClass(ctx context.Context, class *entity.Class) string {
	professorName := ""
	if names, err := s.userRepo.NamesByIDs(ctx, []uuid.UUID{class.ProfessorID}); err == nil {
		professorName = names[class.ProfessorID]
	}

	if err := s.searchService.IndexClass(class, professorName); err != nil {
		log.Printf("Failed to index class %s: %v", class.ID, err)
	}
	return professorName
}

func buildView(class *entity.Class, professorName string) dto.ClassView {
	return dto.ClassView{
		ID:            class.ID,
		Name:          class.Name,
		Description:   class.Description,
		Subject:       class.Subject,
		Semester:      class.Semester,
		Schedule:      class.Schedule,
		Capacity:      class.Capacity,
		EnrolledCount: class.EnrolledCount,
		Status:        class.Status,
		ProfessorID:   class.ProfessorID,
		ProfessorName: professorName,
		CanEnroll:     class.CanEnroll(),
		CreatedAt:     class.CreatedAt,
		UpdatedAt:     class.UpdatedAt,
	}
}
