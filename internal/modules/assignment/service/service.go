package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/authz"
	"henryedu.com/henryplatform/internal/entity"
	"henryedu.com/henryplatform/internal/modules/assignment/dto"
	"henryedu.com/henryplatform/internal/modules/assignment/repository"
	classRepo "henryedu.com/henryplatform/internal/modules/class/repository"
	"henryedu.com/henryplatform/pkg/apperror"
)

type AssignmentService interface {
	ListAssignments(ctx context.Context, caller authz.Caller) ([]*dto.AssignmentView, error)
	GetAssignment(ctx context.Context, caller authz.Caller, assignmentID uuid.UUID) (*dto.AssignmentDetail, error)
	CreateAssignment(ctx context.Context, caller authz.Caller, input dto.CreateAssignmentInput) (*entity.Assignment, error)
	UpdateAssignment(ctx context.Context, caller authz.Caller, assignmentID uuid.UUID, input dto.UpdateAssignmentInput) (*entity.Assignment, error)
	DeleteAssignment(ctx context.Context, caller authz.Caller, assignmentID uuid.UUID) error
	Submit(ctx context.Context, caller authz.Caller, assignmentID uuid.UUID, input dto.SubmitInput) (*entity.Submission, error)
	Grade(ctx context.Context, caller authz.Caller, submissionID uuid.UUID, input dto.GradeInput) (*entity.Submission, error)
	MySubmissions(ctx context.Context, caller authz.Caller, assignmentID uuid.UUID) ([]*entity.Submission, error)
}

type assignmentService struct {
	repo           repository.AssignmentRepository
	submissionRepo repository.SubmissionRepository
	classRepo      classRepo.ClassRepository
}

func NewAssignmentService(
	repo repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	classes classRepo.ClassRepository,
) AssignmentService {
	return &assignmentService{
		repo:           repo,
		submissionRepo: submissions,
		classRepo:      classes,
	}
}

func (s *assignmentService) ListAssignments(ctx context.Context, caller authz.Caller) ([]*dto.AssignmentView, error) {
	var (
		assignments []*entity.Assignment
		err         error
	)

	switch {
	case caller.IsProfessor():
		assignments, err = s.repo.FindByProfessor(ctx, caller.ID)
	case caller.IsAdmin():
		assignments, err = s.repo.FindAll(ctx)
	default:
		var classes []*entity.Class
		classes, err = s.classRepo.FindActive(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, 0, len(classes))
		for _, class := range classes {
			ids = append(ids, class.ID)
		}
		assignments, err = s.repo.FindActiveByClasses(ctx, ids)
	}
	if err != nil {
		return nil, err
	}

	views := make([]*dto.AssignmentView, 0, len(assignments))
	for _, assignment := range assignments {
		view := &dto.AssignmentView{Assignment: assignment}

		if caller.IsStudent() {
			attempts, err := s.submissionRepo.CountAttempts(ctx, assignment.ID, caller.ID)
			if err != nil {
				return nil, err
			}
			view.MyAttempts = &attempts
		} else {
			counts, err := s.submissionRepo.Counts(ctx, assignment.ID)
			if err != nil {
				return nil, err
			}
			view.Submissions = counts
		}

		views = append(views, view)
	}
	return views, nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, caller authz.Caller, assignmentID uuid.UUID) (*dto.AssignmentDetail, error) {
	assignment, err := s.findAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if !authz.CanViewAssignment(caller, assignment) {
		return nil, apperror.ErrForbidden
	}

	detail := &dto.AssignmentDetail{
		AssignmentView: dto.AssignmentView{Assignment: assignment},
	}

	if authz.CanManageAssignment(caller, assignment) || caller.IsAdmin() {
		counts, err := s.submissionRepo.Counts(ctx, assignmentID)
		if err != nil {
			return nil, err
		}
		detail.Submissions = counts

		submissions, err := s.submissionRepo.FindByAssignment(ctx, assignmentID)
		if err != nil {
			return nil, err
		}
		detail.SubmissionList = submissions
	}

	return detail, nil
}

func (s *assignmentService) CreateAssignment(ctx context.Context, caller authz.Caller, input dto.CreateAssignmentInput) (*entity.Assignment, error) {
	classID, err := uuid.Parse(input.ClassID)
	if err != nil {
		return nil, apperror.Invalidf("id de clase inválido")
	}

	class, err := s.classRepo.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if !authz.CanCreateAssignment(caller, class) {
		return nil, apperror.ErrForbidden
	}

	dueDate, err := time.Parse(time.RFC3339, input.DueDate)
	if err != nil {
		return nil, apperror.Invalidf("La fecha límite debe tener formato RFC3339")
	}

	assignment := &entity.Assignment{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Type:        "essay",
		MaxPoints:   100,
		DueDate:     dueDate,
		Status:      entity.AssignmentActive,
		MaxAttempts: 1,
		ClassID:     class.ID,
		ProfessorID: caller.ID,
	}
	if input.Type != "" {
		assignment.Type = input.Type
	}
	if input.MaxPoints != nil {
		if *input.MaxPoints <= 0 {
			return nil, apperror.Invalidf("El puntaje máximo debe ser mayor a cero")
		}
		assignment.MaxPoints = *input.MaxPoints
	}
	if input.AllowLateSubmission != nil {
		assignment.AllowLateSubmission = *input.AllowLateSubmission
	}
	if input.MaxAttempts != nil {
		if *input.MaxAttempts < 1 {
			return nil, apperror.Invalidf("El número de intentos debe ser al menos uno")
		}
		assignment.MaxAttempts = *input.MaxAttempts
	}
	if input.TimeLimit != nil {
		assignment.TimeLimit = input.TimeLimit
	}

	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *assignmentService) UpdateAssignment(ctx context.Context, caller authz.Caller, assignmentID uuid.UUID, input dto.UpdateAssignmentInput) (*entity.Assignment, error) {
	assignment, err := s.findAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManageAssignment(caller, assignment) {
		return nil, apperror.ErrForbidden
	}

	if input.Title != nil {
		assignment.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		assignment.Description = *input.Description
	}
	if input.Type != nil {
		assignment.Type = *input.Type
	}
	if input.MaxPoints != nil {
		if *input.MaxPoints <= 0 {
			return nil, apperror.Invalidf("El puntaje máximo debe ser mayor a cero")
		}
		assignment.MaxPoints = *input.MaxPoints
	}
	if input.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *input.DueDate)
		if err != nil {
			return nil, apperror.Invalidf("La fecha límite debe tener formato RFC3339")
		}
		assignment.DueDate = dueDate
	}
	if input.Status != nil {
		status := entity.AssignmentStatus(strings.ToLower(*input.Status))
		if !status.Valid() {
			return nil, apperror.Invalidf("Estado de tarea inválido")
		}
		assignment.Status = status
	}
	if input.AllowLateSubmission != nil {
		assignment.AllowLateSubmission = *input.AllowLateSubmission
	}
	if input.MaxAttempts != nil {
		if *input.MaxAttempts < 1 {
			return nil, apperror.Invalidf("El número de intentos debe ser al menos uno")
		}
		assignment.MaxAttempts = *input.MaxAttempts
	}
	if input.TimeLimit != nil {
		assignment.TimeLimit = input.TimeLimit
	}

	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, caller authz.Caller, assignmentID uuid.UUID) error {
	assignment, err := s.findAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	if !authz.CanManageAssignment(caller, assignment) {
		return apperror.ErrForbidden
	}

	if err := s.submissionRepo.DeleteByAssignment(ctx, assignmentID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, assignmentID)
}

// Submit runs the lifecycle gates in a fixed order: active status first,
// then the deadline, then the attempt budget.
func (s *assignmentService) Submit(ctx context.Context, caller authz.Caller, assignmentID uuid.UUID, input dto.SubmitInput) (*entity.Submission, error) {
	if !authz.CanSubmit(caller) {
		return nil, apperror.ErrForbidden
	}

	assignment, err := s.findAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if assignment.Status != entity.AssignmentActive {
		return nil, apperror.Conflictf("La tarea no está activa")
	}
	if assignment.Overdue(time.Now()) && !assignment.AllowLateSubmission {
		return nil, apperror.Conflictf("La fecha límite de entrega ha pasado")
	}

	attempts, err := s.submissionRepo.CountAttempts(ctx, assignmentID, caller.ID)
	if err != nil {
		return nil, err
	}
	if attempts >= assignment.MaxAttempts {
		return nil, apperror.Conflictf("Has alcanzado el número máximo de intentos")
	}

	submission := &entity.Submission{
		Content:       input.Content,
		FileURL:       input.FileURL,
		AttemptNumber: attempts + 1,
		Status:        entity.SubmissionSubmitted,
		AssignmentID:  assignmentID,
		StudentID:     caller.ID,
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// Grade accepts re-grading; the newest call wins.
func (s *assignmentService) Grade(ctx context.Context, caller authz.Caller, submissionID uuid.UUID, input dto.GradeInput) (*entity.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	assignment, err := s.findAssignment(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}

	if !authz.CanGrade(caller, assignment) {
		return nil, apperror.ErrForbidden
	}

	if input.Grade == nil || *input.Grade < 0 || *input.Grade > assignment.MaxPoints {
		return nil, apperror.Invalidf("La calificación debe estar entre 0 y el puntaje máximo")
	}

	now := time.Now()
	submission.Grade = input.Grade
	submission.Feedback = input.Feedback
	submission.Status = entity.SubmissionGraded
	submission.GradedAt = &now

	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *assignmentService) MySubmissions(ctx context.Context, caller authz.Caller, assignmentID uuid.UUID) ([]*entity.Submission, error) {
	if !caller.IsStudent() {
		return nil, apperror.ErrForbidden
	}

	if _, err := s.findAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.FindByStudent(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	own := make([]*entity.Submission, 0, len(submissions))
	for _, sub := range submissions {
		if sub.AssignmentID == assignmentID {
			own = append(own, sub)
		}
	}
	return own, nil
}

func (s *assignmentService) findAssignment(ctx context.Context, assignmentID uuid.UUID) (*entity.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return assignment, nil
}
