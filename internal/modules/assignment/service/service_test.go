package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/authz"
	"henryedu.com/henryplatform/internal/entity"
	"henryedu.com/henryplatform/internal/modules/assignment/dto"
	"henryedu.com/henryplatform/internal/modules/assignment/repository"
	classDto "henryedu.com/henryplatform/internal/modules/class/dto"
	"henryedu.com/henryplatform/pkg/apperror"
)

type stubAssignmentRepo struct {
	assignments map[uuid.UUID]*entity.Assignment
}

func newStubAssignmentRepo() *stubAssignmentRepo {
	return &stubAssignmentRepo{assignments: make(map[uuid.UUID]*entity.Assignment)}
}

func (r *stubAssignmentRepo) Create(_ context.Context, a *entity.Assignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.assignments[a.ID] = a
	return nil
}

func (r *stubAssignmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Assignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAssignmentRepo) FindAll(_ context.Context) ([]*entity.Assignment, error) {
	out := make([]*entity.Assignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		out = append(out, a)
	}
	return out, nil
}

func (r *stubAssignmentRepo) FindByProfessor(_ context.Context, professorID uuid.UUID) ([]*entity.Assignment, error) {
	var out []*entity.Assignment
	for _, a := range r.assignments {
		if a.ProfessorID == professorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) FindByClass(_ context.Context, classID uuid.UUID, limit int) ([]*entity.Assignment, error) {
	var out []*entity.Assignment
	for _, a := range r.assignments {
		if a.ClassID == classID {
			out = append(out, a)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubAssignmentRepo) FindActiveByClasses(_ context.Context, classIDs []uuid.UUID) ([]*entity.Assignment, error) {
	ids := make(map[uuid.UUID]struct{}, len(classIDs))
	for _, id := range classIDs {
		ids[id] = struct{}{}
	}
	var out []*entity.Assignment
	for _, a := range r.assignments {
		if _, ok := ids[a.ClassID]; ok && a.Status == entity.AssignmentActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) Update(_ context.Context, a *entity.Assignment) error {
	r.assignments[a.ID] = a
	return nil
}

func (r *stubAssignmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.assignments, id)
	return nil
}

func (r *stubAssignmentRepo) DeleteByClass(_ context.Context, classID uuid.UUID) error {
	for id, a := range r.assignments {
		if a.ClassID == classID {
			delete(r.assignments, id)
		}
	}
	return nil
}

type stubSubmissionRepo struct {
	submissions map[uuid.UUID]*entity.Submission
}

func newStubSubmissionRepo() *stubSubmissionRepo {
	return &stubSubmissionRepo{submissions: make(map[uuid.UUID]*entity.Submission)}
}

func (r *stubSubmissionRepo) Create(_ context.Context, s *entity.Submission) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.submissions[s.ID] = s
	return nil
}

func (r *stubSubmissionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Submission, error) {
	s, ok := r.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSubmissionRepo) FindByAssignment(_ context.Context, assignmentID uuid.UUID) ([]*entity.Submission, error) {
	var out []*entity.Submission
	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSubmissionRepo) FindByStudent(_ context.Context, studentID uuid.UUID) ([]*entity.Submission, error) {
	var out []*entity.Submission
	for _, s := range r.submissions {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSubmissionRepo) CountAttempts(_ context.Context, assignmentID, studentID uuid.UUID) (int, error) {
	count := 0
	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (r *stubSubmissionRepo) Counts(_ context.Context, assignmentID uuid.UUID) (*repository.SubmissionCounts, error) {
	counts := &repository.SubmissionCounts{}
	for _, s := range r.submissions {
		if s.AssignmentID != assignmentID {
			continue
		}
		counts.Total++
		if s.Status == entity.SubmissionGraded {
			counts.Graded++
		}
	}
	return counts, nil
}

func (r *stubSubmissionRepo) Update(_ context.Context, s *entity.Submission) error {
	r.submissions[s.ID] = s
	return nil
}

func (r *stubSubmissionRepo) DeleteByAssignment(_ context.Context, assignmentID uuid.UUID) error {
	for id, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			delete(r.submissions, id)
		}
	}
	return nil
}

func (r *stubSubmissionRepo) DeleteByClass(_ context.Context, _ uuid.UUID) error {
	return nil
}

type stubClassRepo struct {
	classes map[uuid.UUID]*entity.Class
}

func newStubClassRepo() *stubClassRepo {
	return &stubClassRepo{classes: make(map[uuid.UUID]*entity.Class)}
}

func (r *stubClassRepo) Create(_ context.Context, class *entity.Class) error {
	if class.ID == uuid.Nil {
		class.ID = uuid.New()
	}
	r.classes[class.ID] = class
	return nil
}

func (r *stubClassRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Class, error) {
	class, ok := r.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return class, nil
}

func (r *stubClassRepo) FindAll(_ context.Context) ([]*entity.Class, error) {
	out := make([]*entity.Class, 0, len(r.classes))
	for _, class := range r.classes {
		out = append(out, class)
	}
	return out, nil
}

func (r *stubClassRepo) FindActive(ctx context.Context) ([]*entity.Class, error) {
	all, _ := r.FindAll(ctx)
	var active []*entity.Class
	for _, class := range all {
		if class.Status == entity.ClassActive {
			active = append(active, class)
		}
	}
	return active, nil
}

func (r *stubClassRepo) FindByProfessor(ctx context.Context, professorID uuid.UUID) ([]*entity.Class, error) {
	all, _ := r.FindAll(ctx)
	var own []*entity.Class
	for _, class := range all {
		if class.ProfessorID == professorID {
			own = append(own, class)
		}
	}
	return own, nil
}

func (r *stubClassRepo) Update(_ context.Context, class *entity.Class) error {
	r.classes[class.ID] = class
	return nil
}

func (r *stubClassRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.classes, id)
	return nil
}

func (r *stubClassRepo) IncrementEnrollment(_ context.Context, id uuid.UUID) (bool, error) {
	class, ok := r.classes[id]
	if !ok || class.Status != entity.ClassActive || class.EnrolledCount >= class.Capacity {
		return false, nil
	}
	class.EnrolledCount++
	return true, nil
}

func (r *stubClassRepo) DecrementEnrollment(_ context.Context, id uuid.UUID) (bool, error) {
	class, ok := r.classes[id]
	if !ok || class.EnrolledCount <= 0 {
		return false, nil
	}
	class.EnrolledCount--
	return true, nil
}

func (r *stubClassRepo) Stats(_ context.Context) (*classDto.ClassStats, error) {
	return &classDto.ClassStats{}, nil
}

type assignmentFixture struct {
	svc         AssignmentService
	assignments *stubAssignmentRepo
	submissions *stubSubmissionRepo
	classes     *stubClassRepo
	professor   authz.Caller
	student     authz.Caller
	class       *entity.Class
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()

	assignments := newStubAssignmentRepo()
	submissions := newStubSubmissionRepo()
	classes := newStubClassRepo()

	professor := authz.Caller{ID: uuid.New(), Role: entity.RoleProfessor}
	student := authz.Caller{ID: uuid.New(), Role: entity.RoleStudent}

	class := &entity.Class{
		Name: "Química", Subject: "Química", Capacity: 30,
		Status: entity.ClassActive, ProfessorID: professor.ID,
	}
	require.NoError(t, classes.Create(context.Background(), class))

	return &assignmentFixture{
		svc:         NewAssignmentService(assignments, submissions, classes),
		assignments: assignments,
		submissions: submissions,
		classes:     classes,
		professor:   professor,
		student:     student,
		class:       class,
	}
}

func (f *assignmentFixture) createAssignment(t *testing.T, mutate func(*entity.Assignment)) *entity.Assignment {
	t.Helper()

	assignment := &entity.Assignment{
		Title:       "Ensayo final",
		Type:        "essay",
		MaxPoints:   100,
		DueDate:     time.Now().Add(48 * time.Hour),
		Status:      entity.AssignmentActive,
		MaxAttempts: 1,
		ClassID:     f.class.ID,
		ProfessorID: f.professor.ID,
	}
	if mutate != nil {
		mutate(assignment)
	}
	require.NoError(t, f.assignments.Create(context.Background(), assignment))
	return assignment
}

func TestCreateAssignmentDefaults(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	due := time.Now().Add(72 * time.Hour).Format(time.RFC3339)
	assignment, err := f.svc.CreateAssignment(ctx, f.professor, dto.CreateAssignmentInput{
		Title:   "Tarea 1",
		DueDate: due,
		ClassID: f.class.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "essay", assignment.Type)
	assert.Equal(t, float64(100), assignment.MaxPoints)
	assert.Equal(t, 1, assignment.MaxAttempts)
	assert.Equal(t, entity.AssignmentActive, assignment.Status)
}

func TestCreateAssignmentValidation(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	due := time.Now().Add(time.Hour).Format(time.RFC3339)

	_, err := f.svc.CreateAssignment(ctx, f.professor, dto.CreateAssignmentInput{
		Title: "X", DueDate: "mañana", ClassID: f.class.ID.String(),
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	negative := -5.0
	_, err = f.svc.CreateAssignment(ctx, f.professor, dto.CreateAssignmentInput{
		Title: "X", DueDate: due, ClassID: f.class.ID.String(), MaxPoints: &negative,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	zero := 0
	_, err = f.svc.CreateAssignment(ctx, f.professor, dto.CreateAssignmentInput{
		Title: "X", DueDate: due, ClassID: f.class.ID.String(), MaxAttempts: &zero,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	other := authz.Caller{ID: uuid.New(), Role: entity.RoleProfessor}
	_, err = f.svc.CreateAssignment(ctx, other, dto.CreateAssignmentInput{
		Title: "X", DueDate: due, ClassID: f.class.ID.String(),
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSubmitGateOrder(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	// Inactive wins over everything else, even with the deadline long past.
	closed := f.createAssignment(t, func(a *entity.Assignment) {
		a.Status = entity.AssignmentClosed
		a.DueDate = time.Now().Add(-24 * time.Hour)
	})
	_, err := f.svc.Submit(ctx, f.student, closed.ID, dto.SubmitInput{Content: "tarde"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no está activa")

	// Overdue without late submissions allowed.
	overdue := f.createAssignment(t, func(a *entity.Assignment) {
		a.DueDate = time.Now().Add(-time.Hour)
	})
	_, err = f.svc.Submit(ctx, f.student, overdue.ID, dto.SubmitInput{Content: "tarde"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fecha límite")

	// Overdue but late submissions allowed goes through.
	lateOK := f.createAssignment(t, func(a *entity.Assignment) {
		a.DueDate = time.Now().Add(-time.Hour)
		a.AllowLateSubmission = true
	})
	submission, err := f.svc.Submit(ctx, f.student, lateOK.ID, dto.SubmitInput{Content: "tarde pero válida"})
	require.NoError(t, err)
	assert.Equal(t, 1, submission.AttemptNumber)
}

func TestSubmitAttemptBudget(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	assignment := f.createAssignment(t, func(a *entity.Assignment) {
		a.MaxAttempts = 2
	})

	first, err := f.svc.Submit(ctx, f.student, assignment.ID, dto.SubmitInput{Content: "v1"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.Equal(t, entity.SubmissionSubmitted, first.Status)

	second, err := f.svc.Submit(ctx, f.student, assignment.ID, dto.SubmitInput{Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)

	_, err = f.svc.Submit(ctx, f.student, assignment.ID, dto.SubmitInput{Content: "v3"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// A different student still has their own budget.
	other := authz.Caller{ID: uuid.New(), Role: entity.RoleStudent}
	theirs, err := f.svc.Submit(ctx, other, assignment.ID, dto.SubmitInput{Content: "v1"})
	require.NoError(t, err)
	assert.Equal(t, 1, theirs.AttemptNumber)
}

func TestSubmitRequiresStudent(t *testing.T) {
	f := newAssignmentFixture(t)

	assignment := f.createAssignment(t, nil)

	_, err := f.svc.Submit(context.Background(), f.professor, assignment.ID, dto.SubmitInput{Content: "x"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestGrade(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	assignment := f.createAssignment(t, func(a *entity.Assignment) {
		a.MaxPoints = 50
	})
	submission, err := f.svc.Submit(ctx, f.student, assignment.ID, dto.SubmitInput{Content: "mi entrega"})
	require.NoError(t, err)

	tooHigh := 51.0
	_, err = f.svc.Grade(ctx, f.professor, submission.ID, dto.GradeInput{Grade: &tooHigh})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	negative := -1.0
	_, err = f.svc.Grade(ctx, f.professor, submission.ID, dto.GradeInput{Grade: &negative})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	grade := 45.0
	graded, err := f.svc.Grade(ctx, f.professor, submission.ID, dto.GradeInput{
		Grade: &grade, Feedback: "Buen trabajo",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionGraded, graded.Status)
	assert.Equal(t, 45.0, *graded.Grade)
	assert.Equal(t, "Buen trabajo", graded.Feedback)
	assert.NotNil(t, graded.GradedAt)

	// Re-grading is last write wins.
	regrade := 30.0
	graded, err = f.svc.Grade(ctx, f.professor, submission.ID, dto.GradeInput{
		Grade: &regrade, Feedback: "Revisado de nuevo",
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, *graded.Grade)
	assert.Equal(t, "Revisado de nuevo", graded.Feedback)
}

func TestGradeOwnerOnly(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	assignment := f.createAssignment(t, nil)
	submission, err := f.svc.Submit(ctx, f.student, assignment.ID, dto.SubmitInput{Content: "x"})
	require.NoError(t, err)

	grade := 80.0
	other := authz.Caller{ID: uuid.New(), Role: entity.RoleProfessor}
	_, err = f.svc.Grade(ctx, other, submission.ID, dto.GradeInput{Grade: &grade})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	admin := authz.Caller{ID: uuid.New(), Role: entity.RoleAdmin}
	_, err = f.svc.Grade(ctx, admin, submission.ID, dto.GradeInput{Grade: &grade})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestMySubmissions(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	assignment := f.createAssignment(t, func(a *entity.Assignment) { a.MaxAttempts = 3 })
	otherAssignment := f.createAssignment(t, nil)

	_, err := f.svc.Submit(ctx, f.student, assignment.ID, dto.SubmitInput{Content: "a"})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.student, assignment.ID, dto.SubmitInput{Content: "b"})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.student, otherAssignment.ID, dto.SubmitInput{Content: "c"})
	require.NoError(t, err)

	own, err := f.svc.MySubmissions(ctx, f.student, assignment.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	_, err = f.svc.MySubmissions(ctx, f.professor, assignment.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestDeleteAssignmentRemovesSubmissions(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	assignment := f.createAssignment(t, nil)
	_, err := f.svc.Submit(ctx, f.student, assignment.ID, dto.SubmitInput{Content: "x"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAssignment(ctx, f.professor, assignment.ID))
	assert.Empty(t, f.submissions.submissions)
	assert.NotContains(t, f.assignments.assignments, assignment.ID)
}

func TestListAssignmentsByRole(t *testing.T) {
	f := newAssignmentFixture(t)
	ctx := context.Background()

	active := f.createAssignment(t, nil)
	f.createAssignment(t, func(a *entity.Assignment) { a.Status = entity.AssignmentDraft })

	_, err := f.svc.Submit(ctx, f.student, active.ID, dto.SubmitInput{Content: "x"})
	require.NoError(t, err)

	// Students see only active assignments of active classes, with their
	// own attempt count attached.
	views, err := f.svc.ListAssignments(ctx, f.student)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].MyAttempts)
	assert.Equal(t, 1, *views[0].MyAttempts)
	assert.Nil(t, views[0].Submissions)

	// The professor sees both with submission counts.
	views, err = f.svc.ListAssignments(ctx, f.professor)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, view := range views {
		assert.NotNil(t, view.Submissions)
	}
}
