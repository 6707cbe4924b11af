package service

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/authz"
	"henryedu.com/henryplatform/internal/entity"
	assignmentRepo "henryedu.com/henryplatform/internal/modules/assignment/repository"
	"henryedu.com/henryplatform/internal/modules/class/dto"
	userRepo "henryedu.com/henryplatform/internal/modules/user/repository"
	"henryedu.com/henryplatform/pkg/apperror"
)

type fakeClassRepo struct {
	classes map[uuid.UUID]*entity.Class
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{classes: make(map[uuid.UUID]*entity.Class)}
}

func (r *fakeClassRepo) Create(_ context.Context, class *entity.Class) error {
	if class.ID == uuid.Nil {
		class.ID = uuid.New()
	}
	copied := *class
	r.classes[class.ID] = &copied
	return nil
}

func (r *fakeClassRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Class, error) {
	class, ok := r.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *class
	return &copied, nil
}

func (r *fakeClassRepo) FindAll(_ context.Context) ([]*entity.Class, error) {
	out := make([]*entity.Class, 0, len(r.classes))
	for _, class := range r.classes {
		copied := *class
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeClassRepo) FindActive(ctx context.Context) ([]*entity.Class, error) {
	all, _ := r.FindAll(ctx)
	active := all[:0]
	for _, class := range all {
		if class.Status == entity.ClassActive {
			active = append(active, class)
		}
	}
	return active, nil
}

func (r *fakeClassRepo) FindByProfessor(ctx context.Context, professorID uuid.UUID) ([]*entity.Class, error) {
	all, _ := r.FindAll(ctx)
	own := all[:0]
	for _, class := range all {
		if class.ProfessorID == professorID {
			own = append(own, class)
		}
	}
	return own, nil
}

func (r *fakeClassRepo) Update(_ context.Context, class *entity.Class) error {
	copied := *class
	r.classes[class.ID] = &copied
	return nil
}

func (r *fakeClassRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.classes, id)
	return nil
}

// IncrementEnrollment mirrors the conditional update of the real store: the
// seat is taken only while a seat exists and the class is active.
func (r *fakeClassRepo) IncrementEnrollment(_ context.Context, id uuid.UUID) (bool, error) {
	class, ok := r.classes[id]
	if !ok || class.Status != entity.ClassActive || class.EnrolledCount >= class.Capacity {
		return false, nil
	}
	class.EnrolledCount++
	return true, nil
}

func (r *fakeClassRepo) DecrementEnrollment(_ context.Context, id uuid.UUID) (bool, error) {
	class, ok := r.classes[id]
	if !ok || class.EnrolledCount <= 0 {
		return false, nil
	}
	class.EnrolledCount--
	return true, nil
}

func (r *fakeClassRepo) Stats(_ context.Context) (*dto.ClassStats, error) {
	stats := &dto.ClassStats{}
	for _, class := range r.classes {
		stats.TotalClasses++
		if class.Status == entity.ClassActive {
			stats.ActiveClasses++
		}
		stats.TotalEnrollments += int64(class.EnrolledCount)
		stats.TotalCapacity += int64(class.Capacity)
	}
	return stats, nil
}

type fakeMaterialRepo struct {
	materials map[uuid.UUID]*entity.Material
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: make(map[uuid.UUID]*entity.Material)}
}

func (r *fakeMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Material, error) {
	m, ok := r.materials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *fakeMaterialRepo) FindAll(_ context.Context) ([]*entity.Material, error) {
	out := make([]*entity.Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMaterialRepo) FindByUploader(_ context.Context, uploaderID uuid.UUID) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.materials {
		if m.UploadedBy == uploaderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) FindByClass(_ context.Context, classID uuid.UUID, limit int) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.materials {
		if m.ClassID == classID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMaterialRepo) FindPublicByClasses(_ context.Context, classIDs []uuid.UUID) ([]*entity.Material, error) {
	ids := make(map[uuid.UUID]struct{}, len(classIDs))
	for _, id := range classIDs {
		ids[id] = struct{}{}
	}
	var out []*entity.Material
	for _, m := range r.materials {
		if _, ok := ids[m.ClassID]; ok && m.IsPublic {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMaterialRepo) Update(_ context.Context, m *entity.Material) error {
	r.materials[m.ID] = m
	return nil
}

func (r *fakeMaterialRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.materials, id)
	return nil
}

func (r *fakeMaterialRepo) DeleteByClass(_ context.Context, classID uuid.UUID) error {
	for id, m := range r.materials {
		if m.ClassID == classID {
			delete(r.materials, id)
		}
	}
	return nil
}

func (r *fakeMaterialRepo) AddDownloads(_ context.Context, id uuid.UUID, delta int) error {
	if m, ok := r.materials[id]; ok {
		m.DownloadCount += delta
	}
	return nil
}

type fakeAssignmentRepo struct {
	assignments map[uuid.UUID]*entity.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[uuid.UUID]*entity.Assignment)}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *entity.Assignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.assignments[a.ID] = a
	return nil
}

func (r *fakeAssignmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Assignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeAssignmentRepo) FindAll(_ context.Context) ([]*entity.Assignment, error) {
	out := make([]*entity.Assignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAssignmentRepo) FindByProfessor(_ context.Context, professorID uuid.UUID) ([]*entity.Assignment, error) {
	var out []*entity.Assignment
	for _, a := range r.assignments {
		if a.ProfessorID == professorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) FindByClass(_ context.Context, classID uuid.UUID, limit int) ([]*entity.Assignment, error) {
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

func (r *fakeAssignmentRepo) FindActiveByClasses(_ context.Context, classIDs []uuid.UUID) ([]*entity.Assignment, error) {
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

func (r *fakeAssignmentRepo) Update(_ context.Context, a *entity.Assignment) error {
	r.assignments[a.ID] = a
	return nil
}

func (r *fakeAssignmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.assignments, id)
	return nil
}

func (r *fakeAssignmentRepo) DeleteByClass(_ context.Context, classID uuid.UUID) error {
	for id, a := range r.assignments {
		if a.ClassID == classID {
			delete(r.assignments, id)
		}
	}
	return nil
}

type fakeSubmissionRepo struct {
	submissions map[uuid.UUID]*entity.Submission
	assignments *fakeAssignmentRepo
}

func newFakeSubmissionRepo(assignments *fakeAssignmentRepo) *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		submissions: make(map[uuid.UUID]*entity.Submission),
		assignments: assignments,
	}
}

func (r *fakeSubmissionRepo) Create(_ context.Context, s *entity.Submission) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.submissions[s.ID] = s
	return nil
}

func (r *fakeSubmissionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Submission, error) {
	s, ok := r.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeSubmissionRepo) FindByAssignment(_ context.Context, assignmentID uuid.UUID) ([]*entity.Submission, error) {
	var out []*entity.Submission
	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) FindByStudent(_ context.Context, studentID uuid.UUID) ([]*entity.Submission, error) {
	var out []*entity.Submission
	for _, s := range r.submissions {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) CountAttempts(_ context.Context, assignmentID, studentID uuid.UUID) (int, error) {
	count := 0
	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID && s.StudentID == studentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubmissionRepo) Counts(_ context.Context, assignmentID uuid.UUID) (*assignmentRepo.SubmissionCounts, error) {
	counts := &assignmentRepo.SubmissionCounts{}
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

func (r *fakeSubmissionRepo) Update(_ context.Context, s *entity.Submission) error {
	r.submissions[s.ID] = s
	return nil
}

func (r *fakeSubmissionRepo) DeleteByAssignment(_ context.Context, assignmentID uuid.UUID) error {
	for id, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			delete(r.submissions, id)
		}
	}
	return nil
}

func (r *fakeSubmissionRepo) DeleteByClass(ctx context.Context, classID uuid.UUID) error {
	for _, a := range r.assignments.assignments {
		if a.ClassID == classID {
			if err := r.DeleteByAssignment(ctx, a.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	u, ok := r.users[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) NamesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			names[id] = u.FullName
		}
	}
	return names, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Stats(_ context.Context) (*userRepo.RoleStats, error) {
	return &userRepo.RoleStats{}, nil
}

type fakeSearch struct {
	indexedClasses   map[string]bool
	indexedMaterials map[string]bool
	deletedClasses   []string
	deletedMaterials []string
}

func newFakeSearch() *fakeSearch {
	return &fakeSearch{
		indexedClasses:   make(map[string]bool),
		indexedMaterials: make(map[string]bool),
	}
}

func (s *fakeSearch) IndexClass(class *entity.Class, _ string) error {
	s.indexedClasses[class.ID.String()] = true
	return nil
}

func (s *fakeSearch) IndexMaterial(m *entity.Material, _ string) error {
	s.indexedMaterials[m.ID.String()] = true
	return nil
}

func (s *fakeSearch) DeleteClass(id string) error {
	s.deletedClasses = append(s.deletedClasses, id)
	return nil
}

func (s *fakeSearch) DeleteMaterial(id string) error {
	s.deletedMaterials = append(s.deletedMaterials, id)
	return nil
}

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) UploadFile(_ context.Context, _ io.Reader, folder, fileName string) (string, error) {
	return "https://files.example/" + folder + "/" + fileName, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type classFixture struct {
	svc         ClassService
	classes     *fakeClassRepo
	materials   *fakeMaterialRepo
	assignments *fakeAssignmentRepo
	submissions *fakeSubmissionRepo
	users       *fakeUserRepo
	search      *fakeSearch
	storage     *fakeStorage
	professor   authz.Caller
	student     authz.Caller
}

func newClassFixture(t *testing.T) *classFixture {
	t.Helper()

	classes := newFakeClassRepo()
	materials := newFakeMaterialRepo()
	assignments := newFakeAssignmentRepo()
	submissions := newFakeSubmissionRepo(assignments)
	users := newFakeUserRepo()
	search := newFakeSearch()
	store := &fakeStorage{}

	professor := &entity.User{FullName: "Dr. María González", Role: entity.RoleProfessor, Email: "p@henry.edu"}
	student := &entity.User{FullName: "Juan Carlos Pérez", Role: entity.RoleStudent, Email: "e@henry.edu"}
	require.NoError(t, users.Create(context.Background(), professor))
	require.NoError(t, users.Create(context.Background(), student))

	return &classFixture{
		svc:         NewClassService(classes, materials, assignments, submissions, users, search, store),
		classes:     classes,
		materials:   materials,
		assignments: assignments,
		submissions: submissions,
		users:       users,
		search:      search,
		storage:     store,
		professor:   authz.Caller{ID: professor.ID, Role: entity.RoleProfessor},
		student:     authz.Caller{ID: student.ID, Role: entity.RoleStudent},
	}
}

func (f *classFixture) createClass(t *testing.T, capacity int) *dto.ClassView {
	t.Helper()
	view, err := f.svc.CreateClass(context.Background(), f.professor, dto.CreateClassInput{
		Name:     "Matemáticas I",
		Subject:  "Matemáticas",
		Semester: "2026-1",
		Capacity: &capacity,
	})
	require.NoError(t, err)
	return view
}

func TestCreateClassDefaults(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	view, err := f.svc.CreateClass(ctx, f.professor, dto.CreateClassInput{
		Name:    "Física",
		Subject: "Física",
	})
	require.NoError(t, err)
	assert.Equal(t, 30, view.Capacity)
	assert.Equal(t, entity.ClassActive, view.Status)
	assert.Equal(t, "Dr. María González", view.ProfessorName)
	assert.True(t, view.CanEnroll)
	assert.True(t, f.search.indexedClasses[view.ID.String()])
}

func TestCreateClassValidation(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	zero := 0
	_, err := f.svc.CreateClass(ctx, f.professor, dto.CreateClassInput{
		Name: "X", Subject: "X", Capacity: &zero,
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = f.svc.CreateClass(ctx, f.student, dto.CreateClassInput{Name: "X", Subject: "X"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestEnrollCapacityExhausted(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	view := f.createClass(t, 1)

	enrolled, err := f.svc.Enroll(ctx, f.student, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, enrolled.EnrolledCount)
	assert.False(t, enrolled.CanEnroll)

	_, err = f.svc.Enroll(ctx, f.student, view.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 1, f.classes.classes[view.ID].EnrolledCount)
}

func TestEnrollRequiresStudent(t *testing.T) {
	f := newClassFixture(t)

	view := f.createClass(t, 10)

	_, err := f.svc.Enroll(context.Background(), f.professor, view.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestUnenrollFloorsAtZero(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	view := f.createClass(t, 5)

	_, err := f.svc.Unenroll(ctx, f.student, view.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = f.svc.Enroll(ctx, f.student, view.ID)
	require.NoError(t, err)

	after, err := f.svc.Unenroll(ctx, f.student, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.EnrolledCount)
}

func TestUpdateClassStatusValidation(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	view := f.createClass(t, 10)

	bad := "archived"
	_, err := f.svc.UpdateClass(ctx, f.professor, view.ID, dto.UpdateClassInput{Status: &bad})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	completed := "completed"
	updated, err := f.svc.UpdateClass(ctx, f.professor, view.ID, dto.UpdateClassInput{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, entity.ClassCompleted, updated.Status)
}

func TestDeleteClassCascades(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	view := f.createClass(t, 10)

	fileURL := "https://files.example/materials/tema1.pdf"
	material := &entity.Material{
		Name: "Tema 1", Type: entity.MaterialPDF, FileURL: &fileURL,
		ClassID: view.ID, UploadedBy: f.professor.ID, IsPublic: true,
	}
	require.NoError(t, f.materials.Create(ctx, material))

	assignment := &entity.Assignment{
		Title: "Tarea 1", ClassID: view.ID, ProfessorID: f.professor.ID,
		Status: entity.AssignmentActive,
	}
	require.NoError(t, f.assignments.Create(ctx, assignment))

	submission := &entity.Submission{
		AssignmentID: assignment.ID, StudentID: f.student.ID,
		Status: entity.SubmissionSubmitted, AttemptNumber: 1,
	}
	require.NoError(t, f.submissions.Create(ctx, submission))

	require.NoError(t, f.svc.DeleteClass(ctx, f.professor, view.ID))

	assert.Empty(t, f.classes.classes)
	assert.Empty(t, f.materials.materials)
	assert.Empty(t, f.assignments.assignments)
	assert.Empty(t, f.submissions.submissions)
	assert.Contains(t, f.storage.deleted, fileURL)
	assert.Contains(t, f.search.deletedClasses, view.ID.String())
	assert.Contains(t, f.search.deletedMaterials, material.ID.String())
}

func TestDeleteClassOwnerOnly(t *testing.T) {
	f := newClassFixture(t)

	view := f.createClass(t, 10)

	other := authz.Caller{ID: uuid.New(), Role: entity.RoleProfessor}
	err := f.svc.DeleteClass(context.Background(), other, view.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestStudentsSeeOnlyPublicMaterials(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	view := f.createClass(t, 10)

	public := &entity.Material{Name: "Público", Type: entity.MaterialPDF, ClassID: view.ID, UploadedBy: f.professor.ID, IsPublic: true}
	private := &entity.Material{Name: "Privado", Type: entity.MaterialPDF, ClassID: view.ID, UploadedBy: f.professor.ID, IsPublic: false}
	require.NoError(t, f.materials.Create(ctx, public))
	require.NoError(t, f.materials.Create(ctx, private))

	detail, err := f.svc.GetClass(ctx, f.student, view.ID)
	require.NoError(t, err)
	require.Len(t, detail.Materials, 1)
	assert.Equal(t, "Público", detail.Materials[0].Name)

	detail, err = f.svc.GetClass(ctx, f.professor, view.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Materials, 2)
}

func TestStatsByRole(t *testing.T) {
	f := newClassFixture(t)
	ctx := context.Background()

	view := f.createClass(t, 10)
	_, err := f.svc.Enroll(ctx, f.student, view.ID)
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx, f.professor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalClasses)
	assert.Equal(t, int64(1), stats.ActiveClasses)
	assert.Equal(t, int64(1), stats.TotalEnrollments)
	assert.Equal(t, int64(10), stats.TotalCapacity)

	_, err = f.svc.Stats(ctx, f.student)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestGetClassNotFound(t *testing.T) {
	f := newClassFixture(t)

	_, err := f.svc.GetClass(context.Background(), f.professor, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
