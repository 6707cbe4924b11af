// Package authz centralizes every role-and-ownership predicate of the
// platform. Handlers resolve the caller once and services pass it in
// explicitly; no predicate reads ambient request state.
package authz

import (
	"github.com/google/uuid"
	"henryedu.com/henryplatform/internal/entity"
)

// Caller is the resolved authenticated user a predicate is evaluated for.
type Caller struct {
	ID   uuid.UUID
	Role entity.Role
}

func NewCaller(u *entity.User) Caller {
	return Caller{ID: u.ID, Role: u.Role}
}

func (c Caller) IsAdmin() bool     { return c.Role == entity.RoleAdmin }
func (c Caller) IsProfessor() bool { return c.Role == entity.RoleProfessor }
func (c Caller) IsStudent() bool   { return c.Role == entity.RoleStudent }

// CanCreateClass reports whether the caller may create classes.
func CanCreateClass(c Caller) bool { return c.IsProfessor() }

// CanManageClass covers update and delete: owning professor only.
func CanManageClass(c Caller, class *entity.Class) bool {
	return c.IsProfessor() && class.ProfessorID == c.ID
}

// CanViewClass: owner, admin, or (for students) any active class.
func CanViewClass(c Caller, class *entity.Class) bool {
	if c.IsAdmin() {
		return true
	}
	if c.IsProfessor() {
		return class.ProfessorID == c.ID
	}
	return true // students browse the catalog; write paths stay guarded
}

// CanEnroll: students only. Capacity and status checks live in the service.
func CanEnroll(c Caller) bool { return c.IsStudent() }

// CanUploadMaterial: professor owning the target class.
func CanUploadMaterial(c Caller, class *entity.Class) bool {
	return c.IsProfessor() && class.ProfessorID == c.ID
}

// CanEditMaterial covers update and delete: the uploader only.
func CanEditMaterial(c Caller, m *entity.Material) bool {
	return m.UploadedBy == c.ID
}

// CanViewMaterial: public materials are open; private ones are restricted
// to the uploader and admins.
func CanViewMaterial(c Caller, m *entity.Material) bool {
	if m.IsPublic {
		return true
	}
	return c.IsAdmin() || m.UploadedBy == c.ID
}

// CanCreateAssignment: professor owning the target class.
func CanCreateAssignment(c Caller, class *entity.Class) bool {
	return c.IsProfessor() && class.ProfessorID == c.ID
}

// CanManageAssignment covers update and delete: owning professor only.
func CanManageAssignment(c Caller, a *entity.Assignment) bool {
	return c.IsProfessor() && a.ProfessorID == c.ID
}

// CanViewAssignment: owner, admin, or (for students) any assignment;
// the role-specific list views narrow what students actually see.
func CanViewAssignment(c Caller, a *entity.Assignment) bool {
	if c.IsAdmin() || c.IsStudent() {
		return true
	}
	return a.ProfessorID == c.ID
}

// CanSubmit: students only. Lifecycle checks (active, overdue, attempts)
// live in the service.
func CanSubmit(c Caller) bool { return c.IsStudent() }

// CanGrade: professor owning the submission's parent assignment.
func CanGrade(c Caller, a *entity.Assignment) bool {
	return c.IsProfessor() && a.ProfessorID == c.ID
}

// CanManagePresentation covers read detail, update and delete: author only.
func CanManagePresentation(c Caller, p *entity.Presentation) bool {
	return p.AuthorID == c.ID
}

// SelfOrAdmin: profile read/update on a user record.
func SelfOrAdmin(c Caller, userID uuid.UUID) bool {
	return c.IsAdmin() || c.ID == userID
}

// CanChangeRole: role and active-flag mutation is admin only.
func CanChangeRole(c Caller) bool { return c.IsAdmin() }
