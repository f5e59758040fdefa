// Package access decides whether an actor may touch a class's records.
// One policy value per role; the guard never branches on role strings
// outside this package.
package access

import (
	"github.com/changhyun152521/tbc-sub001/models"
)

// Actor is the identity the auth middleware established for a request.
type Actor struct {
	UserID    uint
	Role      string
	TeacherID *uint // set for teacher accounts
	StudentID *uint // set for student/parent accounts
}

// IsStaff reports whether the actor is admin or teacher. Staff failures
// surface as Forbidden; student/parent reads outside their roster scope
// surface as NotFound instead (handled at the roster layer).
func (a Actor) IsStaff() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleTeacher
}

type rolePolicy interface {
	canAccess(a Actor, class models.ClassGroup) bool
}

type adminPolicy struct{}

func (adminPolicy) canAccess(Actor, models.ClassGroup) bool { return true }

type teacherPolicy struct{}

func (teacherPolicy) canAccess(a Actor, class models.ClassGroup) bool {
	if a.TeacherID == nil {
		return false
	}
	return class.HasTeacher(*a.TeacherID)
}

// linkedStudentPolicy covers student and parent accounts: access exists
// iff the linked student is a member of the class. These roles normally
// never reach the guard (their class set is pre-restricted via roster),
// but the policy keeps the rule in one place.
type linkedStudentPolicy struct{}

func (linkedStudentPolicy) canAccess(a Actor, class models.ClassGroup) bool {
	if a.StudentID == nil {
		return false
	}
	return class.HasStudent(*a.StudentID)
}

type denyPolicy struct{}

func (denyPolicy) canAccess(Actor, models.ClassGroup) bool { return false }

var policies = map[string]rolePolicy{
	models.RoleAdmin:   adminPolicy{},
	models.RoleTeacher: teacherPolicy{},
	models.RoleStudent: linkedStudentPolicy{},
	models.RoleParent:  linkedStudentPolicy{},
}

// CanAccess reports whether the actor may read or mutate the class's
// records. The class must have its Teachers (and, for student/parent
// actors, Students) preloaded. Unknown roles are denied.
func CanAccess(a Actor, class models.ClassGroup) bool {
	p, ok := policies[a.Role]
	if !ok {
		p = denyPolicy{}
	}
	return p.canAccess(a, class)
}
