package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/changhyun152521/tbc-sub001/models"
)

func uintPtr(v uint) *uint { return &v }

func classWith(teacherIDs []uint, studentIDs []uint) models.ClassGroup {
	c := models.ClassGroup{ID: 1, Name: "Algebra A"}
	for i, id := range teacherIDs {
		c.Teachers = append(c.Teachers, models.ClassTeacher{ClassGroupID: 1, TeacherID: id, Position: i})
	}
	for _, id := range studentIDs {
		c.Students = append(c.Students, models.ClassStudent{ClassGroupID: 1, StudentID: id})
	}
	return c
}

func TestAdminAlwaysAllowed(t *testing.T) {
	actor := Actor{UserID: 1, Role: models.RoleAdmin}
	assert.True(t, CanAccess(actor, classWith(nil, nil)))
	assert.True(t, CanAccess(actor, classWith([]uint{9}, []uint{3})))
}

func TestTeacherNeedsMembershipInTeacherSet(t *testing.T) {
	class := classWith([]uint{7, 8}, nil)

	member := Actor{UserID: 2, Role: models.RoleTeacher, TeacherID: uintPtr(8)}
	assert.True(t, CanAccess(member, class))

	outsider := Actor{UserID: 3, Role: models.RoleTeacher, TeacherID: uintPtr(99)}
	assert.False(t, CanAccess(outsider, class))

	unlinked := Actor{UserID: 4, Role: models.RoleTeacher}
	assert.False(t, CanAccess(unlinked, class))
}

func TestStudentAndParentScopedByLinkedStudent(t *testing.T) {
	class := classWith([]uint{7}, []uint{21, 22})

	student := Actor{UserID: 5, Role: models.RoleStudent, StudentID: uintPtr(21)}
	assert.True(t, CanAccess(student, class))

	parent := Actor{UserID: 6, Role: models.RoleParent, StudentID: uintPtr(22)}
	assert.True(t, CanAccess(parent, class))

	stranger := Actor{UserID: 7, Role: models.RoleStudent, StudentID: uintPtr(40)}
	assert.False(t, CanAccess(stranger, class))

	unlinked := Actor{UserID: 8, Role: models.RoleParent}
	assert.False(t, CanAccess(unlinked, class))
}

func TestUnknownRoleDenied(t *testing.T) {
	actor := Actor{UserID: 9, Role: "superuser"}
	assert.False(t, CanAccess(actor, classWith([]uint{1}, []uint{2})))
}

func TestIsStaff(t *testing.T) {
	assert.True(t, Actor{Role: models.RoleAdmin}.IsStaff())
	assert.True(t, Actor{Role: models.RoleTeacher}.IsStaff())
	assert.False(t, Actor{Role: models.RoleStudent}.IsStaff())
	assert.False(t, Actor{Role: models.RoleParent}.IsStaff())
}
