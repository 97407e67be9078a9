package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/examdesk/examdesk-core/internal/domain/identity"
)

func requests() []Request {
	return []Request{
		{ID: 1, Discipline: "Algebra", Titular: "Popescu Ion", StudentID: 10},
		{ID: 2, Discipline: "Analiza", Titular: "Ion Popescu", StudentID: 11},
		{ID: 3, Discipline: "Fizica", Titular: "  ionescu   MARIA ", StudentID: 10, CourseID: 7},
		{ID: 4, Discipline: "Chimie", Titular: "Georgescu Dan", StudentID: 12, CourseID: 7},
	}
}

func TestVisibleTo_StudentSeesOnlyOwnRows(t *testing.T) {
	student := identity.Identity{ID: 10, Type: identity.RoleStudent, RawRole: "SECRETARY"}

	view := VisibleTo(requests(), student)

	assert.Len(t, view.Visible, 2)
	for _, r := range view.Visible {
		assert.Equal(t, identity.UserID(10), r.StudentID)
	}
	// The raw-role capability never applies to students.
	assert.False(t, view.CanEdit)
}

func TestVisibleTo_TeacherMatchesTitularInBothOrders(t *testing.T) {
	teacher := identity.Identity{
		ID:        20,
		FirstName: "Ion",
		LastName:  "Popescu",
		Type:      identity.RoleTeacher,
	}

	view := VisibleTo(requests(), teacher)

	assert.Len(t, view.Visible, 2)
	assert.Equal(t, ExamID(1), view.Visible[0].ID) // "Popescu Ion"
	assert.Equal(t, ExamID(2), view.Visible[1].ID) // "Ion Popescu"
	assert.True(t, view.CanEdit)
}

func TestVisibleTo_TeacherMatchIgnoresCaseAndWhitespace(t *testing.T) {
	teacher := identity.Identity{
		ID:        21,
		FirstName: "Maria",
		LastName:  "Ionescu",
		Type:      identity.RoleTeacher,
	}

	view := VisibleTo(requests(), teacher)

	assert.Len(t, view.Visible, 1)
	assert.Equal(t, ExamID(3), view.Visible[0].ID)
}

func TestVisibleTo_NonStudentRolesSeeEverything(t *testing.T) {
	for _, role := range []identity.Role{identity.RoleAdmin, identity.RoleSecretary, identity.RoleUser, identity.Role("AUDITOR")} {
		view := VisibleTo(requests(), identity.Identity{ID: 1, Type: role})
		assert.Len(t, view.Visible, 4, "role %s", role)
	}
}

func TestVisibleTo_LowercaseTypeTagStillScopesStudent(t *testing.T) {
	student := identity.Identity{ID: 12, Type: identity.Role("student")}

	view := VisibleTo(requests(), student)

	assert.Len(t, view.Visible, 1)
	assert.Equal(t, ExamID(4), view.Visible[0].ID)
}

func TestCanEdit_TypeRoleCrossProduct(t *testing.T) {
	cases := []struct {
		typ     identity.Role
		rawRole string
		want    bool
	}{
		{identity.RoleTeacher, "", true},
		{identity.RoleTeacher, "SECRETARY", true},
		{identity.RoleStudent, "", false},
		{identity.RoleStudent, "SECRETARY", true}, // capability only; VisibleTo overrides for students
		{identity.RoleAdmin, "", false},
		{identity.RoleAdmin, "ADMIN", false},
		{identity.RoleAdmin, "SECRETARY", true},
		{identity.RoleSecretary, "secretary", false}, // raw role comparison is literal
		{identity.RoleSecretary, "SECRETARY", true},
		{identity.RoleUser, "", false},
	}

	for _, tc := range cases {
		got := CanEdit(identity.Identity{Type: tc.typ, RawRole: tc.rawRole})
		assert.Equal(t, tc.want, got, "type=%s rawRole=%q", tc.typ, tc.rawRole)
	}
}

func TestFilterByCourse(t *testing.T) {
	rows := requests()

	assert.Len(t, FilterByCourse(rows, 0), 4)

	filtered := FilterByCourse(rows, 7)
	assert.Len(t, filtered, 2)
	for _, r := range filtered {
		assert.Equal(t, int64(7), r.CourseID)
	}

	assert.Empty(t, FilterByCourse(rows, 99))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "popescu ion", NormalizeName("  Popescu   ION "))
	assert.Equal(t, "", NormalizeName("   "))
	assert.Equal(t, NormalizeName("Ion Popescu"), NormalizeName("ion    popescu"))
}
