package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"student", RoleStudent},
		{"STUDENT", RoleStudent},
		{" Teacher ", RoleTeacher},
		{"secretary", RoleSecretary},
		{"auditor", Role("AUDITOR")},
		{"", Role("")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRole(tt.in), "input %q", tt.in)
	}

	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("AUDITOR").IsValid(), "unknown tags never become valid roles")
}

func TestHasType_IsCaseInsensitive(t *testing.T) {
	u := Identity{Type: Role("teacher")}

	assert.True(t, u.HasType(RoleTeacher, RoleAdmin))
	assert.False(t, u.HasType(RoleAdmin))
}

func TestSession_IsAuthenticated(t *testing.T) {
	u := Identity{ID: 1, Email: "a@b.com"}

	assert.True(t, Authenticated("tok", u).IsAuthenticated())
	assert.False(t, Empty().IsAuthenticated())
	assert.False(t, Session{Token: "tok"}.IsAuthenticated(), "token without user is no session")
	assert.False(t, Session{User: &u}.IsAuthenticated(), "user without token is no session")
}

func TestSession_NormalizeDropsHalfPairs(t *testing.T) {
	u := Identity{ID: 1}

	assert.Equal(t, Empty(), Session{Token: "orphan"}.Normalize())
	assert.Equal(t, Empty(), Session{User: &u}.Normalize())

	full := Authenticated("tok", u)
	assert.Equal(t, full, full.Normalize())
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ion Popescu", Identity{FirstName: "Ion", LastName: "Popescu"}.FullName())
	assert.Equal(t, "Popescu", Identity{LastName: "Popescu"}.FullName())
}
