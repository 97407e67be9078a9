package examview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/examdesk-core/internal/application/auth"
	"github.com/examdesk/examdesk-core/internal/domain/exam"
	"github.com/examdesk/examdesk-core/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEST FAKES
// ══════════════════════════════════════════════════════════════════════════════

type memStorage struct{ sess identity.Session }

func (m *memStorage) Save(_ context.Context, s identity.Session) error { m.sess = s; return nil }
func (m *memStorage) Load(_ context.Context) (identity.Session, error) { return m.sess, nil }
func (m *memStorage) Clear(_ context.Context) error                    { m.sess = identity.Empty(); return nil }

type identityAPI struct{ users []identity.Identity }

func (f *identityAPI) LoginPassword(context.Context, string, string) (string, error) {
	return "tok", nil
}
func (f *identityAPI) GoogleAuth(context.Context, string) (string, error) { return "tok", nil }
func (f *identityAPI) ListUsers(context.Context, string) ([]identity.Identity, error) {
	return f.users, nil
}

type examAPI struct {
	exams   []exam.Request
	listErr error
	created exam.Request
	deleted []exam.ExamID
	lastTok string
}

func (f *examAPI) ListExams(_ context.Context, token string) ([]exam.Request, error) {
	f.lastTok = token
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.exams, nil
}

func (f *examAPI) CreateExam(_ context.Context, token string, draft exam.Draft) (exam.Request, error) {
	f.lastTok = token
	f.created = exam.Request{
		ID:         42,
		Group:      draft.Group,
		Discipline: draft.Discipline,
		Titular:    draft.Titular,
		Date:       draft.Date,
		Hour:       draft.Hour,
		Room:       draft.Room,
		StudentID:  draft.StudentID,
	}
	return f.created, nil
}

func (f *examAPI) UpdateExam(_ context.Context, token string, id exam.ExamID, draft exam.Draft) (exam.Request, error) {
	f.lastTok = token
	return exam.Request{ID: id, Discipline: draft.Discipline, StudentID: draft.StudentID}, nil
}

func (f *examAPI) DeleteExam(_ context.Context, token string, id exam.ExamID) error {
	f.lastTok = token
	f.deleted = append(f.deleted, id)
	return nil
}

func loggedIn(t *testing.T, u identity.Identity) (*auth.SessionStore, *auth.Gate) {
	t.Helper()
	store := auth.NewSessionStore(&identityAPI{users: []identity.Identity{u}}, &memStorage{}, nil)
	require.True(t, store.Login(context.Background(), u.Email, "tok"))
	return store, auth.NewGate(store)
}

func student() identity.Identity {
	return identity.Identity{ID: 5, FirstName: "Ion", LastName: "Popescu",
		Email: "ion@example.com", RawRole: "student", Type: identity.RoleStudent}
}

func teacher() identity.Identity {
	return identity.Identity{ID: 9, FirstName: "Maria", LastName: "Enache",
		Email: "maria@example.com", RawRole: "teacher", Type: identity.RoleTeacher}
}

func fixtures() []exam.Request {
	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	return []exam.Request{
		{ID: 1, Discipline: "Algebra", Titular: "Enache Maria", StudentID: 5, CourseID: 10, Date: day},
		{ID: 2, Discipline: "Fizica", Titular: "Alt Cineva", StudentID: 6, CourseID: 10, Date: day},
		{ID: 3, Discipline: "Chimie", Titular: "Maria Enache", StudentID: 5, CourseID: 11, Date: day},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// QUERY
// ══════════════════════════════════════════════════════════════════════════════

func TestListVisible_StudentSeesOwnRowsOnly(t *testing.T) {
	sessions, gate := loggedIn(t, student())
	api := &examAPI{exams: fixtures()}
	q := NewQuery(api, sessions, gate, nil)

	view, err := q.ListVisible(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, view.Visible, 2)
	assert.False(t, view.CanEdit)
	assert.Equal(t, "tok", api.lastTok)
}

func TestListVisible_TeacherMatchesTitularBothOrders(t *testing.T) {
	sessions, gate := loggedIn(t, teacher())
	q := NewQuery(&examAPI{exams: fixtures()}, sessions, gate, nil)

	view, err := q.ListVisible(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, view.Visible, 2)
	assert.True(t, view.CanEdit)
	assert.Equal(t, exam.ExamID(1), view.Visible[0].ID)
	assert.Equal(t, exam.ExamID(3), view.Visible[1].ID)
}

func TestListVisible_CourseFilterAppliesAfterScoping(t *testing.T) {
	sessions, gate := loggedIn(t, student())
	q := NewQuery(&examAPI{exams: fixtures()}, sessions, gate, nil)

	view, err := q.ListVisible(context.Background(), 11)

	require.NoError(t, err)
	require.Len(t, view.Visible, 1)
	assert.Equal(t, exam.ExamID(3), view.Visible[0].ID)
}

func TestListVisible_TransportFailureYieldsEmptyView(t *testing.T) {
	sessions, gate := loggedIn(t, teacher())
	q := NewQuery(&examAPI{listErr: errors.New("gateway timeout")}, sessions, gate, nil)

	view, err := q.ListVisible(context.Background(), 0)

	assert.Error(t, err)
	assert.Empty(t, view.Visible, "caller renders an empty collection on fetch failure")
	assert.True(t, view.CanEdit, "edit capability does not depend on the fetch")
}

func TestListVisible_Unauthenticated(t *testing.T) {
	store := auth.NewSessionStore(&identityAPI{}, &memStorage{}, nil)
	q := NewQuery(&examAPI{}, store, auth.NewGate(store), nil)

	_, err := q.ListVisible(context.Background(), 0)

	denied, ok := auth.IsDenied(err)
	require.True(t, ok)
	assert.Equal(t, auth.RedirectLogin, denied.Redirect)
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMAND
// ══════════════════════════════════════════════════════════════════════════════

func TestCreate_StudentIsRejected(t *testing.T) {
	sessions, gate := loggedIn(t, student())
	cmd := NewCommand(&examAPI{}, sessions, gate, nil)

	_, err := cmd.Create(context.Background(), exam.Draft{Discipline: "Algebra"})

	assert.ErrorIs(t, err, ErrNotEditor)
}

func TestCreate_TeacherSucceeds(t *testing.T) {
	sessions, gate := loggedIn(t, teacher())
	api := &examAPI{}
	cmd := NewCommand(api, sessions, gate, nil)

	created, err := cmd.Create(context.Background(), exam.Draft{Discipline: "Algebra", Hour: "10:00:00"})

	require.NoError(t, err)
	assert.Equal(t, exam.ExamID(42), created.ID)
	assert.Equal(t, "tok", api.lastTok)
}

func TestCreate_RawSecretaryRoleMayEdit(t *testing.T) {
	u := identity.Identity{ID: 3, FirstName: "Dana", LastName: "Ilie",
		Email: "dana@example.com", RawRole: "SECRETARY", Type: identity.RoleUser}
	sessions, gate := loggedIn(t, u)
	cmd := NewCommand(&examAPI{}, sessions, gate, nil)

	_, err := cmd.Create(context.Background(), exam.Draft{Discipline: "Algebra"})

	assert.NoError(t, err, "the legacy role string grants edit regardless of type")
}

func TestUpdate_CarriesDraftThrough(t *testing.T) {
	sessions, gate := loggedIn(t, teacher())
	cmd := NewCommand(&examAPI{}, sessions, gate, nil)

	updated, err := cmd.Update(context.Background(), 3, exam.Draft{Discipline: "Chimie II", StudentID: 5})

	require.NoError(t, err)
	assert.Equal(t, exam.ExamID(3), updated.ID)
	assert.Equal(t, identity.UserID(5), updated.StudentID)
}

func TestUpdate_InvalidID(t *testing.T) {
	sessions, gate := loggedIn(t, teacher())
	cmd := NewCommand(&examAPI{}, sessions, gate, nil)

	_, err := cmd.Update(context.Background(), 0, exam.Draft{})

	assert.Error(t, err)
}

func TestDelete_Gated(t *testing.T) {
	sessions, gate := loggedIn(t, teacher())
	api := &examAPI{}
	cmd := NewCommand(api, sessions, gate, nil)

	require.NoError(t, cmd.Delete(context.Background(), 7))
	assert.Equal(t, []exam.ExamID{7}, api.deleted)

	studentSessions, studentGate := loggedIn(t, student())
	cmd = NewCommand(api, studentSessions, studentGate, nil)
	assert.ErrorIs(t, cmd.Delete(context.Background(), 8), ErrNotEditor)
}
