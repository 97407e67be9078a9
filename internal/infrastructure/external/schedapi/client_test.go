package schedapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/examdesk-core/internal/domain/exam"
	"github.com/examdesk/examdesk-core/internal/domain/identity"
	"github.com/examdesk/examdesk-core/internal/domain/roster"
	"github.com/examdesk/examdesk-core/pkg/timeutil"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := DefaultClientConfig(srv.URL)
	cfg.RateLimiterConfig.RequestsPerSecond = 0 // no pacing in tests
	return NewClient(cfg)
}

func TestLoginPassword_SendsForm(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ana@usv.ro", r.PostForm.Get("username"))
		assert.Equal(t, "parola", r.PostForm.Get("password"))
		json.NewEncoder(w).Encode(TokenDTO{AccessToken: "tok-1", TokenType: "bearer"})
	}))

	token, err := client.LoginPassword(context.Background(), "ana@usv.ro", "parola")

	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
}

func TestLoginPassword_BadCredentials(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))

	_, err := client.LoginPassword(context.Background(), "ana@usv.ro", "wrong")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsAuth())
	assert.Equal(t, "Incorrect username or password", apiErr.Detail)
}

func TestListUsers_MapsRoleTags(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]UserDTO{
			{ID: 1, FirstName: "Ion", LastName: "Popescu", Email: "ion@usv.ro", Role: "SECRETARY", Type: "admin"},
			{ID: 2, FirstName: "Ana", LastName: "Ionescu", Email: "ana@usv.ro", Role: "", Type: "STUDENT"},
		})
	}))

	users, err := client.ListUsers(context.Background(), "tok-1")

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, identity.RoleAdmin, users[0].Type)
	assert.Equal(t, "SECRETARY", users[0].RawRole)
	assert.Equal(t, identity.RoleStudent, users[1].Type)
}

func TestListExams_ParsesWireDates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]ExamDTO{
			{ID: 5, Group: "3141A", Discipline: "Algebra", Titular: "Popescu Ion",
				Data: "2026-02-14", Ora: "10:00:00", Sala: "C201", StudentID: 9},
		})
	}))

	exams, err := client.ListExams(context.Background(), "tok-1")

	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, exam.ExamID(5), exams[0].ID)
	assert.Equal(t, 2026, exams[0].Date.Year())
	assert.Equal(t, "10:00:00", exams[0].Hour)
	assert.Equal(t, identity.UserID(9), exams[0].StudentID)
}

func TestUpdateExam_PutsDraftWithStudentID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/exams_schedule/5", r.URL.Path)
		var dto ExamCreateDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&dto))
		assert.Equal(t, int64(9), dto.StudentID)
		assert.Equal(t, "2026-02-14", dto.Data)
		json.NewEncoder(w).Encode(ExamDTO{ID: 5, Group: dto.Group, Discipline: dto.Discipline,
			Titular: dto.Titular, Data: dto.Data, Ora: dto.Ora, Sala: dto.Sala, StudentID: dto.StudentID})
	}))

	date, err := timeutil.ParseDate("2026-02-14")
	require.NoError(t, err)
	updated, err := client.UpdateExam(context.Background(), "tok-1", 5, exam.Draft{
		Group: "3141A", Discipline: "Algebra", Titular: "Popescu Ion",
		Date: date, Hour: "10:00:00", Room: "C201", StudentID: 9,
	})

	require.NoError(t, err)
	assert.Equal(t, exam.ExamID(5), updated.ID)
}

func TestBulkAddStudents_ReturnsPartitionVerbatim(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/bulk_upload/", r.URL.Path)
		var batch []PersonDTO
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		require.Len(t, batch, 2)
		json.NewEncoder(w).Encode(ImportResultDTO{
			Created: []PersonDTO{batch[0]},
			Skipped: []PersonDTO{batch[1]},
		})
	}))

	result, err := client.BulkAddStudents(context.Background(), "tok-1", []roster.Person{
		{FirstName: "Ion", LastName: "Popescu", Email: "ion@x.com"},
		{FirstName: "Ana", LastName: "Ionescu", Email: "ana@x.com"},
	})

	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
	assert.Len(t, result.Skipped, 1)
	assert.Equal(t, "ana@x.com", result.Skipped[0].Email)
}

func TestDoRequest_TransportFailureIsSingleShot(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	cfg := DefaultClientConfig(srv.URL)
	cfg.RateLimiterConfig.RequestsPerSecond = 0
	client := NewClient(cfg)

	_, err := client.ListUsers(context.Background(), "tok-1")

	require.Error(t, err)
	assert.Equal(t, 1, calls, "server errors must not be retried")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.False(t, apiErr.IsAuth())
}
