package rosterimport

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/examdesk/examdesk-core/internal/application/auth"
	"github.com/examdesk/examdesk-core/internal/domain/identity"
	"github.com/examdesk/examdesk-core/internal/domain/roster"
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

type bulkAPI struct {
	studentCalls   [][]roster.Person
	secretaryCalls [][]roster.Person
	result         roster.ImportResult
	err            error
}

func (f *bulkAPI) BulkAddStudents(_ context.Context, _ string, people []roster.Person) (roster.ImportResult, error) {
	f.studentCalls = append(f.studentCalls, people)
	return f.result, f.err
}

func (f *bulkAPI) BulkAddSecretaries(_ context.Context, _ string, people []roster.Person) (roster.ImportResult, error) {
	f.secretaryCalls = append(f.secretaryCalls, people)
	return f.result, f.err
}

func pipelineWith(t *testing.T, api *bulkAPI) *Pipeline {
	t.Helper()
	u := identity.Identity{ID: 1, FirstName: "Dana", LastName: "Ilie",
		Email: "dana@example.com", RawRole: "SECRETARY", Type: identity.RoleSecretary}
	sessions := auth.NewSessionStore(&identityAPI{users: []identity.Identity{u}}, &memStorage{}, nil)
	require.True(t, sessions.Login(context.Background(), u.Email, "tok"))
	return NewPipeline(api, sessions, auth.NewGate(sessions), nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// PIPELINE
// ══════════════════════════════════════════════════════════════════════════════

func TestImport_HeaderRowYieldsExactlyOnePerson(t *testing.T) {
	api := &bulkAPI{result: roster.ImportResult{
		Created: []roster.Person{{FirstName: "Ion", LastName: "Popescu", Email: "ion@x.com"}},
	}}
	p := pipelineWith(t, api)

	rows := []roster.Row{
		{"Name", "Email"},
		{"Popescu Ion", "ion@x.com"},
	}
	_, err := p.Import(context.Background(), rows, KindStudents)

	require.NoError(t, err)
	require.Len(t, api.studentCalls, 1)
	require.Len(t, api.studentCalls[0], 1, "the header must never be imported as a person")
	assert.Equal(t, roster.Person{FirstName: "Ion", LastName: "Popescu", Email: "ion@x.com"},
		api.studentCalls[0][0])
}

func TestImport_BlankCellRowDroppedBeforeHeaderSniff(t *testing.T) {
	api := &bulkAPI{}
	p := pipelineWith(t, api)

	rows := []roster.Row{
		{"", "a@b.com"},
		{"Name", "Email"},
		{"Popescu Ion", "ion@x.com"},
	}
	_, err := p.Import(context.Background(), rows, KindStudents)

	require.NoError(t, err)
	require.Len(t, api.studentCalls, 1)
	require.Len(t, api.studentCalls[0], 1)
	assert.Equal(t, "ion@x.com", api.studentCalls[0][0].Email)
}

func TestImport_KindSelectsSplitConvention(t *testing.T) {
	rows := []roster.Row{{"Popescu Ion Andrei", "ion@x.com"}}

	api := &bulkAPI{}
	p := pipelineWith(t, api)

	_, err := p.Import(context.Background(), rows, KindStudents)
	require.NoError(t, err)
	require.Len(t, api.studentCalls, 1)
	assert.Equal(t, "Popescu", api.studentCalls[0][0].LastName, "students: first token is the surname")
	assert.Equal(t, "Ion Andrei", api.studentCalls[0][0].FirstName)

	_, err = p.Import(context.Background(), rows, KindSecretaries)
	require.NoError(t, err)
	require.Len(t, api.secretaryCalls, 1)
	assert.Equal(t, "Andrei", api.secretaryCalls[0][0].LastName, "secretaries: last token is the surname")
	assert.Equal(t, "Popescu Ion", api.secretaryCalls[0][0].FirstName)
}

func TestImport_ResultReportedVerbatim(t *testing.T) {
	partition := roster.ImportResult{
		Created: []roster.Person{{Email: "a@x.com"}, {Email: "b@x.com"}},
		Skipped: []roster.Person{{Email: "seen-before@x.com"}},
	}
	api := &bulkAPI{result: partition}
	p := pipelineWith(t, api)

	result, err := p.Import(context.Background(), []roster.Row{{"Popescu Ion", "ion@x.com"}}, KindStudents)

	require.NoError(t, err)
	assert.Equal(t, partition.Created, result.Created)
	assert.Equal(t, partition.Skipped, result.Skipped)
	assert.Empty(t, result.Error)
}

func TestImport_TransportFailureIsSingleShot(t *testing.T) {
	api := &bulkAPI{err: errors.New("bad gateway")}
	p := pipelineWith(t, api)

	result, err := p.Import(context.Background(), []roster.Row{{"Popescu Ion", "ion@x.com"}}, KindStudents)

	assert.Error(t, err)
	assert.Equal(t, "bad gateway", result.Error)
	assert.Len(t, api.studentCalls, 1, "a failed batch must not be resubmitted")
}

func TestImport_EmptyAfterCleaningSkipsSubmission(t *testing.T) {
	api := &bulkAPI{}
	p := pipelineWith(t, api)

	result, err := p.Import(context.Background(), []roster.Row{{"only-one-cell"}, {"", ""}}, KindStudents)

	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Empty(t, api.studentCalls)
}

func TestImport_Unauthenticated(t *testing.T) {
	sessions := auth.NewSessionStore(&identityAPI{}, &memStorage{}, nil)
	p := NewPipeline(&bulkAPI{}, sessions, auth.NewGate(sessions), nil)

	_, err := p.Import(context.Background(), []roster.Row{{"Popescu Ion", "ion@x.com"}}, KindStudents)

	denied, ok := auth.IsDenied(err)
	require.True(t, ok)
	assert.Equal(t, auth.RedirectLogin, denied.Redirect)
}

// ══════════════════════════════════════════════════════════════════════════════
// PARSING
// ══════════════════════════════════════════════════════════════════════════════

func TestParseCSV_RaggedRowsPassThrough(t *testing.T) {
	in := "Name,Email\nPopescu Ion,ion@x.com\nlonely\n"

	rows, err := ParseCSV(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, roster.Row{"lonely"}, rows[2])
}

func TestParseXLSX_ReadsFirstSheet(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]any{"Name", "Email"}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]any{"Popescu Ion", "ion@x.com"}))

	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))

	rows, err := ParseXLSX(&buf)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, roster.Row{"Name", "Email"}, rows[0])
	assert.Equal(t, roster.Row{"Popescu Ion", "ion@x.com"}, rows[1])
}

func TestParseFile_PicksReaderByExtension(t *testing.T) {
	rows, err := ParseFile("roster.csv", strings.NewReader("Popescu Ion,ion@x.com\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = ParseFile("roster.xlsx", strings.NewReader("not a workbook"))
	assert.Error(t, err)
}
