package schedapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/examdesk/examdesk-core/internal/domain/cadre"
	"github.com/examdesk/examdesk-core/internal/domain/exam"
	"github.com/examdesk/examdesk-core/internal/domain/identity"
	"github.com/examdesk/examdesk-core/internal/domain/roster"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the scheduling API client.
type ClientConfig struct {
	// BaseURL is the collaborator's base URL
	BaseURL string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// RateLimiterConfig paces outgoing requests; no request is ever
	// repeated, only delayed.
	RateLimiterConfig RateLimiterConfig

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables per-request debug logging
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:           strings.TrimRight(baseURL, "/"),
		Timeout:           30 * time.Second,
		RateLimiterConfig: DefaultRateLimiterConfig(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the exam-scheduling API client.
//
// The client is stateless with respect to authentication: the bearer
// token is an argument of every authenticated call, because session
// ownership lives in the application layer, not the transport.
type Client struct {
	config      ClientConfig
	httpClient  *http.Client
	logger      *slog.Logger
	rateLimiter *RateLimiter
	mapper      *Mapper
}

// NewClient creates a new scheduling API client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:      config.Logger,
		rateLimiter: NewRateLimiter(config.RateLimiterConfig),
		mapper:      NewMapper(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// LoginPassword exchanges credentials for an access token. The endpoint
// takes an OAuth2 password form, not JSON.
func (c *Client) LoginPassword(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	if err := c.rateLimiter.Allow(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", decodeAPIError(resp.StatusCode, body)
	}

	var token TokenDTO
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	return token.AccessToken, nil
}

// GoogleAuth exchanges a federated identity credential for an access
// token.
func (c *Client) GoogleAuth(ctx context.Context, credential string) (string, error) {
	var token TokenDTO
	if err := c.doRequest(ctx, http.MethodPost, "/auth/google", "", googleAuthRequest{Token: credential}, &token); err != nil {
		return "", fmt.Errorf("google auth: %w", err)
	}
	return token.AccessToken, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// ListUsers fetches the full identity collection.
func (c *Client) ListUsers(ctx context.Context, token string) ([]identity.Identity, error) {
	var dtos []UserDTO
	if err := c.doRequest(ctx, http.MethodGet, "/users/", token, nil, &dtos); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return c.mapper.UsersFromDTO(dtos), nil
}

// Register creates a new user account. Unauthenticated by design; the
// collaborator validates and hashes the password.
func (c *Client) Register(ctx context.Context, reg RegisterDTO) (identity.Identity, error) {
	var dto UserDTO
	if err := c.doRequest(ctx, http.MethodPost, "/users/", "", reg, &dto); err != nil {
		return identity.Identity{}, fmt.Errorf("register user: %w", err)
	}
	return c.mapper.UserFromDTO(dto), nil
}

// AddSecretary creates a single secretary account.
func (c *Client) AddSecretary(ctx context.Context, token string, p roster.Person) (identity.Identity, error) {
	var dto UserDTO
	if err := c.doRequest(ctx, http.MethodPost, "/users/secretary", token, c.mapper.PersonToDTO(p), &dto); err != nil {
		return identity.Identity{}, fmt.Errorf("add secretary: %w", err)
	}
	return c.mapper.UserFromDTO(dto), nil
}

// BulkAddSecretaries submits one batch of secretary records and returns
// the collaborator's created/skipped partition.
func (c *Client) BulkAddSecretaries(ctx context.Context, token string, people []roster.Person) (roster.ImportResult, error) {
	return c.bulkUpload(ctx, "/users/secretary/bulk", token, people)
}

// BulkAddStudents submits one batch of student records and returns the
// collaborator's created/skipped partition.
func (c *Client) BulkAddStudents(ctx context.Context, token string, people []roster.Person) (roster.ImportResult, error) {
	return c.bulkUpload(ctx, "/users/bulk_upload/", token, people)
}

func (c *Client) bulkUpload(ctx context.Context, path, token string, people []roster.Person) (roster.ImportResult, error) {
	var dto ImportResultDTO
	if err := c.doRequest(ctx, http.MethodPost, path, token, c.mapper.PeopleToDTO(people), &dto); err != nil {
		return roster.ImportResult{}, fmt.Errorf("bulk upload %s: %w", path, err)
	}
	return c.mapper.ImportResultFromDTO(dto), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EXAM SCHEDULE OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// ListExams fetches the full exam-request collection. Role scoping is a
// client-side concern; the collaborator returns everything the token may
// read.
func (c *Client) ListExams(ctx context.Context, token string) ([]exam.Request, error) {
	var dtos []ExamDTO
	if err := c.doRequest(ctx, http.MethodGet, "/exams_schedule/", token, nil, &dtos); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return c.mapper.ExamsFromDTO(dtos)
}

// CreateExam submits a new exam request.
func (c *Client) CreateExam(ctx context.Context, token string, draft exam.Draft) (exam.Request, error) {
	var dto ExamDTO
	if err := c.doRequest(ctx, http.MethodPost, "/exams_schedule/", token, c.mapper.DraftToDTO(draft), &dto); err != nil {
		return exam.Request{}, fmt.Errorf("create exam: %w", err)
	}
	return c.mapper.ExamFromDTO(dto)
}

// UpdateExam replaces the mutable fields of an exam request. Last write
// wins; the collaborator performs no concurrency check.
func (c *Client) UpdateExam(ctx context.Context, token string, id exam.ExamID, draft exam.Draft) (exam.Request, error) {
	var dto ExamDTO
	path := fmt.Sprintf("/exams_schedule/%d", id)
	if err := c.doRequest(ctx, http.MethodPut, path, token, c.mapper.DraftToDTO(draft), &dto); err != nil {
		return exam.Request{}, fmt.Errorf("update exam %d: %w", id, err)
	}
	return c.mapper.ExamFromDTO(dto)
}

// DeleteExam removes an exam request.
func (c *Client) DeleteExam(ctx context.Context, token string, id exam.ExamID) error {
	path := fmt.Sprintf("/exams_schedule/%d", id)
	if err := c.doRequest(ctx, http.MethodDelete, path, token, nil, nil); err != nil {
		return fmt.Errorf("delete exam %d: %w", id, err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CADRE OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// ListCadre fetches the teaching-staff roster.
func (c *Client) ListCadre(ctx context.Context, token string) ([]cadre.Member, error) {
	var dtos []CadreDTO
	if err := c.doRequest(ctx, http.MethodGet, "/cadre/", token, nil, &dtos); err != nil {
		return nil, fmt.Errorf("list cadre: %w", err)
	}
	return c.mapper.CadreFromDTO(dtos), nil
}

// UpdateCadre replaces a cadre record's editable fields.
func (c *Client) UpdateCadre(ctx context.Context, token string, m cadre.Member) (cadre.Member, error) {
	var dto CadreDTO
	path := fmt.Sprintf("/cadre/%d", m.ID)
	if err := c.doRequest(ctx, http.MethodPut, path, token, c.mapper.MemberToDTO(m), &dto); err != nil {
		return cadre.Member{}, fmt.Errorf("update cadre %d: %w", m.ID, err)
	}
	return c.mapper.MemberFromDTO(dto), nil
}

// RepopulateCadre asks the collaborator to rebuild the cadre table from
// its upstream source.
func (c *Client) RepopulateCadre(ctx context.Context, token string) (cadre.RepopulateResult, error) {
	var dto RepopulateDTO
	if err := c.doRequest(ctx, http.MethodPost, "/cadre/populate/", token, struct{}{}, &dto); err != nil {
		return cadre.RepopulateResult{}, fmt.Errorf("repopulate cadre: %w", err)
	}
	return cadre.RepopulateResult{Success: dto.Success, Added: dto.Added, Error: dto.Error}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REFERENCE DATA OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Faculties fetches the distinct faculty names.
func (c *Client) Faculties(ctx context.Context, token string) ([]string, error) {
	var names []string
	if err := c.doRequest(ctx, http.MethodGet, "/faculties/", token, nil, &names); err != nil {
		return nil, fmt.Errorf("list faculties: %w", err)
	}
	return names, nil
}

// Departments fetches the department names of one faculty.
func (c *Client) Departments(ctx context.Context, token, faculty string) ([]string, error) {
	var names []string
	path := "/departments/" + url.PathEscape(faculty)
	if err := c.doRequest(ctx, http.MethodGet, path, token, nil, &names); err != nil {
		return nil, fmt.Errorf("list departments of %s: %w", faculty, err)
	}
	return names, nil
}

// Teachers fetches the teachers of one faculty department.
func (c *Client) Teachers(ctx context.Context, token, faculty, department string) ([]TeacherRefDTO, error) {
	var teachers []TeacherRefDTO
	path := "/teachers/" + url.PathEscape(faculty) + "/" + url.PathEscape(department)
	if err := c.doRequest(ctx, http.MethodGet, path, token, nil, &teachers); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// TeacherCourses fetches the course names a cadre member teaches.
func (c *Client) TeacherCourses(ctx context.Context, token string, teacherID int64) ([]string, error) {
	var courses []CourseNameDTO
	path := fmt.Sprintf("/teacher-courses/%d", teacherID)
	if err := c.doRequest(ctx, http.MethodGet, path, token, nil, &courses); err != nil {
		return nil, fmt.Errorf("list teacher courses: %w", err)
	}
	names := make([]string, 0, len(courses))
	for _, course := range courses {
		names = append(names, course.Name)
	}
	return names, nil
}

// Courses fetches all course records.
func (c *Client) Courses(ctx context.Context, token string) ([]CourseDTO, error) {
	var courses []CourseDTO
	if err := c.doRequest(ctx, http.MethodGet, "/courses/", token, nil, &courses); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// CompleteGroups fetches all fully populated group records.
func (c *Client) CompleteGroups(ctx context.Context, token string) ([]GroupDTO, error) {
	var groups []GroupDTO
	if err := c.doRequest(ctx, http.MethodGet, "/groups/complete", token, nil, &groups); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Classrooms fetches all exam rooms.
func (c *Client) Classrooms(ctx context.Context, token string) ([]ClassroomDTO, error) {
	var rooms []ClassroomDTO
	if err := c.doRequest(ctx, http.MethodGet, "/classrooms/", token, nil, &rooms); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return rooms, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// doRequest performs a single JSON request. There is deliberately no
// retry loop: a failed call is reported once and the caller decides
// whether to prompt again.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body any, result any) error {
	if err := c.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.config.Debug {
		c.logger.Debug("schedapi request",
			"method", method, "path", path, "request_id", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	var envelope apiErrorDTO
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Detail = envelope.Detail
	}
	return apiErr
}
