// Package directory covers account registration, the teaching-staff
// roster and the reference-data lookups the scheduling surfaces are
// populated from.
package directory

import (
	"context"
	"errors"

	"github.com/examdesk/examdesk-core/internal/application/auth"
	"github.com/examdesk/examdesk-core/internal/domain/cadre"
	"github.com/examdesk/examdesk-core/internal/domain/identity"
	"github.com/examdesk/examdesk-core/internal/domain/roster"
	"github.com/examdesk/examdesk-core/internal/infrastructure/external/schedapi"
	"github.com/examdesk/examdesk-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DIRECTORY SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// DirectoryAPI is the slice of the scheduling API this service needs.
type DirectoryAPI interface {
	Register(ctx context.Context, reg schedapi.RegisterDTO) (identity.Identity, error)
	AddSecretary(ctx context.Context, token string, p roster.Person) (identity.Identity, error)

	ListCadre(ctx context.Context, token string) ([]cadre.Member, error)
	UpdateCadre(ctx context.Context, token string, m cadre.Member) (cadre.Member, error)
	RepopulateCadre(ctx context.Context, token string) (cadre.RepopulateResult, error)

	Faculties(ctx context.Context, token string) ([]string, error)
	Departments(ctx context.Context, token, faculty string) ([]string, error)
	Teachers(ctx context.Context, token, faculty, department string) ([]schedapi.TeacherRefDTO, error)
	TeacherCourses(ctx context.Context, token string, teacherID int64) ([]string, error)
	Courses(ctx context.Context, token string) ([]schedapi.CourseDTO, error)
	CompleteGroups(ctx context.Context, token string) ([]schedapi.GroupDTO, error)
	Classrooms(ctx context.Context, token string) ([]schedapi.ClassroomDTO, error)
}

// Service wraps the directory operations behind the access gate.
type Service struct {
	api      DirectoryAPI
	sessions *auth.SessionStore
	gate     *auth.Gate
	log      *logger.Logger
}

// NewService creates the directory service.
func NewService(api DirectoryAPI, sessions *auth.SessionStore, gate *auth.Gate, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		api:      api,
		sessions: sessions,
		gate:     gate,
		log:      log.With(logger.Component("directory")),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNTS
// ══════════════════════════════════════════════════════════════════════════════

// RegisterInput carries a new account request.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Validate checks the required fields.
func (in RegisterInput) Validate() error {
	if in.Email == "" {
		return errors.New("directory: email is required")
	}
	if in.Password == "" {
		return errors.New("directory: password is required")
	}
	if in.FirstName == "" && in.LastName == "" {
		return errors.New("directory: a name is required")
	}
	return nil
}

// Register creates a plain user account. Registration is the one
// unauthenticated directory operation: it happens before any session
// exists. New accounts always start as USER; role upgrades are a
// server-side concern.
func (s *Service) Register(ctx context.Context, in RegisterInput) (identity.Identity, error) {
	if err := in.Validate(); err != nil {
		return identity.Identity{}, err
	}

	created, err := s.api.Register(ctx, schedapi.RegisterDTO{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		Role:      "user",
		Type:      string(identity.RoleUser),
	})
	if err != nil {
		s.log.Warn("registration failed", logger.Email(in.Email), logger.Err(err))
		return identity.Identity{}, err
	}
	s.log.Info("account registered", logger.Email(in.Email))
	return created, nil
}

// AddSecretary creates a single secretary account. Secretary management
// is restricted to admins.
func (s *Service) AddSecretary(ctx context.Context, p roster.Person) (identity.Identity, error) {
	if err := s.gate.RequireRole(ctx, identity.RoleAdmin); err != nil {
		return identity.Identity{}, err
	}

	created, err := s.api.AddSecretary(ctx, s.sessions.Token(), p)
	if err != nil {
		s.log.Warn("add secretary failed", logger.Email(p.Email), logger.Err(err))
		return identity.Identity{}, err
	}
	s.log.Info("secretary added", logger.Email(p.Email))
	return created, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CADRE
// ══════════════════════════════════════════════════════════════════════════════

// Cadre lists the teaching staff, optionally narrowed to one
// department (empty string means all).
func (s *Service) Cadre(ctx context.Context, department string) ([]cadre.Member, error) {
	if err := s.gate.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}

	members, err := s.api.ListCadre(ctx, s.sessions.Token())
	if err != nil {
		s.log.Warn("cadre fetch failed", logger.Err(err))
		return nil, err
	}
	return cadre.FilterByDepartment(members, department), nil
}

// UpdateCadre edits one staff record. Restricted to admins and
// secretaries.
func (s *Service) UpdateCadre(ctx context.Context, m cadre.Member) (cadre.Member, error) {
	if err := s.gate.RequireRole(ctx, identity.RoleAdmin, identity.RoleSecretary); err != nil {
		return cadre.Member{}, err
	}

	updated, err := s.api.UpdateCadre(ctx, s.sessions.Token(), m)
	if err != nil {
		s.log.Warn("cadre update failed", logger.Int("member_id", int(m.ID)), logger.Err(err))
		return cadre.Member{}, err
	}
	s.log.Info("cadre member updated", logger.Int("member_id", int(updated.ID)))
	return updated, nil
}

// RepopulateCadre asks the collaborator to rebuild the staff roster
// from its upstream source. Admin-only, single attempt: the rebuild is
// expensive server-side and must not be fired twice by an impatient
// client.
func (s *Service) RepopulateCadre(ctx context.Context) (cadre.RepopulateResult, error) {
	if err := s.gate.RequireRole(ctx, identity.RoleAdmin); err != nil {
		return cadre.RepopulateResult{}, err
	}

	result, err := s.api.RepopulateCadre(ctx, s.sessions.Token())
	if err != nil {
		s.log.Warn("cadre repopulate failed", logger.Err(err))
		return cadre.RepopulateResult{Error: err.Error()}, err
	}
	s.log.Info("cadre repopulated", logger.Int("added", result.Added))
	return result, nil
}
