package schedapi

import (
	"fmt"

	"github.com/examdesk/examdesk-core/internal/domain/cadre"
	"github.com/examdesk/examdesk-core/internal/domain/exam"
	"github.com/examdesk/examdesk-core/internal/domain/identity"
	"github.com/examdesk/examdesk-core/internal/domain/roster"
	"github.com/examdesk/examdesk-core/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - DTO to domain transformations
// ══════════════════════════════════════════════════════════════════════════════

// Mapper translates between collaborator DTOs and domain types, keeping
// wire quirks (free-form role strings, data/ora date handling, camelCase
// cadre fields) out of the rest of the codebase.
type Mapper struct{}

// NewMapper creates a new Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// UserFromDTO converts a UserDTO to a domain Identity. Type is narrowed
// through the role parser; Role stays raw for the legacy secretary
// comparison.
func (m *Mapper) UserFromDTO(dto UserDTO) identity.Identity {
	return identity.Identity{
		ID:        identity.UserID(dto.ID),
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		RawRole:   dto.Role,
		Type:      identity.ParseRole(dto.Type),
	}
}

// UsersFromDTO converts a user collection.
func (m *Mapper) UsersFromDTO(dtos []UserDTO) []identity.Identity {
	users := make([]identity.Identity, 0, len(dtos))
	for _, dto := range dtos {
		users = append(users, m.UserFromDTO(dto))
	}
	return users
}

// PersonToDTO converts a normalized roster entry for submission.
func (m *Mapper) PersonToDTO(p roster.Person) PersonDTO {
	return PersonDTO{FirstName: p.FirstName, LastName: p.LastName, Email: p.Email}
}

// PeopleToDTO converts a roster batch for submission.
func (m *Mapper) PeopleToDTO(people []roster.Person) []PersonDTO {
	dtos := make([]PersonDTO, 0, len(people))
	for _, p := range people {
		dtos = append(dtos, m.PersonToDTO(p))
	}
	return dtos
}

// ImportResultFromDTO converts the collaborator's batch partition. Both
// slices are passed through verbatim; the core adds no judgment of its
// own about created versus skipped rows.
func (m *Mapper) ImportResultFromDTO(dto ImportResultDTO) roster.ImportResult {
	result := roster.ImportResult{
		Created: make([]roster.Person, 0, len(dto.Created)),
		Skipped: make([]roster.Person, 0, len(dto.Skipped)),
	}
	for _, p := range dto.Created {
		result.Created = append(result.Created, roster.Person{FirstName: p.FirstName, LastName: p.LastName, Email: p.Email})
	}
	for _, p := range dto.Skipped {
		result.Skipped = append(result.Skipped, roster.Person{FirstName: p.FirstName, LastName: p.LastName, Email: p.Email})
	}
	return result
}

// ══════════════════════════════════════════════════════════════════════════════
// EXAM MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// ExamFromDTO converts an ExamDTO to a domain Request.
func (m *Mapper) ExamFromDTO(dto ExamDTO) (exam.Request, error) {
	date, err := timeutil.ParseDate(dto.Data)
	if err != nil {
		return exam.Request{}, fmt.Errorf("exam %d: %w", dto.ID, err)
	}
	return exam.Request{
		ID:         exam.ExamID(dto.ID),
		Group:      dto.Group,
		Discipline: dto.Discipline,
		Titular:    dto.Titular,
		Asistent:   dto.Asistent,
		Date:       date,
		Hour:       dto.Ora,
		Room:       dto.Sala,
		StudentID:  identity.UserID(dto.StudentID),
		CourseID:   dto.CourseID,
	}, nil
}

// ExamsFromDTO converts an exam collection.
func (m *Mapper) ExamsFromDTO(dtos []ExamDTO) ([]exam.Request, error) {
	exams := make([]exam.Request, 0, len(dtos))
	for _, dto := range dtos {
		e, err := m.ExamFromDTO(dto)
		if err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, nil
}

// DraftToDTO converts the mutable exam fields for create/update calls.
func (m *Mapper) DraftToDTO(d exam.Draft) ExamCreateDTO {
	return ExamCreateDTO{
		Group:      d.Group,
		Discipline: d.Discipline,
		Titular:    d.Titular,
		Asistent:   d.Asistent,
		Data:       timeutil.FormatDateStr(d.Date),
		Ora:        d.Hour,
		Sala:       d.Room,
		StudentID:  int64(d.StudentID),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CADRE MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// MemberFromDTO converts a CadreDTO to a domain Member.
func (m *Mapper) MemberFromDTO(dto CadreDTO) cadre.Member {
	return cadre.Member{
		ID:         dto.ID,
		FirstName:  dto.FirstName,
		LastName:   dto.LastName,
		Email:      dto.EmailAddress,
		Phone:      dto.PhoneNumber,
		Faculty:    dto.FacultyName,
		Department: dto.DepartmentName,
	}
}

// CadreFromDTO converts a cadre collection.
func (m *Mapper) CadreFromDTO(dtos []CadreDTO) []cadre.Member {
	members := make([]cadre.Member, 0, len(dtos))
	for _, dto := range dtos {
		members = append(members, m.MemberFromDTO(dto))
	}
	return members
}

// MemberToDTO converts a domain Member for an update call.
func (m *Mapper) MemberToDTO(member cadre.Member) CadreDTO {
	return CadreDTO{
		ID:             member.ID,
		FirstName:      member.FirstName,
		LastName:       member.LastName,
		EmailAddress:   member.Email,
		PhoneNumber:    member.Phone,
		FacultyName:    member.Faculty,
		DepartmentName: member.Department,
	}
}
