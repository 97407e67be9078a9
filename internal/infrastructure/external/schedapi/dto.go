// Package schedapi implements the client for the exam-scheduling REST
// collaborator. This package handles all communication with the remote
// service: authentication, identity listing, exam-schedule CRUD, cadre
// management, bulk roster uploads and reference data.
package schedapi

import "fmt"

// ══════════════════════════════════════════════════════════════════════════════
// AUTH DTOs
// ══════════════════════════════════════════════════════════════════════════════

// TokenDTO is the collaborator's token grant.
type TokenDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// googleAuthRequest carries the federated identity credential.
type googleAuthRequest struct {
	Token string `json:"token"`
}

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY DTOs
// ══════════════════════════════════════════════════════════════════════════════

// UserDTO is a user record as returned by the collaborator. Role and
// Type arrive as free-form strings; mapping narrows Type to the role
// enum and keeps Role raw for the legacy secretary comparison.
type UserDTO struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Type      string `json:"type"`
}

// RegisterDTO is the payload for creating a user account. The password
// travels to the collaborator, which owns hashing; it is never stored
// here.
type RegisterDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Type      string `json:"type"`
}

// PersonDTO is one normalized roster entry of a bulk upload.
type PersonDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ImportResultDTO is the collaborator's partition of a submitted batch.
type ImportResultDTO struct {
	Created []PersonDTO `json:"created"`
	Skipped []PersonDTO `json:"skipped"`
}

// ══════════════════════════════════════════════════════════════════════════════
// EXAM SCHEDULE DTOs
// ══════════════════════════════════════════════════════════════════════════════

// ExamDTO mirrors the collaborator's exam-schedule record. Field names
// follow the wire: data/ora/sala are the date, hour and room.
type ExamDTO struct {
	ID         int64  `json:"id"`
	Group      string `json:"group"`
	Discipline string `json:"discipline"`
	Titular    string `json:"titular"`
	Asistent   string `json:"asistent,omitempty"`
	Data       string `json:"data"`
	Ora        string `json:"ora"`
	Sala       string `json:"sala"`
	StudentID  int64  `json:"student_id"`
	CourseID   int64  `json:"course_id,omitempty"`
}

// ExamCreateDTO is the mutable field set sent on create and update.
type ExamCreateDTO struct {
	Group      string `json:"group"`
	Discipline string `json:"discipline"`
	Titular    string `json:"titular"`
	Asistent   string `json:"asistent,omitempty"`
	Data       string `json:"data"`
	Ora        string `json:"ora"`
	Sala       string `json:"sala"`
	StudentID  int64  `json:"student_id"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CADRE AND REFERENCE DATA DTOs
// ══════════════════════════════════════════════════════════════════════════════

// CadreDTO is one teaching-staff record. The collaborator serves these
// camelCased, unlike the snake_cased user records.
type CadreDTO struct {
	ID             int64  `json:"id"`
	LastName       string `json:"lastName"`
	FirstName      string `json:"firstName"`
	EmailAddress   string `json:"emailAddress,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	FacultyName    string `json:"facultyName,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`
}

// RepopulateDTO reports the outcome of a cadre repopulation.
type RepopulateDTO struct {
	Success bool   `json:"success"`
	Added   int    `json:"added"`
	Error   string `json:"error,omitempty"`
}

// TeacherRefDTO is the trimmed cadre shape of the faculty/department
// teacher listing.
type TeacherRefDTO struct {
	ID           int64  `json:"id"`
	LastName     string `json:"lastName"`
	FirstName    string `json:"firstName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// CourseDTO is a course record.
type CourseDTO struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	OwnerUserID      int64  `json:"owner_user_id"`
	Specialization   string `json:"specialization"`
	UniversitaryYear int    `json:"universitary_year"`
}

// CourseNameDTO is the name-only course shape of the teacher-courses
// lookup.
type CourseNameDTO struct {
	Name string `json:"name"`
}

// GroupDTO is a student-group record.
type GroupDTO struct {
	ID               int64  `json:"id"`
	GroupNr          string `json:"group_nr"`
	Specialization   string `json:"specialization"`
	UniversitaryYear int    `json:"universitary_year"`
	Subgroup         string `json:"subgroup,omitempty"`
	Faculty          string `json:"faculty,omitempty"`
	Type             string `json:"type,omitempty"`
}

// ClassroomDTO is an exam-room record.
type ClassroomDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// apiErrorDTO is the collaborator's error envelope ({"detail": ...}).
type apiErrorDTO struct {
	Detail string `json:"detail"`
}

// APIError is a non-2xx response from the collaborator.
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error: status %d", e.Status)
}

// IsAuth reports whether the error is the collaborator rejecting the
// bearer token (or its absence).
func (e *APIError) IsAuth() bool {
	return e.Status == 401 || e.Status == 403
}
