// Package exam contains the exam-request model and the role-scoped
// visibility rules. Pure business logic: the full collection comes in,
// the subset the current identity may see comes out.
package exam

import (
	"time"

	"github.com/examdesk/examdesk-core/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXAM REQUEST
// ══════════════════════════════════════════════════════════════════════════════

// ExamID is the collaborator-assigned identifier of an exam request.
type ExamID int64

// IsValid checks that the ID is positive.
func (e ExamID) IsValid() bool {
	return e > 0
}

// Request is a single exam-scheduling request.
//
// Titular is the instructor of record and is stored as free text, not a
// foreign key: the upstream convention for it is inconsistent ("Last
// First" and "First Last" both occur), which is why teacher visibility
// matches it fuzzily in both orders.
type Request struct {
	ID         ExamID
	Group      string
	Discipline string
	Titular    string
	Asistent   string // optional assisting instructor, free text
	Date       time.Time
	Hour       string // time of day, wire format "15:04:05"
	Room       string
	StudentID  identity.UserID
	CourseID   int64 // optional; 0 when the collaborator sent none
}

// Draft is the mutable field set of a request, used for creates and
// edits. StudentID is carried through on edits so a secretary updating a
// student's request does not orphan it.
type Draft struct {
	Group      string
	Discipline string
	Titular    string
	Asistent   string
	Date       time.Time
	Hour       string
	Room       string
	StudentID  identity.UserID
}
