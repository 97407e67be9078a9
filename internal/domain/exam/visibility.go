package exam

import (
	"strings"

	"github.com/examdesk/examdesk-core/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLE-SCOPED VISIBILITY
// ══════════════════════════════════════════════════════════════════════════════

// View is the outcome of scoping the full request collection to one
// identity: the rows it may see and whether it may edit them.
type View struct {
	Visible []Request
	CanEdit bool
}

// VisibleTo filters the full request collection for the given identity.
//
//   - STUDENT: only requests it created itself; never editable.
//   - TEACHER: requests whose titular matches the teacher's own name in
//     either token order.
//   - everyone else (ADMIN, SECRETARY, USER, unknown tags): all rows.
func VisibleTo(all []Request, who identity.Identity) View {
	view := View{CanEdit: CanEdit(who)}

	switch identity.ParseRole(string(who.Type)) {
	case identity.RoleStudent:
		for _, r := range all {
			if r.StudentID == who.ID {
				view.Visible = append(view.Visible, r)
			}
		}
		// Students never edit, even where the global capability would
		// otherwise allow it.
		view.CanEdit = false
	case identity.RoleTeacher:
		direct := NormalizeName(who.FirstName + " " + who.LastName)
		inverted := NormalizeName(who.LastName + " " + who.FirstName)
		for _, r := range all {
			titular := NormalizeName(r.Titular)
			if titular == direct || titular == inverted {
				view.Visible = append(view.Visible, r)
			}
		}
	default:
		view.Visible = append(view.Visible, all...)
	}

	return view
}

// CanEdit reports the global exam edit capability of an identity.
//
// The raw legacy role string is compared against the literal "SECRETARY"
// exactly as the original client did. An ADMIN whose role column holds
// anything else sees every row but cannot edit; observed behavior,
// deliberately left unchanged.
func CanEdit(who identity.Identity) bool {
	return identity.ParseRole(string(who.Type)) == identity.RoleTeacher ||
		who.RawRole == "SECRETARY"
}

// FilterByCourse narrows an already role-scoped row set by course
// equality. A zero selector means no filter. The original exposes this
// selector to non-student actors only; students are already scoped to
// their own rows.
func FilterByCourse(rows []Request, courseID int64) []Request {
	if courseID == 0 {
		return rows
	}
	var out []Request
	for _, r := range rows {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	return out
}

// NormalizeName canonicalizes a free-text person name for comparison:
// lower-cased, inner whitespace runs collapsed to single spaces, outer
// whitespace trimmed.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
