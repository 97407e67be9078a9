// Package cadre contains the teaching-staff roster model. Cadre records
// are owned by the remote collaborator; the core reads, filters and
// submits edits.
package cadre

// Member is one teaching-staff record, scoped by faculty and department.
type Member struct {
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Faculty    string
	Department string
}

// FullName returns "last first", the display order of the admin panel.
func (m Member) FullName() string {
	if m.FirstName == "" {
		return m.LastName
	}
	return m.LastName + " " + m.FirstName
}

// RepopulateResult reports a cadre-table rebuild.
type RepopulateResult struct {
	Success bool
	Added   int
	Error   string
}

// FilterByDepartment narrows the roster to one department. An empty
// selector means no filter.
func FilterByDepartment(members []Member, department string) []Member {
	if department == "" {
		return members
	}
	var out []Member
	for _, m := range members {
		if m.Department == department {
			out = append(out, m)
		}
	}
	return out
}
