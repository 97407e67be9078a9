// Package roster contains the pure part of the bulk roster ingestion:
// structural filtering of raw tabular rows, header sniffing, and the
// splitting of free-text full names into first/last name pairs.
package roster

import "strings"

// ══════════════════════════════════════════════════════════════════════════════
// ROWS AND RECORDS
// ══════════════════════════════════════════════════════════════════════════════

// Row is one raw row of the uploaded table. Only the first two cells are
// semantically significant: full name, then email.
type Row []string

// Person is a normalized roster entry ready for submission.
type Person struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ImportResult is the collaborator's per-row partition of a submitted
// batch, passed through verbatim for display. Error is set instead of
// the partition when the submission itself failed.
type ImportResult struct {
	Created []Person `json:"created,omitempty"`
	Skipped []Person `json:"skipped,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// STRUCTURAL FILTER AND HEADER SNIFFING
// ══════════════════════════════════════════════════════════════════════════════

// CleanRows drops rows that cannot be data: fewer than two columns, or
// an empty name or email cell. It runs before header detection, so a
// header hiding behind leading junk rows is still caught.
func CleanRows(rows []Row) []Row {
	var out []Row
	for _, r := range rows {
		if len(r) < 2 {
			continue
		}
		if strings.TrimSpace(r[0]) == "" || strings.TrimSpace(r[1]) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// StripHeader removes the first row when it looks like a header: the
// name cell containing "name" or the email cell containing "email",
// case-insensitively. Exactly one row is ever removed.
func StripHeader(rows []Row) []Row {
	if len(rows) == 0 {
		return rows
	}
	first := rows[0]
	name := strings.ToLower(first[0])
	email := strings.ToLower(first[1])
	if strings.Contains(name, "name") || strings.Contains(email, "email") {
		return rows[1:]
	}
	return rows
}

// Normalize turns cleaned, header-stripped rows into Person records
// using the given name-split convention.
func Normalize(rows []Row, split SplitFunc) []Person {
	people := make([]Person, 0, len(rows))
	for _, r := range rows {
		first, last := split(strings.TrimSpace(r[0]))
		people = append(people, Person{
			FirstName: first,
			LastName:  last,
			Email:     strings.TrimSpace(r[1]),
		})
	}
	return people
}
