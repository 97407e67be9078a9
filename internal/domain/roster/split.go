package roster

import "strings"

// ══════════════════════════════════════════════════════════════════════════════
// NAME-SPLIT CONVENTIONS
// ══════════════════════════════════════════════════════════════════════════════
//
// The upload surfaces disagree about which end of a full name is the
// surname, and the records already created under each convention make
// unifying them a data migration, not a refactor. Both conventions are
// therefore kept as explicit, named strategies; every import entry
// point binds exactly one.

// SplitFunc maps a trimmed full name to (first, last).
type SplitFunc func(fullName string) (first, last string)

// SplitSurnameFirst treats the FIRST whitespace token as the surname and
// the remainder as the given name ("Popescu Ion Andrei" -> first "Ion
// Andrei", last "Popescu"). The student-roster upload uses this. A
// single-token name fills both fields.
func SplitSurnameFirst(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	default:
		return strings.Join(parts[1:], " "), parts[0]
	}
}

// SplitSurnameLast treats the LAST whitespace token as the surname and
// the remainder as the given name ("Ana Maria Georgescu" -> first "Ana
// Maria", last "Georgescu"). The secretary and cadre bulk uploads use
// this. A single-token name fills both fields.
func SplitSurnameLast(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}
