package deps

import (
	"regexp"
	"strings"
)

// Operators are the recognized version comparison operators. Longer
// operators come first so prefix matching prefers ">=" over ">".
var Operators = []string{"===", "==", ">=", "<=", "~=", "!=", ">", "<"}

var nameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// SplitRequirement splits a requirement line such as "requests==2.31.0"
// into name and constraint at the earliest operator occurrence. Extras
// ("pkg[extra]") and environment markers ("; python_version<'3.8'") are
// dropped. ok is false when no valid package name can be extracted.
func SplitRequirement(line string) (DependencyRecord, bool) {
	s := strings.TrimSpace(line)
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return DependencyRecord{}, false
	}

	name, constraint := s, ""
	if idx, _ := findOperator(s); idx >= 0 {
		name = s[:idx]
		constraint = strings.Join(strings.Fields(s[idx:]), "")
	}

	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if !nameRE.MatchString(name) {
		return DependencyRecord{}, false
	}
	return DependencyRecord{Name: name, Constraint: constraint}, true
}

// LeadingOperator returns the operator constraint starts with, if any.
func LeadingOperator(constraint string) (string, bool) {
	for _, op := range Operators {
		if strings.HasPrefix(constraint, op) {
			return op, true
		}
	}
	return "", false
}

// findOperator returns the index and text of the first operator in s.
// When several operators start at the same index the longest one wins.
func findOperator(s string) (int, string) {
	best, bestOp := -1, ""
	for _, op := range Operators {
		i := strings.Index(s, op)
		if i < 0 {
			continue
		}
		if best < 0 || i < best || (i == best && len(op) > len(bestOp)) {
			best, bestOp = i, op
		}
	}
	return best, bestOp
}
