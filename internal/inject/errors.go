package inject

import (
	"fmt"
	"strings"
)

// SignatureError reports a malformed member declaration: a missing or
// mispositioned continuation parameter, a catch-all parameter capture, or
// a terminal that declares provided names.
type SignatureError struct {
	Member string
	Reason string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("invalid declaration for %q: %s", e.Member, e.Reason)
}

// NameConflictError reports declared provides that collide with the
// reserved builtin names.
type NameConflictError struct {
	Member    string
	Conflicts []string // sorted
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("provides of %q conflict with reserved builtin names: %s",
		e.Member, strings.Join(e.Conflicts, ", "))
}

// UnresolvedDependencyError reports every required name that never
// becomes available anywhere along a chain. Missing is sorted and
// de-duplicated across all members; resolution is all-or-nothing, so no
// partial chain accompanies this error.
type UnresolvedDependencyError struct {
	Missing []string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("unresolved chain dependencies: %s", strings.Join(e.Missing, ", "))
}
