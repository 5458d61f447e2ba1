package inject

import "sort"

// ContinuationName is the reserved first parameter of every middleware
// declaration. It is supplied structurally by Compose, never through the
// availability set, and is illegal as a required, optional, or provided
// name.
const ContinuationName = "next_"

// builtinNames are injectable names the dispatch layer always pre-provides:
// the raw argument vector, the matched command, the subcommand path, the
// parsed flag bundle, and the positional argument slices.
var builtinNames = []string{
	"args_",
	"cmd_",
	"subcmds_",
	"flags_",
	"posargs_",
	"post_posargs_",
	"command_",
}

// ReservedSet is the set of names a member may never declare as provided.
// It is passed explicitly to Validate so tests can substitute their own.
type ReservedSet map[string]struct{}

// DefaultReserved returns the process-wide reserved set: the builtin
// injectables plus the continuation name.
func DefaultReserved() ReservedSet {
	rs := make(ReservedSet, len(builtinNames)+1)
	for _, name := range builtinNames {
		rs[name] = struct{}{}
	}
	rs[ContinuationName] = struct{}{}
	return rs
}

// NewReservedSet builds a reserved set from an explicit list of names.
// The continuation name is always included.
func NewReservedSet(names ...string) ReservedSet {
	rs := make(ReservedSet, len(names)+1)
	for _, name := range names {
		rs[name] = struct{}{}
	}
	rs[ContinuationName] = struct{}{}
	return rs
}

// Contains reports whether name is reserved.
func (rs ReservedSet) Contains(name string) bool {
	_, ok := rs[name]
	return ok
}

// BuiltinNames returns the builtin injectable names in sorted order,
// without the continuation name.
func BuiltinNames() []string {
	names := make([]string, len(builtinNames))
	copy(names, builtinNames)
	sort.Strings(names)
	return names
}
