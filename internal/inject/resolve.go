package inject

import "sort"

// ResolvedChain is the output of Resolve: the unmodified chain, the
// static per-member argument subsets, and every required name that never
// became available. An empty Unresolved list means success.
type ResolvedChain struct {
	// Middlewares is the chain in order, outermost first.
	Middlewares []*Spec

	// Terminal is the innermost member.
	Terminal *Spec

	// Unresolved holds the sorted, de-duplicated required names missing
	// across the whole chain.
	Unresolved []string

	argNames map[*Spec][]string
	external []string
}

// Resolve computes name availability along a chain in a single
// left-to-right pass. The availability set starts from preProvided (the
// continuation name is excluded if present) and grows by each
// middleware's provides after its own position, so a member only ever
// sees names produced strictly outward of it.
//
// A required name absent from the availability set is recorded but does
// not stop the pass: the result carries every missing dependency across
// the chain at once. An optional name absent from the set is simply
// omitted from the member's subset; the member falls back to its own
// declared default.
func Resolve(middlewares []*Spec, terminal *Spec, preProvided []string) *ResolvedChain {
	available := make(map[string]struct{}, len(preProvided))
	for _, name := range preProvided {
		if name == ContinuationName {
			continue
		}
		available[name] = struct{}{}
	}

	rc := &ResolvedChain{
		Middlewares: middlewares,
		Terminal:    terminal,
		argNames:    make(map[*Spec][]string, len(middlewares)+1),
	}

	// Names produced by the chain itself, to tell chain-internal
	// satisfaction apart from pre-provided satisfaction.
	chainProvided := make(map[string]struct{})
	externalSet := make(map[string]struct{})
	missing := make(map[string]struct{})

	members := make([]*Spec, 0, len(middlewares)+1)
	members = append(members, middlewares...)
	members = append(members, terminal)

	for _, m := range members {
		var subset []string
		for _, name := range m.Required {
			if _, ok := available[name]; ok {
				subset = append(subset, name)
			} else {
				missing[name] = struct{}{}
			}
		}
		for name := range m.Optional {
			if _, ok := available[name]; ok {
				subset = append(subset, name)
			}
		}
		sort.Strings(subset)
		rc.argNames[m] = subset

		for _, name := range subset {
			if _, internal := chainProvided[name]; !internal {
				externalSet[name] = struct{}{}
			}
		}

		if !m.Terminal {
			for _, prov := range m.Provides {
				available[prov] = struct{}{}
				chainProvided[prov] = struct{}{}
			}
		}
	}

	rc.Unresolved = sortedKeys(missing)
	rc.external = sortedKeys(externalSet)
	return rc
}

// Err returns nil on success, or an UnresolvedDependencyError carrying
// the full missing-name list.
func (rc *ResolvedChain) Err() error {
	if len(rc.Unresolved) == 0 {
		return nil
	}
	return &UnresolvedDependencyError{Missing: append([]string(nil), rc.Unresolved...)}
}

// ArgNames returns the static, sorted subset of names member m receives.
func (rc *ResolvedChain) ArgNames(m *Spec) []string {
	return rc.argNames[m]
}

// ExternalNames returns, sorted, the names the chain consumes from the
// pre-provided mapping rather than from its own middlewares. The dispatch
// layer uses this to know which values it must materialize before
// invoking the chain.
func (rc *ResolvedChain) ExternalNames() []string {
	return rc.external
}

// Needs reports whether name is a strong dependency of any member of the
// chain, terminal included. The flag layer consults this per resolved
// chain: a flag whose injectable is only ever weakly requested is
// suppressed entirely, and each member's local default applies uniformly.
func (rc *ResolvedChain) Needs(name string) bool {
	for _, m := range rc.Middlewares {
		if m.requires(name) {
			return true
		}
	}
	return rc.Terminal.requires(name)
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
