package inject

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustMiddleware builds a validated middleware spec for resolver tests.
// Parameter names are required unless listed in optional.
func mustMiddleware(t *testing.T, name string, requires, optional, provides []string) *Spec {
	t.Helper()
	params := []Param{Required(ContinuationName)}
	for _, req := range requires {
		params = append(params, Required(req))
	}
	for _, opt := range optional {
		params = append(params, Optional(opt, nil))
	}
	spec, err := Validate(Declaration{
		DisplayName: name,
		Params:      params,
		Middleware:  noopMiddleware,
	}, provides, false, DefaultReserved())
	require.NoError(t, err)
	return spec
}

func mustTerminal(t *testing.T, name string, requires, optional []string) *Spec {
	t.Helper()
	var params []Param
	for _, req := range requires {
		params = append(params, Required(req))
	}
	for _, opt := range optional {
		params = append(params, Optional(opt, nil))
	}
	spec, err := Validate(Declaration{
		DisplayName: name,
		Params:      params,
		Handler:     noopHandler,
	}, nil, true, DefaultReserved())
	require.NoError(t, err)
	return spec
}

func TestResolve_ProvidedNameSatisfiesInnerMember(t *testing.T) {
	t.Parallel()

	timing := mustMiddleware(t, "timing", nil, nil, []string{"start_time"})
	terminal := mustTerminal(t, "handler", []string{"start_time"}, nil)

	rc := Resolve([]*Spec{timing}, terminal, nil)

	require.NoError(t, rc.Err())
	assert.Empty(t, rc.Unresolved)
	assert.Equal(t, []string{"start_time"}, rc.ArgNames(terminal))
}

func TestResolve_RemovingProviderFailsSameChain(t *testing.T) {
	t.Parallel()

	terminal := mustTerminal(t, "handler", []string{"start_time"}, nil)

	rc := Resolve(nil, terminal, nil)

	err := rc.Err()
	var unres *UnresolvedDependencyError
	require.ErrorAs(t, err, &unres)
	assert.Equal(t, []string{"start_time"}, unres.Missing)
}

func TestResolve_ValuesNeverFlowInwardToOutward(t *testing.T) {
	t.Parallel()

	// outer requires a name only the inner middleware provides.
	outer := mustMiddleware(t, "outer", []string{"token"}, nil, nil)
	inner := mustMiddleware(t, "inner", nil, nil, []string{"token"})
	terminal := mustTerminal(t, "handler", nil, nil)

	rc := Resolve([]*Spec{outer, inner}, terminal, nil)

	var unres *UnresolvedDependencyError
	require.ErrorAs(t, rc.Err(), &unres)
	assert.Equal(t, []string{"token"}, unres.Missing)

	// A member never sees its own provides either.
	selfish := mustMiddleware(t, "selfish", []string{"token"}, nil, []string{"token"})
	rc = Resolve([]*Spec{selfish}, terminal, nil)
	require.ErrorAs(t, rc.Err(), &unres)
}

func TestResolve_CollectsAllMissingNamesAcrossChain(t *testing.T) {
	t.Parallel()

	a := mustMiddleware(t, "a", []string{"zeta", "alpha"}, nil, nil)
	b := mustMiddleware(t, "b", []string{"mid"}, nil, nil)
	terminal := mustTerminal(t, "handler", []string{"alpha", "omega"}, nil)

	rc := Resolve([]*Spec{a, b}, terminal, nil)

	var unres *UnresolvedDependencyError
	require.ErrorAs(t, rc.Err(), &unres)
	// Sorted and de-duplicated across every member, not just the first
	// failing one.
	assert.Equal(t, []string{"alpha", "mid", "omega", "zeta"}, unres.Missing)
}

func TestResolve_WeakRequestNeverForcesAvailability(t *testing.T) {
	t.Parallel()

	terminalWeak := mustTerminal(t, "weak", nil, []string{"region"})
	terminalStrong := mustTerminal(t, "strong", []string{"region"}, nil)

	weak := Resolve(nil, terminalWeak, nil)
	strong := Resolve(nil, terminalStrong, nil)

	// Same request, same conditions: only the defaulted variant resolves.
	require.NoError(t, weak.Err())
	assert.Empty(t, weak.ArgNames(terminalWeak))

	var unres *UnresolvedDependencyError
	require.ErrorAs(t, strong.Err(), &unres)
	assert.Equal(t, []string{"region"}, unres.Missing)
}

func TestResolve_OptionalSubsetOnlyContainsAvailableNames(t *testing.T) {
	t.Parallel()

	mw := mustMiddleware(t, "mw", nil, nil, []string{"present"})
	terminal := mustTerminal(t, "handler", nil, []string{"present", "absent"})

	rc := Resolve([]*Spec{mw}, terminal, nil)

	require.NoError(t, rc.Err())
	assert.Equal(t, []string{"present"}, rc.ArgNames(terminal))
}

func TestResolve_AvailabilityIsMonotonic(t *testing.T) {
	t.Parallel()

	// Each member optionally requests everything any middleware provides;
	// its subset is therefore exactly the availability set at its
	// position, which must never shrink as we walk inward.
	all := []string{"one", "two", "three"}
	a := mustMiddleware(t, "a", nil, all, []string{"one"})
	b := mustMiddleware(t, "b", nil, all, []string{"two"})
	c := mustMiddleware(t, "c", nil, all, []string{"three"})
	terminal := mustTerminal(t, "handler", nil, all)

	rc := Resolve([]*Spec{a, b, c}, terminal, []string{"seed"})
	require.NoError(t, rc.Err())

	members := []*Spec{a, b, c, terminal}
	for i := 1; i < len(members); i++ {
		assert.Subset(t, rc.ArgNames(members[i]), rc.ArgNames(members[i-1]),
			"availability shrank between position %d and %d", i-1, i)
	}
}

func TestResolve_IsDeterministic(t *testing.T) {
	t.Parallel()

	a := mustMiddleware(t, "a", []string{"flag_b", "flag_a"}, []string{"opt_z", "opt_a"}, []string{"p1", "p2"})
	terminal := mustTerminal(t, "handler", []string{"p2", "missing_b", "missing_a"}, nil)
	pre := []string{"flag_a", "flag_b", "opt_a"}

	first := Resolve([]*Spec{a}, terminal, pre)
	for i := 0; i < 5; i++ {
		again := Resolve([]*Spec{a}, terminal, pre)
		if diff := cmp.Diff(first.Unresolved, again.Unresolved); diff != "" {
			t.Fatalf("unresolved names differ between runs (-first +again):\n%s", diff)
		}
		if diff := cmp.Diff(first.ArgNames(a), again.ArgNames(a)); diff != "" {
			t.Fatalf("arg subset differs between runs (-first +again):\n%s", diff)
		}
		if diff := cmp.Diff(first.ArgNames(terminal), again.ArgNames(terminal)); diff != "" {
			t.Fatalf("terminal subset differs between runs (-first +again):\n%s", diff)
		}
	}
}

func TestResolve_ContinuationNameStrippedFromPreProvided(t *testing.T) {
	t.Parallel()

	terminal := mustTerminal(t, "handler", nil, nil)

	rc := Resolve(nil, terminal, []string{ContinuationName, "fine"})

	require.NoError(t, rc.Err())
	assert.Empty(t, rc.ArgNames(terminal))
}

func TestResolve_ExternalNamesExcludeChainProvided(t *testing.T) {
	t.Parallel()

	timing := mustMiddleware(t, "timing", nil, []string{"print_time"}, []string{"start_time"})
	terminal := mustTerminal(t, "handler", []string{"start_time", "user"}, nil)

	rc := Resolve([]*Spec{timing}, terminal, []string{"print_time", "user", "unused"})

	require.NoError(t, rc.Err())
	// start_time comes from the chain itself; print_time and user come
	// from outside; unused is consumed by nobody.
	assert.Equal(t, []string{"print_time", "user"}, rc.ExternalNames())
}

func TestResolvedChain_Needs(t *testing.T) {
	t.Parallel()

	timing := mustMiddleware(t, "timing", nil, []string{"print_time"}, []string{"start_time"})
	strongTerminal := mustTerminal(t, "strong", []string{"print_time"}, nil)
	weakTerminal := mustTerminal(t, "weak", nil, []string{"print_time"})

	withStrong := Resolve([]*Spec{timing}, strongTerminal, []string{"print_time"})
	withWeak := Resolve([]*Spec{timing}, weakTerminal, []string{"print_time"})

	// Needed when some member requires it strongly, even just the
	// terminal; not needed when every reference is defaulted.
	assert.True(t, withStrong.Needs("print_time"))
	assert.False(t, withWeak.Needs("print_time"))
	assert.False(t, withStrong.Needs("start_time"))
}
