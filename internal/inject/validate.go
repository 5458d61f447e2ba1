package inject

import (
	"fmt"
	"sort"
)

// Validate checks a declaration against the member signature rules and
// returns its immutable Spec. It runs synchronously at registration time;
// a declaration that passes here can never fail for signature reasons
// during resolution or invocation.
//
// The rules, each a distinct failure:
//
//   - the declaration must carry a body matching its role (Middleware for
//     non-terminals, Handler for terminals);
//   - a middleware's first parameter must be ContinuationName;
//   - ContinuationName may not appear anywhere else: not in a terminal's
//     parameters, not past first position, not in provides;
//   - catch-all parameter capture (VariadicArgs, VariadicNamed) is
//     disallowed for every member;
//   - a terminal declares no provides;
//   - provides may not intersect the reserved set.
func Validate(decl Declaration, provides []string, terminal bool, reserved ReservedSet) (*Spec, error) {
	name := decl.DisplayName
	if name == "" {
		name = "<anonymous>"
	}

	if terminal {
		if decl.Handler == nil {
			return nil, &SignatureError{Member: name, Reason: "terminal declaration has no handler body"}
		}
		if len(provides) > 0 {
			return nil, &SignatureError{Member: name, Reason: "a terminal never declares provided names"}
		}
	} else {
		if decl.Middleware == nil {
			return nil, &SignatureError{Member: name, Reason: "middleware declaration has no body"}
		}
		if len(decl.Params) == 0 || decl.Params[0].Name != ContinuationName {
			return nil, &SignatureError{
				Member: name,
				Reason: fmt.Sprintf("first parameter must be %q", ContinuationName),
			}
		}
	}

	if decl.VariadicArgs {
		return nil, &SignatureError{Member: name, Reason: "catch-all positional parameters are not allowed; every consumable name must be explicit"}
	}
	if decl.VariadicNamed {
		return nil, &SignatureError{Member: name, Reason: "catch-all named parameters are not allowed; every consumable name must be explicit"}
	}

	spec := &Spec{
		Name:       name,
		Optional:   make(map[string]any),
		Terminal:   terminal,
		middleware: decl.Middleware,
		handler:    decl.Handler,
	}

	seen := make(map[string]struct{}, len(decl.Params))
	for i, p := range decl.Params {
		if !terminal && i == 0 {
			continue // the continuation, excluded from both sets
		}
		if p.Name == ContinuationName {
			reason := fmt.Sprintf("parameter %q is reserved for the continuation", ContinuationName)
			if !terminal {
				reason = fmt.Sprintf("parameter %q must appear exactly once, as the first parameter", ContinuationName)
			}
			return nil, &SignatureError{Member: name, Reason: reason}
		}
		if p.Name == "" {
			return nil, &SignatureError{Member: name, Reason: "parameter with empty name"}
		}
		if _, dup := seen[p.Name]; dup {
			return nil, &SignatureError{Member: name, Reason: fmt.Sprintf("duplicate parameter %q", p.Name)}
		}
		seen[p.Name] = struct{}{}

		if p.HasDefault {
			spec.Optional[p.Name] = p.Default
		} else {
			spec.Required = append(spec.Required, p.Name)
		}
	}
	sort.Strings(spec.Required)

	var conflicts []string
	for _, prov := range provides {
		if reserved.Contains(prov) {
			conflicts = append(conflicts, prov)
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, &NameConflictError{Member: name, Conflicts: conflicts}
	}
	spec.Provides = append([]string(nil), provides...)

	return spec, nil
}
