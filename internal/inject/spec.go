package inject

import "context"

// Args is the set of named values a chain member receives. Each member is
// handed exactly the names it declared and that resolution made available,
// plus its own defaults for optional names nobody supplied.
type Args map[string]any

// Has reports whether name carries a value.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns the value of name as a string, or "" when the value is
// absent or not a string.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Bool returns the value of name as a bool, or false when the value is
// absent or not a bool.
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Float returns the value of name as a float64, or 0 when the value is
// absent or not a float64.
func (a Args) Float(name string) float64 {
	f, _ := a[name].(float64)
	return f
}

// Strings returns the value of name as a string slice, or nil.
func (a Args) Strings(name string) []string {
	s, _ := a[name].([]string)
	return s
}

func (a Args) clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Next represents the rest of the chain inward of a middleware. A
// middleware controls downstream execution entirely through whether and
// how it invokes its continuation: not invoking it short-circuits the
// chain and makes the middleware's own return value the overall result.
type Next interface {
	// Invoke runs the inward portion of the chain. Extra bindings are
	// merged into the scope visible to inward members. Extras are not
	// statically checked against the caller's declared provides; a
	// middleware may pass additional names, which simply bypass the
	// resolver's guarantees for whoever consumes them.
	Invoke(ctx context.Context, extra Args) (any, error)
}

// MiddlewareFunc is the body of a non-terminal chain member.
type MiddlewareFunc func(ctx context.Context, next Next, args Args) (any, error)

// HandlerFunc is the body of a terminal chain member.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Param is one explicitly named parameter of a declaration. A parameter
// with a default is an optional (weak) dependency; one without is
// required (strong).
type Param struct {
	Name       string
	Default    any
	HasDefault bool
}

// Optional returns a Param carrying a default value.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Required returns a Param with no default.
func Required(name string) Param {
	return Param{Name: name}
}

// Declaration is the explicit, structured description of a chain member's
// signature. There is no runtime introspection: every name the member can
// consume must be listed here, in order, with the continuation first for
// middlewares.
type Declaration struct {
	// DisplayName identifies the member in error messages.
	DisplayName string

	// Params is the ordered parameter list. For middlewares the first
	// entry must be named ContinuationName.
	Params []Param

	// VariadicArgs marks a declaration that claims to accept arbitrary
	// extra positional values. Disallowed: Validate rejects it.
	VariadicArgs bool

	// VariadicNamed marks a declaration that claims to accept arbitrary
	// extra named values. Disallowed: Validate rejects it.
	VariadicNamed bool

	// Middleware is the body of a non-terminal member.
	Middleware MiddlewareFunc

	// Handler is the body of a terminal member.
	Handler HandlerFunc
}

// Spec is a validated chain member descriptor. Specs are immutable after
// Validate returns them and safe to share across resolutions.
type Spec struct {
	// Name is the member's display name.
	Name string

	// Required holds the member's strong dependencies, sorted.
	Required []string

	// Optional maps each weak dependency to the member's local default.
	Optional map[string]any

	// Provides lists the names this member makes available inward, in
	// declaration order. Always empty for terminals.
	Provides []string

	// Terminal marks the innermost member.
	Terminal bool

	middleware MiddlewareFunc
	handler    HandlerFunc
}

// requires reports whether name is a strong dependency of the member.
func (s *Spec) requires(name string) bool {
	for _, req := range s.Required {
		if req == name {
			return true
		}
	}
	return false
}

// bind selects the member's arguments from scope: every declared name
// present in scope, plus the member's own default for any optional name
// the scope does not carry.
func (s *Spec) bind(scope Args) Args {
	args := make(Args, len(s.Required)+len(s.Optional))
	for _, name := range s.Required {
		if v, ok := scope[name]; ok {
			args[name] = v
		}
	}
	for name, def := range s.Optional {
		if v, ok := scope[name]; ok {
			args[name] = v
		} else {
			args[name] = def
		}
	}
	return args
}
