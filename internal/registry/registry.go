package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/weft/internal/inject"
)

// Module is the interface built-in and host modules implement to add
// their middlewares and handlers to a registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds the validated chain-member specs for a single
// application instance, keyed by the names manifests use.
type Registry struct {
	middlewares map[string]*inject.Spec
	handlers    map[string]*inject.Spec
	reserved    inject.ReservedSet
}

// New creates a registry using the default reserved-name set.
func New() *Registry {
	return NewWithReserved(inject.DefaultReserved())
}

// NewWithReserved creates a registry with a substituted reserved set.
func NewWithReserved(reserved inject.ReservedSet) *Registry {
	return &Registry{
		middlewares: make(map[string]*inject.Spec),
		handlers:    make(map[string]*inject.Spec),
		reserved:    reserved,
	}
}

// RegisterMiddleware validates decl and stores it as a middleware under
// name. Registration is synchronous and fail-fast: a declaration that
// passes here can never fail validation later. Registering the same name
// twice is a programmer error.
func (r *Registry) RegisterMiddleware(name string, decl inject.Declaration, provides []string) (*inject.Spec, error) {
	if _, exists := r.middlewares[name]; exists {
		panic(fmt.Sprintf("middleware with name '%s' already registered", name))
	}
	if decl.DisplayName == "" {
		decl.DisplayName = name
	}
	spec, err := inject.Validate(decl, provides, false, r.reserved)
	if err != nil {
		return nil, err
	}
	slog.Debug("Registering middleware.", "name", name)
	r.middlewares[name] = spec
	return spec, nil
}

// RegisterHandler validates decl and stores it as a terminal handler
// under name.
func (r *Registry) RegisterHandler(name string, decl inject.Declaration) (*inject.Spec, error) {
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	if decl.DisplayName == "" {
		decl.DisplayName = name
	}
	spec, err := inject.Validate(decl, nil, true, r.reserved)
	if err != nil {
		return nil, err
	}
	slog.Debug("Registering handler.", "name", name)
	r.handlers[name] = spec
	return spec, nil
}

// MustRegisterMiddleware is RegisterMiddleware that panics on validation
// failure, for module init paths where a bad declaration is a bug.
func (r *Registry) MustRegisterMiddleware(name string, decl inject.Declaration, provides []string) *inject.Spec {
	spec, err := r.RegisterMiddleware(name, decl, provides)
	if err != nil {
		panic(err)
	}
	return spec
}

// MustRegisterHandler is RegisterHandler that panics on validation
// failure.
func (r *Registry) MustRegisterHandler(name string, decl inject.Declaration) *inject.Spec {
	spec, err := r.RegisterHandler(name, decl)
	if err != nil {
		panic(err)
	}
	return spec
}

// Middleware returns the middleware spec registered under name.
func (r *Registry) Middleware(name string) (*inject.Spec, bool) {
	spec, ok := r.middlewares[name]
	return spec, ok
}

// Handler returns the handler spec registered under name.
func (r *Registry) Handler(name string) (*inject.Spec, bool) {
	spec, ok := r.handlers[name]
	return spec, ok
}

// Reserved returns the reserved-name set this registry validates against.
func (r *Registry) Reserved() inject.ReservedSet {
	return r.reserved
}
