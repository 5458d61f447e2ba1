package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/weft/internal/config"
	"github.com/vk/weft/internal/inject"
)

func noopMiddlewareDecl() inject.Declaration {
	return inject.Declaration{
		Params: []inject.Param{inject.Required(inject.ContinuationName)},
		Middleware: func(ctx context.Context, next inject.Next, _ inject.Args) (any, error) {
			return next.Invoke(ctx, nil)
		},
	}
}

func noopHandlerDecl() inject.Declaration {
	return inject.Declaration{
		Handler: func(_ context.Context, _ inject.Args) (any, error) { return nil, nil },
	}
}

func TestRegisterMiddleware_ValidatesAtRegistration(t *testing.T) {
	t.Parallel()

	r := New()

	// A declaration without the continuation as first parameter is
	// rejected here, never deferred to resolution time.
	bad := noopMiddlewareDecl()
	bad.Params = nil
	_, err := r.RegisterMiddleware("Bad", bad, nil)

	var sigErr *inject.SignatureError
	require.ErrorAs(t, err, &sigErr)
	_, ok := r.Middleware("Bad")
	assert.False(t, ok, "failed registrations must not be stored")
}

func TestRegisterMiddleware_DuplicatePanics(t *testing.T) {
	t.Parallel()

	r := New()
	_, err := r.RegisterMiddleware("Dup", noopMiddlewareDecl(), nil)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = r.RegisterMiddleware("Dup", noopMiddlewareDecl(), nil)
	})
}

func TestRegisterHandler_DuplicatePanics(t *testing.T) {
	t.Parallel()

	r := New()
	_, err := r.RegisterHandler("Dup", noopHandlerDecl())
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = r.RegisterHandler("Dup", noopHandlerDecl())
	})
}

func TestValidate_CollectsAllParityMismatches(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	r := New()
	_, err := r.RegisterMiddleware("TimingMiddleware", noopMiddlewareDecl(), []string{"start_time"})
	require.NoError(t, err)

	model := config.NewModel()
	model.Middlewares["timing"] = &config.MiddlewareDefinition{
		Name:     "timing",
		Handler:  "TimingMiddleware",
		Provides: []string{"start_time", "end_time"}, // mismatch
	}
	model.Middlewares["ghost"] = &config.MiddlewareDefinition{
		Name:    "ghost",
		Handler: "GhostMiddleware", // not registered
	}
	model.Commands["serve"] = &config.CommandDefinition{
		Name:        "serve",
		Handler:     "OnServe",           // not registered
		Middlewares: []string{"missing"}, // not defined
	}

	// --- Act ---
	err = r.Validate(context.Background(), model)

	// --- Assert ---
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "manifest provides")
	assert.Contains(t, msg, "GhostMiddleware")
	assert.Contains(t, msg, "OnServe")
	assert.Contains(t, msg, "middleware 'missing'")
}

func TestValidate_FlagInjectingReservedNameRejected(t *testing.T) {
	t.Parallel()

	r := New()
	_, err := r.RegisterMiddleware("M", noopMiddlewareDecl(), nil)
	require.NoError(t, err)

	model := config.NewModel()
	model.Middlewares["m"] = &config.MiddlewareDefinition{
		Name:    "m",
		Handler: "M",
		Flags: []*config.FlagDefinition{
			{Name: "cmd-", Type: cty.String}, // injects "cmd_"
		},
	}

	err = r.Validate(context.Background(), model)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved name 'cmd_'")
}

func TestValidate_GroupCommandWithoutHandlerAllowed(t *testing.T) {
	t.Parallel()

	r := New()
	_, err := r.RegisterHandler("OnStatus", noopHandlerDecl())
	require.NoError(t, err)

	model := config.NewModel()
	model.Commands["server"] = &config.CommandDefinition{
		Name: "server",
		Subcommands: map[string]*config.CommandDefinition{
			"status": {Name: "status", Handler: "OnStatus"},
		},
	}

	require.NoError(t, r.Validate(context.Background(), model))
}

func TestValidate_EmptyCommandRejected(t *testing.T) {
	t.Parallel()

	r := New()
	model := config.NewModel()
	model.Commands["hollow"] = &config.CommandDefinition{Name: "hollow"}

	err := r.Validate(context.Background(), model)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither a handler nor subcommands")
}
