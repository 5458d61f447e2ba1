// Package verbosity provides the built-in verbosity middleware: when its
// verbose flag is set, every inward member sees a debug-level logger in
// its context.
package verbosity

import (
	"context"
	"log/slog"
	"os"

	"github.com/vk/weft/internal/ctxlog"
	"github.com/vk/weft/internal/inject"
	"github.com/vk/weft/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Wrap is the middleware body. The verbose dependency is weak, so the
// middleware is inert on chains where nobody strongly needs the flag.
func Wrap(ctx context.Context, next inject.Next, args inject.Args) (any, error) {
	if args.Bool("verbose") {
		debug := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		ctx = ctxlog.WithLogger(ctx, debug)
	}
	return next.Invoke(ctx, nil)
}

// Register registers the middleware with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegisterMiddleware("middleware.verbosity", inject.Declaration{
		Params: []inject.Param{
			inject.Required(inject.ContinuationName),
			inject.Optional("verbose", false),
		},
		Middleware: Wrap,
	}, nil)
}
