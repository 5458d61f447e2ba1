// Package timing provides the built-in timing middleware: it stamps the
// chain's start time and can report the elapsed duration after the inner
// chain returns.
package timing

import (
	"context"
	"time"

	"github.com/vk/weft/internal/ctxlog"
	"github.com/vk/weft/internal/inject"
	"github.com/vk/weft/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Wrap is the middleware body. It provides start_time to inward members
// and weakly requests print_time; when nobody on the chain strongly needs
// the flag, the false default applies and nothing is reported.
func Wrap(ctx context.Context, next inject.Next, args inject.Args) (any, error) {
	start := time.Now()

	res, err := next.Invoke(ctx, inject.Args{"start_time": start})

	if args.Bool("print_time") {
		ctxlog.FromContext(ctx).Info("Chain finished.", "duration", time.Since(start))
	}
	return res, err
}

// Register registers the middleware with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegisterMiddleware("middleware.timing", inject.Declaration{
		Params: []inject.Param{
			inject.Required(inject.ContinuationName),
			inject.Optional("print_time", false),
		},
		Middleware: Wrap,
	}, []string{"start_time"})
}
