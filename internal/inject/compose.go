package inject

import "context"

// Invoker is a fully composed chain. Invoking it runs the outermost
// middleware with its resolved argument subset and a continuation bound
// to the next member's composed form, and so on inward to the terminal.
// Execution is strictly sequential; errors from member bodies propagate
// by ordinary return-value unwinding through every member that has
// already begun executing.
type Invoker func(ctx context.Context, values Args) (any, error)

// step is one composed level of the chain: it receives the current scope
// and runs itself plus everything inward of it.
type step func(ctx context.Context, scope Args) (any, error)

// continuation adapts the inward step to the Next interface, capturing
// the scope at the point the owning middleware was entered. Extra
// bindings create a fresh scope for the inward portion only: outward
// frames never observe them.
type continuation struct {
	inner step
	scope Args
}

func (c *continuation) Invoke(ctx context.Context, extra Args) (any, error) {
	scope := c.scope
	if len(extra) > 0 {
		scope = c.scope.clone()
		for name, v := range extra {
			if name == ContinuationName {
				continue
			}
			scope[name] = v
		}
	}
	return c.inner(ctx, scope)
}

// Compose builds the invocable pipeline for a successfully resolved
// chain, right to left: the terminal is bound first, then each middleware
// from innermost to outermost wraps what came before. Composition fails
// with the chain's UnresolvedDependencyError when any required name is
// missing; no partial pipeline is ever returned.
func Compose(rc *ResolvedChain) (Invoker, error) {
	if err := rc.Err(); err != nil {
		return nil, err
	}

	terminal := rc.Terminal
	inner := step(func(ctx context.Context, scope Args) (any, error) {
		return terminal.handler(ctx, terminal.bind(scope))
	})

	for i := len(rc.Middlewares) - 1; i >= 0; i-- {
		m := rc.Middlewares[i]
		next := inner
		inner = func(ctx context.Context, scope Args) (any, error) {
			return m.middleware(ctx, &continuation{inner: next, scope: scope}, m.bind(scope))
		}
	}

	entry := inner
	return func(ctx context.Context, values Args) (any, error) {
		scope := values.clone()
		delete(scope, ContinuationName)
		return entry(ctx, scope)
	}, nil
}

// Chain resolves and composes in one call: the resolution API used by the
// dispatch layer. It fails fast with an UnresolvedDependencyError before
// any member body can run.
func Chain(middlewares []*Spec, terminal *Spec, preProvided []string) (Invoker, error) {
	return Compose(Resolve(middlewares, terminal, preProvided))
}
