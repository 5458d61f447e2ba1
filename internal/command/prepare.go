package command

import (
	"context"

	"github.com/vk/weft/internal/config"
	"github.com/vk/weft/internal/ctxlog"
	"github.com/vk/weft/internal/inject"
)

// prepared caches the outcome of resolving and composing one command
// path: the invoker, the resolved chain, and the flags that survived the
// need analysis.
type prepared struct {
	invoke      inject.Invoker
	rc          *inject.ResolvedChain
	activeFlags []*config.FlagDefinition
}

// Prepare resolves and composes every runnable command in the tree.
// Unresolved dependencies surface here, before any argument vector is
// parsed or any member body runs.
func (t *Tree) Prepare(ctx context.Context) error {
	for _, cmd := range t.commands {
		if err := prepareAll(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

func prepareAll(ctx context.Context, cmd *Command) error {
	if cmd.Runnable() {
		if _, err := cmd.prepare(ctx); err != nil {
			return err
		}
	}
	for _, sub := range cmd.subcommands {
		if err := prepareAll(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// prepare resolves the command's effective chain and computes its active
// flag set. The availability set for resolution is the builtin
// injectables plus every candidate flag's injectable name, so the need
// analysis can afterwards ask which of those names the chain strongly
// depends on.
func (c *Command) prepare(ctx context.Context) (*prepared, error) {
	if c.prep != nil {
		return c.prep, nil
	}
	logger := ctxlog.FromContext(ctx)

	entries := c.chain()
	middlewares := make([]*inject.Spec, 0, len(entries))
	for _, e := range entries {
		middlewares = append(middlewares, e.spec)
	}

	cmdFlags := c.commandFlags()
	candidates := make([]*config.FlagDefinition, 0, len(cmdFlags))
	candidates = append(candidates, cmdFlags...)
	for _, e := range entries {
		candidates = append(candidates, e.flags...)
	}

	pre := inject.BuiltinNames()
	for _, f := range candidates {
		pre = append(pre, f.Injects())
	}

	rc := inject.Resolve(middlewares, c.terminal, pre)
	invoke, err := inject.Compose(rc)
	if err != nil {
		return nil, err
	}

	// Command flags are always active. A middleware flag stays only when
	// the resolved chain strongly requires its injectable somewhere.
	active := make([]*config.FlagDefinition, 0, len(candidates))
	active = append(active, cmdFlags...)
	for _, e := range entries {
		for _, f := range e.flags {
			if rc.Needs(f.Injects()) {
				active = append(active, f)
			} else {
				logger.Debug("Suppressing weakly requested flag.",
					"command", c.Name, "middleware", e.name, "flag", f.Name)
			}
		}
	}

	c.prep = &prepared{invoke: invoke, rc: rc, activeFlags: active}
	return c.prep, nil
}

// ActiveFlags returns the flags parsed for this command path, command
// flags first, then surviving middleware flags in chain order. The
// command must have been prepared.
func (c *Command) ActiveFlags(ctx context.Context) ([]*config.FlagDefinition, error) {
	prep, err := c.prepare(ctx)
	if err != nil {
		return nil, err
	}
	return prep.activeFlags, nil
}
