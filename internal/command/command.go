package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/weft/internal/config"
	"github.com/vk/weft/internal/ctxlog"
	"github.com/vk/weft/internal/inject"
	"github.com/vk/weft/internal/registry"
)

// Tree is the root of an application's command hierarchy.
type Tree struct {
	// Program is the binary name shown in usage text.
	Program string

	commands map[string]*Command
}

// Command is one node of the tree: either a runnable command (it has a
// terminal handler) or a group for its subcommands, or both.
type Command struct {
	Name        string
	Description string

	parent      *Command
	terminal    *inject.Spec
	middlewares []*mwEntry
	flags       []*config.FlagDefinition
	posargs     *config.PosArgsDefinition
	subcommands map[string]*Command

	prep *prepared
}

// mwEntry pairs a middleware spec with the flags its manifest attached.
type mwEntry struct {
	name  string
	spec  *inject.Spec
	flags []*config.FlagDefinition
}

// NewTree builds the command tree for a model whose parity with the
// registry has already been validated.
func NewTree(ctx context.Context, program string, model *config.Model, reg *registry.Registry) (*Tree, error) {
	logger := ctxlog.FromContext(ctx)
	tree := &Tree{Program: program, commands: make(map[string]*Command)}

	names := make([]string, 0, len(model.Commands))
	for name := range model.Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd, err := buildCommand(model, reg, model.Commands[name], nil)
		if err != nil {
			return nil, err
		}
		tree.commands[name] = cmd
	}

	logger.Debug("Command tree built.", "top_level_commands", len(tree.commands))
	return tree, nil
}

func buildCommand(model *config.Model, reg *registry.Registry, def *config.CommandDefinition, parent *Command) (*Command, error) {
	cmd := &Command{
		Name:        def.Name,
		Description: def.Description,
		parent:      parent,
		flags:       def.Flags,
		posargs:     def.PosArgs,
		subcommands: make(map[string]*Command),
	}

	if def.Handler != "" {
		spec, ok := reg.Handler(def.Handler)
		if !ok {
			return nil, fmt.Errorf("command %q: handler %q is not registered", def.Name, def.Handler)
		}
		cmd.terminal = spec
	}

	for _, mwName := range def.Middlewares {
		mwDef, ok := model.Middlewares[mwName]
		if !ok {
			return nil, fmt.Errorf("command %q: middleware %q is not defined", def.Name, mwName)
		}
		spec, ok := reg.Middleware(mwDef.Handler)
		if !ok {
			return nil, fmt.Errorf("middleware %q: handler %q is not registered", mwName, mwDef.Handler)
		}
		cmd.middlewares = append(cmd.middlewares, &mwEntry{name: mwName, spec: spec, flags: mwDef.Flags})
	}

	subNames := make([]string, 0, len(def.Subcommands))
	for name := range def.Subcommands {
		subNames = append(subNames, name)
	}
	sort.Strings(subNames)

	for _, name := range subNames {
		sub, err := buildCommand(model, reg, def.Subcommands[name], cmd)
		if err != nil {
			return nil, err
		}
		cmd.subcommands[name] = sub
	}

	return cmd, nil
}

// Lookup returns the command at the given path of names.
func (t *Tree) Lookup(path ...string) (*Command, bool) {
	if len(path) == 0 {
		return nil, false
	}
	cur, ok := t.commands[path[0]]
	if !ok {
		return nil, false
	}
	for _, name := range path[1:] {
		cur, ok = cur.subcommands[name]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Runnable reports whether the command has a terminal handler.
func (c *Command) Runnable() bool {
	return c.terminal != nil
}

// Path returns the command's names from the top level down.
func (c *Command) Path() []string {
	if c.parent == nil {
		return []string{c.Name}
	}
	return append(c.parent.Path(), c.Name)
}

// chain returns the effective middleware entries for this command:
// ancestors first, so parent middlewares run outermost.
func (c *Command) chain() []*mwEntry {
	if c.parent == nil {
		return c.middlewares
	}
	parent := c.parent.chain()
	out := make([]*mwEntry, 0, len(parent)+len(c.middlewares))
	out = append(out, parent...)
	out = append(out, c.middlewares...)
	return out
}

// commandFlags returns this command's always-active flags, ancestors
// included.
func (c *Command) commandFlags() []*config.FlagDefinition {
	if c.parent == nil {
		return c.flags
	}
	parent := c.parent.commandFlags()
	out := make([]*config.FlagDefinition, 0, len(parent)+len(c.flags))
	out = append(out, parent...)
	out = append(out, c.flags...)
	return out
}
