package command

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vk/weft/internal/config"
	"github.com/vk/weft/internal/ctxlog"
	"github.com/vk/weft/internal/flagparse"
	"github.com/vk/weft/internal/help"
	"github.com/vk/weft/internal/inject"
)

// Run dispatches one argument vector: it walks the subcommand path,
// parses the remaining tokens against the path's active flags, checks
// positional-argument policy, materializes the builtin injectables, and
// invokes the composed chain. Help output goes to w.
func Run(ctx context.Context, t *Tree, w io.Writer, argv []string) (any, error) {
	logger := ctxlog.FromContext(ctx)

	cmd, rest, err := t.walk(argv)
	if err != nil {
		renderTreeHelp(w, t)
		return nil, err
	}
	if cmd == nil {
		// Bare invocation or a top-level help request.
		renderTreeHelp(w, t)
		return nil, nil
	}

	if !cmd.Runnable() {
		// Group-only commands have no chain to prepare or flags to parse.
		renderCommandHelp(w, t, cmd, nil)
		for _, tok := range rest {
			if tok == "-h" || tok == "--help" {
				return nil, nil
			}
		}
		if len(rest) > 0 {
			return nil, &flagparse.UsageError{Message: fmt.Sprintf("unknown subcommand %q", rest[0])}
		}
		return nil, &flagparse.UsageError{Message: fmt.Sprintf("command %q requires a subcommand", strings.Join(cmd.Path(), " "))}
	}

	prep, err := cmd.prepare(ctx)
	if err != nil {
		return nil, err
	}

	res, err := flagparse.Parse(rest, prep.activeFlags)
	if err != nil {
		return nil, err
	}
	if res.Help {
		renderCommandHelp(w, t, cmd, prep)
		return nil, nil
	}
	if err := cmd.posargs.Check(len(res.PosArgs)); err != nil {
		return nil, &flagparse.UsageError{Message: err.Error()}
	}

	values, err := builtinValues(t, cmd, prep, res, argv)
	if err != nil {
		return nil, err
	}

	logger.Debug("Dispatching command.", "path", strings.Join(cmd.Path(), " "))
	return prep.invoke(ctx, values)
}

// walk consumes leading tokens that name subcommands. It returns the
// deepest matching command and the remaining tokens. A nil command with a
// nil error means nothing was asked for (empty argv or a leading help
// flag).
func (t *Tree) walk(argv []string) (*Command, []string, error) {
	if len(argv) == 0 {
		return nil, nil, nil
	}
	first := argv[0]
	if first == "-h" || first == "--help" {
		return nil, nil, nil
	}

	cur, ok := t.commands[first]
	if !ok {
		return nil, nil, &flagparse.UsageError{Message: fmt.Sprintf("unknown command %q", first)}
	}

	rest := argv[1:]
	for len(rest) > 0 {
		sub, ok := cur.subcommands[rest[0]]
		if !ok {
			break
		}
		cur = sub
		rest = rest[1:]
	}
	return cur, rest, nil
}

// builtinValues assembles the pre-provided scope for one invocation.
// Only the names the resolved chain actually consumes from outside are
// materialized; ExternalNames tells us which builtins and flag
// injectables those are. The flags_ bundle always carries every active
// flag's value (parsed, or its declared default when omitted).
func builtinValues(t *Tree, cmd *Command, prep *prepared, res *flagparse.Result, argv []string) (inject.Args, error) {
	consumed := make(map[string]struct{})
	for _, name := range prep.rc.ExternalNames() {
		consumed[name] = struct{}{}
	}

	values := make(inject.Args, len(consumed))
	put := func(name string, v any) {
		if _, ok := consumed[name]; ok {
			values[name] = v
		}
	}

	put("args_", append([]string(nil), argv...))
	put("cmd_", cmd)
	put("command_", t.Program)
	put("subcmds_", cmd.Path())
	put("posargs_", res.PosArgs)
	put("post_posargs_", res.PostPosArgs)

	flags := make(map[string]any, len(prep.activeFlags))
	for _, def := range prep.activeFlags {
		val, supplied := res.Flags[def.Name]
		if !supplied {
			if def.Default == nil {
				flags[def.Injects()] = nil
				put(def.Injects(), nil)
				continue
			}
			val = *def.Default
		}
		native, err := flagparse.NativeValue(val)
		if err != nil {
			return nil, fmt.Errorf("flag --%s: %w", def.Name, err)
		}
		flags[def.Injects()] = native
		put(def.Injects(), native)
	}

	put("flags_", flags)
	return values, nil
}

func renderTreeHelp(w io.Writer, t *Tree) {
	page := help.Page{
		Program: t.Program,
		Usage:   fmt.Sprintf("%s <command> [flags] [args]", t.Program),
	}
	names := make([]string, 0, len(t.commands))
	for name := range t.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		page.Commands = append(page.Commands, help.Entry{Name: name, Description: t.commands[name].Description})
	}
	help.Render(w, page)
}

func renderCommandHelp(w io.Writer, t *Tree, cmd *Command, prep *prepared) {
	var activeFlags []*config.FlagDefinition
	if prep != nil {
		activeFlags = prep.activeFlags
	}

	path := strings.Join(cmd.Path(), " ")
	usage := fmt.Sprintf("%s %s", t.Program, path)
	if len(cmd.subcommands) > 0 {
		usage += " <subcommand>"
	}
	if len(activeFlags) > 0 {
		usage += " [flags]"
	}
	if cmd.posargs != nil && cmd.posargs.Name != "" {
		usage += fmt.Sprintf(" <%s>", cmd.posargs.Name)
	}

	page := help.Page{
		Program:     t.Program,
		Usage:       usage,
		Description: cmd.Description,
	}

	subNames := make([]string, 0, len(cmd.subcommands))
	for name := range cmd.subcommands {
		subNames = append(subNames, name)
	}
	sort.Strings(subNames)
	for _, name := range subNames {
		page.Commands = append(page.Commands, help.Entry{Name: name, Description: cmd.subcommands[name].Description})
	}

	for _, def := range activeFlags {
		entry := help.Entry{Name: "--" + def.Name, Description: def.Description}
		if def.Default != nil {
			native, err := flagparse.NativeValue(*def.Default)
			if err == nil && native != nil {
				entry.Detail = fmt.Sprintf("default: %v", native)
			}
		}
		page.Flags = append(page.Flags, entry)
	}

	help.Render(w, page)
}
