package config

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of all loaded manifests.
type Model struct {
	Commands    map[string]*CommandDefinition
	Middlewares map[string]*MiddlewareDefinition
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		Commands:    make(map[string]*CommandDefinition),
		Middlewares: make(map[string]*MiddlewareDefinition),
	}
}

// Merge folds another model into this one. Duplicate top-level command or
// middleware names across manifest files are configuration errors.
func (m *Model) Merge(other *Model) error {
	for name, cmd := range other.Commands {
		if _, exists := m.Commands[name]; exists {
			return fmt.Errorf("duplicate command definition %q", name)
		}
		m.Commands[name] = cmd
	}
	for name, mw := range other.Middlewares {
		if _, exists := m.Middlewares[name]; exists {
			return fmt.Errorf("duplicate middleware definition %q", name)
		}
		m.Middlewares[name] = mw
	}
	return nil
}

// CommandDefinition describes one command. A command either names a
// terminal handler or exists purely as a group for its subcommands.
type CommandDefinition struct {
	Name        string
	Description string

	// Handler is the registered Go handler name for the terminal. Empty
	// for group-only commands.
	Handler string

	// Middlewares lists middleware definition names in chain order,
	// outermost first. Parent middlewares apply to subcommands and run
	// outward of them.
	Middlewares []string

	Flags       []*FlagDefinition
	Subcommands map[string]*CommandDefinition
	PosArgs     *PosArgsDefinition
}

// MiddlewareDefinition describes one middleware: the registered Go
// handler implementing it, the names it provides inward, and any flags it
// brings along.
type MiddlewareDefinition struct {
	Name        string
	Description string
	Handler     string
	Provides    []string
	Flags       []*FlagDefinition
}

// FlagDefinition describes a declared flag. The flag feeds one injectable
// name; whether the flag is parsed at all for a given command path is
// decided per resolved chain by the flag-need analysis.
type FlagDefinition struct {
	// Name is the CLI spelling without the leading dashes.
	Name        string
	Description string

	// Type is the declared value type.
	Type cty.Type

	// Default is the value used when the flag is suppressed or omitted.
	// Nil means the type's null value.
	Default *cty.Value
}

// Injects returns the injectable name the flag feeds: the CLI spelling
// with dashes folded to underscores.
func (f *FlagDefinition) Injects() string {
	return strings.ReplaceAll(f.Name, "-", "_")
}

// PosArgsDefinition constrains a command's positional arguments.
type PosArgsDefinition struct {
	// Min and Max bound the count; Max < 0 means unbounded.
	Min int
	Max int

	// Name labels the arguments in usage text.
	Name string
}

// Check validates a positional argument count against the policy.
func (p *PosArgsDefinition) Check(count int) error {
	if p == nil {
		return nil
	}
	if count < p.Min {
		return fmt.Errorf("expected at least %d positional argument(s), got %d", p.Min, count)
	}
	if p.Max >= 0 && count > p.Max {
		return fmt.Errorf("expected at most %d positional argument(s), got %d", p.Max, count)
	}
	return nil
}
