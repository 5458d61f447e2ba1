// Package command builds the command tree from a manifest model and a
// populated registry, and dispatches argument vectors through composed
// middleware chains.
//
// Each command path is prepared once: the effective middleware chain
// (ancestor middlewares outermost, in declaration order) is resolved
// against the builtin injectables plus every candidate flag name, and the
// composed invoker is cached. Preparation is where unresolved
// dependencies surface — fail-fast, before any flag is parsed or any
// member body runs.
//
// Flags attached to a middleware are active for a given path only when
// the resolved chain strongly requires the flag's injectable somewhere.
// A suppressed flag is not parsed and not shown in help; the owning
// member's local default applies uniformly. Flags attached to commands
// are always active.
package command
