// Package inject is the dependency-resolution core of weft.
//
// A command's handler runs at the centre of an ordered chain of
// middlewares. Each chain member declares, once, at registration time,
// which named values it consumes (required, or optional with a local
// default) and which names it makes available to members further inward.
// Before any member body runs, the resolver walks the chain once,
// outermost first, and decides whether every required name is satisfiable
// and exactly which subset of names each member will receive. Values only
// ever flow outward to inward: a member can consume names produced
// strictly before it in the chain, never after.
//
// The package splits the work into four stages:
//
//   - Validate turns an explicit Declaration into a checked *Spec. All
//     signature rules (continuation placement, no catch-all parameters,
//     reserved-name conflicts) are enforced here, synchronously, so a bad
//     member is rejected long before any command is dispatched.
//
//   - Resolve performs the single left-to-right availability pass over a
//     chain, collecting every unresolved required name across the whole
//     chain rather than stopping at the first. Resolution reasons about
//     names only; no user code runs and no values are computed.
//
//   - Compose turns a successfully resolved chain into one invocable
//     pipeline, built right to left, where each middleware drives the
//     rest of the chain through its Next continuation.
//
//   - ResolvedChain.Needs answers whether an optional, flag-backed name
//     is strongly required anywhere in a particular chain. The flag layer
//     uses it to suppress flags that no member actually needs.
//
// Resolution is pure and deterministic: identical inputs always produce
// identical subsets and identical failure lists, and concurrent
// resolutions need no coordination.
package inject
