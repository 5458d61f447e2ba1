// Package registry provides the central "glue" between manifests and Go
// code.
//
// Manifests refer to middleware and handler implementations by string
// name (e.g. "TimingMiddleware"); the registry stores the mapping from
// those names to the validated Go chain-member specs. Declarations are
// validated the moment they are registered, so a malformed member is
// rejected before any command tree is ever built.
//
// During startup the populated registry is checked against the loaded
// manifest model for strict parity, collecting every mismatch into one
// error, so that drift between manifests and code surfaces immediately
// rather than at dispatch time.
package registry
