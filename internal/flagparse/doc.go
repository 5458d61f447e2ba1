// Package flagparse tokenizes a command's argument vector into typed
// flag values and positional arguments.
//
// The parser is deliberately dynamic: the set of flags it accepts is
// decided per command path by the dispatch layer, after chain resolution
// has determined which flag-backed injectables are actually needed. A
// suppressed flag is simply absent from the definitions handed to Parse,
// so supplying it on the command line is an unknown-flag usage error.
//
// Values are checked against each flag's declared cty type and converted
// to native Go values for injection.
package flagparse
