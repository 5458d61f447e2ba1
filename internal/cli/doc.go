// Package cli is responsible for parsing the process-level arguments that
// come before the dispatched command, validating user input, and handling
// process concerns like exit codes. It translates those flags into the
// application's internal configuration.
package cli
