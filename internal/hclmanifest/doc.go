// Package hclmanifest loads weft manifests written in HCL into the
// format-agnostic config model.
//
// A manifest file holds top-level `command` and `middleware` blocks.
// Commands may nest further `command` blocks as subcommands, attach
// middlewares by name, and declare typed `flag` blocks. Flag defaults
// must be literal values conforming to the declared type; there is no
// expression evaluation in manifests.
package hclmanifest
