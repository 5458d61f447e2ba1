// Package config defines the format-agnostic manifest model for weft:
// the command tree, the middleware declarations, and the flags attached
// to either. The model carries names, types, and literal defaults only —
// the Go bodies behind handler names live in the registry, and wiring the
// two together (with strict parity validation) happens at startup.
//
// Concrete loaders for specific manifest formats live in their own
// packages (hclmanifest, yamlmanifest) and all produce this model, so the
// rest of the system never needs to know which format a host chose.
package config
