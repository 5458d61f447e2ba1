// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the startup lifecycle — loading manifests,
// registering modules, validating parity, and preparing the command tree —
// decoupled from any specific entrypoint like a CLI.
package app
