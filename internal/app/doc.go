// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle: assemble a runtime from
// the built-in types and the loaded configuration, build the starting
// value, apply modifiers, then resolve a single expression or serve a REPL.
// It is decoupled from any specific entrypoint like the CLI.
package app
