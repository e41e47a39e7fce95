// Package cli handles the command-line interface logic, including parsing
// arguments, validating them, and producing the application configuration.
package cli
