// Package config defines the format-agnostic configuration model for the
// runtime, along with the Loader interface for reading it from various
// sources.
//
// The `config.Model` carries the aliases and presets the `app` package
// installs into a `script.Runtime`. Concrete loaders, such as the HCL one,
// live in separate packages.
package config
