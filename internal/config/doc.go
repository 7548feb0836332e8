// Package config defines the format-agnostic configuration model of a build
// pipeline, along with the core interfaces (Loader, Converter) for loading and
// interpreting it.
//
// The `config.Model` is the single source of truth for the `pipeline`
// package, which turns it into a task graph. Concrete implementations of the
// interfaces, such as for HCL, are provided in separate packages.
package config
