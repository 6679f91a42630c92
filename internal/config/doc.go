// Package config defines the format-agnostic configuration model for the
// compiler, along with the Loader interface for reading it from files.
//
// The `config.Model` is what the app applies to a builder: the nesting
// marker, the attribute separator and the event bindings declared by the
// user. Concrete loaders, such as the HCL one, live in separate packages.
package config
