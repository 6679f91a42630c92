// Package hcl provides the concrete HCL implementation of the configuration
// Loader defined in the `config` package. It is responsible for file parsing,
// schema decoding and the CTY-to-Go conversion of listener options.
package hcl
