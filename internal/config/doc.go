// Package config defines the format-agnostic model of the declared options
// and configuration fragments, decoupled from the HCL syntax they are
// authored in. Loaders translate source files into this model; the composer
// and the assembly adapter consume it.
package config
