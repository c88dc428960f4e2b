// Package entrypoint provides the configuration sources of a sweep. An entrypoint is resolved by name and, when
// invoked, returns the list of override sets it contributes to the sweep.
//
// Entrypoints can be Go functions registered in a Registry, YAML/JSON files, HCL files or external commands
// printing YAML on their standard output.
package entrypoint
