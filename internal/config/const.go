// Package config implements the functions, types, and interfaces for the module.
package config

// Global constants for the application.
const (
	Application = "buildergen"
	Description = "Generate fluent builders with deferred completeness checks for Go structs"
	WebSite     = "https://github.com/origadmin/buildergen"
	UI          = "buildergen"

	// DirectivePrefix starts every source directive.
	DirectivePrefix = "//go:buildergen:"
	// DefaultConfigFile is looked up in the source directory when no --config is given.
	DefaultConfigFile = ".buildergen.yaml"
	// GeneratedHeader marks files written by buildergen.
	GeneratedHeader = "// Code generated by buildergen. DO NOT EDIT."
	// RuntimePackage is imported by generated code for slot storage.
	RuntimePackage = "github.com/origadmin/buildergen/slot"
)
