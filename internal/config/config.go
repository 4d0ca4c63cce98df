package config

import (
	"fmt"
	"slices"
	"strings"

	"dario.cat/mergo"
)

// FactoryStyle selects how the builder factory is attached to a record.
type FactoryStyle string

const (
	// FactoryMethod emits `func (Record) Builder() *RecordBuilder`.
	FactoryMethod FactoryStyle = "method"
	// FactoryFunc emits `func NewRecordBuilder() *RecordBuilder`.
	FactoryFunc FactoryStyle = "func"
)

// MissingPolicy selects how Build reports unset fields.
type MissingPolicy string

const (
	// MissingFirst fails on the first unset field in declaration order.
	MissingFirst MissingPolicy = "first"
	// MissingAll reports every unset field in one error.
	MissingAll MissingPolicy = "all"
)

// Config holds the complete, merged configuration for a generation task.
type Config struct {
	// Types lists the record names to generate builders for.
	Types []string `yaml:"types" validate:"dive,goident"`
	// Output is the generated file name, relative to the source directory
	// unless absolute.
	Output string `yaml:"output"`
	// Schema points at a YAML or HCL record schema instead of Go source.
	Schema string `yaml:"schema"`
	// Templates is a template file or directory overriding the built-in
	// builder and record templates.
	Templates string `yaml:"templates"`
	// Renames maps a record name to an explicit builder name.
	Renames map[string]string `yaml:"renames" validate:"dive,keys,goident,endkeys,goident"`

	NamingRules   NamingRules   `yaml:"naming"`
	BehaviorRules BehaviorRules `yaml:"behavior"`

	GenerationContext GenerationContext `yaml:"-"`
}

// NamingRules defines naming conventions for generated types and methods.
type NamingRules struct {
	BuilderSuffix string `yaml:"builder_suffix" validate:"required,identpart"`
	SetterPrefix  string `yaml:"setter_prefix" validate:"omitempty,identpart"`
	// FactoryName is the factory method name in method style.
	FactoryName  string       `yaml:"factory_name" validate:"required,goident"`
	FactoryStyle FactoryStyle `yaml:"factory_style" validate:"oneof=method func"`
}

// BehaviorRules defines the behavior of generated code.
type BehaviorRules struct {
	Missing MissingPolicy `yaml:"missing" validate:"oneof=first all"`
}

// GenerationContext holds information about the package where code is being generated.
type GenerationContext struct {
	PackageName   string
	PackagePath   string
	DirectivePath string
}

// NewConfig creates a configuration populated with defaults.
func NewConfig() *Config {
	return &Config{
		Renames: make(map[string]string),
		NamingRules: NamingRules{
			BuilderSuffix: "Builder",
			FactoryName:   "Builder",
			FactoryStyle:  FactoryMethod,
		},
		BehaviorRules: BehaviorRules{
			Missing: MissingFirst,
		},
	}
}

// Merge overlays the non-empty values of other onto c. Types accumulate.
func (c *Config) Merge(other *Config) error {
	if other == nil {
		return nil
	}
	if err := mergo.Merge(c, other, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
		return fmt.Errorf("failed to merge configuration: %w", err)
	}
	c.Types = dedupe(c.Types)
	return nil
}

// Clone creates a deep copy of the Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Types = slices.Clone(c.Types)
	clone.Renames = make(map[string]string, len(c.Renames))
	for k, v := range c.Renames {
		clone.Renames[k] = v
	}
	return &clone
}

// OutputFile returns the configured output name or the default
// <package>_builder.gen.go.
func (c *Config) OutputFile() string {
	if c.Output != "" {
		return c.Output
	}
	name := c.GenerationContext.PackageName
	if name == "" {
		name = "builders"
	}
	return strings.ToLower(name) + "_builder.gen.go"
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
