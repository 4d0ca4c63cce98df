// Package model defines the declarations exchanged between the front ends,
// the synthesizer and the file emitter. Front ends hide go/types, YAML and HCL
// behind these plain structures.
package model

import "strings"

// Kind is the shape of a declared type.
type Kind int

// Shapes a front end can report. Only Struct is accepted by the synthesizer.
const (
	KindUnknown Kind = iota
	KindStruct
	KindUnit
	KindTuple
	KindEnum
	KindInterface
	KindAlias
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindUnit:
		return "unit"
	case KindTuple:
		return "tuple"
	case KindEnum:
		return "enum"
	case KindInterface:
		return "interface"
	case KindAlias:
		return "alias"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// ParseKind maps a schema shape keyword to a Kind. The empty string means struct.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "struct", "record":
		return KindStruct
	case "unit":
		return KindUnit
	case "tuple":
		return KindTuple
	case "enum":
		return KindEnum
	case "interface":
		return KindInterface
	case "alias":
		return KindAlias
	default:
		return KindOther
	}
}

// RecordDeclaration is the parsed shape of a record type.
type RecordDeclaration struct {
	// Name is the identifier of the record.
	Name string
	// Kind is the shape reported by the front end.
	Kind Kind
	// TypeParams are passed through to the builder unchanged.
	TypeParams []*TypeParam
	// Fields in declaration order.
	Fields []*FieldDescriptor
	// Methods already declared on the record, outside generated code.
	Methods []string
	// Doc is the record's doc comment, if any.
	Doc string
}

// FieldDescriptor is a single named field of a record.
type FieldDescriptor struct {
	Name string
	// Type is Go type expression text as it must appear in the generated file.
	Type     string
	Embedded bool
}

// TypeParam is a type parameter of a generic record.
type TypeParam struct {
	Name       string
	Constraint string
}

// IsGeneric reports whether the record declares type parameters.
func (d *RecordDeclaration) IsGeneric() bool {
	return len(d.TypeParams) > 0
}

// FieldNames returns the field names in declaration order.
func (d *RecordDeclaration) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// HasMember reports whether name is a field or a method of the record.
func (d *RecordDeclaration) HasMember(name string) bool {
	for _, f := range d.Fields {
		if f.Name == name {
			return true
		}
	}
	for _, m := range d.Methods {
		if m == name {
			return true
		}
	}
	return false
}

// TypeParamNames renders "[K, V]", or "" for a non-generic record.
func (d *RecordDeclaration) TypeParamNames() string {
	if !d.IsGeneric() {
		return ""
	}
	names := make([]string, len(d.TypeParams))
	for i, tp := range d.TypeParams {
		names[i] = tp.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// TypeParamList renders "[K comparable, V any]", or "" for a non-generic record.
func (d *RecordDeclaration) TypeParamList() string {
	if !d.IsGeneric() {
		return ""
	}
	parts := make([]string, len(d.TypeParams))
	for i, tp := range d.TypeParams {
		constraint := tp.Constraint
		if constraint == "" {
			constraint = "any"
		}
		parts[i] = tp.Name + " " + constraint
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
