// Package schema decodes record schemas written in YAML or HCL. A schema
// stands in for Go source when the records are described by an IDL.
package schema

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/origadmin/buildergen/internal/config"
	"github.com/origadmin/buildergen/internal/model"
)

// Schema describes the records of one generated file.
type Schema struct {
	Package string   `yaml:"package" validate:"required,goident"`
	Imports []Import `yaml:"imports" validate:"dive"`
	// ExternalRecords is true when the record types are declared elsewhere
	// in the package. Otherwise the generated file declares them too.
	ExternalRecords bool     `yaml:"external_records"`
	Records         []Record `yaml:"records" validate:"required,min=1,unique=Name,dive"`
}

// Import is a package the field types refer to.
type Import struct {
	Path  string `yaml:"path" validate:"required"`
	Alias string `yaml:"alias" validate:"omitempty,goident"`
}

// Record is one record declaration.
type Record struct {
	Name       string      `yaml:"name" validate:"required,goident"`
	Shape      string      `yaml:"shape" validate:"omitempty,oneof=struct record unit tuple enum interface alias other"`
	Doc        string      `yaml:"doc"`
	TypeParams []TypeParam `yaml:"type_params" validate:"unique=Name,dive"`
	Fields     []Field     `yaml:"fields" validate:"unique=Name,dive"`
}

// TypeParam is a type parameter of a generic record.
type TypeParam struct {
	Name       string `yaml:"name" validate:"required,goident"`
	Constraint string `yaml:"constraint"`
}

// Field is one named field. The name of an embedded field may be left out
// and is then derived from its type.
type Field struct {
	Name     string `yaml:"name" validate:"required,goident"`
	Type     string `yaml:"type" validate:"required"`
	Embedded bool   `yaml:"embedded"`
}

// Load decodes the schema file at path, choosing the format by extension.
func Load(path string) (*Schema, error) {
	var (
		s   *Schema
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		s, err = LoadYAML(path)
	case ".hcl":
		s, err = LoadHCL(path)
	default:
		return nil, fmt.Errorf("unsupported schema format %q for %s, want .yaml, .yml or .hcl", ext, path)
	}
	if err != nil {
		return nil, err
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", path, err)
	}
	return s, nil
}

// Validate checks names and uniqueness constraints. An embedded field must
// carry the name Go gives it.
func (s *Schema) Validate() error {
	if err := config.NewValidator().Struct(s); err != nil {
		return err
	}
	for _, r := range s.Records {
		for _, f := range r.Fields {
			if f.Embedded && f.Name != implicitName(f.Type) {
				return fmt.Errorf("record %s: embedded field %s must be named %s", r.Name, f.Type, implicitName(f.Type))
			}
		}
	}
	return nil
}

func (s *Schema) normalize() {
	for i := range s.Records {
		fields := s.Records[i].Fields
		for j := range fields {
			if fields[j].Name == "" && fields[j].Embedded {
				fields[j].Name = implicitName(fields[j].Type)
			}
		}
	}
}

// implicitName is the field name Go gives an embedded type: *pkg.Base[T] is
// named Base.
func implicitName(typ string) string {
	name := strings.TrimPrefix(strings.TrimSpace(typ), "*")
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Declarations converts the records to the shared model, in schema order.
func (s *Schema) Declarations() []*model.RecordDeclaration {
	decls := make([]*model.RecordDeclaration, 0, len(s.Records))
	for _, r := range s.Records {
		decl := &model.RecordDeclaration{
			Name: r.Name,
			Kind: model.ParseKind(r.Shape),
			Doc:  r.Doc,
		}
		for _, tp := range r.TypeParams {
			decl.TypeParams = append(decl.TypeParams, &model.TypeParam{Name: tp.Name, Constraint: tp.Constraint})
		}
		for _, f := range r.Fields {
			decl.Fields = append(decl.Fields, &model.FieldDescriptor{Name: f.Name, Type: f.Type, Embedded: f.Embedded})
		}
		decls = append(decls, decl)
	}
	return decls
}

// Names returns the record names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Records))
	for i, r := range s.Records {
		names[i] = r.Name
	}
	return names
}
