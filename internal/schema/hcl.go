package schema

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

type hclSchema struct {
	Package         string      `hcl:"package"`
	ExternalRecords bool        `hcl:"external_records,optional"`
	Imports         []hclImport `hcl:"import,block"`
	Records         []hclRecord `hcl:"record,block"`
}

type hclImport struct {
	Path  string `hcl:"path,label"`
	Alias string `hcl:"alias,optional"`
}

type hclRecord struct {
	Name       string         `hcl:"name,label"`
	Shape      string         `hcl:"shape,optional"`
	Doc        string         `hcl:"doc,optional"`
	TypeParams []hclTypeParam `hcl:"type_param,block"`
	Fields     []hclField     `hcl:"field,block"`
}

type hclTypeParam struct {
	Name       string         `hcl:"name,label"`
	Constraint hcl.Expression `hcl:"constraint,optional"`
}

type hclField struct {
	Name     string         `hcl:"name,label"`
	Type     hcl.Expression `hcl:"type"`
	Embedded bool           `hcl:"embedded,optional"`
}

// LoadHCL parses and decodes an HCL schema. Types are written either as
// strings or as bare references such as `time.Time`.
func LoadHCL(path string) (*Schema, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL schema %s: %s", path, diags.Error())
	}

	var raw hclSchema
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL schema %s: %s", path, diags.Error())
	}

	s := &Schema{Package: raw.Package, ExternalRecords: raw.ExternalRecords}
	for _, imp := range raw.Imports {
		s.Imports = append(s.Imports, Import{Path: imp.Path, Alias: imp.Alias})
	}
	for _, r := range raw.Records {
		rec := Record{Name: r.Name, Shape: r.Shape, Doc: r.Doc}
		for _, tp := range r.TypeParams {
			constraint, err := typeText(tp.Constraint)
			if err != nil {
				return nil, fmt.Errorf("%s: record %s: type parameter %s: %w", path, r.Name, tp.Name, err)
			}
			rec.TypeParams = append(rec.TypeParams, TypeParam{Name: tp.Name, Constraint: constraint})
		}
		for _, f := range r.Fields {
			typ, err := typeText(f.Type)
			if err != nil {
				return nil, fmt.Errorf("%s: record %s: field %s: %w", path, r.Name, f.Name, err)
			}
			rec.Fields = append(rec.Fields, Field{Name: f.Name, Type: typ, Embedded: f.Embedded})
		}
		s.Records = append(s.Records, rec)
	}
	slog.Debug("Decoded HCL schema", "path", path, "records", len(s.Records))
	return s, nil
}

// typeText reads a type expression: a bare reference like time.Time or a
// string holding any Go type expression. An absent optional attribute
// yields "".
func typeText(expr hcl.Expression) (string, error) {
	if expr == nil {
		return "", nil
	}
	if traversal, diags := hcl.AbsTraversalForExpr(expr); !diags.HasErrors() {
		return traversalText(traversal)
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("type must be a string or a reference: %s", diags.Error())
	}
	switch {
	case val.IsNull():
		return "", nil
	case !val.IsKnown() || !val.Type().Equals(cty.String):
		return "", fmt.Errorf("type must be a string, got %s", val.Type().FriendlyName())
	}
	return strings.TrimSpace(val.AsString()), nil
}

func traversalText(traversal hcl.Traversal) (string, error) {
	parts := []string{traversal.RootName()}
	for _, step := range traversal[1:] {
		attr, ok := step.(hcl.TraverseAttr)
		if !ok {
			return "", fmt.Errorf("unsupported type reference, quote complex types as strings")
		}
		parts = append(parts, attr.Name)
	}
	return strings.Join(parts, "."), nil
}
