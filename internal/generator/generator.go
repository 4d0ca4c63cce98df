// Package generator runs a generation: it layers the configuration, reads
// record declarations from Go source or a schema, synthesizes one builder
// per record and emits them as a single formatted file.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/tools/imports"

	"github.com/origadmin/buildergen/internal/analyzer"
	"github.com/origadmin/buildergen/internal/config"
	"github.com/origadmin/buildergen/internal/model"
	"github.com/origadmin/buildergen/internal/schema"
	"github.com/origadmin/buildergen/internal/synth"
	"github.com/origadmin/buildergen/internal/template"
)

// ErrUndeclarable is returned when a schema asks the generated file to
// declare a record that is not a struct.
var ErrUndeclarable = errors.New("record cannot be declared")

// Generator produces builder files.
type Generator struct {
	// base holds defaults and the config file. Directives are layered on top
	// of it and overrides, normally command line flags, on top of those.
	base      *config.Config
	overrides *config.Config
}

// NewGenerator creates a Generator. Either config may be nil.
func NewGenerator(base, overrides *config.Config) *Generator {
	if base == nil {
		base = config.NewConfig()
	}
	return &Generator{base: base, overrides: overrides}
}

// FromPackage generates builders for the records selected in the Go package
// in dir.
func (g *Generator) FromPackage(dir string) (*model.GenerationResponse, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}
	pkg, err := analyzer.LoadPackage(absDir)
	if err != nil {
		return nil, err
	}
	directives, err := config.NewParser().ParseDirectives(pkg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directives: %w", err)
	}
	cfg, err := g.layer(directives)
	if err != nil {
		return nil, err
	}
	cfg.GenerationContext = config.GenerationContext{
		PackageName:   pkg.Name,
		PackagePath:   pkg.PkgPath,
		DirectivePath: absDir,
	}
	output := outputPath(absDir, cfg.OutputFile())

	im := NewImportManager()
	a := analyzer.NewRecordAnalyzer(pkg, im, output)
	scope := a.Scope()
	for name := range scope.Names {
		im.Reserve(name)
	}
	slotPkg := im.Add(config.RuntimePackage, "slot")

	decls, err := a.Analyze(cfg.Types)
	if err != nil {
		return nil, err
	}
	return g.generate(cfg, &model.Package{
		Name:    pkg.Name,
		Path:    pkg.PkgPath,
		Dir:     absDir,
		Scope:   scope,
		Records: decls,
	}, im, slotPkg, output)
}

// FromSchema generates builders for the records of a YAML or HCL schema. The
// output file is placed next to the schema unless configured otherwise.
func (g *Generator) FromSchema(path string) (*model.GenerationResponse, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema path %s: %w", path, err)
	}
	s, err := schema.Load(absPath)
	if err != nil {
		return nil, err
	}
	cfg, err := g.layer()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(absPath)
	cfg.GenerationContext = config.GenerationContext{PackageName: s.Package, DirectivePath: dir}

	all := s.Declarations()
	byName := make(map[string]*model.RecordDeclaration, len(all))
	for _, decl := range all {
		byName[decl.Name] = decl
	}
	names := cfg.Types
	if len(names) == 0 {
		names = s.Names()
	}
	decls := make([]*model.RecordDeclaration, 0, len(names))
	for _, name := range names {
		decl, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("record %q not found in schema %s", name, path)
		}
		decls = append(decls, decl)
	}

	im := NewImportManager()
	im.Reserve(s.Names()...)
	for _, imp := range s.Imports {
		alias := imp.Alias
		if alias == "" {
			alias = PackageName(imp.Path)
		}
		if err := im.AddAs(imp.Path, alias); err != nil {
			return nil, fmt.Errorf("schema %s: %w", path, err)
		}
	}
	slotPkg := im.Add(config.RuntimePackage, "slot")

	pkg := &model.Package{
		Name:    s.Package,
		Dir:     dir,
		Scope:   model.NewScope(),
		Records: decls,
	}
	if !s.ExternalRecords {
		pkg.Declare = all
	}
	return g.generate(cfg, pkg, im, slotPkg, outputPath(dir, cfg.OutputFile()))
}

// Write stores the generated file. A response without code writes nothing.
func Write(resp *model.GenerationResponse) error {
	if resp == nil || resp.Code == nil {
		return nil
	}
	if err := os.WriteFile(resp.OutputFile, resp.Code, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", resp.OutputFile, err)
	}
	slog.Info("Generated builders", "file", resp.OutputFile, "records", resp.Records)
	return nil
}

func (g *Generator) layer(layers ...*config.Config) (*config.Config, error) {
	cfg := g.base.Clone()
	for _, layer := range append(layers, g.overrides) {
		if err := cfg.Merge(layer); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// generate synthesizes every record and renders the file. Any failure
// discards the whole file.
func (g *Generator) generate(cfg *config.Config, pkg *model.Package, im *ImportManager, slotPkg, output string) (*model.GenerationResponse, error) {
	resp := &model.GenerationResponse{OutputFile: output}
	if len(pkg.Records) == 0 {
		slog.Warn("No records selected, nothing to generate", "package", pkg.Name, "dir", pkg.Dir)
		return resp, nil
	}

	tmpl := template.NewManager()
	if cfg.Templates != "" {
		if err := tmpl.Load(outputPath(cfg.GenerationContext.DirectivePath, cfg.Templates)); err != nil {
			return nil, err
		}
	}

	s := synth.New(cfg, tmpl).
		WithScope(pkg.Scope).
		WithSlotPackage(slotPkg).
		WithRecords(slices.Concat(pkg.Declare, pkg.Records)...)

	artifacts := make([]*model.Artifact, 0, len(pkg.Records))
	for _, decl := range pkg.Records {
		artifact, err := s.Synthesize(decl)
		if err != nil {
			return nil, fmt.Errorf("failed to generate builder for %s: %w", decl.Name, err)
		}
		artifacts = append(artifacts, artifact)
		resp.Records = append(resp.Records, decl.Name)
	}

	records := make([]string, 0, len(pkg.Declare))
	for _, decl := range pkg.Declare {
		code, err := renderRecord(tmpl, decl)
		if err != nil {
			return nil, err
		}
		records = append(records, code)
	}

	src, err := tmpl.Render(template.FileTemplate, &template.FileData{
		Header:    config.GeneratedHeader,
		Package:   pkg.Name,
		Imports:   im.Imports(),
		Records:   records,
		Artifacts: artifacts,
	})
	if err != nil {
		return nil, err
	}
	code, err := imports.Process(output, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to format generated file %s: %w\n%s", output, err, src)
	}
	resp.Code = code
	slog.Debug("Rendered builder file", "file", output, "records", resp.Records)
	return resp, nil
}

func renderRecord(tmpl *template.Manager, decl *model.RecordDeclaration) (string, error) {
	if decl.Kind != model.KindStruct {
		return "", fmt.Errorf("%w: %s is a %s", ErrUndeclarable, decl.Name, decl.Kind)
	}
	data := &template.RecordData{
		Name:       decl.Name,
		TypeParams: decl.TypeParamList(),
		Doc:        decl.Doc,
	}
	for _, f := range decl.Fields {
		data.Fields = append(data.Fields, &template.FieldData{Name: f.Name, Type: f.Type, Embedded: f.Embedded})
	}
	code, err := tmpl.Render(template.RecordTemplate, data)
	if err != nil {
		return "", err
	}
	return string(code), nil
}

func outputPath(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
