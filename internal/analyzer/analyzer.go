// Package analyzer turns named types of a loaded Go package into record
// declarations, reporting each type's true shape.
package analyzer

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/origadmin/buildergen/internal/model"
)

// RecordAnalyzer reads record declarations out of one loaded package.
type RecordAnalyzer struct {
	pkg     *packages.Package
	imports model.ImportManager
	// output is the absolute path of the generated file. Its declarations
	// are ignored, so regeneration never collides with the previous run.
	output string
	docs   map[string]string
}

// NewRecordAnalyzer creates an analyzer for pkg. Field types from other
// packages are qualified with the names returned by imports.
func NewRecordAnalyzer(pkg *packages.Package, imports model.ImportManager, outputFile string) *RecordAnalyzer {
	if outputFile != "" && !filepath.IsAbs(outputFile) && len(pkg.GoFiles) > 0 {
		outputFile = filepath.Join(filepath.Dir(pkg.GoFiles[0]), outputFile)
	}
	return &RecordAnalyzer{
		pkg:     pkg,
		imports: imports,
		output:  filepath.Clean(outputFile),
		docs:    collectDocs(pkg.Syntax),
	}
}

// Analyze returns the declarations of the named types in request order.
func (a *RecordAnalyzer) Analyze(names []string) ([]*model.RecordDeclaration, error) {
	decls := make([]*model.RecordDeclaration, 0, len(names))
	for _, name := range names {
		decl, err := a.Declaration(name)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// Declaration returns the declaration of a single named type.
func (a *RecordAnalyzer) Declaration(name string) (*model.RecordDeclaration, error) {
	obj := a.pkg.Types.Scope().Lookup(name)
	if obj == nil || a.inOutput(obj.Pos()) {
		return nil, fmt.Errorf("type %q not found in package %s", name, a.pkg.PkgPath)
	}
	typeName, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%s in package %s is not a type", name, a.pkg.PkgPath)
	}

	decl := &model.RecordDeclaration{
		Name: name,
		Kind: classify(typeName),
		Doc:  a.docs[name],
	}
	slog.Debug("Analyzing type", "name", name, "kind", decl.Kind)
	if decl.Kind != model.KindStruct {
		return decl, nil
	}

	named := typeName.Type().(*types.Named)
	for i := 0; i < named.TypeParams().Len(); i++ {
		tp := named.TypeParams().At(i)
		decl.TypeParams = append(decl.TypeParams, &model.TypeParam{
			Name:       tp.Obj().Name(),
			Constraint: types.TypeString(tp.Constraint(), a.qualifier),
		})
	}
	for _, f := range usableFields(named.Underlying().(*types.Struct)) {
		decl.Fields = append(decl.Fields, &model.FieldDescriptor{
			Name:     f.Name(),
			Type:     types.TypeString(f.Type(), a.qualifier),
			Embedded: f.Embedded(),
		})
	}
	for i := 0; i < named.NumMethods(); i++ {
		if m := named.Method(i); !a.inOutput(m.Pos()) {
			decl.Methods = append(decl.Methods, m.Name())
		}
	}
	return decl, nil
}

// Scope returns the package-level identifiers declared outside the
// generated file.
func (a *RecordAnalyzer) Scope() *model.Scope {
	scope := model.NewScope()
	pkgScope := a.pkg.Types.Scope()
	for _, name := range pkgScope.Names() {
		if !a.inOutput(pkgScope.Lookup(name).Pos()) {
			scope.Add(name)
		}
	}
	return scope
}

// qualifier renders package-qualified names with the alias the generated
// file imports the package under.
func (a *RecordAnalyzer) qualifier(p *types.Package) string {
	if p == nil || p.Path() == a.pkg.PkgPath {
		return ""
	}
	return a.imports.Add(p.Path(), p.Name())
}

func (a *RecordAnalyzer) inOutput(pos token.Pos) bool {
	if a.output == "." || !pos.IsValid() {
		return false
	}
	return filepath.Clean(a.pkg.Fset.Position(pos).Filename) == a.output
}

// collectDocs maps type names to their doc comment text.
func collectDocs(files []*ast.File) map[string]string {
	docs := make(map[string]string)
	for _, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				typeSpec := spec.(*ast.TypeSpec)
				doc := typeSpec.Doc
				if doc == nil && len(genDecl.Specs) == 1 {
					doc = genDecl.Doc
				}
				if text := strings.TrimSpace(doc.Text()); text != "" {
					docs[typeSpec.Name.Name] = text
				}
			}
		}
	}
	return docs
}
