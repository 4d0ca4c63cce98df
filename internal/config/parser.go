package config

import (
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Parser is responsible for parsing buildergen directives and building a Config object.
type Parser struct {
	config *Config
}

// NewParser creates a new instance of a Parser. The returned config only
// carries what the directives set, so it can be layered over defaults.
func NewParser() *Parser {
	return &Parser{
		config: &Config{Renames: make(map[string]string)},
	}
}

// ParseDirectives scans a loaded package for directives.
func (p *Parser) ParseDirectives(pkg *packages.Package) (*Config, error) {
	if pkg == nil {
		return nil, fmt.Errorf("package context cannot be nil")
	}
	p.config.GenerationContext.PackageName = pkg.Name
	p.config.GenerationContext.PackagePath = pkg.PkgPath
	return p.ParseFiles(pkg.Syntax)
}

// ParseFiles scans the given files for directives. Files carrying the
// generated-code header are skipped.
func (p *Parser) ParseFiles(files []*ast.File) (*Config, error) {
	var count int
	for _, file := range files {
		if isGenerated(file) {
			continue
		}
		for _, commentGroup := range file.Comments {
			for _, comment := range commentGroup.List {
				if !strings.HasPrefix(comment.Text, DirectivePrefix) {
					continue
				}
				count++
				if err := p.parseDirective(comment.Text); err != nil {
					return nil, err
				}
			}
		}
		p.collectMarkedTypes(file)
	}
	if count == 0 {
		slog.Debug("no buildergen directives found", "package", p.config.GenerationContext.PackagePath)
	}
	p.config.Types = dedupe(p.config.Types)
	return p.config, nil
}

// parseDirective processes a single directive line.
func (p *Parser) parseDirective(line string) error {
	key, value := splitDirective(line)
	slog.Debug("Processing directive", "key", key, "value", value)

	switch key {
	case "builder":
		// A bare marker is attached to a type declaration and handled by
		// collectMarkedTypes.
		if value == "" {
			return nil
		}
		for _, name := range strings.Split(value, ",") {
			p.config.Types = append(p.config.Types, strings.TrimSpace(name))
		}
	case "builder:suffix":
		p.config.NamingRules.BuilderSuffix = value
	case "builder:rename":
		for _, pair := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ';' }) {
			fromTo := strings.SplitN(strings.TrimSpace(pair), ":", 2)
			if len(fromTo) != 2 || fromTo[0] == "" || fromTo[1] == "" {
				return fmt.Errorf("invalid builder:rename directive %q, expected Record:Builder", value)
			}
			p.config.Renames[strings.TrimSpace(fromTo[0])] = strings.TrimSpace(fromTo[1])
		}
	case "setter:prefix":
		p.config.NamingRules.SetterPrefix = value
	case "factory:name":
		p.config.NamingRules.FactoryName = value
	case "factory:style":
		p.config.NamingRules.FactoryStyle = FactoryStyle(value)
	case "missing":
		p.config.BehaviorRules.Missing = MissingPolicy(value)
	case "output":
		p.config.Output = value
	case "templates":
		p.config.Templates = value
	default:
		slog.Warn("unknown buildergen directive", "key", key, "line", line)
	}
	return nil
}

// collectMarkedTypes finds type declarations whose doc comment carries a bare
// `//go:buildergen:builder` marker.
func (p *Parser) collectMarkedTypes(file *ast.File) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			if hasMarker(doc) {
				slog.Debug("Found marked type", "type", typeSpec.Name.Name)
				p.config.Types = append(p.config.Types, typeSpec.Name.Name)
			}
		}
	}
}

func hasMarker(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if key, value := splitDirective(c.Text); key == "builder" && value == "" {
			return true
		}
	}
	return false
}

func splitDirective(line string) (key, value string) {
	if !strings.HasPrefix(line, DirectivePrefix) {
		return "", ""
	}
	directive := strings.TrimSpace(strings.TrimPrefix(line, DirectivePrefix))
	parts := strings.SplitN(directive, "=", 2)
	key = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		value = strings.Trim(strings.TrimSpace(parts[1]), `"`)
	}
	return key, value
}

func isGenerated(file *ast.File) bool {
	for _, cg := range file.Comments {
		if cg.Pos() > file.Package {
			break
		}
		for _, c := range cg.List {
			if c.Text == GeneratedHeader {
				return true
			}
		}
	}
	return false
}
