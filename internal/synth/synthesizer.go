// Package synth turns record declarations into builder source.
//
// For a record R with fields f1..fn it emits a builder type RBuilder holding
// one slot.Slot per field, a factory attached to R, one chainable setter per
// field and a Build method that moves every slot into a new R. Build fails
// with a *slot.MissingFieldError when a slot was never set.
package synth

import (
	"fmt"
	"go/format"
	"go/token"
	"log/slog"

	"github.com/origadmin/buildergen/internal/config"
	"github.com/origadmin/buildergen/internal/model"
	"github.com/origadmin/buildergen/internal/template"
)

var _ model.Synthesizer = (*Synthesizer)(nil)

// Synthesizer generates one builder per record declaration. It holds no
// state between calls other than its configuration.
type Synthesizer struct {
	cfg      *config.Config
	namer    *Namer
	renderer template.Renderer

	scope   *model.Scope
	slotPkg string
	// run maps every name declared by records of the same run to what
	// declares it.
	run map[string][]string
}

// New creates a Synthesizer. The runtime package is referred to by its
// package name unless WithSlotPackage says otherwise.
func New(cfg *config.Config, renderer template.Renderer) *Synthesizer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if renderer == nil {
		renderer = template.NewManager()
	}
	return &Synthesizer{
		cfg:      cfg,
		namer:    NewNamer(cfg),
		renderer: renderer,
		slotPkg:  "slot",
		run:      make(map[string][]string),
	}
}

// WithScope sets the package-level names builders must not redeclare.
func (s *Synthesizer) WithScope(scope *model.Scope) *Synthesizer {
	s.scope = scope
	return s
}

// WithSlotPackage sets the local name of the runtime package.
func (s *Synthesizer) WithSlotPackage(name string) *Synthesizer {
	s.slotPkg = name
	return s
}

// WithRecords registers the records generated in the same file, so that a
// builder cannot take the name of another record or of its builder.
func (s *Synthesizer) WithRecords(decls ...*model.RecordDeclaration) *Synthesizer {
	for _, decl := range decls {
		if decl == nil {
			continue
		}
		s.claim(decl.Name, "record "+decl.Name)
		s.claim(s.namer.BuilderName(decl.Name), "builder of "+decl.Name)
		if s.cfg.NamingRules.FactoryStyle == config.FactoryFunc {
			s.claim(s.namer.FactoryName(decl.Name), "factory of "+decl.Name)
		}
	}
	return s
}

func (s *Synthesizer) claim(name, owner string) {
	s.run[name] = append(s.run[name], owner)
}

// claimedByOther returns the first owner of name other than self.
func (s *Synthesizer) claimedByOther(name, self string) (string, bool) {
	for _, owner := range s.run[name] {
		if owner != self {
			return owner, true
		}
	}
	return "", false
}

// Synthesize generates the builder artifact for decl. It returns either a
// complete artifact or an error, never both.
func (s *Synthesizer) Synthesize(decl *model.RecordDeclaration) (*model.Artifact, error) {
	if decl == nil {
		return nil, fmt.Errorf("%w: nil declaration", ErrInvalidDeclaration)
	}
	if err := checkShape(decl); err != nil {
		return nil, err
	}
	if err := checkDeclaration(decl); err != nil {
		return nil, err
	}

	data, err := s.plan(decl)
	if err != nil {
		return nil, err
	}
	code, err := s.renderer.Render(template.BuilderTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render builder for %s: %w", decl.Name, err)
	}
	formatted, err := format.Source(code)
	if err != nil {
		return nil, fmt.Errorf("failed to format builder for %s: %w\n%s", decl.Name, err, code)
	}
	slog.Debug("Synthesized builder", "record", decl.Name, "builder", data.Builder, "fields", len(data.Fields))
	return &model.Artifact{
		Record:  decl.Name,
		Builder: data.Builder,
		Code:    formatted,
		Imports: []string{config.RuntimePackage},
	}, nil
}

func checkShape(decl *model.RecordDeclaration) error {
	switch {
	case decl.Kind != model.KindStruct:
		return &UnsupportedShapeError{Record: decl.Name, Shape: decl.Kind}
	case len(decl.Fields) == 0:
		return &UnsupportedShapeError{Record: decl.Name, Shape: model.KindUnit}
	}
	return nil
}

func checkDeclaration(decl *model.RecordDeclaration) error {
	if !token.IsIdentifier(decl.Name) {
		return invalid(decl.Name, "record name is not a Go identifier")
	}
	seen := make(identSet, len(decl.Fields))
	for _, f := range decl.Fields {
		switch {
		case f == nil:
			return invalid(decl.Name, "nil field")
		case f.Name == "_":
			return invalid(decl.Name, "blank field cannot be set")
		case !token.IsIdentifier(f.Name):
			return invalid(decl.Name, "field name %q is not a Go identifier", f.Name)
		case seen.has(f.Name):
			return invalid(decl.Name, "duplicate field %s", f.Name)
		case f.Type == "":
			return invalid(decl.Name, "field %s has no type", f.Name)
		}
		seen.add(f.Name)
	}
	params := make(identSet, len(decl.TypeParams))
	for _, tp := range decl.TypeParams {
		if tp == nil || !token.IsIdentifier(tp.Name) || tp.Name == "_" {
			return invalid(decl.Name, "type parameter is not a usable Go identifier")
		}
		if params.has(tp.Name) {
			return invalid(decl.Name, "duplicate type parameter %s", tp.Name)
		}
		params.add(tp.Name)
	}
	return nil
}

// plan derives every name the builder template needs and checks them for
// collisions.
func (s *Synthesizer) plan(decl *model.RecordDeclaration) (*template.BuilderData, error) {
	builder := s.namer.BuilderName(decl.Name)
	factory := s.namer.FactoryName(decl.Name)
	style := s.cfg.NamingRules.FactoryStyle
	if style == "" {
		style = config.FactoryMethod
	}

	if err := s.checkBuilderName(decl, builder); err != nil {
		return nil, err
	}
	if err := s.checkFactoryName(decl, builder, factory, style); err != nil {
		return nil, err
	}

	// Identifiers the method bodies must not shadow.
	taken := make(identSet)
	taken.add(decl.Name, builder, s.slotPkg)
	for _, f := range decl.Fields {
		if err := taken.addExprIdents(f.Type); err != nil {
			return nil, invalid(decl.Name, "field %s: cannot parse type %q: %v", f.Name, f.Type, err)
		}
	}
	for _, tp := range decl.TypeParams {
		taken.add(tp.Name)
		if tp.Constraint == "" {
			continue
		}
		if err := taken.addExprIdents(tp.Constraint); err != nil {
			return nil, invalid(decl.Name, "type parameter %s: cannot parse constraint %q: %v", tp.Name, tp.Constraint, err)
		}
	}

	methods := identSet{buildMethod: {}}
	fields := make([]*template.FieldData, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		setter := s.namer.SetterName(f.Name)
		if !token.IsIdentifier(setter) {
			return nil, invalid(decl.Name, "setter name %q for field %s is not a Go identifier", setter, f.Name)
		}
		if methods.has(setter) {
			return nil, &NameCollisionError{Record: decl.Name, Name: setter, With: "a method of " + builder}
		}
		methods.add(setter)
		fields = append(fields, &template.FieldData{Name: f.Name, Type: f.Type, Setter: setter, Embedded: f.Embedded})
	}

	return &template.BuilderData{
		Record:       decl.Name,
		RecordType:   decl.Name + decl.TypeParamNames(),
		Builder:      builder,
		BuilderType:  builder + decl.TypeParamNames(),
		TypeParams:   decl.TypeParamList(),
		Container:    methods.fresh(defaultContainer),
		SlotPackage:  s.slotPkg,
		Factory:      factory,
		FactoryStyle: string(style),
		CollectAll:   s.cfg.BehaviorRules.Missing == config.MissingAll,
		Receiver:     taken.fresh(defaultReceiver),
		Param:        taken.fresh(defaultParam),
		Result:       taken.fresh(defaultResult),
		Collector:    taken.fresh(defaultCollector),
		Fields:       fields,
	}, nil
}

func (s *Synthesizer) checkBuilderName(decl *model.RecordDeclaration, builder string) error {
	if !token.IsIdentifier(builder) {
		return invalid(decl.Name, "builder name %q is not a Go identifier", builder)
	}
	if builder == decl.Name {
		return &NameCollisionError{Record: decl.Name, Name: builder, With: "the record itself"}
	}
	if s.scope.Has(builder) {
		return &NameCollisionError{Record: decl.Name, Name: builder, With: "a package-level identifier"}
	}
	if owner, ok := s.claimedByOther(builder, "builder of "+decl.Name); ok {
		return &NameCollisionError{Record: decl.Name, Name: builder, With: owner}
	}
	return nil
}

func (s *Synthesizer) checkFactoryName(decl *model.RecordDeclaration, builder, factory string, style config.FactoryStyle) error {
	if !token.IsIdentifier(factory) {
		return invalid(decl.Name, "factory name %q is not a Go identifier", factory)
	}
	if style == config.FactoryMethod {
		if decl.HasMember(factory) {
			return &NameCollisionError{Record: decl.Name, Name: factory, With: "a field or method of " + decl.Name}
		}
		return nil
	}
	if factory == decl.Name || factory == builder {
		return &NameCollisionError{Record: decl.Name, Name: factory, With: "a generated type"}
	}
	if s.scope.Has(factory) {
		return &NameCollisionError{Record: decl.Name, Name: factory, With: "a package-level identifier"}
	}
	if owner, ok := s.claimedByOther(factory, "factory of "+decl.Name); ok {
		return &NameCollisionError{Record: decl.Name, Name: factory, With: owner}
	}
	return nil
}
