package analyzer

import (
	"go/types"

	"github.com/origadmin/buildergen/internal/model"
)

// classify reports the shape of a package-level type name.
func classify(obj *types.TypeName) model.Kind {
	if obj.IsAlias() {
		return model.KindAlias
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return model.KindOther
	}
	switch u := named.Underlying().(type) {
	case *types.Struct:
		if len(usableFields(u)) == 0 {
			return model.KindUnit
		}
		return model.KindStruct
	case *types.Interface:
		return model.KindInterface
	case *types.Array:
		return model.KindTuple
	case *types.Basic:
		if hasConstants(obj.Pkg(), named) {
			return model.KindEnum
		}
	}
	return model.KindOther
}

// usableFields returns the fields of s that a builder can set.
func usableFields(s *types.Struct) []*types.Var {
	fields := make([]*types.Var, 0, s.NumFields())
	for i := 0; i < s.NumFields(); i++ {
		if f := s.Field(i); f.Name() != "_" {
			fields = append(fields, f)
		}
	}
	return fields
}

// hasConstants reports whether pkg declares constants of type named, which is
// how Go spells an enumeration.
func hasConstants(pkg *types.Package, named *types.Named) bool {
	if pkg == nil {
		return false
	}
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), named) {
			return true
		}
	}
	return false
}
