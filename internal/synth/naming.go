package synth

import (
	"go/ast"
	"go/parser"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/origadmin/buildergen/internal/config"
)

// Default names of generated identifiers. Each is replaced by a numbered
// variant when it is already in use.
const (
	defaultContainer = "slots"
	defaultReceiver  = "b"
	defaultParam     = "v"
	defaultResult    = "r"
	defaultCollector = "m"
	buildMethod      = "Build"
)

// Namer derives the public names of a builder from the naming rules.
type Namer struct {
	rules   config.NamingRules
	renames map[string]string
}

// NewNamer creates a Namer for the given configuration.
func NewNamer(cfg *config.Config) *Namer {
	return &Namer{rules: cfg.NamingRules, renames: cfg.Renames}
}

// BuilderName returns the builder type name for record.
func (n *Namer) BuilderName(record string) string {
	if name, ok := n.renames[record]; ok && name != "" {
		return name
	}
	return record + n.rules.BuilderSuffix
}

// FactoryName returns the factory name for record.
func (n *Namer) FactoryName(record string) string {
	if n.rules.FactoryStyle == config.FactoryFunc {
		return "New" + n.BuilderName(record)
	}
	return n.rules.FactoryName
}

// SetterName returns the setter name for a field. Setters of unexported
// fields stay unexported.
func (n *Namer) SetterName(field string) string {
	prefix := n.rules.SetterPrefix
	if prefix == "" {
		return field
	}
	if ast.IsExported(field) {
		return capitalize(prefix) + capitalize(field)
	}
	return lowerFirst(prefix) + capitalize(field)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// identSet is a set of identifiers in use.
type identSet map[string]struct{}

func (s identSet) add(names ...string) {
	for _, name := range names {
		s[name] = struct{}{}
	}
}

func (s identSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

// fresh returns base, or base followed by the smallest number that is not
// taken, and marks the result as taken.
func (s identSet) fresh(base string) string {
	name := base
	for i := 1; s.has(name); i++ {
		name = base + strconv.Itoa(i)
	}
	s.add(name)
	return name
}

// addExprIdents parses a type expression and adds every identifier it
// mentions.
func (s identSet) addExprIdents(expr string) error {
	x, err := parser.ParseExpr(expr)
	if err != nil {
		return err
	}
	ast.Inspect(x, func(node ast.Node) bool {
		if id, ok := node.(*ast.Ident); ok {
			s.add(id.Name)
		}
		return true
	})
	return nil
}
