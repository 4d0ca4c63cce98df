package generator

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/origadmin/buildergen/internal/model"
	"github.com/origadmin/buildergen/internal/template"
)

var _ model.ImportManager = (*ImportManager)(nil)

// ImportManager manages the imports of one generated file. Aliases never
// collide with each other or with reserved package-level names.
type ImportManager struct {
	imports  map[string]string
	reserved map[string]struct{}
	counter  int
}

// NewImportManager creates a new ImportManager.
func NewImportManager() *ImportManager {
	return &ImportManager{
		imports:  make(map[string]string),
		reserved: make(map[string]struct{}),
		counter:  1,
	}
}

// Reserve marks names that no import alias may take.
func (im *ImportManager) Reserve(names ...string) {
	for _, name := range names {
		im.reserved[name] = struct{}{}
	}
}

// Add adds an import and returns the alias to use. name is the preferred
// alias, normally the imported package's name; when empty it is derived from
// the import path.
func (im *ImportManager) Add(importPath, name string) string {
	if alias, exists := im.imports[importPath]; exists {
		return alias
	}
	if name == "" {
		name = PackageName(importPath)
	}
	if name == "" {
		name = fmt.Sprintf("pkg%d", im.counter)
		im.counter++
	}

	// Handle conflicts.
	alias := name
	for i := 1; im.taken(alias); i++ {
		alias = fmt.Sprintf("%s%d", name, i)
	}
	im.imports[importPath] = alias
	return alias
}

// AddAs adds an import under exactly alias.
func (im *ImportManager) AddAs(importPath, alias string) error {
	if existing, exists := im.imports[importPath]; exists {
		if existing == alias {
			return nil
		}
		return fmt.Errorf("import %q is already named %s", importPath, existing)
	}
	if im.taken(alias) {
		return fmt.Errorf("import alias %s for %q is already in use", alias, importPath)
	}
	im.imports[importPath] = alias
	return nil
}

func (im *ImportManager) taken(alias string) bool {
	if _, ok := im.reserved[alias]; ok {
		return true
	}
	for _, existing := range im.imports {
		if existing == alias {
			return true
		}
	}
	return false
}

// GetAlias returns the alias for an import path.
func (im *ImportManager) GetAlias(importPath string) (string, bool) {
	alias, ok := im.imports[importPath]
	return alias, ok
}

// GetAllImports returns all imports as a map of path to alias.
func (im *ImportManager) GetAllImports() map[string]string {
	return im.imports
}

// Imports returns the import block entries sorted by path. The alias is
// only spelled out when it differs from the last path element.
func (im *ImportManager) Imports() []template.Import {
	paths := make([]string, 0, len(im.imports))
	for p := range im.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	imports := make([]template.Import, 0, len(paths))
	for _, p := range paths {
		imp := template.Import{Path: p}
		if alias := im.imports[p]; alias != path.Base(p) {
			imp.Alias = alias
		}
		imports = append(imports, imp)
	}
	return imports
}

// PackageName guesses the package name of an import path the way most
// modules name their packages: the last element, skipping a major version
// element, without a "go-" prefix or ".vN" suffix.
func PackageName(importPath string) string {
	elems := strings.Split(strings.Trim(importPath, "/"), "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 && isMajorVersion(name[i+1:]) {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, name)
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		return ""
	}
	return name
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
