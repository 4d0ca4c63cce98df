package analyzer

import (
	"fmt"
	"log/slog"

	"golang.org/x/tools/go/packages"
)

// BuildTag is set while loading, so files can opt out of generation runs
// with a `//go:build !buildergen` constraint.
const BuildTag = "buildergen"

// LoadPackage loads the package in dir with syntax and full type information.
// Type errors are logged and tolerated: a stale generated file is expected to
// break the package until it is regenerated.
func LoadPackage(dir string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports,
		Dir:        dir,
		Tests:      false,
		BuildFlags: []string{"-tags=" + BuildTag},
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %s: %w", dir, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no package found in %s", dir)
	}
	pkg := pkgs[0]
	for _, e := range pkg.Errors {
		slog.Warn("package has errors", "package", pkg.PkgPath, "error", e.Msg, "pos", e.Pos)
	}
	if pkg.Name == "" || pkg.Types == nil || len(pkg.Syntax) == 0 {
		return nil, fmt.Errorf("no Go package found in %s", dir)
	}
	slog.Debug("Loaded package", "path", pkg.PkgPath, "files", len(pkg.Syntax))
	return pkg, nil
}
