package model

// ImportManager tracks the imports of one generated file.
type ImportManager interface {
	// Add registers importPath, preferring name as its local name, and returns
	// the alias to qualify identifiers with.
	Add(importPath, name string) string
	GetAlias(importPath string) (string, bool)
	GetAllImports() map[string]string
}

// Synthesizer turns a record declaration into a builder artifact.
type Synthesizer interface {
	Synthesize(decl *RecordDeclaration) (*Artifact, error)
}
