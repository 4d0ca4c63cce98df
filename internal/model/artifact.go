package model

// Artifact is the generated source for one record: its factory, builder type,
// setters and Build method.
type Artifact struct {
	Record  string
	Builder string
	// Code holds gofmt-formatted declarations without a package clause.
	Code []byte
	// Imports lists the import paths Code refers to.
	Imports []string
}

// Scope describes the identifiers already taken in the target package.
type Scope struct {
	// Names holds package-level identifiers declared outside generated code.
	Names map[string]struct{}
}

// NewScope creates a scope holding names.
func NewScope(names ...string) *Scope {
	s := &Scope{Names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add marks name as declared.
func (s *Scope) Add(name string) {
	if s.Names == nil {
		s.Names = make(map[string]struct{})
	}
	s.Names[name] = struct{}{}
}

// Has reports whether name is declared. A nil scope declares nothing.
func (s *Scope) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Names[name]
	return ok
}

// Package is everything a front end hands to the generator for one output file.
type Package struct {
	Name    string
	Path    string
	Dir     string
	Scope   *Scope
	// Records are the records to build, in request order.
	Records []*RecordDeclaration
	// Declare lists records the generated file declares itself. Schema mode
	// fills it when the record types do not exist yet.
	Declare []*RecordDeclaration
}

// GenerationResponse is the outcome of one generator run.
type GenerationResponse struct {
	OutputFile string
	Code       []byte
	Records    []string
}
