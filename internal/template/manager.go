// Package template holds the embedded templates buildergen renders source from.
package template

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/origadmin/buildergen/internal/model"
)

//go:embed *.tpl
var templates embed.FS

// Template names defined by the embedded files.
const (
	BuilderTemplate = "builder"
	RecordTemplate  = "record"
	FileTemplate    = "file"
)

// Renderer is the interface for rendering templates.
type Renderer interface {
	Render(templateName string, data any) ([]byte, error)
}

// Manager is a template manager that holds and renders templates.
type Manager struct {
	tmpl *template.Template
}

// NewManager creates a new template manager and parses the embedded templates.
func NewManager() *Manager {
	tmpl := template.Must(template.New("buildergen").Funcs(funcMap()).ParseFS(templates, "*.tpl"))
	return &Manager{tmpl: tmpl}
}

func funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["goquote"] = strconv.Quote
	return funcs
}

// Load parses external template files, or every *.tpl file of a directory,
// over the embedded ones. A file redefining "builder" or "record" replaces the
// built-in template of that name.
func (m *Manager) Load(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	tmpl, err := m.tmpl.Clone()
	if err != nil {
		return fmt.Errorf("template clone failed: %w", err)
	}
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat template path %s: %w", path, err)
		}
		files := []string{path}
		if fi.IsDir() {
			if files, err = filepath.Glob(filepath.Join(path, "*.tpl")); err != nil {
				return fmt.Errorf("glob pattern error: %w", err)
			}
		}
		for _, f := range files {
			if _, err := tmpl.ParseFiles(f); err != nil {
				return fmt.Errorf("parse %s failed: %w", f, err)
			}
		}
	}
	m.tmpl = tmpl
	return nil
}

// Render executes the named template with the given data.
func (m *Manager) Render(templateName string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&buf, templateName, data); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", templateName, err)
	}
	return buf.Bytes(), nil
}

// BuilderData is passed to the "builder" template.
type BuilderData struct {
	Record string
	// RecordType is the record instantiated with its type parameters, e.g. Pair[K, V].
	RecordType string
	Builder    string
	// BuilderType is the builder instantiated with its type parameters.
	BuilderType string
	// TypeParams is the declaration list, e.g. [K comparable, V any].
	TypeParams   string
	Container    string
	SlotPackage  string
	Factory      string
	FactoryStyle string
	CollectAll   bool

	Receiver  string
	Param     string
	Result    string
	Collector string

	Fields []*FieldData
}

// FieldData is one field of a builder or record.
type FieldData struct {
	Name     string
	Type     string
	Setter   string
	Embedded bool
}

// RecordData is passed to the "record" template.
type RecordData struct {
	Name       string
	TypeParams string
	Doc        string
	Fields     []*FieldData
}

// Import is one entry of the import block.
type Import struct {
	Path  string
	Alias string
}

// FileData is passed to the "file" template.
type FileData struct {
	Header    string
	Package   string
	Imports   []Import
	Records   []string
	Artifacts []*model.Artifact
}
