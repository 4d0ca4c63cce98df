package template

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/origadmin/buildergen/internal/model"
)

func orderData() *BuilderData {
	return &BuilderData{
		Record:       "Order",
		RecordType:   "Order",
		Builder:      "OrderBuilder",
		BuilderType:  "OrderBuilder",
		Container:    "slots",
		SlotPackage:  "slot",
		Factory:      "Builder",
		FactoryStyle: "method",
		Receiver:     "b",
		Param:        "v",
		Result:       "r",
		Collector:    "m",
		Fields: []*FieldData{
			{Name: "ID", Type: "int64", Setter: "ID"},
			{Name: "Note", Type: "*string", Setter: "Note"},
		},
	}
}

// parseDecls checks that a declarations fragment is valid Go.
func parseDecls(t *testing.T, code []byte) {
	t.Helper()
	src := append([]byte("package p\n\n"), code...)
	_, err := parser.ParseFile(token.NewFileSet(), "fragment.go", src, parser.ParseComments)
	require.NoError(t, err, "rendered code:\n%s", code)
}

func TestManager_RenderBuilder_FailFast(t *testing.T) {
	out, err := NewManager().Render(BuilderTemplate, orderData())
	require.NoError(t, err)
	parseDecls(t, out)

	code := string(out)
	assert.Contains(t, code, "type OrderBuilder struct")
	assert.Contains(t, code, "ID slot.Slot[int64]")
	assert.Contains(t, code, "func (Order) Builder() *OrderBuilder")
	assert.Contains(t, code, "func (b *OrderBuilder) Note(v *string) *OrderBuilder")
	assert.Contains(t, code, `return Order{}, slot.Missing("Order", "ID")`)
	assert.NotContains(t, code, "MissingFields")
}

func TestManager_RenderBuilder_CollectAll(t *testing.T) {
	data := orderData()
	data.CollectAll = true
	out, err := NewManager().Render(BuilderTemplate, data)
	require.NoError(t, err)
	parseDecls(t, out)

	code := string(out)
	assert.Contains(t, code, `m := slot.MissingFields{Record: "Order"}`)
	assert.Contains(t, code, `m.Add("Note")`)
	assert.Contains(t, code, "return Order{}, m.Err()")
}

func TestManager_RenderBuilder_GenericFuncFactory(t *testing.T) {
	data := &BuilderData{
		Record:       "Pair",
		RecordType:   "Pair[K, V]",
		Builder:      "PairBuilder",
		BuilderType:  "PairBuilder[K, V]",
		TypeParams:   "[K comparable, V any]",
		Container:    "slots",
		SlotPackage:  "slot",
		Factory:      "NewPairBuilder",
		FactoryStyle: "func",
		Receiver:     "b",
		Param:        "v",
		Result:       "r",
		Fields: []*FieldData{
			{Name: "Key", Type: "K", Setter: "Key"},
			{Name: "Value", Type: "V", Setter: "Value"},
		},
	}
	out, err := NewManager().Render(BuilderTemplate, data)
	require.NoError(t, err)
	parseDecls(t, out)

	code := string(out)
	assert.Contains(t, code, "type PairBuilder[K comparable, V any] struct")
	assert.Contains(t, code, "func NewPairBuilder[K comparable, V any]() *PairBuilder[K, V]")
	assert.Contains(t, code, "func (b *PairBuilder[K, V]) Build() (Pair[K, V], error)")
}

func TestManager_RenderRecord(t *testing.T) {
	data := &RecordData{
		Name: "Order",
		Doc:  "Order is a purchase.\nIt has lines.",
		Fields: []*FieldData{
			{Name: "Audit", Type: "Audit", Embedded: true},
			{Name: "ID", Type: "int64"},
		},
	}
	out, err := NewManager().Render(RecordTemplate, data)
	require.NoError(t, err)
	parseDecls(t, out)

	code := string(out)
	assert.Contains(t, code, "// Order is a purchase.\n// It has lines.\ntype Order struct")
	assert.Contains(t, code, "\tAudit\n")
	assert.Contains(t, code, "\tID int64\n")
}

func TestManager_RenderFile(t *testing.T) {
	data := &FileData{
		Header:  "// Code generated by buildergen. DO NOT EDIT.",
		Package: "shop",
		Imports: []Import{
			{Path: "github.com/origadmin/buildergen/slot"},
			{Path: "example.com/x/slot", Alias: "slot1"},
		},
		Artifacts: []*model.Artifact{{Record: "Order", Code: []byte("type OrderBuilder struct{}\n")}},
	}
	out, err := NewManager().Render(FileTemplate, data)
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), "file.go", out, parser.ParseComments)
	require.NoError(t, err, "rendered file:\n%s", out)
	assert.Contains(t, string(out), `slot1 "example.com/x/slot"`)
	assert.Contains(t, string(out), "package shop")
}

func TestManager_Load_OverridesBuilder(t *testing.T) {
	dir := t.TempDir()
	custom := `{{ define "builder" }}// custom {{ .Builder }}{{ end }}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.tpl"), []byte(custom), 0o644))

	m := NewManager()
	require.NoError(t, m.Load(dir))

	out, err := m.Render(BuilderTemplate, orderData())
	require.NoError(t, err)
	assert.Equal(t, "// custom OrderBuilder", string(out))
}

func TestManager_Load_MissingPath(t *testing.T) {
	err := NewManager().Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestManager_Render_UnknownTemplate(t *testing.T) {
	_, err := NewManager().Render("nope", nil)
	assert.Error(t, err)
}
