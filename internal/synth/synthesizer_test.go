package synth

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/origadmin/buildergen/internal/config"
	"github.com/origadmin/buildergen/internal/model"
)

func order() *model.RecordDeclaration {
	return &model.RecordDeclaration{
		Name: "Order",
		Kind: model.KindStruct,
		Fields: []*model.FieldDescriptor{
			{Name: "ID", Type: "int64"},
			{Name: "Items", Type: "[]string"},
			{Name: "Note", Type: "*string"},
		},
	}
}

func mustParse(t *testing.T, code []byte) {
	t.Helper()
	src := append([]byte("package p\n\n"), code...)
	_, err := parser.ParseFile(token.NewFileSet(), "builder.go", src, parser.ParseComments)
	require.NoError(t, err, "generated code:\n%s", code)
}

func TestSynthesize_Order(t *testing.T) {
	art, err := New(nil, nil).Synthesize(order())
	require.NoError(t, err)
	mustParse(t, art.Code)

	assert.Equal(t, "Order", art.Record)
	assert.Equal(t, "OrderBuilder", art.Builder)
	assert.Equal(t, []string{config.RuntimePackage}, art.Imports)

	code := string(art.Code)
	assert.Contains(t, code, "type OrderBuilder struct {")
	assert.Contains(t, code, "Items slot.Slot[[]string]")
	assert.Contains(t, code, "func (Order) Builder() *OrderBuilder {")
	assert.Contains(t, code, "func (b *OrderBuilder) ID(v int64) *OrderBuilder {")
	assert.Contains(t, code, "b.slots.Note.Set(v)")
	assert.Contains(t, code, "func (b *OrderBuilder) Build() (Order, error) {")
	assert.Contains(t, code, "if !b.slots.ID.TakeTo(&r.ID) {")
	assert.Contains(t, code, `return Order{}, slot.Missing("Order", "ID")`)
}

func TestSynthesize_ChecksFieldsInDeclarationOrder(t *testing.T) {
	art, err := New(nil, nil).Synthesize(order())
	require.NoError(t, err)

	code := string(art.Code)
	id := strings.Index(code, `slot.Missing("Order", "ID")`)
	items := strings.Index(code, `slot.Missing("Order", "Items")`)
	note := strings.Index(code, `slot.Missing("Order", "Note")`)
	assert.True(t, id < items && items < note, "fields must be checked in declaration order")
}

func TestSynthesize_RejectsInvalidDeclarations(t *testing.T) {
	cases := []struct {
		name string
		decl *model.RecordDeclaration
	}{
		{"nil", nil},
		{"bad record name", &model.RecordDeclaration{Name: "my-order", Kind: model.KindStruct, Fields: order().Fields}},
		{"keyword field", &model.RecordDeclaration{Name: "Order", Kind: model.KindStruct, Fields: []*model.FieldDescriptor{{Name: "type", Type: "string"}}}},
		{"blank field", &model.RecordDeclaration{Name: "Order", Kind: model.KindStruct, Fields: []*model.FieldDescriptor{{Name: "_", Type: "int"}}}},
		{"duplicate field", &model.RecordDeclaration{Name: "Order", Kind: model.KindStruct, Fields: []*model.FieldDescriptor{{Name: "ID", Type: "int"}, {Name: "ID", Type: "string"}}}},
		{"missing type", &model.RecordDeclaration{Name: "Order", Kind: model.KindStruct, Fields: []*model.FieldDescriptor{{Name: "ID"}}}},
		{"unparsable type", &model.RecordDeclaration{Name: "Order", Kind: model.KindStruct, Fields: []*model.FieldDescriptor{{Name: "ID", Type: "map[string"}}}},
		{"duplicate type param", &model.RecordDeclaration{
			Name: "Pair", Kind: model.KindStruct,
			TypeParams: []*model.TypeParam{{Name: "K"}, {Name: "K"}},
			Fields:     []*model.FieldDescriptor{{Name: "Key", Type: "K"}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			art, err := New(nil, nil).Synthesize(tc.decl)
			assert.Nil(t, art)
			assert.ErrorIs(t, err, ErrInvalidDeclaration)
		})
	}
}

func TestSynthesize_NameCollisions(t *testing.T) {
	funcStyle := func(c *config.Config) { c.NamingRules.FactoryStyle = config.FactoryFunc }
	cases := []struct {
		name   string
		mutate func(*config.Config)
		decl   *model.RecordDeclaration
		scope  *model.Scope
		others []*model.RecordDeclaration
	}{
		{
			name:  "builder declared in package",
			decl:  order(),
			scope: model.NewScope("OrderBuilder"),
		},
		{
			name:   "builder is another record",
			decl:   order(),
			others: []*model.RecordDeclaration{{Name: "OrderBuilder", Kind: model.KindStruct}},
		},
		{
			name:   "builder of another record",
			mutate: func(c *config.Config) { c.Renames["Item"] = "OrderBuilder" },
			decl:   order(),
			others: []*model.RecordDeclaration{{Name: "Item", Kind: model.KindStruct}},
		},
		{
			name:   "builder renamed to record",
			mutate: func(c *config.Config) { c.Renames["Order"] = "Order" },
			decl:   order(),
		},
		{
			name: "setter named Build",
			decl: &model.RecordDeclaration{Name: "Job", Kind: model.KindStruct, Fields: []*model.FieldDescriptor{{Name: "Build", Type: "int"}}},
		},
		{
			name: "factory method is a field",
			decl: &model.RecordDeclaration{Name: "Job", Kind: model.KindStruct, Fields: []*model.FieldDescriptor{{Name: "Builder", Type: "string"}}},
		},
		{
			name: "factory method exists",
			decl: &model.RecordDeclaration{Name: "Job", Kind: model.KindStruct, Methods: []string{"Builder"}, Fields: []*model.FieldDescriptor{{Name: "ID", Type: "int"}}},
		},
		{
			name:   "factory func declared in package",
			mutate: funcStyle,
			decl:   order(),
			scope:  model.NewScope("NewOrderBuilder"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewConfig()
			if tc.mutate != nil {
				tc.mutate(cfg)
			}
			s := New(cfg, nil).WithScope(tc.scope).WithRecords(append(tc.others, tc.decl)...)
			art, err := s.Synthesize(tc.decl)
			assert.Nil(t, art)
			require.ErrorIs(t, err, ErrNameCollision)

			var collision *NameCollisionError
			assert.True(t, errors.As(err, &collision))
		})
	}
}

func TestSynthesize_OwnNamesAreNotCollisions(t *testing.T) {
	cfg := config.NewConfig()
	cfg.NamingRules.FactoryStyle = config.FactoryFunc
	decl := order()
	item := &model.RecordDeclaration{Name: "Item", Kind: model.KindStruct, Fields: []*model.FieldDescriptor{{Name: "SKU", Type: "string"}}}

	s := New(cfg, nil).WithScope(model.NewScope("Order", "Item", "Customer")).WithRecords(decl, item)
	art, err := s.Synthesize(decl)
	require.NoError(t, err)
	assert.Contains(t, string(art.Code), "func NewOrderBuilder() *OrderBuilder {")

	art, err = s.Synthesize(item)
	require.NoError(t, err)
	assert.Contains(t, string(art.Code), "func NewItemBuilder() *ItemBuilder {")
}

func TestSynthesize_FreshIdentifiers(t *testing.T) {
	decl := &model.RecordDeclaration{
		Name: "Shadow",
		Kind: model.KindStruct,
		Fields: []*model.FieldDescriptor{
			{Name: "B", Type: "b"},
			{Name: "V", Type: "map[v]r"},
			{Name: "M", Type: "m.Thing"},
		},
	}
	cfg := config.NewConfig()
	cfg.BehaviorRules.Missing = config.MissingAll

	art, err := New(cfg, nil).Synthesize(decl)
	require.NoError(t, err)
	mustParse(t, art.Code)

	code := string(art.Code)
	assert.Contains(t, code, "func (b1 *ShadowBuilder) B(v1 b) *ShadowBuilder {")
	assert.Contains(t, code, "var r1 Shadow")
	assert.Contains(t, code, `m1 := slot.MissingFields{Record: "Shadow"}`)
}

func TestSynthesize_FreshIdentifiersAvoidRuntimePackage(t *testing.T) {
	decl := &model.RecordDeclaration{
		Name:   "Job",
		Kind:   model.KindStruct,
		Fields: []*model.FieldDescriptor{{Name: "ID", Type: "int"}},
	}
	art, err := New(nil, nil).WithSlotPackage("b").Synthesize(decl)
	require.NoError(t, err)
	mustParse(t, art.Code)

	code := string(art.Code)
	assert.Contains(t, code, "ID b.Slot[int]")
	assert.Contains(t, code, "func (b1 *JobBuilder) ID(v int) *JobBuilder {")
}

func TestSynthesize_ContainerAvoidsSetters(t *testing.T) {
	decl := &model.RecordDeclaration{
		Name:   "Bag",
		Kind:   model.KindStruct,
		Fields: []*model.FieldDescriptor{{Name: "slots", Type: "int"}},
	}
	art, err := New(nil, nil).Synthesize(decl)
	require.NoError(t, err)
	mustParse(t, art.Code)
	assert.Contains(t, string(art.Code), "b.slots1.slots.Set(v)")
}

func TestSynthesize_Generic(t *testing.T) {
	decl := &model.RecordDeclaration{
		Name: "Pair",
		Kind: model.KindStruct,
		TypeParams: []*model.TypeParam{
			{Name: "K", Constraint: "comparable"},
			{Name: "V"},
		},
		Fields: []*model.FieldDescriptor{
			{Name: "Key", Type: "K"},
			{Name: "Value", Type: "V"},
		},
	}
	art, err := New(nil, nil).Synthesize(decl)
	require.NoError(t, err)
	mustParse(t, art.Code)

	code := string(art.Code)
	assert.Contains(t, code, "type PairBuilder[K comparable, V any] struct {")
	assert.Contains(t, code, "func (Pair[K, V]) Builder() *PairBuilder[K, V] {")
	assert.Contains(t, code, "func (b *PairBuilder[K, V]) Key(v K) *PairBuilder[K, V] {")
	assert.Contains(t, code, "func (b *PairBuilder[K, V]) Build() (Pair[K, V], error) {")
	assert.Contains(t, code, "return Pair[K, V]{}, slot.Missing(\"Pair\", \"Key\")")
}

func TestSynthesize_CollectAll(t *testing.T) {
	cfg := config.NewConfig()
	cfg.BehaviorRules.Missing = config.MissingAll

	art, err := New(cfg, nil).Synthesize(order())
	require.NoError(t, err)
	mustParse(t, art.Code)

	code := string(art.Code)
	assert.Contains(t, code, `m := slot.MissingFields{Record: "Order"}`)
	assert.Contains(t, code, `m.Add("Items")`)
	assert.Contains(t, code, "if m.Any() {")
	assert.NotContains(t, code, "slot.Missing(")
}

func TestSynthesize_NamingRules(t *testing.T) {
	cfg := config.NewConfig()
	cfg.NamingRules.BuilderSuffix = "Maker"
	cfg.NamingRules.SetterPrefix = "With"
	cfg.NamingRules.FactoryName = "Make"
	decl := &model.RecordDeclaration{
		Name: "Order",
		Kind: model.KindStruct,
		Fields: []*model.FieldDescriptor{
			{Name: "ID", Type: "int64"},
			{Name: "note", Type: "string"},
		},
	}

	art, err := New(cfg, nil).Synthesize(decl)
	require.NoError(t, err)
	mustParse(t, art.Code)

	code := string(art.Code)
	assert.Equal(t, "OrderMaker", art.Builder)
	assert.Contains(t, code, "func (Order) Make() *OrderMaker {")
	assert.Contains(t, code, "func (b *OrderMaker) WithID(v int64) *OrderMaker {")
	assert.Contains(t, code, "func (b *OrderMaker) withNote(v string) *OrderMaker {")
}

func TestSynthesize_Rename(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Renames["Order"] = "OrderAssembler"

	art, err := New(cfg, nil).Synthesize(order())
	require.NoError(t, err)
	assert.Equal(t, "OrderAssembler", art.Builder)
	assert.Contains(t, string(art.Code), "func (Order) Builder() *OrderAssembler {")
}

func TestSynthesize_EmbeddedField(t *testing.T) {
	decl := &model.RecordDeclaration{
		Name: "Order",
		Kind: model.KindStruct,
		Fields: []*model.FieldDescriptor{
			{Name: "Time", Type: "time.Time", Embedded: true},
			{Name: "ID", Type: "int64"},
		},
	}
	art, err := New(nil, nil).Synthesize(decl)
	require.NoError(t, err)
	mustParse(t, art.Code)
	assert.Contains(t, string(art.Code), "if !b.slots.Time.TakeTo(&r.Time) {")
}

func TestNamer_SetterName(t *testing.T) {
	cfg := config.NewConfig()
	n := NewNamer(cfg)
	assert.Equal(t, "ID", n.SetterName("ID"))
	assert.Equal(t, "id", n.SetterName("id"))

	cfg.NamingRules.SetterPrefix = "set"
	n = NewNamer(cfg)
	assert.Equal(t, "SetID", n.SetterName("ID"))
	assert.Equal(t, "setId", n.SetterName("id"))
}

func TestIdentSet_Fresh(t *testing.T) {
	s := identSet{}
	s.add("b", "b1")
	assert.Equal(t, "b2", s.fresh("b"))
	assert.Equal(t, "v", s.fresh("v"))
	assert.Equal(t, "v1", s.fresh("v"))
}
