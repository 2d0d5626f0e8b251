package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configen/internal/diagnostic"
	"configen/internal/resolve"
)

func TestBuilder_MixedParameters(t *testing.T) {
	in := Input{
		ID:     "svc.Mixed",
		Source: "svc.Mixed",
		Params: []Param{
			{Name: "a", Type: resolve.Primitive(resolve.PrimitiveInt)},
			{Name: "b", Type: resolve.Optional(resolve.Primitive(resolve.PrimitiveString))},
			{Name: "c", Type: resolve.Unrepresentable("math/big.Int")},
		},
	}

	s, diags := NewBuilder(Flags{}).Build(in)

	require.Len(t, s.Fields, 2)
	assert.Equal(t, "A", s.Fields[0].Name)
	assert.True(t, s.Fields[0].Required)
	assert.Equal(t, "B", s.Fields[1].Name)
	assert.False(t, s.Fields[1].Required)
	assert.False(t, s.Fields[1].Default.Set)

	require.Len(t, s.Unresolved, 1)
	assert.Equal(t, UnresolvedField{Name: "c", Reason: "math/big.Int", Index: 2}, s.Unresolved[0])

	unrep := diags.ByCode(diagnostic.CodeUnrepresentable)
	require.Len(t, unrep, 1)
	assert.Equal(t, "c", unrep[0].Field)
	assert.False(t, diags.HasErrors())
}

func TestBuilder_MetaFields(t *testing.T) {
	recursive := false

	s, _ := NewBuilder(Flags{Convert: "all", Recursive: &recursive}).Build(Input{ID: "svc.Inner", Source: "svc.NewInner"})

	require.Len(t, s.Meta, 3)
	assert.Equal(t, KeyTarget, s.Meta[0].Key)
	assert.Equal(t, "svc.NewInner", s.Meta[0].Default.Value)
	assert.Equal(t, KeyConvert, s.Meta[1].Key)
	assert.Equal(t, "all", s.Meta[1].Default.Value)
	assert.Equal(t, KeyRecursive, s.Meta[2].Key)
	assert.Equal(t, false, s.Meta[2].Default.Value)
	assert.Equal(t, "InnerConf", s.Name)

	s, _ = NewBuilder(Flags{}).Build(Input{ID: "svc.Inner", Source: "svc.NewInner"})
	require.Len(t, s.Meta, 1)
}

func TestBuilder_FieldNameCollisions(t *testing.T) {
	str := resolve.Primitive(resolve.PrimitiveString)

	s, _ := NewBuilder(Flags{}).Build(Input{
		ID: "svc.F",
		Params: []Param{
			{Name: "target", Type: str},
			{Name: "max_conns", Type: str},
			{Name: "maxConns", Type: str},
		},
	})

	require.Len(t, s.Fields, 3)
	assert.Equal(t, "TargetArg", s.Fields[0].Name)
	assert.Equal(t, "target", s.Fields[0].Key)
	assert.Equal(t, "MaxConns", s.Fields[1].Name)
	assert.Equal(t, "MaxConnsArg", s.Fields[2].Name)
}

func TestBuilder_Defaults(t *testing.T) {
	s, diags := NewBuilder(Flags{}).Build(Input{
		ID: "svc.Server",
		Params: []Param{
			{Name: "port", Type: resolve.Primitive(resolve.PrimitiveInt), Default: 8080, HasDefault: true},
			{Name: "ratio", Type: resolve.Primitive(resolve.PrimitiveInt), Default: 0.5, HasDefault: true},
			{Name: "mode", Type: resolve.Optional(resolve.Primitive(resolve.PrimitiveString)), Default: nil, HasDefault: true},
		},
	})

	port, ok := s.Field("port")
	require.True(t, ok)
	assert.Equal(t, Default{Set: true, Value: int64(8080)}, port.Default)
	assert.False(t, port.Required)

	_, ok = s.Field("ratio")
	assert.False(t, ok)
	require.Len(t, s.Unresolved, 1)
	assert.Contains(t, s.Unresolved[0].Reason, "unrenderable default")
	assert.Len(t, diags.ByCode(diagnostic.CodeRender), 1)

	mode, ok := s.Field("mode")
	require.True(t, ok)
	assert.False(t, mode.Default.Set)
	assert.False(t, mode.Required)
}

func TestBuilder_DuplicateMappingKeysDegrade(t *testing.T) {
	s, diags := NewBuilder(Flags{}).Build(Input{
		ID: "svc.Keys",
		Params: []Param{{
			Name:       "byPort",
			Type:       resolve.Mapping(resolve.PrimitiveInt, resolve.Primitive(resolve.PrimitiveString)),
			Default:    map[string]any{"80": "a", "080": "b"},
			HasDefault: true,
		}},
	})

	assert.Empty(t, s.Fields)
	require.Len(t, s.Unresolved, 1)
	assert.Equal(t, "byPort", s.Unresolved[0].Name)
	assert.Contains(t, s.Unresolved[0].Reason, "both become 80")

	render := diags.ByCode(diagnostic.CodeRender)
	require.Len(t, render, 1)
	assert.Equal(t, "byPort", render[0].Field)
}

func TestConfigSchema_Degrade(t *testing.T) {
	str := resolve.Primitive(resolve.PrimitiveString)

	s, _ := NewBuilder(Flags{}).Build(Input{
		ID: "svc.C",
		Params: []Param{
			{Name: "a", Type: resolve.Nested("svc.A")},
			{Name: "b", Type: resolve.Unrepresentable("chan int")},
			{Name: "name", Type: str},
		},
	})

	assert.True(t, s.Degrade("a", "cyclic"))
	assert.False(t, s.Degrade("missing", "x"))

	require.Len(t, s.Fields, 1)
	require.Len(t, s.Unresolved, 2)
	assert.Equal(t, "a", s.Unresolved[0].Name)
	assert.Equal(t, "b", s.Unresolved[1].Name)
	assert.Empty(t, s.Refs())
}

func TestUniqueNames(t *testing.T) {
	schemas := []*ConfigSchema{
		{ID: "example.com/service.Inner", Name: "InnerConf"},
		{ID: "example.com/store.Inner", Name: "InnerConf"},
		{ID: "example.com/service.Outer", Name: "OuterConf"},
	}

	UniqueNames(schemas)

	assert.Equal(t, "ServiceInnerConf", schemas[0].Name)
	assert.Equal(t, "StoreInnerConf", schemas[1].Name)
	assert.Equal(t, "OuterConf", schemas[2].Name)
}
