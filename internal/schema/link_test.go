package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configen/internal/resolve"
)

func schemaWith(id resolve.SchemaID, refs ...resolve.SchemaID) *ConfigSchema {
	s := &ConfigSchema{ID: id, Name: StructName(id)}
	for i, r := range refs {
		s.Fields = append(s.Fields, Field{Key: string(r), Type: resolve.Optional(resolve.Nested(r)), Index: i})
	}

	return s
}

func TestLinkAll_OrdersReferencesFirst(t *testing.T) {
	schemas := []*ConfigSchema{
		schemaWith("svc.Outer", "svc.Inner"),
		schemaWith("svc.Server", "svc.Outer", "svc.Inner"),
		schemaWith("svc.Inner"),
		schemaWith("svc.Mixed"),
	}

	l, err := LinkAll(schemas)
	require.NoError(t, err)

	want := []resolve.SchemaID{"svc.Inner", "svc.Outer", "svc.Server", "svc.Mixed"}
	if diff := cmp.Diff(want, l.Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, l.Cycles)
	assert.Empty(t, l.External)
	assert.Equal(t, []resolve.SchemaID{"svc.Inner", "svc.Outer"}, l.Graph["svc.Server"])
}

func TestLinkAll_TiesKeepManifestOrder(t *testing.T) {
	schemas := []*ConfigSchema{schemaWith("svc.C"), schemaWith("svc.A"), schemaWith("svc.B")}

	l, err := LinkAll(schemas)
	require.NoError(t, err)

	assert.Equal(t, []resolve.SchemaID{"svc.C", "svc.A", "svc.B"}, l.Order)
}

func TestLinkAll_Cycle(t *testing.T) {
	schemas := []*ConfigSchema{
		schemaWith("svc.A", "svc.B"),
		schemaWith("svc.B", "svc.A"),
		schemaWith("svc.C", "svc.A"),
		schemaWith("svc.D"),
	}

	l, err := LinkAll(schemas)
	require.Error(t, err)

	var ce *CycleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []resolve.SchemaID{"svc.A", "svc.B"}, ce.Members)
	assert.Equal(t, "reference cycle: svc.A -> svc.B -> svc.A", ce.Error())

	assert.Equal(t, []resolve.SchemaID{"svc.C", "svc.D"}, l.Order)
	assert.True(t, l.Cyclic("svc.A"))
	assert.False(t, l.Cyclic("svc.C"))
	assert.Equal(t, map[resolve.SchemaID][]resolve.SchemaID{"svc.C": {"svc.A"}}, l.Blocked)
}

func TestLinkAll_SelfReferenceAndMultipleCycles(t *testing.T) {
	schemas := []*ConfigSchema{
		schemaWith("svc.Node", "svc.Node"),
		schemaWith("svc.X", "svc.Y"),
		schemaWith("svc.Y", "svc.X"),
	}

	l, err := LinkAll(schemas)
	require.Error(t, err)

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	require.Len(t, joined.Unwrap(), 2)

	assert.Equal(t, [][]resolve.SchemaID{{"svc.Node"}, {"svc.X", "svc.Y"}}, l.Cycles)
	assert.Empty(t, l.Order)
}

func TestLinkAll_External(t *testing.T) {
	schemas := []*ConfigSchema{schemaWith("svc.Outer", "other.Pool", "svc.Inner"), schemaWith("svc.Inner")}

	l, err := LinkAll(schemas)
	require.NoError(t, err)

	assert.Equal(t, []resolve.SchemaID{"other.Pool"}, l.External)
	assert.Equal(t, []resolve.SchemaID{"svc.Inner", "svc.Outer"}, l.Order)
}

func TestTopoSort_Cycle(t *testing.T) {
	_, err := topoSort(2, func(i int) []int {
		if i == 0 {
			return []int{1}
		}

		return []int{0}
	})
	require.Error(t, err)

	_, err = topoSort(1, func(int) []int { return []int{3} })
	require.Error(t, err)
}
