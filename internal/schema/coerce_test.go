package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configen/internal/resolve"
)

func TestCoerce(t *testing.T) {
	var (
		boolT  = resolve.Primitive(resolve.PrimitiveBool)
		intT   = resolve.Primitive(resolve.PrimitiveInt)
		floatT = resolve.Primitive(resolve.PrimitiveFloat)
		strT   = resolve.Primitive(resolve.PrimitiveString)
		enumT  = resolve.Enum("svc.Level", []string{"LevelDebug", "LevelInfo"})
	)

	tests := []struct {
		name    string
		typ     resolve.ResolvedType
		in      any
		want    any
		wantErr bool
	}{
		{"bool", boolT, true, true, false},
		{"bool from int", boolT, 1, nil, true},
		{"int", intT, 3, int64(3), false},
		{"int from uint8", intT, uint8(7), int64(7), false},
		{"int from integral float", intT, 4.0, int64(4), false},
		{"int from fraction", intT, 4.5, nil, true},
		{"float from int", floatT, 2, 2.0, false},
		{"string", strT, "x", "x", false},
		{"string from int", strT, 1, nil, true},
		{"enum member", enumT, "LevelInfo", "LevelInfo", false},
		{"enum non-member", enumT, "LevelTrace", nil, true},
		{"list", resolve.List(intT), []any{1, 2}, []any{int64(1), int64(2)}, false},
		{"list bad item", resolve.List(intT), []any{1, "x"}, nil, true},
		{"list from scalar", resolve.List(intT), 1, nil, true},
		{"optional nil", resolve.Optional(intT), nil, nil, false},
		{"optional value", resolve.Optional(intT), 5, int64(5), false},
		{"nested empty", resolve.Nested("svc.Inner"), map[string]any{}, NestedDefault{Ref: "svc.Inner"}, false},
		{"nested non-empty", resolve.Nested("svc.Inner"), map[string]any{"size": 1}, nil, true},
		{"unrepresentable", resolve.Unrepresentable("chan int"), 1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.typ, tt.in)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerce_MappingSortsKeys(t *testing.T) {
	typ := resolve.Mapping(resolve.PrimitiveString, resolve.Primitive(resolve.PrimitiveFloat))

	got, err := Coerce(typ, map[string]any{"b": 2, "a": 1.5, "c": 0})
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Key: "a", Value: 1.5},
		{Key: "b", Value: 2.0},
		{Key: "c", Value: 0.0},
	}, got)
}

func TestCoerce_MappingKeyConversion(t *testing.T) {
	typ := resolve.Mapping(resolve.PrimitiveInt, resolve.Primitive(resolve.PrimitiveString))

	got, err := Coerce(typ, map[any]any{"10": "ten", 2: "two"})
	require.NoError(t, err)

	assert.Equal(t, []Entry{{Key: int64(2), Value: "two"}, {Key: int64(10), Value: "ten"}}, got)

	_, err = Coerce(typ, map[string]any{"x": "bad"})
	require.Error(t, err)
}

func TestCoerce_MappingDuplicateKeys(t *testing.T) {
	tests := []struct {
		name    string
		key     resolve.PrimitiveKind
		in      map[string]any
		wantErr string
	}{
		{"leading zero", resolve.PrimitiveInt, map[string]any{"80": "a", "080": "b"}, `keys "080" and "80" both become 80`},
		{"bool spellings", resolve.PrimitiveBool, map[string]any{"true": "a", "1": "b"}, `keys "1" and "true" both become true`},
		{"float spellings", resolve.PrimitiveFloat, map[string]any{"1.5": "a", "1.50": "b"}, "both become 1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Coerce(resolve.Mapping(tt.key, resolve.Primitive(resolve.PrimitiveString)), tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCoerce_ErrorsStayOnOneLine(t *testing.T) {
	_, err := Coerce(resolve.Primitive(resolve.PrimitiveInt), "a\nb")
	require.Error(t, err)
	assert.Equal(t, `cannot use string "a\nb" as int`, err.Error())

	_, err = Coerce(resolve.Mapping(resolve.PrimitiveString, resolve.Primitive(resolve.PrimitiveInt)), map[string]any{"x\ny": "z"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "\n")
}
