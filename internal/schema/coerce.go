package schema

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"configen/internal/resolve"
)

// Coerce converts a manifest default into the value shape described by t.
// A nil result for an optional type means "unset".
func Coerce(t resolve.ResolvedType, v any) (any, error) {
	switch t.Kind {
	case resolve.KindPrimitive:
		return coercePrimitive(t.Primitive, v)
	case resolve.KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("enum %s needs a member name, got %T", t.EnumName(), v)
		}

		if !slices.Contains(t.Members, s) {
			return nil, fmt.Errorf("%q is not a member of %s", s, t.EnumName())
		}

		return s, nil
	case resolve.KindList:
		return coerceList(*t.Elem, v)
	case resolve.KindMapping:
		return coerceMapping(t.Key, *t.Elem, v)
	case resolve.KindOptional:
		if v == nil {
			return nil, nil
		}

		return Coerce(*t.Elem, v)
	case resolve.KindNested:
		if n, ok := mapLen(v); ok && n == 0 {
			return NestedDefault{Ref: t.Ref}, nil
		}

		return nil, fmt.Errorf("nested config %s only accepts an empty mapping", t.Ref)
	default:
		return nil, fmt.Errorf("type %s has no default representation", t)
	}
}

func coercePrimitive(kind resolve.PrimitiveKind, v any) (any, error) {
	switch kind {
	case resolve.PrimitiveBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case resolve.PrimitiveInt:
		if i, ok := asInt(v); ok {
			return i, nil
		}
	case resolve.PrimitiveFloat:
		if f, ok := asFloat(v); ok {
			return f, nil
		}
	case resolve.PrimitiveString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	}

	return nil, fmt.Errorf("cannot use %T %#v as %s", v, v, kind)
}

func asInt(v any) (int64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}

		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}

		return int64(f), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func coerceList(elem resolve.ResolvedType, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("list needs a sequence, got %T", v)
	}

	out := make([]any, 0, rv.Len())

	for i := range rv.Len() {
		item, err := Coerce(elem, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		out = append(out, item)
	}

	return out, nil
}

func mapLen(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return 0, false
	}

	return rv.Len(), true
}

func coerceMapping(key resolve.PrimitiveKind, value resolve.ResolvedType, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("mapping needs a map, got %T", v)
	}

	out := make([]Entry, 0, rv.Len())
	raw := make(map[any]any, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		k, err := coerceKey(key, iter.Key().Interface())
		if err != nil {
			return nil, err
		}

		if prev, dup := raw[k]; dup {
			a, b := fmt.Sprintf("%#v", prev), fmt.Sprintf("%#v", iter.Key().Interface())
			if b < a {
				a, b = b, a
			}

			return nil, fmt.Errorf("keys %s and %s both become %#v", a, b, k)
		}

		raw[k] = iter.Key().Interface()

		val, err := Coerce(value, iter.Value().Interface())
		if err != nil {
			return nil, fmt.Errorf("key %#v: %w", k, err)
		}

		out = append(out, Entry{Key: k, Value: val})
	}

	slices.SortFunc(out, func(a, b Entry) int { return compareKeys(a.Key, b.Key) })

	return out, nil
}

// coerceKey also accepts string keys for numeric and boolean kinds, since
// YAML and HCL object keys are strings.
func coerceKey(kind resolve.PrimitiveKind, k any) (any, error) {
	if s, ok := k.(string); ok && kind != resolve.PrimitiveString {
		switch kind {
		case resolve.PrimitiveBool:
			if b, err := strconv.ParseBool(s); err == nil {
				return b, nil
			}
		case resolve.PrimitiveInt:
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i, nil
			}
		case resolve.PrimitiveFloat:
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, nil
			}
		}

		return nil, fmt.Errorf("cannot use key %q as %s", s, kind)
	}

	out, err := coercePrimitive(kind, k)
	if err != nil {
		return nil, fmt.Errorf("key: %w", err)
	}

	return out, nil
}

func compareKeys(a, b any) int {
	switch x := a.(type) {
	case string:
		return cmp.Compare(x, b.(string))
	case int64:
		return cmp.Compare(x, b.(int64))
	case float64:
		return cmp.Compare(x, b.(float64))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	default:
		return 0
	}
}
