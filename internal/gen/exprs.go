package gen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"configen/internal/resolve"
	"configen/internal/schema"
)

// exprContext renders type and value expressions for one file and records
// the imports they need.
type exprContext struct {
	imports ImportMap
	// enumTypes maps qualified enum names to generated type names.
	enumTypes map[string]enumDecl
	used      map[string]importSpec
}

func (c *exprContext) ref(id resolve.SchemaID) (ImportRef, error) {
	ref, ok := c.imports[id]
	if !ok {
		return ImportRef{}, fmt.Errorf("no import entry for schema %s", id)
	}

	if ref.Path != "" {
		c.used[ref.Path] = ref.spec()
	}

	return ref, nil
}

func primitiveType(k resolve.PrimitiveKind) string {
	switch k {
	case resolve.PrimitiveBool:
		return "bool"
	case resolve.PrimitiveInt:
		return "int"
	case resolve.PrimitiveFloat:
		return "float64"
	default:
		return "string"
	}
}

// typeExpr returns the Go type of a field.
func (c *exprContext) typeExpr(t resolve.ResolvedType) (string, error) {
	switch t.Kind {
	case resolve.KindPrimitive:
		return primitiveType(t.Primitive), nil
	case resolve.KindEnum:
		return c.enumTypes[t.Name].TypeName, nil
	case resolve.KindList:
		elem, err := c.typeExpr(*t.Elem)
		if err != nil {
			return "", err
		}

		return "[]" + elem, nil
	case resolve.KindMapping:
		elem, err := c.typeExpr(*t.Elem)
		if err != nil {
			return "", err
		}

		return "map[" + primitiveType(t.Key) + "]" + elem, nil
	case resolve.KindOptional:
		inner, err := c.typeExpr(*t.Elem)
		if err != nil {
			return "", err
		}

		if nilable(*t.Elem) {
			return inner, nil
		}

		return "*" + inner, nil
	case resolve.KindNested:
		ref, err := c.ref(t.Ref)
		if err != nil {
			return "", err
		}

		return ref.qualifier() + ref.TypeName, nil
	default:
		return "", fmt.Errorf("type %s cannot be emitted", t)
	}
}

// nilable reports types whose zero value already means "unset".
func nilable(t resolve.ResolvedType) bool {
	return t.Kind == resolve.KindList || t.Kind == resolve.KindMapping
}

// valueExpr returns the Go expression for a coerced default.
func (c *exprContext) valueExpr(t resolve.ResolvedType, v any) (string, error) {
	switch t.Kind {
	case resolve.KindPrimitive:
		return literal(t.Primitive, v)
	case resolve.KindEnum:
		s, _ := v.(string)

		name, ok := c.enumTypes[t.Name].constFor(s)
		if !ok {
			return "", fmt.Errorf("%q is not a member of %s", s, t.EnumName())
		}

		return name, nil
	case resolve.KindList:
		return c.listExpr(t, v)
	case resolve.KindMapping:
		return c.mapExpr(t, v)
	case resolve.KindOptional:
		inner, err := c.valueExpr(*t.Elem, v)
		if err != nil || nilable(*t.Elem) {
			return inner, err
		}

		typ, err := c.typeExpr(*t.Elem)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("func() *%s { var v %s = %s; return &v }()", typ, typ, inner), nil
	case resolve.KindNested:
		ref, err := c.ref(t.Ref)
		if err != nil {
			return "", err
		}

		return ref.qualifier() + "Default" + ref.TypeName + "()", nil
	default:
		return "", fmt.Errorf("type %s has no default", t)
	}
}

func (c *exprContext) listExpr(t resolve.ResolvedType, v any) (string, error) {
	items, ok := v.([]any)
	if !ok {
		return "", fmt.Errorf("list default has type %T", v)
	}

	typ, err := c.typeExpr(t)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(items))

	for _, item := range items {
		s, err := c.valueExpr(*t.Elem, item)
		if err != nil {
			return "", err
		}

		parts = append(parts, s)
	}

	return typ + "{" + strings.Join(parts, ", ") + "}", nil
}

func (c *exprContext) mapExpr(t resolve.ResolvedType, v any) (string, error) {
	entries, ok := v.([]schema.Entry)
	if !ok {
		return "", fmt.Errorf("mapping default has type %T", v)
	}

	typ, err := c.typeExpr(t)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(entries))

	for _, e := range entries {
		k, err := literal(t.Key, e.Key)
		if err != nil {
			return "", err
		}

		val, err := c.valueExpr(*t.Elem, e.Value)
		if err != nil {
			return "", err
		}

		parts = append(parts, k+": "+val)
	}

	return typ + "{" + strings.Join(parts, ", ") + "}", nil
}

func literal(k resolve.PrimitiveKind, v any) (string, error) {
	switch x := v.(type) {
	case bool:
		if k == resolve.PrimitiveBool {
			return strconv.FormatBool(x), nil
		}
	case int64:
		if k == resolve.PrimitiveInt || k == resolve.PrimitiveFloat {
			return strconv.FormatInt(x, 10), nil
		}
	case float64:
		if k == resolve.PrimitiveFloat && !math.IsNaN(x) && !math.IsInf(x, 0) {
			s := strconv.FormatFloat(x, 'g', -1, 64)
			if !strings.ContainsAny(s, ".eE") {
				s += ".0"
			}

			return s, nil
		}
	case string:
		if k == resolve.PrimitiveString {
			return strconv.Quote(x), nil
		}
	}

	return "", fmt.Errorf("cannot render %T %v as %s", v, v, k)
}
