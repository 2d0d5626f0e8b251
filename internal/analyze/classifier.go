package analyze

import (
	"fmt"
	"go/types"
	"maps"
	"slices"
	"sync"

	"configen/internal/common"
	"configen/internal/resolve"
)

// DefaultKnownTypes maps well-known named types that config files carry as
// strings.
func DefaultKnownTypes() map[string]string {
	return map[string]string{
		"time.Duration":               "string",
		"time.Time":                   "string",
		"net/url.URL":                 "string",
		"github.com/google/uuid.UUID": "string",
	}
}

// TypesClassifier implements resolve.Classifier over go/types.
type TypesClassifier struct {
	known map[string]resolve.PrimitiveKind

	mu    sync.Mutex
	enums map[*types.TypeName][]string
}

var _ resolve.Classifier = (*TypesClassifier)(nil)

// NewTypesClassifier creates a classifier. known maps qualified type names to
// primitive kind names ("bool", "int", "float", "string") and is layered over
// DefaultKnownTypes.
func NewTypesClassifier(known map[string]string) (*TypesClassifier, error) {
	merged := DefaultKnownTypes()
	maps.Copy(merged, known)

	c := &TypesClassifier{
		known: make(map[string]resolve.PrimitiveKind, len(merged)),
		enums: make(map[*types.TypeName][]string),
	}

	for name, kind := range merged {
		pk, ok := resolve.ParsePrimitive(kind)
		if !ok {
			return nil, fmt.Errorf("known type %s: unsupported kind %q", name, kind)
		}

		c.known[name] = pk
	}

	return c, nil
}

func asType(raw resolve.RawType) types.Type {
	t, _ := raw.(types.Type)
	if t == nil {
		return nil
	}

	return types.Unalias(t)
}

// Absent reports nil and invalid types.
func (c *TypesClassifier) Absent(raw resolve.RawType) bool {
	t := asType(raw)
	if t == nil {
		return true
	}

	b, ok := t.(*types.Basic)

	return ok && b.Kind() == types.Invalid
}

// Primitive reports known types and types with a boolean, numeric or string
// underlying type. Enumerations are excluded.
func (c *TypesClassifier) Primitive(raw resolve.RawType) (resolve.PrimitiveKind, bool) {
	t := asType(raw)

	if named, ok := t.(*types.Named); ok {
		if kind, ok := c.known[qualifiedName(named.Obj())]; ok {
			return kind, true
		}

		if len(c.members(named)) > 0 {
			return resolve.PrimitiveNone, false
		}
	}

	b, ok := t.Underlying().(*types.Basic)
	if !ok {
		return resolve.PrimitiveNone, false
	}

	info := b.Info()

	switch {
	case info&types.IsBoolean != 0:
		return resolve.PrimitiveBool, true
	case info&types.IsInteger != 0:
		return resolve.PrimitiveInt, true
	case info&types.IsFloat != 0:
		return resolve.PrimitiveFloat, true
	case info&types.IsString != 0:
		return resolve.PrimitiveString, true
	default:
		return resolve.PrimitiveNone, false
	}
}

// Enum reports a named integer or string type with package-level constants
// of exactly that type.
func (c *TypesClassifier) Enum(raw resolve.RawType) (string, []string, bool) {
	named, ok := asType(raw).(*types.Named)
	if !ok {
		return "", nil, false
	}

	members := c.members(named)
	if len(members) == 0 {
		return "", nil, false
	}

	return qualifiedName(named.Obj()), members, true
}

// members returns the constant names of an enum-like type in declaration
// order, caching the result per type.
func (c *TypesClassifier) members(named *types.Named) []string {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return nil
	}

	b, ok := named.Underlying().(*types.Basic)
	if !ok || b.Info()&(types.IsInteger|types.IsString) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.enums[obj]; ok {
		return m
	}

	var consts []*types.Const

	scope := obj.Pkg().Scope()
	for _, name := range scope.Names() {
		if k, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(k.Type(), named) {
			consts = append(consts, k)
		}
	}

	slices.SortStableFunc(consts, func(a, b *types.Const) int {
		return int(a.Pos()) - int(b.Pos())
	})

	members := make([]string, 0, len(consts))
	for _, k := range consts {
		members = append(members, k.Name())
	}

	c.enums[obj] = members

	return members
}

// List reports slices and arrays.
func (c *TypesClassifier) List(raw resolve.RawType) (resolve.RawType, bool) {
	switch u := asType(raw).Underlying().(type) {
	case *types.Slice:
		return u.Elem(), true
	case *types.Array:
		return u.Elem(), true
	default:
		return nil, false
	}
}

// Mapping reports maps.
func (c *TypesClassifier) Mapping(raw resolve.RawType) (resolve.RawType, resolve.RawType, bool) {
	m, ok := asType(raw).Underlying().(*types.Map)
	if !ok {
		return nil, nil, false
	}

	return m.Key(), m.Elem(), true
}

// Optional reports pointers.
func (c *TypesClassifier) Optional(raw resolve.RawType) (resolve.RawType, bool) {
	p, ok := asType(raw).Underlying().(*types.Pointer)
	if !ok {
		return nil, false
	}

	return p.Elem(), true
}

// Union reports type parameters whose constraint is a union of terms, such as
// [T int | float64]. Go has no absent-value term, so absent is always false.
func (c *TypesClassifier) Union(raw resolve.RawType) ([]resolve.RawType, bool, bool) {
	tp, ok := asType(raw).(*types.TypeParam)
	if !ok {
		return nil, false, false
	}

	terms, ok := unionTerms(tp.Constraint(), 0)
	if !ok {
		return nil, false, false
	}

	return terms, false, true
}

// unionTerms flattens a constraint made of exactly one union, possibly behind
// named constraint interfaces.
func unionTerms(constraint types.Type, depth int) ([]resolve.RawType, bool) {
	iface, ok := constraint.Underlying().(*types.Interface)
	if !ok || depth > 8 || iface.NumExplicitMethods() > 0 || iface.NumEmbeddeds() != 1 {
		return nil, false
	}

	switch e := iface.EmbeddedType(0).(type) {
	case *types.Union:
		terms := make([]resolve.RawType, 0, e.Len())
		for i := range e.Len() {
			terms = append(terms, e.Term(i).Type())
		}

		return terms, true
	case *types.Basic:
		return []resolve.RawType{e}, true
	default:
		if _, ok := e.Underlying().(*types.Interface); ok {
			return unionTerms(e, depth+1)
		}

		return []resolve.RawType{e}, true
	}
}

// Structure reports named struct types.
func (c *TypesClassifier) Structure(raw resolve.RawType) (string, bool) {
	named, ok := asType(raw).(*types.Named)
	if !ok {
		return "", false
	}

	if _, ok := named.Underlying().(*types.Struct); !ok {
		return "", false
	}

	return qualifiedName(named.Obj()), true
}

// Name returns the type text with full import paths.
func (c *TypesClassifier) Name(raw resolve.RawType) string {
	t, _ := raw.(types.Type)
	if t == nil {
		return "<nil>"
	}

	if tp, ok := t.(*types.TypeParam); ok {
		return tp.Obj().Name() + " " + types.TypeString(tp.Constraint(), nil)
	}

	return types.TypeString(t, nil)
}

func qualifiedName(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}

	return common.Qualify(obj.Pkg().Path(), obj.Name())
}
