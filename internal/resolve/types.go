package resolve

import (
	"slices"
	"strings"

	"configen/internal/common"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind

// Kind tags the variant held by a ResolvedType.
type Kind int

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindEnum
	KindList
	KindMapping
	KindOptional
	KindNested
	KindUnrepresentable
)

// PrimitiveKind is one of the four scalar kinds a config value can hold.
type PrimitiveKind int

const (
	PrimitiveNone PrimitiveKind = iota
	PrimitiveBool
	PrimitiveInt
	PrimitiveFloat
	PrimitiveString
)

// String returns the canonical primitive name.
func (p PrimitiveKind) String() string {
	switch p {
	case PrimitiveBool:
		return "bool"
	case PrimitiveInt:
		return "int"
	case PrimitiveFloat:
		return "float"
	case PrimitiveString:
		return "string"
	default:
		return common.UnknownStr
	}
}

// ParsePrimitive maps a canonical primitive name back to its kind.
func ParsePrimitive(s string) (PrimitiveKind, bool) {
	switch s {
	case "bool":
		return PrimitiveBool, true
	case "int":
		return PrimitiveInt, true
	case "float":
		return PrimitiveFloat, true
	case "string":
		return PrimitiveString, true
	default:
		return PrimitiveNone, false
	}
}

// SchemaID identifies a generated schema. It is the qualified name of the
// struct type (or plain function) the schema was derived from.
type SchemaID string

// String returns the qualified name.
func (id SchemaID) String() string {
	return string(id)
}

// PkgPath returns the import path part of the id.
func (id SchemaID) PkgPath() string {
	pkg, _, _ := common.SplitQualified(string(id))
	return pkg
}

// Name returns the member name part of the id.
func (id SchemaID) Name() string {
	_, name, ok := common.SplitQualified(string(id))
	if !ok {
		return string(id)
	}

	return name
}

// ResolvedType is the canonical form of a declared type.
type ResolvedType struct {
	Kind Kind
	// Primitive is set for KindPrimitive.
	Primitive PrimitiveKind
	// Key is the mapping key kind for KindMapping.
	Key PrimitiveKind
	// Name is the qualified enum type name for KindEnum.
	Name string
	// Members lists enum members in declaration order.
	Members []string
	// Elem is the element of a list, the value of a mapping, or the wrapped
	// type of an optional.
	Elem *ResolvedType
	// Ref is the referenced schema for KindNested.
	Ref SchemaID
	// Reason explains a KindUnrepresentable result.
	Reason string
}

// Primitive returns a primitive type.
func Primitive(kind PrimitiveKind) ResolvedType {
	return ResolvedType{Kind: KindPrimitive, Primitive: kind}
}

// Enum returns an enumeration with members in declaration order.
func Enum(name string, members []string) ResolvedType {
	return ResolvedType{Kind: KindEnum, Name: name, Members: slices.Clone(members)}
}

// List returns a list of elem. An unrepresentable element makes the whole
// list unrepresentable.
func List(elem ResolvedType) ResolvedType {
	if elem.Kind == KindUnrepresentable {
		return elem
	}

	return ResolvedType{Kind: KindList, Elem: &elem}
}

// Mapping returns a map keyed by a primitive. An unrepresentable value makes
// the whole mapping unrepresentable.
func Mapping(key PrimitiveKind, value ResolvedType) ResolvedType {
	if value.Kind == KindUnrepresentable {
		return value
	}

	return ResolvedType{Kind: KindMapping, Key: key, Elem: &value}
}

// Optional wraps inner exactly once: an optional inner is returned as is, and
// an unrepresentable inner stays unrepresentable.
func Optional(inner ResolvedType) ResolvedType {
	if inner.Kind == KindOptional || inner.Kind == KindUnrepresentable {
		return inner
	}

	return ResolvedType{Kind: KindOptional, Elem: &inner}
}

// Nested returns a lazy reference to another schema.
func Nested(ref SchemaID) ResolvedType {
	return ResolvedType{Kind: KindNested, Ref: ref}
}

// Unrepresentable returns the terminal "cannot be emitted" result.
func Unrepresentable(reason string) ResolvedType {
	return ResolvedType{Kind: KindUnrepresentable, Reason: reason}
}

// IsUnrepresentable reports whether t has no typed representation.
func (t ResolvedType) IsUnrepresentable() bool {
	return t.Kind == KindUnrepresentable
}

// IsOptional reports whether t is an optional wrapper.
func (t ResolvedType) IsOptional() bool {
	return t.Kind == KindOptional
}

// EnumName returns the unqualified enum type name.
func (t ResolvedType) EnumName() string {
	if _, name, ok := common.SplitQualified(t.Name); ok {
		return name
	}

	return t.Name
}

// Refs returns the schemas referenced anywhere inside t, in walk order.
func (t ResolvedType) Refs() []SchemaID {
	var refs []SchemaID

	t.walk(func(rt ResolvedType) {
		if rt.Kind == KindNested {
			refs = append(refs, rt.Ref)
		}
	})

	return refs
}

// Enums returns the enum types used anywhere inside t, in walk order.
func (t ResolvedType) Enums() []ResolvedType {
	var enums []ResolvedType

	t.walk(func(rt ResolvedType) {
		if rt.Kind == KindEnum {
			enums = append(enums, rt)
		}
	})

	return enums
}

func (t ResolvedType) walk(fn func(ResolvedType)) {
	fn(t)

	if t.Elem != nil {
		t.Elem.walk(fn)
	}
}

// String renders the canonical text form, e.g. "optional[list[int]]".
func (t ResolvedType) String() string {
	var sb strings.Builder
	t.write(&sb)

	return sb.String()
}

func (t ResolvedType) write(sb *strings.Builder) {
	switch t.Kind {
	case KindPrimitive:
		sb.WriteString(t.Primitive.String())
	case KindEnum:
		sb.WriteString("enum[" + t.Name + "]")
	case KindList:
		sb.WriteString("list[")
		t.Elem.write(sb)
		sb.WriteString("]")
	case KindMapping:
		sb.WriteString("map[" + t.Key.String() + "]")
		t.Elem.write(sb)
	case KindOptional:
		sb.WriteString("optional[")
		t.Elem.write(sb)
		sb.WriteString("]")
	case KindNested:
		sb.WriteString("nested[" + string(t.Ref) + "]")
	case KindUnrepresentable:
		sb.WriteString("unrepresentable(" + t.Reason + ")")
	default:
		sb.WriteString("invalid")
	}
}
