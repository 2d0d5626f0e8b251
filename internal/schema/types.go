package schema

import (
	"slices"
	"strconv"

	"configen/internal/common"
	"configen/internal/resolve"
)

// Meta field keys.
const (
	KeyTarget    = "_target_"
	KeyConvert   = "_convert_"
	KeyRecursive = "_recursive_"
)

// Default is a coerced default value. Value holds bool, int64, float64 or
// string for scalars and enum members, []any for lists, []Entry for
// mappings, and NestedDefault for nested configs.
type Default struct {
	Set   bool
	Value any
}

// Entry is one mapping default entry. Entries are sorted by key.
type Entry struct {
	Key   any
	Value any
}

// NestedDefault renders as the referenced schema's default constructor.
type NestedDefault struct {
	Ref resolve.SchemaID
}

// Field is one emitted configuration field.
type Field struct {
	// Name is the exported Go field name.
	Name string
	// Key is the configuration key (the parameter name).
	Key      string
	Type     resolve.ResolvedType
	Default  Default
	Required bool
	// Index is the parameter position.
	Index int
}

// UnresolvedField is a parameter that could not be given a typed field.
type UnresolvedField struct {
	Name   string
	Reason string
	Index  int
}

// ConfigSchema is the configuration description of one callable.
type ConfigSchema struct {
	ID resolve.SchemaID
	// Source is the qualified name of the callable that consumes the config.
	Source string
	// Name is the Go struct name, e.g. "InnerConf".
	Name       string
	Fields     []Field
	Unresolved []UnresolvedField
	Meta       []Field
}

// Field returns the field with the given key.
func (s *ConfigSchema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}

	return Field{}, false
}

// Refs returns the distinct schemas referenced by fields, sorted.
func (s *ConfigSchema) Refs() []resolve.SchemaID {
	var refs []resolve.SchemaID
	for _, f := range s.Fields {
		refs = append(refs, f.Type.Refs()...)
	}

	slices.Sort(refs)

	return slices.Compact(refs)
}

// Enums returns the distinct enum types used by fields in first-use order.
func (s *ConfigSchema) Enums() []resolve.ResolvedType {
	var (
		out  []resolve.ResolvedType
		seen = make(map[string]bool)
	)

	for _, f := range s.Fields {
		for _, e := range f.Type.Enums() {
			if !seen[e.Name] {
				seen[e.Name] = true

				out = append(out, e)
			}
		}
	}

	return out
}

// Degrade moves the field with the given key to Unresolved. It reports
// whether such a field existed.
func (s *ConfigSchema) Degrade(key, reason string) bool {
	i := slices.IndexFunc(s.Fields, func(f Field) bool { return f.Key == key })
	if i < 0 {
		return false
	}

	f := s.Fields[i]
	s.Fields = slices.Delete(s.Fields, i, i+1)

	u := UnresolvedField{Name: f.Key, Reason: reason, Index: f.Index}
	at, _ := slices.BinarySearchFunc(s.Unresolved, u.Index, func(e UnresolvedField, idx int) int {
		return e.Index - idx
	})
	s.Unresolved = slices.Insert(s.Unresolved, at, u)

	return true
}

// StructName returns the default Go struct name for a schema id.
func StructName(id resolve.SchemaID) string {
	return common.ExportedName(id.Name()) + "Conf"
}

// UniqueNames prefixes colliding struct names with their package alias,
// e.g. two "InnerConf" become "ServiceInnerConf" and "StoreInnerConf".
func UniqueNames(schemas []*ConfigSchema) {
	count := make(map[string]int, len(schemas))
	for _, s := range schemas {
		count[s.Name]++
	}

	used := make(map[string]bool, len(schemas))

	for _, s := range schemas {
		if count[s.Name] > 1 {
			s.Name = common.ExportedName(common.PkgAlias(s.ID.PkgPath())) + s.Name
		}

		name := s.Name
		for n := 2; used[name]; n++ {
			name = s.Name + strconv.Itoa(n)
		}

		s.Name = name
		used[name] = true
	}
}
