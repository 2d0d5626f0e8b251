package schema

import (
	"configen/internal/common"
	"configen/internal/diagnostic"
	"configen/internal/resolve"
)

// Flags are the manifest's default_flags, emitted as meta fields.
type Flags struct {
	// Convert is the _convert_ value; empty omits the field.
	Convert string
	// Recursive is the _recursive_ value; nil omits the field.
	Recursive *bool
}

// Param is a resolved parameter ready to become a field.
type Param struct {
	Name       string
	Type       resolve.ResolvedType
	Default    any
	HasDefault bool
}

// Input describes one callable to build a schema for.
type Input struct {
	ID     resolve.SchemaID
	Source string
	Params []Param
}

// Builder builds ConfigSchemas.
type Builder struct {
	flags Flags
}

// NewBuilder creates a Builder.
func NewBuilder(flags Flags) *Builder {
	return &Builder{flags: flags}
}

// Build creates the schema for one callable. Unrepresentable parameters and
// defaults that cannot be coerced become Unresolved entries and warnings;
// Build itself never fails.
func (b *Builder) Build(in Input) (*ConfigSchema, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	s := &ConfigSchema{
		ID:     in.ID,
		Source: in.Source,
		Name:   StructName(in.ID),
		Meta:   b.meta(in.Source),
	}

	taken := make(map[string]bool)
	for _, m := range s.Meta {
		taken[m.Name] = true
	}

	for i, p := range in.Params {
		if p.Type.IsUnrepresentable() {
			s.Unresolved = append(s.Unresolved, UnresolvedField{Name: p.Name, Reason: p.Type.Reason, Index: i})
			diags.AddWarning(diagnostic.CodeUnrepresentable, p.Type.Reason, in.ID.String(), p.Name)

			continue
		}

		f := Field{
			Name:  fieldName(p.Name, taken),
			Key:   p.Name,
			Type:  p.Type,
			Index: i,
		}

		if p.HasDefault {
			v, err := Coerce(p.Type, p.Default)
			if err != nil {
				reason := "unrenderable default: " + err.Error()
				s.Unresolved = append(s.Unresolved, UnresolvedField{Name: p.Name, Reason: reason, Index: i})
				diags.AddWarning(diagnostic.CodeRender, reason, in.ID.String(), p.Name)

				continue
			}

			f.Default = Default{Set: v != nil, Value: v}
		}

		f.Required = !p.HasDefault && !p.Type.IsOptional()
		taken[f.Name] = true
		s.Fields = append(s.Fields, f)
	}

	return s, diags
}

func (b *Builder) meta(source string) []Field {
	str := resolve.Primitive(resolve.PrimitiveString)

	meta := []Field{{
		Name:    "Target",
		Key:     KeyTarget,
		Type:    str,
		Default: Default{Set: true, Value: source},
		Index:   -1,
	}}

	if b.flags.Convert != "" {
		meta = append(meta, Field{
			Name:    "Convert",
			Key:     KeyConvert,
			Type:    str,
			Default: Default{Set: true, Value: b.flags.Convert},
			Index:   -1,
		})
	}

	if b.flags.Recursive != nil {
		meta = append(meta, Field{
			Name:    "Recursive",
			Key:     KeyRecursive,
			Type:    resolve.Primitive(resolve.PrimitiveBool),
			Default: Default{Set: true, Value: *b.flags.Recursive},
			Index:   -1,
		})
	}

	return meta
}

// fieldName returns a Go field name for param that is not in taken.
func fieldName(param string, taken map[string]bool) string {
	name := common.ExportedName(param)
	for taken[name] {
		name += "Arg"
	}

	return name
}
