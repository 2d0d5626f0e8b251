package manifest

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

type hclManifest struct {
	Version      string            `hcl:"version,optional"`
	Header       string            `hcl:"header,optional"`
	KnownTypes   map[string]string `hcl:"known_types,optional"`
	Output       *hclOutput        `hcl:"output,block"`
	DefaultFlags *hclFlags         `hcl:"default_flags,block"`
	Structures   []hclStructure    `hcl:"structure,block"`
	Targets      []hclTarget       `hcl:"target,block"`
}

type hclOutput struct {
	Dir     string `hcl:"dir,optional"`
	Package string `hcl:"package,optional"`
}

type hclFlags struct {
	Convert   string `hcl:"convert,optional"`
	Recursive *bool  `hcl:"recursive,optional"`
}

type hclStructure struct {
	Name    string `hcl:"name,label"`
	Package string `hcl:"package,optional"`
	Type    string `hcl:"type,optional"`
}

type hclTarget struct {
	Name        string         `hcl:"name,label"`
	Constructor string         `hcl:"constructor,optional"`
	Defaults    hcl.Expression `hcl:"defaults,optional"`
}

// parseHCL decodes an HCL manifest. filename is only used in diagnostics.
func parseHCL(data []byte, filename string) (*Manifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL manifest %s: %w", filename, diags)
	}

	var raw hclManifest
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL manifest %s: %w", filename, diags)
	}

	m := &Manifest{
		Version:    raw.Version,
		Header:     raw.Header,
		KnownTypes: raw.KnownTypes,
	}

	if raw.Output != nil {
		m.Output = Output{Dir: raw.Output.Dir, Package: raw.Output.Package}
	}

	if raw.DefaultFlags != nil {
		m.DefaultFlags = DefaultFlags{Convert: raw.DefaultFlags.Convert, Recursive: raw.DefaultFlags.Recursive}
	}

	for _, s := range raw.Structures {
		m.Structures = append(m.Structures, Structure(s))
	}

	for _, t := range raw.Targets {
		defaults, err := decodeDefaults(t.Defaults)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", t.Name, err)
		}

		m.Targets = append(m.Targets, Target{Name: t.Name, Constructor: t.Constructor, Defaults: defaults})
	}

	return m, nil
}

func decodeDefaults(expr hcl.Expression) (map[string]any, error) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("defaults: %w", diags)
	}

	if val.IsNull() {
		return nil, nil
	}

	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("defaults must be an object, got %s", val.Type().FriendlyName())
	}

	out, err := fromCty(val)
	if err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	defaults, _ := out.(map[string]any)

	return defaults, nil
}

// fromCty converts a cty value into the plain Go values a YAML decoder
// would produce: int64 or float64 numbers, []any and map[string]any.
func fromCty(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}

	if !val.IsWhollyKnown() {
		return nil, errors.New("value is not known")
	}

	ty := val.Type()

	switch {
	case ty == cty.String:
		return val.AsString(), nil

	case ty == cty.Bool:
		return val.True(), nil

	case ty == cty.Number:
		var i int64
		if err := gocty.FromCtyValue(val, &i); err == nil {
			return i, nil
		}

		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, err
		}

		return f, nil

	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		items := make([]any, 0, val.LengthInt())

		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()

			item, err := fromCty(ev)
			if err != nil {
				return nil, err
			}

			items = append(items, item)
		}

		return items, nil

	case ty.IsMapType() || ty.IsObjectType():
		entries := make(map[string]any, val.LengthInt())

		for it := val.ElementIterator(); it.Next(); {
			kv, ev := it.Element()

			item, err := fromCty(ev)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", kv.AsString(), err)
			}

			entries[kv.AsString()] = item
		}

		return entries, nil

	default:
		return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}
