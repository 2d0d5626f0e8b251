package resolve

import "strings"

// desc is a test-only type description understood by descClassifier.
type desc struct {
	shape   string // absent, prim, enum, list, map, ptr, union, struct, other
	prim    PrimitiveKind
	name    string
	members []string
	elem    *desc
	key     *desc
	terms   []*desc
	absent  bool
}

func prim(k PrimitiveKind) *desc { return &desc{shape: "prim", prim: k, name: k.String()} }
func list(e *desc) *desc { return &desc{shape: "list", elem: e} }
func ptr(e *desc) *desc { return &desc{shape: "ptr", elem: e} }
func mapping(k, v *desc) *desc { return &desc{shape: "map", key: k, elem: v} }
func structure(name string) *desc { return &desc{shape: "struct", name: name} }
func other(name string) *desc { return &desc{shape: "other", name: name} }
func enum(name string, m ...string) *desc {
	return &desc{shape: "enum", name: name, members: m}
}

func union(absent bool, terms ...*desc) *desc {
	return &desc{shape: "union", terms: terms, absent: absent}
}

type descClassifier struct{}

func (descClassifier) Absent(t RawType) bool {
	d, ok := t.(*desc)

	return !ok || d == nil || d.shape == "absent"
}

func (descClassifier) Primitive(t RawType) (PrimitiveKind, bool) {
	d := t.(*desc)
	if d.shape != "prim" {
		return PrimitiveNone, false
	}

	return d.prim, true
}

func (descClassifier) Enum(t RawType) (string, []string, bool) {
	d := t.(*desc)

	return d.name, d.members, d.shape == "enum"
}

func (descClassifier) List(t RawType) (RawType, bool) {
	d := t.(*desc)
	if d.shape != "list" {
		return nil, false
	}

	return d.elem, true
}

func (descClassifier) Mapping(t RawType) (RawType, RawType, bool) {
	d := t.(*desc)
	if d.shape != "map" {
		return nil, nil, false
	}

	return d.key, d.elem, true
}

func (descClassifier) Optional(t RawType) (RawType, bool) {
	d := t.(*desc)
	if d.shape != "ptr" {
		return nil, false
	}

	return d.elem, true
}

func (descClassifier) Union(t RawType) ([]RawType, bool, bool) {
	d := t.(*desc)
	if d.shape != "union" {
		return nil, false, false
	}

	terms := make([]RawType, len(d.terms))
	for i, term := range d.terms {
		terms[i] = term
	}

	return terms, d.absent, true
}

func (descClassifier) Structure(t RawType) (string, bool) {
	d := t.(*desc)

	return d.name, d.shape == "struct"
}

func (c descClassifier) Name(t RawType) string {
	d, ok := t.(*desc)
	if !ok || d == nil {
		return "<nil>"
	}

	switch d.shape {
	case "list":
		return "[]" + c.Name(d.elem)
	case "ptr":
		return "*" + c.Name(d.elem)
	case "map":
		return "map[" + c.Name(d.key) + "]" + c.Name(d.elem)
	case "union":
		parts := make([]string, 0, len(d.terms))
		for _, term := range d.terms {
			parts = append(parts, c.Name(term))
		}

		return strings.Join(parts, " | ")
	default:
		return d.name
	}
}
