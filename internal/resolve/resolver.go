package resolve

import "fmt"

// maxDepth bounds recursion through self-referential container types such as
// `type Tree []Tree`.
const maxDepth = 32

// Reasons used for Unrepresentable results.
const (
	ReasonMissingAnnotation = "missing annotation"
	ReasonVariadic          = "variadic parameters not supported"
	ReasonNonPrimitiveKey   = "non-primitive mapping key"
)

// Resolver converts raw types into ResolvedType. It is stateless apart from
// its classifier and context and is safe to reuse across parameters.
type Resolver struct {
	classifier Classifier
	ctx        *Context
}

// NewResolver creates a Resolver.
func NewResolver(classifier Classifier, ctx *Context) *Resolver {
	if ctx == nil {
		ctx = NewContext()
	}

	return &Resolver{classifier: classifier, ctx: ctx}
}

// Context returns the resolution context.
func (r *Resolver) Context() *Context {
	return r.ctx
}

// ResolveParameter resolves a parameter's declared type. Variadic parameters
// are unrepresentable regardless of their element type.
func (r *Resolver) ResolveParameter(raw RawType, variadic bool) ResolvedType {
	if variadic {
		return Unrepresentable(ReasonVariadic)
	}

	return r.Resolve(raw)
}

// Resolve converts raw into its canonical form. Exactly one rule fires per
// input, so the result is deterministic for a given classifier and context.
func (r *Resolver) Resolve(raw RawType) ResolvedType {
	return r.resolve(raw, 0)
}

func (r *Resolver) resolve(raw RawType, depth int) ResolvedType {
	c := r.classifier

	if raw == nil || c.Absent(raw) {
		return Unrepresentable(ReasonMissingAnnotation)
	}

	if depth > maxDepth {
		return Unrepresentable("type nesting too deep: " + c.Name(raw))
	}

	if kind, ok := c.Primitive(raw); ok {
		return Primitive(kind)
	}

	if name, members, ok := c.Enum(raw); ok {
		return Enum(name, members)
	}

	if elem, ok := c.List(raw); ok {
		return List(r.resolve(elem, depth+1))
	}

	if key, value, ok := c.Mapping(raw); ok {
		k := r.resolve(key, depth+1)
		if k.Kind != KindPrimitive {
			return Unrepresentable(ReasonNonPrimitiveKey)
		}

		return Mapping(k.Primitive, r.resolve(value, depth+1))
	}

	if inner, ok := c.Optional(raw); ok {
		return Optional(r.resolve(inner, depth+1))
	}

	if terms, absent, ok := c.Union(raw); ok {
		return r.resolveUnion(terms, absent, depth)
	}

	if qualified, ok := c.Structure(raw); ok {
		if id, eligible := r.ctx.Lookup(qualified); eligible {
			return Nested(id)
		}
	}

	return Unrepresentable(c.Name(raw))
}

// resolveUnion handles both optional-shaped unions (T | absent) and
// heterogeneous ones. Terms with the same textual form count once.
func (r *Resolver) resolveUnion(terms []RawType, absent bool, depth int) ResolvedType {
	seen := make(map[string]bool, len(terms))

	var distinct []RawType

	for _, t := range terms {
		name := r.classifier.Name(t)
		if seen[name] {
			continue
		}

		seen[name] = true

		distinct = append(distinct, t)
	}

	switch {
	case len(distinct) == 0:
		return Unrepresentable(ReasonMissingAnnotation)
	case len(distinct) == 1 && absent:
		return Optional(r.resolve(distinct[0], depth+1))
	case len(distinct) == 1:
		return r.resolve(distinct[0], depth+1)
	default:
		return Unrepresentable(fmt.Sprintf("unsupported union of %d types", len(distinct)))
	}
}
