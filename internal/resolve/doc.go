// Package resolve canonicalizes declared parameter types into ResolvedType,
// the bounded set of kinds a generated configuration struct can express.
//
// Resolution is a priority-ordered match over the shape of a raw type:
//
//  1. absent annotation      -> Unrepresentable("missing annotation")
//  2. bool/int/float/string  -> Primitive
//  3. enumeration            -> Enum(name, members)
//  4. slice or array         -> List(elem)
//  5. map                    -> Mapping(key, value), key must be primitive
//  6. optional (pointer)     -> Optional(inner), collapsed to one level
//  7. union of N >= 2 types  -> Unrepresentable("unsupported union of N types")
//  8. eligible structure     -> Nested(schema id)
//  9. anything else          -> Unrepresentable(type text)
//
// The resolver never inspects raw types itself; a Classifier answers one
// question per shape. Eligible structures are passed explicitly through a
// Context rather than consulted from global state.
package resolve
