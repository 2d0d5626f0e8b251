package resolve

// RawType is an opaque handle to a declared type. Only a Classifier looks
// inside it.
type RawType any

// Classifier answers one question per recognized type shape. Implementations
// back it with reflection over real types or with a registry of descriptors;
// anything a classifier does not recognize falls through to Unrepresentable.
type Classifier interface {
	// Absent reports a missing or invalid annotation.
	Absent(t RawType) bool
	// Primitive reports the scalar kind of t. Enumerations are not primitives.
	Primitive(t RawType) (PrimitiveKind, bool)
	// Enum reports an enumeration and its members in declaration order.
	Enum(t RawType) (name string, members []string, ok bool)
	// List reports a homogeneous ordered container and its element type.
	List(t RawType) (elem RawType, ok bool)
	// Mapping reports a keyed mapping and its key and value types.
	Mapping(t RawType) (key, value RawType, ok bool)
	// Optional reports a nullable wrapper around exactly one type.
	Optional(t RawType) (inner RawType, ok bool)
	// Union reports a union; absent is true when one of the terms is the
	// absent-value marker, which is not included in terms.
	Union(t RawType) (terms []RawType, absent bool, ok bool)
	// Structure reports the qualified name of a struct-like type.
	Structure(t RawType) (qualified string, ok bool)
	// Name returns the textual form of t for diagnostics.
	Name(t RawType) string
}
