// Package schema builds one ConfigSchema per introspected callable and links
// schemas that reference each other.
//
// Build never fails: parameters whose type or default cannot be represented
// become unresolved entries with a reason. LinkAll orders schemas so every
// schema follows the schemas it references and reports reference cycles as
// CycleErrors.
package schema
