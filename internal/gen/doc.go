// Package gen provides deterministic Go code generation for config structs.
//
// Generation approach uses text/template + go/format, one file per schema.
//
// Each file contains:
//   - the "Code generated" banner naming the source callable
//   - a string type and const block per enumeration the struct uses
//   - the config struct with koanf, yaml, json and validate tags
//   - a Default<Struct> constructor carrying _target_ and every default
package gen
