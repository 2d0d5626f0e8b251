// Package pipeline runs manifests end to end: it extracts every target's
// parameters, resolves their types, builds and links the schemas, and
// renders, writes or checks the generated files.
//
// One Runner handles one manifest sequentially in manifest order and owns
// its package loader and resolution context. RunAll runs independent
// manifests in parallel.
package pipeline
