// Package analyze loads Go packages and turns callables into parameter lists.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to find the
// function or constructor named by a qualified name and to describe its
// parameters. TypesClassifier exposes go/types to the resolve package.
//
// Key types:
//   - Analyzer: loads and caches packages by import path
//   - Extractor: qualified name -> Callable with ordered Parameters
//   - TypesClassifier: resolve.Classifier over go/types.Type
package analyze
