// Package match ranks identifiers by edit distance after normalization.
//
// It backs the "did you mean" suggestions attached to not-found errors:
//   - NormalizeIdent: case-folds and drops separators and CamelCase boundaries
//   - Levenshtein: edit distance over runes
//   - Suggest: the closest candidates above a similarity threshold
package match
