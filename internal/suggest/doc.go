// Package suggest proposes known names close to a misspelled one, for
// "did you mean" hints in diagnostics.
//
// Names are compared after normalization (case folding, separators
// removed) by normalized Levenshtein similarity.
package suggest
