// Package preflight validates directory access, external binaries, and the
// vision API before a batch starts, so failures surface as readable check
// results instead of errors halfway through a rename pass.
package preflight
