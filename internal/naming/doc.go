// Package naming turns content descriptions into final, unique, filesystem-safe
// filenames.
//
// The pipeline is a pure transformation followed by stateful resolution:
// ParsePattern + BuildFieldMap + Expand + ShapeName produce a candidate name
// with no filesystem or network dependency, then SequenceRegistry and
// CollisionResolver (both scoped to a single batch) disambiguate candidates
// against the output directory and the rest of the batch.
//
// Template expansion never invents text: a placeholder without a matching
// field fails with UnknownPlaceholderError before any file is touched.
package naming
