// Package textutil provides text processing utilities for filename
// sanitization and title derivation.
//
// The primary use cases are:
//   - Making template-expanded candidate names filesystem safe
//   - Applying configured space replacement rules
//   - Deriving a readable fallback title from a filename stem
package textutil
