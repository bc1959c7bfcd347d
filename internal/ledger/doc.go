// Package ledger persists rename batches and their applied renames in SQLite
// so every batch can be audited and reverted. Renames are recorded before
// they touch the filesystem, and undo verifies each file against the checksum
// captured at apply time before moving it back.
package ledger
