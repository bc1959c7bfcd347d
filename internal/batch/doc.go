// Package batch orchestrates rename batches. A batch moves through scan,
// describe, plan, and apply stages: scanning selects the media files,
// describing fans out to the vision service over a bounded worker pool,
// planning assigns sequence numbers and collision-free names without touching
// the filesystem, and apply performs the renames under a directory lock with
// every move recorded in the ledger first.
package batch
