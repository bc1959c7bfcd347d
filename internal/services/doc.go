// Package services defines shared utilities consumed by the batch pipeline and
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp batch IDs, asset paths, stage names, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures into
//     retryable and terminal categories.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability, retries) stays uniform.
package services
