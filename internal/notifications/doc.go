// Package notifications delivers batch events via ntfy.
//
// The default implementation publishes to the topic configured in config.toml
// and gracefully degrades to a no-op when notifications are disabled. Batch,
// undo, and error events can be toggled independently so users only hear
// about what they care about.
package notifications
