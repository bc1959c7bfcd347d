package naming

import "sync"

// ScopeKey combines an output directory and pattern identity into the key that
// partitions counters and claimed-name sets.
func ScopeKey(outputDir, pattern string) string {
	return outputDir + "\x00" + pattern
}

// SequenceRegistry issues monotonically increasing counters per scope key for
// the lifetime of one batch. Safe for concurrent use by describe workers.
// The registry returns bare integers; zero padding is the field builder's job.
type SequenceRegistry struct {
	mu   sync.Mutex
	base int
	next map[string]int
}

// NewSequenceRegistry creates a registry whose counters start at base
// (minimum 1).
func NewSequenceRegistry(base int) *SequenceRegistry {
	if base < 1 {
		base = 1
	}
	return &SequenceRegistry{base: base, next: make(map[string]int)}
}

// Next returns the next counter value for scope and advances it.
func (r *SequenceRegistry) Next(scope string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.next[scope]
	if !ok {
		value = r.base
	}
	r.next[scope] = value + 1
	return value
}

// Peek reports the value the next call to Next would return, without
// advancing. Used by status reporting only.
func (r *SequenceRegistry) Peek(scope string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if value, ok := r.next[scope]; ok {
		return value
	}
	return r.base
}
