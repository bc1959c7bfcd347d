package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver allocates unique filenames within one output directory.
// The claimed set holds both names already present on disk (seeded before any
// resolution) and names assigned earlier in the same batch, so two assets can
// never resolve to the same final name. All methods are goroutine-safe.
type CollisionResolver struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewCollisionResolver creates an empty resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{claimed: make(map[string]struct{})}
}

// SeedFromDirectory claims every entry currently present in dir. A missing
// directory seeds nothing and is not an error.
func (r *CollisionResolver) SeedFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read output directory: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range entries {
		r.claimed[entry.Name()] = struct{}{}
	}
	return nil
}

// Seed claims the provided names directly. Used by tests and undo planning.
func (r *CollisionResolver) Seed(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.claimed[name] = struct{}{}
	}
}

// Resolve returns candidate unchanged when it is unclaimed, otherwise the
// first " (N)" variant (N starting at 2) not yet claimed. The chosen name is
// claimed atomically so concurrent callers cannot race to the same result.
// Tie-break is strictly by increasing integer suffix.
func (r *CollisionResolver) Resolve(candidate string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.claimed[candidate]; !taken {
		r.claimed[candidate] = struct{}{}
		return candidate
	}

	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(candidate, ext)
	for n := 2; ; n++ {
		variant := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if _, taken := r.claimed[variant]; !taken {
			r.claimed[variant] = struct{}{}
			return variant
		}
	}
}

// Claimed reports whether name is already taken.
func (r *CollisionResolver) Claimed(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.claimed[name]
	return ok
}

// Release drops a claim, used when a planned rename is discarded (for example
// a plan whose final name matches the current name).
func (r *CollisionResolver) Release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.claimed, name)
}
