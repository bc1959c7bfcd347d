package naming

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestResolveReturnsUnclaimedNameUnchanged(t *testing.T) {
	resolver := NewCollisionResolver()
	if got := resolver.Resolve("forest.jpg"); got != "forest.jpg" {
		t.Fatalf("unexpected resolution: %q", got)
	}
	if !resolver.Claimed("forest.jpg") {
		t.Fatal("resolved name must be claimed")
	}
}

func TestResolveAppendsIncreasingSuffixBeforeExtension(t *testing.T) {
	resolver := NewCollisionResolver()
	want := []string{"name.jpg", "name (2).jpg", "name (3).jpg", "name (4).jpg"}
	for i, expected := range want {
		if got := resolver.Resolve("name.jpg"); got != expected {
			t.Fatalf("resolution %d: got %q, want %q", i, got, expected)
		}
	}
}

// Resolution is deterministic: an identical claimed set yields the identical
// suffix sequence.
func TestResolveDeterministic(t *testing.T) {
	run := func() []string {
		resolver := NewCollisionResolver()
		resolver.Seed("clip.mp4", "clip (2).mp4")
		out := make([]string, 0, 3)
		for i := 0; i < 3; i++ {
			out = append(out, resolver.Resolve("clip.mp4"))
		}
		return out
	}
	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("resolution diverged at %d: %q vs %q", i, first[i], second[i])
		}
	}
	if first[0] != "clip (3).mp4" || first[1] != "clip (4).mp4" {
		t.Fatalf("unexpected sequence: %v", first)
	}
}

func TestSeedFromDirectoryClaimsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"sunset.jpg", "sunset (2).jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	resolver := NewCollisionResolver()
	if err := resolver.SeedFromDirectory(dir); err != nil {
		t.Fatalf("SeedFromDirectory: %v", err)
	}
	if got := resolver.Resolve("sunset.jpg"); got != "sunset (3).jpg" {
		t.Fatalf("expected pre-existing files to force suffix 3, got %q", got)
	}
}

func TestSeedFromMissingDirectoryIsNotAnError(t *testing.T) {
	resolver := NewCollisionResolver()
	if err := resolver.SeedFromDirectory(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestResolveConcurrentClaimsAreDistinct(t *testing.T) {
	resolver := NewCollisionResolver()

	const workers = 12
	var wg sync.WaitGroup
	results := make([]string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = resolver.Resolve("dup.png")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, workers)
	for _, name := range results {
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate final name %q", name)
		}
		seen[name] = struct{}{}
	}
}

func TestReleaseDropsClaim(t *testing.T) {
	resolver := NewCollisionResolver()
	resolver.Resolve("keep.jpg")
	resolver.Release("keep.jpg")
	if got := resolver.Resolve("keep.jpg"); got != "keep.jpg" {
		t.Fatalf("expected released name to be reusable, got %q", got)
	}
}
