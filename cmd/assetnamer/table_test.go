package main

import (
	"strings"
	"testing"
)

func TestRenderTablePadsAndAligns(t *testing.T) {
	out := renderTable(
		[]string{"Name", "Count"},
		[][]string{
			{"alpha", "1"},
			{"beta"},
		},
		1,
	)
	if !strings.Contains(out, "Name") || !strings.Contains(out, "Count") {
		t.Fatalf("headers missing: %s", out)
	}
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "beta") {
		t.Fatalf("rows missing: %s", out)
	}
	// Right alignment pads the count cell to the header width.
	if !strings.Contains(out, "    1") {
		t.Fatalf("expected right-aligned count column: %s", out)
	}
}
