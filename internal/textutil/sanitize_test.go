package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"forest path", "forest path"},
		{`inva<lid>:"chars"`, "invalidchars"},
		{"a//b\\c", "abc"},
		{"too__many---separators", "too_many_separators"},
		{"2024-01-01_forest_path", "2024-01-01_forest_path"},
		{"beach-sunset", "beach-sunset"},
		{"_leading and trailing_ ", "leading and trailing"},
		{"", "untitled"},
		{`***???`, "untitled"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestReplaceSpaces(t *testing.T) {
	if got := ReplaceSpaces("forest path walk", "_"); got != "forest_path_walk" {
		t.Fatalf("unexpected replacement: %q", got)
	}
	if got := ReplaceSpaces("forest path", ""); got != "forest path" {
		t.Fatalf("empty replacement must keep spaces: %q", got)
	}
	if got := ReplaceSpaces("forest path", "-"); got != "forest-path" {
		t.Fatalf("unexpected replacement: %q", got)
	}
}

func TestTitleFromStem(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"IMG_2024.01.01_beach-sunset", "Img 2024 01 01 Beach Sunset"},
		{"forest_path", "Forest Path"},
		{"---", "Untitled"},
		{"", "Untitled"},
	}
	for _, tc := range cases {
		if got := TitleFromStem(tc.in); got != tc.want {
			t.Fatalf("TitleFromStem(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
