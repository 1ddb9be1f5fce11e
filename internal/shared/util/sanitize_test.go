package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	longest := strings.Repeat("a", MaxFileNameBytes)
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"report.txt", "report.txt", false},
		{" notes.md ", "notes.md", false},
		{"a/b.txt", "a_b.txt", false},
		{`a\b.txt`, "a_b.txt", false},
		{longest, longest, false},
		{longest + "a", "", true},
		{"../../etc/passwd", "", true},
		{"  ", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
