package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	cases := []struct {
		prefix, key, want string
	}{
		{"", "p1/file.txt", "p1/file.txt"},
		{"documents", "p1/file.txt", "documents/p1/file.txt"},
		{"documents", "/p1/file.txt", "documents/p1/file.txt"},
		{"documents", "", "documents"},
	}
	for _, tc := range cases {
		if got := applyPrefix(tc.prefix, tc.key); got != tc.want {
			t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tc.prefix, tc.key, got, tc.want)
		}
	}
}
