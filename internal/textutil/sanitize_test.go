package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"P-001", "P-001"},
		{"finca/la esperanza", "finca-la_esperanza"},
		{"a:b*c", "a-b-c"},
		{`x?"<>|y`, "xy"},
		{"  spaced  ", "spaced"},
		{"...", "unknown"},
		{"", "unknown"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
