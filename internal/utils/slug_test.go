package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Breaking: Markets Rally!  ", "breaking-markets-rally"},
		{"already-slugged", "already-slugged"},
		{"Multiple   Spaces -- and dashes", "multiple-spaces-and-dashes"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
