package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"Go 1.22 Released!", "go-1-22-released"},
		{"  --- Spaces & Symbols ---  ", "spaces-symbols"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER case", "upper-case"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAutoExcerpt(t *testing.T) {
	html := "<p>Hello   <strong>world</strong>,\nthis is the   intro.</p>"
	if got := AutoExcerpt(html, 150); got != "Hello world, this is the intro." {
		t.Errorf("AutoExcerpt = %q", got)
	}

	// 超长内容截断加省略号
	long := "<p>aaaaaaaaaa</p>"
	if got := AutoExcerpt(long, 4); got != "aaaa..." {
		t.Errorf("Truncated excerpt = %q", got)
	}
}

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Go, Web ,,", "go,web"},
		{"go,GO, Go ", "go"},
		{"", ""},
		{" , , ", ""},
		{"one", "one"},
	}
	for _, tc := range cases {
		if got := NormalizeTags(tc.in); got != tc.want {
			t.Errorf("NormalizeTags(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
