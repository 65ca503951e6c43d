package utils

import "testing"

func TestFormatViewCount(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{1200, "1.2k"},
		{999999, "1000.0k"},
		{2000000, "2.0m"},
	}
	for _, tc := range cases {
		if got := FormatViewCount(tc.in); got != tc.want {
			t.Errorf("FormatViewCount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStringToInt(t *testing.T) {
	if got := StringToInt("42"); got != 42 {
		t.Errorf("StringToInt(42) = %d", got)
	}
	if got := StringToInt("not a number"); got != 0 {
		t.Errorf("Bad input should return 0, got %d", got)
	}
}
