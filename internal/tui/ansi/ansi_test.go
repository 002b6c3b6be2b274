package ansi

import "testing"

const red = "\x1b[31m"
const reset = "\x1b[0m"

func TestStrip(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{red + "red" + reset, "red"},
		{"\x1b]0;title\x07text", "text"},
		{"a\x1b[1;38;5;34mb\x1b[0mc", "abc"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Strip(c.in); got != c.want {
			t.Errorf("Strip(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestConsumeEscapeUnterminated(t *testing.T) {
	s := "\x1b[31"
	if got := ConsumeEscape(s, 0); got != len(s) {
		t.Errorf("ConsumeEscape = %d, want %d", got, len(s))
	}
}

func TestVisualWidth(t *testing.T) {
	if got := VisualWidth(red + "abc" + reset); got != 3 {
		t.Errorf("VisualWidth = %d, want 3", got)
	}
}

func TestSliceHorizontal(t *testing.T) {
	s := red + "abcdef" + reset
	got := Strip(SliceHorizontal(s, 2, 3))
	if got != "cde" {
		t.Errorf("SliceHorizontal = %q, want %q", got, "cde")
	}
}

func TestSliceHorizontalFromStart(t *testing.T) {
	got := Strip(SliceHorizontal("abcdef", 0, 4))
	if got != "abcd" {
		t.Errorf("SliceHorizontal = %q, want %q", got, "abcd")
	}
}

func TestClipToWidth(t *testing.T) {
	if got := ClipToWidth("abcdef", 3); got != "abc" {
		t.Errorf("ClipToWidth = %q, want %q", got, "abc")
	}
	if got := ClipToWidth("abc", 0); got != "" {
		t.Errorf("ClipToWidth = %q, want empty", got)
	}
}

func TestPadExact(t *testing.T) {
	got := PadExact(red+"ab"+reset, 5)
	if VisualWidth(got) != 5 {
		t.Errorf("PadExact width = %d, want 5", VisualWidth(got))
	}
	if Strip(got) != "ab   " {
		t.Errorf("PadExact = %q", Strip(got))
	}
}

func TestWrapLine(t *testing.T) {
	got := WrapLine("abcdef", 4)
	if len(got) != 2 || Strip(got[0]) != "abcd" || Strip(got[1]) != "ef" {
		t.Errorf("WrapLine = %q", got)
	}
}

func TestWrapLinesKeepsEmpty(t *testing.T) {
	got := WrapLines([]string{"ab", ""}, 10)
	if len(got) != 2 || got[1] != "" {
		t.Errorf("WrapLines = %q", got)
	}
}
