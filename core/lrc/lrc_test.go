package lrc

import (
	"reflect"
	"testing"
)

func TestParseLines(t *testing.T) {
	data := []byte("[00:01.00] hello world\nuntagged line\n\n[ti:Title]\n[00:02.50]\n")
	lines := ParseLines(data)

	want := []Line{
		{Tag: "[00:01.00]", Text: "hello world"},
		{Tag: "", Text: "untagged line"},
		{},
		{Tag: "[ti:Title]", Text: ""},
		{Tag: "[00:02.50]", Text: ""},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("ParseLines = %+v, want %+v", lines, want)
	}
}

func TestParseLinesCRLF(t *testing.T) {
	lines := ParseLines([]byte("[00:01.00] a\r\nb\r\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text != "a" || lines[1].Text != "b" {
		t.Errorf("CRLF not stripped: %+v", lines)
	}
}

func TestParseLinesEmptyFile(t *testing.T) {
	if lines := ParseLines(nil); len(lines) != 0 {
		t.Errorf("empty file produced %d lines", len(lines))
	}
}

func TestParseTimeTag(t *testing.T) {
	cases := []struct {
		tag  string
		want float64
		ok   bool
	}{
		{"[00:00.00]", 0.0, true},
		{"[01:00.00]", 60.0, true},
		{"[01:06.50]", 66.5, true},
		{"[12:34.56]", 754.56, true},
		{"[ti:Title]", 0, false},
		{"[1:00.00]", 0, false},   // minutes must be two digits
		{"[00:00:00]", 0, false},  // wrong separator
		{"[00:00.000]", 0, false}, // centiseconds, not millis
		{"00:00.00", 0, false},    // missing brackets
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseTimeTag(c.tag)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseTimeTag(%q) = (%v, %v), want (%v, %v)", c.tag, got, ok, c.want, c.ok)
		}
	}
}

func TestFormatTimecode(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0.0, "00:00.00"},
		{0.5, "00:00.50"},
		{59.994, "00:59.99"},
		{59.995, "01:00.00"}, // rounds up, not truncates
		{66.0, "01:06.00"},
		{600.129, "10:00.13"},
	}
	for _, c := range cases {
		if got := FormatTimecode(c.seconds); got != c.want {
			t.Errorf("FormatTimecode(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, s := range []float64{0, 0.25, 12.34, 61.0, 599.99} {
		tag := FormatTimeTag(s)
		got, ok := ParseTimeTag(tag)
		if !ok {
			t.Fatalf("ParseTimeTag rejected own output %q", tag)
		}
		if got != s {
			t.Errorf("round trip %v -> %q -> %v", s, tag, got)
		}
	}
}

func TestLastTime(t *testing.T) {
	lines := []Line{
		{Tag: "[ti:Title]"},
		{Tag: "[00:10.00]", Text: "a"},
		{Tag: "[bad]", Text: "b"},
		{Tag: "[01:00.00]", Text: "c"},
		{Text: "untagged"},
	}
	got, ok := LastTime(lines)
	if !ok || got != 60.0 {
		t.Errorf("LastTime = (%v, %v), want (60, true)", got, ok)
	}

	if _, ok := LastTime([]Line{{Text: "no tags here"}}); ok {
		t.Error("LastTime found a time in tagless lines")
	}
}

func TestNormalizeToken(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"Hello", "hello"},
		{"Hello,", "hello"},
		{"\"Quoted!\"", "quoted"},
		{"(bracketed)", "bracketed"},
		{"don't", "don't"}, // inner apostrophe survives
		{"--", "--"},       // dashes are not stripped
		{"...", ""},        // pure punctuation has no alignable content
		{"“smart”", "smart"},
	}
	for _, c := range cases {
		if got := NormalizeToken(c.token); got != c.want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", c.token, got, c.want)
		}
	}
}
