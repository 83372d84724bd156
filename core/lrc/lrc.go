// Package lrc implements the line-oriented timestamped lyric format: parsing
// base LRC files, formatting time tags, and merging word-level timings onto
// an existing file's tokens.
package lrc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Line is one line of a base LRC file. Tag is the leading bracketed prefix
// including its brackets ("" when the line has none); Text is the remainder
// with leading whitespace trimmed. Blank lines are kept as zero-value Lines
// so output can mirror the input exactly.
type Line struct {
	Tag  string
	Text string
}

// timeTagPattern is the strict mm:ss.cc time tag shape. Anything else in
// brackets (metadata headers, malformed tags) is not a time tag and is
// treated as plain content.
var timeTagPattern = regexp.MustCompile(`^\[(\d{2}):(\d{2})\.(\d{2})\]$`)

// ParseLines splits raw LRC file contents into Lines. A line whose first
// character is not "[" (or that has no closing bracket) has no tag and keeps
// its full text verbatim.
func ParseLines(data []byte) []Line {
	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return nil
	}
	raw := strings.Split(content, "\n")
	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSuffix(r, "\r")
		if r == "" {
			lines = append(lines, Line{})
			continue
		}
		end := strings.IndexByte(r, ']')
		if !strings.HasPrefix(r, "[") || end < 0 {
			lines = append(lines, Line{Text: r})
			continue
		}
		lines = append(lines, Line{
			Tag:  r[:end+1],
			Text: strings.TrimLeft(r[end+1:], " \t"),
		})
	}
	return lines
}

// ParseTimeTag parses a strict "[mm:ss.cc]" tag into seconds. The second
// return value is false for anything that does not match exactly.
func ParseTimeTag(tag string) (float64, bool) {
	m := timeTagPattern.FindStringSubmatch(tag)
	if m == nil {
		return 0, false
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	centis, _ := strconv.Atoi(m[3])
	return float64(minutes)*60 + float64(seconds) + float64(centis)/100.0, true
}

// FormatTimecode renders elapsed seconds as "mm:ss.cc". Centiseconds are
// rounded, not truncated, which matters at segment boundaries.
func FormatTimecode(seconds float64) string {
	totalCentis := int64(seconds*100.0 + 0.5)
	minutes := totalCentis / 6000
	secs := (totalCentis / 100) % 60
	centis := totalCentis % 100
	return fmt.Sprintf("%02d:%02d.%02d", minutes, secs, centis)
}

// FormatTimeTag renders elapsed seconds as a bracketed "[mm:ss.cc]" tag.
func FormatTimeTag(seconds float64) string {
	return "[" + FormatTimecode(seconds) + "]"
}

// LastTime returns the last parseable time tag in the lines, in seconds.
// The second return value is false when no line carries a valid time tag.
func LastTime(lines []Line) (float64, bool) {
	var last float64
	found := false
	for _, l := range lines {
		if l.Tag == "" {
			continue
		}
		if t, ok := ParseTimeTag(l.Tag); ok {
			last = t
			found = true
		}
	}
	return last, found
}

var (
	leadingPunct  = regexp.MustCompile(`^["'“”‘’\(\)\[\]{}<>]+`)
	trailingPunct = regexp.MustCompile(`["'“”‘’\(\)\[\]{}<>:;,\.\?!]+$`)
)

// NormalizeToken strips outer quote/bracket/punctuation characters and
// lowercases the result. A token whose normalized form is empty carries no
// alignable content. The normalized form is only ever used for that
// decision; output always uses the original token text.
func NormalizeToken(token string) string {
	s := leadingPunct.ReplaceAllString(token, "")
	s = trailingPunct.ReplaceAllString(s, "")
	return strings.ToLower(strings.TrimSpace(s))
}
