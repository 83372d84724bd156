// Package lyrics turns ordered lyric events collected from a score part into
// timestamped LRC lines and whole-word timings.
package lyrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/FocuswithJustin/musicxml-lrc/core/lrc"
	"github.com/FocuswithJustin/musicxml-lrc/core/timing"
)

// Event is a single lyric fragment at an exact score position. Index is the
// fragment's original discovery order and exists solely to break ties between
// events at the same position (chord notes, multiple verses). Events are
// never mutated after collection; transformations return new slices.
type Event struct {
	Pos   timing.Position
	Text  string
	Index int
}

// Word is a complete word recovered by merging hyphen-continued syllables.
// Pos is the position of the first syllable in the run.
type Word struct {
	Pos  timing.Position
	Text string
}

// SortEvents returns the events ordered by (position, discovery index).
// The explicit index keeps simultaneous events in the order the score
// declared them.
func SortEvents(events []Event) []Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		c := sorted[i].Pos.Cmp(sorted[j].Pos)
		if c != 0 {
			return c < 0
		}
		return sorted[i].Index < sorted[j].Index
	})
	return sorted
}

// DedupeEvents collapses adjacent events whose (position, text) pair repeats.
// Only consecutive duplicates collapse; the same text recurring at a later
// position is kept. The input must already be sorted.
func DedupeEvents(sorted []Event) []Event {
	out := make([]Event, 0, len(sorted))
	for i, e := range sorted {
		if i > 0 && sorted[i-1].Pos.Cmp(e.Pos) == 0 && sorted[i-1].Text == e.Text {
			continue
		}
		out = append(out, e)
	}
	return out
}

// BuildLines renders sorted lyric events as "[mm:ss.cc] text" lines using the
// given tempo map. The events must be in non-decreasing position order.
func BuildLines(events []Event, tempo timing.TempoMap) []string {
	conv := timing.NewConverter(tempo)
	lines := make([]string, 0, len(events))
	for _, e := range events {
		seconds := conv.Next(e.Pos)
		lines = append(lines, fmt.Sprintf("[%s] %s", lrc.FormatTimecode(seconds), e.Text))
	}
	return lines
}

// BuildWords merges runs of hyphen-continued syllables into whole words. A
// trailing "-" marks a syllable that continues into the next event; the
// marker is stripped on concatenation. Each word keeps the position of its
// first syllable. A run left open at the end of the events is flushed as a
// final word.
func BuildWords(events []Event) []Word {
	var words []Word
	var buf strings.Builder
	var start timing.Position
	open := false

	for _, e := range events {
		if !open {
			start = e.Pos
			open = true
		}
		cleaned := strings.TrimSpace(e.Text)
		if rest, ok := strings.CutSuffix(cleaned, "-"); ok {
			buf.WriteString(rest)
			continue
		}
		buf.WriteString(cleaned)
		words = append(words, Word{Pos: start, Text: buf.String()})
		buf.Reset()
		open = false
	}

	if open && buf.Len() > 0 {
		words = append(words, Word{Pos: start, Text: buf.String()})
	}
	return words
}
