package lrc

import (
	"strings"

	"github.com/FocuswithJustin/musicxml-lrc/core/errors"
)

// TimedWord pairs a formatted "mm:ss.cc" timecode with the word it times.
// The caller converts score positions to timecodes before merging so this
// package stays independent of the tempo model.
type TimedWord struct {
	Time string
	Text string
}

// MergeOptions controls enhanced-output validation.
type MergeOptions struct {
	// Force emits output even when the length check fails.
	Force bool
	// LengthTolerance is the allowed gap in seconds between the base LRC's
	// last time tag and the score's last word time.
	LengthTolerance float64
}

// Merge walks the base LRC lines and prefixes each alignable token with the
// next word's time sub-tag in strict document order. Assignment is purely
// positional: the Nth alignable token gets the Nth word time regardless of
// token text. Tokens whose normalized form is empty, and tokens left over
// once the words run out, pass through unchanged, as do tag-only lines.
// Metadata tags absent from the base file are prepended to the output.
//
// Before merging, the last word time is checked against the base file's last
// time tag; divergence beyond the tolerance fails with a LengthMismatchError
// unless Force is set.
func Merge(lines []Line, words []TimedWord, opts MergeOptions, metadataTags []string) ([]string, error) {
	if err := checkLength(lines, words, opts); err != nil {
		return nil, err
	}

	// Non-time bracketed tags on otherwise empty lines are metadata already
	// present in the base file; don't prepend those again.
	existing := make(map[string]bool)
	for _, l := range lines {
		if l.Tag != "" && l.Text == "" {
			if _, ok := ParseTimeTag(l.Tag); !ok {
				existing[l.Tag] = true
			}
		}
	}

	var output []string
	for _, tag := range metadataTags {
		if !existing[tag] {
			output = append(output, tag)
		}
	}

	wordIndex := 0
	for _, line := range lines {
		if line.Text == "" {
			output = append(output, line.Tag)
			continue
		}

		var tokens []string
		for _, token := range strings.Split(line.Text, " ") {
			if token == "" {
				continue
			}
			if NormalizeToken(token) == "" || wordIndex >= len(words) {
				tokens = append(tokens, token)
				continue
			}
			tokens = append(tokens, "<"+words[wordIndex].Time+">"+token)
			wordIndex++
		}

		merged := strings.TrimRight(line.Tag+" "+strings.Join(tokens, " "), " ")
		output = append(output, merged)
	}

	return output, nil
}

func checkLength(lines []Line, words []TimedWord, opts MergeOptions) error {
	lrcEnd, ok := LastTime(lines)
	if !ok || len(words) == 0 {
		return nil
	}
	scoreEnd, ok := ParseTimeTag("[" + words[len(words)-1].Time + "]")
	if !ok {
		return nil
	}
	if scoreEnd-lrcEnd > opts.LengthTolerance && !opts.Force {
		return errors.NewLengthMismatch(lrcEnd, scoreEnd, opts.LengthTolerance)
	}
	return nil
}
