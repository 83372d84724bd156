package lrc

import (
	"reflect"
	"testing"

	"github.com/FocuswithJustin/musicxml-lrc/core/errors"
)

func TestMergePositionalAlignment(t *testing.T) {
	// Assignment is positional, never content-based: word text and token
	// text need not match.
	lines := []Line{{Tag: "[00:00.00]", Text: "cat dog"}}
	words := []TimedWord{
		{Time: "00:00.00", Text: "completely"},
		{Time: "00:00.50", Text: "unrelated"},
	}
	out, err := Merge(lines, words, MergeOptions{LengthTolerance: 5.0}, nil)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	want := []string{"[00:00.00] <00:00.00>cat <00:00.50>dog"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Merge = %v, want %v", out, want)
	}
}

func TestMergePunctuationTokensPassThrough(t *testing.T) {
	lines := []Line{{Tag: "[00:00.00]", Text: "oh ... yes"}}
	words := []TimedWord{
		{Time: "00:00.00", Text: "oh"},
		{Time: "00:01.00", Text: "yes"},
	}
	out, err := Merge(lines, words, MergeOptions{LengthTolerance: 5.0}, nil)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	want := []string{"[00:00.00] <00:00.00>oh ... <00:01.00>yes"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Merge = %v, want %v", out, want)
	}
}

func TestMergeWordsRunOut(t *testing.T) {
	lines := []Line{{Tag: "[00:00.00]", Text: "one two three"}}
	words := []TimedWord{{Time: "00:00.00", Text: "one"}}
	out, err := Merge(lines, words, MergeOptions{LengthTolerance: 5.0}, nil)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	want := []string{"[00:00.00] <00:00.00>one two three"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Merge = %v, want %v", out, want)
	}
}

func TestMergePreservesStructure(t *testing.T) {
	lines := []Line{
		{Tag: "[00:00.00]", Text: "hello"},
		{}, // blank line
		{Tag: "[00:05.00]"}, // time tag with no text
		{Text: "untagged words"},
	}
	words := []TimedWord{
		{Time: "00:00.00", Text: "hello"},
		{Time: "00:06.00", Text: "untagged"},
		{Time: "00:07.00", Text: "words"},
	}
	out, err := Merge(lines, words, MergeOptions{LengthTolerance: 5.0}, nil)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	want := []string{
		"[00:00.00] <00:00.00>hello",
		"",
		"[00:05.00]",
		" <00:06.00>untagged <00:07.00>words",
	}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Merge = %v, want %v", out, want)
	}
}

func TestMergeMetadataPrepended(t *testing.T) {
	lines := []Line{
		{Tag: "[ar:Existing]"},
		{Tag: "[00:00.00]", Text: "la"},
	}
	words := []TimedWord{{Time: "00:00.00", Text: "la"}}
	meta := []string{"[ti:Song]", "[ar:Existing]"}

	out, err := Merge(lines, words, MergeOptions{LengthTolerance: 5.0}, meta)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	want := []string{
		"[ti:Song]", // new tag prepended
		"[ar:Existing]", // already present, not duplicated
		"[00:00.00] <00:00.00>la",
	}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Merge = %v, want %v", out, want)
	}
}

func TestMergeLengthMismatch(t *testing.T) {
	lines := []Line{{Tag: "[01:00.00]", Text: "end"}}
	words := []TimedWord{{Time: "01:06.00", Text: "end"}}

	_, err := Merge(lines, words, MergeOptions{LengthTolerance: 5.0}, nil)
	if err == nil {
		t.Fatal("expected length mismatch error")
	}
	var lm *errors.LengthMismatchError
	if !errors.As(err, &lm) {
		t.Fatalf("error type = %T, want LengthMismatchError", err)
	}
	if lm.LRCEnd != 60.0 || lm.ScoreEnd != 66.0 {
		t.Errorf("mismatch values = (%v, %v), want (60, 66)", lm.LRCEnd, lm.ScoreEnd)
	}

	// Force overrides the check.
	out, err := Merge(lines, words, MergeOptions{Force: true, LengthTolerance: 5.0}, nil)
	if err != nil {
		t.Fatalf("forced merge failed: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("forced merge produced %d lines, want 1", len(out))
	}
}

func TestMergeWithinTolerance(t *testing.T) {
	lines := []Line{{Tag: "[01:00.00]", Text: "end"}}
	words := []TimedWord{{Time: "01:04.00", Text: "end"}}
	if _, err := Merge(lines, words, MergeOptions{LengthTolerance: 5.0}, nil); err != nil {
		t.Errorf("merge within tolerance failed: %v", err)
	}
}

func TestMergeShorterScoreNeverFails(t *testing.T) {
	// Only the score running LONG trips the check; a short score aligns fine.
	lines := []Line{{Tag: "[05:00.00]", Text: "end"}}
	words := []TimedWord{{Time: "00:10.00", Text: "end"}}
	if _, err := Merge(lines, words, MergeOptions{LengthTolerance: 5.0}, nil); err != nil {
		t.Errorf("merge with short score failed: %v", err)
	}
}
