package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestPartNotFoundError(t *testing.T) {
	err := NewPartNotFound("P2")
	if !Is(err, ErrPartNotFound) {
		t.Error("PartNotFoundError should unwrap to ErrPartNotFound")
	}
	if !strings.Contains(err.Error(), "P2") {
		t.Errorf("message should name the part: %q", err.Error())
	}
}

func TestNoLyricsError(t *testing.T) {
	err := NewNoLyrics("P1")
	if !Is(err, ErrNoLyrics) {
		t.Error("NoLyricsError should unwrap to ErrNoLyrics")
	}
	if got := NewNoLyrics("").Error(); !strings.Contains(got, "target part") {
		t.Errorf("unexpected message without part id: %q", got)
	}
}

func TestParseError(t *testing.T) {
	err := NewParse("MusicXML", "/in/a.xml", "unexpected EOF", nil)
	if !Is(err, ErrInvalidInput) {
		t.Error("ParseError should unwrap to ErrInvalidInput")
	}
	msg := err.Error()
	if !strings.Contains(msg, "MusicXML") || !strings.Contains(msg, "/in/a.xml") {
		t.Errorf("message should carry format and path: %q", msg)
	}
}

func TestParseErrorWrappingDecoderError(t *testing.T) {
	decoderErr := stderrors.New("XML syntax error on line 1")
	err := NewParse("MusicXML", "", decoderErr.Error(), decoderErr)

	// The sentinel must hold even when a lower-level error is wrapped;
	// classifiers switch on it.
	if !Is(err, ErrInvalidInput) {
		t.Error("ParseError with wrapped error should still match ErrInvalidInput")
	}
	if !Is(err, decoderErr) {
		t.Error("wrapped decoder error should remain reachable")
	}
}

func TestLengthMismatchError(t *testing.T) {
	err := NewLengthMismatch(60.0, 66.0, 5.0)
	if !Is(err, ErrLengthMismatch) {
		t.Error("LengthMismatchError should unwrap to ErrLengthMismatch")
	}

	var lm *LengthMismatchError
	if !As(err, &lm) {
		t.Fatal("As failed to extract LengthMismatchError")
	}
	if lm.LRCEnd != 60.0 || lm.ScoreEnd != 66.0 {
		t.Errorf("carried values = (%v, %v), want (60, 66)", lm.LRCEnd, lm.ScoreEnd)
	}
	// Both compared values surface in the message for diagnostics.
	if !strings.Contains(err.Error(), "60.00") || !strings.Contains(err.Error(), "66.00") {
		t.Errorf("message should carry both lengths: %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	err := Wrap(ErrNoLyrics, "processing /in/a.xml")
	if !Is(err, ErrNoLyrics) {
		t.Error("wrapped error lost its target")
	}
	if Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}
}
