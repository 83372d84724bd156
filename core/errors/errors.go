// Package errors provides standardized error types for the musicxml-lrc codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrPartNotFound indicates the requested part id is absent from the score
	ErrPartNotFound = errors.New("part not found")
	// ErrNoLyrics indicates the target part carries no lyric events
	ErrNoLyrics = errors.New("no lyrics found")
	// ErrLengthMismatch indicates the score and base LRC diverge beyond tolerance
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// PartNotFoundError reports a part id that does not exist in the score.
type PartNotFoundError struct {
	PartID string
	Err    error // Underlying error, if any
}

func (e *PartNotFoundError) Error() string {
	return fmt.Sprintf("part %s not found", e.PartID)
}

func (e *PartNotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrPartNotFound
}

// NoLyricsError reports a part that contains zero lyric events.
type NoLyricsError struct {
	PartID string
}

func (e *NoLyricsError) Error() string {
	if e.PartID != "" {
		return fmt.Sprintf("no lyrics found in part %s", e.PartID)
	}
	return "no lyrics found in target part"
}

func (e *NoLyricsError) Unwrap() error {
	return ErrNoLyrics
}

// ParseError represents a parsing or deserialization error at the boundary
type ParseError struct {
	Format  string // Format being parsed (e.g., "MusicXML", "LRC")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Is keeps a ParseError matching ErrInvalidInput even when it wraps a
// lower-level decoder error; callers classify on the sentinel.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// LengthMismatchError reports a base LRC whose final timestamp diverges from
// the score's final word time by more than the allowed tolerance. Both
// compared values are carried for diagnostics.
type LengthMismatchError struct {
	LRCEnd    float64 // last parseable time tag in the base LRC, seconds
	ScoreEnd  float64 // time of the last word recovered from the score, seconds
	Tolerance float64
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf(
		"song length mismatch between MusicXML and LRC. LRC end: %.2fs, MusicXML end: %.2fs. Use --force to override or --length-tolerance to adjust",
		e.LRCEnd, e.ScoreEnd)
}

func (e *LengthMismatchError) Unwrap() error {
	return ErrLengthMismatch
}

// Helper functions for creating common errors

// NewPartNotFound creates a PartNotFoundError
func NewPartNotFound(partID string) *PartNotFoundError {
	return &PartNotFoundError{PartID: partID}
}

// NewNoLyrics creates a NoLyricsError
func NewNoLyrics(partID string) *NoLyricsError {
	return &NoLyricsError{PartID: partID}
}

// NewParse creates a ParseError wrapping err (which may be nil)
func NewParse(format, path, message string, err error) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message, Err: err}
}

// NewLengthMismatch creates a LengthMismatchError
func NewLengthMismatch(lrcEnd, scoreEnd, tolerance float64) *LengthMismatchError {
	return &LengthMismatchError{LRCEnd: lrcEnd, ScoreEnd: scoreEnd, Tolerance: tolerance}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
