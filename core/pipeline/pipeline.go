// Package pipeline orchestrates one MusicXML-to-LRC conversion: parse the
// score, collect events, normalize the tempo map, and render either plain
// timestamped lines or an enhanced copy of a base LRC file. Both the single
// command and the batch workers go through Process so the two paths cannot
// drift apart.
package pipeline

import (
	"github.com/FocuswithJustin/musicxml-lrc/core/lrc"
	"github.com/FocuswithJustin/musicxml-lrc/core/lyrics"
	"github.com/FocuswithJustin/musicxml-lrc/core/score"
	"github.com/FocuswithJustin/musicxml-lrc/core/timing"
)

// Options are the per-file conversion knobs, owned by the CLI.
type Options struct {
	// PartID selects the MusicXML part to read lyrics from.
	PartID string
	// Dedupe collapses adjacent duplicate lyric events.
	Dedupe bool
	// Force allows enhanced output past a failed length check.
	Force bool
	// LengthTolerance is the allowed LRC/score end-time gap in seconds.
	LengthTolerance float64
}

// DefaultOptions returns the documented defaults: part P1, dedupe on,
// force off, five seconds of tolerance.
func DefaultOptions() Options {
	return Options{PartID: "P1", Dedupe: true, LengthTolerance: 5.0}
}

// Process converts one score. When baseLRC is nil the result is plain
// "[mm:ss.cc] text" lines; otherwise the base file is mirrored with word
// time sub-tags inserted and score metadata headers prepended.
func Process(scoreData []byte, baseLRC []byte, opts Options) ([]string, error) {
	doc, err := score.Parse(scoreData)
	if err != nil {
		return nil, err
	}
	part, err := doc.Part(opts.PartID)
	if err != nil {
		return nil, err
	}
	events, tempoEvents, err := part.CollectEvents()
	if err != nil {
		return nil, err
	}

	events = lyrics.SortEvents(events)
	if opts.Dedupe {
		events = lyrics.DedupeEvents(events)
	}
	tempo := timing.NormalizeTempoMap(tempoEvents)

	if baseLRC == nil {
		return lyrics.BuildLines(events, tempo), nil
	}

	words := lyrics.BuildWords(events)
	conv := timing.NewConverter(tempo)
	timed := make([]lrc.TimedWord, 0, len(words))
	for _, w := range words {
		timed = append(timed, lrc.TimedWord{
			Time: lrc.FormatTimecode(conv.Next(w.Pos)),
			Text: w.Text,
		})
	}

	return lrc.Merge(lrc.ParseLines(baseLRC), timed, lrc.MergeOptions{
		Force:           opts.Force,
		LengthTolerance: opts.LengthTolerance,
	}, doc.Metadata())
}
