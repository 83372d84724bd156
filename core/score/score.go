// Package score is the MusicXML boundary: parsing the document, looking up a
// part, walking its measures to collect lyric and tempo events, and reading
// descriptive metadata. It wraps the antchfx/xmlquery node tree; nothing else
// in the codebase touches XML directly.
package score

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/musicxml-lrc/core/errors"
	"github.com/FocuswithJustin/musicxml-lrc/core/lyrics"
	"github.com/FocuswithJustin/musicxml-lrc/core/timing"
)

// Document is a parsed MusicXML score.
type Document struct {
	root *xmlquery.Node
}

// Part is a single score part, a sequence of measures in document order.
type Part struct {
	node *xmlquery.Node
}

// Parse parses MusicXML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParse("MusicXML", "", err.Error(), err)
	}
	return &Document{root: root}, nil
}

// Part returns the part with the given id, or a PartNotFoundError. The id is
// compared as a plain attribute value rather than interpolated into an XPath
// expression, so ids containing quotes are looked up like any other.
func (d *Document) Part(id string) (*Part, error) {
	for _, node := range xmlquery.Find(d.root, "//part") {
		if attr(node, "id") == id {
			return &Part{node: node}, nil
		}
	}
	return nil, errors.NewPartNotFound(id)
}

// CollectEvents walks the part's measures and returns its lyric and tempo
// event streams, each tagged with an exact rational position.
//
// The walk tracks three cursors: divisions (ticks per reference duration,
// default 1, updated by attributes elements and applied to every duration
// read while it is current), globalPos (accumulated across completed
// measures), and a per-measure cursor with a high-water mark so voices of
// differing lengths advance the measure by the longest one.
//
// Returns a NoLyricsError when the part yields no lyric events at all.
func (p *Part) CollectEvents() ([]lyrics.Event, []timing.TempoEvent, error) {
	var divisions int64 = 1
	globalPos := timing.Zero()
	var lyricEvents []lyrics.Event
	var tempoEvents []timing.TempoEvent

	for measure := p.node.FirstChild; measure != nil; measure = measure.NextSibling {
		if measure.Type != xmlquery.ElementNode || measure.Data != "measure" {
			continue
		}

		cursor := timing.Zero()
		maxCursor := timing.Zero()

		for child := measure.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != xmlquery.ElementNode {
				continue
			}
			switch child.Data {
			case "attributes":
				if v, ok := childInt(child, "divisions"); ok {
					if v < 1 {
						v = 1
					}
					divisions = v
				}

			case "direction":
				bpm, ok := tempoFromDirection(child)
				if !ok {
					continue
				}
				offset := timing.Zero()
				if v, ok := childInt(child, "offset"); ok {
					offset = timing.NewPosition(v, divisions)
				}
				tempoEvents = append(tempoEvents, timing.TempoEvent{
					Pos: globalPos.Add(cursor).Add(offset),
					BPM: bpm,
				})

			case "sound":
				// A bare tempo marker outside any direction.
				if bpm, ok := attrFloat(child, "tempo"); ok {
					tempoEvents = append(tempoEvents, timing.TempoEvent{
						Pos: globalPos.Add(cursor),
						BPM: bpm,
					})
				}

			case "note":
				raw, ok := childInt(child, "duration")
				if !ok {
					// No usable duration: the note cannot advance time, but
					// lyrics found on earlier notes are unaffected.
					continue
				}
				duration := timing.NewPosition(raw, divisions)
				for _, text := range lyricTexts(child) {
					lyricEvents = append(lyricEvents, lyrics.Event{
						Pos:   globalPos.Add(cursor),
						Text:  text,
						Index: len(lyricEvents),
					})
				}
				if findChild(child, "chord") == nil {
					cursor = cursor.Add(duration)
					if cursor.Cmp(maxCursor) > 0 {
						maxCursor = cursor
					}
				}

			case "backup", "forward":
				raw, ok := childInt(child, "duration")
				if !ok {
					continue
				}
				duration := timing.NewPosition(raw, divisions)
				if child.Data == "backup" {
					cursor = cursor.Sub(duration)
				} else {
					cursor = cursor.Add(duration)
					if cursor.Cmp(maxCursor) > 0 {
						maxCursor = cursor
					}
				}
			}
		}

		if !maxCursor.IsZero() {
			globalPos = globalPos.Add(maxCursor)
		}
	}

	if len(lyricEvents) == 0 {
		id := ""
		if p.node != nil {
			id = attr(p.node, "id")
		}
		return nil, nil, errors.NewNoLyrics(id)
	}
	return lyricEvents, tempoEvents, nil
}

// tempoFromDirection reads a tempo from <sound tempo="..."> first, then from
// any nested <per-minute> metronome text.
func tempoFromDirection(direction *xmlquery.Node) (float64, bool) {
	if sound := findChild(direction, "sound"); sound != nil {
		if bpm, ok := attrFloat(sound, "tempo"); ok {
			return bpm, true
		}
	}
	if pm := xmlquery.FindOne(direction, ".//per-minute"); pm != nil {
		if bpm, err := strconv.ParseFloat(strings.TrimSpace(pm.InnerText()), 64); err == nil {
			return bpm, true
		}
	}
	return 0, false
}

// lyricTexts returns the trimmed, non-empty <lyric><text> values on a note.
// A note with multiple lyric children (multiple verses) yields one entry per
// verse, all at the note's position.
func lyricTexts(note *xmlquery.Node) []string {
	var texts []string
	for c := note.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode || c.Data != "lyric" {
			continue
		}
		textNode := findChild(c, "text")
		if textNode == nil {
			continue
		}
		if t := strings.TrimSpace(textNode.InnerText()); t != "" {
			texts = append(texts, t)
		}
	}
	return texts
}

func findChild(n *xmlquery.Node, name string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name {
			return c
		}
	}
	return nil
}

func childInt(n *xmlquery.Node, name string) (int64, bool) {
	c := findChild(n, name)
	if c == nil {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(c.InnerText()), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func attr(n *xmlquery.Node, name string) string {
	for _, a := range n.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrFloat(n *xmlquery.Node, name string) (float64, bool) {
	raw := attr(n, name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
