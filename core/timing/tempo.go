package timing

import (
	"sort"
)

// DefaultBPM is assumed when a score carries no tempo information at all.
const DefaultBPM = 120.0

// TempoEvent is a tempo breakpoint: from Pos onward the prevailing tempo is
// BPM beats per minute. Tempo is piecewise-constant between breakpoints;
// ramps are not modeled.
type TempoEvent struct {
	Pos Position
	BPM float64
}

// TempoMap is a normalized, ascending sequence of tempo breakpoints whose
// first entry is always at position 0. Build one with NormalizeTempoMap;
// other packages must not consume raw tempo events directly.
type TempoMap []TempoEvent

// NormalizeTempoMap sorts raw tempo events by position and guarantees a
// breakpoint at position 0. If the earliest observed breakpoint sits past
// position 0, its tempo is extended back to 0. With no events at all the map
// is a single DefaultBPM entry.
func NormalizeTempoMap(events []TempoEvent) TempoMap {
	sorted := make([]TempoEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pos.Cmp(sorted[j].Pos) < 0
	})

	if len(sorted) == 0 {
		return TempoMap{{Pos: Zero(), BPM: DefaultBPM}}
	}
	if !sorted[0].Pos.IsZero() {
		sorted = append([]TempoEvent{{Pos: Zero(), BPM: sorted[0].BPM}}, sorted...)
	}
	return TempoMap(sorted)
}

// Converter turns score positions into elapsed seconds by integrating a
// tempo map in a single forward scan. Positions must be supplied in
// non-decreasing order; callers that need to convert a second independent
// sequence start a fresh Converter over the same map.
type Converter struct {
	tempo TempoMap

	idx  int
	pos  Position
	time float64
}

// NewConverter returns a Converter positioned at the start of the map.
// An empty map is treated as the default 120 BPM map.
func NewConverter(tempo TempoMap) *Converter {
	if len(tempo) == 0 {
		tempo = NormalizeTempoMap(nil)
	}
	return &Converter{tempo: tempo}
}

// Next returns the elapsed seconds at position p. p must be >= every
// position previously passed to Next on this Converter.
func (c *Converter) Next(p Position) float64 {
	// Consume tempo breakpoints up to and including p.
	for c.idx+1 < len(c.tempo) && c.tempo[c.idx+1].Pos.Cmp(p) <= 0 {
		next := c.tempo[c.idx+1]
		delta := next.Pos.Sub(c.pos)
		c.time += delta.Float64() * 60.0 / c.tempo[c.idx].BPM
		c.pos = next.Pos
		c.idx++
	}

	delta := p.Sub(c.pos)
	if !delta.IsZero() {
		c.time += delta.Float64() * 60.0 / c.tempo[c.idx].BPM
		c.pos = p
	}
	return c.time
}
