// Package timing provides the exact rational time base for score positions
// and the tempo map used to convert positions into elapsed seconds.
//
// Positions are measured in whole reference-duration units from the start of
// a part. Exact fraction arithmetic is required here: accumulating many small
// note durations in floating point would drift and break both monotonic time
// and stable tie-breaking for simultaneous notes.
package timing

import (
	"math/big"
)

// Position is an exact rational offset from the start of a part.
// The zero value is position 0. Positions are immutable; arithmetic
// operations return new values and never mutate their receivers.
type Position struct {
	r *big.Rat
}

// Zero returns position 0.
func Zero() Position {
	return Position{}
}

// NewPosition returns the position num/den.
func NewPosition(num, den int64) Position {
	return Position{r: big.NewRat(num, den)}
}

func (p Position) rat() *big.Rat {
	if p.r == nil {
		return new(big.Rat)
	}
	return p.r
}

// Add returns p + q.
func (p Position) Add(q Position) Position {
	return Position{r: new(big.Rat).Add(p.rat(), q.rat())}
}

// Sub returns p - q.
func (p Position) Sub(q Position) Position {
	return Position{r: new(big.Rat).Sub(p.rat(), q.rat())}
}

// Cmp compares p and q, returning -1, 0, or +1.
func (p Position) Cmp(q Position) int {
	return p.rat().Cmp(q.rat())
}

// IsZero reports whether p is position 0.
func (p Position) IsZero() bool {
	return p.rat().Sign() == 0
}

// Float64 returns the nearest float64 approximation of p.
// Only output formatting may use this; all ordering and arithmetic
// stays exact.
func (p Position) Float64() float64 {
	f, _ := p.rat().Float64()
	return f
}

// String returns the position as "num/den".
func (p Position) String() string {
	return p.rat().RatString()
}
