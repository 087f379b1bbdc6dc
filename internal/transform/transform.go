// Package transform decides what each palette color becomes during a rotation.
//
// Two strategies exist. Map swaps exact colors from a substitution table.
// Gradient derives the table itself from the palette: it anchors the
// brightest palette color on a new primary and propagates channel ratios
// down the palette sorted by brightness.
package transform

import (
	"fmt"

	"github.com/vovakirdan/tran/internal/core"
)

// Transform rewrites palette entries in place.
// Implementations are *Map and *Gradient.
type Transform interface {
	Apply(palette []core.Color) error
	sealed()
}

// Pair replaces Old with New.
type Pair struct {
	New core.Color
	Old core.Color
}

// Map is an exact-match substitution table.
// When several pairs share the same Old color, the first one wins.
type Map struct {
	Pairs []Pair
}

// NewMap pairs next[i] with current[i].
func NewMap(next, current core.Row) (*Map, error) {
	if len(next) != len(current) {
		return nil, fmt.Errorf("%w: color row %s has %d colors but current row %s has %d",
			core.ErrConfig, next, len(next), current, len(current))
	}
	m := &Map{Pairs: make([]Pair, len(next))}
	for i := range next {
		m.Pairs[i] = Pair{New: next[i], Old: current[i]}
	}
	return m, nil
}

// Lookup returns the replacement for c from the first matching pair.
func (m *Map) Lookup(c core.Color) (core.Color, bool) {
	for _, p := range m.Pairs {
		if p.Old == c {
			return p.New, true
		}
	}
	return c, false
}

// Apply replaces every palette entry that has a match. Each entry is looked
// up once, so a replaced color is never matched again by a later pair.
func (m *Map) Apply(palette []core.Color) error {
	for i, c := range palette {
		if n, ok := m.Lookup(c); ok {
			palette[i] = n
		}
	}
	return nil
}

func (m *Map) sealed() {}

func (m *Map) String() string {
	s := "map"
	for _, p := range m.Pairs {
		s += fmt.Sprintf(" %s->%s", p.Old, p.New)
	}
	return s
}
