package transform

import (
	"fmt"
	"math"
	"slices"

	"github.com/vovakirdan/tran/internal/core"
)

// Gradient recolors a multi-tone palette from a single primary color.
// Background is carried for identity and reporting; the interpolation does
// not read it.
type Gradient struct {
	Primary    core.Color
	Background core.Color
}

// GeneratedColorMap is one old->new entry derived from a palette.
type GeneratedColorMap struct {
	Old core.Color
	New core.Color
}

// Generate derives the substitution table for palette.
//
// Distinct colors other than pure black and white are sorted by channel sum,
// brightest first (ties keep palette order). The brightest becomes Primary;
// every following color keeps the per-channel ratio it had to its
// predecessor. A zero channel in the predecessor counts as ratio 1.
func (g *Gradient) Generate(palette []core.Color) ([]GeneratedColorMap, error) {
	seen := make(map[core.Color]bool, len(palette))
	var olds []core.Color
	for _, c := range palette {
		if c.IsStructural() || seen[c] {
			continue
		}
		seen[c] = true
		olds = append(olds, c)
	}
	if len(olds) == 0 {
		return nil, fmt.Errorf("%w: palette has no colors besides black and white", core.ErrPNGFormat)
	}

	slices.SortStableFunc(olds, func(a, b core.Color) int {
		return b.Sum() - a.Sum()
	})

	out := make([]GeneratedColorMap, len(olds))
	out[0] = GeneratedColorMap{Old: olds[0], New: g.Primary}
	for i := 1; i < len(olds); i++ {
		prevOld, prevNew, old := olds[i-1], out[i-1].New, olds[i]
		out[i] = GeneratedColorMap{
			Old: old,
			New: core.RGB(
				scaleChannel(prevNew.R, prevOld.R, old.R),
				scaleChannel(prevNew.G, prevOld.G, old.G),
				scaleChannel(prevNew.B, prevOld.B, old.B),
			),
		}
	}
	return out, nil
}

// scaleChannel returns prevNew * (old / prevOld), truncated and clamped to a byte.
func scaleChannel(prevNew, prevOld, old uint8) uint8 {
	ratio := 1.0
	if prevOld != 0 {
		ratio = float64(old) / float64(prevOld)
	}
	v := math.Trunc(float64(prevNew) * ratio)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Apply generates the table for palette and substitutes exact matches.
func (g *Gradient) Apply(palette []core.Color) error {
	generated, err := g.Generate(palette)
	if err != nil {
		return err
	}
	m := &Map{Pairs: make([]Pair, len(generated))}
	for i, gm := range generated {
		m.Pairs[i] = Pair{New: gm.New, Old: gm.Old}
	}
	return m.Apply(palette)
}

func (g *Gradient) sealed() {}

func (g *Gradient) String() string {
	return fmt.Sprintf("gradient primary=%s background=%s", g.Primary, g.Background)
}
