package config

import (
	"fmt"

	"github.com/vovakirdan/tran/internal/core"
)

// Candidates returns the scaled selection list: each color repeated by its
// weight, with the current color left out so a rotation never picks a no-op.
func (c *GradientConfig) Candidates() []core.Color {
	var out []core.Color
	for i, color := range c.Colors {
		if color == c.CurrentColor {
			continue
		}
		for n := uint(0); n < weightAt(c.Weights, i); n++ {
			out = append(out, color)
		}
	}
	return out
}

// Candidates returns the scaled selection list of rows.
func (c *MapConfig) Candidates() []core.Row {
	var out []core.Row
	for i, row := range c.Colors {
		for n := uint(0); n < weightAt(c.Weights, i); n++ {
			out = append(out, row)
		}
	}
	return out
}

// Choice is one configured color (row) as presented to a user.
type Choice struct {
	Row     core.Row
	Weight  uint
	Current bool
}

// Choices lists the configured colors in file order, unscaled.
func Choices(cfg Config) []Choice {
	switch c := cfg.(type) {
	case *GradientConfig:
		out := make([]Choice, len(c.Colors))
		for i, color := range c.Colors {
			out[i] = Choice{
				Row:     core.Row{color},
				Weight:  weightAt(c.Weights, i),
				Current: color == c.CurrentColor,
			}
		}
		return out
	case *MapConfig:
		out := make([]Choice, len(c.Colors))
		for i, row := range c.Colors {
			out[i] = Choice{
				Row:     row,
				Weight:  weightAt(c.Weights, i),
				Current: row.Equal(c.CurrentColors),
			}
		}
		return out
	}
	panic(fmt.Sprintf("config: unknown config type %T", cfg))
}
