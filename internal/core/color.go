package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB triple. The zero value is black.
// Values are only built from hex strings or raw channels; String always
// yields the lowercase "#rrggbb" form.
type Color struct {
	R, G, B uint8
}

// Common structural colors that are never remapped by the gradient transform.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// RGB builds a color from raw channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// HexError describes a malformed hex color. ParseHex returns it wrapped
// together with ErrConfig.
type HexError struct {
	Input  string
	Reason string
}

func (e *HexError) Error() string {
	return fmt.Sprintf("color hex %q %s", e.Input, e.Reason)
}

// ParseHex parses a 6-digit hex color with or without a leading '#'.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: %w", ErrConfig, &HexError{Input: s, Reason: "must be 6 hex digits"})
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %w", ErrConfig, &HexError{Input: s, Reason: "is invalid"})
	}

	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// MustParseHex is like ParseHex but panics on error. Used for literals.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the display form "#rrggbb".
func (c Color) String() string {
	return c.Colorful().Hex()
}

// Bare returns the hex digits without the leading '#'.
func (c Color) Bare() string {
	return strings.TrimPrefix(c.String(), "#")
}

// Sum returns the channel sum, used as a cheap brightness proxy.
func (c Color) Sum() int {
	return int(c.R) + int(c.G) + int(c.B)
}

// IsStructural reports whether c is pure black or pure white.
func (c Color) IsStructural() bool {
	return c == Black || c == White
}

// Colorful converts c to a go-colorful color for display and distance math.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Distance returns the CIE76 distance between two colors in Lab space.
func (c Color) Distance(other Color) float64 {
	return c.Colorful().DistanceLab(other.Colorful())
}

// Row is an ordered set of colors that are swapped together.
type Row []Color

// String renders the row as "#rrggbb#rrggbb..." which is also its config form.
func (r Row) String() string {
	var b strings.Builder
	for _, c := range r {
		b.WriteString(c.String())
	}
	return b.String()
}

// Equal reports whether both rows hold the same colors in the same order.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseRow parses "#rrggbb#rrggbb..." into a row. A single color parses to a
// row of one.
func ParseRow(s string) (Row, error) {
	var row Row
	for _, tok := range strings.Split(strings.TrimSpace(s), "#") {
		if tok == "" {
			continue
		}
		c, err := ParseHex(tok)
		if err != nil {
			return nil, err
		}
		row = append(row, c)
	}
	if len(row) == 0 {
		return nil, fmt.Errorf("%w: color row %q is empty", ErrConfig, s)
	}
	return row, nil
}
