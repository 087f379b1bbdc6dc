package transform

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tran/internal/core"
)

func hex(s string) core.Color { return core.MustParseHex(s) }

func TestMapApply(t *testing.T) {
	m := &Map{Pairs: []Pair{{New: hex("#00FF00"), Old: hex("#FF0000")}}}

	palette := []core.Color{
		core.RGB(255, 0, 0),
		core.RGB(254, 0, 0),
		core.Black,
		core.RGB(255, 0, 0),
		core.RGB(1, 2, 3),
	}
	want := []core.Color{
		core.RGB(0, 255, 0),
		core.RGB(254, 0, 0),
		core.Black,
		core.RGB(0, 255, 0),
		core.RGB(1, 2, 3),
	}

	if err := m.Apply(palette); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	for i := range want {
		if palette[i] != want[i] {
			t.Errorf("palette[%d] = %v, want %v", i, palette[i], want[i])
		}
	}
}

func TestMapDuplicateOldFirstWins(t *testing.T) {
	m := &Map{Pairs: []Pair{
		{New: hex("#111111"), Old: hex("#ff0000")},
		{New: hex("#222222"), Old: hex("#ff0000")},
	}}

	palette := []core.Color{hex("#ff0000")}
	if err := m.Apply(palette); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if palette[0] != hex("#111111") {
		t.Errorf("palette[0] = %v, want the first pair's color #111111", palette[0])
	}
}

func TestMapSinglePass(t *testing.T) {
	// red->green and green->blue must not chain red into blue.
	m := &Map{Pairs: []Pair{
		{New: hex("#00ff00"), Old: hex("#ff0000")},
		{New: hex("#0000ff"), Old: hex("#00ff00")},
	}}

	palette := []core.Color{hex("#ff0000"), hex("#00ff00")}
	if err := m.Apply(palette); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if palette[0] != hex("#00ff00") || palette[1] != hex("#0000ff") {
		t.Errorf("palette = %v, want [#00ff00 #0000ff]", palette)
	}
}

func TestNewMap(t *testing.T) {
	next := core.Row{hex("#010101"), hex("#020202")}
	current := core.Row{hex("#0a0a0a"), hex("#0b0b0b")}

	m, err := NewMap(next, current)
	if err != nil {
		t.Fatalf("NewMap() failed: %v", err)
	}
	if len(m.Pairs) != 2 || m.Pairs[1].New != next[1] || m.Pairs[1].Old != current[1] {
		t.Errorf("NewMap() pairs = %+v", m.Pairs)
	}

	_, err = NewMap(next, current[:1])
	if !errors.Is(err, core.ErrConfig) {
		t.Errorf("NewMap() with mismatched rows error = %v, want ErrConfig", err)
	}
}

func TestGradientGenerate(t *testing.T) {
	g := &Gradient{Primary: core.RGB(100, 200, 40), Background: hex("#000000")}

	palette := []core.Color{
		core.RGB(100, 50, 25),
		core.Black,
		core.RGB(200, 100, 50),
		core.White,
		core.RGB(100, 50, 25),
	}

	got, err := g.Generate(palette)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	want := []GeneratedColorMap{
		{Old: core.RGB(200, 100, 50), New: core.RGB(100, 200, 40)},
		{Old: core.RGB(100, 50, 25), New: core.RGB(50, 100, 20)},
	}
	if len(got) != len(want) {
		t.Fatalf("Generate() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Generate()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGradientApply(t *testing.T) {
	g := &Gradient{Primary: core.RGB(100, 200, 40)}

	palette := []core.Color{
		core.RGB(100, 50, 25),
		core.Black,
		core.RGB(200, 100, 50),
		core.White,
	}
	if err := g.Apply(palette); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	want := []core.Color{
		core.RGB(50, 100, 20),
		core.Black,
		core.RGB(100, 200, 40),
		core.White,
	}
	for i := range want {
		if palette[i] != want[i] {
			t.Errorf("palette[%d] = %v, want %v", i, palette[i], want[i])
		}
	}
}

func TestGradientZeroChannelRatioIsOne(t *testing.T) {
	g := &Gradient{Primary: core.RGB(80, 80, 80)}

	// Brightest entry has a zero red channel; the next entry's red ratio
	// would divide by zero and is taken as 1.0 instead.
	got, err := g.Generate([]core.Color{
		core.RGB(0, 200, 200),
		core.RGB(10, 100, 100),
	})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if got[1].New != core.RGB(80, 40, 40) {
		t.Errorf("Generate()[1].New = %v, want (80,40,40)", got[1].New)
	}
}

func TestGradientZeroChannelNonFirstEntry(t *testing.T) {
	g := &Gradient{Primary: core.RGB(90, 90, 90)}

	got, err := g.Generate([]core.Color{
		core.RGB(60, 200, 200),
		core.RGB(0, 150, 150),
		core.RGB(30, 100, 100),
	})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	want := []core.Color{
		core.RGB(90, 90, 90),
		core.RGB(0, 67, 67),
		core.RGB(0, 44, 44),
	}
	for i := range want {
		if got[i].New != want[i] {
			t.Errorf("Generate()[%d].New = %v, want %v", i, got[i].New, want[i])
		}
	}
}

func TestGradientClampsChannels(t *testing.T) {
	g := &Gradient{Primary: core.RGB(200, 200, 200)}

	got, err := g.Generate([]core.Color{
		core.RGB(100, 100, 100),
		core.RGB(50, 200, 40),
	})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if got[1].New != core.RGB(100, 255, 80) {
		t.Errorf("Generate()[1].New = %v, want (100,255,80)", got[1].New)
	}
}

func TestGradientTiesKeepPaletteOrder(t *testing.T) {
	g := &Gradient{Primary: hex("#abcdef")}

	got, err := g.Generate([]core.Color{core.RGB(10, 20, 30), core.RGB(30, 20, 10)})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if got[0].Old != core.RGB(10, 20, 30) {
		t.Errorf("Generate()[0].Old = %v, want the earlier palette entry", got[0].Old)
	}
}

func TestGradientNoColors(t *testing.T) {
	g := &Gradient{Primary: hex("#abcdef")}

	for _, palette := range [][]core.Color{nil, {core.Black, core.White}} {
		if err := g.Apply(palette); !errors.Is(err, core.ErrPNGFormat) {
			t.Errorf("Apply(%v) error = %v, want ErrPNGFormat", palette, err)
		}
	}
}
