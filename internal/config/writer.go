package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/tran/internal/core"
)

// Marshal serializes cfg in the section format read by Parse.
// Weights are always written explicitly so that re-parsing is lossless.
func Marshal(cfg Config) []byte {
	var b strings.Builder

	writeSection(&b, "mode", string(cfg.Mode()))

	switch c := cfg.(type) {
	case *GradientConfig:
		lines := make([]string, len(c.Colors))
		for i, color := range c.Colors {
			lines[i] = strconv.FormatUint(uint64(weightAt(c.Weights, i)), 10) + color.String()
		}
		writeSection(&b, "colors", lines...)
		writeSection(&b, "current_color", c.CurrentColor.String())

	case *MapConfig:
		lines := make([]string, len(c.Colors))
		for i, row := range c.Colors {
			lines[i] = strconv.FormatUint(uint64(weightAt(c.Weights, i)), 10) + row.String()
		}
		writeSection(&b, "colors", lines...)
		writeSection(&b, "current_color", c.CurrentColors.String())

	default:
		panic(fmt.Sprintf("config: unknown config type %T", cfg))
	}

	writeSection(&b, "target_files", cfg.Targets()...)
	writeSection(&b, "overwrite", strconv.FormatBool(cfg.Overwrites()))

	return []byte(b.String())
}

func writeSection(b *strings.Builder, name string, lines ...string) {
	b.WriteString("[" + name + "]\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func weightAt(weights []uint, i int) uint {
	if i < len(weights) {
		return weights[i]
	}
	return 1
}

// CurrentRow returns the current color(s) of cfg as a row.
func CurrentRow(cfg Config) core.Row {
	switch c := cfg.(type) {
	case *GradientConfig:
		return core.Row{c.CurrentColor}
	case *MapConfig:
		return c.CurrentColors
	}
	panic(fmt.Sprintf("config: unknown config type %T", cfg))
}
