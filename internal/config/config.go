// Package config parses, validates and persists the tran configuration file.
//
// The file is a small line-oriented format made of bracketed sections:
//
//	[mode]
//	gradient
//	[colors]
//	2#6ee2ff
//	#ff79c6
//	[current_color]
//	#6ee2ff
//	[target_files]
//	/home/me/.config/waybar/style.css
//	[overwrite]
//	true
//
// The mode section selects which Config variant the remaining sections build.
package config

import (
	"github.com/vovakirdan/tran/internal/core"
)

// Mode selects the Config variant and the transform strategy.
type Mode string

const (
	ModeGradient Mode = "gradient"
	ModeMap      Mode = "map"
)

// Config is either a *GradientConfig or a *MapConfig.
// The set of implementations is closed; consumers switch on the concrete type.
type Config interface {
	// Mode returns the variant's mode, as written in the [mode] section.
	Mode() Mode

	// Targets returns the files recolored on each rotation.
	Targets() []string

	// Overwrites reports whether targets are rewritten without keeping a backup.
	Overwrites() bool

	sealed()
}

// GradientConfig rotates a single accent color.
type GradientConfig struct {
	CurrentColor core.Color
	Colors       []core.Color
	Weights      []uint
	TargetFiles  []string
	Overwrite    bool
}

// MapConfig rotates rows of colors that are swapped together.
type MapConfig struct {
	CurrentColors core.Row
	Colors        []core.Row
	Weights       []uint
	TargetFiles   []string
	Overwrite     bool
}

func (c *GradientConfig) Mode() Mode        { return ModeGradient }
func (c *GradientConfig) Targets() []string { return c.TargetFiles }
func (c *GradientConfig) Overwrites() bool  { return c.Overwrite }
func (c *GradientConfig) sealed()           {}

func (c *MapConfig) Mode() Mode        { return ModeMap }
func (c *MapConfig) Targets() []string { return c.TargetFiles }
func (c *MapConfig) Overwrites() bool  { return c.Overwrite }
func (c *MapConfig) sealed()           {}

// DefaultColor is the accent written into a freshly created config.
var DefaultColor = core.MustParseHex("#6ee2ff")

// Default returns the config written on first run.
func Default() *GradientConfig {
	return &GradientConfig{
		CurrentColor: DefaultColor,
		Colors:       []core.Color{DefaultColor},
		Weights:      []uint{1},
		TargetFiles:  []string{},
		Overwrite:    false,
	}
}
