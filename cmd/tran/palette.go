package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tran/internal/config"
	"github.com/vovakirdan/tran/internal/core"
	"github.com/vovakirdan/tran/internal/pngchunk"
	"github.com/vovakirdan/tran/internal/platform/tui"
)

var paletteCmd = &cobra.Command{
	Use:   "palette <file.png>",
	Short: "Print the palette of an indexed PNG",
	Long: `Print the color type, chunk list and palette entries of a PNG.

When a config is present, each entry also shows its distance from the
current color, which helps when writing map rows.

Examples:
  tran palette ~/.icons/theme/folder.png`,
	Args: cobra.ExactArgs(1),
	Run:  runPalette,
}

func runPalette(_ *cobra.Command, args []string) {
	path := args[0]

	info, err := pngchunk.Inspect(path)
	if err != nil {
		fatalf("%v", err)
	}

	// The config is optional here.
	var current core.Row
	if cfg, err := config.Load(configPath()); err == nil {
		current = config.CurrentRow(cfg)
	}

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Color type: %s\n", info.ColorType)
	fmt.Printf("Bit depth:  %d\n", info.BitDepth)
	fmt.Printf("Chunks:     %s\n", strings.Join(info.Chunks, " "))
	fmt.Printf("Image data: %d IDAT\n", info.ImageChunks)
	if info.Transparency {
		fmt.Println("Alpha:      tRNS")
	}
	fmt.Println()

	if len(info.Palette) == 0 {
		fmt.Println("No palette.")
		return
	}

	fmt.Printf("  %-5s  %-7s  %s\n", "Index", "Color", "Delta E")
	fmt.Printf("  %-5s  %-7s  %s\n", "-----", "-----", "-------")
	for i, c := range info.Palette {
		dist := "-"
		if len(current) > 0 {
			dist = fmt.Sprintf("%.1f", c.Distance(current[0]))
		}
		fmt.Printf("  %-5d  %s %s  %s\n", i, tui.Swatch(c), c, dist)
	}
}
