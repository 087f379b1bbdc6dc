package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tran/internal/config"
	"github.com/vovakirdan/tran/internal/platform/tui"
	"github.com/vovakirdan/tran/internal/rotate"
)

var flagYAML bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the parsed config",
	Long: `Parse the config and print what tran will do with it: the mode,
the current color, every candidate color with its weight, and the
target files.

Examples:
  tran show
  tran show --yaml`,
	Args: cobra.NoArgs,
	Run:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&flagYAML, "yaml", false, "Print the config as YAML")
}

func runShow(_ *cobra.Command, _ []string) {
	path := configPath()

	cfg, err := config.Load(path)
	if err != nil {
		fatalf("%v", err)
	}

	if flagYAML {
		out, err := config.MarshalYAML(cfg)
		if err != nil {
			fatalf("%v", err)
		}
		os.Stdout.Write(out)
		return
	}

	current := config.CurrentRow(cfg)
	fmt.Printf("Config:  %s\n", path)
	fmt.Printf("Mode:    %s\n", cfg.Mode())
	fmt.Printf("Current: %s %s\n", tui.SwatchRow(current), current)
	fmt.Println()

	choices := config.Choices(cfg)
	if len(choices) == 0 {
		fmt.Println("No colors configured.")
	} else {
		fmt.Printf("  %-6s  %-8s  %s\n", "Weight", "Delta E", "Color")
		fmt.Printf("  %-6s  %-8s  %s\n", "------", "-------", "-----")
		for _, c := range choices {
			line := fmt.Sprintf("  %-6d  %-8.1f  %s %s", c.Weight, tui.RowDistance(current, c.Row), tui.SwatchRow(c.Row), c.Row)
			if c.Current {
				line += "  (current)"
			}
			fmt.Println(line)
		}
	}

	fmt.Println()
	targets := cfg.Targets()
	if len(targets) == 0 {
		fmt.Println("No target files configured.")
	} else {
		fmt.Println("Targets:")
		for _, t := range targets {
			kind := "text"
			if rotate.IsPNG(t) {
				kind = "png"
			}
			if info, err := os.Stat(t); err != nil || !info.Mode().IsRegular() {
				kind += ", missing"
			}
			fmt.Printf("  %s (%s)\n", t, kind)
		}
	}

	fmt.Println()
	if cfg.Overwrites() {
		fmt.Println("Overwrite: true (no backups)")
	} else {
		fmt.Printf("Overwrite: false (backups to <target>%s)\n", rotate.BackupSuffix)
	}
}
