package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tran/internal/config"
	"github.com/vovakirdan/tran/internal/platform/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose the next color interactively",
	Long: `List the configured colors with swatches and rotate to the chosen one.

Controls:
  Up/Down/j/k  - Navigate
  Enter/Space  - Rotate to the highlighted color
  ?            - More keys
  Q/Esc        - Quit without rotating

Examples:
  tran pick
  tran pick --config ./tran.conf`,
	Args: cobra.NoArgs,
	Run:  runPick,
}

func runPick(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(configPath())
	if err != nil {
		fatalf("%v", err)
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	result, err := tui.RunPicker(cfg, width, height)
	if err != nil {
		fatalf("%v", err)
	}
	if result.Quit {
		fmt.Println("No color chosen.")
		return
	}

	rotateTo(result.Row.String())
}
