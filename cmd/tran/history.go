package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tran/internal/platform/tui"
	"github.com/vovakirdan/tran/internal/storage"
)

var (
	flagLimit int
	flagPlain bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past rotations",
	Long: `Show recent rotations with their colors and per-target results.

By default an interactive table is shown; --plain prints a listing
followed by how often each color was used.

Examples:
  tran history
  tran history --plain --limit 5`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 50, "Number of rotations to show")
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print instead of opening the interactive view")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening history database: %v", err)
	}

	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		store.Close()
		fatalf("retrieving history: %v", err)
	}
	defer store.Close()

	if !flagPlain {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
			height = h
		}
		if err := tui.RunHistory(runs, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	if len(runs) == 0 {
		fmt.Println("No rotations recorded yet.")
		fmt.Println()
		fmt.Println("Run 'tran' to rotate your colors.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-16s  %-16s  %s\n", "Date", "Mode", "From", "To", "Targets")
	fmt.Printf("  %-16s  %-8s  %-16s  %-16s  %s\n", "----", "----", "----", "--", "-------")
	for _, r := range runs {
		targets := fmt.Sprintf("%d", len(r.Targets))
		if failed := r.Failed(); failed > 0 {
			targets += fmt.Sprintf(" (%d failed)", failed)
		}
		fmt.Printf("  %-16s  %-8s  %-16s  %-16s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, r.From, r.To, targets)
	}

	usage, err := store.Usage()
	if err != nil || len(usage) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Most used:")
	for _, u := range usage {
		fmt.Printf("  %-16s  %3d  last %s\n", u.Color, u.Count, u.LastUsed.Format("2006-01-02"))
	}
}
