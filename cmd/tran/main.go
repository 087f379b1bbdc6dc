// tran rotates the accent color of your theme files.
//
// Usage:
//
//	tran                   - Rotate to the next configured color
//	tran init              - Write the default config
//	tran show              - Print the parsed config
//	tran palette <file>    - Print the palette of an indexed PNG
//	tran pick              - Choose the next color interactively
//	tran history           - Browse past rotations
//
// Global flags:
//
//	--config <path>  - Config file (default: <user config dir>/tran/config)
//	--db <path>      - History database (default: ~/.local/share/tran/history.db)
//	--seed <value>   - RNG seed for color selection
//	--verbose        - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tran/internal/config"
)

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
	flagSeed       int64
	flagVerbose    bool

	// Rotation flags
	flagTo     string
	flagDryRun bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tran",
	Short: "tran - Rotate the accent color of your theme files",
	Long: `tran swaps the current accent color of your theme for the next one.

Text targets get a literal replace of the hex color. Indexed PNG targets
get their palette rewritten: in gradient mode every shade is rescaled
from the new color, in map mode exact colors are swapped.

Available commands:
  init     - Write the default config
  show     - Print the parsed config
  palette  - Print the palette of an indexed PNG
  pick     - Choose the next color interactively
  history  - Browse past rotations

Examples:
  tran
  tran --to '#ff8800'
  tran --dry-run --verbose
  tran pick`,
	Args: cobra.NoArgs,
	Run:  runRotate,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.local/share/tran/history.db", "Path to history database")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringVar(&flagTo, "to", "", "Rotate to this configured color (row) instead of a random one")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Log what would change without writing anything")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(historyCmd)
}

// newLogger builds the process logger.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tran",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// configPath returns --config or the default location.
func configPath() string {
	if flagConfigPath != "" {
		return flagConfigPath
	}
	path, err := config.DefaultPath()
	if err != nil {
		fatalf("%v", err)
	}
	return path
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
