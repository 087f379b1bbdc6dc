package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tran/internal/config"
)

var flagForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config",
	Long: `Write a default config with a single gradient color and no targets.

An existing config is kept unless --force is given.

Examples:
  tran init
  tran init --force --config ./tran.conf`,
	Args: cobra.NoArgs,
	Run:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing config")
}

func runInit(_ *cobra.Command, _ []string) {
	path := configPath()

	written, err := config.Init(path, flagForce)
	if err != nil {
		fatalf("%v", err)
	}
	if !written {
		fmt.Printf("Config already exists at %s (use --force to replace it).\n", path)
		return
	}
	fmt.Printf("Wrote default config to %s\n", path)
}
