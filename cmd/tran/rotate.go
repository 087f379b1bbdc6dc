package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tran/internal/config"
	"github.com/vovakirdan/tran/internal/core"
	"github.com/vovakirdan/tran/internal/platform/tui"
	"github.com/vovakirdan/tran/internal/rotate"
	"github.com/vovakirdan/tran/internal/storage"
)

func runRotate(_ *cobra.Command, _ []string) {
	rotateTo(flagTo)
}

// rotateTo runs one rotation; an empty to picks a random candidate.
func rotateTo(to string) {
	logger := newLogger()
	path := configPath()

	created, err := config.Init(path, false)
	if err != nil {
		fatalf("%v", err)
	}
	if created {
		fmt.Printf("Created default config at %s\n", path)
		fmt.Println("Add your colors and target files, then run 'tran' again.")
		return
	}

	var history rotate.History
	if !flagDryRun {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open history database", "error", err)
		} else {
			defer store.Close()
			history = store
		}
	}

	runner := rotate.New(logger, history, rotate.Options{
		Seed:   flagSeed,
		DryRun: flagDryRun,
	})
	report, err := runner.Rotate(path, to)
	if err != nil {
		if errors.Is(err, core.ErrConfig) {
			fatalf("%v\nFix the config at %s or run 'tran init --force'.", err, path)
		}
		fatalf("%v", err)
	}

	printReport(report)
}

func printReport(report *rotate.Report) {
	plan := report.Plan
	verb := "Rotated"
	if report.DryRun {
		verb = "Would rotate"
	}
	fmt.Printf("%s %s  %s %s -> %s %s\n", verb, plan.Mode,
		tui.SwatchRow(plan.From), plan.From, tui.SwatchRow(plan.To), plan.To)

	if len(report.Targets) == 0 {
		fmt.Println("No target files configured.")
		return
	}

	fmt.Println()
	for _, o := range report.Targets {
		status := "ok"
		switch {
		case o.Err != nil:
			status = rotate.Reason(o.Err)
		case report.DryRun:
			status = "planned"
		case !o.Changed:
			status = "unchanged"
		}
		fmt.Printf("  %-11s  %s\n", status, o.Path)
		if o.Err != nil {
			fmt.Fprintf(os.Stderr, "               %v\n", o.Err)
		}
	}

	if failed := report.Failed(); failed > 0 {
		fmt.Println()
		fmt.Printf("%d of %d targets failed.\n", failed, len(report.Targets))
	}
}
