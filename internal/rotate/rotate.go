// Package rotate drives one color rotation: it picks the next color from the
// config, recolors every target file and records the new current color.
package rotate

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tran/internal/config"
	"github.com/vovakirdan/tran/internal/core"
	"github.com/vovakirdan/tran/internal/pngchunk"
	"github.com/vovakirdan/tran/internal/storage"
	"github.com/vovakirdan/tran/internal/textfile"
	"github.com/vovakirdan/tran/internal/transform"
)

// BackupSuffix is appended to a target's path for its one-time backup.
const BackupSuffix = ".orig"

// History records completed rotations. *storage.Store implements it.
type History interface {
	SaveRun(run storage.Run) (int64, error)
}

// Options configures a Runner.
type Options struct {
	Seed   int64 // RNG seed, 0 = random based on time
	DryRun bool  // plan and log only, write nothing
}

// Runner performs rotations.
type Runner struct {
	log     *log.Logger
	history History
	rng     *rand.Rand
	dryRun  bool
}

// New creates a Runner. logger and history may be nil.
func New(logger *log.Logger, history History, opts Options) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runner{
		log:     logger,
		history: history,
		rng:     rand.New(rand.NewSource(seed)),
		dryRun:  opts.DryRun,
	}
}

// Plan is the transform chosen for one rotation.
type Plan struct {
	Mode      config.Mode
	From      core.Row
	To        core.Row
	Transform transform.Transform
	// Pairs are the literal substitutions applied to text targets.
	Pairs []transform.Pair
}

// Outcome is the result of recoloring one target.
type Outcome struct {
	Path    string
	Changed bool
	Backup  string // backup written during this run, if any
	Err     error
}

// Report summarizes a rotation.
type Report struct {
	Plan    *Plan
	Targets []Outcome
	DryRun  bool
}

// Failed returns the number of targets that could not be recolored.
func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Targets {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// Reason labels a target failure by its error kind. It returns "" for a nil
// error and "failed" for errors of no known kind.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	switch core.Kind(err) {
	case core.ErrFileNotFound:
		return "missing"
	case core.ErrUnsupported:
		return "unsupported"
	case core.ErrPNGFormat:
		return "bad png"
	case core.ErrFileRead:
		return "io error"
	default:
		return "failed"
	}
}

// Next picks the next color row. When to is non-empty it must name one of
// the configured colors (rows); otherwise a weighted random candidate is
// drawn.
func (r *Runner) Next(cfg config.Config, to string) (core.Row, error) {
	if to != "" {
		row, err := core.ParseRow(to)
		if err != nil {
			return nil, err
		}
		for _, choice := range config.Choices(cfg) {
			if choice.Row.Equal(row) {
				return row, nil
			}
		}
		return nil, fmt.Errorf("%w: %s is not one of the configured colors", core.ErrConfig, row)
	}

	switch c := cfg.(type) {
	case *config.GradientConfig:
		candidates := c.Candidates()
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: no candidate colors besides the current one", core.ErrConfig)
		}
		return core.Row{candidates[r.rng.Intn(len(candidates))]}, nil

	case *config.MapConfig:
		candidates := c.Candidates()
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: no candidate color rows", core.ErrConfig)
		}
		return candidates[r.rng.Intn(len(candidates))], nil
	}
	panic(fmt.Sprintf("rotate: unknown config type %T", cfg))
}

// NewPlan builds the transform that moves cfg's current color to next.
func NewPlan(cfg config.Config, next core.Row) (*Plan, error) {
	current := config.CurrentRow(cfg)
	plan := &Plan{Mode: cfg.Mode(), From: current, To: next}

	switch cfg.(type) {
	case *config.GradientConfig:
		if len(next) != 1 {
			return nil, fmt.Errorf("%w: gradient mode takes a single color, got %s", core.ErrConfig, next)
		}
		plan.Transform = &transform.Gradient{Primary: next[0], Background: current[0]}
		plan.Pairs = []transform.Pair{{New: next[0], Old: current[0]}}

	case *config.MapConfig:
		m, err := transform.NewMap(next, current)
		if err != nil {
			return nil, err
		}
		plan.Transform = m
		plan.Pairs = m.Pairs

	default:
		panic(fmt.Sprintf("rotate: unknown config type %T", cfg))
	}
	return plan, nil
}

// Run rotates cfg to the next color (or to, when set), recolors all targets
// and updates cfg's current color in memory. Per-target failures are logged
// and reported but do not abort the run.
func (r *Runner) Run(cfg config.Config, to string) (*Report, error) {
	next, err := r.Next(cfg, to)
	if err != nil {
		return nil, err
	}
	plan, err := NewPlan(cfg, next)
	if err != nil {
		return nil, err
	}

	r.log.Info("rotating", "mode", plan.Mode, "from", plan.From, "to", plan.To)
	r.log.Debug("transform", "transform", plan.Transform)

	report := &Report{Plan: plan, DryRun: r.dryRun}
	for _, path := range cfg.Targets() {
		report.Targets = append(report.Targets, r.recolor(plan, path, cfg.Overwrites()))
	}

	if r.dryRun {
		return report, nil
	}
	SetCurrent(cfg, plan.To)
	return report, nil
}

// Rotate loads the config at path, runs a rotation, saves the config back
// and records the run in the history. Loading and saving failures are fatal;
// a history failure is only logged.
func (r *Runner) Rotate(path, to string) (*Report, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	report, err := r.Run(cfg, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if r.dryRun {
		return report, nil
	}

	if err := config.Save(path, cfg); err != nil {
		return report, err
	}
	r.record(report)
	return report, nil
}

func (r *Runner) record(report *Report) {
	if r.history == nil {
		return
	}
	run := storage.Run{
		Mode: string(report.Plan.Mode),
		From: report.Plan.From.String(),
		To:   report.Plan.To.String(),
	}
	for _, o := range report.Targets {
		t := storage.TargetResult{Path: o.Path, Status: storage.StatusUnchanged}
		switch {
		case o.Err != nil:
			t.Status = storage.StatusFailed
			t.Error = o.Err.Error()
		case o.Changed:
			t.Status = storage.StatusChanged
		}
		run.Targets = append(run.Targets, t)
	}
	if _, err := r.history.SaveRun(run); err != nil {
		r.log.Warn("could not record rotation", "error", err)
	}
}

// recolor processes a single target.
func (r *Runner) recolor(plan *Plan, path string, overwrite bool) Outcome {
	logger := r.log.With("path", path)
	out := Outcome{Path: path}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		out.Err = fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
		logger.Error("skipping target", "error", out.Err)
		return out
	}

	if r.dryRun {
		logger.Info("would recolor", "png", IsPNG(path))
		return out
	}

	// The backup is taken only once a target is about to be rewritten.
	var beforeWrite func() error
	if !overwrite {
		beforeWrite = func() error {
			backup, err := Backup(path)
			if err != nil {
				return err
			}
			if backup != "" {
				out.Backup = backup
				logger.Debug("backup written", "backup", backup)
			}
			return nil
		}
	}

	if IsPNG(path) {
		out.Changed, out.Err = pngchunk.RecolorWith(path, path, plan.Transform, beforeWrite)
	} else {
		out.Changed, out.Err = textfile.RecolorWith(path, plan.Pairs, beforeWrite)
	}

	switch {
	case core.Kind(out.Err) == core.ErrUnsupported:
		logger.Warn("skipping target", "error", out.Err)
	case out.Err != nil:
		logger.Error("recolor failed", "error", out.Err)
	case out.Changed:
		logger.Info("recolored")
	default:
		logger.Info("no colors to replace")
	}
	return out
}

// IsPNG reports whether path has a .png extension, in any case.
func IsPNG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}

// Backup copies path to path+BackupSuffix unless that backup already exists.
// Returns the backup path when one was written.
func Backup(path string) (string, error) {
	backup := path + BackupSuffix
	if _, err := os.Stat(backup); err == nil {
		return "", nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", core.ErrFileRead, path, err)
	}
	if err := os.WriteFile(backup, data, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("%w: writing backup %s: %w", core.ErrFileRead, backup, err)
	}
	return backup, nil
}

// SetCurrent replaces cfg's current color (row).
func SetCurrent(cfg config.Config, row core.Row) {
	switch c := cfg.(type) {
	case *config.GradientConfig:
		c.CurrentColor = row[0]
	case *config.MapConfig:
		c.CurrentColors = slices.Clone(row)
	default:
		panic(fmt.Sprintf("rotate: unknown config type %T", cfg))
	}
}
