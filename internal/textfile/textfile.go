// Package textfile recolors plain-text theme templates by literal
// substitution of hex color strings.
package textfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/vovakirdan/tran/internal/core"
	"github.com/vovakirdan/tran/internal/transform"
)

// Replacer builds a single-pass replacer for pairs. Each old color is matched
// in its lowercase and uppercase "#rrggbb" forms and replaced by the new
// color's lowercase form. When two pairs share an old color the first wins.
func Replacer(pairs []transform.Pair) *strings.Replacer {
	oldnew := make([]string, 0, len(pairs)*4)
	for _, p := range pairs {
		lower := p.Old.String()
		oldnew = append(oldnew, lower, p.New.String())
		if upper := "#" + strings.ToUpper(p.Old.Bare()); upper != lower {
			oldnew = append(oldnew, upper, p.New.String())
		}
	}
	return strings.NewReplacer(oldnew...)
}

// Recolor rewrites every occurrence of the old colors in the file at path.
// The file is only written when its content changes; changed reports whether
// that happened.
func Recolor(path string, pairs []transform.Pair) (changed bool, err error) {
	return RecolorWith(path, pairs, nil)
}

// RecolorWith is Recolor with a hook that runs only when the content changed,
// just before the file is written. A hook error aborts the write.
func RecolorWith(path string, pairs []transform.Pair, beforeWrite func() error) (bool, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false, fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", core.ErrFileRead, path, err)
	}

	text := string(data)
	out := Replacer(pairs).Replace(text)
	if out == text {
		return false, nil
	}

	if beforeWrite != nil {
		if err := beforeWrite(); err != nil {
			return false, err
		}
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("%w: writing %s: %w", core.ErrFileRead, path, err)
	}
	return true, nil
}
