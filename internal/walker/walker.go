// Package walker visits every file below a directory, depth first.
//
// Traversal keeps its own stack instead of recursing, and remembers each
// directory by its resolved path so a symlink loop is entered only once.
package walker

import (
	"fmt"
	"os"
	"path/filepath"

	"bitbucket.org/creachadair/stringset"

	"github.com/mcncl/roguetools/internal/errors"
	"github.com/mcncl/roguetools/internal/models"
)

// Classify reports whether path is a directory, some other file, or absent.
// Symlinks are followed. A path that cannot be inspected for another reason
// is reported as missing together with the error.
func Classify(path string) (models.EntryKind, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.EntryMissing, nil
		}
		return models.EntryMissing, err
	}
	if info.IsDir() {
		return models.EntryDirectory, nil
	}
	return models.EntryFile, nil
}

// Walker calls Visit for every non-directory entry reachable from a root
type Walker struct {
	// FollowSymlinks descends into symlinked directories below the root
	FollowSymlinks bool
	// Visit is called once per non-directory path; an error stops the walk
	Visit func(path string) error
	// Debugf, when set, receives traversal notes
	Debugf func(format string, args ...any)
}

// New returns a Walker that follows symlinks
func New(visit func(path string) error) *Walker {
	return &Walker{FollowSymlinks: true, Visit: visit}
}

func (w *Walker) debugf(format string, args ...any) {
	if w.Debugf != nil {
		w.Debugf(format, args...)
	}
}

// Walk visits root and everything below it. Entries are handled in the
// order os.ReadDir returns them, and a subdirectory is finished before the
// next sibling is looked at. Anything that is not a directory, including a
// missing path, is handed to Visit.
func (w *Walker) Walk(root string) error {
	visited := stringset.New()
	stack := []string{root}

	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if w.kind(path, path == root) != models.EntryDirectory {
			if err := w.Visit(path); err != nil {
				return err
			}
			continue
		}

		key, err := filepath.EvalSymlinks(path)
		if err != nil {
			key = filepath.Clean(path)
		}
		if abs, err := filepath.Abs(key); err == nil {
			key = abs
		}
		if visited.Contains(key) {
			w.debugf("skipping %s: already visited as %s", path, key)
			continue
		}
		visited.Add(key)

		entries, err := os.ReadDir(path)
		if err != nil {
			return errors.NewInputError(fmt.Sprintf("failed to list directory '%s'", path), err)
		}
		w.debugf("entering %s (%d entries)", path, len(entries))

		// Push in reverse so entries pop in listing order
		for i := len(entries) - 1; i >= 0; i-- {
			stack = append(stack, filepath.Join(path, entries[i].Name()))
		}
	}
	return nil
}

func (w *Walker) kind(path string, isRoot bool) models.EntryKind {
	if !w.FollowSymlinks && !isRoot {
		if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
			return models.EntryFile
		}
	}

	kind, err := Classify(path)
	if err != nil {
		w.debugf("cannot inspect %s: %v", path, err)
	}
	return kind
}
