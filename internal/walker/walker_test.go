package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/roguetools/internal/models"
)

// buildTree creates files (paths ending in "/" are directories) under root
func buildTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("{}"), 0o644))
	}
}

func collect(root string, w *Walker) ([]string, error) {
	var seen []string
	w.Visit = func(path string) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		seen = append(seen, filepath.ToSlash(rel))
		return nil
	}
	err := w.Walk(root)
	return seen, err
}

func TestClassify(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, "a.json", "sub/")

	kind, err := Classify(filepath.Join(root, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, models.EntryFile, kind)

	kind, err = Classify(filepath.Join(root, "sub"))
	require.NoError(t, err)
	assert.Equal(t, models.EntryDirectory, kind)

	kind, err = Classify(filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.Equal(t, models.EntryMissing, kind)
}

func TestWalk_DepthFirstInListingOrder(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, "a.json", "b.txt", "m/x.json", "m/deeper/y.json", "z.json")

	seen, err := collect(root, New(nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.json", "b.txt", "m/deeper/y.json", "m/x.json", "z.json"}, seen)
}

func TestWalk_EmptyDirectory(t *testing.T) {
	root := t.TempDir()
	seen, err := collect(root, New(nil))
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestWalk_RootFileIsVisited(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, "only.json")

	var seen []string
	w := New(func(path string) error {
		seen = append(seen, path)
		return nil
	})
	require.NoError(t, w.Walk(filepath.Join(root, "only.json")))
	assert.Equal(t, []string{filepath.Join(root, "only.json")}, seen)
}

func TestWalk_StopsOnVisitError(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, "a.json", "b.json", "c.json")

	var seen []string
	w := New(func(path string) error {
		seen = append(seen, filepath.Base(path))
		if filepath.Base(path) == "b.json" {
			return fmt.Errorf("boom")
		}
		return nil
	})

	err := w.Walk(root)
	require.EqualError(t, err, "boom")
	assert.Equal(t, []string{"a.json", "b.json"}, seen)
}

func TestWalk_DeepNesting(t *testing.T) {
	root := t.TempDir()
	parts := make([]string, 60)
	for i := range parts {
		parts[i] = "d"
	}
	deep := strings.Join(parts, "/") + "/leaf.json"
	buildTree(t, root, deep)

	seen, err := collect(root, New(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{deep}, seen)
}

func TestWalk_SymlinkCycleTerminates(t *testing.T) {
	root := t.TempDir()
	buildTree(t, root, "dir/a.json")
	if err := os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "dir", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	var notes []string
	w := New(nil)
	w.Debugf = func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}

	seen, err := collect(root, w)
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/a.json"}, seen)

	var skipped bool
	for _, n := range notes {
		if strings.Contains(n, "already visited") {
			skipped = true
		}
	}
	assert.True(t, skipped, "expected a note about the revisited directory, got %v", notes)
}

func TestWalk_NoFollowTreatsSymlinkedDirAsFile(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	buildTree(t, outside, "ext.json")
	buildTree(t, root, "own.json")
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	followed, err := collect(root, New(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"link/ext.json", "own.json"}, followed)

	w := New(nil)
	w.FollowSymlinks = false
	notFollowed, err := collect(root, w)
	require.NoError(t, err)
	assert.Equal(t, []string{"link", "own.json"}, notFollowed)
}
