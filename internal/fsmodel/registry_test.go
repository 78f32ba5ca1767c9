package fsmodel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treykane/filecols/internal/view"
)

var (
	_ view.Directory = (*Directory)(nil)
	_ view.File      = (*File)(nil)
	_ view.Tab       = (*Tab)(nil)
)

// drain runs cmd and every command it batches, feeding results to reg.
func drain(t *testing.T, reg *Registry, cmd tea.Cmd) int {
	t.Helper()
	if cmd == nil {
		return 0
	}
	applied := 0
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			applied += drain(t, reg, c)
		}
	default:
		if reg.Apply(msg) {
			applied++
		}
	}
	return applied
}

func TestLoaderFlushEmpty(t *testing.T) {
	l := NewLoader(nil)
	assert.Nil(t, l.Flush())
	assert.Equal(t, 0, l.Pending())
}

func TestLoaderDeduplicatesQueue(t *testing.T) {
	root := sampleDir(t)
	l := NewLoader(nil)
	l.RequestDir(root)
	l.RequestDir(root)
	l.RequestPreview(filepath.Join(root, "b.txt"), 10)
	assert.Equal(t, 3, l.Pending())

	reg := NewRegistry(l)
	reg.Dir(root)
	reg.File(filepath.Join(root, "b.txt"))
	assert.Equal(t, 2, drain(t, reg, l.Flush()))
	assert.Equal(t, 0, l.Pending())
	assert.True(t, reg.Dir(root).ContentLoaded())
}

func TestLoaderLoadDirMissing(t *testing.T) {
	l := NewLoader(nil)
	msg := l.LoadDir(filepath.Join(t.TempDir(), "gone"))
	assert.Error(t, msg.Err)
	assert.Nil(t, msg.Listing)
}

func TestRegistrySharesObjects(t *testing.T) {
	reg := NewRegistry(NewLoader(nil))
	root := t.TempDir()
	assert.Same(t, reg.Dir(root), reg.Dir(root+"/"))
	assert.Same(t, reg.File(filepath.Join(root, "f")), reg.File(filepath.Join(root, ".", "f")))
	assert.Nil(t, reg.TargetFor(nil))
}

func TestRegistryApplyFailure(t *testing.T) {
	reg := NewRegistry(NewLoader(nil))
	d := reg.Dir("/somewhere")
	assert.True(t, reg.Apply(DirLoadedMsg{Path: "/somewhere", Err: errors.New("boom")}))
	assert.True(t, d.ContentLoaded())
	assert.False(t, d.Accessible())
	assert.False(t, reg.Apply("unrelated"))
}

func TestRegistryDrawCycleLoadsDirectory(t *testing.T) {
	root := sampleDir(t)
	l := NewLoader(nil)
	reg := NewRegistry(l)
	d := reg.Dir(root)

	d.LoadContentIfOutdated()
	require.Equal(t, 1, l.Pending())
	drain(t, reg, l.Flush())
	assert.Len(t, d.Entries(), 4)
	assert.Equal(t, []string{filepath.Clean(root)}, reg.LoadedDirs())

	writeFile(t, filepath.Join(root, "c.txt"), "c")
	reg.Invalidate(root)
	d.LoadContentIfOutdated()
	drain(t, reg, l.Flush())
	assert.Len(t, d.Entries(), 5)
}

func TestRegistryShowHiddenAndLinemode(t *testing.T) {
	root := sampleDir(t)
	l := NewLoader(nil)
	reg := NewRegistry(l)
	reg.SetShowHidden(true)
	reg.SetLinemode("mtime")

	d := reg.Dir(root)
	d.LoadContentIfOutdated()
	drain(t, reg, l.Flush())
	assert.Len(t, d.Entries(), 5)
	assert.Equal(t, "mtime", d.Entries()[0].Linemode())

	reg.SetShowHidden(false)
	d.SortIfOutdated()
	assert.Len(t, d.Entries(), 4)
}

func TestFilePreviewCycle(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	writeFile(t, path, "one\ntwo\n")
	l := NewLoader(nil)
	reg := NewRegistry(l)
	f := reg.File(path)

	require.True(t, f.Regular())
	require.True(t, f.HasPreview())
	_, ok := f.Preview(20, 5)
	assert.False(t, ok)
	_, _ = f.Preview(20, 5)
	assert.Equal(t, 1, l.Pending())

	drain(t, reg, l.Flush())
	p, ok := f.Preview(20, 5)
	require.True(t, ok)
	assert.Equal(t, []string{"one", "two"}, stripAll(p.Lines))
	assert.False(t, f.LastLoad().IsZero())

	// Plain text does not depend on the width.
	_, ok = f.Preview(50, 5)
	assert.True(t, ok)
	assert.Equal(t, 0, l.Pending())
}

func TestFileBinaryHasNoPreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	writeFile(t, path, "\x00\x00")
	l := NewLoader(nil)
	reg := NewRegistry(l)
	f := reg.File(path)
	f.Preview(10, 10)
	drain(t, reg, l.Flush())
	assert.False(t, f.HasPreview())

	reg.Invalidate(path)
	assert.True(t, f.HasPreview())
}

func TestFileSpecialAndMissing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing"), nil)
	assert.False(t, f.Regular())
	assert.False(t, f.Accessible())
	assert.False(t, f.HasPreview())

	dir := NewFile(os.TempDir(), nil)
	assert.False(t, dir.Regular())
}

func TestFileReloadKeepsOldPreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "old\n")
	l := NewLoader(nil)
	reg := NewRegistry(l)
	f := reg.File(path)

	// Nothing was drawn yet, so there is no width to reload at.
	reg.Invalidate(path)
	f.LoadIfOutdated()
	assert.Equal(t, 0, l.Pending())

	f.Preview(30, 5)
	drain(t, reg, l.Flush())

	writeFile(t, path, "new\n")
	reg.Invalidate(path)
	f.LoadIfOutdated()
	require.Equal(t, 1, l.Pending())
	p, ok := f.Preview(30, 5)
	require.True(t, ok)
	assert.Equal(t, []string{"old"}, stripAll(p.Lines))

	drain(t, reg, l.Flush())
	p, _ = f.Preview(30, 5)
	assert.Equal(t, []string{"new"}, stripAll(p.Lines))
}
