package fsmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treykane/filecols/internal/view"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func names(entries []view.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name()
	}
	return out
}

// sampleDir builds:
//
//	b.txt  .hidden  Apple.go  zeta/  alpha/ (with one file)
func sampleDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "hello")
	writeFile(t, filepath.Join(root, ".hidden"), "x")
	writeFile(t, filepath.Join(root, "Apple.go"), "package main\n")
	writeFile(t, filepath.Join(root, "alpha", "one"), "1")
	if err := os.Mkdir(filepath.Join(root, "zeta"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return root
}

func loadedDir(t *testing.T, root string) *Directory {
	t.Helper()
	l, err := ReadListing(root, SizeOptions{})
	require.NoError(t, err)
	d := NewDirectory(root, nil)
	d.Apply(l)
	return d
}

func TestReadListingSortsDirectoriesFirst(t *testing.T) {
	root := sampleDir(t)
	l, err := ReadListing(root, SizeOptions{})
	require.NoError(t, err)
	require.True(t, l.Accessible)

	var got []string
	for _, e := range l.Entries {
		got = append(got, e.Name())
	}
	assert.Equal(t, []string{"alpha", "zeta", ".hidden", "Apple.go", "b.txt"}, got)
	assert.Equal(t, int64(len("hello")+len("x")+len("package main\n")), l.DiskUsage)
}

func TestReadListingMissingDirectory(t *testing.T) {
	_, err := ReadListing(filepath.Join(t.TempDir(), "gone"), SizeOptions{})
	assert.Error(t, err)
}

func TestReadListingUnreadable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("cannot test permission errors as root")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(dir, 0o000); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	defer os.Chmod(dir, 0o755)

	l, err := ReadListing(dir, SizeOptions{})
	require.NoError(t, err)
	assert.False(t, l.Accessible)
	assert.Empty(t, l.Entries)
}

func TestDirectoryHidesDotfiles(t *testing.T) {
	d := loadedDir(t, sampleDir(t))
	assert.Equal(t, []string{"alpha", "zeta", "Apple.go", "b.txt"}, names(d.Entries()))
	assert.Equal(t, 1, d.HiddenCount())

	d.SetShowHidden(true)
	assert.True(t, d.SortIfOutdated())
	assert.False(t, d.SortIfOutdated())
	assert.Len(t, d.Entries(), 5)
	assert.Equal(t, 0, d.HiddenCount())
}

func TestDirectoryFilterKeepsListingOrder(t *testing.T) {
	d := loadedDir(t, sampleDir(t))
	d.SetFilter("a")
	d.SortIfOutdated()
	assert.Equal(t, []string{"alpha", "zeta", "Apple.go"}, names(d.Entries()))
	assert.Equal(t, "a", d.Filter())
	assert.Equal(t, 2, d.HiddenCount())

	d.SetFilter("")
	d.SortIfOutdated()
	assert.Len(t, d.Entries(), 4)
}

func TestDirectoryMoveClampsAndTracksPath(t *testing.T) {
	root := sampleDir(t)
	d := loadedDir(t, root)

	d.Move(99)
	assert.Equal(t, 3, d.Pointer())
	assert.Equal(t, "b.txt", d.PointedEntry().Name())
	d.Move(-4)
	assert.Equal(t, 0, d.Pointer())

	d.SelectPath(filepath.Join(root, "Apple.go"))
	assert.Equal(t, 2, d.Pointer())

	// Showing hidden files shifts indexes but keeps the selection.
	d.SetShowHidden(true)
	d.SortIfOutdated()
	assert.Equal(t, "Apple.go", d.PointedEntry().Name())
	assert.Equal(t, 3, d.Pointer())
}

func TestDirectorySelectPathBeforeLoad(t *testing.T) {
	root := sampleDir(t)
	d := NewDirectory(root, nil)
	d.SelectPath(filepath.Join(root, "zeta"))
	assert.Nil(t, d.PointedEntry())

	l, err := ReadListing(root, SizeOptions{})
	require.NoError(t, err)
	d.Apply(l)
	assert.Equal(t, "zeta", d.PointedEntry().Name())
}

func TestDirectoryMarksSurviveReload(t *testing.T) {
	root := sampleDir(t)
	d := loadedDir(t, root)
	d.Move(1)
	d.ToggleMark()
	require.Equal(t, []string{"zeta"}, names(d.MarkedItems()))

	writeFile(t, filepath.Join(root, "new.txt"), "n")
	l, err := ReadListing(root, SizeOptions{})
	require.NoError(t, err)
	d.Apply(l)
	assert.Equal(t, []string{"zeta"}, names(d.MarkedItems()))
	assert.Len(t, d.Entries(), 5)

	d.SetAllMarks(false)
	assert.Empty(t, d.MarkedItems())
}

func TestDirectoryRequestsLoadOnce(t *testing.T) {
	root := sampleDir(t)
	var requests []string
	d := NewDirectory(root, func(p string) { requests = append(requests, p) })

	assert.False(t, d.LoadContentIfOutdated())
	assert.False(t, d.LoadContentIfOutdated())
	assert.Equal(t, []string{root}, requests)

	l, err := ReadListing(root, SizeOptions{})
	require.NoError(t, err)
	d.Apply(l)
	d.LoadContentIfOutdated()
	assert.Len(t, requests, 1)

	d.MarkOutdated()
	d.LoadContentIfOutdated()
	assert.Len(t, requests, 2)
}

func TestDirectoryLinemodeReachesEntries(t *testing.T) {
	d := loadedDir(t, sampleDir(t))
	d.SetLinemode("permissions")
	for _, e := range d.Entries() {
		assert.Equal(t, "permissions", e.Linemode(), e.Name())
	}
}

func TestDirectoryEmptyPointer(t *testing.T) {
	d := loadedDir(t, t.TempDir())
	assert.True(t, d.ContentLoaded())
	assert.True(t, d.Accessible())
	assert.Nil(t, d.PointedEntry())
	d.Move(3)
	assert.Equal(t, 0, d.Pointer())
}
