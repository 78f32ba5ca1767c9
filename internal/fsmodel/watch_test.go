package fsmodel

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsChangedDirectory(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	w, err := NewWatcher(context.Background(), 20)
	require.NoError(t, err)
	defer w.Close()

	w.Sync([]string{root})
	assert.Equal(t, []string{root}, w.Watched())

	writeFile(t, filepath.Join(root, "new.txt"), "x")

	select {
	case paths := <-w.Changes():
		assert.Contains(t, paths, root)
		assert.Contains(t, paths, filepath.Join(root, "new.txt"))
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherSyncRemoves(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	w, err := NewWatcher(context.Background(), 0)
	require.NoError(t, err)
	defer w.Close()

	w.Sync([]string{a, b, filepath.Join(a, "missing")})
	assert.Len(t, w.Watched(), 2)
	w.Sync([]string{b})
	assert.Equal(t, []string{b}, w.Watched())
}

func TestWatcherWaitEndsOnClose(t *testing.T) {
	w, err := NewWatcher(context.Background(), 4)
	require.NoError(t, err)
	cmd := w.Wait()
	require.NoError(t, w.Close())
	assert.Nil(t, cmd())
}
