package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string, excludes []string) (<-chan []string, context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := New(root, excludes)
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)
	t.Cleanup(func() { w.Close() })

	changes := make(chan []string, 10)
	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		done <- w.Run(ctx, func(files []string) { changes <- files })
	}()
	t.Cleanup(cancel)
	return changes, cancel, done
}

func waitChange(t *testing.T, changes <-chan []string) []string {
	t.Helper()
	select {
	case files := <-changes:
		return files
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
		return nil
	}
}

func TestWatcherReportsJavaChanges(t *testing.T) {
	root := t.TempDir()
	changes, _, _ := startWatcher(t, root, nil)

	path := filepath.Join(root, "LoginTest.java")
	require.NoError(t, os.WriteFile(path, []byte("class LoginTest {}"), 0644))

	files := waitChange(t, changes)
	assert.Equal(t, []string{path}, files)
	t.Logf("✅ change reported: %v", files)
}

func TestWatcherBatchesAndFilters(t *testing.T) {
	root := t.TempDir()
	changes, _, _ := startWatcher(t, root, nil)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0644))
	a := filepath.Join(root, "A.java")
	b := filepath.Join(root, "B.java")
	require.NoError(t, os.WriteFile(b, []byte("class B {}"), 0644))
	require.NoError(t, os.WriteFile(a, []byte("class A {}"), 0644))
	require.NoError(t, os.WriteFile(a, []byte("class A { void m() {} }"), 0644))

	files := waitChange(t, changes)
	assert.Equal(t, []string{a, b}, files, "sorted, deduplicated, .txt dropped")
}

func TestWatcherNewAndExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "target"), 0755))
	changes, _, _ := startWatcher(t, root, []string{"**/target/**"})

	// Excluded directory is not watched
	require.NoError(t, os.WriteFile(filepath.Join(root, "target", "Gen.java"), []byte("class Gen {}"), 0644))

	// A directory created after start is picked up
	pkg := filepath.Join(root, "pkg")
	require.NoError(t, os.Mkdir(pkg, 0755))
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(pkg, "C.java")
	require.NoError(t, os.WriteFile(path, []byte("class C {}"), 0644))

	files := waitChange(t, changes)
	assert.Equal(t, []string{path}, files)
}

func TestWatcherStopsOnCancel(t *testing.T) {
	_, cancel, done := startWatcher(t, t.TempDir(), nil)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewWatcherErrors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)

	_, err = New(t.TempDir(), []string{"[unterminated"})
	assert.Error(t, err)
}
