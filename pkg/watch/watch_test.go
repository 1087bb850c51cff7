package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astviewer/pkg/watch"
)

const eventTimeout = 5 * time.Second

func startWatcher(t *testing.T, files ...string) <-chan string {
	t.Helper()

	w, err := watch.New(files)
	require.NoError(t, err)

	w.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string, 16)
	done := make(chan error, 1)

	go func() {
		done <- w.Run(ctx, func(_ context.Context, path string) { changes <- path })
	}()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
		require.NoError(t, w.Close())
	})

	return changes
}

func TestWatchCoalescesWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "A.java")
	require.NoError(t, os.WriteFile(path, []byte("class A {}"), 0o600))

	changes := startWatcher(t, path)

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte("class A { int x"+string(rune('0'+i))+"; }"), 0o600))
	}

	select {
	case got := <-changes:
		assert.Equal(t, path, got)
	case <-time.After(eventTimeout):
		t.Fatal("no change reported")
	}

	select {
	case extra := <-changes:
		t.Fatalf("burst reported twice: %s", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "A.java")
	require.NoError(t, os.WriteFile(path, []byte("class A {}"), 0o600))

	changes := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "B.java"), []byte("class B {}"), 0o600))

	select {
	case got := <-changes:
		t.Fatalf("unexpected change: %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchSeesReplacedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "A.java")
	require.NoError(t, os.WriteFile(path, []byte("class A {}"), 0o600))

	changes := startWatcher(t, path)

	tmp := filepath.Join(dir, ".A.java.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("class A { }"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case got := <-changes:
		assert.Equal(t, path, got)
	case <-time.After(eventTimeout):
		t.Fatal("replacement not reported")
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := watch.New(nil)
	require.ErrorIs(t, err, watch.ErrNoFiles)
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := watch.New([]string{filepath.Join(t.TempDir(), "missing", "A.java")})
	require.Error(t, err)
}
