package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnceForBurst(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Bar.pm")
	require.NoError(t, os.WriteFile(file, []byte("v0"), 0o600))

	var fired atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New([]string{file}, 50*time.Millisecond, func(context.Context) {
		fired.Add(1)
	})

	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	// Let the watcher install before writing.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(file, []byte("burst"), 0o600))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return fired.Load() >= 1 },
		2*time.Second, 20*time.Millisecond)
	// Debounce collapses the burst; allow at most a couple of fires.
	require.LessOrEqual(t, fired.Load(), int32(2))

	cancel()
	<-done
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := New([]string{t.TempDir()}, 0, func(context.Context) {})

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_SkipsMissingPaths(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w := New([]string{filepath.Join(t.TempDir(), "missing"), ""}, 0, func(context.Context) {})
	err := w.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
