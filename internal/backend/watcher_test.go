package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsNewApp(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher([]string{dir, filepath.Join(dir, "missing")}, 10*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()
	assert.Equal(t, []string{dir}, w.Dirs())

	path := filepath.Join(dir, "10-new.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))

	select {
	case evt, ok := <-w.Events():
		require.True(t, ok)
		require.NoError(t, evt.Err)
		assert.Contains(t, evt.Paths, path)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for watcher event")
	}
}

func TestWatcherStopClosesEvents(t *testing.T) {
	w, err := NewWatcher([]string{t.TempDir()}, time.Second)
	require.NoError(t, err)
	w.Stop()
	w.Wait()

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestThrottleSpacesCalls(t *testing.T) {
	th := newThrottle(30 * time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	require.True(t, th.wait(ctx))
	require.True(t, th.wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestThrottleHonoursCancel(t *testing.T) {
	th := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, th.wait(ctx))
	cancel()
	assert.False(t, th.wait(ctx))
}
