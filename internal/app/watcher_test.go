package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corey/kwtrie/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Watch(t *testing.T) {
	a, _ := newTestApp(t, config.Default())
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("he"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, []string{input}, func(path string) { changed <- path })
	}()

	// Give watcher time to start
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(input, []byte("she"), 0644))

	select {
	case path := <-changed:
		assert.Equal(t, input, path)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestApp_WatchMissingPath(t *testing.T) {
	a, _ := newTestApp(t, config.Default())
	err := a.Watch(context.Background(), []string{filepath.Join(t.TempDir(), "absent")}, func(string) {})
	assert.Error(t, err)
}
