package terminal

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatch_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.class.jet")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	changes, stop, err := Watch(path, 50*time.Millisecond)
	require.NoError(t, err, "failed to start watcher")
	defer func() { _ = stop() }()

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("{%d}", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-changes:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.class.jet")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("initial"), 0o644))

	changes, stop, err := Watch(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = stop() }()

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0o644))

	select {
	case <-changes:
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	_, _, err := Watch(filepath.Join(t.TempDir(), "absent", "x.class.jet"), time.Millisecond)
	require.Error(t, err)
}
