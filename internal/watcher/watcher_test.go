package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/presetgen/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatch(t *testing.T, root string) *atomic.Int32 {
	t.Helper()
	logger, _ := testutil.Logger(t)
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := Watch(ctx, root, 50*time.Millisecond, logger, func() { calls.Add(1) }); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
	return &calls
}

func TestWatch_PresetFileChange(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"a/x.txt": testutil.ValidPreset})
	calls := startWatch(t, root)

	_ = os.WriteFile(filepath.Join(root, "a", "y.txt"), []byte(testutil.ValidPreset), 0o644)

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "change to preset file did not trigger regeneration")
}

func TestWatch_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"a/x.txt": testutil.ValidPreset})
	calls := startWatch(t, root)

	for i := 0; i < 5; i++ {
		_ = os.WriteFile(filepath.Join(root, "a", "x.txt"), []byte(testutil.ValidPreset), 0o644)
	}

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "burst did not trigger regeneration")
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1 for a single burst", n)
	}
}

func TestWatch_NewDirectoryIsWatched(t *testing.T) {
	root := t.TempDir()
	calls := startWatch(t, root)

	if err := os.Mkdir(filepath.Join(root, "fresh"), 0o755); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() >= 1
	}, "new directory did not trigger regeneration")

	before := calls.Load()
	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(root, "fresh", "x.txt"), []byte(testutil.ValidPreset), 0o644)
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return calls.Load() > before
	}, "file in new directory did not trigger regeneration")
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"a/x.txt": testutil.ValidPreset})
	calls := startWatch(t, root)

	_ = os.WriteFile(filepath.Join(root, "a", "notes.md"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(root, "loose.txt"), []byte("x"), 0o644)

	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("calls = %d, want 0", n)
	}
}

func TestWatch_MissingRoot(t *testing.T) {
	logger, _ := testutil.Logger(t)
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), time.Millisecond, logger, func() {})
	if err == nil {
		t.Error("expected error for missing root")
	}
}
