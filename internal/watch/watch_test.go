package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, zerolog.Nop(), []string{dir}, 100*time.Millisecond, func(context.Context) error {
			runs.Add(1)
			return nil
		}, WithFilter(func(name string) bool {
			return strings.HasSuffix(name, ".tmpl")
		}))
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(dir, "jvm.json.tmpl")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)

	if got := runs.Load(); got != 1 {
		t.Fatalf("expected a single debounced run, got %d", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch did not stop after cancel")
	}
}

func TestWatchValidatesArguments(t *testing.T) {
	noop := func(context.Context) error { return nil }
	if err := Watch(context.Background(), zerolog.Nop(), nil, 0, noop); err == nil {
		t.Fatalf("expected error without paths")
	}
	if err := Watch(context.Background(), zerolog.Nop(), []string{t.TempDir()}, 0, nil); err == nil {
		t.Fatalf("expected error without callback")
	}
	if err := Watch(context.Background(), zerolog.Nop(), []string{filepath.Join(t.TempDir(), "missing")}, 0, noop); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
