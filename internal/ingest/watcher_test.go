package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForPath(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed before %q arrived", want)
			}
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestWatcherEmitsNewDump(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{
		Roots:    []string{root},
		Debounce: 50 * time.Millisecond,
	}, quietLogger())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	path := filepath.Join(root, "notice.txt")
	if err := os.WriteFile(path, []byte("遠足のお知らせ"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitForPath(t, evCh, path)
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{
		Roots:    []string{root},
		Debounce: 50 * time.Millisecond,
	}, quietLogger())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "photo.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	wanted := filepath.Join(root, "notice.txt")
	if err := os.WriteFile(wanted, []byte("x"), 0o644); err != nil {
		t.Fatalf("write txt: %v", err)
	}

	// Only the txt file comes through.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-evCh:
			if filepath.Ext(got) == ".png" {
				t.Fatalf("png emitted: %q", got)
			}
			if got == wanted {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for the txt dump")
		}
	}
}

func TestWatcherInitialScan(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "existing.txt")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	evCh, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    50 * time.Millisecond,
	}, quietLogger())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}
	waitForPath(t, evCh, existing)
}

func TestWatcherWatchesNewSubdirectories(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{
		Roots:    []string{root},
		Debounce: 50 * time.Millisecond,
	}, quietLogger())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}

	sub := filepath.Join(root, "april")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Give the watcher a beat to pick up the new directory.
	time.Sleep(200 * time.Millisecond)

	path := filepath.Join(sub, "notice.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitForPath(t, evCh, path)
}

func TestWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, quietLogger())
	if err == nil {
		t.Fatal("StartWatcher without roots succeeded")
	}
}

func TestWatcherClosesOnCancel(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	evCh, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}}, quietLogger())
	if err != nil {
		t.Fatalf("StartWatcher: %v", err)
	}
	cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-evCh:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel did not close after cancel")
		}
	}
}
