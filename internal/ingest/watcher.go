// Package ingest discovers OCR text dumps dropped into watched
// directories and feeds their paths to the pipeline queue.
package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Allowed extensions for discovery (lowercase, without '.').
var defaultExts = map[string]struct{}{
	"txt": {},
}

type WatchConfig struct {
	Roots       []string // directories to watch (recursive)
	AllowedExts map[string]struct{}
	InitialScan bool          // if true, walk roots and emit existing files
	Debounce    time.Duration // coalesce rapid write bursts per file
}

// StartWatcher watches the configured roots and emits paths of text
// dumps as they appear or change. Both channels close when ctx ends.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no roots provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = defaultExts
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}

	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}

	addRoot := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && allowed(path, cfg.AllowedExts) {
				select {
				case evCh <- path:
				default:
				}
			}
			return nil
		})
	}
	for _, root := range cfg.Roots {
		if err := addRoot(root); err != nil {
			logger.Error("failed to add watch root", "root", root, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("watcher close failed", "error", err)
			}
		}()

		pending := map[string]struct{}{}
		var timer *time.Timer
		var fire <-chan time.Time

		flush := func() {
			for p := range pending {
				select {
				case evCh <- p:
				default:
				}
				delete(pending, p)
			}
			fire = nil
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				// A new directory needs its own watch.
				if ev.Op&fsnotify.Create != 0 {
					if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
						if err := w.Add(ev.Name); err != nil {
							logger.Warn("failed to watch new directory", "dir", ev.Name, "error", err)
						}
						continue
					}
				}
				if !allowed(ev.Name, cfg.AllowedExts) {
					continue
				}
				pending[ev.Name] = struct{}{}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(cfg.Debounce)
				}
				fire = timer.C
			case <-fire:
				flush()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

func allowed(path string, exts map[string]struct{}) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	_, ok := exts[ext]
	return ok
}
