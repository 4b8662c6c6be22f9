package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce coalesces the burst of events editors produce on save.
var reloadDebounce = 100 * time.Millisecond

// Watch emits the reloaded config each time the file at path changes. Configs
// that fail to load or validate are logged and skipped. Only the latest config
// is buffered; the channel is closed when ctx is done.
func Watch(ctx context.Context, path string, log *zap.Logger) (<-chan Config, error) {
	if log == nil {
		log = zap.NewNop()
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("config: watch %s: %w", filepath.Dir(target), err)
	}

	out := make(chan Config, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		var (
			timer *time.Timer
			fire  <-chan time.Time
		)
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", zap.Error(err))
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(reloadDebounce)
				} else {
					timer.Reset(reloadDebounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				cfg, err := Load(target)
				if err != nil {
					log.Warn("config reload failed", zap.String("path", target), zap.Error(err))
					continue
				}
				log.Info("config reloaded", zap.String("path", target))
				select {
				case out <- cfg:
				default:
					select {
					case <-out:
					default:
					}
					out <- cfg
				}
			}
		}
	}()
	return out, nil
}
