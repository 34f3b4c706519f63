package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch streams a notification whenever the file holding key changes on
// disk, until ctx is cancelled. It lets a controller pick up writes made by
// another process sharing the same base path (the "another tab" case).
//
// Bursts of filesystem events are coalesced: at most one notification is
// delivered per debounce window. The channel is closed once ctx is done or
// the watcher encounters an unrecoverable error. Callers should drain the
// channel to avoid missing notifications.
func (s *DiskvStore) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(s.basePath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.basePath, err)
	}

	const debounce = 100 * time.Millisecond

	events := make(chan struct{}, 1)

	go func() {
		defer close(events)
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != key {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
					fire = timer.C
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(debounce)
				}

			case <-fire:
				timer = nil
				fire = nil
				select {
				case events <- struct{}{}:
				default:
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Transient watcher errors are not actionable here;
				// the next real event still gets through.
			}
		}
	}()

	return events, nil
}
