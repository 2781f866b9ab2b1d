package discovery

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"skylaunch/internal/eventbus"
)

// Watcher requests a rescan when a watched directory changes. Bursts of
// filesystem events (a package install touches many files) collapse into one
// request after the delay has passed without further events.
type Watcher struct {
	bus     eventbus.EventBus
	watcher *fsnotify.Watcher
	delay   time.Duration
	dirs    []string
}

// NewWatcher watches the given directories. Missing directories are skipped.
func NewWatcher(bus eventbus.EventBus, dirs []string, delay time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{bus: bus, watcher: fw, delay: delay}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := fw.Add(dir); err != nil {
			log.Printf("Watcher: cannot watch %s: %v", dir, err)
			continue
		}
		w.dirs = append(w.dirs, dir)
	}
	return w, nil
}

// Dirs returns the directories actually being watched
func (w *Watcher) Dirs() []string {
	return w.dirs
}

// Run forwards changes until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.bus.Publish(eventbus.ScanRequestedEvent{Reason: "filesystem change"})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher: %v", err)
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
