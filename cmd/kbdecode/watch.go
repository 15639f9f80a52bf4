package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 250 * time.Millisecond

// Watcher signals on C when one of the watched files changes. Directories
// are watched instead of the files so that replace-on-save is seen.
type Watcher struct {
	C <-chan struct{}

	w     *fsnotify.Watcher
	files map[string]bool
	log   zerolog.Logger
}

// NewWatcher watches files. Files whose directory does not exist are
// skipped.
func NewWatcher(log zerolog.Logger, files ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	c := make(chan struct{}, 1)
	watcher := &Watcher{
		C:     c,
		w:     w,
		files: make(map[string]bool, len(files)),
		log:   log,
	}

	for _, f := range files {
		f = filepath.Clean(f)
		dir := filepath.Dir(f)
		if err := w.Add(dir); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("not watching")
			continue
		}
		watcher.files[f] = true
	}

	go watcher.loop(c)
	return watcher, nil
}

func (w *Watcher) loop(c chan<- struct{}) {
	var timer *time.Timer
	notify := func() {
		select {
		case c <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			w.log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("change")
			if timer == nil {
				timer = time.AfterFunc(reloadDelay, notify)
			} else {
				timer.Reset(reloadDelay)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) Close() error {
	return w.w.Close()
}
