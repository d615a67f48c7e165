// Package watch monitors a drop folder for new meeting recordings and hands
// each one to a handler, with a cap on concurrent processing.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler processes one dropped recording.
type Handler func(ctx context.Context, path string) error

// settleDelay gives the writer time to finish before the file is read.
const settleDelay = 500 * time.Millisecond

// Watcher monitors one directory for new MP3 files.
type Watcher struct {
	dir     string
	handler Handler
	fsw     *fsnotify.Watcher
	sem     chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher on dir. maxConcurrent caps how many recordings are
// processed at once; values below one mean a single worker.
func New(dir string, handler Handler, maxConcurrent int) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Watcher{
		dir:     dir,
		handler: handler,
		fsw:     fsw,
		sem:     make(chan struct{}, maxConcurrent),
	}, nil
}

// Run blocks, dispatching new recordings until ctx is cancelled. In-flight
// handlers are waited for before returning.
func (w *Watcher) Run(ctx context.Context) error {
	log.Printf("watching %s for new recordings", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) || !isRecording(event.Name) {
				continue
			}
			log.Printf("new recording: %s", event.Name)
			time.Sleep(settleDelay)

			select {
			case w.sem <- struct{}{}:
				w.wg.Add(1)
				go func(path string) {
					defer w.wg.Done()
					defer func() { <-w.sem }()
					if err := w.handler(ctx, path); err != nil {
						log.Printf("processing %s failed: %v", path, err)
					}
				}(event.Name)
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func isRecording(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".mp3"
}
