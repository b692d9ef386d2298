package file

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/askdoc-labs/askdoc-cli/internal/logger"
)

// PromptWatcher invalidates the prompt cache when prompt files change on
// disk, so edits take effect without restarting a long-lived chat session.
type PromptWatcher struct {
	store   *PromptStore
	watcher *fsnotify.Watcher
}

// NewPromptWatcher creates a watcher over the store's prompt directory.
// The directory must exist; call store.Load once beforehand to create it.
func NewPromptWatcher(store *PromptStore) (*PromptWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(store.Dir()); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch prompt directory: %w", err)
	}

	return &PromptWatcher{
		store:   store,
		watcher: watcher,
	}, nil
}

// Start processes filesystem events until the context is cancelled.
// Intended to run in its own goroutine.
func (w *PromptWatcher) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Prompt watcher error: %v", err)
		}
	}
}

// handleEvent reacts to a single filesystem event.
func (w *PromptWatcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".txt") {
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	logger.Debug("Prompt file changed (%s), reloading prompts", event.Name)
	w.store.Reload()
}

// Close stops watching and releases resources.
func (w *PromptWatcher) Close() error {
	return w.watcher.Close()
}
