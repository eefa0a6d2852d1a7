package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dreschagin/prompt-server/internal/application/dto"
	"github.com/dreschagin/prompt-server/internal/application/port"
	"github.com/dreschagin/prompt-server/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// SelfWriteFilter знает, какие файлы только что записал сам сервер
type SelfWriteFilter interface {
	WrittenRecently(filename string) bool
}

// PromptsWatcher reports edits made to the prompts directory outside the
// API (an editor, git checkout, a sync tool) to the notification hub.
type PromptsWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	notifier port.NotificationService
	ignore   SelfWriteFilter
	logger   *logger.Logger
}

// NewPromptsWatcher starts watching dir. Events for names that ignore reports
// as just written by the API are dropped; ignore may be nil.
func NewPromptsWatcher(dir string, notifier port.NotificationService, ignore SelfWriteFilter, log *logger.Logger) (*PromptsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := w.Add(dir); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			log.Error("Failed to close watcher after add error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &PromptsWatcher{
		dir:      dir,
		watcher:  w,
		notifier: notifier,
		ignore:   ignore,
		logger:   log,
	}, nil
}

// Run forwards events until ctx is cancelled, then closes the watcher.
func (w *PromptsWatcher) Run(ctx context.Context) {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Failed to close prompts watcher", err)
		}
	}()

	w.logger.Info("Prompts watcher started", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Prompts watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			promptEvent := translate(event)
			if promptEvent == nil {
				continue
			}
			if w.ignore != nil && w.ignore.WrittenRecently(promptEvent.Filename) {
				w.logger.Debug("Skipping own write", "file", promptEvent.Filename)
				continue
			}
			w.notifier.BroadcastPromptEvent(promptEvent)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Prompts watcher error", "error", err.Error())
		}
	}
}

// translate maps a raw fsnotify event on a *.json file to a prompt event.
// Temporary files written by the store start with "." and are ignored.
func translate(event fsnotify.Event) *dto.PromptEventDTO {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return dto.NewPromptEventDTO(dto.PromptEventRemoved, name, dto.PromptEventSourceFilesystem)
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return dto.NewPromptEventDTO(dto.PromptEventChanged, name, dto.PromptEventSourceFilesystem)
	default:
		return nil
	}
}
