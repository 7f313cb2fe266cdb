// Package workerscript holds the edge worker deployed into customer
// accounts, plus the names the orchestrator and the worker agree on.
package workerscript

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Names shared between the orchestrator and the worker script.
const (
	// KVBindingName is the variable the key-value store is bound to.
	KVBindingName = "CONTENT"

	// Worker secret names.
	SecretName      = "AGENTVIEW_SECRET"
	SiteIDName      = "AGENTVIEW_SITE_ID"
	CallbackURLName = "AGENTVIEW_CALLBACK_URL"

	// MarkerHeader is set on every response the worker serves.
	MarkerHeader = "X-AgentView-Worker"

	// SiteHeader carries the site identifier on visit callbacks.
	SiteHeader = "X-AgentView-Site"
)

//go:embed worker.js
var embeddedScript []byte

// Source serves the current worker script bytes. The embedded script is
// the default; an on-disk override can be hot-reloaded so script fixes
// roll out without a service rebuild.
type Source struct {
	script  atomic.Pointer[[]byte]
	path    string
	watcher *fsnotify.Watcher
}

// NewSource creates a script source. An empty path means embedded only.
func NewSource(path string) (*Source, error) {
	s := &Source{path: path}
	s.script.Store(&embeddedScript)

	if path == "" {
		return s, nil
	}

	if err := s.loadFile(); err != nil {
		return nil, err
	}

	return s, nil
}

// Script returns the current worker script bytes.
func (s *Source) Script() []byte {
	return *s.script.Load()
}

// Watch hot-reloads the override file on change until stop is closed.
func (s *Source) Watch(stop <-chan struct{}) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create script watcher: %w", err)
	}
	s.watcher = watcher

	// Watch the directory: editors and config mounts replace the file
	// rather than writing in place.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch script directory: %w", err)
	}

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				slog.Error("failed to close script watcher", "error", err)
			}
		}()
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.loadFile(); err != nil {
					slog.Error("Failed to reload worker script", "path", s.path, "error", err)
					continue
				}
				slog.Info("Worker script reloaded", "path", s.path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("Script watcher error", "error", err)
			}
		}
	}()

	slog.Info("Worker script override active", "path", s.path)
	return nil
}

func (s *Source) loadFile() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read worker script %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("worker script %s is empty", s.path)
	}
	s.script.Store(&data)
	return nil
}
