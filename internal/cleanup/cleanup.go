// Package cleanup tracks transient files and directories created during a
// run and releases them on every exit path. Failures during release are
// logged as warnings and never escalate.
package cleanup

import (
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

// Manager collects temporary resources for release. All methods are safe
// for concurrent use.
type Manager struct {
	mu       sync.Mutex
	files    []string
	dirs     []string
	handlers []func() error
}

// New creates an empty Manager.
func New() *Manager {
	return &Manager{}
}

// AddFile registers a file to be removed on cleanup.
func (m *Manager) AddFile(path string) {
	if path == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = append(m.files, path)
}

// AddDir registers a directory tree to be removed on cleanup.
func (m *Manager) AddDir(path string) {
	if path == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs = append(m.dirs, path)
}

// AddHandler registers a custom release function, run before any file or
// directory removal.
func (m *Manager) AddHandler(fn func() error) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, fn)
}

// Run releases everything registered so far: handlers first, then files,
// then directories. Failures are logged as warnings. A second Run is a
// no-op unless new resources were registered in between.
func (m *Manager) Run() {
	m.mu.Lock()
	handlers := m.handlers
	files := m.files
	dirs := m.dirs
	m.handlers = nil
	m.files = nil
	m.dirs = nil
	m.mu.Unlock()

	if len(handlers)+len(files)+len(dirs) == 0 {
		return
	}

	for _, fn := range handlers {
		if err := fn(); err != nil {
			log.Warn().Err(err).Msg("Cleanup handler failed")
		}
	}

	for _, path := range files {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove temporary file")
		}
	}

	for _, path := range dirs {
		if err := os.RemoveAll(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove temporary directory")
		}
	}

	log.Debug().
		Int("files", len(files)).
		Int("dirs", len(dirs)).
		Msg("Cleanup complete")
}
