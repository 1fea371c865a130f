package kerberos

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marmos91/saslgate/internal/logger"
)

// keytabPollInterval is the fallback polling interval for keytab changes.
const keytabPollInterval = 60 * time.Second

// KeytabManager watches a keytab file for changes and triggers hot-reload.
//
// It watches the keytab's parent directory with fsnotify, because key
// management tools (kadmin, k5srvutil) replace keytabs atomically via
// rename and a watch on the file itself would be lost on the first swap.
// A slow modification-time poll backs the watcher up on platforms and
// filesystems where events are unreliable.
//
// Thread Safety: all methods are safe for concurrent use.
type KeytabManager struct {
	path     string
	identity *Identity
	stopCh   chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	lastMod  time.Time
}

// NewKeytabManager creates a new keytab file manager (not yet started).
func NewKeytabManager(path string, identity *Identity) *KeytabManager {
	return &KeytabManager{
		path:     path,
		identity: identity,
		stopCh:   make(chan struct{}),
	}
}

// Start validates the keytab file, records its modification time, and
// starts the watch goroutine.
func (km *KeytabManager) Start() error {
	km.mu.Lock()
	defer km.mu.Unlock()

	info, err := os.Stat(km.path)
	if err != nil {
		return fmt.Errorf("keytab file not accessible: %w", err)
	}
	km.lastMod = info.ModTime()

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err := watcher.Add(filepath.Dir(km.path)); err != nil {
			_ = watcher.Close()
			watcher = nil
		}
	} else {
		watcher = nil
	}

	go km.watchLoop(watcher)

	logger.Info("Keytab hot-reload started",
		"path", km.path,
		"fsnotify", watcher != nil,
		"poll_interval", keytabPollInterval.String(),
	)

	return nil
}

// Stop stops the watch goroutine. Safe to call multiple times or on a
// manager that was never started.
func (km *KeytabManager) Stop() {
	km.stopOnce.Do(func() { close(km.stopCh) })
}

// watchLoop reacts to fsnotify events for the keytab path and polls as a
// fallback. watcher may be nil, in which case only polling runs.
func (km *KeytabManager) watchLoop(watcher *fsnotify.Watcher) {
	ticker := time.NewTicker(keytabPollInterval)
	defer ticker.Stop()

	var events chan fsnotify.Event
	var errs chan error
	if watcher != nil {
		defer func() { _ = watcher.Close() }()
		events = watcher.Events
		errs = watcher.Errors
	}

	for {
		select {
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(km.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				km.checkAndReload()
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("Keytab watcher error", "path", km.path, "error", err)
		case <-ticker.C:
			km.checkAndReload()
		case <-km.stopCh:
			return
		}
	}
}

// checkAndReload reloads the keytab if the file's modification time moved.
func (km *KeytabManager) checkAndReload() {
	km.mu.Lock()
	defer km.mu.Unlock()

	info, err := os.Stat(km.path)
	if err != nil {
		logger.Error("Keytab file stat failed", "path", km.path, "error", err)
		return
	}

	modTime := info.ModTime()
	if modTime.Equal(km.lastMod) {
		return // no change
	}

	if err := km.identity.ReloadKeytab(); err != nil {
		logger.Error("Keytab reload failed", "path", km.path, "error", err)
		return
	}

	km.lastMod = modTime
	logger.Info("Keytab reloaded successfully", "path", km.path)
}
