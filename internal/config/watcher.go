package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events editors emit on save.
const reloadDebounce = 250 * time.Millisecond

// Watch reloads the configuration whenever the loaded config file changes.
// The parent directory is watched so atomic rename-on-save is picked up.
// It blocks until ctx is cancelled.
func (cm *ConfigManager) Watch(ctx context.Context) error {
	cm.mu.RLock()
	path := cm.configPath
	cm.mu.RUnlock()

	if path == "" {
		return fmt.Errorf("no config path set")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(reloadDebounce)
		case <-pending:
			pending = nil
			if err := cm.Reload(); err != nil {
				log.Printf("⚠️ Config reload failed, keeping previous configuration: %v", err)
				continue
			}
			log.Printf("🔄 Configuration reloaded from %s", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("⚠️ Config watcher error: %v", err)
		}
	}
}

// Watch watches the global configuration file
func Watch(ctx context.Context) error {
	return GetConfigManager().Watch(ctx)
}
