// ABOUTME: Blocks until the device volume appears using filesystem notifications
// ABOUTME: Watches the volumes directory for the mount point to be created

package device

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// WaitForMount blocks until the mount path exists as a directory, watching
// volumesDir for creation events. Returns immediately when the device is
// already mounted; returns ctx.Err() when the context is cancelled first.
func WaitForMount(ctx context.Context, volumesDir, mount string, debugf func(string, ...interface{})) error {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	if mounted(mount) {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create volume watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(volumesDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", volumesDir, err)
	}

	// Re-check after the watch is in place; the volume may have appeared
	// between the first check and Add
	if mounted(mount) {
		return nil
	}

	debugf("[device] waiting for %s to mount", mount)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("volume watcher closed while waiting for %s", mount)
			}

			if event.Has(fsnotify.Create) && event.Name == mount && mounted(mount) {
				debugf("[device] %s mounted", mount)

				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("volume watcher closed while waiting for %s", mount)
			}

			debugf("[device] warning: volume watcher error: %v", err)
		}
	}
}

// mounted reports whether the mount path exists as a directory
func mounted(mount string) bool {
	info, err := os.Stat(mount)

	return err == nil && info.IsDir()
}
