// ABOUTME: Device mount detection and audio file enumeration
// ABOUTME: Walks the mounted volume collecting audio files with best-effort tag metadata

package device

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// ErrDeviceNotFound means the device mount path does not exist or is not a
// directory. Fatal before the interactive flow begins.
var ErrDeviceNotFound = errors.New("device not mounted")

// File represents an audio file currently on the device. Enumerated fresh
// each run; there is no persisted identity across runs.
type File struct {
	Name   string // Path relative to the mount point, used as the file's identity
	Path   string // Absolute path on the device
	Size   int64  // Size in bytes
	Artist string // From tags, best effort (empty when unreadable)
	Title  string // From tags, best effort (empty when unreadable)
}

// SizeMB returns the file size in megabytes for display
func (f File) SizeMB() float64 {
	return float64(f.Size) / (1024 * 1024)
}

// Locator checks for the device and lists its audio files
type Locator struct {
	mount  string
	exts   map[string]struct{}
	debugf func(string, ...interface{})
}

// NewLocator creates a locator for the given mount path. Extensions are
// matched case-insensitively and given without the leading dot.
func NewLocator(mount string, extensions []string, debugf func(string, ...interface{})) *Locator {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return &Locator{mount: mount, exts: exts, debugf: debugf}
}

// Mount returns the device mount path
func (l *Locator) Mount() string {
	return l.mount
}

// Check verifies the device is mounted
func (l *Locator) Check() error {
	info, err := os.Stat(l.mount)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, l.mount)
	}

	return nil
}

// AudioFiles recursively lists audio files on the device. Hidden entries are
// ignored (the device and macOS both litter dotfiles). Traversal errors on
// sub-entries are logged and skipped, never fatal.
func (l *Locator) AudioFiles() ([]File, error) {
	if err := l.Check(); err != nil {
		return nil, err
	}

	var files []File

	err := filepath.WalkDir(l.mount, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			l.debugf("[device] warning: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") && path != l.mount {
			if d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return nil
		}

		if _, ok := l.exts[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}

		rel, err := filepath.Rel(l.mount, path)
		if err != nil {
			l.debugf("[device] warning: cannot relativize %s: %v", path, err)

			return nil
		}

		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}

		artist, title := readTags(path)

		files = append(files, File{
			Name:   rel,
			Path:   path,
			Size:   size,
			Artist: artist,
			Title:  title,
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list device files: %w", err)
	}

	l.debugf("[device] enumerated %d audio files under %s", len(files), l.mount)

	return files, nil
}

// readTags reads artist and title tags for display purposes. Files without
// readable tags are still listed, just without the detail line.
func readTags(path string) (artist, title string) {
	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer func() { _ = f.Close() }()

	metadata, err := tag.ReadFrom(f)
	if err != nil {
		return "", ""
	}

	return metadata.Artist(), metadata.Title()
}
