// ABOUTME: Defines the Episode model sourced from the podcast library database
// ABOUTME: Provides device-safe file name derivation from episode titles

package library

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// maxFileNameRunes caps derived names; some device filesystems choke on long paths
const maxFileNameRunes = 200

// Episode represents a downloaded podcast episode recorded in the library
// database. Immutable within a run; the source library is never written.
type Episode struct {
	Title        string    // Episode title from the library
	Podcast      string    // Show title from the library
	Path         string    // Absolute path of the downloaded audio file
	DownloadedAt time.Time // When the episode finished downloading
}

// Compile regex once at package initialization
var invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// FileName returns the device file name for the episode: the sanitized title
// plus the original file extension, defaulting to .mp3 when the source has none
func (e Episode) FileName() string {
	ext := filepath.Ext(e.Path)
	if ext == "" {
		ext = ".mp3"
	}

	return sanitizeFileName(e.Title) + ext
}

// String returns a formatted string representation of the episode
func (e Episode) String() string {
	return fmt.Sprintf("%s: %s", e.Podcast, e.Title)
}

// sanitizeFileName converts a title into a safe file name: spaces become
// underscores, characters invalid on FAT-style filesystems are dropped,
// surrounding whitespace and dots are trimmed, and length is capped
func sanitizeFileName(title string) string {
	name := strings.ReplaceAll(title, " ", "_")
	name = invalidFileChars.ReplaceAllString(name, "")
	name = strings.Trim(name, " .")

	runes := []rune(name)
	if len(runes) > maxFileNameRunes {
		name = string(runes[:maxFileNameRunes])
	}

	return name
}
