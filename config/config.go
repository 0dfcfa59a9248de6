// ABOUTME: Configuration management for library, device and sync settings
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all paths and limits for a sync run.
// LibraryPaths entries may contain glob patterns (the Apple Podcasts group
// container directory has an opaque team-id prefix).
type Config struct {
	LibraryPaths    []string `toml:"library_paths"`
	DeviceMount     string   `toml:"device_mount"`
	AudioFolder     string   `toml:"audio_folder"`
	VolumesDir      string   `toml:"volumes_dir"`
	EpisodeLimit    int      `toml:"episode_limit"`
	AudioExtensions []string `toml:"audio_extensions"`
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/podsync/config.toml
func GetConfigPath() string {
	// First try current directory
	if _, err := os.Stat("./podsync.toml"); err == nil {
		return "./podsync.toml"
	}

	// Then try ~/.config/podsync/config.toml
	home, err := os.UserHomeDir()
	if err != nil {
		return "./podsync.toml"
	}

	return filepath.Join(home, ".config", "podsync", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist or fails to load, returns default config
func LoadConfig(path string) (Config, error) {
	// Try to read the file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse TOML
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fields absent from the file keep their defaults
	return mergeDefaults(config), nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	// Encode config as TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration matching the Apple Podcasts
// library layout and the XTRAINERZ mount point
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return Config{
		LibraryPaths: []string{
			filepath.Join(home, "Library", "Group Containers", "*podcasts*", "Documents", "MTLibrary.sqlite"),
			filepath.Join(home, "Library", "Containers", "com.apple.podcasts", "Data", "Documents", "MTLibrary.sqlite"),
		},
		DeviceMount:     "/Volumes/XTRAINERZ",
		AudioFolder:     "Podcasts",
		VolumesDir:      "/Volumes",
		EpisodeLimit:    10,
		AudioExtensions: []string{"mp3", "m4a", "aac", "wav"},
	}
}

// mergeDefaults fills zero-valued fields with their defaults so a partial
// config file stays usable
func mergeDefaults(config Config) Config {
	defaults := DefaultConfig()

	if len(config.LibraryPaths) == 0 {
		config.LibraryPaths = defaults.LibraryPaths
	}

	if config.DeviceMount == "" {
		config.DeviceMount = defaults.DeviceMount
	}

	if config.AudioFolder == "" {
		config.AudioFolder = defaults.AudioFolder
	}

	if config.VolumesDir == "" {
		config.VolumesDir = defaults.VolumesDir
	}

	if config.EpisodeLimit <= 0 {
		config.EpisodeLimit = defaults.EpisodeLimit
	}

	if len(config.AudioExtensions) == 0 {
		config.AudioExtensions = defaults.AudioExtensions
	}

	return config
}
