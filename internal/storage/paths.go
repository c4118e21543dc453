// Package storage persists a transposition table snapshot to disk using
// BadgerDB, so an engine process can start with a warm cache from an earlier
// run instead of an empty table. The snapshot is read at startup only;
// "ucinewgame" still clears the table.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessplay"

// DefaultTTPath returns the platform-specific default location for the
// on-disk transposition table snapshot. The "-ttstore" flag does not fall
// back to it: an empty "-ttstore" disables persistence.
//   - macOS: ~/Library/Application Support/chessplay/tt/
//   - Linux: ~/.local/share/chessplay/tt/
//   - Windows: %APPDATA%/chessplay/tt/
func DefaultTTPath() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	return filepath.Join(baseDir, appName, "tt"), nil
}
