package util

import (
	"os"
	"path/filepath"
)

// GetConfigDir returns the miniverse config directory, creating it if needed.
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, Name)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDataDir returns the miniverse data directory (drafts, cache), creating it if needed.
func GetDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, Name, "data")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// ResolveFilePath resolves a file name to a path: the working directory wins
// if the file exists there, otherwise the user config directory is used.
func ResolveFilePath(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(configDir, name)
}
