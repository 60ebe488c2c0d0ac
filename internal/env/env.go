// Package env locates the directories hgpkg keeps its state in.
package env

import (
	"os"
	"path/filepath"
)

// WorkDir returns <UserCacheDir>/.hgpkg, the default root of build
// workspaces.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".hgpkg"), nil
}

// BuildDir returns the directory holding build workspaces under root,
// creating it with 0700 permissions if needed.
func BuildDir(root string) (string, error) {
	dir := filepath.Join(root, "builds")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// ConfigDir returns <UserConfigDir>/hgpkg, searched for hgpkg.toml.
func ConfigDir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "hgpkg"), nil
}
