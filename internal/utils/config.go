package utils

import (
	"os"
	"path/filepath"
)

const appDirName = ".gatecheck"

// GetDataDir returns ~/.gatecheck, falling back to the temp dir when no home
// directory is available (CI containers, some Android shells).
func GetDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), appDirName)
	}
	return filepath.Join(home, appDirName)
}

// DefaultStorePath returns the credential store location for a backend.
func DefaultStorePath(backend string) string {
	switch backend {
	case "sqlite":
		return filepath.Join(GetDataDir(), "credentials.db")
	default:
		return filepath.Join(GetDataDir(), "credentials.json")
	}
}
