package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the global configuration directory, honoring
// SHELLGATE_CONFIG_DIR and XDG_CONFIG_HOME.
func ConfigDir() string {
	if dir := os.Getenv("SHELLGATE_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "shellgate")
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "shellgate")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "shellgate")
}

// GlobalConfigPath returns the preferred global config file path.
func GlobalConfigPath() string {
	return filepath.Join(ConfigDir(), "shellgate.json")
}

// ProjectConfigPath returns the project-level config file path.
func ProjectConfigPath(directory string) string {
	return filepath.Join(directory, ".shellgate", "shellgate.json")
}
