// Package config loads the layered shellgate configuration: global file,
// project file, environment overrides.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/shellgate/shellgate/internal/policy"
)

// Config is the on-disk configuration.
type Config struct {
	// Policy is the global allow/block policy.
	Policy policy.Policy `json:"policy"`
	// ReadOnlyRoots extends the built-in read-only command table.
	ReadOnlyRoots []string `json:"readOnlyRoots,omitempty"`
	// LogLevel overrides the default info level.
	LogLevel string `json:"logLevel,omitempty"`
	// TimeoutMS bounds command execution; 0 means the built-in default.
	TimeoutMS int `json:"timeoutMs,omitempty"`
}

// Load reads configuration in priority order: global config dir, project
// directory, SHELLGATE_CONFIG file override, SHELLGATE_POLICY inline
// JSON. Later sources win for scalars; pattern lists accumulate. Missing
// files are not errors.
func Load(directory string) (*Config, error) {
	cfg := &Config{}

	loaded := make(map[string]bool)
	loadOnce := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil || loaded[abs] {
			return
		}
		if loadFile(path, cfg) == nil {
			loaded[abs] = true
		}
	}

	global := ConfigDir()
	loadOnce(filepath.Join(global, "shellgate.json"))
	loadOnce(filepath.Join(global, "shellgate.jsonc"))

	if directory != "" {
		loadOnce(filepath.Join(directory, "shellgate.json"))
		loadOnce(filepath.Join(directory, "shellgate.jsonc"))
		loadOnce(filepath.Join(directory, ".shellgate", "shellgate.json"))
		loadOnce(filepath.Join(directory, ".shellgate", "shellgate.jsonc"))
	}

	if path := os.Getenv("SHELLGATE_CONFIG"); path != "" {
		loadOnce(path)
	}

	if inline := os.Getenv("SHELLGATE_POLICY"); inline != "" {
		var pol policy.Policy
		if err := json.Unmarshal([]byte(inline), &pol); err == nil {
			cfg.Policy.Blocked = append(cfg.Policy.Blocked, pol.Blocked...)
			cfg.Policy.Allowed = append(cfg.Policy.Allowed, pol.Allowed...)
		}
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return err
	}
	merge(cfg, &file)
	return nil
}

func merge(target, source *Config) {
	target.Policy.Blocked = append(target.Policy.Blocked, source.Policy.Blocked...)
	target.Policy.Allowed = append(target.Policy.Allowed, source.Policy.Allowed...)
	target.ReadOnlyRoots = append(target.ReadOnlyRoots, source.ReadOnlyRoots...)
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.TimeoutMS != 0 {
		target.TimeoutMS = source.TimeoutMS
	}
}

// Save writes the configuration to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
