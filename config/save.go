package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned when saving a key the target file does not accept.
var ErrUnknownKey = errors.New("unknown config key")

// SaveConfig persists single configuration keys.
type SaveConfig struct {
	// GlobalConfigDir is the directory under ~/.config/ for global config.
	GlobalConfigDir string

	// GlobalConfigFile is the filename. Defaults to "config.yaml".
	GlobalConfigFile string

	// LocalConfigName is the filename for local config in the git root.
	LocalConfigName string

	// ValidGlobalKeys lists keys that can be set in global config. Nil accepts any key.
	ValidGlobalKeys []string

	// ValidLocalKeys lists keys that can be set in local config. Nil accepts any key.
	ValidLocalKeys []string
}

// DefaultSaveConfig matches DefaultResolverConfig.
func DefaultSaveConfig() SaveConfig {
	return SaveConfig{
		GlobalConfigDir: "youtrack",
		LocalConfigName: ".youtrack.yaml",
		ValidGlobalKeys: AllKeys,
		ValidLocalKeys:  LocalKeys,
	}
}

func (c SaveConfig) globalConfigFile() string {
	if c.GlobalConfigFile != "" {
		return c.GlobalConfigFile
	}
	return "config.yaml"
}

// GlobalPath returns the global config file path.
func (c SaveConfig) GlobalPath() (string, error) {
	if c.GlobalConfigDir == "" {
		return "", errors.New("global config directory not configured")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", c.GlobalConfigDir, c.globalConfigFile()), nil
}

// SaveGlobal saves a key to the global config file. The file is created
// with owner-only permissions since it may hold the token.
func (c SaveConfig) SaveGlobal(key, value string) error {
	if err := checkKey(c.ValidGlobalKeys, "global", key); err != nil {
		return err
	}
	path, err := c.GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return update(path, 0o600, func(m map[string]any) {
		m[key] = parseValue(value)
	})
}

// SaveLocal saves a key to the local config file in gitRoot.
func (c SaveConfig) SaveLocal(gitRoot, key, value string) error {
	if gitRoot == "" {
		return errors.New("git root not found")
	}
	if c.LocalConfigName == "" {
		return errors.New("local config name not configured")
	}
	if err := checkKey(c.ValidLocalKeys, "local", key); err != nil {
		return err
	}
	return update(filepath.Join(gitRoot, c.LocalConfigName), 0o644, func(m map[string]any) {
		m[key] = parseValue(value)
	})
}

// DeleteGlobalKey removes a key from the global config. A missing file is not an error.
func (c SaveConfig) DeleteGlobalKey(key string) error {
	path, err := c.GlobalPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return update(path, 0o600, func(m map[string]any) {
		delete(m, key)
	})
}

func checkKey(valid []string, scope, key string) error {
	if valid == nil || slices.Contains(valid, key) {
		return nil
	}
	return fmt.Errorf("%w %q for %s config (valid keys: %s)", ErrUnknownKey, key, scope, strings.Join(valid, ", "))
}

// update rewrites the yaml file at path. An unparsable file is replaced.
func update(path string, perm os.FileMode, fn func(map[string]any)) error {
	existing := make(map[string]any)
	if data, err := os.ReadFile(path); err == nil {
		var parsed map[string]any
		if yaml.Unmarshal(data, &parsed) == nil && parsed != nil {
			existing = parsed
		}
	}

	fn(existing)

	data, err := yaml.Marshal(existing)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// parseValue stores booleans as yaml booleans and everything else as strings.
func parseValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	default:
		return value
	}
}
