package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readYAML(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved map[string]any
	require.NoError(t, yaml.Unmarshal(data, &saved))
	return saved
}

func TestSaveConfig_SaveGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultSaveConfig()
	path := filepath.Join(home, ".config", "youtrack", "config.yaml")

	require.NoError(t, cfg.SaveGlobal(KeyURL, "https://example.youtrack.cloud"))
	require.NoError(t, cfg.SaveGlobal(KeyToken, testToken))
	require.NoError(t, cfg.SaveGlobal(KeyRetryJitter, "TRUE"))

	saved := readYAML(t, path)
	assert.Equal(t, "https://example.youtrack.cloud", saved[KeyURL])
	assert.Equal(t, testToken, saved[KeyToken])
	assert.Equal(t, true, saved[KeyRetryJitter])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := cfg.GlobalPath()
	require.NoError(t, err)
	assert.Equal(t, path, got)

	res := NewResolverWithPaths(DefaultResolverConfig(), path, "").Resolve()
	assert.Equal(t, SourceGlobal, res.Source(KeyToken))
}

func TestSaveConfig_SaveGlobal_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := DefaultSaveConfig().SaveGlobal("colour", "blue")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "valid keys: url, token")

	err = SaveConfig{}.SaveGlobal(KeyURL, "https://example.youtrack.cloud")
	assert.EqualError(t, err, "global config directory not configured")
}

func TestSaveConfig_SaveLocal(t *testing.T) {
	repo := t.TempDir()
	cfg := DefaultSaveConfig()

	require.NoError(t, cfg.SaveLocal(repo, KeyURL, "https://example.youtrack.cloud"))
	assert.Equal(t, "https://example.youtrack.cloud", readYAML(t, filepath.Join(repo, ".youtrack.yaml"))[KeyURL])

	assert.ErrorIs(t, cfg.SaveLocal(repo, KeyToken, testToken), ErrUnknownKey)
	assert.EqualError(t, cfg.SaveLocal("", KeyURL, "x"), "git root not found")
	assert.EqualError(t, SaveConfig{}.SaveLocal(repo, KeyURL, "x"), "local config name not configured")
}

func TestSaveConfig_DeleteGlobalKey(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg := DefaultSaveConfig()

	require.NoError(t, cfg.DeleteGlobalKey(KeyToken), "missing file is not an error")

	require.NoError(t, cfg.SaveGlobal(KeyURL, "https://example.youtrack.cloud"))
	require.NoError(t, cfg.SaveGlobal(KeyToken, testToken))
	require.NoError(t, cfg.DeleteGlobalKey(KeyToken))

	path, err := cfg.GlobalPath()
	require.NoError(t, err)
	saved := readYAML(t, path)
	assert.NotContains(t, saved, KeyToken)
	assert.Contains(t, saved, KeyURL)
}

func TestSaveConfig_OverwritesMalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeFile(t, home, ".config/youtrack/config.yaml", "not: valid: yaml: [[[")

	require.NoError(t, DefaultSaveConfig().SaveGlobal(KeyURL, "https://example.youtrack.cloud"))

	assert.Equal(t, map[string]any{KeyURL: "https://example.youtrack.cloud"}, readYAML(t, path))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, false, parseValue("False"))
	assert.Equal(t, "30s", parseValue("30s"))
	assert.Equal(t, "", parseValue(""))
}
