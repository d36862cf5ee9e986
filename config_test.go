package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jsrlive.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigEmptyPath(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	settings := DefaultSettings()
	require.NoError(t, settings.Apply(config))
	require.Equal(t, DefaultSettings(), settings)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[service]
base_url = "http://localhost:9090"
chat_interval = "250ms"

[audio]
enabled = false
volume = 3

[chat]
command_prefix = "!"
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	settings := DefaultSettings()
	require.NoError(t, settings.Apply(config))

	require.Equal(t, "http://localhost:9090", settings.BaseURL)
	require.Equal(t, 250*time.Millisecond, settings.ChatInterval)
	require.Equal(t, time.Second, settings.ListenerInterval) // untouched
	require.False(t, settings.AudioEnabled)
	require.Equal(t, 3, settings.Volume)
	require.Equal(t, "!", settings.CommandPrefix)
}

func TestLoadConfigVolumeZeroMutes(t *testing.T) {
	path := writeConfig(t, `
[audio]
volume = 0
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	settings := DefaultSettings()
	require.NoError(t, settings.Apply(config))
	require.Equal(t, 0, settings.Volume)
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := writeConfig(t, `
[service]
chat_interval = "soon"
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	settings := DefaultSettings()
	require.Error(t, settings.Apply(config))
}

func TestLoadConfigBadVolume(t *testing.T) {
	path := writeConfig(t, `
[audio]
volume = 40
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	settings := DefaultSettings()
	require.Error(t, settings.Apply(config))
}

func TestLoadConfigBadPrefix(t *testing.T) {
	path := writeConfig(t, `
[chat]
command_prefix = "!!"
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	settings := DefaultSettings()
	require.Error(t, settings.Apply(config))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
