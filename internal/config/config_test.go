package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.True(t, cfg.General.ShowTray)
	assert.Equal(t, "Ctrl+Alt+Shift+Esc", cfg.General.EscapeHotkey)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, "127.0.0.1:18320", cfg.Server.Addr)
	assert.Equal(t, 18321, cfg.Server.UDPPort)
	assert.False(t, cfg.Bridge.Enabled)
	assert.Equal(t, 2, cfg.Bridge.InjectDelayMS)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, m.Load())
	assert.Equal(t, DefaultConfig(), m.Get())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	m := NewManagerAt(path)
	cfg := DefaultConfig()
	cfg.General.LogLevel = "debug"
	cfg.Server.Token = "hunter2"
	cfg.Bridge.Enabled = true
	cfg.Bridge.RemoteAddr = "ws://192.168.1.20:18320/ws"
	cfg.Capture.Kinds = []string{"key_press", "key_release"}
	cfg.Capture.Layout = "us-intl"
	m.Set(cfg)
	require.NoError(t, m.Save())

	other := NewManagerAt(path)
	require.NoError(t, other.Load())
	assert.Equal(t, cfg, other.Get())
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general]\nlog_level = \"warn\"\n"), 0o644))

	m := NewManagerAt(path)
	require.NoError(t, m.Load())

	// The file only sets one field; the rest keep their defaults.
	cfg := m.Get()
	assert.Equal(t, "warn", cfg.General.LogLevel)
	assert.Equal(t, "127.0.0.1:18320", cfg.Server.Addr)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not toml {{{"), 0o644))

	m := NewManagerAt(path)
	assert.Error(t, m.Load())
}

func TestChangeCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general]\nlog_level = \"debug\"\n"), 0o644))
	m := NewManagerAt(path)

	called := 0
	m.RegisterChangeCallback(func() { called++ })

	m.Set(DefaultConfig())
	assert.Equal(t, 1, called)

	require.NoError(t, m.Load())
	assert.Equal(t, 2, called)
}
