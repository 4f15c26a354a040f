// Package config provides configuration management for the keytap daemon.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents the daemon configuration
type Config struct {
	// General contains general daemon settings
	General GeneralConfig `toml:"general"`

	// Server configures the local WebSocket/UDP event server
	Server ServerConfig `toml:"server"`

	// Bridge configures forwarding observed events to a remote daemon
	Bridge BridgeConfig `toml:"bridge"`

	// Capture configures what the observer reports
	Capture CaptureConfig `toml:"capture"`
}

// GeneralConfig contains general daemon settings
type GeneralConfig struct {
	// LogLevel is one of "debug", "info", "warn", "error"
	LogLevel string `toml:"log_level"`

	// ShowTray enables the system tray icon
	ShowTray bool `toml:"show_tray"`

	// EscapeHotkey is the emergency chord that stops event forwarding
	// (e.g. "Ctrl+Alt+Shift+Esc")
	EscapeHotkey string `toml:"escape_hotkey"`
}

// ServerConfig configures the local event server
type ServerConfig struct {
	// Enabled turns the WebSocket server on
	Enabled bool `toml:"enabled"`

	// Addr is the listen address (default "127.0.0.1:18320")
	Addr string `toml:"addr"`

	// UDPPort is the port for the low-latency UDP event path; 0 disables it
	UDPPort int `toml:"udp_port"`

	// Token is an optional authentication token clients must present
	Token string `toml:"token,omitempty"`
}

// BridgeConfig configures event forwarding to a remote daemon
type BridgeConfig struct {
	// Enabled turns the bridge on
	Enabled bool `toml:"enabled"`

	// RemoteAddr is the WebSocket address of the remote daemon
	// (e.g. "ws://192.168.1.20:18320/ws")
	RemoteAddr string `toml:"remote_addr,omitempty"`

	// Token is presented to the remote daemon on connect
	Token string `toml:"token,omitempty"`

	// InjectDelayMS is the settling delay between injected events,
	// in milliseconds
	InjectDelayMS int `toml:"inject_delay_ms"`
}

// CaptureConfig configures what the observer reports
type CaptureConfig struct {
	// Kinds limits the streamed event kinds; empty means all
	// (values: "key_press", "key_release", "button_press",
	// "button_release", "mouse_move", "wheel")
	Kinds []string `toml:"kinds,omitempty"`

	// Layout overrides layout auto-detection for name resolution
	// (e.g. "us", "us-intl")
	Layout string `toml:"layout,omitempty"`
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:     "info",
			ShowTray:     true,
			EscapeHotkey: "Ctrl+Alt+Shift+Esc",
		},
		Server: ServerConfig{
			Enabled: true,
			Addr:    "127.0.0.1:18320",
			UDPPort: 18321,
		},
		Bridge: BridgeConfig{
			InjectDelayMS: 2,
		},
	}
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
	onChanged  func()
}

// NewManager creates a new configuration manager backed by the XDG
// config directory.
func NewManager() (*Manager, error) {
	configPath, err := xdg.ConfigFile(filepath.Join("keytap", "config.toml"))
	if err != nil {
		return nil, err
	}
	return &Manager{
		configPath: configPath,
		config:     DefaultConfig(),
	}, nil
}

// NewManagerAt creates a manager for an explicit config path.
func NewManagerAt(path string) *Manager {
	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
	}
}

// Path returns the config file location.
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		// No config file, use defaults
		return nil
	}
	if err != nil {
		return err
	}

	if err := toml.Unmarshal(data, m.config); err != nil {
		return err
	}
	if m.onChanged != nil {
		m.onChanged()
	}
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m.config); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(m.configPath, buf.Bytes(), 0o644)
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Set updates the configuration
func (m *Manager) Set(config *Config) {
	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
	if m.onChanged != nil {
		m.onChanged()
	}
}

// RegisterChangeCallback registers a function to be called when config changes
func (m *Manager) RegisterChangeCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = fn
}
