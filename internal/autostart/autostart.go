// Package autostart registers the daemon to start on login.
package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"text/template"

	"github.com/adrg/xdg"
)

const macLaunchAgentPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>io.keytap.daemon</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>`

const linuxDesktopEntry = `[Desktop Entry]
Type=Application
Name=keytap
Exec={{.ExecutablePath}}
X-GNOME-Autostart-enabled=true
`

// Enable enables auto-start on login
func Enable() error {
	switch runtime.GOOS {
	case "darwin":
		return enableMac()
	case "linux":
		return enableLinux()
	case "windows":
		return enableWindows()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Disable disables auto-start on login
func Disable() error {
	switch runtime.GOOS {
	case "darwin":
		return disableMac()
	case "linux":
		return disableLinux()
	case "windows":
		return disableWindows()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// IsEnabled checks if auto-start is enabled
func IsEnabled() bool {
	switch runtime.GOOS {
	case "darwin":
		return isEnabledMac()
	case "linux":
		return isEnabledLinux()
	case "windows":
		return isEnabledWindows()
	default:
		return false
	}
}

func writeTemplated(path, text string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmpl, err := template.New("autostart").Parse(text)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, struct{ ExecutablePath string }{execPath})
}

func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// macOS: launch agent plist

func macPlistPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "LaunchAgents", "io.keytap.daemon.plist"), nil
}

func enableMac() error {
	path, err := macPlistPath()
	if err != nil {
		return err
	}
	return writeTemplated(path, macLaunchAgentPlist)
}

func disableMac() error {
	path, err := macPlistPath()
	if err != nil {
		return err
	}
	return removeIfPresent(path)
}

func isEnabledMac() bool {
	path, err := macPlistPath()
	return err == nil && exists(path)
}

// Linux: XDG autostart desktop entry

func linuxDesktopPath() string {
	return filepath.Join(xdg.ConfigHome, "autostart", "keytap.desktop")
}

func enableLinux() error {
	return writeTemplated(linuxDesktopPath(), linuxDesktopEntry)
}

func disableLinux() error {
	return removeIfPresent(linuxDesktopPath())
}

func isEnabledLinux() bool {
	return exists(linuxDesktopPath())
}
