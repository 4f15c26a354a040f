//go:build linux

package layout

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// detect resolves the XKB layout configured for the session. It
// consults the compositor environment first, then the system keyboard
// defaults, and assumes plain "us" when neither says otherwise.
func detect() (*Layout, error) {
	name, variant := xkbConfig()

	// Multi-layout sessions list layouts comma-separated; only the first
	// (the one active at process start) is tracked.
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(variant, ','); i >= 0 {
		variant = variant[:i]
	}

	regName, err := registryName(name, variant)
	if err != nil {
		return nil, err
	}
	l, ok := Get(regName)
	if !ok {
		return nil, fmt.Errorf("layout %q not registered", regName)
	}
	return l, nil
}

func registryName(name, variant string) (string, error) {
	switch name {
	case "", "us":
		switch variant {
		case "":
			return "us", nil
		case "intl", "alt-intl":
			return "us-intl", nil
		}
		return "", fmt.Errorf("unsupported us variant %q", variant)
	}
	return "", fmt.Errorf("unsupported keyboard layout %q", name)
}

func xkbConfig() (name, variant string) {
	name = os.Getenv("XKB_DEFAULT_LAYOUT")
	variant = os.Getenv("XKB_DEFAULT_VARIANT")
	if name != "" {
		return name, variant
	}

	f, err := os.Open("/etc/default/keyboard")
	if err != nil {
		return "", ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if v, ok := strings.CutPrefix(line, "XKBLAYOUT="); ok {
			name = strings.Trim(v, `"`)
		}
		if v, ok := strings.CutPrefix(line, "XKBVARIANT="); ok {
			variant = strings.Trim(v, `"`)
		}
	}
	return name, variant
}
