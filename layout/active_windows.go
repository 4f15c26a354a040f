//go:build windows

package layout

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                    = syscall.NewLazyDLL("user32.dll")
	procGetKeyboardLayoutName = user32.NewProc("GetKeyboardLayoutNameW")
)

// klidNames maps Windows keyboard layout identifiers (KLID) to registry
// names. Layouts outside this table are unusable for translation.
var klidNames = map[string]string{
	"00000409": "us",
	"00020409": "us-intl",
}

// detect resolves the keyboard layout of the current thread's input
// locale. Requires a layout known to the registry.
func detect() (*Layout, error) {
	var buf [9]uint16 // KL_NAMELENGTH
	r, _, err := procGetKeyboardLayoutName.Call(uintptr(unsafe.Pointer(&buf[0])))
	if r == 0 {
		return nil, fmt.Errorf("GetKeyboardLayoutNameW: %w", err)
	}
	klid := windows.UTF16ToString(buf[:])
	name, ok := klidNames[klid]
	if !ok {
		return nil, fmt.Errorf("unsupported keyboard layout %q", klid)
	}
	l, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("layout %q not registered", name)
	}
	return l, nil
}
