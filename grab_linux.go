//go:build linux

package keytap

import "errors"

// Suppressing events before delivery would require taking an EVIOCGRAB
// on every input device and re-injecting the allowed events through
// uinput, which breaks every other consumer of those devices. Grab is
// therefore not offered on Linux.
func grab(callback func(Event) *Event) error {
	return &GrabError{Cause: errors.New("event interception is not supported on linux")}
}
