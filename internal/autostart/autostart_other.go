//go:build !windows

package autostart

import "errors"

var errNotWindows = errors.New("autostart: registry access is windows-only")

func enableWindows() error  { return errNotWindows }
func disableWindows() error { return errNotWindows }
func isEnabledWindows() bool { return false }
