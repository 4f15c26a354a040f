//go:build !windows && !linux && !(darwin && cgo)

package layout

import "errors"

// detect is a stub on platforms without a layout query backend.
func detect() (*Layout, error) {
	return nil, errors.New("keyboard layout detection not supported on this platform")
}
