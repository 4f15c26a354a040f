//go:build !windows && !linux && !(darwin && cgo)

package keytap

import "errors"

var errUnsupported = errors.New("input backend not available on this platform")

func listen(callback func(Event)) error {
	return &ListenError{Cause: errUnsupported}
}

func grab(callback func(Event) *Event) error {
	return &GrabError{Cause: errUnsupported}
}

func simulate(e EventType) error {
	return &SimulateError{Event: e, Cause: errUnsupported}
}
