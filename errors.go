package keytap

import "fmt"

// ListenError reports that the process-wide listener could not be
// installed: missing OS permission, no display session, or a listener
// already active in this process. No partial delivery has occurred.
type ListenError struct {
	Cause error
}

func (e *ListenError) Error() string {
	return fmt.Sprintf("keytap: listen: %v", e.Cause)
}

func (e *ListenError) Unwrap() error { return e.Cause }

// SimulateError reports that a single synthesis request failed, either
// because the key or button has no native binding under the current
// layout or because the OS rejected the injection call. It is not fatal
// to the process; retry policy is the caller's.
type SimulateError struct {
	Event EventType
	Cause error
}

func (e *SimulateError) Error() string {
	return fmt.Sprintf("keytap: simulate %s: %v", e.Event, e.Cause)
}

func (e *SimulateError) Unwrap() error { return e.Cause }

// GrabError reports that veto-capable observation is unavailable or
// failed to install. On backends without OS-level interception it is
// returned unconditionally rather than degrading to observe-only.
type GrabError struct {
	Cause error
}

func (e *GrabError) Error() string {
	return fmt.Sprintf("keytap: grab: %v", e.Cause)
}

func (e *GrabError) Unwrap() error { return e.Cause }

// StateError reports that no usable keyboard layout could be loaded at
// engine construction.
type StateError struct {
	Cause error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("keytap: keyboard state: %v", e.Cause)
}

func (e *StateError) Unwrap() error { return e.Cause }
