package keytap

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"keytap/keys"
	"keytap/layout"
)

// listenerActive enforces the one-listener-per-process constraint shared
// by Listen and Grab; the OS hooks behind them are process-global.
var listenerActive atomic.Bool

// Listen installs the process-wide input observer and blocks for the
// lifetime of the backend's native event loop. The callback runs
// synchronously on the loop thread for every event, in arrival order; a
// slow callback delays subsequent delivery. Key press events carry a
// resolved Name when the active layout could be loaded.
//
// Listen returns only when installation fails or the backend loop exits,
// always with a ListenError. A second concurrent call fails fast. There
// is no cancellation; callers who need other work to continue must run
// Listen on a dedicated goroutine.
func Listen(callback func(Event)) error {
	if callback == nil {
		return &ListenError{Cause: errors.New("nil callback")}
	}
	if !listenerActive.CompareAndSwap(false, true) {
		return &ListenError{Cause: errors.New("listener already active in this process")}
	}
	defer listenerActive.Store(false)
	return listen(callback)
}

// Simulate asks the OS to inject one input event. A nil error means the
// OS accepted the request, not that any application saw the event.
// Backends process injected input asynchronously; callers sending
// sequences should add their own settling delay between events.
func Simulate(e EventType) error {
	return simulate(e)
}

// Grab is Listen with veto power: the callback returns nil to suppress
// delivery of the event to the rest of the system, or the event itself
// to let it pass. Mutation is not supported. Backends that cannot
// intercept before delivery return GrabError unconditionally.
func Grab(callback func(Event) *Event) error {
	if callback == nil {
		return &GrabError{Cause: errors.New("nil callback")}
	}
	if !listenerActive.CompareAndSwap(false, true) {
		return &GrabError{Cause: errors.New("listener already active in this process")}
	}
	defer listenerActive.Store(false)
	return grab(callback)
}

// TypeText synthesizes key presses that produce s under the layout
// active at process start, waiting delay between injected events. Runes
// the layout cannot produce fail with SimulateError.
func TypeText(s string, delay time.Duration) error {
	l, err := layout.Active()
	if err != nil {
		return &StateError{Cause: err}
	}
	for _, r := range s {
		if err := typeRune(l, r, delay); err != nil {
			return err
		}
	}
	return nil
}

func typeRune(l *layout.Layout, r rune, delay time.Duration) error {
	k, shifted, ok := l.Find(r)
	if !ok {
		ev := KeyPress(keys.Unknown(uint32(r)))
		return &SimulateError{Event: ev, Cause: fmt.Errorf("rune %q not reachable on layout %s", r, l.Name())}
	}

	seq := make([]EventType, 0, 4)
	if shifted {
		seq = append(seq, KeyPress(keys.ShiftLeft))
	}
	seq = append(seq, KeyPress(k), KeyRelease(k))
	if shifted {
		seq = append(seq, KeyRelease(keys.ShiftLeft))
	}

	for _, ev := range seq {
		if err := Simulate(ev); err != nil {
			return err
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return nil
}
