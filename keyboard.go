package keytap

import (
	"keytap/keys"
	"keytap/layout"
)

// Keyboard is the keyboard state engine: it consumes physical key events
// and produces the logical text the active layout would emit, tracking
// shift, caps lock and pending dead-key state across calls.
//
// A Keyboard is a pure function of its layout and the event history fed
// to Add: two instances given the same sequence produce the same output.
// Instances are independent of each other and must not be shared between
// goroutines without external serialization.
type Keyboard struct {
	layout *layout.Layout

	shiftLeft  bool
	shiftRight bool
	capsLock   bool

	// Pending dead-key mark, zero when none. At most one mark is ever
	// pending; an uncombinable follow-up discards it.
	dead rune
}

// NewKeyboard creates an engine for the layout active at process start.
// It fails with StateError when the OS reports no usable layout.
func NewKeyboard() (*Keyboard, error) {
	l, err := layout.Active()
	if err != nil {
		return nil, &StateError{Cause: err}
	}
	return NewKeyboardForLayout(l), nil
}

// NewKeyboardForLayout creates an engine bound to an explicit layout,
// independent of the host OS.
func NewKeyboardForLayout(l *layout.Layout) *Keyboard {
	return &Keyboard{layout: l}
}

// Layout returns the layout the engine was constructed with.
func (kb *Keyboard) Layout() *layout.Layout { return kb.layout }

// Add consumes one physical event and returns the text it produces, if
// any. It is total: unmapped keys, modifier-only presses, releases and
// non-key events all yield ("", false) rather than an error.
func (kb *Keyboard) Add(e EventType) (string, bool) {
	switch e.Kind {
	case KindKeyPress:
		return kb.press(e.Key)
	case KindKeyRelease:
		kb.release(e.Key)
		return "", false
	default:
		return "", false
	}
}

func (kb *Keyboard) press(k keys.Key) (string, bool) {
	// Modifier bookkeeping comes first; caps lock latches, shift holds.
	switch k {
	case keys.ShiftLeft:
		kb.shiftLeft = true
		return "", false
	case keys.ShiftRight:
		kb.shiftRight = true
		return "", false
	case keys.CapsLock:
		kb.capsLock = !kb.capsLock
		return "", false
	}
	if k.IsModifier() {
		return "", false
	}

	text, mark, ok := kb.layout.Lookup(k, kb.shiftLeft || kb.shiftRight, kb.capsLock)
	if !ok {
		// Unmapped key. It still counts as an intervening press, so any
		// pending dead key is discarded.
		kb.dead = 0
		return "", false
	}

	if kb.dead != 0 {
		pending := kb.dead
		kb.dead = 0
		if mark == 0 {
			if composed, ok := kb.layout.Compose(pending, text); ok {
				return composed, true
			}
		}
		// Not composable: the pending mark is dropped silently and the
		// key's own mapping applies.
	}

	if mark != 0 {
		kb.dead = mark
		return "", false
	}
	return text, true
}

func (kb *Keyboard) release(k keys.Key) {
	switch k {
	case keys.ShiftLeft:
		kb.shiftLeft = false
	case keys.ShiftRight:
		kb.shiftRight = false
	}
	// Caps lock is a toggle; releases leave it untouched.
}

// Reset returns the engine to its initial state: all modifiers up, caps
// lock off, no pending dead key. The layout is not reloaded.
func (kb *Keyboard) Reset() {
	kb.shiftLeft = false
	kb.shiftRight = false
	kb.capsLock = false
	kb.dead = 0
}
