// Package keytap provides cross-platform observation and synthesis of
// keyboard and mouse events, and a keyboard state engine that translates
// physical key events into the logical text the active OS layout would
// produce.
package keytap

import (
	"fmt"
	"time"

	"keytap/keys"
)

// Button identifies a mouse button. Buttons beyond the standard three
// are represented by UnknownButton values carrying the raw platform code.
type Button uint64

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

const unknownButtonBit Button = 1 << 32

// UnknownButton wraps a raw platform button code with no symbolic name.
func UnknownButton(raw uint32) Button {
	return unknownButtonBit | Button(raw)
}

// IsUnknown reports whether b was produced by UnknownButton.
func (b Button) IsUnknown() bool {
	return b&unknownButtonBit != 0
}

// Raw returns the platform code carried by an UnknownButton value.
func (b Button) Raw() uint32 {
	if !b.IsUnknown() {
		return 0
	}
	return uint32(b &^ unknownButtonBit)
}

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonMiddle:
		return "Middle"
	}
	if b.IsUnknown() {
		return fmt.Sprintf("Unknown(0x%X)", b.Raw())
	}
	return fmt.Sprintf("Button(%d)", uint64(b))
}

// EventKind discriminates the variants of EventType.
type EventKind uint8

const (
	KindKeyPress EventKind = iota + 1
	KindKeyRelease
	KindButtonPress
	KindButtonRelease
	KindMouseMove
	KindWheel
)

func (k EventKind) String() string {
	switch k {
	case KindKeyPress:
		return "KeyPress"
	case KindKeyRelease:
		return "KeyRelease"
	case KindButtonPress:
		return "ButtonPress"
	case KindButtonRelease:
		return "ButtonRelease"
	case KindMouseMove:
		return "MouseMove"
	case KindWheel:
		return "Wheel"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// EventType describes one physical input event. Only the fields relevant
// to Kind are meaningful; the zero values of the rest keep the struct
// comparable. EventType never carries resolved text.
type EventType struct {
	Kind   EventKind
	Key    keys.Key
	Button Button

	// MouseMove, absolute pixel coordinates.
	X, Y float64

	// Wheel deltas. The vertical sign is authoritative on every backend;
	// horizontal magnitude is backend-dependent.
	DeltaX, DeltaY int64
}

// KeyPress builds a key press event for a physical key.
func KeyPress(k keys.Key) EventType {
	return EventType{Kind: KindKeyPress, Key: k}
}

// KeyRelease builds a key release event for a physical key.
func KeyRelease(k keys.Key) EventType {
	return EventType{Kind: KindKeyRelease, Key: k}
}

// ButtonPress builds a mouse button press event.
func ButtonPress(b Button) EventType {
	return EventType{Kind: KindButtonPress, Button: b}
}

// ButtonRelease builds a mouse button release event.
func ButtonRelease(b Button) EventType {
	return EventType{Kind: KindButtonRelease, Button: b}
}

// MouseMove builds an absolute mouse move event, in pixels.
func MouseMove(x, y float64) EventType {
	return EventType{Kind: KindMouseMove, X: x, Y: y}
}

// Wheel builds a scroll event.
func Wheel(deltaX, deltaY int64) EventType {
	return EventType{Kind: KindWheel, DeltaX: deltaX, DeltaY: deltaY}
}

func (e EventType) String() string {
	switch e.Kind {
	case KindKeyPress, KindKeyRelease:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Key)
	case KindButtonPress, KindButtonRelease:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Button)
	case KindMouseMove:
		return fmt.Sprintf("MouseMove(%.1f, %.1f)", e.X, e.Y)
	case KindWheel:
		return fmt.Sprintf("Wheel(%d, %d)", e.DeltaX, e.DeltaY)
	}
	return e.Kind.String()
}

// Event is one observed input event. Time is assigned when the native
// callback fires, not at true physical occurrence time. Name is the text
// the active layout produced for a key press, resolved by the keyboard
// state engine; it is nil on every other path. When present it is exactly
// what the layout produced: it may be empty or contain non-printable code
// points, unvalidated.
type Event struct {
	Time time.Time
	Name *string
	EventType
}
