// Package keys defines the OS-independent vocabulary of physical keyboard
// positions. A Key names a position on a reference QWERTY board, not the
// character it currently produces; mapping positions to text is the job of
// the layout tables and the keyboard state engine.
package keys

import "fmt"

// Key identifies a physical key position. Named constants cover the
// reference board; positions with no symbolic name are represented by
// Unknown values carrying the raw platform code, so no native event is
// ever dropped for lack of a name.
type Key uint64

const (
	Alt Key = iota
	AltGr
	Backspace
	CapsLock
	ControlLeft
	ControlRight
	Delete
	DownArrow
	End
	Escape
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	Home
	Insert
	LeftArrow
	MetaLeft
	MetaRight
	PageDown
	PageUp
	Pause
	PrintScreen
	Return
	RightArrow
	ScrollLock
	ShiftLeft
	ShiftRight
	Space
	Tab
	UpArrow

	// Number row, left to right.
	Grave
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9
	Digit0
	Minus
	Equal

	// Letter rows, QWERTY order.
	Q
	W
	E
	R
	T
	Y
	U
	I
	O
	P
	LeftBracket
	RightBracket
	Backslash
	A
	S
	D
	F
	G
	H
	J
	K
	L
	Semicolon
	Apostrophe
	IntlBackslash
	Z
	X
	C
	V
	B
	N
	M
	Comma
	Period
	Slash

	// Keypad.
	NumLock
	Kp0
	Kp1
	Kp2
	Kp3
	Kp4
	Kp5
	Kp6
	Kp7
	Kp8
	Kp9
	KpMinus
	KpPlus
	KpMultiply
	KpDivide
	KpDelete
	KpReturn

	Function

	maxNamed
)

// Named returns every named key constant in declaration order.
func Named() []Key {
	all := make([]Key, 0, int(maxNamed))
	for k := Key(0); k < maxNamed; k++ {
		all = append(all, k)
	}
	return all
}

// unknownBit marks values produced by Unknown. The raw platform code
// lives in the low 32 bits.
const unknownBit Key = 1 << 32

// Unknown wraps a raw platform code that has no symbolic name.
func Unknown(raw uint32) Key {
	return unknownBit | Key(raw)
}

// IsUnknown reports whether k was produced by Unknown.
func (k Key) IsUnknown() bool {
	return k&unknownBit != 0
}

// Raw returns the platform code carried by an Unknown key. It is zero
// for named keys.
func (k Key) Raw() uint32 {
	if !k.IsUnknown() {
		return 0
	}
	return uint32(k &^ unknownBit)
}

var names = map[Key]string{
	Alt: "Alt", AltGr: "AltGr", Backspace: "Backspace", CapsLock: "CapsLock",
	ControlLeft: "ControlLeft", ControlRight: "ControlRight", Delete: "Delete",
	DownArrow: "DownArrow", End: "End", Escape: "Escape",
	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6",
	F7: "F7", F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12",
	Home: "Home", Insert: "Insert", LeftArrow: "LeftArrow",
	MetaLeft: "MetaLeft", MetaRight: "MetaRight",
	PageDown: "PageDown", PageUp: "PageUp", Pause: "Pause",
	PrintScreen: "PrintScreen", Return: "Return", RightArrow: "RightArrow",
	ScrollLock: "ScrollLock", ShiftLeft: "ShiftLeft", ShiftRight: "ShiftRight",
	Space: "Space", Tab: "Tab", UpArrow: "UpArrow",

	Grave: "Grave", Digit1: "Digit1", Digit2: "Digit2", Digit3: "Digit3",
	Digit4: "Digit4", Digit5: "Digit5", Digit6: "Digit6", Digit7: "Digit7",
	Digit8: "Digit8", Digit9: "Digit9", Digit0: "Digit0",
	Minus: "Minus", Equal: "Equal",

	Q: "Q", W: "W", E: "E", R: "R", T: "T", Y: "Y", U: "U", I: "I",
	O: "O", P: "P", LeftBracket: "LeftBracket", RightBracket: "RightBracket",
	Backslash: "Backslash", A: "A", S: "S", D: "D", F: "F", G: "G",
	H: "H", J: "J", K: "K", L: "L", Semicolon: "Semicolon",
	Apostrophe: "Apostrophe", IntlBackslash: "IntlBackslash",
	Z: "Z", X: "X", C: "C", V: "V", B: "B", N: "N", M: "M",
	Comma: "Comma", Period: "Period", Slash: "Slash",

	NumLock: "NumLock", Kp0: "Kp0", Kp1: "Kp1", Kp2: "Kp2", Kp3: "Kp3",
	Kp4: "Kp4", Kp5: "Kp5", Kp6: "Kp6", Kp7: "Kp7", Kp8: "Kp8", Kp9: "Kp9",
	KpMinus: "KpMinus", KpPlus: "KpPlus", KpMultiply: "KpMultiply",
	KpDivide: "KpDivide", KpDelete: "KpDelete", KpReturn: "KpReturn",

	Function: "Function",
}

func (k Key) String() string {
	if k.IsUnknown() {
		return fmt.Sprintf("Unknown(0x%X)", k.Raw())
	}
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Key(%d)", uint64(k))
}

// IsModifier reports whether pressing k alone never produces text:
// shift, control, alt, meta and the caps lock toggle.
func (k Key) IsModifier() bool {
	switch k {
	case ShiftLeft, ShiftRight, ControlLeft, ControlRight,
		Alt, AltGr, MetaLeft, MetaRight, CapsLock:
		return true
	}
	return false
}
