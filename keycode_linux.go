//go:build linux

package keytap

import "keytap/keys"

// Linux input event codes (linux/input-event-codes.h) for the named
// physical keys.
var keyToCode = map[keys.Key]uint16{
	keys.Escape:    1,
	keys.Digit1:    2,
	keys.Digit2:    3,
	keys.Digit3:    4,
	keys.Digit4:    5,
	keys.Digit5:    6,
	keys.Digit6:    7,
	keys.Digit7:    8,
	keys.Digit8:    9,
	keys.Digit9:    10,
	keys.Digit0:    11,
	keys.Minus:     12,
	keys.Equal:     13,
	keys.Backspace: 14,
	keys.Tab:       15,

	keys.Q:            16,
	keys.W:            17,
	keys.E:            18,
	keys.R:            19,
	keys.T:            20,
	keys.Y:            21,
	keys.U:            22,
	keys.I:            23,
	keys.O:            24,
	keys.P:            25,
	keys.LeftBracket:  26,
	keys.RightBracket: 27,
	keys.Return:       28,
	keys.ControlLeft:  29,

	keys.A:          30,
	keys.S:          31,
	keys.D:          32,
	keys.F:          33,
	keys.G:          34,
	keys.H:          35,
	keys.J:          36,
	keys.K:          37,
	keys.L:          38,
	keys.Semicolon:  39,
	keys.Apostrophe: 40,
	keys.Grave:      41,
	keys.ShiftLeft:  42,
	keys.Backslash:  43,

	keys.Z:          44,
	keys.X:          45,
	keys.C:          46,
	keys.V:          47,
	keys.B:          48,
	keys.N:          49,
	keys.M:          50,
	keys.Comma:      51,
	keys.Period:     52,
	keys.Slash:      53,
	keys.ShiftRight: 54,
	keys.KpMultiply: 55,
	keys.Alt:        56,
	keys.Space:      57,
	keys.CapsLock:   58,

	keys.F1:  59,
	keys.F2:  60,
	keys.F3:  61,
	keys.F4:  62,
	keys.F5:  63,
	keys.F6:  64,
	keys.F7:  65,
	keys.F8:  66,
	keys.F9:  67,
	keys.F10: 68,

	keys.NumLock:    69,
	keys.ScrollLock: 70,
	keys.Kp7:        71,
	keys.Kp8:        72,
	keys.Kp9:        73,
	keys.KpMinus:    74,
	keys.Kp4:        75,
	keys.Kp5:        76,
	keys.Kp6:        77,
	keys.KpPlus:     78,
	keys.Kp1:        79,
	keys.Kp2:        80,
	keys.Kp3:        81,
	keys.Kp0:        82,
	keys.KpDelete:   83, // KEY_KPDOT

	keys.IntlBackslash: 86, // KEY_102ND
	keys.F11:           87,
	keys.F12:           88,
	keys.KpReturn:      96,
	keys.ControlRight:  97,
	keys.KpDivide:      98,
	keys.PrintScreen:   99, // KEY_SYSRQ
	keys.AltGr:         100,

	keys.Home:       102,
	keys.UpArrow:    103,
	keys.PageUp:     104,
	keys.LeftArrow:  105,
	keys.RightArrow: 106,
	keys.End:        107,
	keys.DownArrow:  108,
	keys.PageDown:   109,
	keys.Insert:     110,
	keys.Delete:     111,

	keys.Pause:     119,
	keys.MetaLeft:  125,
	keys.MetaRight: 126,
}

const (
	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
)

var codeToKey map[uint16]keys.Key

func init() {
	codeToKey = make(map[uint16]keys.Key, len(keyToCode))
	for k, c := range keyToCode {
		codeToKey[c] = k
	}
}

func keyFromCode(code uint16) keys.Key {
	if k, ok := codeToKey[code]; ok {
		return k
	}
	return keys.Unknown(uint32(code))
}

func codeFromKey(k keys.Key) (uint16, bool) {
	if k.IsUnknown() {
		return uint16(k.Raw()), true
	}
	c, ok := keyToCode[k]
	return c, ok
}

func buttonFromCode(code uint16) Button {
	switch code {
	case btnLeft:
		return ButtonLeft
	case btnRight:
		return ButtonRight
	case btnMiddle:
		return ButtonMiddle
	}
	return UnknownButton(uint32(code))
}

func codeFromButton(b Button) uint16 {
	switch b {
	case ButtonLeft:
		return btnLeft
	case ButtonRight:
		return btnRight
	case ButtonMiddle:
		return btnMiddle
	}
	return uint16(b.Raw())
}
