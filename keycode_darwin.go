//go:build darwin && cgo

package keytap

import "keytap/keys"

// Carbon virtual key codes (kVK_*) for the named physical keys.
// PrintScreen, ScrollLock and Pause map to F13-F15, their positions on
// Apple keyboards.
var keyToVK = map[keys.Key]uint16{
	keys.A:             0x00,
	keys.S:             0x01,
	keys.D:             0x02,
	keys.F:             0x03,
	keys.H:             0x04,
	keys.G:             0x05,
	keys.Z:             0x06,
	keys.X:             0x07,
	keys.C:             0x08,
	keys.V:             0x09,
	keys.IntlBackslash: 0x0A,
	keys.B:             0x0B,
	keys.Q:             0x0C,
	keys.W:             0x0D,
	keys.E:             0x0E,
	keys.R:             0x0F,
	keys.Y:             0x10,
	keys.T:             0x11,
	keys.Digit1:        0x12,
	keys.Digit2:        0x13,
	keys.Digit3:        0x14,
	keys.Digit4:        0x15,
	keys.Digit6:        0x16,
	keys.Digit5:        0x17,
	keys.Equal:         0x18,
	keys.Digit9:        0x19,
	keys.Digit7:        0x1A,
	keys.Minus:         0x1B,
	keys.Digit8:        0x1C,
	keys.Digit0:        0x1D,
	keys.RightBracket:  0x1E,
	keys.O:             0x1F,
	keys.U:             0x20,
	keys.LeftBracket:   0x21,
	keys.I:             0x22,
	keys.P:             0x23,
	keys.Return:        0x24,
	keys.L:             0x25,
	keys.J:             0x26,
	keys.Apostrophe:    0x27,
	keys.K:             0x28,
	keys.Semicolon:     0x29,
	keys.Backslash:     0x2A,
	keys.Comma:         0x2B,
	keys.Slash:         0x2C,
	keys.N:             0x2D,
	keys.M:             0x2E,
	keys.Period:        0x2F,
	keys.Tab:           0x30,
	keys.Space:         0x31,
	keys.Grave:         0x32,
	keys.Backspace:     0x33,
	keys.Escape:        0x35,
	keys.MetaRight:     0x36,
	keys.MetaLeft:      0x37,
	keys.ShiftLeft:     0x38,
	keys.CapsLock:      0x39,
	keys.Alt:           0x3A,
	keys.ControlLeft:   0x3B,
	keys.ShiftRight:    0x3C,
	keys.AltGr:         0x3D,
	keys.ControlRight:  0x3E,
	keys.Function:      0x3F,

	keys.KpDelete:   0x41,
	keys.KpMultiply: 0x43,
	keys.KpPlus:     0x45,
	keys.NumLock:    0x47,
	keys.KpDivide:   0x4B,
	keys.KpReturn:   0x4C,
	keys.KpMinus:    0x4E,
	keys.Kp0:        0x52,
	keys.Kp1:        0x53,
	keys.Kp2:        0x54,
	keys.Kp3:        0x55,
	keys.Kp4:        0x56,
	keys.Kp5:        0x57,
	keys.Kp6:        0x58,
	keys.Kp7:        0x59,
	keys.Kp8:        0x5B,
	keys.Kp9:        0x5C,

	keys.F5:          0x60,
	keys.F6:          0x61,
	keys.F7:          0x62,
	keys.F3:          0x63,
	keys.F8:          0x64,
	keys.F9:          0x65,
	keys.F11:         0x67,
	keys.PrintScreen: 0x69,
	keys.ScrollLock:  0x6B,
	keys.F10:         0x6D,
	keys.F12:         0x6F,
	keys.Pause:       0x71,
	keys.Insert:      0x72,
	keys.Home:        0x73,
	keys.PageUp:      0x74,
	keys.Delete:      0x75,
	keys.F4:          0x76,
	keys.End:         0x77,
	keys.F2:          0x78,
	keys.PageDown:    0x79,
	keys.F1:          0x7A,
	keys.LeftArrow:   0x7B,
	keys.RightArrow:  0x7C,
	keys.DownArrow:   0x7D,
	keys.UpArrow:     0x7E,
}

var vkToKey map[uint16]keys.Key

func init() {
	vkToKey = make(map[uint16]keys.Key, len(keyToVK))
	for k, vk := range keyToVK {
		vkToKey[vk] = k
	}
}

func keyFromVK(vk uint16) keys.Key {
	if k, ok := vkToKey[vk]; ok {
		return k
	}
	return keys.Unknown(uint32(vk))
}

func vkFromKey(k keys.Key) (uint16, bool) {
	if k.IsUnknown() {
		return uint16(k.Raw()), true
	}
	vk, ok := keyToVK[k]
	return vk, ok
}
