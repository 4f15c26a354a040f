//go:build windows

package keytap

import "keytap/keys"

// Virtual-key codes for the named physical keys. Positions Windows has
// no VK for stay absent; events for them surface as Unknown.
var keyToVK = map[keys.Key]uint16{
	keys.Alt:          0xA4, // VK_LMENU
	keys.AltGr:        0xA5, // VK_RMENU
	keys.Backspace:    0x08,
	keys.CapsLock:     0x14,
	keys.ControlLeft:  0xA2,
	keys.ControlRight: 0xA3,
	keys.Delete:       0x2E,
	keys.DownArrow:    0x28,
	keys.End:          0x23,
	keys.Escape:       0x1B,
	keys.F1:           0x70,
	keys.F2:           0x71,
	keys.F3:           0x72,
	keys.F4:           0x73,
	keys.F5:           0x74,
	keys.F6:           0x75,
	keys.F7:           0x76,
	keys.F8:           0x77,
	keys.F9:           0x78,
	keys.F10:          0x79,
	keys.F11:          0x7A,
	keys.F12:          0x7B,
	keys.Home:         0x24,
	keys.Insert:       0x2D,
	keys.LeftArrow:    0x25,
	keys.MetaLeft:     0x5B,
	keys.MetaRight:    0x5C,
	keys.PageDown:     0x22,
	keys.PageUp:       0x21,
	keys.Pause:        0x13,
	keys.PrintScreen:  0x2C,
	keys.Return:       0x0D,
	keys.RightArrow:   0x27,
	keys.ScrollLock:   0x91,
	keys.ShiftLeft:    0xA0,
	keys.ShiftRight:   0xA1,
	keys.Space:        0x20,
	keys.Tab:          0x09,
	keys.UpArrow:      0x26,

	keys.Grave:  0xC0, // VK_OEM_3
	keys.Digit1: 0x31,
	keys.Digit2: 0x32,
	keys.Digit3: 0x33,
	keys.Digit4: 0x34,
	keys.Digit5: 0x35,
	keys.Digit6: 0x36,
	keys.Digit7: 0x37,
	keys.Digit8: 0x38,
	keys.Digit9: 0x39,
	keys.Digit0: 0x30,
	keys.Minus:  0xBD, // VK_OEM_MINUS
	keys.Equal:  0xBB, // VK_OEM_PLUS

	keys.Q:             0x51,
	keys.W:             0x57,
	keys.E:             0x45,
	keys.R:             0x52,
	keys.T:             0x54,
	keys.Y:             0x59,
	keys.U:             0x55,
	keys.I:             0x49,
	keys.O:             0x4F,
	keys.P:             0x50,
	keys.LeftBracket:   0xDB, // VK_OEM_4
	keys.RightBracket:  0xDD, // VK_OEM_6
	keys.Backslash:     0xDC, // VK_OEM_5
	keys.A:             0x41,
	keys.S:             0x53,
	keys.D:             0x44,
	keys.F:             0x46,
	keys.G:             0x47,
	keys.H:             0x48,
	keys.J:             0x4A,
	keys.K:             0x4B,
	keys.L:             0x4C,
	keys.Semicolon:     0xBA, // VK_OEM_1
	keys.Apostrophe:    0xDE, // VK_OEM_7
	keys.IntlBackslash: 0xE2, // VK_OEM_102
	keys.Z:             0x5A,
	keys.X:             0x58,
	keys.C:             0x43,
	keys.V:             0x56,
	keys.B:             0x42,
	keys.N:             0x4E,
	keys.M:             0x4D,
	keys.Comma:         0xBC, // VK_OEM_COMMA
	keys.Period:        0xBE, // VK_OEM_PERIOD
	keys.Slash:         0xBF, // VK_OEM_2

	keys.NumLock:    0x90,
	keys.Kp0:        0x60,
	keys.Kp1:        0x61,
	keys.Kp2:        0x62,
	keys.Kp3:        0x63,
	keys.Kp4:        0x64,
	keys.Kp5:        0x65,
	keys.Kp6:        0x66,
	keys.Kp7:        0x67,
	keys.Kp8:        0x68,
	keys.Kp9:        0x69,
	keys.KpMinus:    0x6D,
	keys.KpPlus:     0x6B,
	keys.KpMultiply: 0x6A,
	keys.KpDivide:   0x6F,
	keys.KpDelete:   0x6E, // VK_DECIMAL
	keys.KpReturn:   0x0D,
}

var vkToKey map[uint16]keys.Key

func init() {
	vkToKey = make(map[uint16]keys.Key, len(keyToVK))
	for k, vk := range keyToVK {
		// KpReturn shares a VK with Return; keep the primary binding.
		if _, taken := vkToKey[vk]; !taken {
			vkToKey[vk] = k
		}
	}
}

// keyFromVK maps a native virtual-key code in, falling back to Unknown.
func keyFromVK(vk uint32) keys.Key {
	if k, ok := vkToKey[uint16(vk)]; ok {
		return k
	}
	return keys.Unknown(vk)
}

// vkFromKey maps a physical key out to its virtual-key code. Unknown
// keys pass their raw code through for the OS to judge.
func vkFromKey(k keys.Key) (uint16, bool) {
	if k.IsUnknown() {
		return uint16(k.Raw()), true
	}
	vk, ok := keyToVK[k]
	return vk, ok
}
