package layout

import "keytap/keys"

// US is the reference QWERTY layout. It has no dead keys.
func US() *Layout {
	l, _ := Get("us")
	return l
}

func init() {
	Register(New("us", usEntries(), nil))
}

// usEntries builds the ANSI US table. Letters carry CapsIsShift so caps
// lock and shift cancel on them; everything else ignores caps lock.
func usEntries() map[keys.Key]Entry {
	e := map[keys.Key]Entry{
		keys.Grave:  {Base: "`", Shift: "~"},
		keys.Digit1: {Base: "1", Shift: "!"},
		keys.Digit2: {Base: "2", Shift: "@"},
		keys.Digit3: {Base: "3", Shift: "#"},
		keys.Digit4: {Base: "4", Shift: "$"},
		keys.Digit5: {Base: "5", Shift: "%"},
		keys.Digit6: {Base: "6", Shift: "^"},
		keys.Digit7: {Base: "7", Shift: "&"},
		keys.Digit8: {Base: "8", Shift: "*"},
		keys.Digit9: {Base: "9", Shift: "("},
		keys.Digit0: {Base: "0", Shift: ")"},
		keys.Minus:  {Base: "-", Shift: "_"},
		keys.Equal:  {Base: "=", Shift: "+"},

		keys.LeftBracket:  {Base: "[", Shift: "{"},
		keys.RightBracket: {Base: "]", Shift: "}"},
		keys.Backslash:    {Base: "\\", Shift: "|"},
		keys.Semicolon:    {Base: ";", Shift: ":"},
		keys.Apostrophe:   {Base: "'", Shift: "\""},
		keys.Comma:        {Base: ",", Shift: "<"},
		keys.Period:       {Base: ".", Shift: ">"},
		keys.Slash:        {Base: "/", Shift: "?"},

		keys.Space:     {Base: " ", Shift: " "},
		keys.Tab:       {Base: "\t", Shift: "\t"},
		keys.Return:    {Base: "\n", Shift: "\n"},
		keys.KpReturn:  {Base: "\n", Shift: "\n"},
		keys.Backspace: {Base: "\b", Shift: "\b"},
		keys.Escape:    {Base: "\x1b", Shift: "\x1b"},

		keys.Kp0: {Base: "0", Shift: "0"},
		keys.Kp1: {Base: "1", Shift: "1"},
		keys.Kp2: {Base: "2", Shift: "2"},
		keys.Kp3: {Base: "3", Shift: "3"},
		keys.Kp4: {Base: "4", Shift: "4"},
		keys.Kp5: {Base: "5", Shift: "5"},
		keys.Kp6: {Base: "6", Shift: "6"},
		keys.Kp7: {Base: "7", Shift: "7"},
		keys.Kp8: {Base: "8", Shift: "8"},
		keys.Kp9: {Base: "9", Shift: "9"},

		keys.KpMinus:    {Base: "-", Shift: "-"},
		keys.KpPlus:     {Base: "+", Shift: "+"},
		keys.KpMultiply: {Base: "*", Shift: "*"},
		keys.KpDivide:   {Base: "/", Shift: "/"},
	}

	letters := map[keys.Key]string{
		keys.A: "a", keys.B: "b", keys.C: "c", keys.D: "d", keys.E: "e",
		keys.F: "f", keys.G: "g", keys.H: "h", keys.I: "i", keys.J: "j",
		keys.K: "k", keys.L: "l", keys.M: "m", keys.N: "n", keys.O: "o",
		keys.P: "p", keys.Q: "q", keys.R: "r", keys.S: "s", keys.T: "t",
		keys.U: "u", keys.V: "v", keys.W: "w", keys.X: "x", keys.Y: "y",
		keys.Z: "z",
	}
	for k, lower := range letters {
		upper := string(lower[0] - 'a' + 'A')
		e[k] = Entry{Base: lower, Shift: upper, CapsIsShift: true}
	}
	return e
}
