package keytap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keytap/keys"
	"keytap/layout"
)

func newUSKeyboard(t *testing.T) *Keyboard {
	t.Helper()
	return NewKeyboardForLayout(layout.US())
}

func newIntlKeyboard(t *testing.T) *Keyboard {
	t.Helper()
	return NewKeyboardForLayout(layout.USInternational())
}

func addText(t *testing.T, kb *Keyboard, e EventType) string {
	t.Helper()
	text, ok := kb.Add(e)
	require.True(t, ok, "expected %v to produce text", e)
	return text
}

func addNone(t *testing.T, kb *Keyboard, e EventType) {
	t.Helper()
	text, ok := kb.Add(e)
	require.False(t, ok, "expected %v to produce nothing, got %q", e, text)
	require.Empty(t, text)
}

func TestKeyboardPlainAndShifted(t *testing.T) {
	kb := newUSKeyboard(t)

	assert.Equal(t, "s", addText(t, kb, KeyPress(keys.S)))
	addNone(t, kb, KeyRelease(keys.S))

	addNone(t, kb, KeyPress(keys.ShiftLeft))
	assert.Equal(t, "S", addText(t, kb, KeyPress(keys.S)))
	addNone(t, kb, KeyRelease(keys.S))
	addNone(t, kb, KeyRelease(keys.ShiftLeft))

	assert.Equal(t, "s", addText(t, kb, KeyPress(keys.S)))
}

func TestKeyboardBothShiftKeys(t *testing.T) {
	kb := newUSKeyboard(t)

	addNone(t, kb, KeyPress(keys.ShiftLeft))
	addNone(t, kb, KeyPress(keys.ShiftRight))
	addNone(t, kb, KeyRelease(keys.ShiftLeft))

	// Right shift still held.
	assert.Equal(t, "A", addText(t, kb, KeyPress(keys.A)))

	addNone(t, kb, KeyRelease(keys.ShiftRight))
	assert.Equal(t, "a", addText(t, kb, KeyPress(keys.A)))
}

func TestKeyboardShiftOnSymbols(t *testing.T) {
	kb := newUSKeyboard(t)

	assert.Equal(t, "1", addText(t, kb, KeyPress(keys.Digit1)))
	addNone(t, kb, KeyPress(keys.ShiftLeft))
	assert.Equal(t, "!", addText(t, kb, KeyPress(keys.Digit1)))
	assert.Equal(t, "{", addText(t, kb, KeyPress(keys.LeftBracket)))
}

func TestKeyboardCapsLockLatches(t *testing.T) {
	kb := newUSKeyboard(t)

	addNone(t, kb, KeyPress(keys.CapsLock))
	addNone(t, kb, KeyRelease(keys.CapsLock))
	assert.Equal(t, "Q", addText(t, kb, KeyPress(keys.Q)))

	// Caps lock and shift cancel on letters.
	addNone(t, kb, KeyPress(keys.ShiftLeft))
	assert.Equal(t, "q", addText(t, kb, KeyPress(keys.Q)))
	// ...but not on the number row.
	assert.Equal(t, "@", addText(t, kb, KeyPress(keys.Digit2)))
	addNone(t, kb, KeyRelease(keys.ShiftLeft))

	// Number row ignores caps lock entirely.
	assert.Equal(t, "2", addText(t, kb, KeyPress(keys.Digit2)))

	// Second toggle restores lowercase.
	addNone(t, kb, KeyPress(keys.CapsLock))
	addNone(t, kb, KeyRelease(keys.CapsLock))
	assert.Equal(t, "q", addText(t, kb, KeyPress(keys.Q)))
}

func TestKeyboardModifiersProduceNothing(t *testing.T) {
	kb := newUSKeyboard(t)

	for _, k := range []keys.Key{
		keys.ShiftLeft, keys.ShiftRight, keys.ControlLeft, keys.ControlRight,
		keys.Alt, keys.AltGr, keys.MetaLeft, keys.MetaRight, keys.CapsLock,
	} {
		addNone(t, kb, KeyPress(k))
		addNone(t, kb, KeyRelease(k))
	}
	// Caps lock was toggled once above, so this reads as uppercase.
	assert.Equal(t, "Z", addText(t, kb, KeyPress(keys.Z)))
}

func TestKeyboardNonKeyEvents(t *testing.T) {
	kb := newUSKeyboard(t)

	addNone(t, kb, MouseMove(10, 20))
	addNone(t, kb, ButtonPress(ButtonLeft))
	addNone(t, kb, Wheel(0, -1))
	addNone(t, kb, KeyPress(keys.F5))
	addNone(t, kb, KeyPress(keys.Unknown(0xBEEF)))
}

func TestKeyboardDeadKeyCompose(t *testing.T) {
	kb := newIntlKeyboard(t)

	// Apostrophe is an acute dead key on us-intl.
	addNone(t, kb, KeyPress(keys.Apostrophe))
	assert.Equal(t, "é", addText(t, kb, KeyPress(keys.E)))

	// Consumed: the next e is plain.
	assert.Equal(t, "e", addText(t, kb, KeyPress(keys.E)))
}

func TestKeyboardDeadKeyShiftedCompose(t *testing.T) {
	kb := newIntlKeyboard(t)

	addNone(t, kb, KeyPress(keys.Apostrophe))
	addNone(t, kb, KeyPress(keys.ShiftLeft))
	assert.Equal(t, "É", addText(t, kb, KeyPress(keys.E)))
}

func TestKeyboardDeadKeySpace(t *testing.T) {
	kb := newIntlKeyboard(t)

	addNone(t, kb, KeyPress(keys.Grave))
	assert.Equal(t, "`", addText(t, kb, KeyPress(keys.Space)))
}

func TestKeyboardDeadKeyNotCombinable(t *testing.T) {
	kb := newIntlKeyboard(t)

	// Acute does not combine with t: the mark is dropped silently and the
	// key's own mapping applies.
	addNone(t, kb, KeyPress(keys.Apostrophe))
	assert.Equal(t, "t", addText(t, kb, KeyPress(keys.T)))
}

func TestKeyboardDeadKeyReplacedNotStacked(t *testing.T) {
	kb := newIntlKeyboard(t)

	// A second dead key while one is pending: the first is discarded.
	addNone(t, kb, KeyPress(keys.Apostrophe))
	addNone(t, kb, KeyPress(keys.Grave))
	assert.Equal(t, "è", addText(t, kb, KeyPress(keys.E)))
}

func TestKeyboardDeadKeyClearedByUnmapped(t *testing.T) {
	kb := newIntlKeyboard(t)

	addNone(t, kb, KeyPress(keys.Apostrophe))
	addNone(t, kb, KeyPress(keys.F1))
	assert.Equal(t, "e", addText(t, kb, KeyPress(keys.E)))
}

func TestKeyboardDeadKeySurvivesModifiers(t *testing.T) {
	kb := newIntlKeyboard(t)

	// Pressing and releasing shift between the mark and the letter does
	// not discard the mark.
	addNone(t, kb, KeyPress(keys.Apostrophe))
	addNone(t, kb, KeyPress(keys.ShiftLeft))
	addNone(t, kb, KeyRelease(keys.ShiftLeft))
	assert.Equal(t, "é", addText(t, kb, KeyPress(keys.E)))
}

func TestKeyboardShiftedDeadKey(t *testing.T) {
	kb := newIntlKeyboard(t)

	// Shift+6 is the circumflex dead key.
	addNone(t, kb, KeyPress(keys.ShiftLeft))
	addNone(t, kb, KeyPress(keys.Digit6))
	addNone(t, kb, KeyRelease(keys.ShiftLeft))
	assert.Equal(t, "ô", addText(t, kb, KeyPress(keys.O)))
}

func TestKeyboardReset(t *testing.T) {
	kb := newIntlKeyboard(t)

	addNone(t, kb, KeyPress(keys.ShiftLeft))
	addNone(t, kb, KeyPress(keys.CapsLock))
	addNone(t, kb, KeyPress(keys.Apostrophe))
	kb.Reset()

	// All state gone: no shift, no caps, no pending mark.
	assert.Equal(t, "e", addText(t, kb, KeyPress(keys.E)))
}

func TestKeyboardDeterministic(t *testing.T) {
	seq := []EventType{
		KeyPress(keys.ShiftLeft),
		KeyPress(keys.H),
		KeyRelease(keys.ShiftLeft),
		KeyPress(keys.E),
		KeyPress(keys.Apostrophe),
		KeyPress(keys.E),
		KeyPress(keys.CapsLock),
		KeyPress(keys.L),
	}

	run := func() []string {
		kb := newIntlKeyboard(t)
		var out []string
		for _, e := range seq {
			if text, ok := kb.Add(e); ok {
				out = append(out, text)
			}
		}
		return out
	}

	first := run()
	assert.Equal(t, []string{"H", "e", "é", "L"}, first)
	assert.Equal(t, first, run())
}
