package hotkey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"keytap"
	"keytap/keys"
)

func newTestManager() *Manager {
	return NewManager(zap.NewNop().Sugar())
}

func press(k keys.Key) keytap.Event   { return keytap.Event{EventType: keytap.KeyPress(k)} }
func release(k keys.Key) keytap.Event { return keytap.Event{EventType: keytap.KeyRelease(k)} }

func fired(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(time.Second):
		return false
	}
}

func quiet(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return false
	case <-time.After(50 * time.Millisecond):
		return true
	}
}

func TestEscapeChord(t *testing.T) {
	m := newTestManager()
	ch := make(chan struct{}, 1)
	m.Register("Ctrl+Alt+Shift+Esc", func() { ch <- struct{}{} })

	m.Track(press(keys.ControlLeft))
	m.Track(press(keys.Alt))
	m.Track(press(keys.ShiftLeft))
	assert.True(t, quiet(ch), "chord incomplete, must not fire")

	m.Track(press(keys.Escape))
	assert.True(t, fired(ch))
}

func TestRightHandModifiersFoldTogether(t *testing.T) {
	m := newTestManager()
	ch := make(chan struct{}, 1)
	m.Register("Ctrl+Shift+Esc", func() { ch <- struct{}{} })

	m.Track(press(keys.ControlRight))
	m.Track(press(keys.ShiftRight))
	m.Track(press(keys.Escape))
	assert.True(t, fired(ch))
}

func TestReleaseBreaksChord(t *testing.T) {
	m := newTestManager()
	ch := make(chan struct{}, 1)
	m.Register("Ctrl+1", func() { ch <- struct{}{} })

	m.Track(press(keys.ControlLeft))
	m.Track(release(keys.ControlLeft))
	m.Track(press(keys.Digit1))
	assert.True(t, quiet(ch))

	m.Track(press(keys.ControlLeft))
	m.Track(press(keys.Digit1))
	assert.True(t, fired(ch))
}

func TestMouseButtonChord(t *testing.T) {
	m := newTestManager()
	ch := make(chan struct{}, 1)
	m.Register("Ctrl+Mouse3", func() { ch <- struct{}{} })

	m.Track(press(keys.ControlLeft))
	m.Track(keytap.Event{EventType: keytap.ButtonPress(keytap.ButtonMiddle)})
	assert.True(t, fired(ch))
}

func TestClear(t *testing.T) {
	m := newTestManager()
	ch := make(chan struct{}, 1)
	m.Register("Esc", func() { ch <- struct{}{} })
	m.Clear()

	m.Track(press(keys.Escape))
	assert.True(t, quiet(ch))
}

func TestIgnoredEvents(t *testing.T) {
	m := newTestManager()
	ch := make(chan struct{}, 1)
	m.Register("Esc", func() { ch <- struct{}{} })

	m.Track(keytap.Event{EventType: keytap.MouseMove(3, 4)})
	m.Track(keytap.Event{EventType: keytap.Wheel(0, 1)})
	m.Track(press(keys.Unknown(0x1234)))
	assert.True(t, quiet(ch))
}
