// Package hotkey matches chords like "Ctrl+Alt+Shift+Esc" against the
// stream of observed input events. It holds no OS hooks of its own; feed
// it every event the observer reports.
package hotkey

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"keytap"
	"keytap/keys"
)

// Manager handles hotkey registration and matching
type Manager struct {
	log          *zap.SugaredLogger
	mu           sync.RWMutex
	hotkeys      []*registeredHotkey
	currentState map[string]bool // chord tokens currently held
}

type registeredHotkey struct {
	parts    []string // e.g., ["CTRL", "ALT", "ESC"]
	original string
	callback func()
}

// NewManager creates a new hotkey manager
func NewManager(log *zap.SugaredLogger) *Manager {
	return &Manager{
		log:          log,
		currentState: make(map[string]bool),
	}
}

// Register registers a hotkey string (e.g. "Ctrl+Alt+1", "Ctrl+Mouse3")
// and a callback. An empty string registers nothing.
func (m *Manager) Register(hotkeyStr string, callback func()) {
	if hotkeyStr == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.Split(strings.ToUpper(hotkeyStr), "+")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	m.hotkeys = append(m.hotkeys, &registeredHotkey{
		parts:    parts,
		original: hotkeyStr,
		callback: callback,
	})
}

// Clear removes all registered hotkeys
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = nil
}

// Track updates chord state from one observed event and fires callbacks
// whose chord just completed. Events that are not key or button
// transitions are ignored.
func (m *Manager) Track(ev keytap.Event) {
	var token string
	var down bool

	switch ev.Kind {
	case keytap.KindKeyPress:
		token, down = chordToken(ev.Key), true
	case keytap.KindKeyRelease:
		token, down = chordToken(ev.Key), false
	case keytap.KindButtonPress:
		token, down = buttonToken(ev.Button), true
	case keytap.KindButtonRelease:
		token, down = buttonToken(ev.Button), false
	default:
		return
	}
	if token == "" {
		return
	}

	m.mu.Lock()
	if down {
		m.currentState[token] = true
	} else {
		delete(m.currentState, token)
	}
	m.mu.Unlock()

	if down {
		m.checkMatches()
	}
}

func (m *Manager) checkMatches() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, hk := range m.hotkeys {
		match := true
		// All parts of the hotkey must be in currentState
		for _, part := range hk.parts {
			if !m.currentState[part] {
				match = false
				break
			}
		}

		if match {
			m.log.Infof("hotkey triggered: %s", hk.original)
			go hk.callback()
		}
	}
}

// chordToken folds left/right variants of the modifiers together and
// strips prefixes so chord strings can use the familiar short names.
func chordToken(k keys.Key) string {
	switch k {
	case keys.ControlLeft, keys.ControlRight:
		return "CTRL"
	case keys.ShiftLeft, keys.ShiftRight:
		return "SHIFT"
	case keys.Alt, keys.AltGr:
		return "ALT"
	case keys.MetaLeft, keys.MetaRight:
		return "META"
	case keys.Escape:
		return "ESC"
	case keys.Return:
		return "ENTER"
	}
	if k.IsUnknown() {
		return ""
	}
	name := strings.ToUpper(k.String())
	name = strings.TrimPrefix(name, "DIGIT")
	return name
}

func buttonToken(b keytap.Button) string {
	switch b {
	case keytap.ButtonLeft:
		return "MOUSE1"
	case keytap.ButtonRight:
		return "MOUSE2"
	case keytap.ButtonMiddle:
		return "MOUSE3"
	}
	return ""
}
