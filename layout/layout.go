// Package layout holds keyboard layout tables: the mapping from physical
// key positions and modifier state to produced text, including dead-key
// composition. A Layout is immutable once built and is loaded once per
// keyboard state engine; switching layouts means constructing a new
// engine.
package layout

import (
	"fmt"
	"sync"

	"keytap/keys"
)

// Entry describes what one physical key produces under each modifier
// level of a layout. A level either produces text or announces a dead
// mark, never both.
type Entry struct {
	// Base is the text produced with no modifiers active.
	Base string

	// Shift is the text produced with shift active.
	Shift string

	// CapsIsShift marks keys (letters) on which caps lock acts as a
	// latched shift, cancelling against a held shift.
	CapsIsShift bool

	// BaseDead, when nonzero, classifies the unmodified level as a dead
	// key producing this combining mark instead of text. ShiftDead does
	// the same for the shift level.
	BaseDead  rune
	ShiftDead rune
}

// Layout is a read-only table mapping physical keys to produced text plus
// the dead-key composition sub-table of the layout.
type Layout struct {
	name    string
	entries map[keys.Key]Entry
	compose map[rune]map[rune]string
}

// New builds a layout from its key entries and dead-key composition
// table. The compose table maps a dead mark and the base rune of the
// following key's output to the composed text.
func New(name string, entries map[keys.Key]Entry, compose map[rune]map[rune]string) *Layout {
	return &Layout{name: name, entries: entries, compose: compose}
}

// Name returns the registry name of the layout, e.g. "us".
func (l *Layout) Name() string { return l.name }

// Lookup resolves a physical key against the layout under the given
// shift and caps lock state. It returns the produced text, or a nonzero
// dead mark when the key acts as a dead key at that level. ok is false
// when the layout has no binding for the key at all.
func (l *Layout) Lookup(k keys.Key, shift, caps bool) (text string, dead rune, ok bool) {
	e, ok := l.entries[k]
	if !ok {
		return "", 0, false
	}

	level := shift
	if caps && e.CapsIsShift {
		level = !level
	}

	if level {
		if e.ShiftDead != 0 {
			return "", e.ShiftDead, true
		}
		return e.Shift, 0, true
	}
	if e.BaseDead != 0 {
		return "", e.BaseDead, true
	}
	return e.Base, 0, true
}

// Compose combines a pending dead mark with the following key's output.
// It matches on the first rune of text, so a shifted letter composes to
// its shifted accented form.
func (l *Layout) Compose(mark rune, text string) (string, bool) {
	targets, ok := l.compose[mark]
	if !ok || text == "" {
		return "", false
	}
	composed, ok := targets[[]rune(text)[0]]
	return composed, ok
}

// Find reverse-maps a rune to the physical key and shift state that
// produce it, for synthesizing text. Dead-key levels do not participate.
// When several keys produce the rune (keypad digits), the lowest key
// value wins, so the choice is deterministic.
func (l *Layout) Find(r rune) (k keys.Key, shifted bool, ok bool) {
	s := string(r)
	for key, e := range l.entries {
		if e.BaseDead == 0 && e.Base == s && (!ok || key < k) {
			k, ok = key, true
		}
	}
	if ok {
		return k, false, true
	}
	for key, e := range l.entries {
		if e.ShiftDead == 0 && e.Shift == s && (!ok || key < k) {
			k, ok = key, true
		}
	}
	return k, true, ok
}

var (
	mu       sync.RWMutex
	registry = make(map[string]*Layout)
)

// Register adds a layout to the process-wide registry. It panics when the
// name is already taken.
func Register(l *Layout) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[l.name]; ok {
		panic(fmt.Sprintf("layout already registered: %s", l.name))
	}
	registry[l.name] = l
}

// Get returns the registered layout with the given name.
func Get(name string) (*Layout, bool) {
	mu.RLock()
	defer mu.RUnlock()
	l, ok := registry[name]
	return l, ok
}

var override *Layout

// SetActive pins Active to a registered layout, bypassing OS detection.
// An empty name restores detection.
func SetActive(name string) error {
	mu.Lock()
	defer mu.Unlock()
	if name == "" {
		override = nil
		return nil
	}
	l, ok := registry[name]
	if !ok {
		return fmt.Errorf("layout %q not registered", name)
	}
	override = l
	return nil
}

// Active returns the layout the OS reports as current, or the layout
// pinned with SetActive. Detection runs on every call; the OS answer is
// cheap and callers hold the result for the life of an engine anyway.
func Active() (*Layout, error) {
	mu.RLock()
	o := override
	mu.RUnlock()
	if o != nil {
		return o, nil
	}
	return detect()
}
