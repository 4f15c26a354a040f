package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamed(t *testing.T) {
	all := Named()
	require.NotEmpty(t, all)

	seen := map[string]bool{}
	for _, k := range all {
		assert.False(t, k.IsUnknown())
		s := k.String()
		assert.False(t, seen[s], "duplicate name %q", s)
		seen[s] = true
	}
	assert.Contains(t, seen, "Escape")
	assert.Contains(t, seen, "KpReturn")
}

func TestUnknownRoundTrip(t *testing.T) {
	k := Unknown(0xE05B)
	assert.True(t, k.IsUnknown())
	assert.Equal(t, uint32(0xE05B), k.Raw())
	assert.Equal(t, "Unknown(0xE05B)", k.String())

	// Unknown values never collide with named keys, raw zero included.
	assert.NotEqual(t, Key(0), Unknown(0))
	assert.True(t, Unknown(0).IsUnknown())
}

func TestRawOnNamedKey(t *testing.T) {
	assert.Zero(t, Escape.Raw())
	assert.False(t, Escape.IsUnknown())
}

func TestIsModifier(t *testing.T) {
	for _, k := range []Key{ShiftLeft, ShiftRight, ControlLeft, ControlRight, Alt, AltGr, MetaLeft, MetaRight, CapsLock} {
		assert.True(t, k.IsModifier(), "%s", k)
	}
	for _, k := range []Key{A, Space, Return, F1, NumLock, Unknown(29)} {
		assert.False(t, k.IsModifier(), "%s", k)
	}
}
