package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keytap/keys"
)

func TestLookupLevels(t *testing.T) {
	l := US()
	require.NotNil(t, l)

	tests := []struct {
		name  string
		key   keys.Key
		shift bool
		caps  bool
		want  string
	}{
		{"letter base", keys.A, false, false, "a"},
		{"letter shift", keys.A, true, false, "A"},
		{"letter caps", keys.A, false, true, "A"},
		{"letter caps cancels shift", keys.A, true, true, "a"},
		{"digit base", keys.Digit3, false, false, "3"},
		{"digit shift", keys.Digit3, true, false, "#"},
		{"digit ignores caps", keys.Digit3, false, true, "3"},
		{"digit shift with caps", keys.Digit3, true, true, "#"},
		{"space either level", keys.Space, true, false, " "},
		{"return newline", keys.Return, false, false, "\n"},
		{"keypad digit", keys.Kp7, false, false, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, dead, ok := l.Lookup(tt.key, tt.shift, tt.caps)
			require.True(t, ok)
			assert.Zero(t, dead)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestLookupUnmapped(t *testing.T) {
	l := US()
	_, _, ok := l.Lookup(keys.F1, false, false)
	assert.False(t, ok)
	_, _, ok = l.Lookup(keys.Unknown(0x1234), false, false)
	assert.False(t, ok)
}

func TestLookupDeadLevels(t *testing.T) {
	l := USInternational()
	require.NotNil(t, l)

	text, dead, ok := l.Lookup(keys.Apostrophe, false, false)
	require.True(t, ok)
	assert.Empty(t, text)
	assert.Equal(t, '´', dead)

	text, dead, ok = l.Lookup(keys.Apostrophe, true, false)
	require.True(t, ok)
	assert.Empty(t, text)
	assert.Equal(t, '¨', dead)

	// Digit6 is dead only at the shift level.
	text, dead, ok = l.Lookup(keys.Digit6, false, false)
	require.True(t, ok)
	assert.Equal(t, "6", text)
	assert.Zero(t, dead)

	_, dead, ok = l.Lookup(keys.Digit6, true, false)
	require.True(t, ok)
	assert.Equal(t, 'ˆ', dead)
}

func TestCompose(t *testing.T) {
	l := USInternational()

	got, ok := l.Compose('´', "e")
	require.True(t, ok)
	assert.Equal(t, "é", got)

	got, ok = l.Compose('~', "N")
	require.True(t, ok)
	assert.Equal(t, "Ñ", got)

	_, ok = l.Compose('´', "t")
	assert.False(t, ok)

	_, ok = l.Compose('x', "e")
	assert.False(t, ok)

	_, ok = l.Compose('´', "")
	assert.False(t, ok)
}

func TestFind(t *testing.T) {
	l := US()

	k, shifted, ok := l.Find('a')
	require.True(t, ok)
	assert.Equal(t, keys.A, k)
	assert.False(t, shifted)

	k, shifted, ok = l.Find('A')
	require.True(t, ok)
	assert.Equal(t, keys.A, k)
	assert.True(t, shifted)

	k, shifted, ok = l.Find('!')
	require.True(t, ok)
	assert.Equal(t, keys.Digit1, k)
	assert.True(t, shifted)

	_, _, ok = l.Find('é')
	assert.False(t, ok)
}

func TestFindDeterministic(t *testing.T) {
	// "7" is produced by both Digit7 and Kp7; the lowest key value wins.
	l := US()
	for i := 0; i < 50; i++ {
		k, shifted, ok := l.Find('7')
		require.True(t, ok)
		assert.Equal(t, keys.Digit7, k)
		assert.False(t, shifted)
	}
}

func TestFindSkipsDeadLevels(t *testing.T) {
	// On us-intl the grave key is dead at both levels, so '`' is only
	// reachable through composition, not Find.
	l := USInternational()
	_, _, ok := l.Find('`')
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	l, ok := Get("us")
	require.True(t, ok)
	assert.Equal(t, "us", l.Name())

	l, ok = Get("us-intl")
	require.True(t, ok)
	assert.Equal(t, "us-intl", l.Name())

	_, ok = Get("dvorak")
	assert.False(t, ok)
}

func TestSetActive(t *testing.T) {
	require.NoError(t, SetActive("us-intl"))
	defer func() { _ = SetActive("") }()

	l, err := Active()
	require.NoError(t, err)
	assert.Equal(t, "us-intl", l.Name())

	assert.Error(t, SetActive("no-such-layout"))

	// The failed call must not clear the override.
	l, err = Active()
	require.NoError(t, err)
	assert.Equal(t, "us-intl", l.Name())

	require.NoError(t, SetActive(""))
}
