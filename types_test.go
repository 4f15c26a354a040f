package keytap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"keytap/keys"
)

func TestEventTypeComparable(t *testing.T) {
	assert.Equal(t, KeyPress(keys.A), KeyPress(keys.A))
	assert.NotEqual(t, KeyPress(keys.A), KeyRelease(keys.A))
	assert.NotEqual(t, KeyPress(keys.A), KeyPress(keys.B))

	// Constructors zero the fields the kind does not use, so values built
	// the same way always compare equal.
	m := map[EventType]int{MouseMove(1, 2): 1}
	assert.Equal(t, 1, m[MouseMove(1, 2)])
}

func TestUnknownButton(t *testing.T) {
	b := UnknownButton(8)
	assert.True(t, b.IsUnknown())
	assert.Equal(t, uint32(8), b.Raw())
	assert.NotEqual(t, ButtonLeft, UnknownButton(0))

	assert.Zero(t, ButtonMiddle.Raw())
	assert.False(t, ButtonMiddle.IsUnknown())
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "KeyPress(A)", KeyPress(keys.A).String())
	assert.Equal(t, "ButtonRelease(Middle)", ButtonRelease(ButtonMiddle).String())
	assert.Equal(t, "MouseMove(10.5, 20.0)", MouseMove(10.5, 20).String())
	assert.Equal(t, "Wheel(0, -3)", Wheel(0, -3).String())
}

func TestEventFieldPromotion(t *testing.T) {
	e := Event{EventType: Wheel(2, -1)}
	assert.Equal(t, KindWheel, e.Kind)
	assert.Equal(t, int64(2), e.DeltaX)
	assert.Equal(t, int64(-1), e.DeltaY)
	assert.Nil(t, e.Name)
}
