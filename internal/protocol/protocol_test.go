package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keytap"
	"keytap/keys"
)

func TestKindNames(t *testing.T) {
	assert.Equal(t, "key_press", KindName(keytap.KindKeyPress))
	assert.Equal(t, "wheel", KindName(keytap.KindWheel))
	assert.Empty(t, KindName(keytap.EventKind(99)))

	k, ok := ParseKind("button_release")
	require.True(t, ok)
	assert.Equal(t, keytap.KindButtonRelease, k)

	_, ok = ParseKind("nonsense")
	assert.False(t, ok)
}

func TestWireEventRoundTrip(t *testing.T) {
	name := "é"
	now := time.Unix(0, 1756600000000000000)

	tests := []struct {
		name  string
		event keytap.Event
	}{
		{"key press with name", keytap.Event{Time: now, Name: &name, EventType: keytap.KeyPress(keys.E)}},
		{"key release", keytap.Event{Time: now, EventType: keytap.KeyRelease(keys.ShiftLeft)}},
		{"unknown key", keytap.Event{Time: now, EventType: keytap.KeyPress(keys.Unknown(0xE05B))}},
		{"button press", keytap.Event{Time: now, EventType: keytap.ButtonPress(keytap.ButtonMiddle)}},
		{"unknown button", keytap.Event{Time: now, EventType: keytap.ButtonRelease(keytap.UnknownButton(7))}},
		{"mouse move", keytap.Event{Time: now, EventType: keytap.MouseMove(1203.5, 411.25)}},
		{"wheel", keytap.Event{Time: now, EventType: keytap.Wheel(-2, 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := FromEvent(tt.event)

			// Through JSON too, to exercise the struct tags.
			raw, err := json.Marshal(w)
			require.NoError(t, err)
			var back WireEvent
			require.NoError(t, json.Unmarshal(raw, &back))

			got, err := back.ToEvent()
			require.NoError(t, err)
			assert.Equal(t, tt.event.EventType, got.EventType)
			assert.True(t, tt.event.Time.Equal(got.Time))
			if tt.event.Name != nil {
				require.NotNil(t, got.Name)
				assert.Equal(t, *tt.event.Name, *got.Name)
			} else {
				assert.Nil(t, got.Name)
			}
		})
	}
}

func TestWireEventBadInput(t *testing.T) {
	_, err := WireEvent{Kind: "teleport"}.ToEvent()
	assert.Error(t, err)

	_, err = WireEvent{Kind: "key_press", Key: "NoSuchKey"}.ToEvent()
	assert.Error(t, err)

	_, err = WireEvent{Kind: "button_press", Button: "Fourth"}.ToEvent()
	assert.Error(t, err)
}

func TestEncodeMessage(t *testing.T) {
	data, err := EncodeMessage(TypeAuth, AuthPayload{Token: "secret", ClientName: "test"})
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, TypeAuth, msg.Type)

	var auth AuthPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &auth))
	assert.Equal(t, "secret", auth.Token)
	assert.Equal(t, "test", auth.ClientName)
}
