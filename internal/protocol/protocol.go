// Package protocol defines the wire formats spoken between the keytap
// daemon and its clients: a JSON message envelope for the WebSocket
// control channel and a compact binary encoding for the UDP event path.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"keytap"
	"keytap/keys"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeAuth is sent by a client immediately after connection to
	// authenticate with the daemon.
	TypeAuth MessageType = "auth"

	// TypeEvent carries one observed or injected input event.
	TypeEvent MessageType = "event"

	// TypeInject is sent by a client asking the daemon to synthesize
	// the embedded event locally.
	TypeInject MessageType = "inject"

	// TypeSubscribe selects which event kinds the client wants streamed.
	TypeSubscribe MessageType = "subscribe"

	// TypePing can be used for application-level heartbeats if needed
	TypePing MessageType = "ping"
)

// Message is the generic container for all WebSocket messages
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AuthPayload is the payload for TypeAuth
type AuthPayload struct {
	Token         string `json:"token"`
	ClientName    string `json:"client_name"`
	ClientVersion string `json:"client_version"`
}

// SubscribePayload is the payload for TypeSubscribe. An empty Kinds
// slice means all kinds.
type SubscribePayload struct {
	Kinds []string `json:"kinds"`
}

// WireEvent is the JSON shape of an input event. Key and Button carry
// the symbolic name when one exists; raw platform codes survive the
// round trip through KeyRaw and ButtonRaw.
type WireEvent struct {
	Kind      string  `json:"kind"`
	Time      int64   `json:"time_ns"`
	Name      *string `json:"name,omitempty"`
	Key       string  `json:"key,omitempty"`
	KeyRaw    uint32  `json:"key_raw,omitempty"`
	Button    string  `json:"button,omitempty"`
	ButtonRaw uint32  `json:"button_raw,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	DeltaX    int64   `json:"delta_x,omitempty"`
	DeltaY    int64   `json:"delta_y,omitempty"`
}

var kindNames = map[keytap.EventKind]string{
	keytap.KindKeyPress:      "key_press",
	keytap.KindKeyRelease:    "key_release",
	keytap.KindButtonPress:   "button_press",
	keytap.KindButtonRelease: "button_release",
	keytap.KindMouseMove:     "mouse_move",
	keytap.KindWheel:         "wheel",
}

var kindValues map[string]keytap.EventKind

func init() {
	kindValues = make(map[string]keytap.EventKind, len(kindNames))
	for k, n := range kindNames {
		kindValues[n] = k
	}
}

// KindName returns the wire name for k, or "" if k is not a valid kind.
func KindName(k keytap.EventKind) string {
	return kindNames[k]
}

// ParseKind is the inverse of KindName.
func ParseKind(s string) (keytap.EventKind, bool) {
	k, ok := kindValues[s]
	return k, ok
}

// FromEvent converts an observed event to its wire shape.
func FromEvent(e keytap.Event) WireEvent {
	w := WireEvent{
		Kind: kindNames[e.Kind],
		Time: e.Time.UnixNano(),
		Name: e.Name,
	}
	switch e.Kind {
	case keytap.KindKeyPress, keytap.KindKeyRelease:
		if e.Key.IsUnknown() {
			w.KeyRaw = e.Key.Raw()
		} else {
			w.Key = e.Key.String()
		}
	case keytap.KindButtonPress, keytap.KindButtonRelease:
		if e.Button.IsUnknown() {
			w.ButtonRaw = e.Button.Raw()
		} else {
			w.Button = e.Button.String()
		}
	case keytap.KindMouseMove:
		w.X, w.Y = e.X, e.Y
	case keytap.KindWheel:
		w.DeltaX, w.DeltaY = e.DeltaX, e.DeltaY
	}
	return w
}

// ToEvent converts a wire event back to the in-process representation.
func (w WireEvent) ToEvent() (keytap.Event, error) {
	kind, ok := kindValues[w.Kind]
	if !ok {
		return keytap.Event{}, fmt.Errorf("unknown event kind %q", w.Kind)
	}

	e := keytap.Event{Time: time.Unix(0, w.Time), Name: w.Name}
	switch kind {
	case keytap.KindKeyPress, keytap.KindKeyRelease:
		k, err := parseKey(w.Key, w.KeyRaw)
		if err != nil {
			return keytap.Event{}, err
		}
		if kind == keytap.KindKeyPress {
			e.EventType = keytap.KeyPress(k)
		} else {
			e.EventType = keytap.KeyRelease(k)
		}
	case keytap.KindButtonPress, keytap.KindButtonRelease:
		b, err := parseButton(w.Button, w.ButtonRaw)
		if err != nil {
			return keytap.Event{}, err
		}
		if kind == keytap.KindButtonPress {
			e.EventType = keytap.ButtonPress(b)
		} else {
			e.EventType = keytap.ButtonRelease(b)
		}
	case keytap.KindMouseMove:
		e.EventType = keytap.MouseMove(w.X, w.Y)
	case keytap.KindWheel:
		e.EventType = keytap.Wheel(w.DeltaX, w.DeltaY)
	}
	return e, nil
}

var keysByName = map[string]keys.Key{}

func init() {
	for _, k := range keys.Named() {
		keysByName[k.String()] = k
	}
}

func parseKey(name string, raw uint32) (keys.Key, error) {
	if name == "" {
		return keys.Unknown(raw), nil
	}
	if k, ok := keysByName[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown key name %q", name)
}

func parseButton(name string, raw uint32) (keytap.Button, error) {
	switch name {
	case "":
		return keytap.UnknownButton(raw), nil
	case "Left":
		return keytap.ButtonLeft, nil
	case "Right":
		return keytap.ButtonRight, nil
	case "Middle":
		return keytap.ButtonMiddle, nil
	}
	return 0, fmt.Errorf("unknown button name %q", name)
}

// EncodeMessage marshals a typed payload into an envelope.
func EncodeMessage(t MessageType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: t, Payload: raw})
}
