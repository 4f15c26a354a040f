package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keytap"
	"keytap/keys"
)

func TestUDPEventRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		event keytap.EventType
		size  int
	}{
		{"key press", keytap.KeyPress(keys.A), UDPHeaderSize + 9},
		{"key release", keytap.KeyRelease(keys.Return), UDPHeaderSize + 9},
		{"unknown key", keytap.KeyPress(keys.Unknown(0xFFFF)), UDPHeaderSize + 9},
		{"button press", keytap.ButtonPress(keytap.ButtonRight), UDPHeaderSize + 9},
		{"unknown button", keytap.ButtonRelease(keytap.UnknownButton(9)), UDPHeaderSize + 9},
		{"mouse move", keytap.MouseMove(1919.0, 1079.5), UDPHeaderSize + 16},
		{"wheel", keytap.Wheel(1, -3), UDPHeaderSize + 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := PacketFromEventType(tt.event, 42, 1756600000123)
			require.NoError(t, err)

			wire := EncodeUDPPacket(pkt)
			assert.Len(t, wire, tt.size)

			back, err := DecodeUDPPacket(wire)
			require.NoError(t, err)
			assert.Equal(t, uint32(42), back.Seq)
			assert.Equal(t, int64(1756600000123), back.Timestamp)

			got, err := back.EventType()
			require.NoError(t, err)
			assert.Equal(t, tt.event, got)
		})
	}
}

func TestUDPControlPackets(t *testing.T) {
	for _, typ := range []uint8{UDPPacketRegister, UDPPacketHeartbeat, UDPPacketAck} {
		wire := EncodeUDPPacket(&UDPPacket{Type: typ, Seq: 7})
		assert.Len(t, wire, UDPHeaderSize)

		pkt, err := DecodeUDPPacket(wire)
		require.NoError(t, err)
		assert.Equal(t, typ, pkt.Type)
		assert.Equal(t, uint32(7), pkt.Seq)

		_, err = pkt.EventType()
		assert.Error(t, err)
	}
}

func TestUDPDecodeErrors(t *testing.T) {
	_, err := DecodeUDPPacket([]byte{0x01, 0x02})
	assert.Error(t, err)

	// Valid header but truncated payload.
	wire := EncodeUDPPacket(&UDPPacket{Type: UDPPacketMouseMove, X: 1, Y: 2})
	_, err = DecodeUDPPacket(wire[:UDPHeaderSize+8])
	assert.Error(t, err)

	// Unknown type byte.
	bad := make([]byte, UDPHeaderSize)
	bad[0] = 0x7F
	_, err = DecodeUDPPacket(bad)
	assert.Error(t, err)

	_, err = PacketFromEventType(keytap.EventType{}, 0, 0)
	assert.Error(t, err)
}
