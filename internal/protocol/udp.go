package protocol

import (
	"encoding/binary"
	"errors"
	"math"

	"keytap"
	"keytap/keys"
)

// UDP Packet types
const (
	UDPPacketMouseMove uint8 = 0x01
	UDPPacketButton    uint8 = 0x02
	UDPPacketWheel     uint8 = 0x03
	UDPPacketKey       uint8 = 0x04
	UDPPacketRegister  uint8 = 0x10
	UDPPacketHeartbeat uint8 = 0x11
	UDPPacketAck       uint8 = 0x12 // daemon -> client: confirms UDP path is open
)

// Header: [type(1)] [seq(4)] [timestamp(8)] = 13 bytes
const UDPHeaderSize = 13

// UDPPacket is a binary-encoded input event for the low-latency UDP
// transport. Key and Button carry the full 64-bit values so unknown
// platform codes survive the trip.
//
// Wire format per type:
//
//	MouseMove (0x01): header + x(float64) + y(float64)       = 29 bytes
//	Button    (0x02): header + button(uint64) + pressed(1)   = 22 bytes
//	Wheel     (0x03): header + dx(int32) + dy(int32)         = 21 bytes
//	Key       (0x04): header + key(uint64) + pressed(1)      = 22 bytes
//	Register  (0x10): header only                            = 13 bytes
//	Heartbeat (0x11): header only                            = 13 bytes
type UDPPacket struct {
	Type      uint8
	Seq       uint32
	Timestamp int64
	X, Y      float64 // mouse move
	Button    uint64  // mouse button
	Key       uint64  // key
	Pressed   uint8   // button / key (1=pressed, 0=released)
	DeltaX    int32   // wheel
	DeltaY    int32   // wheel
}

// PacketFromEventType builds the wire packet for one input event.
func PacketFromEventType(e keytap.EventType, seq uint32, timestamp int64) (*UDPPacket, error) {
	pkt := &UDPPacket{Seq: seq, Timestamp: timestamp}
	switch e.Kind {
	case keytap.KindKeyPress, keytap.KindKeyRelease:
		pkt.Type = UDPPacketKey
		pkt.Key = uint64(e.Key)
		if e.Kind == keytap.KindKeyPress {
			pkt.Pressed = 1
		}
	case keytap.KindButtonPress, keytap.KindButtonRelease:
		pkt.Type = UDPPacketButton
		pkt.Button = uint64(e.Button)
		if e.Kind == keytap.KindButtonPress {
			pkt.Pressed = 1
		}
	case keytap.KindMouseMove:
		pkt.Type = UDPPacketMouseMove
		pkt.X, pkt.Y = e.X, e.Y
	case keytap.KindWheel:
		pkt.Type = UDPPacketWheel
		pkt.DeltaX = int32(e.DeltaX)
		pkt.DeltaY = int32(e.DeltaY)
	default:
		return nil, errors.New("udp: event kind has no packet type")
	}
	return pkt, nil
}

// EventType reconstructs the input event carried by an event packet.
func (pkt *UDPPacket) EventType() (keytap.EventType, error) {
	switch pkt.Type {
	case UDPPacketKey:
		k := keys.Key(pkt.Key)
		if pkt.Pressed == 1 {
			return keytap.KeyPress(k), nil
		}
		return keytap.KeyRelease(k), nil
	case UDPPacketButton:
		b := keytap.Button(pkt.Button)
		if pkt.Pressed == 1 {
			return keytap.ButtonPress(b), nil
		}
		return keytap.ButtonRelease(b), nil
	case UDPPacketMouseMove:
		return keytap.MouseMove(pkt.X, pkt.Y), nil
	case UDPPacketWheel:
		return keytap.Wheel(int64(pkt.DeltaX), int64(pkt.DeltaY)), nil
	}
	return keytap.EventType{}, errors.New("udp: packet carries no event")
}

// EncodeUDPPacket serializes a UDPPacket to wire format.
func EncodeUDPPacket(pkt *UDPPacket) []byte {
	size := UDPHeaderSize
	switch pkt.Type {
	case UDPPacketMouseMove:
		size += 16
	case UDPPacketButton, UDPPacketKey:
		size += 9
	case UDPPacketWheel:
		size += 8
	}

	buf := make([]byte, size)
	buf[0] = pkt.Type
	binary.BigEndian.PutUint32(buf[1:5], pkt.Seq)
	binary.BigEndian.PutUint64(buf[5:13], uint64(pkt.Timestamp))

	payload := buf[UDPHeaderSize:]
	switch pkt.Type {
	case UDPPacketMouseMove:
		binary.BigEndian.PutUint64(payload[0:8], math.Float64bits(pkt.X))
		binary.BigEndian.PutUint64(payload[8:16], math.Float64bits(pkt.Y))
	case UDPPacketButton:
		binary.BigEndian.PutUint64(payload[0:8], pkt.Button)
		payload[8] = pkt.Pressed
	case UDPPacketKey:
		binary.BigEndian.PutUint64(payload[0:8], pkt.Key)
		payload[8] = pkt.Pressed
	case UDPPacketWheel:
		binary.BigEndian.PutUint32(payload[0:4], uint32(pkt.DeltaX))
		binary.BigEndian.PutUint32(payload[4:8], uint32(pkt.DeltaY))
	}

	return buf
}

// DecodeUDPPacket deserializes wire bytes into a UDPPacket.
func DecodeUDPPacket(data []byte) (*UDPPacket, error) {
	if len(data) < UDPHeaderSize {
		return nil, errors.New("udp: packet too short")
	}

	pkt := &UDPPacket{
		Type:      data[0],
		Seq:       binary.BigEndian.Uint32(data[1:5]),
		Timestamp: int64(binary.BigEndian.Uint64(data[5:13])),
	}

	payload := data[UDPHeaderSize:]
	switch pkt.Type {
	case UDPPacketMouseMove:
		if len(payload) < 16 {
			return nil, errors.New("udp: mouse move payload too short")
		}
		pkt.X = math.Float64frombits(binary.BigEndian.Uint64(payload[0:8]))
		pkt.Y = math.Float64frombits(binary.BigEndian.Uint64(payload[8:16]))
	case UDPPacketButton:
		if len(payload) < 9 {
			return nil, errors.New("udp: button payload too short")
		}
		pkt.Button = binary.BigEndian.Uint64(payload[0:8])
		pkt.Pressed = payload[8]
	case UDPPacketKey:
		if len(payload) < 9 {
			return nil, errors.New("udp: key payload too short")
		}
		pkt.Key = binary.BigEndian.Uint64(payload[0:8])
		pkt.Pressed = payload[8]
	case UDPPacketWheel:
		if len(payload) < 8 {
			return nil, errors.New("udp: wheel payload too short")
		}
		pkt.DeltaX = int32(binary.BigEndian.Uint32(payload[0:4]))
		pkt.DeltaY = int32(binary.BigEndian.Uint32(payload[4:8]))
	case UDPPacketRegister, UDPPacketHeartbeat, UDPPacketAck:
		// no payload
	default:
		return nil, errors.New("udp: unknown packet type")
	}

	return pkt, nil
}
