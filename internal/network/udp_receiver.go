package network

import (
	"net"
	"time"

	"go.uber.org/zap"

	"keytap"
	"keytap/internal/protocol"
)

// UDPReceiver is the client-side UDP listener that receives binary input
// events from a remote daemon with minimal latency.
type UDPReceiver struct {
	remoteAddr string // remote daemon address in "ip:port" format
	log        *zap.SugaredLogger
	conn       *net.UDPConn
	done       chan struct{}

	// OnEvent is called for each received input event with the sender's
	// millisecond timestamp.
	OnEvent func(keytap.EventType, int64)

	// dedup ring buffer for redundant packets
	dedup seqDedup
}

// seqDedup tracks recently seen sequence numbers to discard redundant packets.
// Uses a fixed-size ring buffer, no allocation, O(1) lookup.
type seqDedup struct {
	ring [512]uint32
	pos  int
	seen map[uint32]struct{}
}

func newSeqDedup() seqDedup {
	return seqDedup{seen: make(map[uint32]struct{}, 512)}
}

func (d *seqDedup) isDuplicate(seq uint32) bool {
	if _, ok := d.seen[seq]; ok {
		return true
	}
	// Evict oldest entry
	old := d.ring[d.pos]
	if old != 0 {
		delete(d.seen, old)
	}
	d.ring[d.pos] = seq
	d.seen[seq] = struct{}{}
	d.pos = (d.pos + 1) % len(d.ring)
	return false
}

// NewUDPReceiver creates a new UDP receiver.
// remoteAddr should be "ip:port" matching the remote daemon's UDP port.
func NewUDPReceiver(remoteAddr string, log *zap.SugaredLogger) *UDPReceiver {
	return &UDPReceiver{
		remoteAddr: remoteAddr,
		log:        log,
		done:       make(chan struct{}),
		dedup:      newSeqDedup(),
	}
}

// Probe tests whether UDP connectivity to the remote daemon is available.
// It sends register packets and waits for an Ack response.
// Returns true if the daemon replied within the timeout, false otherwise.
func (r *UDPReceiver) Probe() bool {
	remoteUDP, err := net.ResolveUDPAddr("udp", r.remoteAddr)
	if err != nil {
		r.log.Warnf("udp probe: failed to resolve remote: %v", err)
		return false
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		r.log.Warnf("udp probe: failed to bind: %v", err)
		return false
	}

	// Try up to 3 times with 500ms timeout each (total max ~1.5s)
	buf := make([]byte, 64)
	for attempt := 0; attempt < 3; attempt++ {
		pkt := &protocol.UDPPacket{
			Type:      protocol.UDPPacketRegister,
			Timestamp: time.Now().UnixMilli(),
		}
		conn.WriteToUDP(protocol.EncodeUDPPacket(pkt), remoteUDP)

		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			continue // timeout or error, retry
		}
		resp, err := protocol.DecodeUDPPacket(buf[:n])
		if err != nil {
			continue
		}
		if resp.Type == protocol.UDPPacketAck {
			conn.Close()
			r.log.Infof("udp probe: remote replied with ack (attempt %d), UDP path is open", attempt+1)
			return true
		}
	}

	conn.Close()
	r.log.Info("udp probe: no ack received after 3 attempts, UDP path blocked")
	return false
}

// Start opens a UDP socket, registers with the remote daemon, and begins
// receiving. Call Probe() first to verify UDP connectivity.
func (r *UDPReceiver) Start() error {
	remoteUDP, err := net.ResolveUDPAddr("udp", r.remoteAddr)
	if err != nil {
		return err
	}

	// Bind to any available local port
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		return err
	}
	r.conn = conn

	// Large read buffer for burst receives
	conn.SetReadBuffer(1 << 20) // 1 MB

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	r.log.Infof("udp receiver: listening on :%d, remote=%s", localAddr.Port, r.remoteAddr)

	// Send initial register
	r.sendControl(protocol.UDPPacketRegister, remoteUDP)

	// Periodic heartbeat
	go r.heartbeatLoop(remoteUDP)

	// Main receive loop
	go r.readLoop()

	return nil
}

// heartbeatLoop sends periodic heartbeat packets to keep the registration alive.
func (r *UDPReceiver) heartbeatLoop(remoteAddr *net.UDPAddr) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.sendControl(protocol.UDPPacketHeartbeat, remoteAddr)
		case <-r.done:
			return
		}
	}
}

// sendControl sends a register or heartbeat packet (header-only, no payload).
func (r *UDPReceiver) sendControl(pktType uint8, addr *net.UDPAddr) {
	pkt := &protocol.UDPPacket{
		Type:      pktType,
		Timestamp: time.Now().UnixMilli(),
	}
	r.conn.WriteToUDP(protocol.EncodeUDPPacket(pkt), addr)
}

// readLoop reads and dispatches incoming binary input packets.
func (r *UDPReceiver) readLoop() {
	buf := make([]byte, 64)
	for {
		r.conn.SetReadDeadline(time.Time{}) // clear any deadline from probe
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-r.done:
				return
			default:
				continue
			}
		}

		pkt, err := protocol.DecodeUDPPacket(buf[:n])
		if err != nil {
			continue
		}

		// Deduplicate redundant packets (same seq number)
		if pkt.Type != protocol.UDPPacketRegister && pkt.Type != protocol.UDPPacketHeartbeat {
			if r.dedup.isDuplicate(pkt.Seq) {
				continue
			}
		}

		if r.OnEvent == nil {
			continue
		}
		et, err := pkt.EventType()
		if err != nil {
			continue
		}
		r.OnEvent(et, pkt.Timestamp)
	}
}

// Stop shuts down the UDP receiver.
func (r *UDPReceiver) Stop() {
	close(r.done)
	if r.conn != nil {
		r.conn.Close()
	}
}
