package network

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"keytap"
	"keytap/internal/protocol"
)

// UDPSender is the daemon-side UDP broadcaster that sends binary input
// events to all registered peers with minimal overhead.
type UDPSender struct {
	conn    *net.UDPConn
	port    int
	log     *zap.SugaredLogger
	peers   map[string]*udpPeer
	peersMu sync.RWMutex
	seq     uint32 // atomic, monotonically increasing
	done    chan struct{}
}

type udpPeer struct {
	addr     *net.UDPAddr
	lastSeen time.Time
}

// NewUDPSender creates a new UDP sender listening on port.
func NewUDPSender(port int, log *zap.SugaredLogger) *UDPSender {
	return &UDPSender{
		port:  port,
		log:   log,
		peers: make(map[string]*udpPeer),
		done:  make(chan struct{}),
	}
}

// Start binds the UDP socket and begins listening for peer registrations.
func (s *UDPSender) Start() error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: s.port})
	if err != nil {
		return err
	}
	s.conn = conn

	// 1 MB write buffer for burst writes
	conn.SetWriteBuffer(1 << 20)
	// 64 KB read buffer for register/heartbeat
	conn.SetReadBuffer(1 << 16)

	s.log.Infof("udp sender: listening on :%d", s.port)

	go s.readLoop()
	go s.cleanupLoop()

	return nil
}

// readLoop listens for register and heartbeat packets from peers.
func (s *UDPSender) readLoop() {
	buf := make([]byte, 64)
	for {
		n, remoteAddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}

		pkt, err := protocol.DecodeUDPPacket(buf[:n])
		if err != nil {
			continue
		}

		switch pkt.Type {
		case protocol.UDPPacketRegister:
			key := remoteAddr.String()
			s.peersMu.Lock()
			if _, exists := s.peers[key]; !exists {
				s.log.Infof("udp sender: peer registered from %s", key)
			}
			s.peers[key] = &udpPeer{addr: remoteAddr, lastSeen: time.Now()}
			s.peersMu.Unlock()

			// Reply with Ack so the peer can confirm UDP connectivity
			ack := &protocol.UDPPacket{
				Type:      protocol.UDPPacketAck,
				Timestamp: time.Now().UnixMilli(),
			}
			s.conn.WriteToUDP(protocol.EncodeUDPPacket(ack), remoteAddr)

		case protocol.UDPPacketHeartbeat:
			key := remoteAddr.String()
			s.peersMu.Lock()
			if _, exists := s.peers[key]; !exists {
				s.log.Infof("udp sender: peer registered from %s (via heartbeat)", key)
			}
			s.peers[key] = &udpPeer{addr: remoteAddr, lastSeen: time.Now()}
			s.peersMu.Unlock()
		}
	}
}

// cleanupLoop removes peers that haven't sent a heartbeat recently.
func (s *UDPSender) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.peersMu.Lock()
			for key, peer := range s.peers {
				if time.Since(peer.lastSeen) > 30*time.Second {
					s.log.Infof("udp sender: removing stale peer %s", key)
					delete(s.peers, key)
				}
			}
			s.peersMu.Unlock()
		case <-s.done:
			return
		}
	}
}

// SendEvent encodes an input event as a binary UDP packet and sends it to
// all registered peers. Discrete events (keys, buttons, wheel) are sent
// multiple times for redundancy since UDP has no delivery guarantee;
// mouse moves are not, the next one supersedes a lost one anyway.
func (s *UDPSender) SendEvent(e keytap.EventType, timestamp int64) {
	pkt, err := protocol.PacketFromEventType(e, atomic.AddUint32(&s.seq, 1), timestamp)
	if err != nil {
		return
	}

	redundancy := 1
	switch e.Kind {
	case keytap.KindKeyPress, keytap.KindKeyRelease,
		keytap.KindButtonPress, keytap.KindButtonRelease:
		redundancy = 3
	case keytap.KindWheel:
		redundancy = 2
	}

	s.broadcast(protocol.EncodeUDPPacket(pkt), redundancy)
}

// broadcast sends data to all registered peers.
func (s *UDPSender) broadcast(data []byte, redundancy int) {
	s.peersMu.RLock()
	defer s.peersMu.RUnlock()

	for _, peer := range s.peers {
		for i := 0; i < redundancy; i++ {
			s.conn.WriteToUDP(data, peer.addr)
		}
	}
}

// HasPeers returns true if at least one peer is registered.
func (s *UDPSender) HasPeers() bool {
	s.peersMu.RLock()
	defer s.peersMu.RUnlock()
	return len(s.peers) > 0
}

// Stop shuts down the UDP sender.
func (s *UDPSender) Stop() {
	close(s.done)
	if s.conn != nil {
		s.conn.Close()
	}
}
