package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"keytap"
	"keytap/internal/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for now as this is a local network tool
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSManager handles WebSocket connections and event broadcasting
type WSManager struct {
	server     *Server
	clients    map[*WebSocketClient]bool
	clientsMu  sync.RWMutex
	broadcast  chan keytap.Event
	register   chan *WebSocketClient
	unregister chan *WebSocketClient
	shutdown   chan struct{}
}

// WebSocketClient represents a connected client
type WebSocketClient struct {
	manager *WSManager
	conn    *websocket.Conn
	send    chan []byte
	ip      string

	mu    sync.Mutex
	authd bool
	kinds map[string]bool // nil means all kinds
}

func newWSManager(s *Server) *WSManager {
	return &WSManager{
		server:     s,
		clients:    make(map[*WebSocketClient]bool),
		broadcast:  make(chan keytap.Event, 256),
		register:   make(chan *WebSocketClient),
		unregister: make(chan *WebSocketClient),
		shutdown:   make(chan struct{}),
	}
}

func (m *WSManager) start() {
	for {
		select {
		case client := <-m.register:
			m.clientsMu.Lock()
			m.clients[client] = true
			total := len(m.clients)
			m.clientsMu.Unlock()
			m.server.log.Infof("ws: new client registered from %s, total clients: %d", client.ip, total)

		case client := <-m.unregister:
			m.clientsMu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.send)
				m.server.log.Infof("ws: client unregistered from %s, total clients: %d", client.ip, len(m.clients))
			}
			m.clientsMu.Unlock()

		case ev := <-m.broadcast:
			m.broadcastEvent(ev)

		case <-m.shutdown:
			return
		}
	}
}

func (m *WSManager) clientCount() int {
	m.clientsMu.RLock()
	defer m.clientsMu.RUnlock()
	return len(m.clients)
}

func (m *WSManager) broadcastEvent(ev keytap.Event) {
	wire := protocol.FromEvent(ev)
	data, err := protocol.EncodeMessage(protocol.TypeEvent, wire)
	if err != nil {
		m.server.log.Warnf("ws: failed to marshal event: %v", err)
		return
	}

	m.clientsMu.Lock()
	defer m.clientsMu.Unlock()

	for client := range m.clients {
		if !client.wants(wire.Kind) {
			continue
		}
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(m.clients, client)
		}
	}
}

func (c *WebSocketClient) wants(kind string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kinds == nil {
		return true
	}
	return c.kinds[kind]
}

func (m *WSManager) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.server.log.Warnf("ws: failed to upgrade connection: %v", err)
		return
	}

	client := &WebSocketClient{
		manager: m,
		conn:    conn,
		send:    make(chan []byte, 256),
		ip:      r.RemoteAddr,
	}

	m.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(8192)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.manager.server.log.Warnf("ws: read error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(50 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *WebSocketClient) handleMessage(data []byte) {
	log := c.manager.server.log

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Warnf("ws: invalid message format: %v", err)
		return
	}

	switch msg.Type {
	case protocol.TypeAuth:
		var payload protocol.AuthPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Warnf("ws: invalid auth payload: %v", err)
			return
		}
		if token := c.manager.server.token; token != "" && payload.Token != token {
			log.Warnf("ws: auth failed for %s", c.ip)
			c.conn.Close()
			return
		}
		c.mu.Lock()
		c.authd = true
		c.mu.Unlock()
		log.Infof("ws: client %s authenticated (%s %s)", c.ip, payload.ClientName, payload.ClientVersion)

	case protocol.TypeSubscribe:
		var payload protocol.SubscribePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Warnf("ws: invalid subscribe payload: %v", err)
			return
		}
		c.setKinds(payload.Kinds)

	case protocol.TypeInject:
		if !c.authorized() {
			log.Warnf("ws: unauthenticated inject from %s dropped", c.ip)
			return
		}
		var wire protocol.WireEvent
		if err := json.Unmarshal(msg.Payload, &wire); err != nil {
			log.Warnf("ws: invalid inject payload: %v", err)
			return
		}
		ev, err := wire.ToEvent()
		if err != nil {
			log.Warnf("ws: undecodable inject event: %v", err)
			return
		}

		// Injection can block on the OS; keep it off the read pump.
		go func() {
			if err := c.manager.server.inject(ev.EventType); err != nil {
				log.Warnf("ws: inject failed: %v", err)
			}
		}()

	case protocol.TypePing:
		// application-level heartbeat
	}
}

func (c *WebSocketClient) authorized() bool {
	if c.manager.server.token == "" {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authd
}

func (c *WebSocketClient) setKinds(kinds []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(kinds) == 0 {
		c.kinds = nil
		return
	}
	c.kinds = make(map[string]bool, len(kinds))
	for _, k := range kinds {
		c.kinds[k] = true
	}
}

// BroadcastEvent queues an event for delivery to subscribed clients. It
// never blocks the caller; events are dropped if the hub is saturated.
func (m *WSManager) BroadcastEvent(ev keytap.Event) {
	select {
	case m.broadcast <- ev:
	default:
	}
}
