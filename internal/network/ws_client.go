package network

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"keytap"
	"keytap/internal/protocol"
)

// WSClient maintains the WebSocket connection to a remote keytap daemon.
// It reconnects automatically and stays usable across connection drops.
type WSClient struct {
	remoteAddr string
	token      string
	log        *zap.SugaredLogger
	send       chan protocol.Message
	done       chan struct{}

	// OnEvent is called for each event streamed by the remote daemon.
	OnEvent func(keytap.Event)

	mu          sync.Mutex
	conn        *websocket.Conn
	isConnected bool
}

// NewWSClient creates a new WebSocket client. remoteAddr is "host:port"
// of the remote daemon.
func NewWSClient(remoteAddr, token string, log *zap.SugaredLogger) *WSClient {
	return &WSClient{
		remoteAddr: remoteAddr,
		token:      token,
		log:        log,
		send:       make(chan protocol.Message, 100),
		done:       make(chan struct{}),
	}
}

// Start begins the client loop (connect & process)
func (c *WSClient) Start() {
	go c.loop()
}

func (c *WSClient) loop() {
	for {
		c.connect()

		// If connect returns, it means we disconnected. Wait a bit and retry.
		select {
		case <-c.done:
			return
		case <-time.After(5 * time.Second):
			c.log.Info("ws client: attempting reconnection")
			continue
		}
	}
}

func (c *WSClient) connect() {
	u := url.URL{Scheme: "ws", Host: c.remoteAddr, Path: "/ws"}
	c.log.Infof("ws client: connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		c.log.Warnf("ws client: connection failed: %v", err)
		return
	}
	defer conn.Close()

	c.mu.Lock()
	c.conn = conn
	c.isConnected = true
	c.mu.Unlock()

	c.log.Info("ws client: connected")

	c.sendAuth()

	connDone := make(chan struct{})
	go func() {
		defer close(connDone)
		c.writePump(conn)
	}()

	c.readPump(conn)

	c.mu.Lock()
	c.isConnected = false
	c.conn = nil
	c.mu.Unlock()

	<-connDone
}

func (c *WSClient) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(8192)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warnf("ws client: read error: %v", err)
			}
			break
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warnf("ws client: invalid message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *WSClient) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second) // Ping ticker
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			jsonMsg, err := json.Marshal(msg)
			if err != nil {
				c.log.Warnf("ws client: marshal error: %v", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, jsonMsg); err != nil {
				c.log.Warnf("ws client: write error: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *WSClient) handleMessage(msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeEvent:
		var wire protocol.WireEvent
		if err := json.Unmarshal(msg.Payload, &wire); err != nil {
			c.log.Warnf("ws client: invalid event payload: %v", err)
			return
		}
		ev, err := wire.ToEvent()
		if err != nil {
			c.log.Warnf("ws client: undecodable event: %v", err)
			return
		}
		if c.OnEvent != nil {
			c.OnEvent(ev)
		}

	case protocol.TypePing:
		// application-level heartbeat, nothing to do
	}
}

func (c *WSClient) sendAuth() {
	payload, _ := json.Marshal(protocol.AuthPayload{
		Token:         c.token,
		ClientName:    "keytap",
		ClientVersion: keytap.Version,
	})
	c.send <- protocol.Message{Type: protocol.TypeAuth, Payload: payload}
}

// SendEvent forwards one observed event to the remote daemon for
// injection there.
func (c *WSClient) SendEvent(ev keytap.Event) {
	payload, err := json.Marshal(protocol.FromEvent(ev))
	if err != nil {
		return
	}
	select {
	case c.send <- protocol.Message{Type: protocol.TypeInject, Payload: payload}:
	default:
		// drop rather than block the observer callback
	}
}

// Subscribe limits which event kinds the remote daemon streams back.
func (c *WSClient) Subscribe(kinds []string) {
	payload, _ := json.Marshal(protocol.SubscribePayload{Kinds: kinds})
	c.send <- protocol.Message{Type: protocol.TypeSubscribe, Payload: payload}
}

// IsConnected returns true if the client currently has a live connection.
func (c *WSClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// Close stops the client
func (c *WSClient) Close() {
	close(c.done)
}
