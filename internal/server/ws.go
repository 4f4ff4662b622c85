package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 256
	eventBuffer    = 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsConn struct {
	peer PeerID
	conn *websocket.Conn
	send chan []byte
}

// WebsocketTransport accepts game clients over HTTP upgrades. Every binary
// frame is one protocol message. Reliability is implied by TCP.
type WebsocketTransport struct {
	password string
	log      zerolog.Logger
	events   chan Event
	done     chan struct{}

	mu     sync.Mutex
	conns  map[PeerID]*wsConn
	closed bool
}

func NewWebsocketTransport(password string, log zerolog.Logger) *WebsocketTransport {
	return &WebsocketTransport{
		password: password,
		log:      log.With().Str("component", "websocket").Logger(),
		events:   make(chan Event, eventBuffer),
		done:     make(chan struct{}),
		conns:    map[PeerID]*wsConn{},
	}
}

// Start is a no-op; the HTTP server owns the listener.
func (t *WebsocketTransport) Start() error { return nil }

func (t *WebsocketTransport) Poll() (Event, bool) {
	select {
	case ev := <-t.events:
		return ev, true
	default:
		return Event{}, false
	}
}

func (t *WebsocketTransport) Send(peer PeerID, data []byte, _ bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.conns[peer]
	if !ok {
		return ErrUnknownPeer
	}
	select {
	case c.send <- data:
		return nil
	default:
		t.log.Warn().Str("peer", string(peer)).Msg("send buffer full")
		return ErrBufferFull
	}
}

func (t *WebsocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.done)
	for peer, c := range t.conns {
		close(c.send)
		delete(t.conns, peer)
	}
	return nil
}

// ServeHTTP upgrades the request and registers the new peer.
func (t *WebsocketTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !Authorized(t.password, r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		t.log.Debug().Err(err).Msg("upgrade failed")
		return
	}

	c := &wsConn{
		peer: PeerID("ws:" + uuid.NewString()),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close()
		return
	}
	t.conns[c.peer] = c
	t.mu.Unlock()

	t.emit(Event{Kind: PeerConnected, Peer: c.peer})
	t.log.Info().Str("peer", string(c.peer)).Str("remote", r.RemoteAddr).Msg("client connected")

	go t.writePump(c)
	go t.readPump(c)
}

func (t *WebsocketTransport) emit(ev Event) {
	select {
	case t.events <- ev:
	case <-t.done:
	}
}

func (t *WebsocketTransport) drop(c *wsConn) {
	t.mu.Lock()
	if cur, ok := t.conns[c.peer]; ok && cur == c {
		delete(t.conns, c.peer)
		close(c.send)
	}
	t.mu.Unlock()
}

func (t *WebsocketTransport) readPump(c *wsConn) {
	defer func() {
		t.drop(c)
		c.conn.Close()
		t.emit(Event{Kind: PeerDisconnected, Peer: c.peer})
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				t.log.Warn().Err(err).Str("peer", string(c.peer)).Msg("read failed")
			}
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		t.emit(Event{Kind: PeerData, Peer: c.peer, Data: message})
	}
}

func (t *WebsocketTransport) writePump(c *wsConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
