package client

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"warlock/internal/net"
)

// NetClient speaks the binary protocol over a websocket. Received messages
// are queued for the game loop to Poll.
type NetClient struct {
	conn  *websocket.Conn
	send  chan []byte
	inbox chan net.Message
	log   zerolog.Logger
	once  sync.Once
}

// Dial connects to addr and sends CONNECTION_DATA for name.
func Dial(addr, name, password string, log zerolog.Logger) (*NetClient, error) {
	header := http.Header{}
	if password != "" {
		header.Set("X-Arena-Password", password)
	}
	conn, _, err := websocket.DefaultDialer.Dial(addr, header)
	if err != nil {
		return nil, err
	}

	nc := &NetClient{
		conn:  conn,
		send:  make(chan []byte, 256),
		inbox: make(chan net.Message, 1024),
		log:   log.With().Str("component", "netclient").Logger(),
	}
	go nc.readPump()
	go nc.writePump()

	nc.Send(&net.ConnectionData{Name: name})
	return nc, nil
}

func (nc *NetClient) Send(m net.Message) {
	select {
	case nc.send <- net.Encode(m):
	default:
		nc.log.Warn().Stringer("opcode", m.Opcode()).Msg("send buffer full")
	}
}

// Poll returns the next received message without blocking.
func (nc *NetClient) Poll() (net.Message, bool) {
	select {
	case m := <-nc.inbox:
		return m, true
	default:
		return nil, false
	}
}

func (nc *NetClient) readPump() {
	defer nc.conn.Close()

	for {
		kind, data, err := nc.conn.ReadMessage()
		if err != nil {
			nc.log.Info().Err(err).Msg("connection closed")
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		m, err := net.Decode(data)
		if err != nil {
			nc.log.Debug().Err(err).Msg("dropped packet")
			continue
		}
		select {
		case nc.inbox <- m:
		default:
			// Drop if the game loop is behind
		}
	}
}

func (nc *NetClient) writePump() {
	defer nc.conn.Close()

	for message := range nc.send {
		if err := nc.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
			return
		}
	}
	nc.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (nc *NetClient) Close() {
	nc.once.Do(func() { close(nc.send) })
}
