package server

import (
	"testing"

	"github.com/rs/zerolog"

	"warlock/internal/catalog"
	"warlock/internal/config"
	"warlock/internal/game"
	"warlock/internal/net"
)

const dt = float32(1) / 60

type sent struct {
	peer     PeerID
	msg      net.Message
	reliable bool
}

type fakeTransport struct {
	t        *testing.T
	in       []Event
	out      []sent
	startErr error
	started  bool
	closed   bool
}

func (f *fakeTransport) Start() error {
	f.started = true
	return f.startErr
}

func (f *fakeTransport) Poll() (Event, bool) {
	if len(f.in) == 0 {
		return Event{}, false
	}
	ev := f.in[0]
	f.in = f.in[1:]
	return ev, true
}

func (f *fakeTransport) Send(peer PeerID, data []byte, reliable bool) error {
	m, err := net.Decode(data)
	if err != nil {
		f.t.Fatalf("server sent undecodable packet %x: %v", data, err)
	}
	f.out = append(f.out, sent{peer: peer, msg: m, reliable: reliable})
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func (f *fakeTransport) push(peer PeerID, m net.Message) {
	f.in = append(f.in, Event{Kind: PeerData, Peer: peer, Data: net.Encode(m)})
}

func (f *fakeTransport) reset() { f.out = nil }

// received returns the messages of type T delivered to peer.
func received[T net.Message](f *fakeTransport, peer PeerID) []T {
	var out []T
	for _, s := range f.out {
		if s.peer != peer {
			continue
		}
		if m, ok := s.msg.(T); ok {
			out = append(out, m)
		}
	}
	return out
}

func newTestServer(t *testing.T) (*Server, *fakeTransport) {
	t.Helper()
	cat, err := catalog.NewStore(
		catalog.Item{Name: "fireball", Level: 1, Damage: 10, Speed: 30, Lifetime: 2, Radius: 0.5},
		catalog.Item{Name: "iron_plate", Level: 1, MaxHealth: 20},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	cfg := config.Default()
	cfg.Seed = 7
	ft := &fakeTransport{t: t}
	s, err := New(cfg, ft, cat, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, ft
}

// join connects peer and sends CONNECTION_DATA, then runs one tick.
func join(s *Server, ft *fakeTransport, peer PeerID, name string) *game.Player {
	ft.in = append(ft.in, Event{Kind: PeerConnected, Peer: peer})
	ft.push(peer, &net.ConnectionData{Name: name})
	s.Tick(dt)
	return s.players[idOf(s, peer)].player
}

func idOf(s *Server, peer PeerID) int32 {
	if c, ok := s.peers[peer]; ok && c.player != nil {
		return c.player.ID()
	}
	return -1
}

func tick(s *Server, seconds float32) {
	n := int(seconds/dt + 0.5)
	for i := 0; i < n; i++ {
		s.Tick(dt)
	}
}
