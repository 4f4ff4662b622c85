package server

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPeer = errors.New("unknown peer")
	ErrBufferFull  = errors.New("send buffer full")
)

// PeerID identifies a connection across transports. ENet peers use their
// remote address, websocket peers a "ws:" prefixed session id.
type PeerID string

type EventKind uint8

const (
	PeerConnected EventKind = iota + 1
	PeerDisconnected
	PeerData
)

type Event struct {
	Kind EventKind
	Peer PeerID
	Data []byte
}

// Transport moves whole messages between the server and its peers. Poll
// must never block; the simulation loop drains it every tick.
type Transport interface {
	Start() error
	Poll() (Event, bool)
	Send(peer PeerID, data []byte, reliable bool) error
	Close() error
}

// Multi serves several transports as one.
type Multi struct {
	parts []Transport
	owner map[PeerID]Transport
	next  int
}

func NewMulti(parts ...Transport) *Multi {
	return &Multi{parts: parts, owner: map[PeerID]Transport{}}
}

func (m *Multi) Start() error {
	for i, t := range m.parts {
		if err := t.Start(); err != nil {
			for _, started := range m.parts[:i] {
				started.Close()
			}
			return fmt.Errorf("start transport %d: %w", i, err)
		}
	}
	return nil
}

// Poll takes turns between the transports so a busy one cannot starve
// the others.
func (m *Multi) Poll() (Event, bool) {
	n := len(m.parts)
	for i := 0; i < n; i++ {
		idx := (m.next + i) % n
		ev, ok := m.parts[idx].Poll()
		if !ok {
			continue
		}
		m.next = idx + 1
		switch ev.Kind {
		case PeerConnected:
			m.owner[ev.Peer] = m.parts[idx]
		case PeerDisconnected:
			delete(m.owner, ev.Peer)
		}
		return ev, true
	}
	return Event{}, false
}

func (m *Multi) Send(peer PeerID, data []byte, reliable bool) error {
	t, ok := m.owner[peer]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPeer, peer)
	}
	return t.Send(peer, data, reliable)
}

func (m *Multi) Close() error {
	var errs []error
	for _, t := range m.parts {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
