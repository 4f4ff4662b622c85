package server

import (
	"fmt"

	"github.com/codecat/go-enet"
	"github.com/rs/zerolog"
)

const (
	channelReliable   = 0
	channelUnreliable = 1
	enetChannels      = 2
	// Service calls made on Close so queued packets leave before teardown.
	enetFlushRounds = 5
)

// ENetTransport serves game clients over reliable UDP. It is driven only
// from the simulation goroutine.
type ENetTransport struct {
	port     uint16
	maxPeers int
	log      zerolog.Logger

	host  enet.Host
	peers map[PeerID]enet.Peer
}

func NewENetTransport(port uint16, maxPeers int, log zerolog.Logger) *ENetTransport {
	return &ENetTransport{
		port:     port,
		maxPeers: maxPeers,
		log:      log.With().Str("component", "enet").Logger(),
		peers:    map[PeerID]enet.Peer{},
	}
}

func (t *ENetTransport) Start() error {
	enet.Initialize()
	host, err := enet.NewHost(enet.NewListenAddress(t.port), uint64(t.maxPeers), enetChannels, 0, 0)
	if err != nil {
		enet.Deinitialize()
		return fmt.Errorf("enet listen on :%d: %w", t.port, err)
	}
	t.host = host
	t.log.Info().Uint16("port", t.port).Int("max_peers", t.maxPeers).Msg("listening")
	return nil
}

func (t *ENetTransport) Poll() (Event, bool) {
	if t.host == nil {
		return Event{}, false
	}
	ev := t.host.Service(0)
	switch ev.GetType() {
	case enet.EventConnect:
		peer := ev.GetPeer()
		id := PeerID(peer.GetAddress().String())
		t.peers[id] = peer
		return Event{Kind: PeerConnected, Peer: id}, true

	case enet.EventDisconnect:
		id := PeerID(ev.GetPeer().GetAddress().String())
		delete(t.peers, id)
		return Event{Kind: PeerDisconnected, Peer: id}, true

	case enet.EventReceive:
		packet := ev.GetPacket()
		data := append([]byte(nil), packet.GetData()...)
		packet.Destroy()
		return Event{Kind: PeerData, Peer: PeerID(ev.GetPeer().GetAddress().String()), Data: data}, true
	}
	return Event{}, false
}

func (t *ENetTransport) Send(id PeerID, data []byte, reliable bool) error {
	peer, ok := t.peers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPeer, id)
	}
	flags, channel := enet.PacketFlagReliable, uint8(channelReliable)
	if !reliable {
		flags, channel = 0, channelUnreliable
	}
	return peer.SendBytes(data, channel, flags)
}

func (t *ENetTransport) Close() error {
	if t.host == nil {
		return nil
	}
	for i := 0; i < enetFlushRounds; i++ {
		t.host.Service(10)
	}
	for id, peer := range t.peers {
		peer.DisconnectNow(0)
		delete(t.peers, id)
	}
	t.host.Destroy()
	t.host = nil
	enet.Deinitialize()
	t.log.Info().Msg("closed")
	return nil
}
