package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"warlock/internal/catalog"
	"warlock/internal/config"
	"warlock/internal/game"
	"warlock/internal/net"
)

var ErrNotHost = errors.New("only the host can do that")

const (
	serverName = "Server"
	// Upper bound on inbound events handled per tick.
	maxEventsPerTick = 512
)

type client struct {
	peer   PeerID
	player *game.Player
	joined uint64
}

// Server owns the arena and the connections. Everything except Status runs
// on the goroutine that calls Run.
type Server struct {
	cfg   config.Config
	tr    Transport
	arena *game.Arena
	log   zerolog.Logger

	peers   map[PeerID]*client
	players map[int32]*client
	joins   uint64
	matchID string

	status atomic.Pointer[game.Status]
}

func New(cfg config.Config, tr Transport, cat catalog.Catalog, log zerolog.Logger) (*Server, error) {
	cvars, err := game.NewCvars(cfg.CvarDefaults)
	if err != nil {
		return nil, fmt.Errorf("cvar defaults: %w", err)
	}
	s := &Server{
		cfg:     cfg,
		tr:      tr,
		log:     log.With().Str("component", "server").Logger(),
		peers:   map[PeerID]*client{},
		players: map[int32]*client{},
		matchID: uuid.NewString(),
	}
	s.arena = game.NewArena(game.Deps{
		Catalog:     cat,
		Out:         s,
		Cvars:       cvars,
		Log:         log,
		Rand:        rand.New(rand.NewSource(cfg.Seed)),
		BroadcastHz: cfg.BroadcastHz,
	})
	s.publish()
	return s, nil
}

func (s *Server) Arena() *game.Arena { return s.arena }

// Run starts the transport and drives the fixed-timestep loop until ctx is
// done. A transport that fails to start is the only error it returns.
func (s *Server) Run(ctx context.Context) error {
	if err := s.tr.Start(); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TickHz))
	defer ticker.Stop()
	dt := 1 / float32(s.cfg.TickHz)

	s.log.Info().Int("tick_hz", s.cfg.TickHz).Int("broadcast_hz", s.cfg.BroadcastHz).Str("match", s.matchID).Msg("simulation running")
	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return nil
		case <-ticker.C:
			s.Tick(dt)
		}
	}
}

// Tick drains pending network events, then advances the arena by dt.
func (s *Server) Tick(dt float32) {
	for i := 0; i < maxEventsPerTick; i++ {
		ev, ok := s.tr.Poll()
		if !ok {
			break
		}
		s.handle(ev)
	}
	s.arena.Update(dt)
	s.publish()
}

// Shutdown tells every client the server is going away and releases the
// transport.
func (s *Server) Shutdown() {
	s.Broadcast(&net.ServerShutdown{})
	if err := s.tr.Close(); err != nil {
		s.log.Error().Err(err).Msg("close transport")
	}
	s.log.Info().Int("players", len(s.players)).Msg("server stopped")
}

// Status returns the last published arena snapshot. Safe from any goroutine.
func (s *Server) Status() game.Status {
	if st := s.status.Load(); st != nil {
		return *st
	}
	return game.Status{}
}

func (s *Server) publish() {
	st := s.arena.Status()
	st.MatchID = s.matchID
	s.status.Store(&st)
}

func (s *Server) handle(ev Event) {
	switch ev.Kind {
	case PeerConnected:
		if _, ok := s.peers[ev.Peer]; !ok {
			s.peers[ev.Peer] = &client{peer: ev.Peer}
		}
		s.log.Debug().Str("peer", string(ev.Peer)).Msg("peer connected")

	case PeerDisconnected:
		s.disconnect(ev.Peer)

	case PeerData:
		c, ok := s.peers[ev.Peer]
		if !ok {
			s.log.Debug().Str("peer", string(ev.Peer)).Msg("data from unknown peer")
			return
		}
		s.route(c, ev.Data)
	}
}

func (s *Server) disconnect(peer PeerID) {
	c, ok := s.peers[peer]
	if !ok {
		return
	}
	delete(s.peers, peer)
	if c.player == nil {
		return
	}

	wasHost := s.host() == c
	id, name := c.player.ID(), c.player.Name
	delete(s.players, id)
	s.arena.RemovePlayer(id)
	s.Broadcast(&net.PlayerDisconnected{Name: name})
	s.log.Info().Str("player", name).Str("peer", string(peer)).Int("remaining", len(s.players)).Msg("player disconnected")

	if wasHost {
		if h := s.host(); h != nil {
			s.Broadcast(&net.ChatMessage{From: serverName, Text: h.player.Name + " is now the host"})
			s.log.Info().Str("player", h.player.Name).Msg("host changed")
		}
	}
}

// host is the earliest joined player still connected.
func (s *Server) host() *client {
	var h *client
	for _, c := range s.players {
		if h == nil || c.joined < h.joined {
			h = c
		}
	}
	return h
}

func (s *Server) isHost(c *client) bool { return c.player != nil && s.host() == c }

// Broadcast sends m to every joined player.
func (s *Server) Broadcast(m net.Message) {
	data := net.Encode(m)
	for _, c := range s.players {
		s.send(c, data, m.Reliable())
	}
}

func (s *Server) BroadcastExcept(except int32, m net.Message) {
	data := net.Encode(m)
	for id, c := range s.players {
		if id != except {
			s.send(c, data, m.Reliable())
		}
	}
}

func (s *Server) SendTo(player int32, m net.Message) {
	if c, ok := s.players[player]; ok {
		s.send(c, net.Encode(m), m.Reliable())
	}
}

func (s *Server) send(c *client, data []byte, reliable bool) {
	if err := s.tr.Send(c.peer, data, reliable); err != nil {
		s.log.Debug().Err(err).Str("peer", string(c.peer)).Msg("send failed")
	}
}

// notice sends a server chat line to one player.
func (s *Server) notice(c *client, text string) {
	s.SendTo(c.player.ID(), &net.ChatMessage{From: serverName, Text: text})
}
