package server

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"warlock/internal/game"
	"warlock/internal/net"
)

const (
	maxNameLen  = 24
	defaultName = "Player"
)

// route decodes one packet and dispatches it. Malformed packets are
// dropped without touching the connection.
func (s *Server) route(c *client, data []byte) {
	msg, err := net.Decode(data)
	if err != nil {
		s.log.Debug().Err(err).Str("peer", string(c.peer)).Msg("dropped packet")
		return
	}
	if c.player == nil {
		if m, ok := msg.(*net.ConnectionData); ok {
			s.join(c, m.Name)
			return
		}
		s.log.Debug().Str("peer", string(c.peer)).Stringer("opcode", msg.Opcode()).Msg("message before join")
		return
	}

	id := c.player.ID()
	switch m := msg.(type) {
	case *net.RequestClientNames:
		s.SendTo(id, &net.ConnectedClients{Names: s.names()})

	case *net.RequestCvarList:
		s.SendTo(id, &net.CvarList{Cvars: s.arena.Cvars().List()})

	case *net.GoldChange:
		s.arena.SetGold(id, m.Gold)

	case *net.StartGame:
		s.startGame(c)

	case *net.PlayerReady:
		s.arena.Ready(id)

	case *net.RematchRequest:
		s.rematch(c)

	case *net.TargetAdded:
		if s.arena.SetTarget(id, m.Target, m.Clear) {
			relay := *m
			relay.Name, relay.ID = c.player.Name, id
			s.Broadcast(&relay)
		}

	case *net.SkillCast:
		if err := s.arena.CastSkill(id, m); err != nil {
			ev := s.log.Debug()
			if errors.Is(err, game.ErrUnknownItem) {
				ev = s.log.Warn()
			}
			ev.Err(err).Str("player", c.player.Name).Int32("skill", m.Skill).Int32("level", m.Level).Msg("cast rejected")
		}

	case *net.ItemAdded:
		if err := s.arena.EquipItem(id, m.Item, int(m.Level)); err != nil {
			s.log.Warn().Err(err).Str("player", c.player.Name).Msg("equip rejected")
			return
		}
		relay := *m
		relay.PlayerID = id
		s.BroadcastExcept(id, &relay)

	case *net.ItemRemoved:
		if err := s.arena.UnequipItem(id, m.Item); err != nil {
			s.log.Warn().Err(err).Str("player", c.player.Name).Msg("unequip rejected")
			return
		}
		relay := *m
		relay.PlayerID = id
		s.BroadcastExcept(id, &relay)

	case *net.ChatMessage:
		s.Broadcast(&net.ChatMessage{From: c.player.Name, Text: m.Text})
		if strings.HasPrefix(m.Text, "-") {
			if err := s.command(c, m.Text); err != nil {
				s.notice(c, err.Error())
			}
		}

	case *net.ConnectionData:
		s.log.Debug().Str("player", c.player.Name).Msg("already joined")

	default:
		s.log.Debug().Stringer("opcode", msg.Opcode()).Str("player", c.player.Name).Msg("unexpected opcode")
	}
}

func (s *Server) join(c *client, requested string) {
	name := s.uniqueName(cleanName(requested))
	p := s.arena.AddPlayer(name, string(c.peer))
	s.joins++
	c.player, c.joined = p, s.joins
	s.players[p.ID()] = c

	s.SendTo(p.ID(), &net.ConnectionSuccess{Phase: uint8(s.arena.Phase()), Players: s.playerInfos()})
	s.Broadcast(&net.AddPlayer{Name: name, ID: p.ID(), Gold: p.Gold})
	for _, cv := range s.arena.Cvars().List() {
		s.SendTo(p.ID(), &net.CvarChange{Name: cv.Name, Value: cv.Value})
	}
	s.SendTo(p.ID(), &net.ArenaRadius{Radius: s.arena.Radius()})
	s.arena.SendWorld(p.ID())

	s.log.Info().Str("player", name).Int32("id", p.ID()).Str("peer", string(c.peer)).Bool("host", s.isHost(c)).Msg("player joined")
}

func (s *Server) startGame(c *client) {
	if !s.isHost(c) {
		s.notice(c, ErrNotHost.Error())
		return
	}
	if err := s.arena.StartCountdown(); err != nil {
		s.notice(c, err.Error())
		return
	}
	s.Broadcast(&net.ChatMessage{From: serverName, Text: fmt.Sprintf("Game starting in %d seconds", game.CountdownSeconds)})
}

func (s *Server) rematch(c *client) {
	if !s.isHost(c) {
		s.notice(c, ErrNotHost.Error())
		return
	}
	if err := s.arena.Rematch(); err != nil {
		s.notice(c, err.Error())
		return
	}
	s.matchID = uuid.NewString()
	s.log.Info().Str("match", s.matchID).Msg("new match")
}

// names lists joined players in join order.
func (s *Server) names() []string {
	clients := s.joined()
	names := make([]string, len(clients))
	for i, c := range clients {
		names[i] = c.player.Name
	}
	return names
}

func (s *Server) playerInfos() []net.PlayerInfo {
	clients := s.joined()
	infos := make([]net.PlayerInfo, len(clients))
	for i, c := range clients {
		infos[i] = net.PlayerInfo{Name: c.player.Name, ID: c.player.ID(), Position: c.player.Body().Position}
	}
	return infos
}

func (s *Server) joined() []*client {
	out := make([]*client, 0, len(s.players))
	for _, c := range s.players {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].joined < out[j].joined })
	return out
}

// cleanName collapses whitespace so names stay usable as command
// arguments, and caps the length.
func cleanName(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	for len(name) > maxNameLen {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	if name == "" {
		return defaultName
	}
	return name
}

func (s *Server) uniqueName(name string) string {
	if !s.nameTaken(name) {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s%d", name, n)
		if !s.nameTaken(candidate) {
			return candidate
		}
	}
}

// nameTaken also reserves the name server notices are sent under.
func (s *Server) nameTaken(name string) bool {
	if strings.EqualFold(name, serverName) {
		return true
	}
	_, taken := s.arena.World().PlayerByName(name)
	return taken
}
