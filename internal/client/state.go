package client

import (
	"fmt"

	"warlock/internal/game"
	"warlock/internal/net"
)

const chatLines = 8

type Entity struct {
	Type      net.EntityType
	ID        int32
	Name      string
	Position  net.Vec3
	Rotation  net.Vec3
	Animation uint8
	Health    float32
	Gold      int32
}

// State is the client's view of the match, rebuilt from server messages.
type State struct {
	Connected   bool
	Me          int32
	Phase       game.Phase
	Elapsed     float32
	Countdown   int32
	Radius      float32
	Round       int
	Winner      string
	Players     map[int32]*Entity
	Projectiles map[int32]*Entity
	Cvars       map[string]int32
	Chat        []string
}

func NewState() *State {
	return &State{
		Me:          -1,
		Players:     map[int32]*Entity{},
		Projectiles: map[int32]*Entity{},
		Cvars:       map[string]int32{},
	}
}

func (s *State) Self() (*Entity, bool) {
	p, ok := s.Players[s.Me]
	return p, ok
}

func (s *State) player(id int32, name string) *Entity {
	p, ok := s.Players[id]
	if !ok {
		p = &Entity{Type: net.EntityPlayer, ID: id}
		s.Players[id] = p
	}
	if name != "" {
		p.Name = name
	}
	return p
}

func (s *State) say(format string, args ...any) {
	s.Chat = append(s.Chat, fmt.Sprintf(format, args...))
	if len(s.Chat) > chatLines {
		s.Chat = s.Chat[len(s.Chat)-chatLines:]
	}
}

// Apply folds one server message into the state.
func (s *State) Apply(msg net.Message) {
	switch m := msg.(type) {
	case *net.ConnectionSuccess:
		s.Connected = true
		s.Phase = game.Phase(m.Phase)
		for _, info := range m.Players {
			s.player(info.ID, info.Name).Position = info.Position
		}
		// The server lists players in join order, so the newcomer is last.
		if n := len(m.Players); n > 0 {
			s.Me = m.Players[n-1].ID
		}

	case *net.AddPlayer:
		s.player(m.ID, m.Name).Gold = m.Gold

	case *net.PlayerDisconnected:
		for id, p := range s.Players {
			if p.Name == m.Name {
				delete(s.Players, id)
			}
		}
		s.say("%s left", m.Name)

	case *net.ObjectRemoved:
		delete(s.Players, m.ID)
		delete(s.Projectiles, m.ID)

	case *net.WorldUpdate:
		var e *Entity
		if m.EntityType == net.EntityPlayer {
			e = s.player(m.ID, "")
			e.Animation, e.Health, e.Gold = m.Animation, m.Health, m.Gold
		} else {
			e = s.Projectiles[m.ID]
			if e == nil {
				e = &Entity{Type: m.EntityType, ID: m.ID}
				s.Projectiles[m.ID] = e
			}
		}
		e.Position, e.Rotation = m.Position, m.Rotation

	case *net.CvarChange:
		s.Cvars[m.Name] = m.Value
		if m.ShowInChat {
			s.say("%s = %d", m.Name, m.Value)
		}

	case *net.CvarList:
		for _, c := range m.Cvars {
			s.Cvars[c.Name] = c.Value
		}

	case *net.ArenaRadius:
		s.Radius = m.Radius

	case *net.CountdownTick:
		s.Phase, s.Countdown = game.PhaseCountdown, m.Seconds

	case *net.RoundStart:
		s.Round++
		s.Winner = ""
		s.say("Round %d", s.Round)

	case *net.ChangeToShopping:
		s.Phase = game.PhaseShopping

	case *net.ChangeToPlaying:
		s.Phase = game.PhasePlaying

	case *net.RoundEnded:
		s.Phase, s.Winner = game.PhaseRoundEnding, m.Winner
		if m.Winner == "" {
			s.say("Round drawn")
		} else {
			s.say("%s wins the round", m.Winner)
		}

	case *net.GameOver:
		s.Phase, s.Winner = game.PhaseGameOver, m.Winner
		s.say("%s wins the match", m.Winner)

	case *net.PerformRematch:
		s.Phase, s.Round, s.Winner = game.PhaseLobby, 0, ""

	case *net.PlayerEliminated:
		if m.Killed == m.Eliminator {
			s.say("%s burned", m.Killed)
		} else {
			s.say("%s eliminated by %s", m.Killed, m.Eliminator)
		}

	case *net.StateTimer:
		s.Elapsed = m.Elapsed

	case *net.FloodStart:
		s.say("The lava is rising")

	case *net.ChatMessage:
		s.say("%s: %s", m.From, m.Text)

	case *net.ServerShutdown:
		s.Connected = false
		s.say("Server shut down")
	}
}
