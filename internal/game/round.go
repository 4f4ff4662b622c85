package game

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid phase transition")

type Phase uint8

const (
	PhaseLobby Phase = iota
	PhaseCountdown
	PhaseShopping
	PhasePlaying
	PhaseRoundEnding
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseCountdown:
		return "countdown"
	case PhaseShopping:
		return "shopping"
	case PhasePlaying:
		return "playing"
	case PhaseRoundEnding:
		return "round_ending"
	case PhaseGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Started reports whether a match is running.
func (p Phase) Started() bool {
	return p == PhaseShopping || p == PhasePlaying || p == PhaseRoundEnding
}

// Combat reports whether hits deal damage.
func (p Phase) Combat() bool {
	return p == PhasePlaying || p == PhaseRoundEnding
}

const (
	CountdownSeconds = 5
	RoundEndDelay    = 5
)

var transitions = map[Phase][]Phase{
	PhaseLobby:       {PhaseCountdown},
	PhaseCountdown:   {PhaseShopping},
	PhaseShopping:    {PhasePlaying, PhaseShopping},
	PhasePlaying:     {PhaseRoundEnding, PhaseShopping},
	PhaseRoundEnding: {PhaseShopping, PhaseGameOver},
	PhaseGameOver:    {PhaseLobby},
}

// Round is the lobby/round/match state machine. It tracks the phase, time
// spent in it and the round counters.
type Round struct {
	phase     Phase
	elapsed   float32
	round     int
	completed int
	ended     bool
}

func (r *Round) Phase() Phase       { return r.phase }
func (r *Round) Elapsed() float32   { return r.elapsed }
func (r *Round) Number() int        { return r.round }
func (r *Round) Completed() int     { return r.completed }
func (r *Round) Advance(dt float32) { r.elapsed += dt }

// Transition moves to phase to if the edge is allowed and resets elapsed.
func (r *Round) Transition(to Phase) error {
	for _, next := range transitions[r.phase] {
		if next == to {
			r.phase = to
			r.elapsed = 0
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.phase, to)
}

// BeginRound enters Shopping for a new round and rearms the end guard.
func (r *Round) BeginRound() error {
	if err := r.Transition(PhaseShopping); err != nil {
		return err
	}
	r.round++
	r.ended = false
	return nil
}

// MarkEnded reports true the first time it is called in a round.
func (r *Round) MarkEnded() bool {
	if r.ended || r.phase != PhasePlaying {
		return false
	}
	r.ended = true
	return true
}

// CompleteRound counts a finished round and reports whether the match
// reached limit.
func (r *Round) CompleteRound(limit int) bool {
	r.completed++
	return limit > 0 && r.completed >= limit
}

// Reset returns to Lobby with cleared counters. Used for rematches and
// when the server empties.
func (r *Round) Reset() {
	*r = Round{}
}

// HasRoundEnded reports the winner when exactly one player is left standing
// out of more than one. Spectators are not counted.
func HasRoundEnded(players []*Player) (*Player, bool) {
	players = contenders(players)
	if len(players) < 2 {
		return nil, false
	}
	var alive *Player
	for _, p := range players {
		if p.Eliminated {
			continue
		}
		if alive != nil {
			return nil, false
		}
		alive = p
	}
	return alive, alive != nil
}

// IsDraw reports whether every player of a multi-player round is out.
func IsDraw(players []*Player) bool {
	players = contenders(players)
	if len(players) < 2 {
		return false
	}
	for _, p := range players {
		if !p.Eliminated {
			return false
		}
	}
	return true
}

func contenders(players []*Player) []*Player {
	out := make([]*Player, 0, len(players))
	for _, p := range players {
		if !p.Spectator {
			out = append(out, p)
		}
	}
	return out
}
