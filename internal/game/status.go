package game

import "warlock/internal/net"

// Outbox is how the core talks to clients. Ids are player entity ids.
type Outbox interface {
	Broadcast(m net.Message)
	BroadcastExcept(except int32, m net.Message)
	SendTo(player int32, m net.Message)
}

type PlayerStatus struct {
	ID         int32   `json:"id"`
	Name       string  `json:"name"`
	Health     float32 `json:"health"`
	MaxHealth  float32 `json:"max_health"`
	Gold       int32   `json:"gold"`
	Eliminated bool    `json:"eliminated"`
	Spectator  bool    `json:"spectator,omitempty"`
	Ready      bool    `json:"ready,omitempty"`
	Wins       int     `json:"wins"`
}

// Status is a point-in-time copy of the arena, safe to hand to other
// goroutines.
type Status struct {
	MatchID         string         `json:"match_id,omitempty"`
	Phase           string         `json:"phase"`
	Elapsed         float32        `json:"elapsed"`
	Round           int            `json:"round"`
	CompletedRounds int            `json:"completed_rounds"`
	RoundLimit      int32          `json:"round_limit"`
	ArenaRadius     float32        `json:"arena_radius"`
	Projectiles     int            `json:"projectiles"`
	Players         []PlayerStatus `json:"players"`
}
