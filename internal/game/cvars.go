package game

import (
	"errors"
	"fmt"

	"warlock/internal/net"
)

var (
	ErrUnknownCvar    = errors.New("unknown cvar")
	ErrNotInLobby     = errors.New("cvars can only be changed in the lobby")
	ErrCheatsDisabled = errors.New("cheats are disabled")
)

const (
	CvarStartGold         = "start_gold"
	CvarShopTime          = "shop_time"
	CvarNumRounds         = "num_rounds"
	CvarGoldPerKill       = "gold_per_kill"
	CvarGoldPerWin        = "gold_per_win"
	CvarLavaDamage        = "lava_dmg"
	CvarProjectileImpulse = "projectile_impulse"
	CvarArenaRadius       = "arena_radius"
	CvarMinRadius         = "min_radius"
	CvarFloodInterval     = "flood_interval"
	CvarFloodDuration     = "flood_duration"
	CvarFloodShrink       = "flood_shrink"
	CvarCheats            = "cheats"

	// Commands that bypass the lobby restriction when cheats are on.
	CmdGiveGold     = "give_gold"
	CmdRestartRound = "restart_round"
)

type cvarDef struct {
	name     string
	value    int32
	min, max int32
}

var cvarDefs = []cvarDef{
	{CvarStartGold, 100, 0, 100000},
	{CvarShopTime, 30, 1, 600},
	{CvarNumRounds, 5, 1, 100},
	{CvarGoldPerKill, 25, 0, 100000},
	{CvarGoldPerWin, 50, 0, 100000},
	{CvarLavaDamage, 2, 0, 1000},
	{CvarProjectileImpulse, 20, 0, 1000},
	{CvarArenaRadius, 60, 5, 500},
	{CvarMinRadius, 15, 1, 500},
	{CvarFloodInterval, 30, 1, 3600},
	{CvarFloodDuration, 5, 1, 600},
	{CvarFloodShrink, 10, 0, 500},
	{CvarCheats, 0, 0, 1},
}

// Cvars holds the named gameplay parameters in declaration order.
type Cvars struct {
	values map[string]int32
	defs   map[string]cvarDef
}

// NewCvars builds the default set with overrides applied.
func NewCvars(overrides map[string]int32) (*Cvars, error) {
	c := &Cvars{values: map[string]int32{}, defs: map[string]cvarDef{}}
	for _, d := range cvarDefs {
		c.values[d.name] = d.value
		c.defs[d.name] = d
	}
	for name, v := range overrides {
		if _, err := c.Set(name, v); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Cvars) Get(name string) int32 { return c.values[name] }

func (c *Cvars) Float(name string) float32 { return float32(c.values[name]) }

// Set stores v clamped to the cvar's range and returns the stored value.
func (c *Cvars) Set(name string, v int32) (int32, error) {
	d, ok := c.defs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCvar, name)
	}
	if v < d.min {
		v = d.min
	}
	if v > d.max {
		v = d.max
	}
	c.values[name] = v
	return v, nil
}

// Authorize checks whether command may run in phase. Cvar assignments are
// lobby-only; give_gold and restart_round run anytime but need cheats.
func (c *Cvars) Authorize(command string, phase Phase) error {
	switch command {
	case CmdGiveGold, CmdRestartRound:
		if c.values[CvarCheats] == 0 {
			return ErrCheatsDisabled
		}
		return nil
	}
	if _, ok := c.defs[command]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCvar, command)
	}
	if phase != PhaseLobby {
		return ErrNotInLobby
	}
	return nil
}

// List returns every cvar in declaration order.
func (c *Cvars) List() []net.CvarValue {
	out := make([]net.CvarValue, 0, len(cvarDefs))
	for _, d := range cvarDefs {
		out = append(out, net.CvarValue{Name: d.name, Value: c.values[d.name]})
	}
	return out
}
