package game

import (
	"errors"
	"testing"
)

func TestCvarsAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		command string
		phase   Phase
		cheats  int32
		want    error
	}{
		{"cvar in lobby", CvarStartGold, PhaseLobby, 0, nil},
		{"cvar while playing", CvarStartGold, PhasePlaying, 0, ErrNotInLobby},
		{"cvar while shopping", CvarShopTime, PhaseShopping, 1, ErrNotInLobby},
		{"unknown", "gravity", PhaseLobby, 0, ErrUnknownCvar},
		{"give_gold without cheats", CmdGiveGold, PhaseLobby, 0, ErrCheatsDisabled},
		{"give_gold while playing", CmdGiveGold, PhasePlaying, 1, nil},
		{"restart_round during round end", CmdRestartRound, PhaseRoundEnding, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCvars(map[string]int32{CvarCheats: tt.cheats})
			if err != nil {
				t.Fatalf("NewCvars: %v", err)
			}
			err = c.Authorize(tt.command, tt.phase)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Authorize = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Authorize = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCvarsSetClampsToRange(t *testing.T) {
	c, _ := NewCvars(nil)
	v, err := c.Set(CvarShopTime, -5)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v != 1 || c.Get(CvarShopTime) != 1 {
		t.Fatalf("shop_time = %d, want clamped to 1", c.Get(CvarShopTime))
	}
	if _, err := c.Set("nope", 1); !errors.Is(err, ErrUnknownCvar) {
		t.Fatalf("Set(nope) error = %v, want ErrUnknownCvar", err)
	}
}

func TestNewCvarsRejectsUnknownOverrides(t *testing.T) {
	if _, err := NewCvars(map[string]int32{"typo": 3}); !errors.Is(err, ErrUnknownCvar) {
		t.Fatalf("NewCvars error = %v, want ErrUnknownCvar", err)
	}
}

func TestCvarsListOrder(t *testing.T) {
	c, _ := NewCvars(map[string]int32{CvarStartGold: 500})
	list := c.List()
	if len(list) != len(cvarDefs) {
		t.Fatalf("List() has %d entries, want %d", len(list), len(cvarDefs))
	}
	if list[0].Name != CvarStartGold || list[0].Value != 500 {
		t.Fatalf("first entry = %+v, want start_gold=500", list[0])
	}
}
