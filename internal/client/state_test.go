package client

import (
	"testing"

	"warlock/internal/game"
	"warlock/internal/net"
)

func TestStateTracksJoinAndWorld(t *testing.T) {
	s := NewState()
	s.Apply(&net.ConnectionSuccess{Phase: uint8(game.PhaseLobby), Players: []net.PlayerInfo{
		{Name: "alice", ID: 1},
		{Name: "bob", ID: 2, Position: net.Vec3{X: 4}},
	}})
	if !s.Connected || s.Me != 2 {
		t.Fatalf("connected=%v me=%d, want true and 2", s.Connected, s.Me)
	}

	s.Apply(&net.WorldUpdate{EntityType: net.EntityPlayer, ID: 2, Position: net.Vec3{X: 5}, Health: 80, Gold: 120})
	s.Apply(&net.WorldUpdate{EntityType: net.EntityProjectile, ID: 9, Position: net.Vec3{Z: 3}})
	me, ok := s.Self()
	if !ok || me.Name != "bob" || me.Health != 80 || me.Gold != 120 || me.Position.X != 5 {
		t.Fatalf("self = %+v", me)
	}
	if len(s.Projectiles) != 1 {
		t.Fatalf("projectiles = %d, want 1", len(s.Projectiles))
	}

	s.Apply(&net.ObjectRemoved{ID: 9})
	s.Apply(&net.PlayerDisconnected{Name: "alice"})
	if len(s.Projectiles) != 0 || len(s.Players) != 1 {
		t.Fatalf("after removals: %d projectiles, %d players", len(s.Projectiles), len(s.Players))
	}
}

func TestStateFollowsPhases(t *testing.T) {
	s := NewState()
	steps := []struct {
		msg  net.Message
		want game.Phase
	}{
		{&net.CountdownTick{Seconds: 5}, game.PhaseCountdown},
		{&net.RoundStart{}, game.PhaseCountdown},
		{&net.ChangeToShopping{}, game.PhaseShopping},
		{&net.ChangeToPlaying{}, game.PhasePlaying},
		{&net.RoundEnded{Winner: "alice"}, game.PhaseRoundEnding},
		{&net.GameOver{Winner: "alice"}, game.PhaseGameOver},
		{&net.PerformRematch{}, game.PhaseLobby},
	}
	for _, st := range steps {
		s.Apply(st.msg)
		if s.Phase != st.want {
			t.Fatalf("after %s phase = %s, want %s", st.msg.Opcode(), s.Phase, st.want)
		}
	}
	if s.Round != 0 || s.Winner != "" {
		t.Fatalf("rematch left round=%d winner=%q", s.Round, s.Winner)
	}
}

func TestStateChatKeepsRecentLines(t *testing.T) {
	s := NewState()
	for i := 0; i < chatLines+3; i++ {
		s.Apply(&net.ChatMessage{From: "Server", Text: "hi"})
	}
	s.Apply(&net.CvarChange{Name: "start_gold", Value: 500, ShowInChat: true})
	if len(s.Chat) != chatLines {
		t.Fatalf("chat has %d lines, want %d", len(s.Chat), chatLines)
	}
	if got := s.Chat[len(s.Chat)-1]; got != "start_gold = 500" {
		t.Fatalf("last line = %q", got)
	}
	if s.Cvars["start_gold"] != 500 {
		t.Fatalf("cvar not recorded")
	}
}

func TestRendererRoundTripsCoordinates(t *testing.T) {
	r := NewRenderer()
	r.viewRadius = 60
	p := net.Vec3{X: 12, Z: -7}
	x, y := r.WorldToScreen(p)
	got := r.ScreenToWorld(int(x+0.5), int(y+0.5))
	if d := got.Dist(p); d > 0.5 {
		t.Fatalf("round trip %+v -> %+v (off by %v)", p, got, d)
	}
}
