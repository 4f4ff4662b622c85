package game

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"warlock/internal/catalog"
	"warlock/internal/net"
)

const dt = float32(1) / net.SimTickHz

type recorder struct {
	msgs   []net.Message
	direct map[int32][]net.Message
}

func (r *recorder) Broadcast(m net.Message) { r.msgs = append(r.msgs, m) }

func (r *recorder) BroadcastExcept(_ int32, m net.Message) { r.msgs = append(r.msgs, m) }

func (r *recorder) SendTo(id int32, m net.Message) {
	if r.direct == nil {
		r.direct = map[int32][]net.Message{}
	}
	r.direct[id] = append(r.direct[id], m)
}

func (r *recorder) reset() { r.msgs = nil }

func messagesOf[T net.Message](r *recorder) []T {
	var out []T
	for _, m := range r.msgs {
		if t, ok := m.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

func testCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	s, err := catalog.NewStore(
		catalog.Item{Name: "fireball", Level: 1, Damage: 10, Speed: 30, Lifetime: 2, Radius: 0.5},
		catalog.Item{Name: "frostnova", Level: 1, Damage: 5, Speed: 30, Lifetime: 2, Radius: 0.5, Slow: 0.25, SlowDuration: 2},
		catalog.Item{Name: "venom", Level: 1, Damage: 1, Speed: 30, Lifetime: 2, Radius: 0.5, DotDamage: 4, DotDuration: 2},
		catalog.Item{Name: "hook", Level: 1, Damage: 2, Impulse: 2, Speed: 40, Lifetime: 1, Radius: 0.5},
		catalog.Item{Name: "teleport", Level: 1, Range: 10},
		catalog.Item{Name: "meteor", Level: 1, Damage: 20, Radius: 3, Delay: 0.5, Lifetime: 0.5},
		catalog.Item{Name: "iron_plate", Level: 1, MaxHealth: 20},
		catalog.Item{Name: "lava_boots", Level: 1, LavaImmunity: 0.5},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return s
}

func newTestArena(t *testing.T, out Outbox) *Arena {
	t.Helper()
	cvars, err := NewCvars(nil)
	if err != nil {
		t.Fatalf("cvars: %v", err)
	}
	return NewArena(Deps{
		Catalog: testCatalog(t),
		Out:     out,
		Cvars:   cvars,
		Log:     zerolog.Nop(),
		Rand:    rand.New(rand.NewSource(42)),
	})
}

// step runs the arena for the given simulated seconds at the tick rate.
func step(a *Arena, seconds float32) {
	n := int(seconds/dt + 0.5)
	for i := 0; i < n; i++ {
		a.Update(dt)
	}
}

// startPlaying drives a fresh arena from the lobby into Playing.
func startPlaying(t *testing.T, a *Arena) {
	t.Helper()
	if err := a.StartCountdown(); err != nil {
		t.Fatalf("StartCountdown: %v", err)
	}
	step(a, CountdownSeconds+0.1)
	if a.Phase() != PhaseShopping {
		t.Fatalf("phase after countdown = %s, want shopping", a.Phase())
	}
	for _, p := range a.World().Players() {
		a.Ready(p.ID())
	}
	a.Update(dt)
	if a.Phase() != PhasePlaying {
		t.Fatalf("phase after ready = %s, want playing", a.Phase())
	}
}

func place(p *Player, x, z float32) {
	p.body.Position = net.Vec3{X: x, Z: z}
	p.body.Velocity = net.Vec3{}
	p.targets = nil
}
