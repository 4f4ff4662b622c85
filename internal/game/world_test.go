package game

import (
	"testing"

	"warlock/internal/net"
)

func TestWorldIDsAreNeverReused(t *testing.T) {
	w := NewWorld()
	a := w.Add(NewPlayer("a", "", 0))
	b := w.Add(NewPlayer("b", "", 0))
	if a != 1 || b != 2 {
		t.Fatalf("ids = (%d, %d), want (1, 2)", a, b)
	}
	if !w.Remove(a) {
		t.Fatalf("Remove(%d) = false", a)
	}
	if w.Remove(a) {
		t.Fatalf("second Remove(%d) = true", a)
	}
	if _, ok := w.Get(a); ok {
		t.Fatalf("removed id %d still resolves", a)
	}
	if c := w.Add(NewPlayer("c", "", 0)); c != 3 {
		t.Fatalf("id after removal = %d, want 3", c)
	}
}

func TestWorldEventsAreQueuedInOrder(t *testing.T) {
	w := NewWorld()
	id := w.Add(NewPlayer("a", "", 0))
	w.Remove(id)

	ev := w.Drain()
	want := []EventKind{EventAdded, EventRemoved}
	if len(ev) != len(want) {
		t.Fatalf("events = %v, want kinds %v", ev, want)
	}
	for i := range want {
		if ev[i].Kind != want[i] || ev[i].ID != id || ev[i].Type != net.EntityPlayer {
			t.Fatalf("event %d = %+v, want %s for %d", i, ev[i], want[i], id)
		}
	}
	if len(w.Drain()) != 0 {
		t.Fatalf("Drain did not clear the queue")
	}
}

func TestWorldLookups(t *testing.T) {
	w := NewWorld()
	p := NewPlayer("alice", "peer", 0)
	w.Add(p)
	w.Add(&Projectile{Owner: p.ID(), Lifetime: 1})

	if got, ok := w.PlayerByName("alice"); !ok || got != p {
		t.Fatalf("PlayerByName(alice) = %v, %v", got, ok)
	}
	if _, ok := w.PlayerByName("bob"); ok {
		t.Fatalf("PlayerByName(bob) found a player")
	}
	if _, ok := w.Player(2); ok {
		t.Fatalf("Player(2) resolved a projectile as a player")
	}

	var seen []int32
	w.ForEach(net.EntityProjectile, func(e Entity) { seen = append(seen, e.ID()) })
	if len(seen) != 1 || seen[0] != 2 {
		t.Fatalf("ForEach(projectile) = %v, want [2]", seen)
	}
}

func TestWorldStepDetectsCollisionsAndExpiry(t *testing.T) {
	w := NewWorld()
	owner := NewPlayer("owner", "", 0)
	target := NewPlayer("target", "", 0)
	w.Add(owner)
	w.Add(target)
	target.body.Position = net.Vec3{X: 3}

	pr := &Projectile{Owner: owner.ID(), Direction: net.Vec3{X: 1}, Speed: 60, Lifetime: 1}
	pr.body = Body{Radius: 0.5}
	w.Add(pr)
	w.Drain()

	w.Step(dt)
	w.Step(dt)
	ev := w.Drain()
	var hits int
	for _, e := range ev {
		if e.Kind == EventCollision {
			hits++
			if e.ID != target.ID() || e.Other != pr.ID() {
				t.Fatalf("collision = %+v, want target %d and projectile %d", e, target.ID(), pr.ID())
			}
		}
	}
	if hits == 0 {
		t.Fatalf("no collision reported in %v", ev)
	}

	short := &Projectile{Owner: owner.ID(), Lifetime: dt / 2}
	short.body = Body{Position: net.Vec3{X: 50}, Radius: 0.1}
	id := w.Add(short)
	w.Step(dt)
	if _, ok := w.Get(id); ok {
		t.Fatalf("expired projectile still in world")
	}
}

func TestWorldNeverReportsOwnerOrEliminatedHits(t *testing.T) {
	w := NewWorld()
	owner := NewPlayer("owner", "", 0)
	dead := NewPlayer("dead", "", 0)
	w.Add(owner)
	w.Add(dead)
	dead.Health = 0
	dead.TryEliminate()

	pr := &Projectile{Owner: owner.ID(), Lifetime: 1, Area: true}
	pr.body = Body{Radius: 10}
	w.Add(pr)
	w.Drain()
	w.Step(dt)
	for _, e := range w.Drain() {
		if e.Kind == EventCollision {
			t.Fatalf("unexpected collision %+v", e)
		}
	}
}

func TestSweptSphereHit(t *testing.T) {
	tests := []struct {
		name       string
		start, end net.Vec3
		center     net.Vec3
		want       bool
	}{
		{"passes through", net.Vec3{X: -5}, net.Vec3{X: 5}, net.Vec3{}, true},
		{"stops short", net.Vec3{X: -5}, net.Vec3{X: -2}, net.Vec3{}, false},
		{"misses sideways", net.Vec3{X: -5, Z: 2}, net.Vec3{X: 5, Z: 2}, net.Vec3{}, false},
		{"stationary inside", net.Vec3{X: 0.5}, net.Vec3{X: 0.5}, net.Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SweptSphereHit(tt.start, tt.end, tt.center, 1); got != tt.want {
				t.Fatalf("SweptSphereHit = %v, want %v", got, tt.want)
			}
		})
	}
}
