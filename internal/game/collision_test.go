package game

import (
	"testing"

	"warlock/internal/net"
)

func newDuel(t *testing.T) (*Resolver, *Player, *Player) {
	t.Helper()
	w := NewWorld()
	shooter := NewPlayer("shooter", "", 0)
	target := NewPlayer("target", "", 0)
	w.Add(shooter)
	w.Add(target)
	target.body.Position = net.Vec3{X: 5}
	return &Resolver{Catalog: testCatalog(t), World: w}, shooter, target
}

func bolt(owner *Player, skill SkillType, level int) *Projectile {
	pr := &Projectile{Owner: owner.ID(), Skill: skill, Level: level, Direction: net.Vec3{X: 1}, Lifetime: 1}
	pr.body = Body{Position: net.Vec3{X: 4}, Radius: 0.5}
	return pr
}

func TestResolveAppliesDamageAndImpulse(t *testing.T) {
	r, shooter, target := newDuel(t)

	out := r.Resolve(target, bolt(shooter, SkillFireball, 1), PhasePlaying, 20)
	if !out.Applied || out.Damage != 10 {
		t.Fatalf("outcome = %+v, want applied with 10 damage", out)
	}
	if target.Health != 90 {
		t.Fatalf("health = %v, want 90", target.Health)
	}
	if v := target.body.Velocity; v.X != 20 || v.Z != 0 {
		t.Fatalf("velocity = %+v, want (20, 0, 0)", v)
	}
	if target.LastHitter != shooter.ID() {
		t.Fatalf("LastHitter = %d, want %d", target.LastHitter, shooter.ID())
	}
	if !target.KnockedBack() {
		t.Fatalf("target should be knocked back")
	}
}

func TestResolvePreconditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *Resolver, shooter, target *Player) (*Player, *Projectile, Phase)
	}{
		{"own projectile", func(_ *Resolver, s, _ *Player) (*Player, *Projectile, Phase) {
			return s, bolt(s, SkillFireball, 1), PhasePlaying
		}},
		{"shopping", func(_ *Resolver, s, tg *Player) (*Player, *Projectile, Phase) {
			return tg, bolt(s, SkillFireball, 1), PhaseShopping
		}},
		{"lobby", func(_ *Resolver, s, tg *Player) (*Player, *Projectile, Phase) {
			return tg, bolt(s, SkillFireball, 1), PhaseLobby
		}},
		{"already eliminated", func(_ *Resolver, s, tg *Player) (*Player, *Projectile, Phase) {
			tg.Health = 0
			tg.TryEliminate()
			return tg, bolt(s, SkillFireball, 1), PhasePlaying
		}},
		{"unknown level", func(_ *Resolver, s, tg *Player) (*Player, *Projectile, Phase) {
			return tg, bolt(s, SkillFireball, 9), PhasePlaying
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, shooter, target := newDuel(t)
			p, pr, phase := tt.setup(r, shooter, target)
			before := p.Health

			out := r.Resolve(p, pr, phase, 20)
			if out.Applied || out.Eliminated {
				t.Fatalf("outcome = %+v, want no-op", out)
			}
			if p.Health != before {
				t.Fatalf("health changed from %v to %v", before, p.Health)
			}
			if v := p.body.Velocity; v != (net.Vec3{}) {
				t.Fatalf("velocity changed to %+v", v)
			}
		})
	}
}

func TestResolveClampsHealthAndEliminatesOnce(t *testing.T) {
	r, shooter, target := newDuel(t)
	target.Health = 4

	out := r.Resolve(target, bolt(shooter, SkillFireball, 1), PhasePlaying, 0)
	if !out.Eliminated {
		t.Fatalf("first lethal hit did not eliminate: %+v", out)
	}
	if target.Health != 0 {
		t.Fatalf("health = %v, want 0", target.Health)
	}
	if out.Damage != 4 {
		t.Fatalf("damage = %v, want 4 (clamped)", out.Damage)
	}

	again := r.Resolve(target, bolt(shooter, SkillFireball, 1), PhasePlaying, 0)
	if again.Applied || again.Eliminated {
		t.Fatalf("second hit on eliminated player = %+v", again)
	}
	if target.TryEliminate() {
		t.Fatalf("TryEliminate fired twice")
	}
}

func TestResolveStatusEffects(t *testing.T) {
	r, shooter, target := newDuel(t)

	r.Resolve(target, bolt(shooter, SkillFrostNova, 1), PhasePlaying, 0)
	if got := target.SpeedFactor(); got != 0.25 {
		t.Fatalf("speed factor while slowed = %v, want 0.25", got)
	}

	r.Resolve(target, bolt(shooter, SkillVenom, 1), PhasePlaying, 0)
	before := target.Health
	for i := 0; i < 60; i++ {
		target.Update(dt)
	}
	if lost := before - target.Health; lost < 3.9 || lost > 4.1 {
		t.Fatalf("poison dealt %v over 1s, want ~4", lost)
	}

	for i := 0; i < 120; i++ {
		target.Update(dt)
	}
	if len(target.Effects) != 0 {
		t.Fatalf("effects not expired: %+v", target.Effects)
	}
	if got := target.SpeedFactor(); got != 1 {
		t.Fatalf("speed factor after effects = %v, want 1", got)
	}
}

func TestResolveHookPullsTowardsOwner(t *testing.T) {
	r, shooter, target := newDuel(t)
	pr := bolt(shooter, SkillHook, 1)
	pr.Pull = true

	r.Resolve(target, pr, PhasePlaying, 10)
	if v := target.body.Velocity; v.X >= 0 {
		t.Fatalf("hook velocity = %+v, want pull towards owner (negative X)", v)
	}
}
