package game

import (
	"warlock/internal/catalog"
	"warlock/internal/net"
)

// SpheresOverlap checks if two spheres touch.
func SpheresOverlap(a net.Vec3, ra float32, b net.Vec3, rb float32) bool {
	d := a.Sub(b)
	r := ra + rb
	return d.X*d.X+d.Y*d.Y+d.Z*d.Z <= r*r
}

// SweptSphereHit checks if a sphere moving from start to end passes within
// r of center at any point of the move.
func SweptSphereHit(start, end, center net.Vec3, r float32) bool {
	seg := end.Sub(start)
	segLenSq := seg.X*seg.X + seg.Y*seg.Y + seg.Z*seg.Z
	if segLenSq == 0 {
		return SpheresOverlap(start, r, center, 0)
	}

	// Project center onto the segment
	toC := center.Sub(start)
	t := (toC.X*seg.X + toC.Y*seg.Y + toC.Z*seg.Z) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := start.Add(seg.Scale(t))
	return SpheresOverlap(closest, r, center, 0)
}

// Outcome describes what a resolved hit did.
type Outcome struct {
	// Applied is false when a precondition or the catalog lookup failed.
	Applied    bool
	Unknown    bool
	Damage     float32
	Eliminated bool
}

// Resolver applies projectile hits to players.
type Resolver struct {
	Catalog catalog.Catalog
	World   *World
}

// Resolve applies pr's skill to p. It never damages the owner, does nothing
// outside combat phases or to eliminated players, and fails closed when the
// catalog has no entry for the skill. The caller removes pr afterwards.
func (r *Resolver) Resolve(p *Player, pr *Projectile, phase Phase, impulseScale float32) Outcome {
	if pr.Owner == p.ID() || !phase.Combat() || p.Eliminated {
		return Outcome{}
	}
	item, ok := r.Catalog.Lookup(pr.Skill.ItemName(), pr.Level)
	if !ok {
		return Outcome{Unknown: true}
	}

	dir := pr.Direction
	switch {
	case pr.Pull:
		if owner, ok := r.World.Player(pr.Owner); ok {
			dir = owner.body.Position.Sub(p.body.Position)
		}
	case pr.Area:
		dir = p.body.Position.Sub(pr.body.Position)
	}
	dir = dir.Flat().Normalize()
	if impulse := impulseScale * item.Impulse; impulse > 0 && dir.Len() > 0 {
		p.body.Velocity = p.body.Velocity.Add(dir.Scale(impulse))
		p.targets = nil
	}

	before := p.Health
	p.TakeDamage(item.Damage)

	if item.SlowDuration > 0 {
		p.AddEffect(StatusEffect{Kind: EffectSlow, Factor: item.Slow, Remaining: item.SlowDuration, Source: pr.Owner})
	}
	if item.DotDuration > 0 && item.DotDamage > 0 {
		p.AddEffect(StatusEffect{Kind: EffectPoison, Factor: item.DotDamage, Remaining: item.DotDuration, Source: pr.Owner})
	}
	p.LastHitter = pr.Owner

	return Outcome{
		Applied:    true,
		Damage:     before - p.Health,
		Eliminated: p.TryEliminate(),
	}
}
