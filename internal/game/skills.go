package game

import (
	"errors"
	"fmt"

	"warlock/internal/catalog"
	"warlock/internal/net"
)

var (
	ErrUnknownSkill = errors.New("unknown skill")
	ErrUnknownItem  = errors.New("item not in catalog")
	ErrCasterDead   = errors.New("caster is eliminated")
)

// SkillType is the skill id carried by SKILL_CAST.
type SkillType int32

const (
	SkillFireball SkillType = iota + 1
	SkillFrostNova
	SkillHook
	SkillTeleport
	SkillMeteor
	SkillVenom
)

var skillNames = map[SkillType]string{
	SkillFireball:  "fireball",
	SkillFrostNova: "frostnova",
	SkillHook:      "hook",
	SkillTeleport:  "teleport",
	SkillMeteor:    "meteor",
	SkillVenom:     "venom",
}

// ItemName is the catalog key of the skill.
func (s SkillType) ItemName() string { return skillNames[s] }

func (s SkillType) String() string {
	if n, ok := skillNames[s]; ok {
		return n
	}
	return fmt.Sprintf("skill(%d)", int32(s))
}

// Casts spawn this far in front of the caster's body.
const spawnClearance = 0.1

// Cast is an interpreted cast request.
type Cast struct {
	Caster *Player
	Skill  SkillType
	Level  int
	Start  net.Vec3
	End    net.Vec3
}

// Effect is what a cast produced. Spawned is nil for instant skills.
type Effect struct {
	Spawned *Projectile
}

type castFunc func(w *World, c Cast, item catalog.Item) Effect

var castTable = map[SkillType]castFunc{
	SkillFireball:  castBolt,
	SkillFrostNova: castBolt,
	SkillVenom:     castBolt,
	SkillHook:      castHook,
	SkillTeleport:  castTeleport,
	SkillMeteor:    castMeteor,
}

// Interpreter turns cast requests into projectiles or instant effects.
type Interpreter struct {
	World   *World
	Catalog catalog.Catalog
}

// Interpret resolves c against the catalog and applies it to the world.
// The caster always turns towards the cast and plays the attack animation.
func (in *Interpreter) Interpret(c Cast) (Effect, error) {
	fn, ok := castTable[c.Skill]
	if !ok {
		return Effect{}, fmt.Errorf("%w: %d", ErrUnknownSkill, int32(c.Skill))
	}
	if c.Caster.Eliminated {
		return Effect{}, ErrCasterDead
	}
	item, ok := in.Catalog.Lookup(c.Skill.ItemName(), c.Level)
	if !ok {
		return Effect{}, fmt.Errorf("%w: %s/%d", ErrUnknownItem, c.Skill, c.Level)
	}
	c.Caster.PlayAttack(c.End.Sub(c.Start))
	return fn(in.World, c, item), nil
}

func aim(c Cast) net.Vec3 {
	dir := c.End.Sub(c.Start).Flat().Normalize()
	if dir.Len() == 0 {
		// Zero-length casts fire along the caster's facing.
		yaw := c.Caster.body.Rotation.Y
		dir = net.Vec3{X: sin32(yaw), Z: cos32(yaw)}
	}
	return dir
}

func newBolt(c Cast, item catalog.Item) *Projectile {
	dir := aim(c)
	origin := c.Caster.body.Position.Add(dir.Scale(c.Caster.body.Radius + item.Radius + spawnClearance))
	pr := &Projectile{
		Owner:     c.Caster.ID(),
		Skill:     c.Skill,
		Level:     c.Level,
		Direction: dir,
		Speed:     item.Speed,
		Lifetime:  item.Lifetime,
	}
	pr.body = Body{Position: origin, Rotation: net.Vec3{Y: dir.Yaw()}, Radius: item.Radius}
	pr.prev = origin
	return pr
}

func castBolt(w *World, c Cast, item catalog.Item) Effect {
	pr := newBolt(c, item)
	w.Add(pr)
	return Effect{Spawned: pr}
}

func castHook(w *World, c Cast, item catalog.Item) Effect {
	pr := newBolt(c, item)
	pr.Pull = true
	w.Add(pr)
	return Effect{Spawned: pr}
}

func castMeteor(w *World, c Cast, item catalog.Item) Effect {
	at := c.End.Flat()
	pr := &Projectile{
		Owner:    c.Caster.ID(),
		Skill:    c.Skill,
		Level:    c.Level,
		Lifetime: item.Delay + item.Lifetime,
		Delay:    item.Delay,
		Area:     true,
	}
	pr.body = Body{Position: at, Radius: item.Radius}
	pr.prev = at
	w.Add(pr)
	return Effect{Spawned: pr}
}

// castTeleport moves the caster to the cast end, limited to the item's
// range when it has one.
func castTeleport(_ *World, c Cast, item catalog.Item) Effect {
	from := c.Caster.body.Position
	to := c.End.Flat()
	if d := to.Sub(from.Flat()); item.Range > 0 && d.Len() > item.Range {
		to = from.Flat().Add(d.Normalize().Scale(item.Range))
	}
	c.Caster.body.Position = to
	c.Caster.body.Velocity = net.Vec3{}
	c.Caster.targets = nil
	return Effect{}
}
