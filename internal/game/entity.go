package game

import (
	"math"

	"warlock/internal/catalog"
	"warlock/internal/net"
)

// Entity is anything the World simulates.
type Entity interface {
	ID() int32
	Type() net.EntityType
	Body() *Body
	Update(dt float32)
	Snapshot() *net.WorldUpdate
	setID(id int32)
}

// Body is the shared physical state of an entity.
type Body struct {
	Position net.Vec3
	Rotation net.Vec3
	Velocity net.Vec3
	Radius   float32
}

type Animation uint8

const (
	AnimIdle Animation = iota
	AnimRun
	AnimAttack
	AnimKnockback
	AnimDeath
)

const (
	PlayerRadius       = 1.0
	BaseMaxHealth      = 100
	BaseMoveSpeed      = 8.0
	KnockbackThreshold = 2.0
	// Fraction of knock-back velocity kept per second.
	KnockbackDamping = 0.05
	// Movement multiplier while standing in lava.
	LavaSpeedPenalty = 0.5
	attackAnimTime   = 0.4
	arrivalEpsilon   = 0.1
)

type EffectKind uint8

const (
	EffectSlow EffectKind = iota + 1
	EffectPoison
)

// StatusEffect is a timed modifier attached by a hit. Slow multiplies
// movement speed by Factor; Poison deals Factor damage per second.
type StatusEffect struct {
	Kind      EffectKind
	Factor    float32
	Remaining float32
	Source    int32
}

// itemStats is the passive sum of every equipped item.
type itemStats struct {
	maxHealth    float32
	lavaImmunity float32
	moveBonus    float32
}

type Player struct {
	body Body
	id   int32

	Name string
	Peer string

	Health     float32
	MaxHealth  float32
	Gold       int32
	Eliminated bool
	// LastHitter is the id of the player whose hit landed last, 0 for none.
	LastHitter int32

	Items       map[string]int
	Effects     []StatusEffect
	Animation   Animation
	DeathTimer  float32
	Ready       bool
	OutOfBounds bool
	// Spectator is set for players who joined mid-match. They sit out
	// until the next round starts.
	Spectator bool

	targets   []net.Vec3
	stats     itemStats
	animTimer float32
}

func NewPlayer(name, peer string, gold int32) *Player {
	return &Player{
		body:      Body{Radius: PlayerRadius},
		Name:      name,
		Peer:      peer,
		Health:    BaseMaxHealth,
		MaxHealth: BaseMaxHealth,
		Gold:      gold,
		Items:     map[string]int{},
	}
}

func (p *Player) ID() int32            { return p.id }
func (p *Player) setID(id int32)       { p.id = id }
func (p *Player) Type() net.EntityType { return net.EntityPlayer }
func (p *Player) Body() *Body          { return &p.body }

func (p *Player) LavaImmunity() float32 { return p.stats.lavaImmunity }

// KnockedBack reports whether an impulse is still carrying the player.
func (p *Player) KnockedBack() bool { return p.body.Velocity.Len() > KnockbackThreshold }

// TakeDamage subtracts dmg and clamps health to [0, MaxHealth].
func (p *Player) TakeDamage(dmg float32) {
	p.Health -= dmg
	if p.Health < 0 {
		p.Health = 0
	}
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}

// TryEliminate marks the player eliminated if health reached zero. It
// reports true only the first time.
func (p *Player) TryEliminate() bool {
	if p.Eliminated || p.Health > 0 {
		return false
	}
	p.Eliminated = true
	p.Animation = AnimDeath
	p.DeathTimer = 0
	p.targets = nil
	p.Effects = nil
	p.body.Velocity = net.Vec3{}
	return true
}

// RecomputeStats sums the passive bonuses of every equipped item. Items
// missing from the catalog contribute nothing.
func (p *Player) RecomputeStats(cat catalog.Catalog) {
	var s itemStats
	for name, level := range p.Items {
		it, ok := cat.Lookup(name, level)
		if !ok {
			continue
		}
		s.maxHealth += it.MaxHealth
		s.lavaImmunity += it.LavaImmunity
		s.moveBonus += it.MoveSpeed
	}
	if s.lavaImmunity > 1 {
		s.lavaImmunity = 1
	}
	old := p.MaxHealth
	p.stats = s
	p.MaxHealth = BaseMaxHealth + s.maxHealth
	if p.MaxHealth < 1 {
		p.MaxHealth = 1
	}
	// Health keeps its fraction of the maximum.
	if !p.Eliminated && old > 0 {
		p.Health *= p.MaxHealth / old
		if p.Health > p.MaxHealth {
			p.Health = p.MaxHealth
		}
	}
}

// AddTarget queues a movement target. clear drops any pending targets first.
func (p *Player) AddTarget(target net.Vec3, clear bool) {
	if clear {
		p.targets = p.targets[:0]
	}
	p.targets = append(p.targets, target.Flat())
}

func (p *Player) AddEffect(e StatusEffect) { p.Effects = append(p.Effects, e) }

// SpeedFactor combines item bonuses, the strongest slow and the lava penalty.
func (p *Player) SpeedFactor() float32 {
	f := 1 + p.stats.moveBonus
	slow := float32(1)
	for _, e := range p.Effects {
		if e.Kind == EffectSlow && e.Factor < slow {
			slow = e.Factor
		}
	}
	f *= slow
	if p.OutOfBounds {
		f *= LavaSpeedPenalty
	}
	if f < 0 {
		return 0
	}
	return f
}

// PlayAttack faces the player along dir and starts the attack animation.
func (p *Player) PlayAttack(dir net.Vec3) {
	if dir.Flat().Len() > 0 {
		p.body.Rotation = net.Vec3{Y: dir.Flat().Yaw()}
	}
	p.Animation = AnimAttack
	p.animTimer = attackAnimTime
}

// Respawn restores the player for a new round at pos.
func (p *Player) Respawn(pos net.Vec3) {
	p.Health = p.MaxHealth
	p.Eliminated = false
	p.LastHitter = 0
	p.Effects = nil
	p.targets = nil
	p.Animation = AnimIdle
	p.DeathTimer = 0
	p.Ready = false
	p.OutOfBounds = false
	p.Spectator = false
	p.animTimer = 0
	p.body.Position = pos
	p.body.Velocity = net.Vec3{}
}

// Update advances effects and movement. Poison damage is applied here; the
// caller decides what an empty health bar means.
func (p *Player) Update(dt float32) {
	if p.Eliminated {
		p.DeathTimer += dt
		return
	}

	kept := p.Effects[:0]
	for _, e := range p.Effects {
		step := dt
		if e.Remaining < step {
			step = e.Remaining
		}
		if e.Kind == EffectPoison {
			p.TakeDamage(e.Factor * step)
			if e.Source != 0 {
				p.LastHitter = e.Source
			}
		}
		e.Remaining -= dt
		if e.Remaining > 0 {
			kept = append(kept, e)
		}
	}
	p.Effects = kept

	if p.animTimer > 0 {
		p.animTimer -= dt
	}

	b := &p.body
	if b.Velocity.Len() > arrivalEpsilon {
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		b.Velocity = b.Velocity.Scale(pow32(KnockbackDamping, dt))
		if p.KnockedBack() {
			p.Animation = AnimKnockback
			return
		}
	} else {
		b.Velocity = net.Vec3{}
	}

	moved := false
	for len(p.targets) > 0 {
		to := p.targets[0].Sub(b.Position.Flat())
		dist := to.Len()
		if dist <= arrivalEpsilon {
			p.targets = p.targets[1:]
			continue
		}
		step := BaseMoveSpeed * p.SpeedFactor() * dt
		if step > dist {
			step = dist
		}
		dir := to.Normalize()
		b.Position = b.Position.Add(dir.Scale(step))
		b.Rotation = net.Vec3{Y: dir.Yaw()}
		moved = step > 0
		break
	}

	switch {
	case p.animTimer > 0:
		p.Animation = AnimAttack
	case moved:
		p.Animation = AnimRun
	default:
		p.Animation = AnimIdle
	}
}

func (p *Player) Snapshot() *net.WorldUpdate {
	return &net.WorldUpdate{
		EntityType: net.EntityPlayer,
		ID:         p.id,
		Position:   p.body.Position,
		Rotation:   p.body.Rotation,
		Animation:  uint8(p.Animation),
		DeathTimer: p.DeathTimer,
		Health:     p.Health,
		Gold:       p.Gold,
	}
}

// Projectile is a spawned skill effect travelling through the arena.
type Projectile struct {
	body Body
	id   int32

	Owner     int32
	Skill     SkillType
	Level     int
	Direction net.Vec3
	Speed     float32
	// Lifetime is the remaining time before the projectile expires.
	Lifetime float32
	// Delay keeps the projectile inert until Age reaches it.
	Delay float32
	Age   float32
	// Area projectiles hit every overlapping player once, then vanish.
	Area bool
	// Pull projectiles knock the target towards the owner.
	Pull bool

	prev net.Vec3
}

func (pr *Projectile) ID() int32            { return pr.id }
func (pr *Projectile) setID(id int32)       { pr.id = id }
func (pr *Projectile) Type() net.EntityType { return net.EntityProjectile }
func (pr *Projectile) Body() *Body          { return &pr.body }

func (pr *Projectile) Armed() bool   { return pr.Age >= pr.Delay }
func (pr *Projectile) Expired() bool { return pr.Lifetime <= 0 }

func (pr *Projectile) Update(dt float32) {
	pr.prev = pr.body.Position
	pr.Age += dt
	pr.Lifetime -= dt
	if pr.Speed > 0 {
		pr.body.Velocity = pr.Direction.Scale(pr.Speed)
		pr.body.Position = pr.body.Position.Add(pr.body.Velocity.Scale(dt))
	}
}

func (pr *Projectile) Snapshot() *net.WorldUpdate {
	return &net.WorldUpdate{
		EntityType: net.EntityProjectile,
		ID:         pr.id,
		Position:   pr.body.Position,
		Rotation:   pr.body.Rotation,
	}
}

func pow32(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

func sin32(x float32) float32 { return float32(math.Sin(float64(x))) }
func cos32(x float32) float32 { return float32(math.Cos(float64(x))) }
