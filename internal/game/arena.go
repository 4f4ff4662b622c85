package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog"

	"warlock/internal/catalog"
	"warlock/internal/net"
)

var ErrUnknownPlayer = errors.New("unknown player")

// Seconds between two lava damage ticks.
const lavaInterval = 0.1

// Deps are the collaborators an Arena needs.
type Deps struct {
	Catalog     catalog.Catalog
	Out         Outbox
	Cvars       *Cvars
	Log         zerolog.Logger
	Rand        *rand.Rand
	BroadcastHz int
}

type flood struct {
	active   bool
	timer    float32
	elapsed  float32
	from, to float32
}

// Arena runs the match: round phases, hazards, hits, scoring and the
// broadcast schedule. It is not safe for concurrent use; one goroutine
// drives it.
type Arena struct {
	world    *World
	round    Round
	cvars    *Cvars
	scores   *Scoreboard
	catalog  catalog.Catalog
	resolver *Resolver
	skills   *Interpreter
	out      Outbox
	log      zerolog.Logger
	rng      *rand.Rand

	radius          float32
	sentRadius      float32
	flood           flood
	lavaAcc         float32
	broadcastAcc    float32
	broadcastPeriod float32
	countdownSent   int
	spent           []int32
}

func NewArena(d Deps) *Arena {
	if d.Cvars == nil {
		d.Cvars, _ = NewCvars(nil)
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(1))
	}
	if d.BroadcastHz <= 0 {
		d.BroadcastHz = net.BroadcastHz
	}
	w := NewWorld()
	a := &Arena{
		world:           w,
		cvars:           d.Cvars,
		scores:          NewScoreboard(),
		catalog:         d.Catalog,
		resolver:        &Resolver{Catalog: d.Catalog, World: w},
		skills:          &Interpreter{World: w, Catalog: d.Catalog},
		out:             d.Out,
		log:             d.Log.With().Str("component", "arena").Logger(),
		rng:             d.Rand,
		broadcastPeriod: 1 / float32(d.BroadcastHz),
	}
	a.radius = a.cvars.Float(CvarArenaRadius)
	a.sentRadius = a.radius
	return a
}

func (a *Arena) World() *World           { return a.world }
func (a *Arena) Cvars() *Cvars           { return a.cvars }
func (a *Arena) Scores() *Scoreboard     { return a.scores }
func (a *Arena) Phase() Phase            { return a.round.Phase() }
func (a *Arena) Elapsed() float32        { return a.round.Elapsed() }
func (a *Arena) RoundNumber() int        { return a.round.Number() }
func (a *Arena) CompletedRounds() int    { return a.round.Completed() }
func (a *Arena) Radius() float32         { return a.radius }
func (a *Arena) impulseScale() float32   { return a.cvars.Float(CvarProjectileImpulse) }
func (a *Arena) broadcast(m net.Message) { a.out.Broadcast(m) }

// AddPlayer creates a player for a new connection. Players joining a
// running match spectate until the next round.
func (a *Arena) AddPlayer(name, peer string) *Player {
	p := NewPlayer(name, peer, a.cvars.Get(CvarStartGold))
	p.body.Position = SpawnPoints(a.rng, 1, a.radius)[0]
	if a.round.Phase() != PhaseLobby {
		p.Health = 0
		p.Eliminated = true
		p.Spectator = true
		p.Animation = AnimDeath
	}
	a.world.Add(p)
	a.scores.Add(name)
	a.log.Info().Str("player", name).Int32("id", p.id).Str("phase", a.round.Phase().String()).Msg("player joined")
	return p
}

// RemovePlayer drops a disconnected player. Projectiles it already fired
// stay in flight. The arena falls back to the lobby once empty.
func (a *Arena) RemovePlayer(id int32) (*Player, bool) {
	p, ok := a.world.Player(id)
	if !ok {
		return nil, false
	}
	a.world.Remove(id)
	a.scores.Remove(p.Name)
	a.log.Info().Str("player", p.Name).Int32("id", id).Msg("player left")

	if len(a.world.Players()) == 0 && a.round.Phase() != PhaseLobby {
		a.log.Info().Msg("arena empty, back to lobby")
		a.round.Reset()
		a.resetArena()
	}
	a.flushEvents()
	return p, true
}

// StartCountdown leaves the lobby and starts the pre-match countdown.
func (a *Arena) StartCountdown() error {
	if err := a.round.Transition(PhaseCountdown); err != nil {
		return err
	}
	a.countdownSent = CountdownSeconds
	a.broadcast(&net.CountdownTick{Seconds: CountdownSeconds})
	a.log.Info().Int("seconds", CountdownSeconds).Msg("countdown started")
	return nil
}

// Ready marks a player done shopping. It reports false outside Shopping.
func (a *Arena) Ready(id int32) bool {
	p, ok := a.world.Player(id)
	if !ok || a.round.Phase() != PhaseShopping {
		return false
	}
	p.Ready = true
	return true
}

// RestartRound throws away the current round and starts a fresh one.
func (a *Arena) RestartRound() error {
	if !a.round.Phase().Started() {
		return fmt.Errorf("%w: restart from %s", ErrInvalidTransition, a.round.Phase())
	}
	return a.startRound()
}

// Rematch resets scores and round counters after a finished match and
// returns everyone to the lobby.
func (a *Arena) Rematch() error {
	if err := a.round.Transition(PhaseLobby); err != nil {
		return err
	}
	a.round.Reset()
	a.scores.Reset()
	a.resetArena()

	players := a.world.Players()
	points := SpawnPoints(a.rng, len(players), a.radius)
	for i, p := range players {
		p.Gold = a.cvars.Get(CvarStartGold)
		p.Items = map[string]int{}
		p.RecomputeStats(a.catalog)
		p.Respawn(points[i])
	}
	a.flushEvents()
	a.broadcast(&net.PerformRematch{})
	a.log.Info().Int("players", len(players)).Msg("rematch")
	return nil
}

// SetTarget queues a movement target. Knocked-back and eliminated players
// ignore targets; the result says whether the target was taken.
func (a *Arena) SetTarget(id int32, target net.Vec3, clear bool) bool {
	p, ok := a.world.Player(id)
	if !ok || p.Eliminated || p.KnockedBack() {
		return false
	}
	p.AddTarget(target, clear)
	return true
}

// CastSkill interprets a cast from player id and broadcasts it with the
// owner replaced by the caster and the spawned entity id, if any.
func (a *Arena) CastSkill(id int32, m *net.SkillCast) error {
	p, ok := a.world.Player(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	eff, err := a.skills.Interpret(Cast{
		Caster: p,
		Skill:  SkillType(m.Skill),
		Level:  int(m.Level),
		Start:  m.Start,
		End:    m.End,
	})
	if err != nil {
		return err
	}

	reply := *m
	reply.Owner = id
	reply.HasSpawned = eff.Spawned != nil
	reply.SpawnedID = 0
	if eff.Spawned != nil {
		reply.SpawnedID = eff.Spawned.ID()
	}
	a.broadcast(&reply)
	return nil
}

// EquipItem records a bought item and refreshes the player's stats.
func (a *Arena) EquipItem(id int32, name string, level int) error {
	p, ok := a.world.Player(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	if _, ok := a.catalog.Lookup(name, level); !ok {
		return fmt.Errorf("%w: %s/%d", ErrUnknownItem, name, level)
	}
	p.Items[name] = level
	p.RecomputeStats(a.catalog)
	return nil
}

func (a *Arena) UnequipItem(id int32, name string) error {
	p, ok := a.world.Player(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	delete(p.Items, name)
	p.RecomputeStats(a.catalog)
	return nil
}

func (a *Arena) SetGold(id int32, gold int32) error {
	p, ok := a.world.Player(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	p.Gold = gold
	return nil
}

// GiveGold adds amount to the named player's gold.
func (a *Arena) GiveGold(name string, amount int32) (*Player, error) {
	p, ok := a.world.PlayerByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	p.Gold += amount
	return p, nil
}

// SetCvar stores a cvar and announces it to everyone.
func (a *Arena) SetCvar(name string, value int32) (int32, error) {
	v, err := a.cvars.Set(name, value)
	if err != nil {
		return 0, err
	}
	if a.round.Phase() == PhaseLobby {
		switch name {
		case CvarArenaRadius:
			a.radius = float32(v)
		case CvarStartGold:
			for _, p := range a.world.Players() {
				p.Gold = v
			}
		}
	}
	a.broadcast(&net.CvarChange{Name: name, Value: v, ShowInChat: true})
	a.log.Info().Str("cvar", name).Int32("value", v).Msg("cvar changed")
	return v, nil
}

// Update advances the simulation by dt seconds.
func (a *Arena) Update(dt float32) {
	a.round.Advance(dt)

	switch a.round.Phase() {
	case PhaseCountdown:
		left := CountdownSeconds - a.round.Elapsed()
		if left <= 0 {
			a.startGame()
		} else if s := int(math.Ceil(float64(left))); s < a.countdownSent {
			a.countdownSent = s
			a.broadcast(&net.CountdownTick{Seconds: int32(s)})
		}
	case PhaseShopping:
		if a.round.Elapsed() >= a.cvars.Float(CvarShopTime) || a.allReady() {
			a.startPlaying()
		}
	case PhasePlaying:
		a.updateLava(dt)
		a.updateFlood(dt)
	case PhaseRoundEnding:
		if a.round.Elapsed() >= RoundEndDelay {
			if err := a.startRound(); err != nil {
				a.log.Error().Err(err).Msg("start next round")
			}
		}
	}

	a.world.Step(dt)
	a.flushEvents()
	for _, p := range a.world.Players() {
		if p.TryEliminate() {
			a.onEliminated(p)
		}
	}

	a.broadcastAcc += dt
	if a.broadcastAcc >= a.broadcastPeriod {
		a.broadcastAcc -= a.broadcastPeriod
		a.broadcastTick()
	}
}

func (a *Arena) broadcastTick() {
	if a.round.Phase() == PhasePlaying {
		a.checkRoundEnd()
	}
	if a.radius != a.sentRadius {
		a.sentRadius = a.radius
		a.broadcast(&net.ArenaRadius{Radius: a.radius})
	}
	a.BroadcastWorld()
	a.broadcast(&net.StateTimer{Elapsed: a.round.Elapsed()})
}

// BroadcastWorld sends one WORLD_UPDATE per entity.
func (a *Arena) BroadcastWorld() {
	for _, id := range a.world.order {
		a.broadcast(a.world.entities[id].Snapshot())
	}
}

// SendWorld sends the full world state to one player.
func (a *Arena) SendWorld(to int32) {
	for _, id := range a.world.order {
		a.out.SendTo(to, a.world.entities[id].Snapshot())
	}
}

func (a *Arena) allReady() bool {
	players := contenders(a.world.Players())
	if len(players) == 0 {
		return false
	}
	for _, p := range players {
		if !p.Ready {
			return false
		}
	}
	return true
}

func (a *Arena) startGame() {
	for _, p := range a.world.Players() {
		p.Gold = a.cvars.Get(CvarStartGold)
		p.Items = map[string]int{}
		p.RecomputeStats(a.catalog)
	}
	if err := a.startRound(); err != nil {
		a.log.Error().Err(err).Msg("start game")
		return
	}
	a.log.Info().Int("players", len(a.world.Players())).Msg("game started")
}

func (a *Arena) startRound() error {
	if err := a.round.BeginRound(); err != nil {
		return err
	}
	a.resetArena()

	players := a.world.Players()
	points := SpawnPoints(a.rng, len(players), a.radius)
	for i, p := range players {
		p.Respawn(points[i])
	}
	a.flushEvents()

	a.broadcast(&net.RoundStart{})
	a.broadcast(&net.ChangeToShopping{})
	a.sentRadius = a.radius
	a.broadcast(&net.ArenaRadius{Radius: a.radius})
	a.log.Info().Int("round", a.round.Number()).Msg("round started")
	return nil
}

func (a *Arena) startPlaying() {
	if err := a.round.Transition(PhasePlaying); err != nil {
		a.log.Error().Err(err).Msg("start playing")
		return
	}
	live := make([]*Player, 0)
	for _, p := range a.world.Players() {
		p.Ready = false
		if !p.Spectator {
			live = append(live, p)
		}
	}
	points := SpawnPoints(a.rng, len(live), a.radius)
	for i, p := range live {
		p.body.Position = points[i]
		p.body.Velocity = net.Vec3{}
		p.targets = nil
	}
	a.broadcast(&net.ChangeToPlaying{})
	a.BroadcastWorld()
}

// resetArena restores the safe radius and clears every projectile.
func (a *Arena) resetArena() {
	a.radius = a.cvars.Float(CvarArenaRadius)
	a.flood = flood{}
	a.lavaAcc = 0
	a.spent = nil
	for _, pr := range a.world.Projectiles() {
		a.world.Remove(pr.id)
	}
}

func (a *Arena) updateLava(dt float32) {
	a.lavaAcc += dt
	for a.lavaAcc >= lavaInterval {
		a.lavaAcc -= lavaInterval
		dmg := a.cvars.Float(CvarLavaDamage)
		for _, p := range a.world.Players() {
			if p.Eliminated {
				continue
			}
			p.OutOfBounds = !InsideArena(p.body.Position, a.radius)
			if p.OutOfBounds {
				p.TakeDamage(dmg * (1 - p.LavaImmunity()))
			}
		}
	}
}

func (a *Arena) updateFlood(dt float32) {
	f := &a.flood
	minRadius := a.cvars.Float(CvarMinRadius)
	if !f.active {
		f.timer += dt
		if f.timer < a.cvars.Float(CvarFloodInterval) || a.radius <= minRadius {
			return
		}
		f.active = true
		f.elapsed = 0
		f.from = a.radius
		f.to = a.radius - a.cvars.Float(CvarFloodShrink)
		if f.to < minRadius {
			f.to = minRadius
		}
		a.broadcast(&net.FloodStart{})
		a.log.Debug().Float32("from", f.from).Float32("to", f.to).Msg("flood started")
		return
	}

	f.elapsed += dt
	t := f.elapsed / a.cvars.Float(CvarFloodDuration)
	if t > 1 {
		t = 1
	}
	a.radius = f.from + (f.to-f.from)*t
	if t >= 1 {
		f.active = false
		f.timer = 0
	}
}

// flushEvents drains the world's event queue until it is empty.
func (a *Arena) flushEvents() {
	for events := a.world.Drain(); len(events) > 0; events = a.world.Drain() {
		for _, ev := range events {
			a.log.Trace().Stringer("event", ev.Kind).Int32("id", ev.ID).Msg("world event")
			switch ev.Kind {
			case EventAdded:
				if e, ok := a.world.Get(ev.ID); ok {
					a.broadcast(e.Snapshot())
				}
			case EventRemoved:
				a.broadcast(&net.ObjectRemoved{ID: ev.ID})
			case EventCollision:
				a.handleCollision(ev.ID, ev.Other)
			}
		}
		for _, id := range a.spent {
			a.world.Remove(id)
		}
		a.spent = a.spent[:0]
	}
}

func (a *Arena) handleCollision(playerID, projectileID int32) {
	p, ok := a.world.Player(playerID)
	if !ok {
		return
	}
	pr, ok := a.world.Projectile(projectileID)
	if !ok {
		return
	}

	out := a.resolver.Resolve(p, pr, a.round.Phase(), a.impulseScale())
	if pr.Area {
		a.spent = append(a.spent, pr.id)
	} else {
		a.world.Remove(pr.id)
	}
	if out.Unknown {
		a.log.Warn().Str("skill", pr.Skill.String()).Int("level", pr.Level).Msg("hit with unknown skill ignored")
	}
	if !out.Applied {
		return
	}

	a.BroadcastWorld()
	a.broadcast(&net.ProjectilePlayerCollision{ProjectileID: pr.id, PlayerID: p.id})
	a.log.Debug().Str("player", p.Name).Str("skill", pr.Skill.String()).Float32("damage", out.Damage).Msg("hit")
	if out.Eliminated {
		a.onEliminated(p)
	}
}

func (a *Arena) onEliminated(p *Player) {
	eliminator := p.Name
	if h, ok := a.world.Player(p.LastHitter); ok && h != p {
		eliminator = h.Name
		h.Gold += a.cvars.Get(CvarGoldPerKill)
	}
	a.broadcast(&net.PlayerEliminated{Killed: p.Name, Eliminator: eliminator})
	a.log.Info().Str("player", p.Name).Str("by", eliminator).Msg("player eliminated")
}

func (a *Arena) checkRoundEnd() {
	players := a.world.Players()
	winner, won := HasRoundEnded(players)
	if !won && !IsDraw(players) {
		return
	}
	if !a.round.MarkEnded() {
		return
	}

	name := ""
	if winner != nil {
		name = winner.Name
		winner.Gold += a.cvars.Get(CvarGoldPerWin)
		a.scores.Win(name)
	}

	if err := a.round.Transition(PhaseRoundEnding); err != nil {
		a.log.Error().Err(err).Msg("round ending")
		return
	}
	a.broadcast(&net.RoundEnded{Winner: name})
	a.log.Info().Str("winner", name).Int("round", a.round.Number()).Msg("round ended")

	if !a.round.CompleteRound(int(a.cvars.Get(CvarNumRounds))) {
		return
	}
	if err := a.round.Transition(PhaseGameOver); err != nil {
		a.log.Error().Err(err).Msg("game over")
		return
	}
	leader := a.scores.Leader()
	a.broadcast(&net.GameOver{Winner: leader})
	a.log.Info().Str("winner", leader).Int("rounds", a.round.Completed()).Msg("game over")
}

// Status copies the arena state for readers on other goroutines.
func (a *Arena) Status() Status {
	st := Status{
		Phase:           a.round.Phase().String(),
		Elapsed:         a.round.Elapsed(),
		Round:           a.round.Number(),
		CompletedRounds: a.round.Completed(),
		RoundLimit:      a.cvars.Get(CvarNumRounds),
		ArenaRadius:     a.radius,
		Projectiles:     len(a.world.Projectiles()),
	}
	for _, p := range a.world.Players() {
		st.Players = append(st.Players, PlayerStatus{
			ID:         p.id,
			Name:       p.Name,
			Health:     p.Health,
			MaxHealth:  p.MaxHealth,
			Gold:       p.Gold,
			Eliminated: p.Eliminated,
			Spectator:  p.Spectator,
			Ready:      p.Ready,
			Wins:       a.scores.Wins(p.Name),
		})
	}
	return st
}
