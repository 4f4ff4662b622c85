package game

import (
	"warlock/internal/net"
)

type EventKind uint8

const (
	EventAdded EventKind = iota + 1
	EventRemoved
	EventCollision
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	case EventCollision:
		return "collision"
	default:
		return "unknown"
	}
}

// Event is queued by the World and drained once per tick. For collisions
// ID is the player and Other the projectile.
type Event struct {
	Kind  EventKind
	ID    int32
	Type  net.EntityType
	Other int32
}

// World owns every entity. Ids are assigned from a monotonic counter and
// never reused, so a stale id in a late message can only miss.
type World struct {
	nextID   int32
	entities map[int32]Entity
	order    []int32
	events   []Event
}

func NewWorld() *World {
	return &World{entities: map[int32]Entity{}}
}

// Add assigns e a fresh id and takes ownership of it.
func (w *World) Add(e Entity) int32 {
	w.nextID++
	id := w.nextID
	e.setID(id)
	w.entities[id] = e
	w.order = append(w.order, id)
	w.events = append(w.events, Event{Kind: EventAdded, ID: id, Type: e.Type()})
	return id
}

// Remove drops the entity. It reports false for unknown ids.
func (w *World) Remove(id int32) bool {
	e, ok := w.entities[id]
	if !ok {
		return false
	}
	delete(w.entities, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.events = append(w.events, Event{Kind: EventRemoved, ID: id, Type: e.Type()})
	return true
}

func (w *World) Get(id int32) (Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

func (w *World) Player(id int32) (*Player, bool) {
	p, ok := w.entities[id].(*Player)
	return p, ok
}

func (w *World) Projectile(id int32) (*Projectile, bool) {
	pr, ok := w.entities[id].(*Projectile)
	return pr, ok
}

func (w *World) PlayerByName(name string) (*Player, bool) {
	for _, id := range w.order {
		if p, ok := w.entities[id].(*Player); ok && p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func (w *World) Len() int { return len(w.order) }

// ForEach visits entities of type t in insertion order. fn may add or
// remove entities.
func (w *World) ForEach(t net.EntityType, fn func(Entity)) {
	ids := append([]int32(nil), w.order...)
	for _, id := range ids {
		e, ok := w.entities[id]
		if ok && e.Type() == t {
			fn(e)
		}
	}
}

// Players returns every player in join order.
func (w *World) Players() []*Player {
	var out []*Player
	for _, id := range w.order {
		if p, ok := w.entities[id].(*Player); ok {
			out = append(out, p)
		}
	}
	return out
}

func (w *World) Projectiles() []*Projectile {
	var out []*Projectile
	for _, id := range w.order {
		if pr, ok := w.entities[id].(*Projectile); ok {
			out = append(out, pr)
		}
	}
	return out
}

// Step advances every entity, drops expired projectiles and queues the
// player/projectile collisions of this tick.
func (w *World) Step(dt float32) {
	ids := append([]int32(nil), w.order...)
	for _, id := range ids {
		if e, ok := w.entities[id]; ok {
			e.Update(dt)
		}
	}
	w.detectCollisions()
	for _, pr := range w.Projectiles() {
		if pr.Expired() {
			w.Remove(pr.id)
		}
	}
}

func (w *World) detectCollisions() {
	players := w.Players()
	for _, pr := range w.Projectiles() {
		if !pr.Armed() {
			continue
		}
		for _, p := range players {
			if p.Eliminated || p.id == pr.Owner {
				continue
			}
			var hit bool
			if pr.Area {
				hit = SpheresOverlap(pr.body.Position.Flat(), pr.body.Radius, p.body.Position.Flat(), p.body.Radius)
			} else {
				hit = SweptSphereHit(pr.prev, pr.body.Position, p.body.Position, pr.body.Radius+p.body.Radius)
			}
			if !hit {
				continue
			}
			w.events = append(w.events, Event{Kind: EventCollision, ID: p.id, Type: net.EntityPlayer, Other: pr.id})
			if !pr.Area {
				break
			}
		}
	}
}

// Drain returns and clears the pending events.
func (w *World) Drain() []Event {
	ev := w.events
	w.events = nil
	return ev
}
