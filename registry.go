package slicer

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// Target is a snapshot of a spawned target.
type Target struct {
	ID              TargetID
	Kind            Kind
	Position        Vec2
	Velocity        Vec2
	AngularVelocity float64
	Alive           bool
	Sliced          bool
}

// TargetComponent stores a Target on its donburi entity.
var TargetComponent = donburi.NewComponentType[Target]()

// BombTag marks bomb entities so bomb presence is a single query.
var BombTag = donburi.NewTag()

var (
	targetQuery = donburi.NewQuery(filter.Contains(TargetComponent))
	bombQuery   = donburi.NewQuery(filter.Contains(TargetComponent, BombTag))
)

// Registry is the set of active targets, backed by a donburi world. Removed
// targets lose their entity; their IDs are never reissued.
type Registry struct {
	world    donburi.World
	entities map[TargetID]donburi.Entity
	nextID   TargetID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		world:    donburi.NewWorld(),
		entities: make(map[TargetID]donburi.Entity),
	}
}

// World exposes the underlying donburi world for event subscribers.
func (r *Registry) World() donburi.World {
	return r.world
}

// Add registers a new live target and returns it with its freshly
// allocated ID.
func (r *Registry) Add(t Target) Target {
	r.nextID++
	t.ID = r.nextID
	t.Alive = true
	t.Sliced = false

	var e donburi.Entity
	if t.Kind == KindBomb {
		e = r.world.Create(TargetComponent, BombTag)
	} else {
		e = r.world.Create(TargetComponent)
	}
	TargetComponent.SetValue(r.world.Entry(e), t)
	r.entities[t.ID] = e
	return t
}

// Get returns the target with the given ID if it is still registered.
func (r *Registry) Get(id TargetID) (Target, bool) {
	entry, ok := r.entry(id)
	if !ok {
		return Target{}, false
	}
	return *TargetComponent.Get(entry), true
}

// Contains reports whether id is still registered.
func (r *Registry) Contains(id TargetID) bool {
	_, ok := r.entry(id)
	return ok
}

// SetMotion records the latest simulated motion of a target.
func (r *Registry) SetMotion(id TargetID, pos, vel Vec2, spin float64) {
	entry, ok := r.entry(id)
	if !ok {
		return
	}
	t := TargetComponent.Get(entry)
	t.Position = pos
	t.Velocity = vel
	t.AngularVelocity = spin
}

// Remove unregisters a target and returns its final state. The second
// result is false when the target was already gone, which makes removal
// safe to race between the sweep and slice paths.
func (r *Registry) Remove(id TargetID, sliced bool) (Target, bool) {
	entry, ok := r.entry(id)
	if !ok {
		return Target{}, false
	}
	t := *TargetComponent.Get(entry)
	t.Alive = false
	t.Sliced = sliced
	r.world.Remove(entry.Entity())
	delete(r.entities, id)
	return t, true
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	return targetQuery.Count(r.world)
}

// Bombs returns the number of registered bombs.
func (r *Registry) Bombs() int {
	return bombQuery.Count(r.world)
}

// Targets returns a snapshot of every registered target, ordered by ID.
func (r *Registry) Targets() []Target {
	out := make([]Target, 0, len(r.entities))
	targetQuery.Each(r.world, func(entry *donburi.Entry) {
		out = append(out, *TargetComponent.Get(entry))
	})
	sortTargets(out)
	return out
}

// Clear unregisters every target and returns how many were live. IDs keep
// counting from where they were.
func (r *Registry) Clear() int {
	n := 0
	for id, e := range r.entities {
		if r.world.Valid(e) {
			r.world.Remove(e)
			n++
		}
		delete(r.entities, id)
	}
	return n
}

func (r *Registry) entry(id TargetID) (*donburi.Entry, bool) {
	e, ok := r.entities[id]
	if !ok || !r.world.Valid(e) {
		return nil, false
	}
	return r.world.Entry(e), true
}

// sortTargets orders targets by ID; target counts are small, so insertion
// sort keeps this allocation free.
func sortTargets(ts []Target) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j].ID < ts[j-1].ID; j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}

// --- Events ---

// EventKind identifies a GameEvent.
type EventKind uint8

const (
	EventSpawned  EventKind = iota // a target entered the registry
	EventSliced                    // a safe target was sliced
	EventBombHit                   // a bomb was sliced
	EventMissed                    // a target fell off the field
	EventLifeLost                  // a life was spent
	EventGameOver                  // the session ended
)

func (k EventKind) String() string {
	switch k {
	case EventSpawned:
		return "spawned"
	case EventSliced:
		return "sliced"
	case EventBombHit:
		return "bomb-hit"
	case EventMissed:
		return "missed"
	case EventLifeLost:
		return "life-lost"
	case EventGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// GameEvent is published on the registry world and delivered once per frame
// from Game.Update.
type GameEvent struct {
	Kind   EventKind
	Target Target
	Score  int
	Lives  int
	// ByBomb is set on EventGameOver when a sliced bomb ended the game.
	ByBomb bool
}

// GameEventType is the donburi event type carrying GameEvents.
var GameEventType = events.NewEventType[GameEvent]()
