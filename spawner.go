package slicer

import "math/rand/v2"

// Spawner creates targets with a randomized kind, launch position and
// velocity, and hands them to the scene, physics and registry.
type Spawner struct {
	s   *Session
	rng *rand.Rand
}

// NewSpawner returns a spawner bound to the session.
func NewSpawner(s *Session, rng *rand.Rand) *Spawner {
	return &Spawner{s: s, rng: rng}
}

// Spawn launches one target. force overrides the 1-in-7 bomb roll. Nothing
// is spawned once the session has ended; the second result is false then.
func (sp *Spawner) Spawn(force Force) (Target, bool) {
	s := sp.s
	if s.ended {
		return Target{}, false
	}
	tn := s.tuning

	kind := KindSafe
	if sp.rng.IntN(7) == 0 {
		kind = KindBomb
	}
	switch force {
	case ForceNever:
		kind = KindSafe
	case ForceAlways:
		kind = KindBomb
	}

	x := randInt(sp.rng, 64, 960)
	pos := Vec2{float64(x), tn.SpawnY}
	spin := float64(randInt(sp.rng, -6, 6)) / 2
	vel := launchVelocity(sp.rng, x, tn.VelocityScale)

	if kind == KindBomb {
		s.restartFuse()
	} else {
		s.audio.Play(SoundLaunch)
	}

	t := s.reg.Add(Target{
		Kind:            kind,
		Position:        pos,
		Velocity:        vel,
		AngularVelocity: spin,
	})
	s.scene.AddTarget(t.ID, kind, pos)
	s.physics.AddBody(t.ID, BodySpec{
		Position:        pos,
		Velocity:        vel,
		AngularVelocity: spin,
		Radius:          tn.TargetRadius,
	})

	s.log.Debug("spawn", "id", t.ID, "kind", kind, "x", x, "vx", vel.X, "vy", vel.Y)
	s.publish(GameEvent{Kind: EventSpawned, Target: t, Score: s.score, Lives: s.lives})
	return t, true
}

// launchVelocity rolls the launch velocity for a target starting at x. The
// horizontal push points toward the middle of the field and is strongest
// from the outer quarters.
func launchVelocity(rng *rand.Rand, x int, scale float64) Vec2 {
	var vx int
	switch {
	case x < FieldWidth/4:
		vx = randInt(rng, 8, 15)
	case x < FieldWidth/2:
		vx = randInt(rng, 3, 5)
	case x < FieldWidth*3/4:
		vx = -randInt(rng, 3, 5)
	default:
		vx = -randInt(rng, 8, 15)
	}
	vy := randInt(rng, 24, 32)
	return Vec2{float64(vx) * scale, float64(vy) * scale}
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
