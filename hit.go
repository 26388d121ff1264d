package slicer

// HitResolver turns slice samples into hits and reaps targets that fell off
// the field.
type HitResolver struct {
	s *Session
}

// NewHitResolver returns a resolver bound to the session.
func NewHitResolver(s *Session) *HitResolver {
	return &HitResolver{s: s}
}

// Slice hits every live target whose body contains p, in physics query
// order. A sliced bomb ends the session and stops further hits.
func (h *HitResolver) Slice(p Vec2) {
	s := h.s
	if s.ended {
		return
	}
	for _, id := range s.physics.QueryPoint(p) {
		if s.ended {
			return
		}
		h.hit(id)
	}
}

func (h *HitResolver) hit(id TargetID) {
	s := h.s
	pos, _, ok := s.physics.Body(id)
	t, removed := s.reg.Remove(id, true)
	if !removed {
		// Already sliced or swept.
		return
	}
	if !ok {
		pos = t.Position
	}
	t.Position = pos

	s.physics.Freeze(id)
	s.scene.DissolveTarget(id, s.tuning.DissolveTime)
	s.timer.After(s.tuning.DissolveTime, func() {
		s.physics.RemoveBody(id)
	})

	if t.Kind == KindBomb {
		s.scene.PlayEffect(EffectExplosion, pos)
		s.audio.Play(SoundExplosion)
		s.log.Debug("bomb hit", "id", id)
		s.publish(GameEvent{Kind: EventBombHit, Target: t, Score: s.score, Lives: s.lives})
		s.syncFuse()
		s.EndGame(true)
		return
	}

	s.scene.PlayEffect(EffectSliceHit, pos)
	s.addPoint()
	s.audio.Play(SoundWhack)
	s.log.Debug("slice", "id", id, "score", s.score)
	s.publish(GameEvent{Kind: EventSliced, Target: t, Score: s.score, Lives: s.lives})
	s.syncFuse()
}

// Sweep removes every target below the field. A lost safe target costs a
// life; bombs fall away harmlessly.
func (h *HitResolver) Sweep() {
	s := h.s
	floor := s.tuning.OffscreenY
	for _, t := range s.reg.Targets() {
		pos := t.Position
		if p, _, ok := s.physics.Body(t.ID); ok {
			pos = p
		}
		if pos.Y >= floor {
			continue
		}
		gone, ok := s.reg.Remove(t.ID, false)
		if !ok {
			continue
		}
		gone.Position = pos
		s.scene.RemoveTarget(t.ID)
		s.physics.RemoveBody(t.ID)

		s.log.Debug("missed", "id", t.ID, "kind", t.Kind)
		s.publish(GameEvent{Kind: EventMissed, Target: gone, Score: s.score, Lives: s.lives})
		if t.Kind == KindSafe {
			s.LoseLife()
		}
	}
	s.syncFuse()
}
