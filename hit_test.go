package slicer

import "testing"

func TestSliceSafeTarget(t *testing.T) {
	h := newHarness(t)
	tg := h.spawn(t, ForceNever)
	h.physics.place(tg.ID, Vec2{300, 400})

	h.hits.Slice(Vec2{310, 400})

	s := h.session
	if s.Score() != 1 || h.scene.score != 1 {
		t.Errorf("score = %d (scene %d), want 1", s.Score(), h.scene.score)
	}
	if s.Registry().Contains(tg.ID) {
		t.Error("sliced target should leave the registry")
	}
	if !h.physics.bodies[tg.ID].frozen {
		t.Error("sliced body should be frozen")
	}
	if len(h.scene.dissolve) != 1 || h.scene.dissolve[0] != tg.ID {
		t.Errorf("dissolved = %v, want [%d]", h.scene.dissolve, tg.ID)
	}
	if len(h.scene.effects) != 1 || h.scene.effects[0].fx != EffectSliceHit || h.scene.effects[0].pos != (Vec2{300, 400}) {
		t.Errorf("effects = %+v", h.scene.effects)
	}
	if h.audio.count(SoundWhack) != 1 {
		t.Errorf("whack = %d, want 1", h.audio.count(SoundWhack))
	}

	// The body is removed once the dissolve finishes.
	h.clock.Advance(0.2)
	if _, ok := h.physics.bodies[tg.ID]; ok {
		t.Error("body should be removed after the dissolve")
	}
}

func TestSliceScoresOnce(t *testing.T) {
	h := newHarness(t)
	tg := h.spawn(t, ForceNever)
	h.physics.place(tg.ID, Vec2{300, 400})

	h.hits.Slice(Vec2{300, 400})
	h.hits.Slice(Vec2{301, 400})
	h.hits.hit(tg.ID)

	if h.session.Score() != 1 {
		t.Errorf("score = %d, want 1", h.session.Score())
	}
	if h.audio.count(SoundWhack) != 1 {
		t.Errorf("whack = %d, want 1", h.audio.count(SoundWhack))
	}
}

func TestSliceMultipleTargetsOneCall(t *testing.T) {
	h := newHarness(t)
	a := h.spawn(t, ForceNever)
	b := h.spawn(t, ForceNever)
	h.physics.place(a.ID, Vec2{300, 400})
	h.physics.place(b.ID, Vec2{320, 400})

	h.hits.Slice(Vec2{310, 400})
	if h.session.Score() != 2 {
		t.Errorf("score = %d, want 2", h.session.Score())
	}
	if h.session.Registry().Len() != 0 {
		t.Error("both targets should be gone")
	}
}

func TestSliceBombEndsGame(t *testing.T) {
	h := newHarness(t)
	bomb := h.spawn(t, ForceAlways)
	safe := h.spawn(t, ForceNever)
	h.physics.place(bomb.ID, Vec2{500, 300})
	h.physics.place(safe.ID, Vec2{510, 300})

	h.hits.Slice(Vec2{505, 300})

	s := h.session
	if !s.Ended() || !s.EndedByBomb() {
		t.Fatal("bomb hit should end the game")
	}
	if s.Registry().Contains(bomb.ID) {
		t.Error("bomb should leave the registry")
	}
	if h.physics.bodies[safe.ID].frozen || len(h.scene.dissolve) != 1 {
		t.Error("hits after the bomb must not be processed")
	}
	if s.Registry().Len() != 0 {
		t.Errorf("registry = %d, want 0 after game over", s.Registry().Len())
	}
	if s.Score() != 0 {
		t.Errorf("score = %d, want 0", s.Score())
	}
	if s.TimeScale() != 0 || h.physics.timeScale != 0 {
		t.Errorf("time scale = %f/%f, want 0", s.TimeScale(), h.physics.timeScale)
	}
	if spent := s.LivesSpent(); spent != [MaxLives]bool{true, true, true} {
		t.Errorf("spent = %v, want all", spent)
	}
	if len(h.scene.spent) != 3 {
		t.Errorf("SpendLife calls = %v, want 3", h.scene.spent)
	}
	if h.scene.effects[0].fx != EffectExplosion {
		t.Errorf("effect = %v, want explosion", h.scene.effects[0].fx)
	}
	if h.audio.count(SoundExplosion) != 1 {
		t.Error("explosion sound should play")
	}
	if h.audio.liveFuses() != 0 {
		t.Error("fuse should be released")
	}
}

func TestSliceAfterEndIgnored(t *testing.T) {
	h := newHarness(t)
	tg := h.spawn(t, ForceNever)
	h.physics.place(tg.ID, Vec2{300, 400})
	h.session.EndGame(false)

	h.hits.Slice(Vec2{300, 400})
	if h.session.Score() != 0 || h.physics.bodies[tg.ID].frozen || len(h.scene.dissolve) != 0 {
		t.Error("no hits once ended")
	}
}

func TestSweepMissedSafeTarget(t *testing.T) {
	h := newHarness(t)
	tg := h.spawn(t, ForceNever)
	h.physics.place(tg.ID, Vec2{300, -150})

	h.hits.Sweep()

	s := h.session
	if s.Registry().Contains(tg.ID) {
		t.Error("fallen target should be removed")
	}
	if s.Lives() != MaxLives-1 {
		t.Errorf("lives = %d, want %d", s.Lives(), MaxLives-1)
	}
	if !s.LivesSpent()[0] || s.LivesSpent()[1] {
		t.Errorf("spent = %v, want only indicator 0", s.LivesSpent())
	}
	if len(h.scene.removed) != 1 || h.scene.removed[0] != tg.ID {
		t.Errorf("scene removed = %v", h.scene.removed)
	}
	if _, ok := h.physics.bodies[tg.ID]; ok {
		t.Error("body should be removed")
	}
	if h.audio.count(SoundWrong) != 1 {
		t.Error("wrong sound should play")
	}
}

func TestSweepKeepsTargetsOnField(t *testing.T) {
	h := newHarness(t)
	tg := h.spawn(t, ForceNever)
	// -128 is the launch height and -140 the reap line.
	h.physics.place(tg.ID, Vec2{300, -140})
	h.hits.Sweep()
	if !h.session.Registry().Contains(tg.ID) {
		t.Error("target at the reap line should stay")
	}
}

func TestSweepBombIsHarmlessAndReleasesFuse(t *testing.T) {
	h := newHarness(t)
	bomb := h.spawn(t, ForceAlways)
	h.physics.place(bomb.ID, Vec2{300, -200})

	h.hits.Sweep()

	s := h.session
	if s.Lives() != MaxLives {
		t.Errorf("lives = %d, want %d", s.Lives(), MaxLives)
	}
	if s.FuseActive() || h.audio.liveFuses() != 0 {
		t.Error("fuse should be released once the last bomb leaves")
	}
}

func TestFuseKeptWhileBombRemains(t *testing.T) {
	h := newHarness(t)
	first := h.spawn(t, ForceAlways)
	h.spawn(t, ForceAlways)
	h.physics.place(first.ID, Vec2{300, -200})

	h.hits.Sweep()
	if !h.session.FuseActive() || h.audio.liveFuses() != 1 {
		t.Error("fuse should keep playing while a bomb is registered")
	}
}

func TestSweepThenSliceRace(t *testing.T) {
	h := newHarness(t)
	tg := h.spawn(t, ForceNever)
	h.physics.place(tg.ID, Vec2{300, -150})
	h.hits.Sweep()
	h.hits.hit(tg.ID)

	if h.session.Score() != 0 {
		t.Error("a swept target cannot be scored")
	}
	if h.session.Lives() != MaxLives-1 {
		t.Errorf("lives = %d, want %d", h.session.Lives(), MaxLives-1)
	}
}
