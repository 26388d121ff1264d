package slicer

import "testing"

func TestLaunchVelocityBuckets(t *testing.T) {
	tests := []struct {
		x        int
		min, max float64
	}{
		{64, 8 * 40, 15 * 40},
		{100, 8 * 40, 15 * 40},
		{255, 8 * 40, 15 * 40},
		{256, 3 * 40, 5 * 40},
		{511, 3 * 40, 5 * 40},
		{512, -5 * 40, -3 * 40},
		{767, -5 * 40, -3 * 40},
		{768, -15 * 40, -8 * 40},
		{900, -15 * 40, -8 * 40},
		{960, -15 * 40, -8 * 40},
	}
	rng := testRand(3)
	for _, tt := range tests {
		for range 200 {
			v := launchVelocity(rng, tt.x, 40)
			if v.X < tt.min || v.X > tt.max {
				t.Fatalf("x=%d: vx = %f, want in [%f, %f]", tt.x, v.X, tt.min, tt.max)
			}
			if v.Y < 24*40 || v.Y > 32*40 {
				t.Fatalf("x=%d: vy = %f, want in [960, 1280]", tt.x, v.Y)
			}
		}
	}
}

func TestSpawnPlacementAndSpin(t *testing.T) {
	h := newHarness(t)
	for range 300 {
		tg := h.spawn(t, ForceDefault)
		if tg.Position.X < 64 || tg.Position.X > 960 {
			t.Fatalf("x = %f, want in [64, 960]", tg.Position.X)
		}
		if tg.Position.Y != -128 {
			t.Fatalf("y = %f, want -128", tg.Position.Y)
		}
		if tg.AngularVelocity < -3 || tg.AngularVelocity > 3 {
			t.Fatalf("spin = %f, want in [-3, 3]", tg.AngularVelocity)
		}
		if tg.AngularVelocity*2 != float64(int(tg.AngularVelocity*2)) {
			t.Fatalf("spin = %f, want a multiple of 0.5", tg.AngularVelocity)
		}
		if tg.Position.X < 256 && tg.Velocity.X <= 0 {
			t.Fatalf("x = %f: vx = %f, want rightward", tg.Position.X, tg.Velocity.X)
		}
		if tg.Position.X >= 768 && tg.Velocity.X >= 0 {
			t.Fatalf("x = %f: vx = %f, want leftward", tg.Position.X, tg.Velocity.X)
		}
	}
}

func TestSpawnForce(t *testing.T) {
	h := newHarness(t)
	for range 50 {
		if tg := h.spawn(t, ForceNever); tg.Kind != KindSafe {
			t.Fatalf("ForceNever spawned %v", tg.Kind)
		}
		if tg := h.spawn(t, ForceAlways); tg.Kind != KindBomb {
			t.Fatalf("ForceAlways spawned %v", tg.Kind)
		}
	}
}

func TestSpawnRollProducesBothKinds(t *testing.T) {
	h := newHarness(t)
	bombs := 0
	const n = 700
	for range n {
		if h.spawn(t, ForceDefault).Kind == KindBomb {
			bombs++
		}
	}
	// Expected n/7 = 100.
	if bombs < 50 || bombs > 160 {
		t.Errorf("bombs = %d of %d, want about 100", bombs, n)
	}
}

func TestSpawnSafeRegistersAndLaunches(t *testing.T) {
	h := newHarness(t)
	tg := h.spawn(t, ForceNever)

	if h.session.Registry().Len() != 1 {
		t.Errorf("registry = %d, want 1", h.session.Registry().Len())
	}
	if h.scene.targets[tg.ID] != KindSafe {
		t.Error("scene should have the target")
	}
	b, ok := h.physics.bodies[tg.ID]
	if !ok {
		t.Fatal("physics body missing")
	}
	if b.radius != 64 || b.vel != tg.Velocity {
		t.Errorf("body = %+v", b)
	}
	if h.audio.count(SoundLaunch) != 1 {
		t.Errorf("launch sounds = %d, want 1", h.audio.count(SoundLaunch))
	}
	if len(h.audio.loops) != 0 {
		t.Error("safe target should not start a fuse")
	}
}

func TestSpawnBombRestartsFuse(t *testing.T) {
	h := newHarness(t)
	h.spawn(t, ForceAlways)
	h.spawn(t, ForceAlways)

	if len(h.audio.loops) != 2 {
		t.Fatalf("fuse loops = %d, want 2", len(h.audio.loops))
	}
	if h.audio.loops[0].stopped != 1 {
		t.Error("first fuse should be stopped before the second starts")
	}
	if h.audio.liveFuses() != 1 {
		t.Errorf("live fuses = %d, want 1", h.audio.liveFuses())
	}
	if h.audio.count(SoundLaunch) != 0 {
		t.Error("bombs do not play the launch sound")
	}
}

func TestSpawnAfterEndIsNoop(t *testing.T) {
	h := newHarness(t)
	h.session.EndGame(false)
	if _, ok := h.spawner.Spawn(ForceNever); ok {
		t.Error("Spawn after end should fail")
	}
	if h.session.Registry().Len() != 0 {
		t.Error("registry should stay empty")
	}
}
