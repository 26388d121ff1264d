package render

import (
	"math"
	"math/rand/v2"

	"github.com/phanxgames/slicer"
)

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

// Random returns a value in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

type particle struct {
	x, y    float64
	vx, vy  float64
	life    float64
	maxLife float64

	startScale, endScale float64
	startAlpha, endAlpha float64
	scale, alpha         float64
	color                Color
}

// EmitterConfig controls how particles spawn and evolve.
type EmitterConfig struct {
	// MaxParticles is the pool size. New particles are dropped when full.
	MaxParticles int
	// EmitRate is particles per second while the emitter is active.
	EmitRate float64
	Lifetime Range
	// Speed in field pixels per second.
	Speed Range
	// Angle of emission in radians, counter-clockwise from +X.
	Angle      Range
	StartScale Range
	EndScale   Range
	StartAlpha Range
	EndAlpha   Range
	Gravity    slicer.Vec2
	StartColor Color
	EndColor   Color
	// Size is the particle radius at scale 1.
	Size float64
}

// Emitter simulates a pool of particles in its node's local space.
type Emitter struct {
	config    EmitterConfig
	particles []particle
	alive     int
	emitAccum float64
	active    bool
	rng       *rand.Rand
}

// NewEmitter creates an emitter with a preallocated pool.
func NewEmitter(cfg EmitterConfig, rng *rand.Rand) *Emitter {
	n := cfg.MaxParticles
	if n <= 0 {
		n = 128
	}
	if cfg.Size <= 0 {
		cfg.Size = 4
	}
	return &Emitter{config: cfg, particles: make([]particle, n), rng: rng}
}

// Start begins continuous emission.
func (e *Emitter) Start() { e.active = true }

// Stop ends emission. Live particles play out.
func (e *Emitter) Stop() { e.active = false }

// Reset stops emission and kills every particle.
func (e *Emitter) Reset() {
	e.active = false
	e.alive = 0
	e.emitAccum = 0
}

// Burst spawns up to n particles at once.
func (e *Emitter) Burst(n int) {
	for i := 0; i < n && e.alive < len(e.particles); i++ {
		e.spawn()
	}
}

// IsActive reports whether the emitter is emitting.
func (e *Emitter) IsActive() bool { return e.active }

// AliveCount returns the number of live particles.
func (e *Emitter) AliveCount() int { return e.alive }

// Finished reports whether the emitter is stopped with no live particles.
func (e *Emitter) Finished() bool { return !e.active && e.alive == 0 }

// Config returns the emitter's config for live tuning.
func (e *Emitter) Config() *EmitterConfig { return &e.config }

func (e *Emitter) update(dt float64) {
	gx := e.config.Gravity.X * dt
	gy := e.config.Gravity.Y * dt

	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}
		p.vx += gx
		p.vy += gy
		p.x += p.vx * dt
		p.y += p.vy * dt

		t := 1 - p.life/p.maxLife
		p.scale = lerp(p.startScale, p.endScale, t)
		p.alpha = lerp(p.startAlpha, p.endAlpha, t)
		p.color = Color{
			R: lerp(e.config.StartColor.R, e.config.EndColor.R, t),
			G: lerp(e.config.StartColor.G, e.config.EndColor.G, t),
			B: lerp(e.config.StartColor.B, e.config.EndColor.B, t),
			A: 1,
		}
		i++
	}

	if e.active && e.config.EmitRate > 0 {
		e.emitAccum += e.config.EmitRate * dt
		for e.emitAccum >= 1 {
			e.emitAccum--
			if e.alive < len(e.particles) {
				e.spawn()
			}
		}
	}
}

func (e *Emitter) spawn() {
	p := &e.particles[e.alive]

	angle := e.config.Angle.Random(e.rng)
	speed := e.config.Speed.Random(e.rng)
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed
	p.x, p.y = 0, 0

	p.life = e.config.Lifetime.Random(e.rng)
	if p.life <= 0 {
		p.life = 1
	}
	p.maxLife = p.life

	p.startScale = e.config.StartScale.Random(e.rng)
	p.endScale = e.config.EndScale.Random(e.rng)
	p.scale = p.startScale
	p.startAlpha = e.config.StartAlpha.Random(e.rng)
	p.endAlpha = e.config.EndAlpha.Random(e.rng)
	p.alpha = p.startAlpha
	p.color = e.config.StartColor

	e.alive++
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Effect presets.

func sliceHitConfig() EmitterConfig {
	return EmitterConfig{
		MaxParticles: 40,
		Lifetime:     Range{0.25, 0.5},
		Speed:        Range{150, 420},
		Angle:        Range{0, 2 * math.Pi},
		StartScale:   Range{1, 1.5},
		EndScale:     Range{0.1, 0.2},
		StartAlpha:   Range{1, 1},
		EndAlpha:     Range{0, 0},
		Gravity:      slicer.Vec2{Y: -600},
		StartColor:   Color{1, 1, 1, 1},
		EndColor:     Color{0.9, 0.2, 0.2, 1},
		Size:         5,
	}
}

func explosionConfig() EmitterConfig {
	return EmitterConfig{
		MaxParticles: 160,
		Lifetime:     Range{0.4, 1.1},
		Speed:        Range{80, 520},
		Angle:        Range{0, 2 * math.Pi},
		StartScale:   Range{2, 3.5},
		EndScale:     Range{0.2, 0.5},
		StartAlpha:   Range{1, 1},
		EndAlpha:     Range{0, 0},
		Gravity:      slicer.Vec2{Y: -200},
		StartColor:   Color{1, 0.85, 0.3, 1},
		EndColor:     Color{0.5, 0.1, 0, 1},
		Size:         6,
	}
}

func fuseConfig() EmitterConfig {
	return EmitterConfig{
		MaxParticles: 48,
		EmitRate:     60,
		Lifetime:     Range{0.15, 0.4},
		Speed:        Range{30, 110},
		Angle:        Range{math.Pi / 6, 5 * math.Pi / 6},
		StartScale:   Range{0.8, 1.2},
		EndScale:     Range{0, 0.2},
		StartAlpha:   Range{1, 1},
		EndAlpha:     Range{0, 0.2},
		StartColor:   Color{1, 0.95, 0.6, 1},
		EndColor:     Color{1, 0.3, 0, 1},
		Size:         3,
	}
}
