package slicer

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yohamta/donburi"
)

// Deps are the collaborators of a Game. Scene, Physics and Audio are
// required; a nil Logger discards output.
type Deps struct {
	Scene   Scene
	Physics Physics
	Audio   Audio
	Logger  *log.Logger
}

// GameState is a snapshot of a running game.
type GameState struct {
	Score      int
	Lives      int
	Ended      bool
	ByBomb     bool
	TimeScale  float64
	PopupTime  float64
	ChainDelay float64
	Cursor     int
	Timeline   int
	Active     int
	Bombs      int
	Scheduler  SchedulerState
	LivesSpent [MaxLives]bool
	Now        float64
}

// Game wires the gameplay components together. It owns the clock that
// drives every delayed callback and exposes the gesture input surface.
// Update and the gesture methods must be called from one goroutine.
type Game struct {
	cfg     Config
	clock   *Clock
	session *Session
	gesture *GestureTracker
	spawner *Spawner
	sched   *Scheduler
	hits    *HitResolver
	log     *log.Logger
}

// NewGame builds a game from cfg and starts its warm-up.
func NewGame(cfg Config, deps Deps) *Game {
	if deps.Scene == nil {
		panic("slicer: NewGame with nil Scene")
	}
	if deps.Physics == nil {
		panic("slicer: NewGame with nil Physics")
	}
	if deps.Audio == nil {
		panic("slicer: NewGame with nil Audio")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	tn := cfg.Tuning
	clock := NewClock()
	s := NewSession(tn, deps.Scene, deps.Physics, deps.Audio, clock, logger)
	spawner := NewSpawner(s, rng)
	g := &Game{
		cfg:     cfg,
		clock:   clock,
		session: s,
		gesture: NewGestureTracker(deps.Scene, deps.Audio, clock, rng, tn.MaxSlicePoints, tn.SliceFade),
		spawner: spawner,
		sched:   NewScheduler(s, spawner, NewTimeline(rng, tn.RandomBatches)),
		hits:    NewHitResolver(s),
		log:     logger,
	}
	deps.Scene.SetScore(0)
	logger.Debug("new game", "seed", seed, "batches", g.sched.Len())
	g.sched.Start()
	return g
}

// Update advances the game by dt time units: due callbacks fire, physics
// steps, target visuals follow their bodies, fallen targets are reaped, the
// scheduler is polled and queued events are delivered.
func (g *Game) Update(dt float64) {
	g.clock.Advance(dt)

	s := g.session
	s.physics.Step(dt)
	for _, t := range s.reg.Targets() {
		pos, rot, ok := s.physics.Body(t.ID)
		if !ok {
			continue
		}
		vel, spin, _ := s.physics.Velocity(t.ID)
		s.reg.SetMotion(t.ID, pos, vel, spin)
		s.scene.MoveTarget(t.ID, pos, rot)
	}

	g.hits.Sweep()
	g.sched.Poll()
	GameEventType.ProcessEvents(s.reg.World())
}

// OnGestureBegin starts a slice gesture at p.
func (g *Game) OnGestureBegin(p Vec2) {
	if g.session.ended {
		return
	}
	g.gesture.Begin(p)
}

// OnGestureExtend extends the slice gesture to p and hits whatever lies
// under it.
func (g *Game) OnGestureExtend(p Vec2) {
	if g.session.ended {
		return
	}
	g.gesture.Extend(p)
	g.hits.Slice(p)
}

// OnGestureEnd fades the slice trail.
func (g *Game) OnGestureEnd() {
	g.gesture.End()
}

// OnGestureCancel fades the slice trail.
func (g *Game) OnGestureCancel() {
	g.gesture.Cancel()
}

// Subscribe registers fn for every GameEvent. Events are delivered from
// Update, after the frame's state changes.
func (g *Game) Subscribe(fn func(GameEvent)) {
	GameEventType.Subscribe(g.session.reg.World(), func(_ donburi.World, ev GameEvent) {
		fn(ev)
	})
}

// Ended reports whether the game is over.
func (g *Game) Ended() bool { return g.session.ended }

// Session returns the game session.
func (g *Game) Session() *Session { return g.session }

// Scheduler returns the sequence scheduler.
func (g *Game) Scheduler() *Scheduler { return g.sched }

// Gesture returns the slice gesture tracker.
func (g *Game) Gesture() *GestureTracker { return g.gesture }

// Clock returns the clock driving the game's callbacks.
func (g *Game) Clock() *Clock { return g.clock }

// Config returns the configuration the game was built with.
func (g *Game) Config() Config { return g.cfg }

// State returns a snapshot of the game.
func (g *Game) State() GameState {
	s := g.session
	return GameState{
		Score:      s.score,
		Lives:      s.lives,
		Ended:      s.ended,
		ByBomb:     s.byBomb,
		TimeScale:  s.timeScale,
		PopupTime:  s.popupTime,
		ChainDelay: s.chainDelay,
		Cursor:     g.sched.cursor,
		Timeline:   len(g.sched.timeline),
		Active:     s.reg.Len(),
		Bombs:      s.reg.Bombs(),
		Scheduler:  g.sched.State(),
		LivesSpent: s.spent,
		Now:        g.clock.Now(),
	}
}
