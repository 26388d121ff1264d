package slicer

import (
	"github.com/charmbracelet/log"
)

// Session is the explicit game context shared by the spawner, scheduler and
// hit resolver. It owns score, lives, the ended flag, the difficulty ramp and
// the single fuse handle. All methods run on the logic goroutine.
type Session struct {
	tuning  Tuning
	scene   Scene
	physics Physics
	audio   Audio
	timer   Timer
	log     *log.Logger
	reg     *Registry

	score  int
	lives  int
	ended  bool
	byBomb bool
	spent  [MaxLives]bool

	timeScale  float64
	popupTime  float64
	chainDelay float64

	fuse Handle
}

// NewSession returns an active session with full lives and the initial
// pacing from tuning. The physics time scale is set immediately.
func NewSession(tuning Tuning, scene Scene, physics Physics, audio Audio, timer Timer, logger *log.Logger) *Session {
	s := &Session{
		tuning:     tuning,
		scene:      scene,
		physics:    physics,
		audio:      audio,
		timer:      timer,
		log:        logger,
		reg:        NewRegistry(),
		lives:      MaxLives,
		timeScale:  tuning.TimeScale,
		popupTime:  tuning.PopupTime,
		chainDelay: tuning.ChainDelay,
	}
	physics.SetTimeScale(s.timeScale)
	return s
}

// Registry returns the active-target registry.
func (s *Session) Registry() *Registry { return s.reg }

// Score returns the number of safe targets sliced.
func (s *Session) Score() int { return s.score }

// Lives returns the remaining lives, in [0, MaxLives].
func (s *Session) Lives() int { return s.lives }

// Ended reports whether the session reached its terminal state.
func (s *Session) Ended() bool { return s.ended }

// EndedByBomb reports whether a sliced bomb ended the session.
func (s *Session) EndedByBomb() bool { return s.byBomb }

// TimeScale returns the current physics time scale. It is 0 once ended.
func (s *Session) TimeScale() float64 { return s.timeScale }

// PopupTime returns the current pause before a batch on an empty field.
func (s *Session) PopupTime() float64 { return s.popupTime }

// ChainDelay returns the current chain spread window.
func (s *Session) ChainDelay() float64 { return s.chainDelay }

// LivesSpent returns which life indicators are shown as spent.
func (s *Session) LivesSpent() [MaxLives]bool { return s.spent }

// FuseActive reports whether a fuse sound handle is held.
func (s *Session) FuseActive() bool { return s.fuse != nil }

// LoseLife spends one life. The indicators are spent left to right and the
// third loss ends the session. It is a no-op once ended.
func (s *Session) LoseLife() {
	if s.ended || s.lives <= 0 {
		return
	}
	s.lives--
	s.audio.Play(SoundWrong)

	idx := MaxLives - s.lives - 1
	s.spent[idx] = true
	s.scene.SpendLife(idx)

	s.log.Debug("life lost", "lives", s.lives, "indicator", idx)
	s.publish(GameEvent{Kind: EventLifeLost, Score: s.score, Lives: s.lives})

	if s.lives == 0 {
		s.EndGame(false)
	}
}

// EndGame moves the session to its terminal state: physics frozen, fuse
// released, live targets unregistered, gestures ignored. A bomb ending marks every life indicator
// spent. Calling it again has no effect.
func (s *Session) EndGame(byBomb bool) {
	if s.ended {
		return
	}
	s.ended = true
	s.byBomb = byBomb
	s.timeScale = 0
	s.physics.SetTimeScale(0)
	s.releaseFuse()

	// Remaining targets stay frozen on screen but leave the registry.
	if n := s.reg.Clear(); n > 0 {
		s.log.Debug("targets released", "count", n)
	}

	if byBomb {
		for i := range s.spent {
			s.spent[i] = true
			s.scene.SpendLife(i)
		}
	}

	s.log.Info("game over", "score", s.score, "bomb", byBomb)
	s.publish(GameEvent{Kind: EventGameOver, Score: s.score, Lives: s.lives, ByBomb: byBomb})
}

// addPoint scores one sliced safe target.
func (s *Session) addPoint() {
	s.score++
	s.scene.SetScore(s.score)
}

// ramp applies one step of the difficulty curve.
func (s *Session) ramp() {
	s.popupTime *= s.tuning.PopupDecay
	s.chainDelay *= s.tuning.ChainDecay
	s.timeScale *= s.tuning.TimeScaleGrowth
	s.physics.SetTimeScale(s.timeScale)
}

// restartFuse replaces any held fuse handle with a fresh loop.
func (s *Session) restartFuse() {
	s.releaseFuse()
	s.fuse = s.audio.Loop(SoundFuse)
}

// syncFuse drops the fuse handle once no bomb is registered. Called at every
// registry mutation.
func (s *Session) syncFuse() {
	if s.fuse != nil && s.reg.Bombs() == 0 {
		s.releaseFuse()
	}
}

func (s *Session) releaseFuse() {
	if s.fuse == nil {
		return
	}
	s.fuse.Stop()
	s.fuse = nil
}

func (s *Session) publish(ev GameEvent) {
	GameEventType.Publish(s.reg.World(), ev)
}
