package slicer

// SchedulerState is the observable phase of the Scheduler.
type SchedulerState uint8

const (
	SchedulerIdle        SchedulerState = iota // field empty, nothing queued
	SchedulerBatchQueued                       // a dispatch is pending on the timer
	SchedulerBatchActive                       // targets from a batch are alive
)

func (s SchedulerState) String() string {
	switch s {
	case SchedulerIdle:
		return "idle"
	case SchedulerBatchQueued:
		return "batch-queued"
	case SchedulerBatchActive:
		return "batch-active"
	default:
		return "unknown"
	}
}

// Scheduler walks the spawn timeline. A batch is dispatched after the warm-up
// and then each time the field empties, after the current popup time.
type Scheduler struct {
	s        *Session
	spawner  *Spawner
	timeline []BatchKind
	cursor   int
	queued   bool
	started  bool
}

// NewScheduler returns a dormant scheduler over timeline.
func NewScheduler(s *Session, spawner *Spawner, timeline []BatchKind) *Scheduler {
	return &Scheduler{s: s, spawner: spawner, timeline: timeline}
}

// Start queues the first dispatch after the warm-up. Later calls do nothing.
func (sc *Scheduler) Start() {
	if sc.started {
		return
	}
	sc.started = true
	sc.queued = true
	sc.s.timer.After(sc.s.tuning.WarmUp, sc.TossNext)
}

// TossNext ramps the difficulty, then dispatches the batch at the cursor and
// advances the cursor. It does nothing once the session ended or the
// timeline is used up.
func (sc *Scheduler) TossNext() {
	s := sc.s
	if s.ended {
		return
	}
	if sc.cursor >= len(sc.timeline) {
		sc.queued = false
		return
	}

	s.ramp()
	kind := sc.timeline[sc.cursor]
	orders := Plan(kind, s.chainDelay)
	s.log.Debug("dispatch", "cursor", sc.cursor, "batch", kind,
		"popup", s.popupTime, "chain", s.chainDelay, "timescale", s.timeScale)

	for _, o := range orders {
		if o.Delay <= 0 {
			sc.spawner.Spawn(o.Force)
			continue
		}
		force := o.Force
		s.timer.After(o.Delay, func() {
			if s.ended {
				return
			}
			sc.spawner.Spawn(force)
		})
	}

	sc.cursor++
	sc.queued = false
}

// Poll queues the next dispatch once the field is empty. Call it every
// frame after the sweep.
func (sc *Scheduler) Poll() {
	s := sc.s
	if !sc.started || sc.queued || s.ended || sc.Exhausted() {
		return
	}
	if s.reg.Len() > 0 {
		return
	}
	sc.queued = true
	s.timer.After(s.popupTime, sc.TossNext)
}

// Cursor returns the index of the next batch.
func (sc *Scheduler) Cursor() int { return sc.cursor }

// Len returns the timeline length.
func (sc *Scheduler) Len() int { return len(sc.timeline) }

// Exhausted reports whether every batch has been dispatched.
func (sc *Scheduler) Exhausted() bool { return sc.cursor >= len(sc.timeline) }

// Queued reports whether a dispatch is pending.
func (sc *Scheduler) Queued() bool { return sc.queued }

// State returns the current scheduler phase.
func (sc *Scheduler) State() SchedulerState {
	switch {
	case sc.queued:
		return SchedulerBatchQueued
	case sc.s.reg.Len() > 0:
		return SchedulerBatchActive
	default:
		return SchedulerIdle
	}
}

// Timeline returns a copy of the batch timeline.
func (sc *Scheduler) Timeline() []BatchKind {
	out := make([]BatchKind, len(sc.timeline))
	copy(out, sc.timeline)
	return out
}
