// Package input turns ebiten mouse and touch input into slicer gestures.
//
// A Router reads one pointer sample per frame, runs a small press / drag /
// release state machine per pointer and forwards the first pressed pointer
// to a Gestures receiver as field coordinates. Synthetic events queued with
// the Inject methods, and JSON gesture scripts run by a Runner, go through
// the same state machine.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/slicer"
)

// maxPointers is the mouse (slot 0) plus nine touches.
const maxPointers = 10

// Gestures receives gesture callbacks. *slicer.Game implements it.
type Gestures interface {
	OnGestureBegin(p slicer.Vec2)
	OnGestureExtend(p slicer.Vec2)
	OnGestureEnd()
	OnGestureCancel()
}

// Touch is one active touch in screen coordinates.
type Touch struct {
	ID   ebiten.TouchID
	X, Y float64
}

// Source samples the platform pointer state once per frame.
type Source interface {
	Mouse() (x, y float64, pressed bool)
	AppendTouches(buf []Touch) []Touch
	Focused() bool
}

// EbitenSource reads the live ebiten input state.
type EbitenSource struct{}

func (EbitenSource) Mouse() (float64, float64, bool) {
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

func (EbitenSource) AppendTouches(buf []Touch) []Touch {
	var ids []ebiten.TouchID
	ids = ebiten.AppendTouchIDs(ids)
	for _, id := range ids {
		x, y := ebiten.TouchPosition(id)
		buf = append(buf, Touch{ID: id, X: float64(x), Y: float64(y)})
	}
	return buf
}

func (EbitenSource) Focused() bool {
	return ebiten.IsFocused()
}

type pointerState struct {
	down         bool
	lastX, lastY float64
}

// Router is the per-frame pointer pump. Screen coordinates are the logical
// layout of the game window, which matches the field with Y flipped.
type Router struct {
	target Gestures
	source Source

	pointers  [maxPointers]pointerState
	owner     int
	touchMap  [maxPointers]ebiten.TouchID
	touchUsed [maxPointers]bool
	touchBuf  []Touch

	injectQueue []syntheticEvent
	runner      *Runner
}

// NewRouter forwards gestures to target, reading input from source. A nil
// source reads ebiten.
func NewRouter(target Gestures, source Source) *Router {
	if source == nil {
		source = EbitenSource{}
	}
	return &Router{target: target, source: source, owner: -1}
}

// SetTarget switches the receiver, cancelling a gesture in flight.
func (r *Router) SetTarget(target Gestures) {
	r.Cancel()
	r.target = target
}

// SetRunner attaches a script runner. It steps at the start of Update.
func (r *Router) SetRunner(runner *Runner) {
	r.runner = runner
}

// Runner returns the attached script runner, if any.
func (r *Router) Runner() *Runner {
	return r.runner
}

// Active reports whether a gesture is in progress.
func (r *Router) Active() bool {
	return r.owner >= 0
}

// Update consumes one frame of input. An injected event, when queued,
// replaces live input for the frame.
func (r *Router) Update() {
	if r.runner != nil {
		r.runner.step(r)
	}
	if r.processInjected() {
		return
	}
	if !r.source.Focused() {
		r.Cancel()
		return
	}
	mx, my, pressed := r.source.Mouse()
	r.processPointer(0, mx, my, pressed)
	r.processTouches()
}

// Cancel abandons the current gesture and forgets every pressed pointer.
func (r *Router) Cancel() {
	if r.owner >= 0 && r.target != nil {
		r.target.OnGestureCancel()
	}
	r.owner = -1
	for i := range r.pointers {
		r.pointers[i].down = false
	}
}

func (r *Router) processTouches() {
	r.touchBuf = r.source.AppendTouches(r.touchBuf[:0])

	var active [maxPointers]bool
	for _, t := range r.touchBuf {
		slot := r.touchSlot(t.ID)
		if slot < 0 {
			continue
		}
		active[slot] = true
		r.processPointer(slot, t.X, t.Y, true)
	}

	for i := 1; i < maxPointers; i++ {
		if r.touchUsed[i] && !active[i] {
			ps := &r.pointers[i]
			if ps.down {
				r.processPointer(i, ps.lastX, ps.lastY, false)
			}
			r.touchUsed[i] = false
			r.touchMap[i] = 0
		}
	}
}

// touchSlot maps a touch to slot 1-9, allocating one if needed. Returns -1
// when every slot is taken.
func (r *Router) touchSlot(id ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if r.touchUsed[i] && r.touchMap[i] == id {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !r.touchUsed[i] {
			r.touchUsed[i] = true
			r.touchMap[i] = id
			return i
		}
	}
	return -1
}

// processPointer runs the state machine for one pointer. Only the pointer
// that started the current gesture drives it.
func (r *Router) processPointer(id int, sx, sy float64, pressed bool) {
	ps := &r.pointers[id]
	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.lastX, ps.lastY = sx, sy
		if r.owner < 0 && r.target != nil {
			r.owner = id
			r.target.OnGestureBegin(ScreenToField(sx, sy))
		}
	case pressed && ps.down:
		if sx == ps.lastX && sy == ps.lastY {
			return
		}
		ps.lastX, ps.lastY = sx, sy
		if r.owner == id {
			r.target.OnGestureExtend(ScreenToField(sx, sy))
		}
	case !pressed && ps.down:
		ps.down = false
		ps.lastX, ps.lastY = sx, sy
		if r.owner == id {
			r.owner = -1
			r.target.OnGestureEnd()
		}
	}
}

// ScreenToField converts a screen position to field coordinates.
func ScreenToField(sx, sy float64) slicer.Vec2 {
	return slicer.Vec2{X: sx, Y: slicer.FieldHeight - sy}
}

// FieldToScreen is the inverse of ScreenToField.
func FieldToScreen(p slicer.Vec2) (float64, float64) {
	return p.X, slicer.FieldHeight - p.Y
}
