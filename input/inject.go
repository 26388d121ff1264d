package input

// syntheticEvent is one injected pointer sample in screen coordinates.
type syntheticEvent struct {
	screenX, screenY float64
	pressed          bool
}

// InjectPress queues a press at the given screen position. Each injected
// event is consumed by one Update.
func (r *Router) InjectPress(x, y float64) {
	r.injectQueue = append(r.injectQueue, syntheticEvent{screenX: x, screenY: y, pressed: true})
}

// InjectMove queues a move with the button held.
func (r *Router) InjectMove(x, y float64) {
	r.injectQueue = append(r.injectQueue, syntheticEvent{screenX: x, screenY: y, pressed: true})
}

// InjectRelease queues a release.
func (r *Router) InjectRelease(x, y float64) {
	r.injectQueue = append(r.injectQueue, syntheticEvent{screenX: x, screenY: y, pressed: false})
}

// InjectDrag queues a press at (fromX, fromY), evenly spaced moves ending
// on (toX, toY) and a release there. The whole drag takes frames updates,
// at least 3.
func (r *Router) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 3 {
		frames = 3
	}
	r.InjectPress(fromX, fromY)
	moves := frames - 2
	for i := 1; i <= moves; i++ {
		t := float64(i) / float64(moves)
		r.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	r.InjectRelease(toX, toY)
}

// Pending returns the number of queued synthetic events.
func (r *Router) Pending() int {
	return len(r.injectQueue)
}

// processInjected pops one synthetic event into the mouse slot. Reports
// whether an event was consumed.
func (r *Router) processInjected() bool {
	if len(r.injectQueue) == 0 {
		return false
	}
	evt := r.injectQueue[0]
	copy(r.injectQueue, r.injectQueue[1:])
	r.injectQueue = r.injectQueue[:len(r.injectQueue)-1]

	r.processPointer(0, evt.screenX, evt.screenY, evt.pressed)
	return true
}
