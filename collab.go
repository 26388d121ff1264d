package slicer

// Scene is the rendering collaborator. Implementations own every visual
// node; the core only refers to targets by ID.
type Scene interface {
	// AddTarget creates the visuals for a new target. Bombs get a container
	// with the bomb sprite and a running fuse effect at FuseOffset, drawn
	// above safe targets.
	AddTarget(id TargetID, kind Kind, pos Vec2)
	// MoveTarget places a target's visuals.
	MoveTarget(id TargetID, pos Vec2, rotation float64)
	// RemoveTarget cancels the target's animations and removes it at once.
	RemoveTarget(id TargetID)
	// DissolveTarget scales the target to near zero while fading it out
	// over duration, then removes it.
	DissolveTarget(id TargetID, duration float64)
	// PlayEffect plays a one-shot visual effect at pos.
	PlayEffect(effect Effect, pos Vec2)

	// DrawSlice replaces the slice trail polyline. Fewer than two points
	// clears it.
	DrawSlice(points []Vec2)
	// ShowSlice cancels any trail fade and makes the trail fully opaque.
	ShowSlice()
	// FadeSlice fades the trail to transparent over duration.
	FadeSlice(duration float64)

	SetScore(score int)
	// SpendLife marks life indicator i as spent and pulses it.
	SpendLife(i int)
}

// BodySpec describes the rigid body attached to a new target.
type BodySpec struct {
	Position        Vec2
	Velocity        Vec2
	AngularVelocity float64
	Radius          float64
}

// Physics is the rigid-body collaborator. Target bodies never collide with
// each other.
type Physics interface {
	AddBody(id TargetID, spec BodySpec)
	// Body reports the current position and rotation of a body.
	Body(id TargetID) (pos Vec2, rotation float64, ok bool)
	// Velocity reports the current linear and angular velocity of a body.
	// Frozen bodies report zero.
	Velocity(id TargetID) (vel Vec2, spin float64, ok bool)
	// Freeze stops simulating a body. It keeps its last position and no
	// longer shows up in QueryPoint.
	Freeze(id TargetID)
	RemoveBody(id TargetID)
	// QueryPoint returns the simulated bodies whose shape contains p.
	QueryPoint(p Vec2) []TargetID
	// SetTimeScale scales simulation speed; 0 freezes the world.
	SetTimeScale(scale float64)
	Step(dt float64)
}

// Handle is a stoppable sound.
type Handle interface {
	Stop()
}

// Audio is the sound collaborator.
type Audio interface {
	// Play fires a one-shot sound.
	Play(s Sound)
	// Loop starts a looping sound and returns its handle.
	Loop(s Sound) Handle
	// PlayUntilDone plays s to completion and then calls done. done may be
	// called from another goroutine.
	PlayUntilDone(s Sound, done func())
}

// Timer schedules one-shot callbacks on the logic goroutine.
type Timer interface {
	After(delay float64, fn func())
}
