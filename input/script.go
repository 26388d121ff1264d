package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/phanxgames/slicer"
)

// ErrEmptyScript is returned for a script without steps.
var ErrEmptyScript = errors.New("gesture script has no steps")

// Step is one action of a gesture script. Coordinates are in field space.
//
//	{"action": "slice", "fromX": 100, "fromY": 200, "toX": 900, "toY": 500, "frames": 12}
//	{"action": "wait", "frames": 30}
//	{"action": "screenshot", "label": "after-slice"}
type Step struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// Script is the top-level JSON document.
type Script struct {
	// Loop restarts the script after its last step.
	Loop  bool   `json:"loop,omitempty"`
	Steps []Step `json:"steps"`
}

// Screenshotter captures labelled frames. *render.Scene implements it.
type Screenshotter interface {
	Screenshot(label string)
}

// Runner plays a Script through a Router, one step per frame once the
// previous step's injected events have drained.
type Runner struct {
	script    Script
	shots     Screenshotter
	cursor    int
	waitCount int
	done      bool
}

// ParseScript decodes a JSON gesture script.
func ParseScript(data []byte) (*Runner, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: %w", ErrEmptyScript)
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "slice", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse gesture script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Runner{script: s}, nil
}

// LoadScript reads and parses the script at path.
func LoadScript(path string) (*Runner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gesture script: %w", err)
	}
	return ParseScript(data)
}

// SetScreenshotter routes screenshot steps to shots. Without one they are
// skipped.
func (r *Runner) SetScreenshotter(shots Screenshotter) {
	r.shots = shots
}

// Done reports whether every step has run. A looping script is never done.
func (r *Runner) Done() bool {
	return r.done
}

// Cursor returns the index of the next step.
func (r *Runner) Cursor() int {
	return r.cursor
}

// Rewind restarts the script from its first step.
func (r *Runner) Rewind() {
	r.cursor = 0
	r.waitCount = 0
	r.done = false
}

func (r *Runner) step(rt *Router) {
	if r.done || rt.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.script.Steps) {
		if r.script.Loop {
			r.cursor = 0
		} else {
			r.done = true
			return
		}
	}

	st := r.script.Steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "slice":
		fx, fy := FieldToScreen(slicer.Vec2{X: st.FromX, Y: st.FromY})
		tx, ty := FieldToScreen(slicer.Vec2{X: st.ToX, Y: st.ToY})
		rt.InjectDrag(fx, fy, tx, ty, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	case "screenshot":
		if r.shots != nil {
			r.shots.Screenshot(st.Label)
		}
	}

	if !r.script.Loop && r.cursor >= len(r.script.Steps) && r.waitCount == 0 && rt.Pending() == 0 {
		r.done = true
	}
}
