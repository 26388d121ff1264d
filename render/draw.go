package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/slicer"
)

// debugGlyphWidth and debugGlyphHeight are the cell size of ebitenutil's
// debug font.
const (
	debugGlyphWidth  = 6
	debugGlyphHeight = 16
)

// CommandType identifies the kind of a draw command.
type CommandType uint8

const (
	CommandCircle CommandType = iota
	CommandMesh
	CommandParticles
	CommandLabel
)

// Command is one draw operation in screen space.
type Command struct {
	Type CommandType
	// X, Y is the circle center, the particle origin or the label's
	// top-left corner.
	X, Y float64
	// Radius of a circle.
	Radius float64
	// Color carries the accumulated alpha in A.
	Color Color
	Text  string

	vertices []ebiten.Vertex
	indices  []uint16
	emitter  *Emitter
	m        affine
}

// viewTransform maps field coordinates (Y up) to screen pixels (Y down).
var viewTransform = affine{1, 0, 0, -1, 0, slicer.FieldHeight}

// Commands flattens the visible tree into draw commands, back to front.
func (s *Scene) Commands() []Command {
	return collect(s.root, nil)
}

func collect(root *Node, out []Command) []Command {
	return walk(root, viewTransform, 1, out)
}

func walk(n *Node, parent affine, parentAlpha float64, out []Command) []Command {
	if !n.Visible || n.disposed {
		return out
	}
	m := parent.mul(localTransform(n))
	alpha := parentAlpha * n.Alpha
	if alpha <= 0 {
		return out
	}
	c := n.Color
	c.A *= alpha

	switch n.Type {
	case NodeTypeCircle:
		x, y := m.apply(0, 0)
		out = append(out, Command{Type: CommandCircle, X: x, Y: y, Radius: n.Radius * m.scale(), Color: c})
	case NodeTypeMesh:
		if len(n.Indices) > 0 {
			verts := make([]ebiten.Vertex, len(n.Vertices))
			for i, v := range n.Vertices {
				x, y := m.apply(float64(v.DstX), float64(v.DstY))
				v.DstX, v.DstY = float32(x), float32(y)
				v.ColorR = float32(c.R)
				v.ColorG = float32(c.G)
				v.ColorB = float32(c.B)
				v.ColorA = float32(c.A)
				verts[i] = v
			}
			out = append(out, Command{Type: CommandMesh, Color: c, vertices: verts, indices: n.Indices})
		}
	case NodeTypeEmitter:
		if n.Emitter != nil && n.Emitter.alive > 0 {
			x, y := m.apply(0, 0)
			out = append(out, Command{Type: CommandParticles, X: x, Y: y, Color: c, emitter: n.Emitter, m: m})
		}
	case NodeTypeLabel:
		if n.Text != "" {
			x, y := m.apply(0, 0)
			out = append(out, Command{Type: CommandLabel, X: x, Y: y - debugGlyphHeight, Color: c, Text: n.Text})
		}
	}

	for _, child := range n.sortedChildren() {
		out = walk(child, m, alpha, out)
	}
	return out
}

// Draw renders the scene into screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	var start time.Time
	if s.opts.Debug {
		start = time.Now()
	}

	screen.Fill(toRGBA(backgroundColor))
	s.cmds = collect(s.root, s.cmds[:0])
	var traverse time.Duration
	if s.opts.Debug {
		traverse = time.Since(start)
	}

	draws := 0
	for i := range s.cmds {
		draws += submit(screen, &s.cmds[i])
	}

	if s.opts.Debug {
		s.fps.draw(screen)
		s.stats.record(traverse, time.Since(start)-traverse, len(s.cmds), draws)
	}

	s.flushScreenshots(screen)
}

// submit issues one command and returns the number of draw calls made.
func submit(screen *ebiten.Image, cmd *Command) int {
	switch cmd.Type {
	case CommandCircle:
		vector.DrawFilledCircle(screen, float32(cmd.X), float32(cmd.Y), float32(cmd.Radius), toRGBA(cmd.Color), true)
		return 1
	case CommandMesh:
		screen.DrawTriangles(cmd.vertices, cmd.indices, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
		return 1
	case CommandParticles:
		e := cmd.emitter
		k := cmd.m.scale()
		for i := 0; i < e.alive; i++ {
			p := &e.particles[i]
			x, y := cmd.m.apply(p.x, p.y)
			c := p.color
			c.A = p.alpha * cmd.Color.A
			vector.DrawFilledCircle(screen, float32(x), float32(y), float32(e.config.Size*p.scale*k), toRGBA(c), false)
		}
		return e.alive
	case CommandLabel:
		ebitenutil.DebugPrintAt(screen, cmd.Text, int(cmd.X), int(cmd.Y))
		return 1
	}
	return 0
}

// toRGBA converts a straight-alpha Color to premultiplied color.RGBA.
func toRGBA(c Color) color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

var white *ebiten.Image

// whitePixel returns a 1x1 white source image for DrawTriangles.
func whitePixel() *ebiten.Image {
	if white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return white
}

// --- debug overlay ---

// fpsOverlay shows FPS and TPS, refreshed every half second.
type fpsOverlay struct {
	text  string
	accum float64
}

func (f *fpsOverlay) update(dt float64) {
	f.accum += dt
	if f.text != "" && f.accum < 0.5 {
		return
	}
	f.accum = 0
	f.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

func (f *fpsOverlay) draw(screen *ebiten.Image) {
	if f.text == "" {
		return
	}
	vector.DrawFilledRect(screen, 0, 0, 100, 32, color.RGBA{0, 0, 0, 128}, false)
	ebitenutil.DebugPrintAt(screen, f.text, 4, 0)
}

// debugStats accumulates frame timings and reports them once a second.
type debugStats struct {
	frames   int
	traverse time.Duration
	submit   time.Duration
	last     time.Time
}

func (d *debugStats) record(traverse, submit time.Duration, commands, draws int) {
	d.frames++
	d.traverse += traverse
	d.submit += submit
	now := time.Now()
	if d.last.IsZero() {
		d.last = now
		return
	}
	if now.Sub(d.last) < time.Second {
		return
	}
	f := time.Duration(d.frames)
	_, _ = fmt.Fprintf(os.Stderr,
		"[slicer] frame traverse: %v | submit: %v | commands: %d | draw calls: %d\n",
		d.traverse/f, d.submit/f, commands, draws)
	d.frames = 0
	d.traverse = 0
	d.submit = 0
	d.last = now
}
