package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/slicer"
)

// Rope builds a ribbon mesh of constant width along a polyline.
type Rope struct {
	node  *Node
	width float64
}

// NewRope returns a rope and its mesh node.
func NewRope(name string, width float64, c Color) (*Rope, *Node) {
	n := NewMesh(name, c)
	return &Rope{node: n, width: width}, n
}

// Node returns the mesh node.
func (r *Rope) Node() *Node {
	return r.node
}

// Width returns the ribbon width.
func (r *Rope) Width() float64 {
	return r.width
}

// SetPoints rebuilds the mesh along points: 2N vertices and 6(N-1) indices.
// Fewer than two points empties it.
func (r *Rope) SetPoints(points []slicer.Vec2) {
	if len(points) < 2 {
		r.node.Vertices = r.node.Vertices[:0]
		r.node.Indices = r.node.Indices[:0]
		return
	}

	n := len(points)
	numVerts := n * 2
	numInds := (n - 1) * 6
	if cap(r.node.Vertices) < numVerts {
		r.node.Vertices = make([]ebiten.Vertex, numVerts)
	}
	r.node.Vertices = r.node.Vertices[:numVerts]
	if cap(r.node.Indices) < numInds {
		r.node.Indices = make([]uint16, numInds)
	}
	r.node.Indices = r.node.Indices[:numInds]

	halfW := r.width / 2
	for i := 0; i < n; i++ {
		var nx, ny float64
		switch i {
		case 0:
			nx, ny = perpendicular(points[0], points[1])
		case n - 1:
			nx, ny = perpendicular(points[n-2], points[n-1])
		default:
			nx0, ny0 := perpendicular(points[i-1], points[i])
			nx1, ny1 := perpendicular(points[i], points[i+1])
			nx, ny = nx0+nx1, ny0+ny1
			if ln := math.Hypot(nx, ny); ln > 1e-10 {
				nx /= ln
				ny /= ln
			} else {
				nx, ny = nx0, ny0
			}
			// Miter, capped at 2x to keep hairpins from spiking.
			if dot := nx0*nx + ny0*ny; dot > 0.1 {
				s := min(1/dot, 2)
				nx *= s
				ny *= s
			}
		}

		vi := i * 2
		r.node.Vertices[vi] = ebiten.Vertex{
			DstX:   float32(points[i].X + nx*halfW),
			DstY:   float32(points[i].Y + ny*halfW),
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
		r.node.Vertices[vi+1] = ebiten.Vertex{
			DstX:   float32(points[i].X - nx*halfW),
			DstY:   float32(points[i].Y - ny*halfW),
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
	}

	for i := 0; i < n-1; i++ {
		ii := i * 6
		v := uint16(i * 2)
		r.node.Indices[ii+0] = v
		r.node.Indices[ii+1] = v + 1
		r.node.Indices[ii+2] = v + 2
		r.node.Indices[ii+3] = v + 1
		r.node.Indices[ii+4] = v + 3
		r.node.Indices[ii+5] = v + 2
	}
}

// perpendicular returns the unit left-perpendicular of a->b.
func perpendicular(a, b slicer.Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Hypot(dx, dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

// Trail is the slice trail: a wide yellow rope under a narrow white one,
// both under a container whose alpha fades the whole trail.
type Trail struct {
	node   *Node
	bg, fg *Rope
	points []slicer.Vec2
}

// Trail widths.
const (
	trailOuterWidth = 9
	trailInnerWidth = 5
)

func newTrail() *Trail {
	t := &Trail{node: NewContainer("trail")}
	var bgNode, fgNode *Node
	t.bg, bgNode = NewRope("trail-bg", trailOuterWidth, ColorYellow)
	t.fg, fgNode = NewRope("trail-fg", trailInnerWidth, ColorWhite)
	t.node.AddChild(bgNode)
	t.node.AddChild(fgNode)
	return t
}

// SetPoints copies points and rebuilds both layers.
func (t *Trail) SetPoints(points []slicer.Vec2) {
	t.points = append(t.points[:0], points...)
	t.bg.SetPoints(t.points)
	t.fg.SetPoints(t.points)
}

// Points returns the current polyline.
func (t *Trail) Points() []slicer.Vec2 {
	return t.points
}

// Node returns the trail container.
func (t *Trail) Node() *Node {
	return t.node
}
