package render

import (
	"math"
	"testing"

	"github.com/phanxgames/slicer"
)

func TestRopeSetPoints(t *testing.T) {
	r, n := NewRope("rope", 10, ColorWhite)
	r.SetPoints([]slicer.Vec2{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}})

	if len(n.Vertices) != 6 {
		t.Fatalf("vertices = %d, want 6", len(n.Vertices))
	}
	if len(n.Indices) != 12 {
		t.Fatalf("indices = %d, want 12", len(n.Indices))
	}
	// A horizontal rope spreads vertically by half the width.
	for i := 0; i < 3; i++ {
		top, bottom := n.Vertices[2*i], n.Vertices[2*i+1]
		if math.Abs(float64(top.DstY)-5) > 1e-4 || math.Abs(float64(bottom.DstY)+5) > 1e-4 {
			t.Errorf("point %d: y = %f, %f, want 5, -5", i, top.DstY, bottom.DstY)
		}
		if top.DstX != bottom.DstX {
			t.Errorf("point %d: x = %f, %f, want equal", i, top.DstX, bottom.DstX)
		}
	}
	for i, idx := range n.Indices {
		if int(idx) >= len(n.Vertices) {
			t.Errorf("index %d = %d out of range", i, idx)
		}
	}
}

func TestRopeMiterAtCorner(t *testing.T) {
	r, n := NewRope("rope", 10, ColorWhite)
	r.SetPoints([]slicer.Vec2{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}})

	mid := n.Vertices[2]
	got := math.Hypot(float64(mid.DstX)-100, float64(mid.DstY))
	if math.Abs(got-5*math.Sqrt2) > 1e-3 {
		t.Errorf("miter offset = %f, want %f", got, 5*math.Sqrt2)
	}
}

func TestRopeClearsBelowTwoPoints(t *testing.T) {
	r, n := NewRope("rope", 10, ColorWhite)
	r.SetPoints([]slicer.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}})
	r.SetPoints([]slicer.Vec2{{X: 5, Y: 5}})
	if len(n.Vertices) != 0 || len(n.Indices) != 0 {
		t.Errorf("mesh = %d verts, %d indices, want empty", len(n.Vertices), len(n.Indices))
	}
}

func TestRopeDuplicatePoints(t *testing.T) {
	r, n := NewRope("rope", 10, ColorWhite)
	r.SetPoints([]slicer.Vec2{{X: 3, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 3}})
	for i, v := range n.Vertices {
		if math.IsNaN(float64(v.DstX)) || math.IsNaN(float64(v.DstY)) {
			t.Fatalf("vertex %d is NaN", i)
		}
	}
}

func TestTrailLayers(t *testing.T) {
	tr := newTrail()
	layers := tr.Node().Children()
	if len(layers) != 2 {
		t.Fatalf("layers = %d, want 2", len(layers))
	}
	if layers[0].Color != ColorYellow || tr.bg.Width() != 9 {
		t.Errorf("back layer = %+v width %f, want yellow 9", layers[0].Color, tr.bg.Width())
	}
	if layers[1].Color != ColorWhite || tr.fg.Width() != 5 {
		t.Errorf("front layer = %+v width %f, want white 5", layers[1].Color, tr.fg.Width())
	}
}

func TestTrailCopiesPoints(t *testing.T) {
	tr := newTrail()
	pts := []slicer.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}}
	tr.SetPoints(pts)
	pts[0].X = 99

	if tr.Points()[0].X != 1 {
		t.Error("trail must keep its own copy of the points")
	}
	if len(tr.bg.Node().Vertices) != 4 || len(tr.fg.Node().Vertices) != 4 {
		t.Error("both layers should be rebuilt")
	}
}
