package render

import (
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// NodeType determines how a node is drawn.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota
	NodeTypeCircle
	NodeTypeMesh
	NodeTypeEmitter
	NodeTypeLabel
)

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Palette used by the scene.
var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorYellow = Color{1, 0.9, 0, 1}
)

// Node is the single scene graph type. Positions are in field coordinates
// (Y up); a node's transform is relative to its parent.
type Node struct {
	ID     uint32
	Name   string
	Type   NodeType
	Parent *Node

	children []*Node

	X, Y           float64
	ScaleX, ScaleY float64
	// Rotation in radians, counter-clockwise.
	Rotation float64
	// Alpha multiplies down the tree.
	Alpha   float64
	Visible bool
	// ZIndex orders siblings; equal values keep insertion order.
	ZIndex int
	Color  Color

	// Radius of a circle node.
	Radius float64
	// Text of a label node. The anchor is the label's bottom-left corner.
	Text string
	// Vertices and Indices of a mesh node, in local coordinates.
	Vertices []ebiten.Vertex
	Indices  []uint16
	// Emitter of a particle node.
	Emitter *Emitter

	disposed bool
}

var nextNodeID uint32

func nodeDefaults(n *Node) {
	nextNodeID++
	n.ID = nextNodeID
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Visible = true
	if n.Color == (Color{}) {
		n.Color = ColorWhite
	}
}

// NewContainer creates a node with no visual of its own.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewCircle creates a filled circle.
func NewCircle(name string, radius float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeCircle, Radius: radius, Color: c}
	nodeDefaults(n)
	return n
}

// NewMesh creates a mesh node drawn with DrawTriangles.
func NewMesh(name string, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeMesh, Color: c}
	nodeDefaults(n)
	return n
}

// NewEmitterNode creates a particle node owning e.
func NewEmitterNode(name string, e *Emitter) *Node {
	n := &Node{Name: name, Type: NodeTypeEmitter, Emitter: e}
	nodeDefaults(n)
	return n
}

// NewLabel creates a text node.
func NewLabel(name, text string) *Node {
	n := &Node{Name: name, Type: NodeTypeLabel, Text: text}
	nodeDefaults(n)
	return n
}

// AddChild appends child, detaching it from any previous parent.
// Panics if child is nil or an ancestor of n.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("render: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("render: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child. Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("render: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches n. No-op without a parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The slice must not be mutated.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Dispose detaches n and marks it and its descendants as disposed. Tweens
// targeting a disposed node stop on their next update.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Vertices = nil
	n.Indices = nil
	if n.Emitter != nil {
		n.Emitter.Reset()
		n.Emitter = nil
	}
}

// IsDisposed reports whether n has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// sortedChildren returns the children ordered by ZIndex.
func (n *Node) sortedChildren() []*Node {
	ordered := true
	for i := 1; i < len(n.children); i++ {
		if n.children[i].ZIndex < n.children[i-1].ZIndex {
			ordered = false
			break
		}
	}
	if ordered {
		return n.children
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// --- Transforms ---

// affine is [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
type affine [6]float64

var identity = affine{1, 0, 0, 1, 0, 0}

// localTransform composes Scale -> Rotate -> Translate.
func localTransform(n *Node) affine {
	sin, cos := math.Sincos(n.Rotation)
	return affine{
		cos * n.ScaleX,
		sin * n.ScaleX,
		-sin * n.ScaleY,
		cos * n.ScaleY,
		n.X,
		n.Y,
	}
}

// mul returns p * c.
func (p affine) mul(c affine) affine {
	return affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

func (m affine) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// scale returns the uniform scale factor of m.
func (m affine) scale() float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}

// WorldPosition returns the field position of n's origin.
func (n *Node) WorldPosition() (float64, float64) {
	m := identity
	for p := n; p != nil; p = p.Parent {
		m = localTransform(p).mul(m)
	}
	return m.apply(0, 0)
}
