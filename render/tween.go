package render

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to four float64 fields of a Node together. If the
// target node is disposed the group stops without calling OnDone.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
	Done   bool
	// OnDone runs once when every tween has finished.
	OnDone func()
}

// Update advances every tween by dt seconds and writes the values back.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if allDone {
		g.Done = true
		if g.OnDone != nil {
			g.OnDone()
		}
	}
}

// Cancel stops the group where it is. OnDone is not called.
func (g *TweenGroup) Cancel() {
	g.Done = true
}

// Target returns the animated node.
func (g *TweenGroup) Target() *Node {
	return g.target
}

func (g *TweenGroup) add(from, to float64, field *float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(from), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenScale animates node.ScaleX and node.ScaleY.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.add(node.ScaleX, toSX, &node.ScaleX, duration, fn)
	g.add(node.ScaleY, toSY, &node.ScaleY, duration, fn)
	return g
}

// TweenAlpha animates node.Alpha.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: node}
	g.add(node.Alpha, to, &node.Alpha, duration, fn)
	return g
}

// TweenDissolve shrinks node to scale while fading it out.
func TweenDissolve(node *Node, scale float64, duration float32) *TweenGroup {
	g := &TweenGroup{target: node}
	g.add(node.ScaleX, scale, &node.ScaleX, duration, ease.Linear)
	g.add(node.ScaleY, scale, &node.ScaleY, duration, ease.Linear)
	g.add(node.Alpha, 0, &node.Alpha, duration, ease.Linear)
	return g
}

// animator runs tween groups and drops finished ones.
type animator struct {
	groups []*TweenGroup
}

func (a *animator) add(g *TweenGroup) *TweenGroup {
	a.groups = append(a.groups, g)
	return g
}

func (a *animator) update(dt float64) {
	// OnDone may add groups; only walk the ones present at entry.
	n := len(a.groups)
	for i := 0; i < n; i++ {
		a.groups[i].Update(float32(dt))
	}
	live := a.groups[:0]
	for _, g := range a.groups {
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(a.groups); i++ {
		a.groups[i] = nil
	}
	a.groups = live
}

// cancel stops every group animating node.
func (a *animator) cancel(node *Node) {
	for _, g := range a.groups {
		if g.target == node {
			g.Cancel()
		}
	}
}

func (a *animator) len() int {
	n := 0
	for _, g := range a.groups {
		if !g.Done {
			n++
		}
	}
	return n
}
