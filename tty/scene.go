// Package tty is a terminal frontend for slicer built on tcell. Scene
// draws the field on the character grid and App runs the frame loop,
// turning mouse drags into gestures.
package tty

import (
	"fmt"
	"math"
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/slicer"
)

// Styles of the terminal look.
var (
	styleSafe      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBomb      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFuse      = tcell.StyleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
	styleDissolve  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleTrail     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleTrailFade = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleHit       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleBlast     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleLife      = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleLifeGone  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleBanner    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
)

// Glyphs.
const (
	runeSafe     = 'o'
	runeBomb     = '@'
	runeFuse     = '*'
	runeDissolve = '.'
	runeTrail    = '#'
	runeFaded    = ':'
	runeHit      = '+'
	runeBlast    = '*'
	runeLife     = 'O'
	runeLifeGone = 'x'
)

const (
	hitTTL   = 0.3
	blastTTL = 0.7
	// lifePulse is how long a spent indicator stays highlighted.
	lifePulse = 0.1
)

type target struct {
	kind     slicer.Kind
	pos      slicer.Vec2
	rotation float64
	// dissolving targets count down and vanish at zero.
	dissolving bool
	left       float64
}

type burst struct {
	effect slicer.Effect
	pos    slicer.Vec2
	age    float64
	ttl    float64
}

// Scene is a slicer.Scene rendered into a tcell.Screen.
type Scene struct {
	radius float64

	targets map[slicer.TargetID]*target
	bursts  []burst

	trail      []slicer.Vec2
	trailAlpha float64
	fadeLeft   float64
	fadeTotal  float64

	score  int
	spent  [slicer.MaxLives]bool
	pulse  [slicer.MaxLives]float64
	banner string
}

// NewScene returns an empty scene drawing targets of the given field
// radius. Zero means 64.
func NewScene(radius float64) *Scene {
	if radius <= 0 {
		radius = 64
	}
	return &Scene{
		radius:     radius,
		targets:    make(map[slicer.TargetID]*target),
		trailAlpha: 1,
	}
}

func (s *Scene) AddTarget(id slicer.TargetID, kind slicer.Kind, pos slicer.Vec2) {
	s.targets[id] = &target{kind: kind, pos: pos}
}

func (s *Scene) MoveTarget(id slicer.TargetID, pos slicer.Vec2, rotation float64) {
	if t, ok := s.targets[id]; ok {
		t.pos = pos
		t.rotation = rotation
	}
}

func (s *Scene) RemoveTarget(id slicer.TargetID) {
	delete(s.targets, id)
}

func (s *Scene) DissolveTarget(id slicer.TargetID, duration float64) {
	t, ok := s.targets[id]
	if !ok {
		return
	}
	if duration <= 0 {
		delete(s.targets, id)
		return
	}
	t.dissolving = true
	t.left = duration
}

func (s *Scene) PlayEffect(effect slicer.Effect, pos slicer.Vec2) {
	ttl := hitTTL
	if effect == slicer.EffectExplosion {
		ttl = blastTTL
	}
	s.bursts = append(s.bursts, burst{effect: effect, pos: pos, ttl: ttl})
}

func (s *Scene) DrawSlice(points []slicer.Vec2) {
	s.trail = append(s.trail[:0], points...)
}

func (s *Scene) ShowSlice() {
	s.fadeLeft = 0
	s.fadeTotal = 0
	s.trailAlpha = 1
}

func (s *Scene) FadeSlice(duration float64) {
	if duration <= 0 {
		s.fadeLeft, s.fadeTotal = 0, 0
		s.trailAlpha = 0
		return
	}
	s.fadeLeft = duration
	s.fadeTotal = duration
}

func (s *Scene) SetScore(score int) {
	s.score = score
}

func (s *Scene) SpendLife(i int) {
	if i < 0 || i >= len(s.spent) {
		return
	}
	s.spent[i] = true
	s.pulse[i] = lifePulse
}

// ShowBanner displays text across the middle row.
func (s *Scene) ShowBanner(text string) { s.banner = text }

// Banner returns the banner text.
func (s *Scene) Banner() string { return s.banner }

// Score returns the displayed score.
func (s *Scene) Score() int { return s.score }

// Targets returns the number of targets drawn.
func (s *Scene) Targets() int { return len(s.targets) }

// TrailAlpha returns the trail opacity.
func (s *Scene) TrailAlpha() float64 { return s.trailAlpha }

// LifeSpent reports whether indicator i is spent.
func (s *Scene) LifeSpent(i int) bool {
	return i >= 0 && i < len(s.spent) && s.spent[i]
}

// Update advances dissolves, effects, the trail fade and life pulses.
func (s *Scene) Update(dt float64) {
	for id, t := range s.targets {
		if !t.dissolving {
			continue
		}
		t.left -= dt
		if t.left <= 0 {
			delete(s.targets, id)
		}
	}

	live := s.bursts[:0]
	for _, b := range s.bursts {
		b.age += dt
		if b.age < b.ttl {
			live = append(live, b)
		}
	}
	s.bursts = live

	if s.fadeTotal > 0 {
		s.fadeLeft = max(s.fadeLeft-dt, 0)
		s.trailAlpha = s.fadeLeft / s.fadeTotal
		if s.fadeLeft == 0 {
			s.fadeTotal = 0
		}
	}

	for i := range s.pulse {
		s.pulse[i] = max(s.pulse[i]-dt, 0)
	}
}

// Draw renders the scene onto screen. The caller shows the screen.
func (s *Scene) Draw(screen tcell.Screen) {
	screen.Clear()
	w, h := screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	g := grid{screen: screen, w: w, h: h}

	// Bombs after safe targets so they overlap them.
	ids := make([]slicer.TargetID, 0, len(s.targets))
	for id := range s.targets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.targets[ids[i]], s.targets[ids[j]]
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		s.drawTarget(g, s.targets[id])
	}

	for _, b := range s.bursts {
		s.drawBurst(g, b)
	}

	if s.trailAlpha > 0 && len(s.trail) >= 2 {
		r, st := runeTrail, styleTrail
		if s.trailAlpha < 0.5 {
			r, st = runeFaded, styleTrailFade
		}
		for i := 1; i < len(s.trail); i++ {
			g.line(s.trail[i-1], s.trail[i], r, st)
		}
	}

	x, y := g.cell(slicer.ScorePosition)
	g.text(x, min(y, h-1), fmt.Sprintf("Score: %d", s.score), styleHUD)
	for i := range s.spent {
		x, y := g.cell(slicer.LifeIndicatorPosition(i))
		r, st := runeLife, styleLife
		if s.spent[i] {
			r, st = runeLifeGone, styleLifeGone
			if s.pulse[i] > 0 {
				st = st.Bold(true).Reverse(true)
			}
		}
		g.set(x, y, r, st)
	}

	if s.banner != "" {
		g.text((w-len(s.banner))/2, h/2, s.banner, styleBanner)
	}
}

func (s *Scene) drawTarget(g grid, t *target) {
	if t.dissolving {
		x, y := g.cell(t.pos)
		g.set(x, y, runeDissolve, styleDissolve)
		return
	}
	r, st := runeSafe, styleSafe
	if t.kind == slicer.KindBomb {
		r, st = runeBomb, styleBomb
	}
	g.ellipse(t.pos, s.radius, r, st)
	if t.kind == slicer.KindBomb {
		sin, cos := math.Sincos(t.rotation)
		off := slicer.Vec2{
			X: cos*slicer.FuseOffset.X - sin*slicer.FuseOffset.Y,
			Y: sin*slicer.FuseOffset.X + cos*slicer.FuseOffset.Y,
		}
		x, y := g.cell(t.pos.Add(off))
		g.set(x, y, runeFuse, styleFuse)
	}
}

func (s *Scene) drawBurst(g grid, b burst) {
	r, st, reach := runeHit, styleHit, s.radius
	if b.effect == slicer.EffectExplosion {
		r, st, reach = runeBlast, styleBlast, s.radius*3
	}
	dist := reach * b.age / b.ttl
	for k := 0; k < 8; k++ {
		a := float64(k) * math.Pi / 4
		x, y := g.cell(slicer.Vec2{X: b.pos.X + dist*math.Cos(a), Y: b.pos.Y + dist*math.Sin(a)})
		g.set(x, y, r, st)
	}
}

// grid maps field coordinates onto the character cells of a screen.
type grid struct {
	screen tcell.Screen
	w, h   int
}

// cell returns the column and row containing field point p.
func (g grid) cell(p slicer.Vec2) (int, int) {
	col := math.Floor(p.X / slicer.FieldWidth * float64(g.w))
	row := math.Floor((slicer.FieldHeight - p.Y) / slicer.FieldHeight * float64(g.h))
	return int(col), int(row)
}

func (g grid) set(x, y int, r rune, st tcell.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.screen.SetContent(x, y, r, nil, st)
}

func (g grid) text(x, y int, s string, st tcell.Style) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, st)
	}
}

// ellipse fills the cells covered by a field circle, at least one cell.
func (g grid) ellipse(center slicer.Vec2, radius float64, r rune, st tcell.Style) {
	cx, cy := g.cell(center)
	g.set(cx, cy, r, st)
	rx := radius / slicer.FieldWidth * float64(g.w)
	ry := radius / slicer.FieldHeight * float64(g.h)
	if rx < 1 && ry < 1 {
		return
	}
	for dy := -int(ry); dy <= int(ry); dy++ {
		for dx := -int(rx); dx <= int(rx); dx++ {
			nx, ny := float64(dx)/max(rx, 0.5), float64(dy)/max(ry, 0.5)
			if nx*nx+ny*ny <= 1 {
				g.set(cx+dx, cy+dy, r, st)
			}
		}
	}
}

// line draws a Bresenham line between two field points.
func (g grid) line(a, b slicer.Vec2, r rune, st tcell.Style) {
	x0, y0 := g.cell(a)
	x1, y1 := g.cell(b)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		g.set(x0, y0, r, st)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// FieldPoint returns the field point at the center of cell (x, y) on a
// w by h grid.
func FieldPoint(x, y, w, h int) slicer.Vec2 {
	return slicer.Vec2{
		X: (float64(x) + 0.5) * slicer.FieldWidth / float64(w),
		Y: slicer.FieldHeight - (float64(y)+0.5)*slicer.FieldHeight/float64(h),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ slicer.Scene = (*Scene)(nil)
