package render

import (
	"image"
	"math"
	"testing"

	"github.com/phanxgames/slicer"
)

func newTestScene() *Scene {
	return NewScene(Options{Seed: 7})
}

func commandsOf(s *Scene, typ CommandType) []Command {
	var out []Command
	for _, c := range s.Commands() {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func TestNewSceneHUD(t *testing.T) {
	s := newTestScene()
	if s.ScoreText() != "Score: 0" {
		t.Errorf("score label = %q, want %q", s.ScoreText(), "Score: 0")
	}
	for i := 0; i < slicer.MaxLives; i++ {
		n := s.LifeIndicator(i)
		want := slicer.LifeIndicatorPosition(i)
		if n.X != want.X || n.Y != want.Y {
			t.Errorf("life %d at (%f, %f), want (%f, %f)", i, n.X, n.Y, want.X, want.Y)
		}
		if s.LifeSpent(i) {
			t.Errorf("life %d spent on a fresh scene", i)
		}
	}
	if s.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", s.ScreenshotDir, "screenshots")
	}
}

func TestCommandsFlipY(t *testing.T) {
	s := newTestScene()
	s.AddTarget(1, slicer.KindSafe, slicer.Vec2{X: 200, Y: 100})

	circles := commandsOf(s, CommandCircle)
	if len(circles) == 0 {
		t.Fatal("no circle commands")
	}
	body := circles[0]
	if body.X != 200 || body.Y != slicer.FieldHeight-100 {
		t.Errorf("body at (%f, %f), want (200, %d)", body.X, body.Y, slicer.FieldHeight-100)
	}
	if body.Radius != 64 {
		t.Errorf("radius = %f, want 64", body.Radius)
	}

	labels := commandsOf(s, CommandLabel)
	if len(labels) != 1 || labels[0].Text != "Score: 0" {
		t.Fatalf("labels = %+v, want the score label", labels)
	}
	if want := float64(slicer.FieldHeight) - slicer.ScorePosition.Y - debugGlyphHeight; labels[0].Y != want {
		t.Errorf("label y = %f, want %f", labels[0].Y, want)
	}
}

func TestBombsDrawAboveTargets(t *testing.T) {
	s := newTestScene()
	s.AddTarget(1, slicer.KindBomb, slicer.Vec2{X: 100, Y: 100})
	s.AddTarget(2, slicer.KindSafe, slicer.Vec2{X: 500, Y: 100})

	circles := commandsOf(s, CommandCircle)
	if circles[0].X != 500 {
		t.Errorf("first circle at x = %f, want the safe target at 500", circles[0].X)
	}
	if kind, ok := s.TargetKind(1); !ok || kind != slicer.KindBomb {
		t.Errorf("TargetKind(1) = %v, %v, want bomb", kind, ok)
	}
}

func TestBombFuseBurns(t *testing.T) {
	s := newTestScene()
	s.AddTarget(1, slicer.KindBomb, slicer.Vec2{X: 300, Y: 300})
	s.Update(0.1)

	parts := commandsOf(s, CommandParticles)
	if len(parts) != 1 {
		t.Fatalf("particle commands = %d, want 1", len(parts))
	}
	wantX := 300 + slicer.FuseOffset.X
	wantY := float64(slicer.FieldHeight) - (300 + slicer.FuseOffset.Y)
	if math.Abs(parts[0].X-wantX) > 1e-9 || math.Abs(parts[0].Y-wantY) > 1e-9 {
		t.Errorf("fuse at (%f, %f), want (%f, %f)", parts[0].X, parts[0].Y, wantX, wantY)
	}
}

func TestMoveTarget(t *testing.T) {
	s := newTestScene()
	s.AddTarget(3, slicer.KindSafe, slicer.Vec2{})
	s.MoveTarget(3, slicer.Vec2{X: 40, Y: 50}, 1.5)
	s.MoveTarget(99, slicer.Vec2{X: 1, Y: 1}, 0)

	n, ok := s.Target(3)
	if !ok {
		t.Fatal("target missing")
	}
	if n.X != 40 || n.Y != 50 || n.Rotation != 1.5 {
		t.Errorf("node = (%f, %f, %f), want (40, 50, 1.5)", n.X, n.Y, n.Rotation)
	}
}

func TestDissolveTarget(t *testing.T) {
	s := newTestScene()
	s.AddTarget(1, slicer.KindBomb, slicer.Vec2{X: 100, Y: 100})
	s.DissolveTarget(1, 0.2)

	s.Update(0.1)
	n, ok := s.Target(1)
	if !ok {
		t.Fatal("target removed before the dissolve finished")
	}
	if n.Alpha <= 0 || n.Alpha >= 1 || n.ScaleX >= 1 {
		t.Errorf("alpha = %f, scale = %f, want mid-dissolve", n.Alpha, n.ScaleX)
	}

	s.Update(0.15)
	if _, ok := s.Target(1); ok {
		t.Error("target still present after the dissolve")
	}
	if s.TargetCount() != 0 || s.Animating() != 0 {
		t.Errorf("targets = %d, tweens = %d, want 0, 0", s.TargetCount(), s.Animating())
	}
}

func TestRemoveTargetCancelsDissolve(t *testing.T) {
	s := newTestScene()
	s.AddTarget(1, slicer.KindSafe, slicer.Vec2{})
	s.DissolveTarget(1, 1)
	s.RemoveTarget(1)
	s.RemoveTarget(1)

	// Re-adding the same ID must survive the cancelled tween.
	s.AddTarget(1, slicer.KindSafe, slicer.Vec2{})
	s.Update(2)
	n, ok := s.Target(1)
	if !ok {
		t.Fatal("new target removed by a stale dissolve")
	}
	if n.Alpha != 1 {
		t.Errorf("alpha = %f, want 1", n.Alpha)
	}
}

func TestPlayEffectCleansUp(t *testing.T) {
	s := newTestScene()
	s.PlayEffect(slicer.EffectSliceHit, slicer.Vec2{X: 10, Y: 10})
	s.PlayEffect(slicer.EffectExplosion, slicer.Vec2{X: 20, Y: 20})
	if s.Bursts() != 2 {
		t.Fatalf("bursts = %d, want 2", s.Bursts())
	}
	if len(commandsOf(s, CommandParticles)) != 2 {
		t.Error("bursts should draw right away")
	}

	for i := 0; i < 120; i++ {
		s.Update(1.0 / 60)
	}
	if s.Bursts() != 0 {
		t.Errorf("bursts = %d after 2s, want 0", s.Bursts())
	}
	if s.effects.NumChildren() != 0 {
		t.Errorf("effects layer has %d nodes, want 0", s.effects.NumChildren())
	}
}

func TestSliceTrail(t *testing.T) {
	s := newTestScene()
	s.ShowSlice()
	s.DrawSlice([]slicer.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}})

	if got := len(commandsOf(s, CommandMesh)); got != 2 {
		t.Fatalf("mesh commands = %d, want 2", got)
	}

	s.FadeSlice(0.25)
	s.Update(0.125)
	if a := s.TrailAlpha(); math.Abs(a-0.5) > 0.01 {
		t.Errorf("alpha = %f, want ~0.5", a)
	}

	// A new gesture cancels the fade.
	s.ShowSlice()
	s.Update(0.5)
	if s.TrailAlpha() != 1 {
		t.Errorf("alpha = %f, want 1 after ShowSlice", s.TrailAlpha())
	}

	s.FadeSlice(0.25)
	s.Update(0.5)
	if s.TrailAlpha() != 0 {
		t.Errorf("alpha = %f, want 0 after the fade", s.TrailAlpha())
	}
	if got := len(commandsOf(s, CommandMesh)); got != 0 {
		t.Errorf("faded trail still drawn: %d meshes", got)
	}

	s.DrawSlice(nil)
	if len(s.Trail().Points()) != 0 {
		t.Error("trail should be cleared")
	}
}

func TestSetScore(t *testing.T) {
	s := newTestScene()
	s.SetScore(12)
	if s.Score() != 12 || s.ScoreText() != "Score: 12" {
		t.Errorf("score = %d %q, want 12 %q", s.Score(), s.ScoreText(), "Score: 12")
	}
}

func TestSpendLifePulses(t *testing.T) {
	s := newTestScene()
	s.SpendLife(0)
	s.SpendLife(5)
	s.SpendLife(-1)

	n := s.LifeIndicator(0)
	if !s.LifeSpent(0) || s.LifeSpent(1) {
		t.Error("only indicator 0 should be spent")
	}
	if n.ScaleX != lifePulse {
		t.Errorf("scale = %f, want %f at pulse start", n.ScaleX, lifePulse)
	}
	if n.Color != lifeGoneColor {
		t.Errorf("color = %+v, want the spent look", n.Color)
	}

	s.Update(0.2)
	if math.Abs(n.ScaleX-1) > 1e-6 {
		t.Errorf("scale = %f, want 1 after the pulse", n.ScaleX)
	}
}

func TestBanner(t *testing.T) {
	s := newTestScene()
	if s.Banner() != "" {
		t.Error("fresh scene has a banner")
	}
	s.ShowBanner("GAME OVER")
	if s.Banner() != "GAME OVER" {
		t.Errorf("banner = %q", s.Banner())
	}
	if got := len(commandsOf(s, CommandLabel)); got != 2 {
		t.Errorf("labels = %d, want score and banner", got)
	}
	s.ClearBanner()
	s.ClearBanner()
	if s.Banner() != "" {
		t.Error("banner not cleared")
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"game-over", "game-over"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	s := newTestScene()
	s.Screenshot("a")
	s.Screenshot("b")
	if s.PendingScreenshots() != 2 {
		t.Fatalf("queue = %d, want 2", s.PendingScreenshots())
	}
	if s.screenshotQueue[0] != "a" || s.screenshotQueue[1] != "b" {
		t.Errorf("queue = %v, want [a b]", s.screenshotQueue)
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{64, 32, 0, 128, 10, 20, 30, 255}, 2, 1)
	if img.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if img.Pix[0] != 127 || img.Pix[1] != 63 || img.Pix[3] != 128 {
		t.Errorf("half-alpha pixel = %v, want [127 63 0 128]", img.Pix[:4])
	}
	if img.Pix[4] != 10 || img.Pix[7] != 255 {
		t.Errorf("opaque pixel = %v, want unchanged", img.Pix[4:8])
	}
}

func TestToRGBA(t *testing.T) {
	c := toRGBA(Color{1, 0.5, 0, 0.5})
	if c.A != 128 || c.R != 128 || c.G != 64 || c.B != 0 {
		t.Errorf("toRGBA = %+v, want premultiplied {128 64 0 128}", c)
	}
}
