package slicer

import "math"

// Vec2 is a point or direction in field coordinates. The field follows the
// usual physics convention: origin at the bottom-left, Y increasing upward.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Len returns the length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// TargetID identifies a target for its whole lifetime. IDs come from a
// monotonically increasing counter and are never handed out twice.
type TargetID uint64

// Kind distinguishes the two target families.
type Kind uint8

const (
	KindSafe Kind = iota // slice for a point; losing one costs a life
	KindBomb             // slicing one ends the game; letting it fall is harmless
)

func (k Kind) String() string {
	switch k {
	case KindSafe:
		return "safe"
	case KindBomb:
		return "bomb"
	default:
		return "unknown"
	}
}

// Force overrides the random kind roll of Spawner.Spawn.
type Force uint8

const (
	ForceDefault Force = iota // roll 0..6, bomb on 0
	ForceNever                // always a safe target
	ForceAlways               // always a bomb
)

// Sound names a sound effect understood by the Audio collaborator.
type Sound string

const (
	SoundLaunch    Sound = "launch"
	SoundWhack     Sound = "whack"
	SoundExplosion Sound = "explosion"
	SoundWrong     Sound = "wrong"
	SoundFuse      Sound = "fuse"
	SoundSwoosh1   Sound = "swoosh1"
	SoundSwoosh2   Sound = "swoosh2"
	SoundSwoosh3   Sound = "swoosh3"
)

// SwooshSounds lists the swoosh variants picked at random while slicing.
var SwooshSounds = [...]Sound{SoundSwoosh1, SoundSwoosh2, SoundSwoosh3}

// Effect names a one-shot visual effect played by the Scene collaborator.
type Effect uint8

const (
	EffectSliceHit  Effect = iota // burst when a safe target is sliced
	EffectExplosion               // burst when a bomb is sliced
)

// Play field geometry.
const (
	FieldWidth  = 1024
	FieldHeight = 768

	// MaxLives is the number of life indicators and the starting life count.
	MaxLives = 3
)

// Fixed layout of the HUD and bomb assembly, in field coordinates.
var (
	ScorePosition  = Vec2{8, 8}
	FuseOffset     = Vec2{76, 64}
	lifeIndicatorX = 834.0
	lifeIndicatorY = 720.0
	lifeSpacing    = 70.0
)

// LifeIndicatorPosition returns the center of life indicator i (0..2).
func LifeIndicatorPosition(i int) Vec2 {
	return Vec2{lifeIndicatorX + float64(i)*lifeSpacing, lifeIndicatorY}
}
