package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/phanxgames/slicer"
)

// WaveType selects an oscillator shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// sweep is an oscillator whose frequency glides linearly from one value to
// another over its duration. A zero duration streams forever at from.
type sweep struct {
	from, to float64
	phase    float64
	total    int
	pos      int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newSweep(from, to float64, d time.Duration, wave WaveType, rate beep.SampleRate) *sweep {
	return &sweep{
		from:  from,
		to:    to,
		total: rate.N(d),
		wave:  wave,
		rate:  rate,
		rng:   rand.New(rand.NewPCG(uint64(from*1000), uint64(to*1000)+1)),
	}
}

// NewOscillator returns a fixed-frequency wave lasting d.
func NewOscillator(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return newSweep(freq, freq, d, wave, rate)
}

func (o *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.total > 0 && o.pos >= o.total {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		freq := o.from
		if o.total > 0 {
			freq += (o.to - o.from) * float64(o.pos) / float64(o.total)
		}
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *sweep) Err() error { return nil }

// envelope shapes a finite stream with a linear attack and release.
type envelope struct {
	streamer beep.Streamer
	pos      int
	attack   int
	release  int
	total    int
}

// NewEnvelope limits s to d and ramps it in over attack and out over release.
func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if rem := e.total - e.pos; len(samples) > rem {
		samples = samples[:rem]
	}
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.pos < e.attack {
			vol = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left < e.release {
			vol = math.Min(vol, float64(left)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// crackle emits short random pops on silence, forever.
type crackle struct {
	rng     *rand.Rand
	density float64
	decay   float64
	level   float64
}

func (c *crackle) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.rng.Float64() < c.density {
			c.level = 0.6 + 0.4*c.rng.Float64()
		}
		val := c.level * (c.rng.Float64()*2 - 1)
		c.level *= c.decay
		samples[i][0] = val
		samples[i][1] = val
	}
	return len(samples), true
}

func (c *crackle) Err() error { return nil }

// newVolume scales s linearly; zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// tone is a sine from the beep generators cut to d with an envelope.
func tone(freq float64, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		// Frequencies at or above Nyquist are rejected; fall back to silence.
		return beep.Silence(rate.N(d))
	}
	return NewEnvelope(beep.Take(rate.N(d), sine), d, attack, release, rate)
}

// Sound recipes. Every one but the fuse is finite.

func launchSound(rate beep.SampleRate) beep.Streamer {
	const d = 180 * time.Millisecond
	return newVolume(NewEnvelope(newSweep(220, 660, d, WaveSine, rate), d, 10*time.Millisecond, 80*time.Millisecond, rate), 0.5)
}

func whackSound(rate beep.SampleRate) beep.Streamer {
	const d = 120 * time.Millisecond
	thud := tone(140, d, 2*time.Millisecond, 90*time.Millisecond, rate)
	hiss := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, time.Millisecond, 100*time.Millisecond, rate)
	return beep.Mix(newVolume(thud, 0.6), newVolume(hiss, 0.35))
}

func explosionSound(rate beep.SampleRate) beep.Streamer {
	const d = 700 * time.Millisecond
	blast := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 5*time.Millisecond, 600*time.Millisecond, rate)
	rumble := NewEnvelope(newSweep(90, 30, d, WaveSine, rate), d, 5*time.Millisecond, 500*time.Millisecond, rate)
	return beep.Mix(newVolume(blast, 0.45), newVolume(rumble, 0.5))
}

func wrongSound(rate beep.SampleRate) beep.Streamer {
	const note = 140 * time.Millisecond
	a := NewEnvelope(NewOscillator(220, note, WaveSaw, rate), note, 5*time.Millisecond, 40*time.Millisecond, rate)
	b := NewEnvelope(NewOscillator(165, note*2, WaveSaw, rate), note*2, 5*time.Millisecond, 120*time.Millisecond, rate)
	return newVolume(beep.Seq(a, b), 0.35)
}

func swooshSound(rate beep.SampleRate, variant int) beep.Streamer {
	d := time.Duration(200+50*variant) * time.Millisecond
	from := 1800.0 - 300*float64(variant)
	air := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, d/3, d/2, rate)
	whistle := NewEnvelope(newSweep(from, from/3, d, WaveSine, rate), d, d/3, d/2, rate)
	return beep.Mix(newVolume(air, 0.25), newVolume(whistle, 0.15))
}

func fuseSound(rate beep.SampleRate, seed uint64) beep.Streamer {
	pops := &crackle{rng: rand.New(rand.NewPCG(seed, seed^0xf00d)), density: 0.002, decay: 0.995}
	hum := NewOscillator(70, 0, WaveSine, rate)
	return beep.Mix(newVolume(pops, 0.3), newVolume(hum, 0.05))
}

// Recipe returns a fresh streamer for a finite sound. The fuse loop is not a
// recipe; see Bank.Loop.
func Recipe(s slicer.Sound, rate beep.SampleRate) (beep.Streamer, bool) {
	switch s {
	case slicer.SoundLaunch:
		return launchSound(rate), true
	case slicer.SoundWhack:
		return whackSound(rate), true
	case slicer.SoundExplosion:
		return explosionSound(rate), true
	case slicer.SoundWrong:
		return wrongSound(rate), true
	case slicer.SoundSwoosh1:
		return swooshSound(rate, 0), true
	case slicer.SoundSwoosh2:
		return swooshSound(rate, 1), true
	case slicer.SoundSwoosh3:
		return swooshSound(rate, 2), true
	default:
		return nil, false
	}
}
