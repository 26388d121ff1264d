// Package audio implements the slicer Audio collaborator on top of beep.
// Every sound is synthesized, so the game ships without asset files.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/phanxgames/slicer"
)

// SampleRate is the output rate of every synthesized sound.
const SampleRate = beep.SampleRate(44100)

// Sink receives streamers to play. Lock and Unlock guard state shared with
// the goroutine pulling samples.
type Sink interface {
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

// speakerSink mixes into the process-wide beep speaker.
type speakerSink struct {
	mixer *beep.Mixer
}

func (s *speakerSink) Play(st beep.Streamer) {
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

func (s *speakerSink) Lock()   { speaker.Lock() }
func (s *speakerSink) Unlock() { speaker.Unlock() }

var (
	speakerOnce sync.Once
	speakerErr  error
	sharedSink  *speakerSink
)

// OpenSpeaker initializes the speaker once per process and returns a sink
// feeding it.
func OpenSpeaker() (Sink, error) {
	speakerOnce.Do(func() {
		if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
			speakerErr = fmt.Errorf("init speaker: %w", err)
			return
		}
		sharedSink = &speakerSink{mixer: &beep.Mixer{}}
		speaker.Play(sharedSink.mixer)
	})
	if speakerErr != nil {
		return nil, speakerErr
	}
	return sharedSink, nil
}

// Bank plays the game's sounds through a Sink. A Bank without a sink is
// silent but still reports completions.
type Bank struct {
	sink   Sink
	volume float64
	log    *log.Logger
	seed   uint64
}

// NewBank returns a bank playing through sink at volume in [0, 1]. A nil
// sink yields a silent bank.
func NewBank(sink Sink, volume float64, logger *log.Logger) *Bank {
	if logger == nil {
		logger = log.Default()
	}
	return &Bank{sink: sink, volume: min(max(volume, 0), 1), log: logger}
}

// Open builds the bank described by cfg. Audio that is disabled, or a
// speaker that fails to open, gives a silent bank; the error is returned so
// callers can report it.
func Open(cfg slicer.Config, logger *log.Logger) (*Bank, error) {
	if !cfg.AudioEnabled {
		return NewBank(nil, 0, logger), nil
	}
	sink, err := OpenSpeaker()
	if err != nil {
		return NewBank(nil, 0, logger), err
	}
	return NewBank(sink, cfg.MasterVolume, logger), nil
}

// Silent reports whether the bank has no output.
func (b *Bank) Silent() bool { return b.sink == nil }

// Play fires a one-shot sound.
func (b *Bank) Play(s slicer.Sound) {
	if b.sink == nil {
		return
	}
	st, ok := Recipe(s, SampleRate)
	if !ok {
		b.log.Warn("unknown sound", "sound", s)
		return
	}
	b.sink.Play(newVolume(st, b.volume))
}

// PlayUntilDone plays s and calls done when it finishes. done runs on the
// sink's goroutine, or synchronously when the bank is silent or s unknown.
func (b *Bank) PlayUntilDone(s slicer.Sound, done func()) {
	st, ok := Recipe(s, SampleRate)
	if b.sink == nil || !ok {
		if !ok {
			b.log.Warn("unknown sound", "sound", s)
		}
		if done != nil {
			done()
		}
		return
	}
	if done != nil {
		st = beep.Seq(st, beep.Callback(done))
	}
	b.sink.Play(newVolume(st, b.volume))
}

// Loop starts a looping sound. Only the fuse loops; other sounds play once
// and their handle stops them early.
func (b *Bank) Loop(s slicer.Sound) slicer.Handle {
	if b.sink == nil {
		return nopHandle{}
	}
	var st beep.Streamer
	if s == slicer.SoundFuse {
		b.seed++
		st = fuseSound(SampleRate, b.seed)
	} else {
		var ok bool
		if st, ok = Recipe(s, SampleRate); !ok {
			b.log.Warn("unknown sound", "sound", s)
			return nopHandle{}
		}
	}
	ctrl := &beep.Ctrl{Streamer: newVolume(st, b.volume)}
	b.sink.Play(ctrl)
	return &loopHandle{sink: b.sink, ctrl: ctrl}
}

type loopHandle struct {
	sink Sink
	ctrl *beep.Ctrl
}

// Stop ends the loop; the mixer drops it on its next pull.
func (h *loopHandle) Stop() {
	h.sink.Lock()
	h.ctrl.Streamer = nil
	h.sink.Unlock()
}

type nopHandle struct{}

func (nopHandle) Stop() {}
