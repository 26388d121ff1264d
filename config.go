package slicer

import (
	"flag"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

// Tuning holds every gameplay constant. DefaultTuning gives the stock
// pacing.
type Tuning struct {
	// WarmUp is the delay before the first batch.
	WarmUp float64
	// PopupTime is the initial pause between an empty field and the next batch.
	PopupTime float64
	// ChainDelay is the initial window over which chain batches spread spawns.
	ChainDelay float64
	// TimeScale is the initial physics speed.
	TimeScale float64

	PopupDecay      float64
	ChainDecay      float64
	TimeScaleGrowth float64

	// RandomBatches is the number of timeline entries after the fixed prefix.
	RandomBatches int

	// TargetRadius is the radius of every target body.
	TargetRadius float64
	// SpawnY is the launch height, below the visible field.
	SpawnY float64
	// OffscreenY is the height below which a target is reaped.
	OffscreenY float64
	// VelocityScale multiplies the rolled launch speeds.
	VelocityScale float64

	MaxSlicePoints int
	SliceFade      float64
	DissolveTime   float64
}

// DefaultTuning returns the stock gameplay constants.
func DefaultTuning() Tuning {
	return Tuning{
		WarmUp:          2,
		PopupTime:       0.9,
		ChainDelay:      3,
		TimeScale:       0.85,
		PopupDecay:      0.991,
		ChainDecay:      0.99,
		TimeScaleGrowth: 1.02,
		RandomBatches:   1001,
		TargetRadius:    64,
		SpawnY:          -128,
		OffscreenY:      -140,
		VelocityScale:   40,
		MaxSlicePoints:  12,
		SliceFade:       0.25,
		DissolveTime:    0.2,
	}
}

// Config controls a game session and the binaries around it.
type Config struct {
	// Seed feeds the random source. Zero picks a time-based seed.
	Seed uint64
	// Debug enables the FPS overlay and per-frame render stats.
	Debug bool
	// LogLevel is the minimum level written by the logger.
	LogLevel log.Level

	AudioEnabled bool
	// MasterVolume is in [0, 1].
	MasterVolume float64

	// Script is an optional path to a JSON gesture script.
	Script string
	// ScreenshotDir receives PNGs captured by scripts.
	ScreenshotDir string

	Tuning Tuning
}

// DefaultConfig returns a Config with audio on and stock tuning.
func DefaultConfig() Config {
	return Config{
		LogLevel:      log.InfoLevel,
		AudioEnabled:  true,
		MasterVolume:  0.8,
		ScreenshotDir: "screenshots",
		Tuning:        DefaultTuning(),
	}
}

// LoadConfig returns DefaultConfig overridden by SLICER_* environment
// variables. Malformed values are ignored.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("SLICER_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
	if v := os.Getenv("SLICER_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v := os.Getenv("SLICER_LOG_LEVEL"); v != "" {
		if lvl, err := log.ParseLevel(v); err == nil {
			cfg.LogLevel = lvl
		}
	}
	if v := os.Getenv("SLICER_AUDIO_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AudioEnabled = b
		}
	}

	// Volume is given as 0-100.
	if v := os.Getenv("SLICER_MASTER_VOLUME"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			vol := float64(n) / 100
			if vol < 0 {
				vol = 0
			}
			if vol > 1 {
				vol = 1
			}
			cfg.MasterVolume = vol
		}
	}

	if v, ok := os.LookupEnv("SLICER_SCRIPT"); ok {
		cfg.Script = v
	}
	if v, ok := os.LookupEnv("SLICER_SCREENSHOT_DIR"); ok && v != "" {
		cfg.ScreenshotDir = v
	}
	return cfg
}

// BindFlags registers command-line overrides for cfg on fs. Values already
// in cfg, usually from LoadConfig, are the flag defaults.
func (cfg *Config) BindFlags(fs *flag.FlagSet) {
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = time based)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "show the FPS overlay and frame stats")
	fs.Var((*levelFlag)(&cfg.LogLevel), "log-level", "minimum log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.AudioEnabled, "audio", cfg.AudioEnabled, "play sound")
	fs.Float64Var(&cfg.MasterVolume, "volume", cfg.MasterVolume, "master volume in [0, 1]")
	fs.StringVar(&cfg.Script, "script", cfg.Script, "JSON gesture script to play")
	fs.StringVar(&cfg.ScreenshotDir, "screenshots", cfg.ScreenshotDir, "directory for script screenshots")
}

type levelFlag log.Level

func (l *levelFlag) String() string { return log.Level(*l).String() }

func (l *levelFlag) Set(v string) error {
	lvl, err := log.ParseLevel(v)
	if err != nil {
		return err
	}
	*l = levelFlag(lvl)
	return nil
}

// NewLogger builds the logger used by the binaries.
func NewLogger(cfg Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "slicer",
		ReportTimestamp: true,
		Level:           cfg.LogLevel,
	})
}
