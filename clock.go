package slicer

import (
	"sort"
	"sync"
)

// timer is a pending one-shot callback.
type timer struct {
	due float64
	seq uint64 // insertion order breaks ties between equal due times
	fn  func()
}

// Clock is a frame-driven Timer. Callbacks only run inside Advance, on the
// goroutine that calls it; After may be called from any goroutine.
type Clock struct {
	mu      sync.Mutex
	now     float64
	seq     uint64
	pending []timer
	fireBuf []timer
}

// NewClock returns a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// After schedules fn to run once, delay time units from now. Negative delays
// are treated as zero.
func (c *Clock) After(delay float64, fn func()) {
	if fn == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	c.mu.Lock()
	c.seq++
	t := timer{due: c.now + delay, seq: c.seq, fn: fn}
	i := sort.Search(len(c.pending), func(i int) bool {
		p := c.pending[i]
		return p.due > t.due || (p.due == t.due && p.seq > t.seq)
	})
	c.pending = append(c.pending, timer{})
	copy(c.pending[i+1:], c.pending[i:])
	c.pending[i] = t
	c.mu.Unlock()
}

// Advance moves the clock forward by dt and runs every callback that is due,
// in due order. Callbacks scheduled while firing run in the same call when
// they are already due.
func (c *Clock) Advance(dt float64) {
	c.mu.Lock()
	if dt > 0 {
		c.now += dt
	}
	c.mu.Unlock()

	for {
		c.mu.Lock()
		n := 0
		for n < len(c.pending) && c.pending[n].due <= c.now {
			n++
		}
		if n == 0 {
			c.mu.Unlock()
			return
		}
		c.fireBuf = append(c.fireBuf[:0], c.pending[:n]...)
		copy(c.pending, c.pending[n:])
		for i := len(c.pending) - n; i < len(c.pending); i++ {
			c.pending[i] = timer{}
		}
		c.pending = c.pending[:len(c.pending)-n]
		fire := c.fireBuf
		c.mu.Unlock()

		for _, t := range fire {
			t.fn()
		}
	}
}

// Now returns the elapsed clock time.
func (c *Clock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of callbacks not yet fired.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
