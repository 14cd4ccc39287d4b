// Package endstop implements the debounced endstop monitor (spec §4.1).
// Each axis' switch is sampled through a narrow Reader so the debounce
// state machine can be exercised off-target with a fake, the same shape
// tmc5160.RegisterComm lets Driver run against a bus or a test double.
package endstop

import (
	"github.com/deviverr/penplotter/config"
	"github.com/deviverr/penplotter/point3d"
)

// Reader samples the raw, uninterpreted level of one endstop pin.
type Reader interface {
	Read() bool
}

// Clock returns the current time in milliseconds, abstracted so the
// debounce window can be driven deterministically in tests the way
// real firmware would drive it from a free-running millis() counter.
type Clock interface {
	NowMs() uint32
}

// Channel debounces one axis' endstop.
type Channel struct {
	reader  Reader
	clock   Clock
	invert  bool
	pullup  bool // informational only: affects how Reader must be wired, not the debounce math
	window  uint32

	lastRaw      bool
	lastChangeMs uint32
	debounced    bool
	seeded       bool
}

// NewChannel constructs a Channel for one axis. The raw level is sampled
// once immediately so the first Triggered() call does not treat a
// long-stable line as a fresh transition.
func NewChannel(reader Reader, clock Clock, invert, pullup bool, debounceMs uint32) *Channel {
	c := &Channel{
		reader: reader,
		clock:  clock,
		invert: invert,
		pullup: pullup,
		window: debounceMs,
	}
	raw := c.rawTriggered()
	c.lastRaw = raw
	c.debounced = raw
	c.lastChangeMs = clock.NowMs()
	c.seeded = true
	return c
}

// rawTriggered returns the current pin level corrected for polarity
// inversion, with no debounce applied.
func (c *Channel) rawTriggered() bool {
	level := c.reader.Read()
	if c.invert {
		return !level
	}
	return level
}

// RawState returns the polarity-corrected instantaneous pin level,
// uninterpreted by debounce. Kept distinct from Triggered per spec §9's
// separation of hardware endstop state from the relative-jog "triggered
// during move" decision, which lives in the dispatcher's move handler.
func (c *Channel) RawState() bool {
	return c.rawTriggered()
}

// Triggered samples the pin and returns the debounced state: a level
// promotes to stable only after holding for at least the debounce
// window.
func (c *Channel) Triggered() bool {
	raw := c.rawTriggered()
	now := c.clock.NowMs()

	if raw != c.lastRaw {
		c.lastRaw = raw
		c.lastChangeMs = now
	}

	if elapsed(now, c.lastChangeMs) >= c.window {
		c.debounced = c.lastRaw
	}

	return c.debounced
}

func elapsed(now, since uint32) uint32 {
	return now - since // wraps correctly for uint32 millis rollover
}

// Monitor owns one debounced Channel per axis.
type Monitor struct {
	channels [point3d.NumAxes]*Channel
}

// NewMonitor builds a Monitor from per-axis readers and a shared clock.
func NewMonitor(cfg config.MachineConfig, clock Clock, readers [point3d.NumAxes]Reader) *Monitor {
	var m Monitor
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		m.channels[axis] = NewChannel(
			readers[axis],
			clock,
			cfg.InvertEndstop[axis],
			cfg.EndstopPullup[axis],
			cfg.EndstopDebounceMs,
		)
	}
	return &m
}

// IsTriggered reports the debounced state of one axis' endstop.
func (m *Monitor) IsTriggered(axis point3d.Axis) bool {
	return m.channels[axis].Triggered()
}

// RawState reports the polarity-corrected, non-debounced state of one
// axis' endstop.
func (m *Monitor) RawState(axis point3d.Axis) bool {
	return m.channels[axis].RawState()
}
