package homing

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/deviverr/penplotter/config"
	"github.com/deviverr/penplotter/endstop"
	"github.com/deviverr/penplotter/kinematics"
	"github.com/deviverr/penplotter/motion"
	"github.com/deviverr/penplotter/point3d"
	"github.com/deviverr/penplotter/stepper"
)

type fakePin struct{}

func (fakePin) High() {}
func (fakePin) Low()  {}

type fakeClock struct{ t time.Duration }

func (c *fakeClock) Now() time.Duration {
	c.t += 100 * time.Microsecond
	return c.t
}

type fakeWatchdog struct{}

func (fakeWatchdog) Feed() {}

type msClock struct{}

func (msClock) NowMs() uint32 { return 0 }

// thresholdReader reports triggered once the X channel has traveled past
// a fixed step count, simulating a physical switch at a fixed position.
type thresholdReader struct {
	ch        *stepper.Channel
	threshold int32
}

func (r *thresholdReader) Read() bool {
	return r.ch.CurrentStep() >= r.threshold
}

type neverReader struct{}

func (neverReader) Read() bool { return false }

func testConfig() config.MachineConfig {
	var cfg config.MachineConfig
	cfg.StepsPerMm = [point3d.NumAxes]float32{100, 100, 100}
	cfg.MaxVelocity = [point3d.NumAxes]float32{100, 100, 100}
	cfg.MaxAccel = [point3d.NumAxes]float32{1000, 1000, 1000}
	cfg.SoftLimitMax = [point3d.NumAxes]float32{10, 10, 10}
	cfg.HomeDir = [point3d.NumAxes]int8{1, 1, -1}
	cfg.HomingFastSpeed = [point3d.NumAxes]float32{50, 50, 50}
	cfg.HomingSlowSpeed = [point3d.NumAxes]float32{10, 10, 10}
	cfg.HomingBackoffMm = 0.5
	cfg.HomingAccelFctr = 0.5
	cfg.HomingTimeoutSec = 60
	cfg.EndstopDebounceMs = 0
	return cfg
}

func Test_homeAxisSucceeds(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	clock := &fakeClock{}

	var channels [point3d.NumAxes]*stepper.Channel
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		channels[axis] = stepper.NewChannel(fakePin{}, fakePin{}, fakePin{}, false, false, clock)
	}

	xReader := &thresholdReader{ch: channels[point3d.X], threshold: 500}
	readers := [point3d.NumAxes]endstop.Reader{xReader, neverReader{}, neverReader{}}
	mon := endstop.NewMonitor(cfg, msClock{}, readers)

	exec := &motion.Executor{Watchdog: fakeWatchdog{}, Clock: clock}
	conv := kinematics.New(cfg)

	coord := New(cfg, conv, channels, mon, exec, clock, fakeWatchdog{})

	err := coord.Home(point3d.X)
	c.Assert(err, qt.IsNil)

	// X homes toward its max endstop (HomeDir=+1), so logical zero is
	// seated at the axis maximum.
	c.Assert(channels[point3d.X].CurrentStep(), qt.Equals, conv.MmToSteps(point3d.X, cfg.SoftLimitMax[point3d.X]))
}

func Test_homeAllAttemptsEveryAxis(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	clock := &fakeClock{}

	var channels [point3d.NumAxes]*stepper.Channel
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		channels[axis] = stepper.NewChannel(fakePin{}, fakePin{}, fakePin{}, false, false, clock)
	}

	// No axis endstop ever trips: every phase stalls.
	readers := [point3d.NumAxes]endstop.Reader{neverReader{}, neverReader{}, neverReader{}}
	mon := endstop.NewMonitor(cfg, msClock{}, readers)
	exec := &motion.Executor{Watchdog: fakeWatchdog{}, Clock: clock}
	conv := kinematics.New(cfg)

	coord := New(cfg, conv, channels, mon, exec, clock, fakeWatchdog{})

	results := coord.HomeAll()
	c.Assert(results, qt.HasLen, 3)
	for _, r := range results {
		c.Assert(r.Err, qt.Equals, ErrStall)
	}
	// Order is Z, X, Y per spec §4.5.
	c.Assert(results[0].Axis, qt.Equals, point3d.Z)
	c.Assert(results[1].Axis, qt.Equals, point3d.X)
	c.Assert(results[2].Axis, qt.Equals, point3d.Y)
}
