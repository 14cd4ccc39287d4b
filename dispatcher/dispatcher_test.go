package dispatcher

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/deviverr/penplotter/command"
	"github.com/deviverr/penplotter/config"
	"github.com/deviverr/penplotter/endstop"
	"github.com/deviverr/penplotter/homing"
	"github.com/deviverr/penplotter/kinematics"
	"github.com/deviverr/penplotter/motion"
	"github.com/deviverr/penplotter/point3d"
	"github.com/deviverr/penplotter/serial"
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

// travelReader simulates a switch at a fixed absolute travel distance
// from a channel's zero position, independent of direction sign.
type travelReader struct {
	ch    *stepper.Channel
	steps int32
}

func (r *travelReader) Read() bool {
	v := r.ch.CurrentStep()
	if v < 0 {
		v = -v
	}
	return v >= r.steps
}

func testConfig() config.MachineConfig {
	var cfg config.MachineConfig
	cfg.StepsPerMm = [point3d.NumAxes]float32{100, 100, 100}
	cfg.MaxVelocity = [point3d.NumAxes]float32{100, 100, 100}
	cfg.MaxAccel = [point3d.NumAxes]float32{1000, 1000, 1000}
	cfg.SoftLimitMax = [point3d.NumAxes]float32{20, 20, 10}
	cfg.HomeDir = [point3d.NumAxes]int8{1, 1, -1}
	cfg.HomingFastSpeed = [point3d.NumAxes]float32{50, 50, 50}
	cfg.HomingSlowSpeed = [point3d.NumAxes]float32{10, 10, 10}
	cfg.HomingBackoffMm = 0.5
	cfg.HomingAccelFctr = 0.5
	cfg.HomingTimeoutSec = 60
	cfg.EndstopDebounceMs = 0
	cfg.MaxJumpMm = 1000
	cfg.PostHomeZ = 2
	return cfg
}

// rig bundles a Dispatcher with the fakes backing it, for direct access
// to its unexported fields and dispatch() from within the package.
type rig struct {
	d        *Dispatcher
	channels [point3d.NumAxes]*stepper.Channel
	clock    *fakeClock
}

// newRig builds a Dispatcher wired to fakes. readerFactory receives the
// rig's own stepper channels so travel-based endstop fakes can track
// the channels they will actually see move.
func newRig(cfg config.MachineConfig, readerFactory func([point3d.NumAxes]*stepper.Channel) [point3d.NumAxes]endstop.Reader) *rig {
	clock := &fakeClock{}
	var channels [point3d.NumAxes]*stepper.Channel
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		channels[axis] = stepper.NewChannel(fakePin{}, fakePin{}, fakePin{}, false, false, clock)
	}
	readers := readerFactory(channels)
	mon := endstop.NewMonitor(cfg, msClock{}, readers)
	exec := &motion.Executor{Watchdog: fakeWatchdog{}, Clock: clock}
	conv := kinematics.New(cfg)
	homer := homing.New(cfg, conv, channels, mon, exec, clock, fakeWatchdog{})

	d := New(cfg, conv, channels, mon, exec, homer, serial.NewResponder(&discardWriter{}), fakeWatchdog{}, clock, nil, nil, &discardReader{})
	return &rig{d: d, channels: channels, clock: clock}
}

type discardWriter struct{}

func (*discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type discardReader struct{}

func (*discardReader) Buffered() int              { return 0 }
func (*discardReader) ReadByte() (byte, error)     { return 0, nil }

func neverReaders([point3d.NumAxes]*stepper.Channel) [point3d.NumAxes]endstop.Reader {
	return [point3d.NumAxes]endstop.Reader{neverR{}, neverR{}, neverR{}}
}

func travelReaders(steps int32) func([point3d.NumAxes]*stepper.Channel) [point3d.NumAxes]endstop.Reader {
	return func(channels [point3d.NumAxes]*stepper.Channel) [point3d.NumAxes]endstop.Reader {
		var readers [point3d.NumAxes]endstop.Reader
		for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
			readers[axis] = &travelReader{ch: channels[axis], steps: steps}
		}
		return readers
	}
}

type neverR struct{}

func (neverR) Read() bool { return false }

func Test_absoluteMoveBeforeHomingRejected(t *testing.T) {
	c := qt.New(t)
	r := newRig(testConfig(), neverReaders)

	code, _ := r.d.dispatch(command.ParsedCommand{
		Kind: command.Move,
		Move: command.MoveArgs{X: command.Some(10), Y: command.Some(10), F: command.Some(3000)},
	})
	c.Assert(code, qt.Equals, serial.ErrNotHomed)
	c.Assert(r.d.state.Position, qt.Equals, point3d.Point3D{})
}

func Test_relativeJogWorksWithoutHoming(t *testing.T) {
	c := qt.New(t)
	r := newRig(testConfig(), neverReaders)

	_, _ = r.d.dispatch(command.ParsedCommand{Kind: command.ModeRelative})
	c.Assert(r.d.state.RelativeMode, qt.IsTrue)

	code, _ := r.d.dispatch(command.ParsedCommand{
		Kind: command.Move,
		Move: command.MoveArgs{X: command.Some(5), F: command.Some(5000)},
	})
	c.Assert(code, qt.Equals, 0)
	c.Assert(r.d.state.Position.X, qt.Equals, float32(5))
}

func Test_softLimitRejectionAfterHoming(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	r := newRig(cfg, travelReaders(500))

	code, _ := r.d.dispatch(command.ParsedCommand{Kind: command.Home, Home: command.HomeArgs{All: true}})
	c.Assert(code, qt.Equals, 0)
	c.Assert(r.d.state.Homed[point3d.X], qt.IsTrue)
	c.Assert(r.d.state.Homed[point3d.Y], qt.IsTrue)
	c.Assert(r.d.state.Homed[point3d.Z], qt.IsTrue)

	code, errText := r.d.dispatch(command.ParsedCommand{
		Kind: command.Move,
		Move: command.MoveArgs{X: command.Some(300), F: command.Some(5000)},
	})
	c.Assert(code, qt.Equals, serial.ErrOutOfRange)
	c.Assert(errText, qt.Equals, "Target position out of bounds")
}

func Test_jumpRejection(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig()
	r := newRig(cfg, travelReaders(500))

	r.d.dispatch(command.ParsedCommand{Kind: command.Home, Home: command.HomeArgs{All: true}})

	code, errText := r.d.dispatch(command.ParsedCommand{
		Kind: command.Move,
		Move: command.MoveArgs{X: command.Some(2000), F: command.Some(5000)},
	})
	c.Assert(code, qt.Equals, serial.ErrOutOfRange)
	c.Assert(errText, qt.Equals, "Impossible position jump detected")
}

func Test_disableSteppersS0KeepsNeverTimeoutDistinctFromDisabledNow(t *testing.T) {
	c := qt.New(t)
	r := newRig(testConfig(), neverReaders)
	r.d.state.StepsEnabled = true

	code, _ := r.d.dispatch(command.ParsedCommand{
		Kind:            command.DisableSteppers,
		DisableSteppers: command.DisableSteppersArgs{S: command.Some(0)},
	})
	c.Assert(code, qt.Equals, 0)
	c.Assert(r.d.state.StepsEnabled, qt.IsFalse)
	c.Assert(r.d.state.IdleTimeoutMs, qt.Equals, uint32(0))
}

func Test_setSpeedFactorClampedToPercentRange(t *testing.T) {
	c := qt.New(t)
	r := newRig(testConfig(), neverReaders)

	r.d.dispatch(command.ParsedCommand{
		Kind:           command.SetSpeedFactor,
		SetSpeedFactor: command.SetSpeedFactorArgs{S: command.Some(5000)},
	})
	c.Assert(r.d.state.SpeedFactor, qt.Equals, float32(999))
}

func Test_stopDrainsQueueAndDisablesSteppers(t *testing.T) {
	c := qt.New(t)
	r := newRig(testConfig(), neverReaders)
	r.d.state.StepsEnabled = true
	r.d.q.Push(command.ParsedCommand{Kind: command.QueryPosition})
	r.d.q.Push(command.ParsedCommand{Kind: command.QueryPosition})

	code, _ := r.d.dispatch(command.ParsedCommand{Kind: command.Stop})
	c.Assert(code, qt.Equals, 0)
	c.Assert(r.d.q.IsEmpty(), qt.IsTrue)
	c.Assert(r.d.state.StepsEnabled, qt.IsFalse)
	c.Assert(r.d.state.Paused, qt.IsTrue)
}

func Test_setPositionResyncsStepCounters(t *testing.T) {
	c := qt.New(t)
	r := newRig(testConfig(), neverReaders)

	code, _ := r.d.dispatch(command.ParsedCommand{
		Kind:        command.SetPosition,
		SetPosition: command.SetPositionArgs{X: command.Some(7)},
	})
	c.Assert(code, qt.Equals, 0)
	c.Assert(r.d.state.Position.X, qt.Equals, float32(7))
	c.Assert(r.channels[point3d.X].CurrentStep(), qt.Equals, int32(700))
}
