package motion

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/deviverr/penplotter/point3d"
	"github.com/deviverr/penplotter/stepper"
)

type fakePin struct{}

func (fakePin) High() {}
func (fakePin) Low()  {}

// fakeClock is a virtual clock satisfying both stepper.Clock and
// motion.Clock by structural typing. Every query advances time by a
// fixed tick so a tight busy-loop (as the cooperative dispatcher runs)
// still makes simulated progress without a real sleep.
type fakeClock struct{ t time.Duration }

func (c *fakeClock) Now() time.Duration {
	c.t += 100 * time.Microsecond
	return c.t
}

type fakeWatchdog struct{ fed int }

func (w *fakeWatchdog) Feed() { w.fed++ }

func newTestAxes(clock *fakeClock, target [point3d.NumAxes]int32, maxSpeed, accel float32) [point3d.NumAxes]AxisParams {
	var axes [point3d.NumAxes]AxisParams
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		ch := stepper.NewChannel(fakePin{}, fakePin{}, fakePin{}, false, false, clock)
		ch.SetTarget(target[axis])
		axes[axis] = AxisParams{Channel: ch, MaxSpeed: maxSpeed, Accel: accel}
	}
	return axes
}

func Test_singleAxisMoveReachesTarget(t *testing.T) {
	c := qt.New(t)
	clock := &fakeClock{}
	wd := &fakeWatchdog{}
	exec := &Executor{Watchdog: wd, Clock: clock}

	axes := newTestAxes(clock, [point3d.NumAxes]int32{1000, 0, 0}, 2000, 40000)

	exec.Run(axes)

	c.Assert(axes[point3d.X].Channel.CurrentStep(), qt.Equals, int32(1000))
	c.Assert(axes[point3d.Y].Channel.CurrentStep(), qt.Equals, int32(0))
	c.Assert(wd.fed > 0, qt.IsTrue)
}

func Test_abortStopsInstantly(t *testing.T) {
	c := qt.New(t)
	clock := &fakeClock{}
	exec := &Executor{Watchdog: &fakeWatchdog{}, Clock: clock}

	axes := newTestAxes(clock, [point3d.NumAxes]int32{100000, 0, 0}, 2000, 40000)

	calls := 0
	result := exec.RunAbortable(axes, func() bool {
		calls++
		return calls > 2
	})

	c.Assert(result.Stopped, qt.IsTrue)
	c.Assert(axes[point3d.X].Channel.Remaining(), qt.Equals, int32(0))
}
