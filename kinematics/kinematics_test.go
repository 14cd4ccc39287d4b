package kinematics

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/deviverr/penplotter/config"
	"github.com/deviverr/penplotter/point3d"
)

func testConfig() config.MachineConfig {
	var cfg config.MachineConfig
	cfg.StepsPerMm = [point3d.NumAxes]float32{80, 80, 800}
	cfg.SoftLimitMax = [point3d.NumAxes]float32{234, 191, 2}
	return cfg
}

func Test_roundTrip(t *testing.T) {
	c := qt.New(t)
	conv := New(testConfig())

	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		for _, mm := range []float32{0, 1, 12.345, 233.999} {
			steps := conv.MmToSteps(axis, mm)
			back := conv.StepsToMm(axis, steps)
			tolerance := 1 / testConfig().StepsPerMm[axis]
			diff := back - mm
			if diff < 0 {
				diff = -diff
			}
			c.Assert(diff <= tolerance+1e-4, qt.IsTrue, qt.Commentf("axis=%v mm=%v back=%v tol=%v", axis, mm, back, tolerance))
		}
	}
}

func Test_isValidPosition(t *testing.T) {
	c := qt.New(t)
	conv := New(testConfig())

	c.Assert(conv.IsValidPosition(point3d.Point3D{X: 0, Y: 0, Z: 0}), qt.IsTrue)
	c.Assert(conv.IsValidPosition(point3d.Point3D{X: 234, Y: 191, Z: 2}), qt.IsTrue)
	c.Assert(conv.IsValidPosition(point3d.Point3D{X: 235, Y: 0, Z: 0}), qt.IsFalse)
	c.Assert(conv.IsValidPosition(point3d.Point3D{X: -1, Y: 0, Z: 0}), qt.IsFalse)
}
