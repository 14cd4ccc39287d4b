// Package kinematics converts between millimeters and stepper step counts
// and validates positions against the configured soft limits.
package kinematics

import (
	"github.com/deviverr/penplotter/config"
	"github.com/deviverr/penplotter/point3d"
)

// Converter performs mm<->step conversions for a fixed MachineConfig.
type Converter struct {
	cfg config.MachineConfig
}

// New returns a Converter bound to cfg.
func New(cfg config.MachineConfig) Converter {
	return Converter{cfg: cfg}
}

// MmToSteps converts a millimeter value on the named axis to a rounded
// step count.
func (c Converter) MmToSteps(axis point3d.Axis, mm float32) int32 {
	return round(mm * c.cfg.StepsPerMm[axis])
}

// StepsToMm converts a step count on the named axis back to millimeters.
func (c Converter) StepsToMm(axis point3d.Axis, steps int32) float32 {
	return float32(steps) / c.cfg.StepsPerMm[axis]
}

// PointToSteps converts every axis of p in one call.
func (c Converter) PointToSteps(p point3d.Point3D) [point3d.NumAxes]int32 {
	return [point3d.NumAxes]int32{
		c.MmToSteps(point3d.X, p.X),
		c.MmToSteps(point3d.Y, p.Y),
		c.MmToSteps(point3d.Z, p.Z),
	}
}

// IsValidPosition reports whether p lies within [0, axisMax] on every
// axis, per the configured soft limits.
func (c Converter) IsValidPosition(p point3d.Point3D) bool {
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		v := p.Get(axis)
		if v < 0 || v > c.cfg.SoftLimitMax[axis] {
			return false
		}
	}
	return true
}

func round(v float32) int32 {
	if v >= 0 {
		return int32(v + 0.5)
	}
	return int32(v - 0.5)
}
