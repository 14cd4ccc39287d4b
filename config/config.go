// Package config holds the compile-time machine configuration for the
// plotter firmware. There is no persisted/runtime configuration format —
// flash has no filesystem — so a MachineConfig is always a Go struct
// literal built at boot, the same way the teacher driver packages
// (tmc5160.PowerStageParameters, tmc5160.MotorParameters) are configured
// by struct literals passed into NewDriver/Begin rather than loaded from
// a file.
package config

import "github.com/deviverr/penplotter/point3d"

// Firmware identity, reported by the M115 query and the unprompted boot
// banner.
const (
	FirmwareName    = "PenPlotterFW"
	FirmwareVersion = "1.0.0"
	ProtocolVersion = "1.0"
	MachineType     = "PenPlotter"
)

// MachineConfig gathers every compile-time constant the motion pipeline
// needs. One instance is built by this package's board-specific Default()
// and threaded through the whole process; nothing here changes at runtime.
type MachineConfig struct {
	BoardType string

	// Per-axis kinematics.
	StepsPerMm    [point3d.NumAxes]float32
	MaxVelocity   [point3d.NumAxes]float32 // mm/s
	MaxAccel      [point3d.NumAxes]float32 // mm/s^2
	SoftLimitMax  [point3d.NumAxes]float32 // mm
	HomeDir       [point3d.NumAxes]int8    // -1 or +1
	InvertDir     [point3d.NumAxes]bool
	InvertEndstop [point3d.NumAxes]bool
	EndstopPullup [point3d.NumAxes]bool

	// Pen / park positions.
	PenUpZ       float32
	PostHomeZ    float32

	// Homing.
	HomingFastSpeed  [point3d.NumAxes]float32 // mm/s, capped by MaxVelocity
	HomingSlowSpeed  [point3d.NumAxes]float32 // mm/s, capped by MaxVelocity
	HomingBackoffMm  float32
	HomingAccelFctr  float32 // < 1
	HomingTimeoutSec float32

	// Motion guards.
	MaxJumpMm float32

	// Endstop debounce.
	EndstopDebounceMs uint32

	// Idle-disable.
	DefaultIdleTimeoutMs uint32
}

// DominantAxis returns the axis with the largest absolute step delta among
// the three deltas; ties go to the earlier axis. The motion executor picks
// its driving axis with its own equivalent loop and does not call this.
func DominantAxis(deltaSteps [point3d.NumAxes]int32) point3d.Axis {
	dominant := point3d.X
	best := abs32(deltaSteps[point3d.X])
	for _, axis := range [...]point3d.Axis{point3d.Y, point3d.Z} {
		if v := abs32(deltaSteps[axis]); v > best {
			best = v
			dominant = axis
		}
	}
	return dominant
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
