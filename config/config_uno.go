//go:build uno

package config

import "github.com/deviverr/penplotter/point3d"

// Default kinematics for an Arduino Uno-class board wired to
// drive the same three axes through a smaller shield with 1/8
// microstepping on all three channels.
const zStepsPerMm = 400

func Default() MachineConfig {
	return MachineConfig{
		BoardType: "uno",

		StepsPerMm:  [point3d.NumAxes]float32{40, 40, zStepsPerMm},
		MaxVelocity: [point3d.NumAxes]float32{120, 120, 20},
		MaxAccel:    [point3d.NumAxes]float32{1000, 1000, 150},

		SoftLimitMax: [point3d.NumAxes]float32{234, 191, 2},

		HomeDir:       [point3d.NumAxes]int8{1, 1, -1},
		InvertDir:     [point3d.NumAxes]bool{false, true, false},
		InvertEndstop: [point3d.NumAxes]bool{false, false, false},
		EndstopPullup: [point3d.NumAxes]bool{true, true, true},

		PenUpZ:    2,
		PostHomeZ: 2,

		HomingFastSpeed:  [point3d.NumAxes]float32{30, 30, 6},
		HomingSlowSpeed:  [point3d.NumAxes]float32{6, 6, 2},
		HomingBackoffMm:  5,
		HomingAccelFctr:  0.5,
		HomingTimeoutSec: 60,

		MaxJumpMm: 1000,

		EndstopDebounceMs: 10,

		DefaultIdleTimeoutMs: 0,
	}
}
