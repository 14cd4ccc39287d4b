//go:build mega2560

package config

import "github.com/deviverr/penplotter/point3d"

// Default kinematics for an Arduino Mega2560-class board
// (16MHz AVR, 8KB SRAM, 256KB flash) wired as a RAMPS-style pen plotter:
// X/Y leadscrew-or-belt axes plus a Z pen-lift servo-geared leadscrew.
//
// The Z axis steps-per-mm figure is the §9 open question: depending on
// whether the pen-lift leadscrew microstepping jumpers are set for 1/8 or
// 1/16, Z is either 400 or 800 steps/mm on the hardware this firmware was
// written against. We pin it to 800 (1/16 microstepping, the jumper
// position documented on the physical board this config targets) rather
// than silently guessing; a board wired for 1/8 must override this
// constant in its own build-tagged config file.
const zStepsPerMm = 800

// Default builds this board's MachineConfig.
func Default() MachineConfig {
	return MachineConfig{
		BoardType: "mega2560",

		StepsPerMm:  [point3d.NumAxes]float32{80, 80, zStepsPerMm},
		MaxVelocity: [point3d.NumAxes]float32{150, 150, 25},
		MaxAccel:    [point3d.NumAxes]float32{1500, 1500, 200},

		SoftLimitMax: [point3d.NumAxes]float32{234, 191, 2},

		HomeDir:       [point3d.NumAxes]int8{1, 1, -1},
		InvertDir:     [point3d.NumAxes]bool{false, true, false},
		InvertEndstop: [point3d.NumAxes]bool{false, false, false},
		EndstopPullup: [point3d.NumAxes]bool{true, true, true},

		PenUpZ:    2,
		PostHomeZ: 2,

		HomingFastSpeed: [point3d.NumAxes]float32{40, 40, 8},
		HomingSlowSpeed: [point3d.NumAxes]float32{8, 8, 2},
		HomingBackoffMm: 5,
		HomingAccelFctr: 0.5,
		HomingTimeoutSec: 60,

		MaxJumpMm: 1000,

		EndstopDebounceMs: 10,

		DefaultIdleTimeoutMs: 0,
	}
}
