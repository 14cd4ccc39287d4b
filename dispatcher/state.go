// Package dispatcher implements the single cooperative main loop of spec
// §4.9/§5: it owns the one MachineState, drains the serial assembler and
// command queue, and dispatches each command to the handlers in
// handlers.go.
package dispatcher

import "github.com/deviverr/penplotter/point3d"

// MachineState is the one mutable record of where the machine logically
// is and how it currently interprets incoming moves. Spec §3/§9 give the
// dispatcher exclusive ownership of this struct; no other package holds
// or mutates it; handlers.go only ever reads and writes it through the
// Dispatcher that embeds it.
type MachineState struct {
	// Position is the logical tool position in millimeters, updated by
	// the Move, Home, SetPosition and DiagnosticMotor handlers; a
	// rejected Move leaves it unchanged.
	Position point3d.Point3D

	// RelativeMode selects how Move's X/Y/Z arguments are interpreted:
	// false (default, G90) is absolute, true (G91) is relative.
	RelativeMode bool

	// Homed tracks which axes have completed a successful Home since
	// boot. An absolute-mode Move that names an un-homed axis is
	// rejected with ErrNotHomed (spec §7); relative-mode moves are not
	// checked.
	Homed [point3d.NumAxes]bool

	// FeedRate is the last commanded feed rate in mm/min, carried across
	// moves that omit F (spec §3 "initial = max XY velocity x 60").
	FeedRate float32

	// SpeedFactor is the override percentage applied on top of every
	// move's feed rate; 100 means unscaled. Clamped to [1, 999] when set
	// by M220, to [10, 200] when overwritten by the analog override
	// input (spec §3).
	SpeedFactor float32

	// StepsEnabled tracks whether the stepper drivers are currently
	// energized. Set false by M84, M0, M410 and by idle-timeout; set
	// true by the next Move, Home or M999.
	StepsEnabled bool

	// IdleTimeoutMs is the configured auto-disable timeout; 0 means
	// never auto-disable (M84 S0, spec §9's distinct "disabled now" vs.
	// "never timeout" semantics).
	IdleTimeoutMs uint32

	// lastActivityMs is the clock reading as of the last completed Move,
	// Home or M999; idle-disable compares against it.
	lastActivityMs uint32

	// Paused suspends file-reader line intake (spec §4.9 M25); it does
	// not affect serial command intake, which is always live.
	Paused bool
}

// newMachineState returns the boot-time MachineState: relative mode off,
// nothing homed, full speed, steppers enabled (spec §9 default
// "steppers energize at boot, not only after first move").
func newMachineState(idleTimeoutMs uint32, defaultFeedRate float32) MachineState {
	return MachineState{
		FeedRate:      defaultFeedRate,
		SpeedFactor:   100,
		StepsEnabled:  true,
		IdleTimeoutMs: idleTimeoutMs,
	}
}
