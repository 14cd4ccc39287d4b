// Package command defines ParsedCommand, the parser's tagged-union
// output type (spec §3 "ParsedCommand"). Each Kind has a matching,
// disjoint payload; accessors below panic if asked to read a payload
// that doesn't match the command's Kind, per spec §9's "reject any
// handler that reads a payload that doesn't match the tag."
package command

// Kind tags which variant a ParsedCommand holds.
type Kind uint8

const (
	Unknown Kind = iota
	Move
	Home
	SetPosition
	ModeAbsolute
	ModeRelative
	DisableSteppers
	SetSpeedFactor
	QueryPosition
	QueryFirmware
	QueryEndstops
	ReportSettings
	Pause
	Resume
	Stop
	QuickStop
	DiagnosticMotor
)

// Optional is a present/value pair for an optionally-supplied numeric
// argument (X/Y/Z/F/S letters in the wire protocol).
type Optional struct {
	Present bool
	Value   float32
}

// Some returns a present Optional holding v.
func Some(v float32) Optional { return Optional{Present: true, Value: v} }

// MoveArgs holds G0/G1 parameters.
type MoveArgs struct {
	X, Y, Z, F Optional
}

// HomeArgs holds G28 parameters.
type HomeArgs struct {
	X, Y, Z, All bool
}

// SetPositionArgs holds G92 parameters.
type SetPositionArgs struct {
	X, Y, Z Optional
}

// DisableSteppersArgs holds M84 parameters.
type DisableSteppersArgs struct {
	S Optional // seconds; 0 = never timeout
}

// SetSpeedFactorArgs holds M220 parameters.
type SetSpeedFactorArgs struct {
	S Optional // percent
}

// DiagnosticMotorArgs holds M999 parameters.
type DiagnosticMotorArgs struct {
	Axis byte // 'X', 'Y', or 'Z'
}

// ParsedCommand is a sum type: exactly one of the typed payload fields
// below is meaningful, selected by Kind.
type ParsedCommand struct {
	Kind Kind

	Move            MoveArgs
	Home            HomeArgs
	SetPosition     SetPositionArgs
	DisableSteppers DisableSteppersArgs
	SetSpeedFactor  SetSpeedFactorArgs
	DiagnosticMotor DiagnosticMotorArgs
}

// wrongKind panics with a message naming the mismatch; called only from
// accessors below, never from the parser (which only ever sets fields
// matching the Kind it assigns).
func wrongKind(want Kind, got Kind) {
	panic("command: payload accessed for kind " + kindName(want) + " but ParsedCommand.Kind is " + kindName(got))
}

func kindName(k Kind) string {
	names := [...]string{
		"Unknown", "Move", "Home", "SetPosition", "ModeAbsolute", "ModeRelative",
		"DisableSteppers", "SetSpeedFactor", "QueryPosition", "QueryFirmware",
		"QueryEndstops", "ReportSettings", "Pause", "Resume", "Stop", "QuickStop",
		"DiagnosticMotor",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "?"
}

// AsMove returns the Move payload, panicking if Kind != Move.
func (c ParsedCommand) AsMove() MoveArgs {
	if c.Kind != Move {
		wrongKind(Move, c.Kind)
	}
	return c.Move
}

// AsHome returns the Home payload, panicking if Kind != Home.
func (c ParsedCommand) AsHome() HomeArgs {
	if c.Kind != Home {
		wrongKind(Home, c.Kind)
	}
	return c.Home
}

// AsSetPosition returns the SetPosition payload, panicking if Kind != SetPosition.
func (c ParsedCommand) AsSetPosition() SetPositionArgs {
	if c.Kind != SetPosition {
		wrongKind(SetPosition, c.Kind)
	}
	return c.SetPosition
}

// AsDisableSteppers returns the DisableSteppers payload, panicking if Kind != DisableSteppers.
func (c ParsedCommand) AsDisableSteppers() DisableSteppersArgs {
	if c.Kind != DisableSteppers {
		wrongKind(DisableSteppers, c.Kind)
	}
	return c.DisableSteppers
}

// AsSetSpeedFactor returns the SetSpeedFactor payload, panicking if Kind != SetSpeedFactor.
func (c ParsedCommand) AsSetSpeedFactor() SetSpeedFactorArgs {
	if c.Kind != SetSpeedFactor {
		wrongKind(SetSpeedFactor, c.Kind)
	}
	return c.SetSpeedFactor
}

// AsDiagnosticMotor returns the DiagnosticMotor payload, panicking if Kind != DiagnosticMotor.
func (c ParsedCommand) AsDiagnosticMotor() DiagnosticMotorArgs {
	if c.Kind != DiagnosticMotor {
		wrongKind(DiagnosticMotor, c.Kind)
	}
	return c.DiagnosticMotor
}
