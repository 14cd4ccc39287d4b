// Package parser implements the line parser of spec §4.6: strip
// comments, uppercase, tokenize, and classify one input line into a
// command.ParsedCommand.
package parser

import (
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/deviverr/penplotter/command"
)

// MaxLineLength is the longest line the serial assembler will ever hand
// to Parse (spec §4.6 "≤ 64 chars"); enforced by the assembler, not here.
const MaxLineLength = 64

// Parse classifies one already-assembled input line (without its
// terminating CR/LF) into a ParsedCommand.
func Parse(line string) command.ParsedCommand {
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	line = strings.ToUpper(line)

	if line == "" {
		return command.ParsedCommand{Kind: command.Unknown}
	}

	tokens, err := shlex.Split(line)
	if err != nil || len(tokens) == 0 {
		return command.ParsedCommand{Kind: command.Unknown}
	}

	switch tokens[0] {
	case "G0", "G1":
		return parseMove(tokens[1:])
	case "G28":
		return parseHome(tokens[1:])
	case "G90":
		return command.ParsedCommand{Kind: command.ModeAbsolute}
	case "G91":
		return command.ParsedCommand{Kind: command.ModeRelative}
	case "G92":
		return parseSetPosition(tokens[1:])
	case "M0":
		return command.ParsedCommand{Kind: command.Stop}
	case "M24":
		return command.ParsedCommand{Kind: command.Resume}
	case "M25":
		return command.ParsedCommand{Kind: command.Pause}
	case "M84":
		return parseDisableSteppers(tokens[1:])
	case "M114":
		return command.ParsedCommand{Kind: command.QueryPosition}
	case "M115":
		return command.ParsedCommand{Kind: command.QueryFirmware}
	case "M119":
		return command.ParsedCommand{Kind: command.QueryEndstops}
	case "M220":
		return parseSetSpeedFactor(tokens[1:])
	case "M410":
		return command.ParsedCommand{Kind: command.QuickStop}
	case "M503":
		return command.ParsedCommand{Kind: command.ReportSettings}
	case "M999":
		return parseDiagnosticMotor(tokens[1:])
	default:
		return command.ParsedCommand{Kind: command.Unknown}
	}
}

// parseToken splits a single Letter[=]value argument token. A bare
// letter with no trailing digits (used by G28/M999 to name an axis) is
// reported as present with a zero value. A leading '=' between the
// letter and the digits is tolerated, per spec §4.6.
func parseToken(tok string) (letter byte, value float32, hasValue bool, ok bool) {
	if len(tok) == 0 {
		return 0, 0, false, false
	}
	letter = tok[0]
	if letter < 'A' || letter > 'Z' {
		return 0, 0, false, false
	}
	rest := tok[1:]
	if len(rest) > 0 && rest[0] == '=' {
		rest = rest[1:]
	}
	if rest == "" {
		return letter, 0, false, true
	}
	v, err := strconv.ParseFloat(rest, 32)
	if err != nil {
		return 0, 0, false, false
	}
	return letter, float32(v), true, true
}

func parseMove(args []string) command.ParsedCommand {
	var m command.MoveArgs
	for _, tok := range args {
		letter, v, _, ok := parseToken(tok)
		if !ok {
			return command.ParsedCommand{Kind: command.Unknown}
		}
		switch letter {
		case 'X':
			m.X = command.Some(v)
		case 'Y':
			m.Y = command.Some(v)
		case 'Z':
			m.Z = command.Some(v)
		case 'F':
			m.F = command.Some(v)
		default:
			return command.ParsedCommand{Kind: command.Unknown}
		}
	}
	return command.ParsedCommand{Kind: command.Move, Move: m}
}

func parseHome(args []string) command.ParsedCommand {
	var h command.HomeArgs
	for _, tok := range args {
		letter, _, _, ok := parseToken(tok)
		if !ok {
			return command.ParsedCommand{Kind: command.Unknown}
		}
		switch letter {
		case 'X':
			h.X = true
		case 'Y':
			h.Y = true
		case 'Z':
			h.Z = true
		default:
			return command.ParsedCommand{Kind: command.Unknown}
		}
	}
	if !h.X && !h.Y && !h.Z {
		h.All = true
	}
	return command.ParsedCommand{Kind: command.Home, Home: h}
}

func parseSetPosition(args []string) command.ParsedCommand {
	var s command.SetPositionArgs
	for _, tok := range args {
		letter, v, _, ok := parseToken(tok)
		if !ok {
			return command.ParsedCommand{Kind: command.Unknown}
		}
		switch letter {
		case 'X':
			s.X = command.Some(v)
		case 'Y':
			s.Y = command.Some(v)
		case 'Z':
			s.Z = command.Some(v)
		default:
			return command.ParsedCommand{Kind: command.Unknown}
		}
	}
	return command.ParsedCommand{Kind: command.SetPosition, SetPosition: s}
}

func parseDisableSteppers(args []string) command.ParsedCommand {
	var d command.DisableSteppersArgs
	for _, tok := range args {
		letter, v, _, ok := parseToken(tok)
		if !ok || letter != 'S' {
			return command.ParsedCommand{Kind: command.Unknown}
		}
		d.S = command.Some(v)
	}
	return command.ParsedCommand{Kind: command.DisableSteppers, DisableSteppers: d}
}

func parseSetSpeedFactor(args []string) command.ParsedCommand {
	var s command.SetSpeedFactorArgs
	for _, tok := range args {
		letter, v, _, ok := parseToken(tok)
		if !ok || letter != 'S' {
			return command.ParsedCommand{Kind: command.Unknown}
		}
		s.S = command.Some(v)
	}
	return command.ParsedCommand{Kind: command.SetSpeedFactor, SetSpeedFactor: s}
}

func parseDiagnosticMotor(args []string) command.ParsedCommand {
	axis := byte('Z')
	for _, tok := range args {
		letter, _, _, ok := parseToken(tok)
		if !ok {
			return command.ParsedCommand{Kind: command.Unknown}
		}
		switch letter {
		case 'X', 'Y', 'Z':
			axis = letter
		default:
			return command.ParsedCommand{Kind: command.Unknown}
		}
	}
	return command.ParsedCommand{Kind: command.DiagnosticMotor, DiagnosticMotor: command.DiagnosticMotorArgs{Axis: axis}}
}
