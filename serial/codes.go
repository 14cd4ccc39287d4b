// Package serial implements the wire protocol: the line assembler that
// turns a byte stream into parsed, queued commands (spec §4.8) and the
// responder that formats ok/error/info/data lines (spec §4.9, §6, §7).
package serial

// Error codes, spec §7.
const (
	ErrUnknownCommand = 1
	ErrInvalidSyntax  = 2
	ErrOutOfRange     = 3
	ErrEndstopHit     = 4
	ErrHomingFailed   = 5
	ErrNotHomed       = 6
	ErrBufferOverflow = 7
	ErrTimeout        = 8
	ErrEmptyCommand   = 9
)

var errorText = map[int]string{
	ErrUnknownCommand: "Unknown command",
	ErrInvalidSyntax:  "Invalid syntax",
	ErrOutOfRange:     "Target position out of bounds",
	ErrEndstopHit:     "Endstop triggered unexpectedly",
	ErrHomingFailed:   "Homing failed",
	ErrNotHomed:       "Required axis not homed",
	ErrBufferOverflow: "Buffer overflow",
	ErrTimeout:        "Operation timed out",
	ErrEmptyCommand:   "Empty command",
}
