package serial

import (
	"github.com/deviverr/penplotter/command"
	"github.com/deviverr/penplotter/parser"
)

// MaxLineLength bounds a single physical line, matching parser.MaxLineLength
// (spec §4.8's "longer than N bytes" buffer-overflow trigger).
const MaxLineLength = parser.MaxLineLength

// Reader is the byte-at-a-time UART read surface the assembler pulls
// from. machine.UART satisfies it directly; comboat.go drives its own
// byte accumulation against the same kind of interface.
type Reader interface {
	Buffered() int
	ReadByte() (byte, error)
}

// Assembler accumulates bytes from a Reader into physical lines, parses
// each complete line, and returns the outcome as Results from Feed. It
// owns no queue or responder directly; the dispatcher pushes parsed
// commands and handles overflow/queue-full itself (spec §4.8).
type Assembler struct {
	buf [MaxLineLength]byte
	pos int

	// discarding tracks the gap between an overflow error already having
	// been sent, and the terminator byte that eventually closes the
	// overflowed physical line. Spec §4.8 guarantees every accepted
	// non-empty line, and every rejected-for-overflow line, eventually
	// produces exactly one terminator; without this flag the overflowed
	// line's CR/LF would land on an already-reset, empty buffer and be
	// silently swallowed by the empty-line rule, leaving the overflow
	// error with no terminator at all.
	discarding bool
}

// NewAssembler returns an empty Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Result is one decision the caller must act on after a Feed call.
type Result struct {
	// HaveCommand is set when a complete, non-empty line parsed.
	HaveCommand bool
	Command     command.ParsedCommand

	// Overflow is set when a byte arrived with the buffer already full;
	// the rest of that physical line is discarded. The caller should
	// emit error code 7 with no terminator at this point: a separate
	// Terminator-only Result follows once the line's CR/LF arrives.
	Overflow bool

	// Terminator is set when a non-empty physical line closed (an
	// overflowed line or a parsed line); the caller emits at most one
	// "ok" or completion terminator for it. Empty lines produce no
	// Result at all. An Overflow result never has Terminator set.
	Terminator bool
}

// Feed drains every byte currently buffered in r and returns the
// accumulated Results, in order, for any physical lines that completed.
func (a *Assembler) Feed(r Reader) []Result {
	var out []Result
	for r.Buffered() > 0 {
		b, err := r.ReadByte()
		if err != nil {
			break
		}
		if res, ok := a.feedByte(b); ok {
			out = append(out, res)
		}
	}
	return out
}

func (a *Assembler) feedByte(b byte) (Result, bool) {
	if b != '\n' && b != '\r' {
		if a.discarding {
			return Result{}, false
		}
		if a.pos == len(a.buf) {
			// Overflow: report immediately, then discard the remainder of
			// the physical line up to its terminator.
			a.pos = 0
			a.discarding = true
			return Result{Overflow: true}, true
		}
		a.buf[a.pos] = b
		a.pos++
		return Result{}, false
	}

	// b is a line terminator byte.
	if a.discarding {
		a.discarding = false
		return Result{Terminator: true}, true
	}
	if a.pos == 0 {
		// Empty line: silently ignored, no terminator emitted (spec §4.8).
		return Result{}, false
	}

	line := string(a.buf[:a.pos])
	a.pos = 0
	return Result{HaveCommand: true, Command: parser.Parse(line), Terminator: true}, true
}
