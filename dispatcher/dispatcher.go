package dispatcher

import (
	"time"

	"github.com/deviverr/penplotter/command"
	"github.com/deviverr/penplotter/config"
	"github.com/deviverr/penplotter/endstop"
	"github.com/deviverr/penplotter/homing"
	"github.com/deviverr/penplotter/kinematics"
	"github.com/deviverr/penplotter/motion"
	"github.com/deviverr/penplotter/parser"
	"github.com/deviverr/penplotter/point3d"
	"github.com/deviverr/penplotter/queue"
	"github.com/deviverr/penplotter/serial"
	"github.com/deviverr/penplotter/stepper"
)

// Watchdog must be fed every pass of the main loop.
type Watchdog interface {
	Feed()
}

// UI is ticked once per main-loop pass, non-blocking (spec §4.9 step 4).
type UI interface {
	Tick()
}

// SpeedOverride polls the analog speed-override input. Changed reports
// whether the debounced value moved since the last poll; when true,
// Percent carries the new value already clamped to [10, 200] (spec §3).
type SpeedOverride interface {
	Poll() (percent float32, changed bool)
}

// FileReader is the alternate command producer for SD-card jobs (spec
// §2 "treated as an alternate producer that feeds the same command
// queue"). ReadLine returns ok=false once the file is exhausted.
type FileReader interface {
	ReadLine() (line string, ok bool)
	Close()
}

// Dispatcher is the single cooperative main loop of spec §4.9. It owns
// the one MachineState and every component the command handlers need.
type Dispatcher struct {
	cfg   config.MachineConfig
	conv  kinematics.Converter
	state MachineState

	channels  [point3d.NumAxes]*stepper.Channel
	endstops  *endstop.Monitor
	exec      *motion.Executor
	homer     *homing.Coordinator
	q         *queue.Queue
	assembler *serial.Assembler
	responder *serial.Responder

	watchdog Watchdog
	clock    motion.Clock
	ui       UI
	override SpeedOverride
	uart     serial.Reader
	file     FileReader
}

// New wires a Dispatcher from its components. It starts with no file
// producer; one can be attached later with AttachFile.
func New(
	cfg config.MachineConfig,
	conv kinematics.Converter,
	channels [point3d.NumAxes]*stepper.Channel,
	endstops *endstop.Monitor,
	exec *motion.Executor,
	homer *homing.Coordinator,
	responder *serial.Responder,
	watchdog Watchdog,
	clock motion.Clock,
	ui UI,
	override SpeedOverride,
	uart serial.Reader,
) *Dispatcher {
	defaultFeedRate := cfg.MaxVelocity[point3d.X] * 60
	return &Dispatcher{
		cfg:       cfg,
		conv:      conv,
		state:     newMachineState(cfg.DefaultIdleTimeoutMs, defaultFeedRate),
		channels:  channels,
		endstops:  endstops,
		exec:      exec,
		homer:     homer,
		q:         queue.New(),
		assembler: serial.NewAssembler(),
		responder: responder,
		watchdog:  watchdog,
		clock:     clock,
		ui:        ui,
		override:  override,
		uart:      uart,
	}
}

// AttachFile begins draining f as an alternate command producer.
func (d *Dispatcher) AttachFile(f FileReader) {
	d.file = f
}

func (d *Dispatcher) nowMs() uint32 {
	return uint32(d.clock.Now() / time.Millisecond)
}

// State returns a copy of the current MachineState, for UI screens that
// need to read it (spec §9 "explicit ownership", not ambient access).
func (d *Dispatcher) State() MachineState {
	return d.state
}

// Step runs exactly one pass of the cooperative main loop (spec §4.9).
func (d *Dispatcher) Step() {
	if d.watchdog != nil {
		d.watchdog.Feed()
	}

	d.drainSerial()

	if d.override != nil {
		if pct, changed := d.override.Poll(); changed {
			d.state.SpeedFactor = pct
		}
	}

	if d.ui != nil {
		d.ui.Tick()
	}

	if d.state.IdleTimeoutMs != 0 && d.state.StepsEnabled {
		if elapsedMs(d.nowMs(), d.state.lastActivityMs) >= d.state.IdleTimeoutMs {
			d.disableSteppers()
		}
	}

	d.drainFile()

	var cmd command.ParsedCommand
	if !d.q.Pop(&cmd) {
		return
	}
	d.execute(cmd)
}

// Run steps the loop forever. Callers needing to interleave other work
// (tests, a host simulator) should call Step directly instead.
func (d *Dispatcher) Run() {
	for {
		d.Step()
	}
}

func elapsedMs(now, since uint32) uint32 {
	return now - since
}

// drainSerial feeds every byte currently buffered on the UART through
// the assembler, reporting overflow/unknown/queue-full per line and
// pushing every successfully parsed command (spec §4.8).
func (d *Dispatcher) drainSerial() {
	for _, res := range d.assembler.Feed(d.uart) {
		switch {
		case res.Overflow:
			d.responder.Error(serial.ErrBufferOverflow)
		case res.HaveCommand:
			if res.Command.Kind == command.Unknown {
				d.responder.Error(serial.ErrUnknownCommand)
				d.responder.Ok()
				continue
			}
			if !d.q.Push(res.Command) {
				d.responder.Error(serial.ErrBufferOverflow)
				d.responder.Ok()
				continue
			}
			// Terminator withheld: the consumer emits it after the
			// command executes (spec §4.8's strict flow control).
		case res.Terminator:
			d.responder.Ok()
		}
	}
}

// drainFile pulls at most one line from the active file producer per
// pass, skipping blanks/comments and closing the file on EOF (spec
// §4.9 step 6).
func (d *Dispatcher) drainFile() {
	if d.file == nil || d.state.Paused || d.q.IsFull() {
		return
	}
	line, ok := d.file.ReadLine()
	if !ok {
		d.file.Close()
		d.file = nil
		return
	}
	cmd := parser.Parse(line)
	if cmd.Kind == command.Unknown {
		return
	}
	d.q.Push(cmd)
}

func (d *Dispatcher) disableSteppers() {
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		d.channels[axis].Disable()
	}
	d.state.StepsEnabled = false
}

func (d *Dispatcher) enableSteppers() {
	if d.state.StepsEnabled {
		return
	}
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		d.channels[axis].Enable()
	}
	d.state.StepsEnabled = true
}

func (d *Dispatcher) markActivity() {
	d.state.lastActivityMs = d.nowMs()
}

// execute dispatches one popped command to its handler and emits the
// response: data lines first (if any), then exactly one terminator
// (spec §4.9 step 7, §8 "terminator exactness").
func (d *Dispatcher) execute(cmd command.ParsedCommand) {
	errCode, errText := d.dispatch(cmd)
	if errCode != 0 {
		if errText != "" {
			d.responder.Error(errCode, errText)
		} else {
			d.responder.Error(errCode)
		}
	}
	d.responder.Ok()
}

// dispatch runs the handler for cmd.Kind, returning (0, "") on success
// or a nonzero error code (with optional override text) on failure.
func (d *Dispatcher) dispatch(cmd command.ParsedCommand) (errCode int, errText string) {
	switch cmd.Kind {
	case command.Move:
		return d.handleMove(cmd.AsMove())
	case command.Home:
		return d.handleHome(cmd.AsHome())
	case command.SetPosition:
		return d.handleSetPosition(cmd.AsSetPosition())
	case command.ModeAbsolute:
		d.state.RelativeMode = false
		d.responder.Info("Absolute positioning mode (G90)")
		return 0, ""
	case command.ModeRelative:
		d.state.RelativeMode = true
		d.responder.Info("Relative positioning mode (G91)")
		return 0, ""
	case command.DisableSteppers:
		return d.handleDisableSteppers(cmd.AsDisableSteppers())
	case command.SetSpeedFactor:
		return d.handleSetSpeedFactor(cmd.AsSetSpeedFactor())
	case command.QueryPosition:
		d.responder.Position(d.state.Position)
		return 0, ""
	case command.QueryFirmware:
		d.responder.Firmware(d.cfg)
		return 0, ""
	case command.QueryEndstops:
		var triggered [point3d.NumAxes]bool
		for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
			triggered[axis] = d.endstops.IsTriggered(axis)
		}
		d.responder.Endstops(triggered)
		return 0, ""
	case command.ReportSettings:
		d.responder.Settings(d.cfg)
		return 0, ""
	case command.Pause:
		d.state.Paused = true
		return 0, ""
	case command.Resume:
		d.state.Paused = false
		return 0, ""
	case command.Stop:
		d.q.Drain()
		d.state.Paused = true
		d.disableSteppers()
		return 0, ""
	case command.QuickStop:
		d.q.Drain()
		d.disableSteppers()
		d.responder.Info("Quick stop")
		return 0, ""
	case command.DiagnosticMotor:
		return d.handleDiagnosticMotor(cmd.AsDiagnosticMotor())
	default:
		return serial.ErrUnknownCommand, ""
	}
}
