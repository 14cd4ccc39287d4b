package dispatcher

import (
	"github.com/deviverr/penplotter/command"
	"github.com/deviverr/penplotter/motion"
	"github.com/deviverr/penplotter/point3d"
	"github.com/deviverr/penplotter/serial"
)

const (
	diagnosticPulseCount     = 20
	diagnosticSpeedStepsPerS = 200
)

var axisOrder = [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z}

func axisFromByte(b byte) point3d.Axis {
	switch b {
	case 'X':
		return point3d.X
	case 'Y':
		return point3d.Y
	default:
		return point3d.Z
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// resyncPositionFromSteps pulls the logical position back from the
// stepper channels' own step counters, the authoritative source once a
// move has run (spec §3 invariant: position and step counters agree up
// to kinematics rounding).
func (d *Dispatcher) resyncPositionFromSteps() {
	for _, axis := range axisOrder {
		d.state.Position = d.state.Position.With(axis, d.conv.StepsToMm(axis, d.channels[axis].CurrentStep()))
	}
}

// singleAxisParams builds an AxisParams trio where only axis moves,
// mirroring homing.Coordinator's helper of the same shape.
func (d *Dispatcher) singleAxisParams(axis point3d.Axis, speed, accel float32) [point3d.NumAxes]motion.AxisParams {
	var axes [point3d.NumAxes]motion.AxisParams
	for _, a := range axisOrder {
		ch := d.channels[a]
		if a != axis {
			ch.SetTarget(ch.CurrentStep())
		}
		axes[a] = motion.AxisParams{Channel: ch, MaxSpeed: speed, Accel: accel}
	}
	return axes
}

// handleMove implements G0/G1 (spec §4.9 "Move").
func (d *Dispatcher) handleMove(args command.MoveArgs) (int, string) {
	current := d.state.Position
	target := current
	var named [point3d.NumAxes]bool

	setAxis := func(axis point3d.Axis, opt command.Optional) {
		if !opt.Present {
			return
		}
		named[axis] = true
		if d.state.RelativeMode {
			target = target.With(axis, current.Get(axis)+opt.Value)
		} else {
			target = target.With(axis, opt.Value)
		}
	}
	setAxis(point3d.X, args.X)
	setAxis(point3d.Y, args.Y)
	setAxis(point3d.Z, args.Z)

	delta := target.Sub(current)
	distance := delta.Length()

	if distance > d.cfg.MaxJumpMm {
		return serial.ErrOutOfRange, "Impossible position jump detected"
	}

	if !d.state.RelativeMode {
		for _, axis := range axisOrder {
			if named[axis] && !d.state.Homed[axis] {
				return serial.ErrNotHomed, ""
			}
		}
		if !d.conv.IsValidPosition(target) {
			return serial.ErrOutOfRange, "Target position out of bounds"
		}
	}

	feedRateMmPerMin := d.state.FeedRate
	if args.F.Present {
		feedRateMmPerMin = args.F.Value
	}
	effectiveMmPerSec := (feedRateMmPerMin * d.state.SpeedFactor / 100) / 60

	var axesParams [point3d.NumAxes]motion.AxisParams
	var abortAxes []point3d.Axis
	for _, axis := range axisOrder {
		axisDelta := delta.Get(axis)
		axisDist := axisDelta
		if axisDist < 0 {
			axisDist = -axisDist
		}

		var speedMmPerSec float32
		if distance > 0 && axisDist > 0 {
			speedMmPerSec = effectiveMmPerSec * axisDist / distance
		}
		speedMmPerSec = clampF(speedMmPerSec, 0, d.cfg.MaxVelocity[axis])

		ch := d.channels[axis]
		ch.SetTarget(d.conv.MmToSteps(axis, target.Get(axis)))
		axesParams[axis] = motion.AxisParams{
			Channel:  ch,
			MaxSpeed: speedMmPerSec * d.cfg.StepsPerMm[axis],
			Accel:    d.cfg.MaxAccel[axis] * d.cfg.StepsPerMm[axis],
		}

		if d.state.RelativeMode && axisDelta != 0 {
			homeDir := d.cfg.HomeDir[axis]
			if (axisDelta > 0 && homeDir > 0) || (axisDelta < 0 && homeDir < 0) {
				abortAxes = append(abortAxes, axis)
			}
		}
	}

	d.enableSteppers()

	if len(abortAxes) > 0 {
		result := d.exec.RunAbortable(axesParams, func() bool {
			for _, axis := range abortAxes {
				if d.endstops.IsTriggered(axis) {
					return true
				}
			}
			return false
		})
		if result.Stopped {
			var tripped point3d.Axis
			for _, axis := range abortAxes {
				if d.endstops.IsTriggered(axis) {
					tripped = axis
					break
				}
			}
			d.resyncPositionFromSteps()
			if err := d.homer.Home(tripped); err != nil {
				return serial.ErrHomingFailed, ""
			}
			d.state.Homed[tripped] = true
			d.resyncPositionFromSteps()
			d.responder.Info("Endstop hit on " + tripped.String() + ", auto-homed")
			d.state.FeedRate = feedRateMmPerMin
			d.markActivity()
			return 0, ""
		}
	} else {
		d.exec.Run(axesParams)
	}

	d.resyncPositionFromSteps()
	d.state.FeedRate = feedRateMmPerMin
	d.markActivity()
	return 0, ""
}

// handleHome implements G28 (spec §4.9 "Home").
func (d *Dispatcher) handleHome(args command.HomeArgs) (int, string) {
	requested := [point3d.NumAxes]bool{
		point3d.X: args.All || args.X,
		point3d.Y: args.All || args.Y,
		point3d.Z: args.All || args.Z,
	}

	d.enableSteppers()

	order := [...]point3d.Axis{point3d.Z, point3d.X, point3d.Y}
	anyFail := false
	for _, axis := range order {
		if !requested[axis] {
			continue
		}
		if err := d.homer.Home(axis); err != nil {
			d.state.Homed[axis] = false
			d.channels[axis].SetCurrentStep(d.conv.MmToSteps(axis, 0))
			d.channels[axis].SetTarget(d.channels[axis].CurrentStep())
			d.state.Position = d.state.Position.With(axis, 0)
			anyFail = true
			continue
		}
		d.state.Homed[axis] = true
		d.state.Position = d.state.Position.With(axis, d.conv.StepsToMm(axis, d.channels[axis].CurrentStep()))
	}

	if anyFail {
		return serial.ErrHomingFailed, ""
	}

	if requested[point3d.Z] {
		ch := d.channels[point3d.Z]
		ch.SetTarget(d.conv.MmToSteps(point3d.Z, d.cfg.PostHomeZ))
		speed := d.cfg.MaxVelocity[point3d.Z] * d.cfg.StepsPerMm[point3d.Z]
		accel := d.cfg.MaxAccel[point3d.Z] * d.cfg.StepsPerMm[point3d.Z]
		d.exec.Run(d.singleAxisParams(point3d.Z, speed, accel))
		d.resyncPositionFromSteps()
	}

	d.responder.Info("Homing complete")
	d.markActivity()
	return 0, ""
}

// handleSetPosition implements G92.
func (d *Dispatcher) handleSetPosition(args command.SetPositionArgs) (int, string) {
	apply := func(axis point3d.Axis, opt command.Optional) {
		if !opt.Present {
			return
		}
		d.state.Position = d.state.Position.With(axis, opt.Value)
		ch := d.channels[axis]
		ch.SetCurrentStep(d.conv.MmToSteps(axis, opt.Value))
		ch.SetTarget(ch.CurrentStep())
	}
	apply(point3d.X, args.X)
	apply(point3d.Y, args.Y)
	apply(point3d.Z, args.Z)
	return 0, ""
}

// handleDisableSteppers implements M84, keeping "disabled now" distinct
// from "never auto-disable" (spec §9 open question).
func (d *Dispatcher) handleDisableSteppers(args command.DisableSteppersArgs) (int, string) {
	if args.S.Present {
		d.state.IdleTimeoutMs = uint32(args.S.Value * 1000)
	} else {
		d.state.IdleTimeoutMs = d.cfg.DefaultIdleTimeoutMs
	}
	d.disableSteppers()
	return 0, ""
}

// handleSetSpeedFactor implements M220.
func (d *Dispatcher) handleSetSpeedFactor(args command.SetSpeedFactorArgs) (int, string) {
	if args.S.Present {
		d.state.SpeedFactor = clampF(args.S.Value, 1, 999)
	}
	return 0, ""
}

// handleDiagnosticMotor implements M999: bypasses the motion executor
// entirely and drives a fixed pulse count straight through the stepper
// channel to exercise the hardware path (spec §4.9 "DiagnosticMotor").
func (d *Dispatcher) handleDiagnosticMotor(args command.DiagnosticMotorArgs) (int, string) {
	axis := axisFromByte(args.Axis)
	ch := d.channels[axis]

	d.enableSteppers()
	start := ch.CurrentStep()
	ch.SetSpeed(diagnosticSpeedStepsPerS)
	for abs32(ch.CurrentStep()-start) < diagnosticPulseCount {
		if d.watchdog != nil {
			d.watchdog.Feed()
		}
		ch.StepConstantSpeed()
	}
	ch.SetSpeed(0)
	ch.SetTarget(ch.CurrentStep())
	d.resyncPositionFromSteps()
	d.markActivity()
	return 0, ""
}
