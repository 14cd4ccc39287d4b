// Package homing implements the per-axis four-phase homing sequence of
// spec §4.5: pre-clear, fast approach, backoff, slow approach.
package homing

import (
	"time"

	"golang.org/x/exp/constraints"

	"github.com/deviverr/penplotter/config"
	"github.com/deviverr/penplotter/debuglog"
	"github.com/deviverr/penplotter/endstop"
	"github.com/deviverr/penplotter/kinematics"
	"github.com/deviverr/penplotter/motion"
	"github.com/deviverr/penplotter/point3d"
	"github.com/deviverr/penplotter/stepper"
)

// Err is a lightweight string-alias error, matching the teacher's
// CustomError pattern (tmc2209.CustomError) rather than pulling in
// fmt.Errorf for a handful of constant messages.
type Err string

func (e Err) Error() string { return string(e) }

const (
	ErrPreClearFailed    Err = "cannot clear pre-triggered endstop"
	ErrStall             Err = "endstop not reached before travel budget exhausted"
	ErrBackoffTriggered  Err = "endstop still triggered after backoff"
	ErrTimeout           Err = "homing phase timed out"
)

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Watchdog must be fed during any long-running phase.
type Watchdog interface {
	Feed()
}

// Coordinator drives the homing sequence for all three axes.
type Coordinator struct {
	cfg      config.MachineConfig
	conv     kinematics.Converter
	channels [point3d.NumAxes]*stepper.Channel
	endstops *endstop.Monitor
	exec     *motion.Executor
	clock    motion.Clock
	watchdog Watchdog
}

// New builds a Coordinator.
func New(
	cfg config.MachineConfig,
	conv kinematics.Converter,
	channels [point3d.NumAxes]*stepper.Channel,
	endstops *endstop.Monitor,
	exec *motion.Executor,
	clock motion.Clock,
	watchdog Watchdog,
) *Coordinator {
	return &Coordinator{
		cfg:      cfg,
		conv:     conv,
		channels: channels,
		endstops: endstops,
		exec:     exec,
		clock:    clock,
		watchdog: watchdog,
	}
}

// fastSpeedSteps returns the fast homing speed for axis, in steps/s,
// capped by the axis' configured max velocity.
func (c *Coordinator) fastSpeedSteps(axis point3d.Axis) float32 {
	mmps := clamp(c.cfg.HomingFastSpeed[axis], 0, c.cfg.MaxVelocity[axis])
	return mmps * c.cfg.StepsPerMm[axis]
}

func (c *Coordinator) slowSpeedSteps(axis point3d.Axis) float32 {
	mmps := clamp(c.cfg.HomingSlowSpeed[axis], 0, c.cfg.MaxVelocity[axis])
	return mmps * c.cfg.StepsPerMm[axis]
}

func (c *Coordinator) accelSteps(axis point3d.Axis) float32 {
	return c.cfg.MaxAccel[axis] * c.cfg.StepsPerMm[axis] * c.cfg.HomingAccelFctr
}

// singleAxisParams builds an AxisParams trio where only axis moves; the
// other two channels are given a zero-length target so they never pulse.
func (c *Coordinator) singleAxisParams(axis point3d.Axis, speed float32) [point3d.NumAxes]motion.AxisParams {
	var axes [point3d.NumAxes]motion.AxisParams
	for _, a := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		ch := c.channels[a]
		if a != axis {
			ch.SetTarget(ch.CurrentStep())
		}
		axes[a] = motion.AxisParams{Channel: ch, MaxSpeed: speed, Accel: c.accelSteps(axis)}
	}
	return axes
}

// moveBy drives axis by deltaSteps (signed) at the given speed and
// blocks until it completes naturally.
func (c *Coordinator) moveBy(axis point3d.Axis, deltaSteps int32, speed float32) {
	ch := c.channels[axis]
	ch.SetTarget(ch.CurrentStep() + deltaSteps)
	c.exec.Run(c.singleAxisParams(axis, speed))
}

// moveUntilTriggeredOrBudget drives axis toward the endstop (sign of
// dirSign) until either the endstop trips (instant stop, success) or the
// travel budget / phase timeout elapses without a trigger (stall).
func (c *Coordinator) moveUntilTriggeredOrBudget(axis point3d.Axis, dirSign int8, budgetSteps int32, speed float32) (triggered bool) {
	ch := c.channels[axis]
	ch.SetTarget(ch.CurrentStep() + int32(dirSign)*budgetSteps)

	deadline := c.clock.Now() + time.Duration(c.cfg.HomingTimeoutSec*float32(time.Second))

	result := c.exec.RunAbortable(c.singleAxisParams(axis, speed), func() bool {
		if c.watchdog != nil {
			c.watchdog.Feed()
		}
		if c.endstops.IsTriggered(axis) {
			return true
		}
		return c.clock.Now() >= deadline
	})

	if !result.Stopped {
		// Executor ran the full travel budget without the abort
		// predicate ever firing true.
		return false
	}
	return c.endstops.IsTriggered(axis)
}

// Home runs the four-phase sequence for one axis.
func (c *Coordinator) Home(axis point3d.Axis) error {
	homeDir := c.cfg.HomeDir[axis]
	backoffSteps := c.conv.MmToSteps(axis, c.cfg.HomingBackoffMm)
	fast := c.fastSpeedSteps(axis)
	slow := c.slowSpeedSteps(axis)
	axisMaxSteps := c.conv.MmToSteps(axis, c.cfg.SoftLimitMax[axis])

	// Phase 1: pre-clear.
	if c.endstops.IsTriggered(axis) {
		c.moveBy(axis, -int32(homeDir)*2*backoffSteps, fast)
		if c.endstops.IsTriggered(axis) {
			debuglog.Error("homing: " + ErrPreClearFailed.Error())
			return ErrPreClearFailed
		}
	}

	// Phase 2: fast approach, target set far enough to guarantee
	// reachability regardless of starting position.
	if !c.moveUntilTriggeredOrBudget(axis, homeDir, 2*axisMaxSteps, fast) {
		debuglog.Error("homing: " + ErrStall.Error())
		return ErrStall
	}

	// Phase 3: backoff.
	c.moveBy(axis, -int32(homeDir)*backoffSteps, fast)
	if c.endstops.IsTriggered(axis) {
		debuglog.Error("homing: " + ErrBackoffTriggered.Error())
		return ErrBackoffTriggered
	}

	// Phase 4: slow approach.
	if !c.moveUntilTriggeredOrBudget(axis, homeDir, 4*backoffSteps, slow) {
		debuglog.Error("homing: " + ErrStall.Error())
		return ErrStall
	}

	debuglog.Trace("homing: axis complete")

	// Seat logical zero.
	var zeroMm float32
	if homeDir > 0 {
		zeroMm = c.cfg.SoftLimitMax[axis]
	}
	c.channels[axis].SetCurrentStep(c.conv.MmToSteps(axis, zeroMm))
	c.channels[axis].SetTarget(c.channels[axis].CurrentStep())

	return nil
}

// AxisResult is the per-axis outcome of a HomeAll run.
type AxisResult struct {
	Axis  point3d.Axis
	Err   error
}

// HomeAll runs homing for Z, then X, then Y (Z first for pen-lift
// safety, per spec §4.5), attempting every axis even if an earlier one
// fails, and reports each result individually.
func (c *Coordinator) HomeAll() []AxisResult {
	order := [...]point3d.Axis{point3d.Z, point3d.X, point3d.Y}
	results := make([]AxisResult, 0, len(order))
	for _, axis := range order {
		err := c.Home(axis)
		results = append(results, AxisResult{Axis: axis, Err: err})
	}
	return results
}
