// Package motion implements the shared trapezoidal-profile motion
// executor (spec §4.4): given three stepper channels already seated with
// targets, drive all three to completion under one profile synchronized
// to the dominant axis.
package motion

import (
	"time"

	"github.com/orsinium-labs/tinymath"

	"github.com/deviverr/penplotter/point3d"
	"github.com/deviverr/penplotter/stepper"
)

// recomputeInterval is the cadence at which the instantaneous speed is
// recomputed from progress along the dominant axis. At 5ms (200Hz) this
// is cheap enough for an 8-bit core to sustain while leaving the pulse
// loop itself free of per-step square roots (spec §4.4 rationale).
const recomputeInterval = 5 * time.Millisecond

// minSpeedFraction and minSpeedFloor bound the initial/ramp speed floor:
// 5% of the dominant axis' max speed, never below 50 steps/s. Without a
// floor a zero initial speed would never generate a pulse.
const (
	minSpeedFraction = 0.05
	minSpeedFloor    = 50
)

// Watchdog must be fed at every iteration of a long-running loop or the
// hardware watchdog resets the device.
type Watchdog interface {
	Feed()
}

// Clock reports elapsed time for cadence gating. stepper.Clock and this
// interface share the same method set by construction, so any type
// satisfying one satisfies both.
type Clock interface {
	Now() time.Duration
}

// AxisParams bundles one channel with the max speed/acceleration it
// should be driven under for this move. A channel not participating in
// the move (zero distance) must still be present (non-nil Channel); it is
// seated at speed 0 and never pulses, whatever its MaxSpeed.
type AxisParams struct {
	Channel  *stepper.Channel
	MaxSpeed float32 // steps/s
	Accel    float32 // steps/s^2
}

// Executor drives a composite three-axis move to completion.
type Executor struct {
	Watchdog Watchdog
	Clock    Clock
	// UITick, if non-nil, is invoked roughly every 150ms while blocked,
	// to animate a progress indicator without otherwise interleaving UI
	// concerns with the motion core (spec §5 suspension points).
	UITick func()
}

type profile struct {
	totalSteps int32
	accelSteps int32
	dominant   point3d.Axis
	maxSpeed   float32
	accel      float32
}

// buildProfile computes the trapezoidal (or collapsed triangular) speed
// profile for the dominant axis.
func buildProfile(axes [point3d.NumAxes]AxisParams) profile {
	var dominant point3d.Axis
	var best int32
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		d := abs32(axes[axis].Channel.Remaining())
		if d > best {
			best = d
			dominant = axis
		}
	}

	p := axes[dominant]
	accelSteps := int32(0)
	if p.Accel > 0 {
		accelSteps = int32(p.MaxSpeed * p.MaxSpeed / (2 * p.Accel))
	}
	if 2*accelSteps > best {
		accelSteps = best / 2
	}

	return profile{
		totalSteps: best,
		accelSteps: accelSteps,
		dominant:   dominant,
		maxSpeed:   p.MaxSpeed,
		accel:      p.Accel,
	}
}

// speedFloor returns the minimum nonzero speed any moving axis is seated
// at, derived from the dominant axis' max speed.
func speedFloor(dominantMaxSpeed float32) float32 {
	floor := dominantMaxSpeed * minSpeedFraction
	if floor < minSpeedFloor {
		floor = minSpeedFloor
	}
	return floor
}

// instantaneousSpeed computes the dominant-axis speed for the given
// progress along the profile.
func instantaneousSpeed(p profile, progressSteps int32) float32 {
	floor := speedFloor(p.maxSpeed)

	var v float32
	switch {
	case progressSteps < p.accelSteps:
		v = tinymath.Sqrt(2 * p.accel * float32(progressSteps))
	case progressSteps > p.totalSteps-p.accelSteps:
		remaining := p.totalSteps - progressSteps
		if remaining < 0 {
			remaining = 0
		}
		v = tinymath.Sqrt(2 * p.accel * float32(remaining))
	default:
		v = p.maxSpeed
	}

	return tinymath.Max(floor, tinymath.Min(v, p.maxSpeed))
}

// seatInitialSpeeds gives every moving axis a nonzero starting speed
// scaled from the dominant axis' floor speed.
func seatInitialSpeeds(axes [point3d.NumAxes]AxisParams, p profile) {
	floor := speedFloor(p.maxSpeed)
	seatSpeeds(axes, p, floor)
}

// seatSpeeds scales dominantSpeed by each axis' max-speed ratio to the
// dominant axis and seats the signed result (sign from the channel's
// own remaining-distance direction), so non-dominant axes arrive in
// lockstep with the dominant one.
func seatSpeeds(axes [point3d.NumAxes]AxisParams, p profile, dominantSpeed float32) {
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		params := axes[axis]
		if params.Channel.Remaining() == 0 {
			params.Channel.SetSpeed(0)
			continue
		}
		ratio := float32(1)
		if p.maxSpeed != 0 {
			ratio = params.MaxSpeed / p.maxSpeed
		}
		speed := dominantSpeed * ratio
		if params.Channel.Remaining() < 0 {
			speed = -speed
		}
		params.Channel.SetSpeed(speed)
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func anyRemaining(axes [point3d.NumAxes]AxisParams) bool {
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		if axes[axis].Channel.Remaining() != 0 {
			return true
		}
	}
	return false
}

// Run drives all three channels to their targets and blocks until the
// move completes naturally.
func (e *Executor) Run(axes [point3d.NumAxes]AxisParams) {
	e.run(axes, nil)
}

// AbortResult reports the outcome of an abortable run.
type AbortResult struct {
	// Stopped is true when the abort predicate fired. The result does
	// not say which axis caused the abort; a caller that needs it reads
	// that back from its own predicate's state.
	Stopped bool
}

// RunAbortable drives all three channels to their targets, polling
// abort at the same cadence as the speed recompute. If abort returns
// true the move is stopped immediately (instant stop on every channel,
// no decel) and Stopped is true in the result.
func (e *Executor) RunAbortable(axes [point3d.NumAxes]AxisParams, abort func() bool) AbortResult {
	stopped := e.run(axes, abort)
	return AbortResult{Stopped: stopped}
}

func (e *Executor) run(axes [point3d.NumAxes]AxisParams, abort func() bool) (aborted bool) {
	p := buildProfile(axes)
	seatInitialSpeeds(axes, p)

	var lastRecompute, lastUITick time.Duration
	progress := int32(0)

	for anyRemaining(axes) {
		if e.Watchdog != nil {
			e.Watchdog.Feed()
		}

		now := e.Clock.Now()

		if now-lastUITick >= 150*time.Millisecond {
			lastUITick = now
			if e.UITick != nil {
				e.UITick()
			}
		}

		if now-lastRecompute >= recomputeInterval {
			lastRecompute = now

			if abort != nil && abort() {
				for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
					axes[axis].Channel.Stop()
				}
				return true
			}

			progress = abs32(axes[p.dominant].Channel.Remaining())
			progress = p.totalSteps - progress
			dominantSpeed := instantaneousSpeed(p, progress)
			seatSpeeds(axes, p, dominantSpeed)
		}

		for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
			axes[axis].Channel.StepToTarget()
		}
	}

	return false
}
