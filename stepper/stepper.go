// Package stepper implements a single step/direction/enable stepper
// channel (spec §4.3): the cheapest possible motor interface, "two
// digital lines — one pulse per micro-step and a level that selects
// direction" (GLOSSARY). This is deliberately simpler than the teacher's
// tmc2209/tmc5160 packages, which drive UART/SPI-configurable smart
// drivers; those chips are adapted separately in the smartdriver package
// as an optional current/microstep configuration layer that sits
// *underneath* a Channel rather than replacing it, because spec §5
// requires this package's pulse loop to remain the sole step clock.
package stepper

import "time"

// Pin is the narrow GPIO write surface a Channel needs. machine.Pin
// satisfies it directly; tests use a fake.
type Pin interface {
	High()
	Low()
}

// Clock abstracts elapsed-time measurement so the pulse-timing math can
// run off-target.
type Clock interface {
	Now() time.Duration
}

// Channel drives one stepper axis.
type Channel struct {
	step, dir, enable Pin
	invertDir         bool
	invertEnable      bool
	clock             Clock

	currentStep int32
	targetStep  int32

	// currentSpeed is signed: positive drives toward increasing
	// currentStep, negative toward decreasing. Zero means idle.
	currentSpeed float32 // steps/s
	maxSpeed     float32 // steps/s, only used by SetMaxSpeed's zero-guard
	accel        float32 // steps/s^2

	lastPulse time.Duration
	enabled   bool
}

// NewChannel wires up a Channel. Pins must already be configured for
// output by the caller, mirroring tmc5160.NewDriver's "pins configured
// before use" convention.
func NewChannel(step, dir, enable Pin, invertDir, invertEnable bool, clock Clock) *Channel {
	return &Channel{
		step:         step,
		dir:          dir,
		enable:       enable,
		invertDir:    invertDir,
		invertEnable: invertEnable,
		clock:        clock,
	}
}

// Enable asserts the driver's enable line.
func (c *Channel) Enable() {
	if c.invertEnable {
		c.enable.Low()
	} else {
		c.enable.High()
	}
	c.enabled = true
}

// Disable de-asserts the driver's enable line and stops any motion.
func (c *Channel) Disable() {
	if c.invertEnable {
		c.enable.High()
	} else {
		c.enable.Low()
	}
	c.enabled = false
	c.Stop()
}

// Enabled reports whether the channel is currently enabled.
func (c *Channel) Enabled() bool { return c.enabled }

// CurrentStep returns the channel's step counter.
func (c *Channel) CurrentStep() int32 { return c.currentStep }

// SetCurrentStep reseats the step counter directly, used by homing and
// G92 to resync the logical position without generating pulses.
func (c *Channel) SetCurrentStep(v int32) {
	c.currentStep = v
}

// SetTarget sets the position this channel should step toward.
func (c *Channel) SetTarget(target int32) {
	c.targetStep = target
}

// Target returns the channel's current target step.
func (c *Channel) Target() int32 { return c.targetStep }

// Remaining returns the signed distance still to travel.
func (c *Channel) Remaining() int32 {
	return c.targetStep - c.currentStep
}

// AtTarget reports whether the channel has reached its target.
func (c *Channel) AtTarget() bool {
	return c.currentStep == c.targetStep
}

// SetAccel sets the acceleration used only as bookkeeping for callers
// computing ramps externally (the trapezoidal math lives in the motion
// package; Channel itself only ever obeys an instantaneous speed).
func (c *Channel) SetAccel(a float32) { c.accel = a }

// Accel returns the configured acceleration.
func (c *Channel) Accel() float32 { return c.accel }

// SetMaxSpeed records the channel's speed ceiling. A zero value is
// silently refused: spec §4.3 calls a zero maxSpeed on a moving axis
// undefined ("causes undefined step intervals"). An axis that isn't
// part of the current composite move is instead seated at speed 0 by the
// motion executor and, with Remaining() at zero, never pulses.
func (c *Channel) SetMaxSpeed(v float32) {
	if v == 0 {
		return
	}
	c.maxSpeed = v
}

// MaxSpeed returns the configured speed ceiling.
func (c *Channel) MaxSpeed() float32 { return c.maxSpeed }

// SetSpeed seats the instantaneous signed speed the channel should step
// at. Sign is inferred by the caller from the direction of travel; this
// channel does not compute it, it only stages pulses.
func (c *Channel) SetSpeed(stepsPerSec float32) {
	c.currentSpeed = stepsPerSec
}

// Speed returns the currently seated speed.
func (c *Channel) Speed() float32 { return c.currentSpeed }

// Stop is the "immediate stop" primitive of spec §4.3: re-seating the
// channel's target to its current position zeroes both remaining
// distance and (on the next Step call) emitted pulses, atomically with
// respect to the pulse loop because both fields are plain ints touched
// only from this single-threaded dispatcher.
func (c *Channel) Stop() {
	c.targetStep = c.currentStep
	c.currentSpeed = 0
}

// pulseDirection returns true if the channel should currently be
// stepping toward increasing position.
func (c *Channel) pulseDirection() bool {
	if c.currentSpeed != 0 {
		return c.currentSpeed > 0
	}
	return c.Remaining() > 0
}

// setDirPin drives the direction line for the given logical direction
// (true = increasing position), honoring axis inversion.
func (c *Channel) setDirPin(increasing bool) {
	level := increasing
	if c.invertDir {
		level = !level
	}
	if level {
		c.dir.High()
	} else {
		c.dir.Low()
	}
}

// StepConstantSpeed emits at most one pulse if enough time has elapsed
// since the last one, driven purely by the channel's currently seated
// speed (spec §4.3 "constant speed" mode). A zero speed never pulses.
func (c *Channel) StepConstantSpeed() {
	if c.currentSpeed == 0 {
		return
	}
	c.emitIfDue(c.currentSpeed)
}

// StepToTarget runs toward the configured target at the currently
// seated speed magnitude, inferring direction from the sign of
// (target - current) and stopping cleanly on arrival (spec §4.3
// "to-position at set speed" mode).
func (c *Channel) StepToTarget() {
	remaining := c.Remaining()
	if remaining == 0 {
		c.currentSpeed = 0
		return
	}
	speed := c.currentSpeed
	if speed == 0 {
		return
	}
	magnitude := speed
	if magnitude < 0 {
		magnitude = -magnitude
	}
	if remaining < 0 {
		magnitude = -magnitude
	}
	c.emitIfDue(magnitude)
}

// emitIfDue pulses the step line once if the configured speed's period
// has elapsed since the last pulse, then advances currentStep by one in
// the sign of speed.
func (c *Channel) emitIfDue(speed float32) {
	if speed == 0 {
		return
	}
	magnitude := speed
	if magnitude < 0 {
		magnitude = -magnitude
	}
	period := time.Duration(float64(time.Second) / float64(magnitude))
	now := c.clock.Now()
	if now-c.lastPulse < period {
		return
	}
	c.lastPulse = now

	increasing := speed > 0
	c.setDirPin(increasing)
	c.step.High()
	c.step.Low()

	if increasing {
		c.currentStep++
	} else {
		c.currentStep--
	}
}
