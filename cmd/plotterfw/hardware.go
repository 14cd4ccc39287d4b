//go:build tinygo

package main

import (
	"machine"
	"time"

	"github.com/deviverr/penplotter/ui"
)

// stepperClock adapts time.Since(boot) into stepper.Clock/motion.Clock's
// Now() time.Duration, the same free-running-elapsed-time shape the
// teacher's tmc5160 examples get from a hardware timer.
type stepperClock struct{}

var bootTime = time.Now()

func (stepperClock) Now() time.Duration { return time.Since(bootTime) }

// msClock adapts the same boot-relative clock into endstop.Clock's
// millisecond counter.
type msClock struct{}

func (msClock) NowMs() uint32 { return uint32(time.Since(bootTime) / time.Millisecond) }

// panelButtons polls two edge-triggered push buttons wired active-low.
type panelButtons struct {
	a, b   machine.Pin
	lastA  bool
	lastB  bool
	seeded bool
}

func (p *panelButtons) Poll() (ui.Button, bool) {
	a := !p.a.Get() // active low
	b := !p.b.Get()

	if !p.seeded {
		p.lastA, p.lastB, p.seeded = a, b, true
		return 0, false
	}

	defer func() { p.lastA, p.lastB = a, b }()

	if a && !p.lastA {
		return ui.ButtonSelect, true
	}
	if b && !p.lastB {
		return ui.ButtonBack, true
	}
	return 0, false
}

// quadratureEncoder decodes a two-phase rotary encoder by sampling both
// channels and comparing against the previous sample; a simplified
// single-edge decode (4 counts per detent is not attempted), adequate
// for a coarse menu-navigation input.
type quadratureEncoder struct {
	a, b   machine.Pin
	lastA  bool
	seeded bool
}

func (q *quadratureEncoder) Poll() int8 {
	a := q.a.Get()
	b := q.b.Get()

	if !q.seeded {
		q.lastA, q.seeded = a, true
		return 0
	}
	if a == q.lastA {
		return 0
	}
	q.lastA = a

	if a != b {
		return 1
	}
	return -1
}

// adcSampler adapts machine.ADC into speedoverride.Sampler.
type adcSampler struct{ adc machine.ADC }

func (s adcSampler) Get() uint16 { return s.adc.Get() }
