//go:build uno

package main

import (
	"machine"

	"github.com/deviverr/penplotter/endstop"
	"github.com/deviverr/penplotter/point3d"
	"github.com/deviverr/penplotter/stepper"
)

// pinReader adapts a machine.Pin configured as an input into
// endstop.Reader.
type pinReader struct{ pin machine.Pin }

func (r pinReader) Read() bool { return r.pin.Get() }

// A Uno-class shield has only enough pins and flash for the core motion
// pipeline: step/dir/enable per axis and three endstops, sharing the
// single hardware UART with the host link's own RX/TX pins is not an
// option, so there is no spare UART for a TMC2209 bus, no SPI budget for
// an LCD, and no free analog pin for a speed-override pot on the
// smallest shield variant.
func wireBoard() board {
	clock := stepperClock{}

	xStep, xDir, xEn := machine.D2, machine.D5, machine.D8
	yStep, yDir, yEn := machine.D3, machine.D6, machine.D8
	zStep, zDir, zEn := machine.D4, machine.D7, machine.D8

	for _, p := range []machine.Pin{xStep, xDir, xEn, yStep, yDir, yEn, zStep, zDir, zEn} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}

	var channels [point3d.NumAxes]*stepper.Channel
	channels[point3d.X] = stepper.NewChannel(xStep, xDir, xEn, false, true, clock)
	channels[point3d.Y] = stepper.NewChannel(yStep, yDir, yEn, true, true, clock)
	channels[point3d.Z] = stepper.NewChannel(zStep, zDir, zEn, false, true, clock)

	xMin, yMin, zMin := machine.D9, machine.D10, machine.D11
	for _, p := range []machine.Pin{xMin, yMin, zMin} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	var readers [point3d.NumAxes]endstop.Reader
	readers[point3d.X] = pinReader{xMin}
	readers[point3d.Y] = pinReader{yMin}
	readers[point3d.Z] = pinReader{zMin}

	return board{
		Channels:       channels,
		EndstopReaders: readers,
		HostSerial:     machine.Serial,
	}
}
