//go:build mega2560

package main

import (
	"machine"

	"github.com/deviverr/penplotter/debuglog"
	"github.com/deviverr/penplotter/display"
	"github.com/deviverr/penplotter/endstop"
	"github.com/deviverr/penplotter/point3d"
	"github.com/deviverr/penplotter/smartdriver"
	"github.com/deviverr/penplotter/stepper"
)

// pinReader adapts a machine.Pin configured as an input into
// endstop.Reader.
type pinReader struct{ pin machine.Pin }

func (r pinReader) Read() bool { return r.pin.Get() }

// RAMPS 1.4-style pin-out: step/dir/enable per axis, min-endstops per
// axis, a dedicated UART for the TMC2209 bus, SPI0 for the LCD, one
// rotary encoder, two buttons, and an analog speed-override pot.
func wireBoard() board {
	clock := stepperClock{}

	xStep, xDir, xEn := machine.D54, machine.D55, machine.D38
	yStep, yDir, yEn := machine.D60, machine.D61, machine.D56
	zStep, zDir, zEn := machine.D46, machine.D48, machine.D62

	for _, p := range []machine.Pin{xStep, xDir, xEn, yStep, yDir, yEn, zStep, zDir, zEn} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}

	var channels [point3d.NumAxes]*stepper.Channel
	channels[point3d.X] = stepper.NewChannel(xStep, xDir, xEn, false, true, clock)
	channels[point3d.Y] = stepper.NewChannel(yStep, yDir, yEn, true, true, clock)
	channels[point3d.Z] = stepper.NewChannel(zStep, zDir, zEn, false, true, clock)

	xMin, yMin, zMin := machine.D3, machine.D14, machine.D18
	for _, p := range []machine.Pin{xMin, yMin, zMin} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	var readers [point3d.NumAxes]endstop.Reader
	readers[point3d.X] = pinReader{xMin}
	readers[point3d.Y] = pinReader{yMin}
	readers[point3d.Z] = pinReader{zMin}

	driverUART := machine.UART1
	driverUART.Configure(machine.UARTConfig{})
	smartComm := smartdriver.NewUARTComm(*driverUART)
	if err := smartComm.Setup(); err != nil {
		debuglog.Error("plotterfw: TMC2209 bus setup failed: " + err.Error())
	}

	spi := machine.SPI0
	spi.Configure(machine.SPIConfig{Frequency: 2000000, Mode: 0, LSBFirst: true})
	csPin := machine.D53
	csPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	panel := display.New(spi, csPin)
	panel.Configure(display.Config128x128)

	btnSelect, btnBack := machine.D22, machine.D24
	for _, p := range []machine.Pin{btnSelect, btnBack} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	encA, encB := machine.D26, machine.D28
	encA.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	encB.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	adc := machine.ADC{Pin: machine.A0}
	adc.Configure(machine.ADCConfig{})

	return board{
		Channels:       channels,
		EndstopReaders: readers,
		HostSerial:     machine.Serial,
		SmartComm:      smartComm,
		Panel:          &panel,
		Buttons:        &panelButtons{a: btnSelect, b: btnBack},
		Encoder:        &quadratureEncoder{a: encA, b: encB},
		Speed:          adcSampler{adc: adc},
	}
}
