package main

import (
	"github.com/deviverr/penplotter/display"
	"github.com/deviverr/penplotter/endstop"
	"github.com/deviverr/penplotter/point3d"
	"github.com/deviverr/penplotter/smartdriver"
	"github.com/deviverr/penplotter/speedoverride"
	"github.com/deviverr/penplotter/stepper"
	"github.com/deviverr/penplotter/ui"
)

// board bundles everything main needs that differs between the
// Mega2560 and Uno targets: pin assignments, and which optional
// peripherals (smart drivers, the LCD panel, the speed-override pot)
// this particular shield actually carries.
type board struct {
	Channels       [point3d.NumAxes]*stepper.Channel
	EndstopReaders [point3d.NumAxes]endstop.Reader

	HostSerial serialPort

	// SmartComm is non-nil when the shield wires its TMC2209 drivers'
	// UART bus; nil boards get plain step/dir drivers only.
	SmartComm smartdriver.RegisterComm

	// Panel is non-nil when an LCD is present.
	Panel *display.Panel
	Buttons ui.Buttons
	Encoder ui.Encoder

	// Speed is non-nil when the analog speed-override potentiometer is
	// wired.
	Speed speedoverride.Sampler
}

// serialPort is the narrow surface the dispatcher needs from the host
// link: it both feeds serial.Assembler (Buffered/ReadByte) and backs
// serial.Responder (Write).
type serialPort interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (n int, err error)
}
