//go:build tinygo

// Command plotterfw is the pen-plotter firmware entrypoint: it wires the
// board-specific hardware (board_mega2560.go / board_uno.go) into the
// target-independent dispatcher and runs the cooperative main loop
// forever (spec §4.9), printing the M115 banner unprompted at boot
// (spec §6) before the host ever sends a command.
package main

import (
	"time"

	"github.com/deviverr/penplotter/config"
	"github.com/deviverr/penplotter/debuglog"
	"github.com/deviverr/penplotter/dispatcher"
	"github.com/deviverr/penplotter/endstop"
	"github.com/deviverr/penplotter/homing"
	"github.com/deviverr/penplotter/kinematics"
	"github.com/deviverr/penplotter/motion"
	"github.com/deviverr/penplotter/serial"
	"github.com/deviverr/penplotter/smartdriver"
	"github.com/deviverr/penplotter/speedoverride"
	"github.com/deviverr/penplotter/ui"
)

// watchdogFeeder satisfies the Watchdog interfaces of motion, homing and
// dispatcher. Its Feed is a no-op: this firmware neither enables nor
// feeds a hardware watchdog on either board.
type watchdogFeeder struct{}

func (watchdogFeeder) Feed() {}

func main() {
	time.Sleep(500 * time.Millisecond) // let the host's USB-serial enumerate

	cfg := config.Default()
	conv := kinematics.New(cfg)
	hw := wireBoard()

	mon := endstop.NewMonitor(cfg, msClock{}, hw.EndstopReaders)

	responder := serial.NewResponder(hw.HostSerial)

	exec := &motion.Executor{Watchdog: watchdogFeeder{}, Clock: stepperClock{}}
	homer := homing.New(cfg, conv, hw.Channels, mon, exec, stepperClock{}, watchdogFeeder{})

	configureSmartDrivers(hw, cfg)

	var controller *ui.Controller
	box := &stateBox{}
	if hw.Panel != nil {
		idle := ui.NewIdleScreen(nil)
		controller = ui.New(hw.Panel, box, hw.Buttons, hw.Encoder, idle)
		exec.UITick = controller.Tick
	}

	var override dispatcher.SpeedOverride
	if hw.Speed != nil {
		override = speedoverride.New(hw.Speed, msClock{})
	}

	var uiTick dispatcher.UI
	if controller != nil {
		uiTick = controller
	}

	d := dispatcher.New(cfg, conv, hw.Channels, mon, exec, homer, responder, watchdogFeeder{}, stepperClock{}, uiTick, override, hw.HostSerial)
	box.d = d

	responder.Firmware(cfg)
	d.Run()
}

// stateBox breaks the construction cycle between ui.Controller (which
// needs a StateProvider) and *dispatcher.Dispatcher (which needs a UI):
// the box is handed to the Controller before d exists and populated
// right after, since dispatcher.Dispatcher itself satisfies
// ui.StateProvider via its State() method.
type stateBox struct{ d *dispatcher.Dispatcher }

func (b *stateBox) State() dispatcher.MachineState {
	if b.d == nil {
		return dispatcher.MachineState{}
	}
	return b.d.State()
}

// configureSmartDrivers pushes a conservative default current/microstep
// configuration to every TMC2209 on the shared UART bus, when present.
func configureSmartDrivers(hw board, cfg config.MachineConfig) {
	if hw.SmartComm == nil {
		return
	}
	for axis := uint8(0); axis < 3; axis++ {
		drv := smartdriver.NewDriver(hw.SmartComm, axis)
		if err := drv.Configure(80, 30, 16); err != nil {
			debuglog.Error("plotterfw: TMC2209 configure failed on driver " + string(rune('0'+axis)) + ": " + err.Error())
		}
	}
}
