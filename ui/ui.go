// Package ui drives the plotter's on-panel Sharp Memory LCD. Screens are
// external collaborators of the dispatcher (spec §8 "Polymorphism for
// screens and screens-vs-executor"): they read a snapshot of machine
// state and render bitmap/progress-bar content, never step motors or
// touch the command queue directly, and are polled through the narrow
// {draw, onButtonClick, onEncoderTurn} trait the spec calls for rather
// than being interleaved with the motion core.
package ui

import (
	"github.com/deviverr/penplotter/dispatcher"
	"github.com/deviverr/penplotter/display"
)

// Button identifies one of the panel's physical push buttons.
type Button int

const (
	ButtonSelect Button = iota
	ButtonBack
)

// Buttons polls the panel's buttons for a newly-pressed (edge-triggered)
// button.
type Buttons interface {
	Poll() (btn Button, pressed bool)
}

// Encoder polls the rotary encoder for a signed step delta since the
// last poll; 0 means no movement.
type Encoder interface {
	Poll() int8
}

// Screen is one renderable panel state. Only Draw touches the display;
// the two input callbacks return the screen that should be active after
// handling the input, letting a screen transition to another without
// the Controller knowing the menu structure.
type Screen interface {
	Draw(panel *display.Panel, state dispatcher.MachineState)
	OnButtonClick(btn Button) Screen
	OnEncoderTurn(delta int8) Screen
}

// StateProvider is the narrow slice of *dispatcher.Dispatcher the UI
// needs: a read-only snapshot of machine state, nothing that could let
// a screen reach into motion internals.
type StateProvider interface {
	State() dispatcher.MachineState
}

// Controller owns the active screen and the panel it draws to. It
// satisfies dispatcher.UI.
type Controller struct {
	panel   *display.Panel
	state   StateProvider
	buttons Buttons
	encoder Encoder
	active  Screen
}

// New builds a Controller starting on home.
func New(panel *display.Panel, state StateProvider, buttons Buttons, encoder Encoder, home Screen) *Controller {
	return &Controller{panel: panel, state: state, buttons: buttons, encoder: encoder, active: home}
}

// Tick polls input, lets the active screen react, redraws, and flushes
// the panel. Must never block (spec §4.9 step 4); display.Panel.Display
// only performs bounded SPI transfers.
func (c *Controller) Tick() {
	if c.buttons != nil {
		if btn, pressed := c.buttons.Poll(); pressed {
			c.active = c.active.OnButtonClick(btn)
		}
	}
	if c.encoder != nil {
		if delta := c.encoder.Poll(); delta != 0 {
			c.active = c.active.OnEncoderTurn(delta)
		}
	}

	c.panel.ClearBuffer()
	c.active.Draw(c.panel, c.state.State())
	c.panel.Display()
}
