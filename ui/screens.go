package ui

import (
	"github.com/deviverr/penplotter/dispatcher"
	"github.com/deviverr/penplotter/display"
	"github.com/deviverr/penplotter/point3d"
)

// plotterIcon is a small 16x16 1bpp bitmap shown on the idle screen,
// packed MSB-first per row (display.Panel.Bitmap's format). A pen-nib
// glyph; placeholder artwork, swapped for the real icon at bring-up.
var plotterIcon = [16 * 2]byte{
	0x03, 0xc0, 0x07, 0xe0, 0x0f, 0xf0, 0x0f, 0xf0,
	0x0f, 0xf0, 0x07, 0xe0, 0x03, 0xc0, 0x03, 0xc0,
	0x03, 0xc0, 0x03, 0xc0, 0x03, 0xc0, 0x03, 0xc0,
	0x07, 0xe0, 0x0f, 0xf0, 0x1f, 0xf8, 0x3f, 0xfc,
}

// IdleScreen shows the machine's homed state per axis (as three filled
// or hollow boxes) and the plotter icon. It never draws numeric text, by
// design (spec-driven choice to avoid a font/glyph dependency).
type IdleScreen struct {
	job Screen
}

// NewIdleScreen builds the home screen; job is the screen a select
// click switches to once a job is running.
func NewIdleScreen(job Screen) *IdleScreen {
	return &IdleScreen{job: job}
}

func (s *IdleScreen) Draw(panel *display.Panel, state dispatcher.MachineState) {
	w, _ := panel.Size()
	panel.Bitmap(w/2-8, 8, 16, 16, plotterIcon[:])

	const boxSize, gap = 10, 6
	startX := w/2 - (3*boxSize+2*gap)/2
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		x := startX + int16(axis)*(boxSize+gap)
		panel.Rect(x, 32, boxSize, boxSize)
		if state.Homed[axis] {
			panel.FillRect(x+2, 34, boxSize-4, boxSize-4)
		}
	}

	speedPercent := state.SpeedFactor
	if speedPercent > 200 {
		speedPercent = 200
	}
	panel.ProgressBar(8, 52, w-16, 8, speedPercent/2)
}

func (s *IdleScreen) OnButtonClick(btn Button) Screen {
	if btn == ButtonSelect && s.job != nil {
		return s.job
	}
	return s
}

func (s *IdleScreen) OnEncoderTurn(delta int8) Screen { return s }

// JobScreen shows job completion as a single progress bar driven by a
// percent source supplied by its constructor's caller, since
// MachineState itself carries no notion of job progress. cmd/plotterfw
// does not construct a JobScreen.
type JobScreen struct {
	idle    Screen
	percent func() float32
}

// NewJobScreen builds the running-job screen; percent is polled on
// every draw, idle is the screen a back click returns to.
func NewJobScreen(idle Screen, percent func() float32) *JobScreen {
	return &JobScreen{idle: idle, percent: percent}
}

func (s *JobScreen) Draw(panel *display.Panel, state dispatcher.MachineState) {
	w, h := panel.Size()
	pct := float32(0)
	if s.percent != nil {
		pct = s.percent()
	}
	panel.ProgressBar(8, h/2-6, w-16, 12, pct)

	if state.Paused {
		panel.FillRect(w/2-2, 4, 4, 12)
		panel.FillRect(w/2+4, 4, 4, 12)
	} else {
		panel.FillRect(w/2-4, 4, 10, 12)
	}
}

func (s *JobScreen) OnButtonClick(btn Button) Screen {
	if btn == ButtonBack {
		return s.idle
	}
	return s
}

func (s *JobScreen) OnEncoderTurn(delta int8) Screen { return s }
