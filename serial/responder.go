package serial

import (
	"strconv"

	"github.com/deviverr/penplotter/config"
	"github.com/deviverr/penplotter/point3d"
)

// Writer is the narrow transport write surface the responder needs.
// machine.UART satisfies it directly.
type Writer interface {
	Write(p []byte) (n int, err error)
}

// Responder formats the three device-to-host line kinds of spec §6:
// ok, error:<code> - <text>, and // <text> info/data lines.
type Responder struct {
	w Writer
}

// NewResponder wraps w.
func NewResponder(w Writer) *Responder {
	return &Responder{w: w}
}

func (r *Responder) writeLine(s string) {
	r.w.Write([]byte(s))
	r.w.Write([]byte("\r\n"))
}

// Ok emits the single terminator every accepted input line eventually
// receives, exactly once.
func (r *Responder) Ok() {
	r.writeLine("ok")
}

// Error emits an error line for code. An optional override text replaces
// the default taxonomy text (spec §7 lists one default per code, but
// some codes carry situation-specific wording, e.g. code 3 differs
// between a jump-distance rejection and a soft-limit rejection).
func (r *Responder) Error(code int, text ...string) {
	msg := errorText[code]
	if len(text) > 0 {
		msg = text[0]
	}
	r.writeLine("error:" + strconv.Itoa(code) + " - " + msg)
}

// Info emits an informational line.
func (r *Responder) Info(text string) {
	r.writeLine("// " + text)
}

// Position emits the M114 position report.
func (r *Responder) Position(p point3d.Point3D) {
	r.writeLine("X:" + formatMm(p.X) + " Y:" + formatMm(p.Y) + " Z:" + formatMm(p.Z))
}

// Firmware emits the M115 identification line, also used unprompted as
// the boot banner (spec §6 "On reset the device emits the M115 banner
// unprompted").
func (r *Responder) Firmware(cfg config.MachineConfig) {
	r.writeLine(
		"FIRMWARE_NAME:" + config.FirmwareName +
			" FIRMWARE_VERSION:" + config.FirmwareVersion +
			" PROTOCOL_VERSION:" + config.ProtocolVersion +
			" MACHINE_TYPE:" + config.MachineType +
			" BOARD_TYPE:" + cfg.BoardType +
			" EXTRUDER_COUNT:0",
	)
}

// Endstops emits the M119 three-line endstop report.
func (r *Responder) Endstops(triggered [point3d.NumAxes]bool) {
	names := [point3d.NumAxes]string{"x_min", "y_min", "z_min"}
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		state := "open"
		if triggered[axis] {
			state = "TRIGGERED"
		}
		r.writeLine(names[axis] + ": " + state)
	}
}

// Settings emits the M503 settings report.
func (r *Responder) Settings(cfg config.MachineConfig) {
	axisNames := [point3d.NumAxes]string{"X", "Y", "Z"}
	for _, axis := range [...]point3d.Axis{point3d.X, point3d.Y, point3d.Z} {
		r.writeLine(
			"// " + axisNames[axis] +
				" steps/mm:" + formatMm(cfg.StepsPerMm[axis]) +
				" maxVel:" + formatMm(cfg.MaxVelocity[axis]) +
				" maxAccel:" + formatMm(cfg.MaxAccel[axis]) +
				" softMax:" + formatMm(cfg.SoftLimitMax[axis]),
		)
	}
}

// formatMm formats v with 2 decimal places, per spec §6's M114 example.
func formatMm(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 2, 32)
}
