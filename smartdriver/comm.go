// Package smartdriver configures a TMC2209 smart stepper driver's run
// current, hold current, and microstep resolution over its UART
// register interface. It deliberately never writes VACTUAL or RAMPMODE
// and never reads back step position: the core stepper.Channel in the
// stepper package remains the sole step clock (spec §5), and this
// package is an optional layer underneath it, adapted from the
// teacher's tmc2209 package down to the subset of registers the
// current/microstep concern touches.
package smartdriver

// CustomError is a lightweight error type, avoiding fmt.Errorf's flash
// cost on a target this constrained.
type CustomError string

func (e CustomError) Error() string { return string(e) }

// RegisterComm is the narrow bus surface a Driver needs: one register
// write, one register read, both addressed by the driver's UART slave
// address. machine.UART-backed UARTComm below satisfies it; tests use a
// fake.
type RegisterComm interface {
	WriteRegister(register uint8, value uint32, driverIndex uint8) error
	ReadRegister(register uint8, driverIndex uint8) (uint32, error)
}
