package smartdriver

// Driver configures one TMC2209 over a RegisterComm bus. It tracks the
// unpacked register fields so a later call to SetRunCurrent or
// SetMicrosteps only has to repack and rewrite the one register that
// changed, rather than requiring every caller to supply the full set
// each time.
type Driver struct {
	comm        RegisterComm
	driverIndex uint8

	ihold      uint32
	irun       uint32
	iholddelay uint32

	toff uint32
	mres uint32
}

// NewDriver wraps comm for the driver addressed by driverIndex on a
// shared UART bus (multiple TMC2209s can share one UART, distinguished
// by slave address).
func NewDriver(comm RegisterComm, driverIndex uint8) *Driver {
	return &Driver{
		comm:        comm,
		driverIndex: driverIndex,
		toff:        3, // driver enabled, default off-time per datasheet
		iholddelay:  1,
	}
}

func (drv *Driver) writeIholdIrun() error {
	r := ihold{Ihold: drv.ihold, Irun: drv.irun, Iholddelay: drv.iholddelay}
	return writeRegister(drv.comm, regIholdIrun, drv.driverIndex, r.pack())
}

func (drv *Driver) writeChopconf() error {
	r := chopconf{Toff: drv.toff, Mres: drv.mres}
	return writeRegister(drv.comm, regChopconf, drv.driverIndex, r.pack())
}

// mresFromMicrosteps maps a microstep count to CHOPCONF's MRES field;
// unsupported counts fall back to full step (Mres=8).
func mresFromMicrosteps(microsteps uint16) uint32 {
	switch microsteps {
	case 256:
		return 0
	case 128:
		return 1
	case 64:
		return 2
	case 32:
		return 3
	case 16:
		return 4
	case 8:
		return 5
	case 4:
		return 6
	case 2:
		return 7
	default:
		return 8
	}
}

// SetMicrosteps writes CHOPCONF's MRES field. The stepper package's own
// step counters must already assume this resolution; Configure is the
// usual entry point so the two stay in sync.
func (drv *Driver) SetMicrosteps(microsteps uint16) error {
	drv.mres = mresFromMicrosteps(microsteps)
	return drv.writeChopconf()
}

// Disable sets CHOPCONF's TOFF to 0, cutting the driver's motor outputs
// without touching the stepper channel's own step/direction state.
func (drv *Driver) Disable() error {
	drv.toff = 0
	return drv.writeChopconf()
}

// Enable restores TOFF to its default enabled value.
func (drv *Driver) Enable() error {
	drv.toff = 3
	return drv.writeChopconf()
}

// Configure sets run current, hold current, and microstep resolution in
// one pass, the normal startup sequence for a channel using a smart
// driver instead of a plain step/dir driver.
func (drv *Driver) Configure(runPercent, holdPercent uint8, microsteps uint16) error {
	if err := drv.SetRunCurrent(runPercent); err != nil {
		return err
	}
	if err := drv.SetHoldCurrent(holdPercent); err != nil {
		return err
	}
	return drv.SetMicrosteps(microsteps)
}
