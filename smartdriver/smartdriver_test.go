package smartdriver

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

type fakeComm struct {
	writes  map[uint8]uint32
	failOn  uint8
	hasFail bool
}

func newFakeComm() *fakeComm {
	return &fakeComm{writes: make(map[uint8]uint32)}
}

func (f *fakeComm) WriteRegister(register uint8, value uint32, driverIndex uint8) error {
	if f.hasFail && register == f.failOn {
		return CustomError("fake: write failed")
	}
	f.writes[register] = value
	return nil
}

func (f *fakeComm) ReadRegister(register uint8, driverIndex uint8) (uint32, error) {
	return f.writes[register], nil
}

func Test_setRunCurrentPacksIRun(t *testing.T) {
	c := qt.New(t)
	comm := newFakeComm()
	drv := NewDriver(comm, 0)

	c.Assert(drv.SetRunCurrent(100), qt.IsNil)
	r := comm.writes[regIholdIrun]
	c.Assert((r>>5)&0x1F, qt.Equals, uint32(31))
}

func Test_setHoldCurrentPacksIHold(t *testing.T) {
	c := qt.New(t)
	comm := newFakeComm()
	drv := NewDriver(comm, 0)

	c.Assert(drv.SetHoldCurrent(50), qt.IsNil)
	r := comm.writes[regIholdIrun]
	c.Assert(r&0x1F, qt.Equals, uint32(15))
}

func Test_setMicrostepsPacksMres(t *testing.T) {
	c := qt.New(t)
	comm := newFakeComm()
	drv := NewDriver(comm, 0)

	c.Assert(drv.SetMicrosteps(16), qt.IsNil)
	r := comm.writes[regChopconf]
	c.Assert((r>>24)&0x0F, qt.Equals, uint32(4))
	c.Assert(r&0x0F, qt.Equals, uint32(3)) // toff default preserved
}

func Test_disableSetsToffZero(t *testing.T) {
	c := qt.New(t)
	comm := newFakeComm()
	drv := NewDriver(comm, 0)

	c.Assert(drv.Disable(), qt.IsNil)
	r := comm.writes[regChopconf]
	c.Assert(r&0x0F, qt.Equals, uint32(0))
}

func Test_configureWiresAllThreeSettings(t *testing.T) {
	c := qt.New(t)
	comm := newFakeComm()
	drv := NewDriver(comm, 3)

	c.Assert(drv.Configure(80, 30, 32), qt.IsNil)

	ir := comm.writes[regIholdIrun]
	c.Assert((ir>>5)&0x1F, qt.Equals, percentToIRunIHold(80))
	c.Assert(ir&0x1F, qt.Equals, percentToIRunIHold(30))

	cc := comm.writes[regChopconf]
	c.Assert((cc>>24)&0x0F, qt.Equals, uint32(3))
}

func Test_writeFailurePropagates(t *testing.T) {
	c := qt.New(t)
	comm := newFakeComm()
	comm.hasFail = true
	comm.failOn = regIholdIrun
	drv := NewDriver(comm, 0)

	c.Assert(drv.SetRunCurrent(50), qt.Not(qt.IsNil))
}
